package report

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/sells-group/analyst-cli/internal/model"
)

// FileTimestampLayout stamps report file names.
const FileTimestampLayout = "20060102_150405"

const maxURLPart = 30

// Filename returns the report path for an analysis:
// {dir}/{analysisType}_{sanitizedURL}_{YYYYMMDD_HHMMSS}.{ext}, or
// {dir}/{analysisType}_{YYYYMMDD_HHMMSS}.{ext} without a URL.
func Filename(dir, analysisType, url string, t time.Time, f model.Format) string {
	stamp := t.Format(FileTimestampLayout)
	name := analysisType + "_" + stamp
	if part := SanitizeURL(url); part != "" {
		name = analysisType + "_" + part + "_" + stamp
	}
	return filepath.Join(dir, name+"."+f.Extension())
}

var urlReplacer = strings.NewReplacer("https://", "", "http://", "", "/", "_", ":", "")

// SanitizeURL makes url safe for a file name: the scheme is stripped,
// slashes become underscores, colons are dropped and the result is cut to
// 30 characters.
func SanitizeURL(url string) string {
	s := []rune(urlReplacer.Replace(url))
	if len(s) > maxURLPart {
		s = s[:maxURLPart]
	}
	return string(s)
}
