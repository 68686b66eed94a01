package scrape

import (
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
)

// TruncationNotice is appended to content cut for analysis.
const TruncationNotice = "\n\n[Content truncated for analysis...]"

// ErrThinContent is returned when a page has too little text to analyze.
var ErrThinContent = eris.New("scrape: insufficient content")

// NormalizeURL trims raw and prefixes https:// when no http or https
// scheme is present.
func NormalizeURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}
	lower := strings.ToLower(u)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return u
	}
	return "https://" + u
}

// CheckContent returns ErrThinContent when markdown has fewer than min
// characters after trimming whitespace.
func CheckContent(markdown string, min int) error {
	if utf8.RuneCountInString(strings.TrimSpace(markdown)) < min {
		return ErrThinContent
	}
	return nil
}

// Truncate cuts s to limit characters and appends TruncationNotice when it
// was longer. A non-positive limit leaves s unchanged.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + TruncationNotice
}

// Cap cuts s to limit characters without a notice.
func Cap(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
