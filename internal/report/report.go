// Package report renders analysis results into report files.
package report

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/analyst-cli/internal/model"
)

// Fixed report text.
const (
	Title       = "Universal Firecrawl + Ollama Analysis Report"
	GeneratedBy = "Universal Firecrawl + Ollama System"
)

// ErrPDFUnavailable is returned by the pdf renderer when PDF output is
// disabled or the engine failed. Render and Write recover from it by
// producing html.
var ErrPDFUnavailable = eris.New("report: pdf rendering unavailable")

// Renderer turns a result into report bytes.
type Renderer struct {
	pdf bool
	now func() time.Time
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithPDF enables or disables the PDF engine.
func WithPDF(enabled bool) Option {
	return func(r *Renderer) { r.pdf = enabled }
}

// WithClock sets the clock used for generation timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

// New returns a Renderer with PDF output enabled.
func New(opts ...Option) *Renderer {
	r := &Renderer{pdf: true, now: time.Now}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Render renders result in format f and returns the bytes and the format
// actually produced, which is html when pdf was requested but unavailable.
func (r *Renderer) Render(result *model.Result, f model.Format) ([]byte, model.Format, error) {
	generated := r.now()

	switch f {
	case model.FormatJSON:
		b, err := renderJSON(result, generated)
		return b, f, err
	case model.FormatText:
		return renderText(result, generated), f, nil
	case model.FormatCSV:
		b, err := renderCSV(result, generated)
		return b, f, err
	case model.FormatHTML, model.FormatHTMLCharts:
		b, err := renderHTML(result, generated, f == model.FormatHTMLCharts)
		return b, f, err
	case model.FormatPDF:
		b, err := r.renderPDF(result, generated)
		if err == nil {
			return b, f, nil
		}
		if !errors.Is(err, ErrPDFUnavailable) {
			return nil, f, err
		}
		zap.L().Warn("pdf unavailable, rendering html instead", zap.Error(err))
		b, err = renderHTML(result, generated, false)
		return b, model.FormatHTML, err
	}
	return nil, f, eris.Errorf("report: unsupported format %q", f)
}

// Outcome describes a written report.
type Outcome struct {
	Path      string
	Requested model.Format
	Produced  model.Format
	// Fallback is true when Produced differs from Requested.
	Fallback bool
}

// Write renders result and writes it to path atomically. When pdf falls
// back to html the extension of path is replaced with .html.
func (r *Renderer) Write(path string, result *model.Result, f model.Format) (Outcome, error) {
	data, produced, err := r.Render(result, f)
	if err != nil {
		return Outcome{}, eris.Wrap(err, "report: render")
	}

	out := Outcome{Path: path, Requested: f, Produced: produced, Fallback: produced != f}
	if out.Fallback {
		out.Path = strings.TrimSuffix(path, filepath.Ext(path)) + "." + produced.Extension()
	}

	if err := writeAtomic(out.Path, data); err != nil {
		return Outcome{}, err
	}

	zap.L().Info("report written",
		zap.String("path", out.Path),
		zap.String("format", string(produced)),
		zap.Bool("fallback", out.Fallback),
		zap.Int("bytes", len(data)),
	)
	return out, nil
}

// writeAtomic writes data to a temp file next to path and renames it into
// place, so path holds either the full content or nothing.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrap(err, "report: create reports dir")
	}

	tmp, err := os.CreateTemp(dir, ".report-*")
	if err != nil {
		return eris.Wrap(err, "report: create temp file")
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return eris.Wrap(err, "report: write temp file")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return eris.Wrap(err, "report: sync temp file")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "report: close temp file")
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return eris.Wrap(err, "report: chmod temp file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return eris.Wrap(err, "report: rename into place")
	}
	return nil
}

var titleCaser = cases.Title(language.English)

// Heading turns a field key into a display heading: "content_length"
// becomes "Content Length".
func Heading(key string) string {
	return titleCaser.String(strings.ReplaceAll(key, "_", " "))
}
