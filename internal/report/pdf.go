package report

import (
	"bytes"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/charmap"

	"github.com/sells-group/analyst-cli/internal/model"
)

// renderPDF lays out the result on A4 pages with the core Helvetica font.
// The core fonts only cover cp1252, so a result with any other character is
// reported as ErrPDFUnavailable rather than rendered with gaps.
func (r *Renderer) renderPDF(result *model.Result, generated time.Time) (data []byte, err error) {
	if !r.pdf {
		return nil, eris.Wrap(ErrPDFUnavailable, "disabled by configuration")
	}
	if ch, ok := unencodable(result); ok {
		return nil, eris.Wrapf(ErrPDFUnavailable, "character %q outside cp1252", ch)
	}
	defer func() {
		if p := recover(); p != nil {
			data, err = nil, eris.Wrapf(ErrPDFUnavailable, "engine panic: %v", p)
		}
	}()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(Title, true)
	pdf.SetCreator(GeneratedBy, true)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 24)
	pdf.MultiCell(0, 11, tr(Title), "", "C", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, "Generated: "+generated.Format(DisplayTimeLayout), "", "L", false)
	pdf.Ln(6)

	for _, f := range result.Fields() {
		pdf.SetFont("Helvetica", "B", 16)
		pdf.MultiCell(0, 8, tr(Heading(f.Key)), "", "L", false)
		pdf.Ln(3)

		pdf.SetFont("Helvetica", "", 11)
		for _, para := range paragraphs(model.FormatValue(f.Value)) {
			pdf.MultiCell(0, 6, tr(para), "", "L", false)
			pdf.Ln(3)
		}
		pdf.Ln(5)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, eris.Wrap(ErrPDFUnavailable, err.Error())
	}
	if buf.Len() == 0 {
		return nil, eris.Wrap(ErrPDFUnavailable, "empty output")
	}
	return buf.Bytes(), nil
}

// paragraphs splits s on blank lines and drops empty paragraphs.
func paragraphs(s string) []string {
	var out []string
	for _, p := range strings.Split(s, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// unencodable returns the first rune of a heading or value that cp1252
// cannot represent.
func unencodable(result *model.Result) (rune, bool) {
	for _, f := range result.Fields() {
		for _, s := range []string{Heading(f.Key), model.FormatValue(f.Value)} {
			for _, ch := range s {
				if _, ok := charmap.Windows1252.EncodeRune(ch); !ok {
					return ch, true
				}
			}
		}
	}
	return 0, false
}
