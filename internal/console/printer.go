package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const ruleWidth = 60

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	hintStyle    = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("111"))
	labelStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Printer writes console output. A plain Printer skips styling and markdown
// rendering.
type Printer struct {
	w     io.Writer
	plain bool
	md    *glamour.TermRenderer
}

// NewPrinter returns a styled Printer. Markdown is rendered with glamour
// when a renderer can be built.
func NewPrinter(w io.Writer) *Printer {
	p := &Printer{w: w}
	if r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100)); err == nil {
		p.md = r
	}
	return p
}

// NewPlainPrinter returns a Printer without styling.
func NewPlainPrinter(w io.Writer) *Printer {
	return &Printer{w: w, plain: true}
}

func (p *Printer) style(s lipgloss.Style, text string) string {
	if p.plain {
		return text
	}
	return s.Render(text)
}

// Println writes a line as is.
func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.w, a...)
}

// Printf writes formatted text as is.
func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.w, format, a...)
}

// Title writes a framed section heading.
func (p *Printer) Title(text string) {
	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintf(p.w, "\n%s\n%s\n%s\n", rule, p.style(titleStyle, text), rule)
}

// Rule writes a separator line of ch.
func (p *Printer) Rule(ch string) {
	fmt.Fprintln(p.w, p.style(mutedStyle, strings.Repeat(ch, ruleWidth)))
}

// Field writes "label: value".
func (p *Printer) Field(label, value string) {
	fmt.Fprintf(p.w, "%s %s\n", p.style(labelStyle, label+":"), value)
}

func (p *Printer) Success(text string) { fmt.Fprintln(p.w, p.style(successStyle, "✓ "+text)) }
func (p *Printer) Warn(text string)    { fmt.Fprintln(p.w, p.style(warnStyle, "! "+text)) }
func (p *Printer) Error(text string)   { fmt.Fprintln(p.w, p.style(errorStyle, "✗ "+text)) }
func (p *Printer) Hint(text string)    { fmt.Fprintln(p.w, p.style(hintStyle, "hint: "+text)) }
func (p *Printer) Info(text string)    { fmt.Fprintln(p.w, text) }

// Markdown writes model output, rendered when styling is on.
func (p *Printer) Markdown(text string) {
	if !p.plain && p.md != nil {
		if out, err := p.md.Render(text); err == nil {
			fmt.Fprint(p.w, out)
			return
		}
	}
	fmt.Fprintln(p.w, strings.TrimRight(text, "\n"))
}
