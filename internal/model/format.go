package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Format is a report output format.
type Format string

const (
	FormatText       Format = "txt"
	FormatCSV        Format = "csv"
	FormatHTML       Format = "html"
	FormatPDF        Format = "pdf"
	FormatJSON       Format = "json"
	FormatHTMLCharts Format = "html_charts"
)

// AllFormats returns every format in menu order.
func AllFormats() []Format {
	return []Format{
		FormatText,
		FormatCSV,
		FormatHTML,
		FormatPDF,
		FormatJSON,
		FormatHTMLCharts,
	}
}

// ParseFormat parses a format name. "text" is accepted as an alias of "txt".
func ParseFormat(s string) (Format, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "text" {
		return FormatText, nil
	}
	for _, f := range AllFormats() {
		if string(f) == v {
			return f, nil
		}
	}
	return "", eris.Errorf("model: unknown format %q", s)
}

// Extension returns the file extension (without dot) for the format.
func (f Format) Extension() string {
	if f == FormatHTMLCharts {
		return "html"
	}
	return string(f)
}

// Label returns the menu label for the format.
func (f Format) Label() string {
	switch f {
	case FormatText:
		return "Text file (.txt)"
	case FormatCSV:
		return "CSV file (.csv)"
	case FormatHTML:
		return "HTML file (.html)"
	case FormatPDF:
		return "PDF file (.pdf)"
	case FormatJSON:
		return "JSON file (.json)"
	case FormatHTMLCharts:
		return "HTML with Charts (.html)"
	}
	return string(f)
}
