package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rotisserie/eris"

	"github.com/sells-group/analyst-cli/internal/model"
)

// DisplayTimeLayout is used for "Generated:" lines.
const DisplayTimeLayout = "2006-01-02 15:04:05"

const maxCSVValue = 1000

type envelope struct {
	Timestamp    string        `json:"timestamp"`
	AnalysisData *model.Result `json:"analysis_data"`
	GeneratedBy  string        `json:"generated_by"`
}

func renderJSON(result *model.Result, generated time.Time) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	err := enc.Encode(envelope{
		Timestamp:    generated.Format(model.TimestampLayout),
		AnalysisData: result,
		GeneratedBy:  GeneratedBy,
	})
	if err != nil {
		return nil, eris.Wrap(err, "report: encode json")
	}
	return buf.Bytes(), nil
}

func renderText(result *model.Result, generated time.Time) []byte {
	var b strings.Builder
	rule := strings.Repeat("=", 80)
	b.WriteString(rule + "\n")
	b.WriteString(strings.ToUpper(Title) + "\n")
	b.WriteString(rule + "\n")
	b.WriteString("Generated: " + generated.Format(DisplayTimeLayout) + "\n\n")

	for _, f := range result.Fields() {
		b.WriteString(strings.ToUpper(strings.ReplaceAll(f.Key, "_", " ")) + ":\n")
		b.WriteString(strings.Repeat("-", 40) + "\n")
		b.WriteString(model.FormatValue(f.Value) + "\n\n")
	}
	return []byte(b.String())
}

func renderCSV(result *model.Result, generated time.Time) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	stamp := generated.Format(DisplayTimeLayout)
	rows := [][]string{{"Timestamp", "Field", "Value"}}
	for _, f := range result.Fields() {
		rows = append(rows, []string{stamp, Heading(f.Key), truncateRunes(model.FormatValue(f.Value), maxCSVValue)})
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, eris.Wrap(err, "report: write csv")
	}
	return buf.Bytes(), nil
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
