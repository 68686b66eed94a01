package report

import (
	"bytes"
	"html/template"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/analyst-cli/internal/model"
)

// ChartScript is the charting library referenced by html_charts reports.
const ChartScript = "https://cdn.jsdelivr.net/npm/chart.js"

// metadataKeys are shown in the metadata block rather than as sections.
var metadataKeys = map[string]bool{"url": true, "model": true, "timestamp": true}

type htmlSection struct {
	Heading string
	Body    string
}

type htmlPage struct {
	Title     string
	Charts    bool
	ChartSrc  string
	Generated string
	LongDate  string
	URL       string
	Model     string
	Sections  []htmlSection
}

var pageTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; margin: 0; padding: 20px; background-color: #f4f4f4; }
        .container { max-width: 1200px; margin: 0 auto; background: white; padding: 30px; border-radius: 10px; box-shadow: 0 0 10px rgba(0,0,0,0.1); }
        .header { text-align: center; color: #333; border-bottom: 3px solid #007acc; padding-bottom: 20px; margin-bottom: 30px; }
        .section { margin-bottom: 30px; padding: 20px; background: #f9f9f9; border-radius: 5px; border-left: 4px solid #007acc; }
        .section h2 { color: #007acc; margin-top: 0; }
        .metadata { background: #e7f3ff; padding: 15px; border-radius: 5px; margin-bottom: 20px; }
        .analysis-content { background: white; padding: 20px; border-radius: 5px; white-space: pre-wrap; font-family: 'Courier New', monospace; border: 1px solid #ddd; }
        .footer { text-align: center; margin-top: 30px; padding-top: 20px; border-top: 1px solid #ddd; color: #666; }
    </style>
{{- if .Charts}}
    <script src="{{.ChartSrc}}"></script>
{{- end}}
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>&#x1F525; {{.Title}}</h1>
            <p>Generated on {{.LongDate}}</p>
        </div>
        <div class="metadata">
            <h3>Report Information</h3>
            <p><strong>Generated:</strong> {{.Generated}}</p>
            <p><strong>System:</strong> Universal Firecrawl + Ollama Integration</p>
{{- if .URL}}
            <p><strong>Analyzed URL:</strong> <a href="{{.URL}}" target="_blank">{{.URL}}</a></p>
{{- end}}
{{- if .Model}}
            <p><strong>AI Model:</strong> {{.Model}}</p>
{{- end}}
        </div>
{{- range .Sections}}
        <div class="section">
            <h2>{{.Heading}}</h2>
            <div class="analysis-content">{{.Body}}</div>
        </div>
{{- end}}
        <div class="footer">
            <p>Report generated by <strong>Universal Firecrawl + Ollama Integration System</strong></p>
            <p>For more information, visit <a href="https://firecrawl.dev">Firecrawl</a> and <a href="https://ollama.com">Ollama</a></p>
        </div>
    </div>
</body>
</html>
`))

func renderHTML(result *model.Result, generated time.Time, charts bool) ([]byte, error) {
	page := htmlPage{
		Title:     Title,
		Charts:    charts,
		ChartSrc:  ChartScript,
		Generated: generated.Format(DisplayTimeLayout),
		LongDate:  generated.Format("2006-01-02 at 15:04:05"),
	}
	page.URL, _ = result.GetString("url")
	page.Model, _ = result.GetString("model")

	for _, f := range result.Fields() {
		if metadataKeys[f.Key] {
			continue
		}
		page.Sections = append(page.Sections, htmlSection{
			Heading: Heading(f.Key),
			Body:    model.FormatValue(f.Value),
		})
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, page); err != nil {
		return nil, eris.Wrap(err, "report: render html")
	}
	return buf.Bytes(), nil
}
