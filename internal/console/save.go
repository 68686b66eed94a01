package console

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/sells-group/analyst-cli/internal/analysis"
	"github.com/sells-group/analyst-cli/internal/model"
	"github.com/sells-group/analyst-cli/internal/report"
)

const dontSave = 7

// chooseFormat asks for a save format. Empty input picks the configured
// default; ok is false when the user does not want to save.
func (a *App) chooseFormat() (model.Format, bool) {
	formats := model.AllFormats()
	def := a.cfg.SaveFormat()

	a.out.Println("\nSave Report Options:")
	for i, f := range formats {
		a.out.Printf("%d. %s\n", i+1, f.Label())
	}
	a.out.Printf("%d. Don't save\n", dontSave)

	choice, ok, err := askInt(a.in, a.out, fmt.Sprintf("\nSelect save format (1-%d) [%s]: ", dontSave, def))
	switch {
	case err != nil:
		return "", false
	case !ok:
		return def, true
	case choice >= 1 && choice <= len(formats):
		return formats[choice-1], true
	}
	return "", false
}

// save offers to write rep in a chosen format.
func (a *App) save(rep *analysis.Report) {
	f, ok := a.chooseFormat()
	if !ok {
		a.out.Info("Report not saved (user choice)")
		return
	}

	path := report.Filename(a.cfg.ReportsDir, rep.Type, rep.URL, a.now(), f)
	outcome, err := a.renderer.Write(path, rep.Result, f)
	if err != nil {
		zap.L().Error("save report", zap.String("path", path), zap.Error(err))
		a.out.Error(fmt.Sprintf("Could not save report: %v", err))
		return
	}

	if outcome.Fallback {
		a.out.Warn("PDF generation is unavailable, saved as HTML instead.")
	}
	a.out.Success(fmt.Sprintf("%s saved: %s", outcome.Produced.Label(), outcome.Path))
	if outcome.Produced == model.FormatHTML || outcome.Produced == model.FormatHTMLCharts {
		if abs, err := filepath.Abs(outcome.Path); err == nil {
			a.out.Info("Open in browser: file://" + filepath.ToSlash(abs))
		}
	}
	a.out.Info(fmt.Sprintf("Report saved in: %s/", a.cfg.ReportsDir))
}
