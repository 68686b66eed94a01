// Package console implements the interactive menu: analysis, comparison,
// extraction, model listing, configuration and report saving.
package console

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sells-group/analyst-cli/internal/analysis"
	"github.com/sells-group/analyst-cli/internal/catalog"
	"github.com/sells-group/analyst-cli/internal/config"
	"github.com/sells-group/analyst-cli/internal/report"
)

const appTitle = "UNIVERSAL FIRECRAWL + OLLAMA SYSTEM"

// Refresher lists and probes the runtime's models.
type Refresher func(ctx context.Context) *catalog.Catalog

// App is the interactive menu.
type App struct {
	cfg      *config.Config
	svc      *analysis.Service
	refresh  Refresher
	renderer *report.Renderer
	in       Prompter
	out      *Printer
	now      func() time.Time
}

// NewApp returns an App. The service's progress events are printed.
func NewApp(cfg *config.Config, svc *analysis.Service, refresh Refresher, renderer *report.Renderer, in Prompter, out *Printer) *App {
	a := &App{
		cfg:      cfg,
		svc:      svc,
		refresh:  refresh,
		renderer: renderer,
		in:       in,
		out:      out,
		now:      time.Now,
	}
	svc.Progress = a.progress
	return a
}

func (a *App) progress(step analysis.Step, detail string) {
	switch step {
	case analysis.StepScraping:
		a.out.Info(fmt.Sprintf("Scraping %s...", detail))
	case analysis.StepScraped:
		a.out.Success(fmt.Sprintf("Scraped %s characters", detail))
	case analysis.StepModelStart:
		a.out.Info(fmt.Sprintf("Processing with %s...", detail))
	case analysis.StepModelDone:
		a.out.Success(detail + " completed")
	case analysis.StepSchema:
		a.out.Info(fmt.Sprintf("Creating extraction schema for: %s", detail))
	}
}

// Welcome prints the model overview shown at startup.
func (a *App) Welcome() {
	a.ShowModels()
	cat := a.svc.Catalog()
	a.out.Printf("\nSystem ready with %d working models!\n", len(cat.Working()))
	a.out.Printf("Reports will be saved to: %s/\n", a.cfg.ReportsDir)
}

// Run shows the main menu until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		a.menu()
		choice, ok, err := askInt(a.in, a.out, "\nSelect option (1-7): ")
		if errors.Is(err, ErrCancelled) {
			a.goodbye()
			return nil
		}
		if err != nil {
			return err
		}

		switch {
		case !ok:
			continue
		case choice == 1:
			a.Analyze(ctx)
		case choice == 2:
			a.Compare(ctx)
		case choice == 3:
			a.Extract(ctx)
		case choice == 4:
			a.ShowModels()
		case choice == 5:
			a.Refresh(ctx)
		case choice == 6:
			a.Settings()
		case choice == 7:
			a.goodbye()
			return nil
		default:
			a.out.Error("Please select a number between 1 and 7.")
			continue
		}

		if !confirm(a.in, "\nRun another operation?") {
			a.goodbye()
			return nil
		}
	}
	return ctx.Err()
}

func (a *App) menu() {
	cat := a.svc.Catalog()
	a.out.Title(appTitle)
	a.out.Printf("%d models ready | Reports: %s/\n", len(cat.Working()), a.cfg.ReportsDir)
	a.out.Println("\nChoose an option:")
	a.out.Println("1. Single Website Analysis")
	a.out.Println("2. Model Comparison")
	a.out.Println("3. Structured Data Extraction")
	a.out.Println("4. View Your Models")
	a.out.Println("5. Refresh Model List")
	a.out.Println("6. Configuration Settings")
	a.out.Println("7. Exit")
}

func (a *App) goodbye() {
	a.out.Println("\nThanks for using the Universal Firecrawl + Ollama System!")
}

// Refresh re-lists and re-probes the runtime's models.
func (a *App) Refresh(ctx context.Context) {
	a.out.Info("Refreshing model list...")
	cat := a.refresh(ctx)
	a.svc.UseCatalog(cat)
	if cat.Warning != "" {
		a.out.Warn(cat.Warning)
	}
	a.out.Success(fmt.Sprintf("Found %d working models", len(cat.Working())))
}
