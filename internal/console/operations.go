package console

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/analyst-cli/internal/analysis"
	"github.com/sells-group/analyst-cli/internal/catalog"
	"github.com/sells-group/analyst-cli/internal/llm"
	"github.com/sells-group/analyst-cli/internal/model"
	"github.com/sells-group/analyst-cli/internal/scrape"
	"github.com/sells-group/analyst-cli/pkg/firecrawl"
)

// Analyze runs the single website analysis flow.
func (a *App) Analyze(ctx context.Context) {
	a.out.Title("SINGLE WEBSITE ANALYSIS")
	if !a.requireModels() {
		return
	}

	for {
		url, ok := a.ask("Enter website URL: ")
		if !ok {
			return
		}

		a.out.Println("\nWhat would you like to analyze? Examples:")
		a.out.Println("  • What is this company's main focus?")
		a.out.Println("  • Summarize the key features of their product")
		a.out.Println("  • What are their pricing options?")
		a.out.Println("  • Who are their target customers?")
		task, ok := a.ask("\nAnalysis task: ")
		if !ok {
			return
		}

		name := a.selectModel(model.CategoryGeneral)
		if name == "" {
			return
		}

		rep, err := a.svc.Analyze(ctx, url, task, name)
		if errors.Is(err, scrape.ErrThinContent) {
			a.out.Warn("Warning: Very little content found")
			if confirm(a.in, "Try a different URL?") {
				continue
			}
			return
		}
		if err != nil {
			if a.handleError(ctx, err, "website analysis") {
				continue
			}
			return
		}

		a.out.Title("ANALYSIS RESULTS")
		a.out.Field("Website", rep.URL)
		a.out.Field("Task", task)
		a.out.Field("Model", name)
		pt, _ := rep.Result.GetString("processing_time")
		a.out.Field("Processing Time", pt)
		a.out.Rule("-")
		text, _ := rep.Result.GetString("analysis")
		a.out.Markdown(text)
		a.out.Rule("=")

		a.save(rep)
		return
	}
}

// Compare runs the model comparison flow.
func (a *App) Compare(ctx context.Context) {
	a.out.Title("MODEL COMPARISON")
	working := a.svc.Catalog().Working()
	if len(working) < 2 {
		a.out.Error(fmt.Sprintf("Need at least 2 models for comparison. You have %d.", len(working)))
		a.out.Hint("Install more models with: ollama pull <model-name>")
		return
	}

	for {
		url, ok := a.ask("Enter website URL to analyze: ")
		if !ok {
			return
		}
		task, ok := a.ask("What should all models analyze? ")
		if !ok {
			return
		}

		cat := a.svc.Catalog()
		a.out.Printf("\nSelect models to compare from your %d available models:\n", len(working))
		a.out.Println("Enter numbers separated by commas (e.g., 1,2,4):")
		for i, name := range working {
			a.out.Printf("%d. %s%s\n", i+1, name, cat.SizeLabel(name))
		}
		choices, ok := a.ask("\nModels to compare: ")
		if !ok {
			return
		}
		selected := parseIndexes(choices, working)
		if len(selected) < 2 {
			a.out.Error("Need at least 2 valid models for comparison.")
			return
		}
		a.out.Success(fmt.Sprintf("Comparing %d models: %s", len(selected), strings.Join(selected, ", ")))

		rep, err := a.svc.Compare(ctx, url, task, selected)
		if err != nil {
			if a.handleError(ctx, err, "model comparison") {
				continue
			}
			return
		}

		a.out.Title("MODEL COMPARISON RESULTS")
		a.out.Field("Website", rep.URL)
		a.out.Field("Task", task)
		a.out.Rule("=")
		times, _ := rep.Result.Get("processing_times")
		for _, name := range selected {
			elapsed := ""
			if t, ok := times.(*model.Result); ok {
				elapsed, _ = t.GetString(name)
			}
			a.out.Printf("\n%s (%s):\n", strings.ToUpper(name), elapsed)
			a.out.Rule("-")
			text, _ := rep.Result.GetString(name + "_analysis")
			a.out.Markdown(text)
		}
		a.out.Rule("=")

		a.save(rep)
		return
	}
}

// Extract runs the structured data extraction flow.
func (a *App) Extract(ctx context.Context) {
	a.out.Title("STRUCTURED DATA EXTRACTION")
	if !a.requireModels() {
		return
	}

	for {
		url, ok := a.ask("Enter website URL: ")
		if !ok {
			return
		}

		a.out.Println("\nWhat data would you like to extract? Examples:")
		a.out.Println("  • Company info (name, products, contact)")
		a.out.Println("  • Product features and pricing")
		a.out.Println("  • Team member names and roles")
		a.out.Println("  • Article titles and summaries")
		dataType, ok := a.ask("\nWhat to extract: ")
		if !ok {
			return
		}

		if name, ok := a.svc.Catalog().Recommendation(model.TaskCoding); ok {
			a.out.Info(fmt.Sprintf("Using %s for structured extraction", name))
		}

		rep, err := a.svc.Extract(ctx, url, dataType)
		if err != nil {
			if a.handleError(ctx, err, "data extraction") {
				continue
			}
			return
		}

		a.out.Title("EXTRACTED DATA")
		a.out.Field("Website", rep.URL)
		a.out.Field("Data Type", strings.TrimSpace(dataType))
		name, _ := rep.Result.GetString("model")
		a.out.Field("Model", name)
		a.out.Rule("-")
		data, _ := rep.Result.GetString("extracted_data")
		a.out.Println(data)
		a.out.Rule("=")

		a.save(rep)
		return
	}
}

// ask prompts for a non-empty answer. ok is false on cancel or empty input.
func (a *App) ask(prompt string) (string, bool) {
	answer, err := a.in.Ask(prompt)
	if err != nil {
		a.out.Println("\nOperation cancelled by user.")
		return "", false
	}
	return answer, answer != ""
}

func (a *App) requireModels() bool {
	if err := a.svc.Catalog().Require(); err != nil {
		a.out.Error("No working models available")
		a.out.Hint("Try: " + catalog.PullHint)
		return false
	}
	return true
}

// handleError reports err with a hint and asks whether to retry. Model
// problems trigger a model refresh.
func (a *App) handleError(ctx context.Context, err error, operation string) bool {
	zap.L().Error("operation failed", zap.String("operation", operation), zap.Error(err))
	a.out.Error(fmt.Sprintf("Error in %s: %v", operation, err))

	switch hintFor(err) {
	case hintTimeout:
		a.out.Hint("Timeout - try a simpler/faster website")
	case hintAPIKey:
		a.out.Hint("Check your Firecrawl API key")
	case hintModel:
		a.out.Hint("Model issue - try refreshing models")
		a.Refresh(ctx)
	}

	return confirm(a.in, "\nTry again?")
}

type hint int

const (
	hintNone hint = iota
	hintTimeout
	hintAPIKey
	hintModel
)

func hintFor(err error) hint {
	msg := strings.ToLower(err.Error())
	var apiErr *firecrawl.APIError
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		llm.IsChatFailure(err, llm.FailureTimeout),
		strings.Contains(msg, "timeout"):
		return hintTimeout
	case errors.As(err, &apiErr) && isAuthStatus(apiErr.StatusCode),
		errors.Is(err, scrape.ErrKeyRejected),
		strings.Contains(msg, "api key"):
		return hintAPIKey
	case errors.Is(err, catalog.ErrNoWorkingModels),
		errors.Is(err, analysis.ErrModelNotWorking),
		llm.IsChatFailure(err, llm.FailureModelNotFound),
		strings.Contains(msg, "model"):
		return hintModel
	}
	return hintNone
}

func isAuthStatus(code int) bool {
	switch code {
	case http.StatusUnauthorized, http.StatusPaymentRequired, http.StatusForbidden:
		return true
	}
	return false
}
