package analysis

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/analyst-cli/internal/model"
	"github.com/sells-group/analyst-cli/internal/scrape"
)

const (
	analystPrompt    = "You are an expert analyst. Provide clear, structured insights based on website content."
	comparePrompt    = "You are an expert analyst. Be concise but thorough."
	schemaPrompt     = "You are a data extraction expert. Create clear, practical JSON schemas."
	extractionPrompt = "You are a data extraction expert. Always return valid JSON."

	analyzeTemperature = 0.3
	compareTemperature = 0.2
	extractTemperature = 0.1
)

// Analyze scrapes url and asks modelName to perform task on the page. An
// empty modelName picks the first general-purpose model.
func (s *Service) Analyze(ctx context.Context, url, task, modelName string) (*Report, error) {
	cat := s.Catalog()
	if err := cat.Require(); err != nil {
		return nil, err
	}
	task, err := trimTask(task)
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = cat.Candidates(model.CategoryGeneral)[0]
	}
	if err := s.requireWorking(cat, modelName); err != nil {
		return nil, err
	}

	url = scrape.NormalizeURL(url)
	id, log := newOp(TypeAnalysis, url)

	page, err := s.fetch(ctx, log, url)
	if err != nil {
		return nil, err
	}
	if err := scrape.CheckContent(page.Markdown, s.limits.MinContent); err != nil {
		return nil, err
	}

	originalLength := utf8.RuneCountInString(page.Markdown)
	content := scrape.Truncate(page.Markdown, s.limits.MaxContent)
	s.progress(StepScraped, fmt.Sprint(utf8.RuneCountInString(content)))

	answer, elapsed, err := s.ask(ctx, modelName, analystPrompt,
		fmt.Sprintf("Task: %s\n\nWebsite Content:\n%s", task, content), analyzeTemperature)
	if err != nil {
		return nil, eris.Wrap(err, "analysis: analyze")
	}

	result := model.NewResult().
		Set("url", url).
		Set("task", task).
		Set("model", modelName).
		Set("content_length", originalLength).
		Set("processing_time", fmt.Sprintf("%.1f seconds", elapsed.Seconds())).
		Set("analysis", answer).
		Stamp(s.now()).
		Set("system_info", model.NewResult().
			Set("total_models_available", len(cat.Working())).
			Set("model_categories", cat.CategoryNames()))

	log.Info("analysis complete", zap.String("model", modelName), zap.Duration("elapsed", elapsed))
	return &Report{ID: id, Type: TypeAnalysis, URL: url, Source: page.Source, Result: result}, nil
}

// Compare scrapes url once and asks each model in models to perform task.
// Duplicate names are asked once.
func (s *Service) Compare(ctx context.Context, url, task string, models []string) (*Report, error) {
	cat := s.Catalog()
	if err := cat.Require(); err != nil {
		return nil, err
	}
	if len(cat.Working()) < 2 {
		return nil, eris.Wrap(ErrNeedTwoModels, fmt.Sprintf("%d working", len(cat.Working())))
	}
	task, err := trimTask(task)
	if err != nil {
		return nil, err
	}

	var selected []string
	for _, m := range models {
		if err := s.requireWorking(cat, m); err != nil {
			return nil, err
		}
		if !slices.Contains(selected, m) {
			selected = append(selected, m)
		}
	}
	if len(selected) < 2 {
		return nil, eris.Wrap(ErrNeedTwoModels, fmt.Sprintf("%d selected", len(selected)))
	}

	url = scrape.NormalizeURL(url)
	id, log := newOp(TypeComparison, url)

	page, err := s.fetch(ctx, log, url)
	if err != nil {
		return nil, err
	}
	content := scrape.Cap(page.Markdown, s.limits.CompareContent)
	s.progress(StepScraped, fmt.Sprint(utf8.RuneCountInString(content)))

	result := model.NewResult().
		Set("url", url).
		Set("task", task).
		Set("models_compared", selected).
		Stamp(s.now()).
		Set("system_info", model.NewResult().
			Set("total_models_available", len(cat.Working())).
			Set("comparison_count", len(selected)))

	times := model.NewResult()
	user := fmt.Sprintf("Task: %s\n\nContent:\n%s", task, content)
	for _, m := range selected {
		answer, elapsed, err := s.ask(ctx, m, comparePrompt, user, compareTemperature)
		if err != nil {
			return nil, eris.Wrap(err, fmt.Sprintf("analysis: compare with %s", m))
		}
		result.Set(m+"_analysis", answer)
		times.Set(m, fmt.Sprintf("%.1fs", elapsed.Seconds()))
	}
	result.Set("processing_times", times)

	log.Info("comparison complete", zap.Strings("models", selected))
	return &Report{ID: id, Type: TypeComparison, URL: url, Source: page.Source, Result: result}, nil
}

// Extract asks the recommended coding model for a schema describing
// dataType, then extracts that data from the page as JSON.
func (s *Service) Extract(ctx context.Context, url, dataType string) (*Report, error) {
	cat := s.Catalog()
	if err := cat.Require(); err != nil {
		return nil, err
	}
	dataType = strings.TrimSpace(dataType)
	if dataType == "" {
		return nil, eris.New("analysis: data type is required")
	}

	modelName, ok := cat.Recommendation(model.TaskCoding)
	if !ok {
		modelName = cat.Working()[0]
	}

	url = scrape.NormalizeURL(url)
	id, log := newOp(TypeExtraction, url)
	log = log.With(zap.String("model", modelName))

	s.progress(StepSchema, dataType)
	schema, _, err := s.ask(ctx, modelName, schemaPrompt, fmt.Sprintf(
		"Create a JSON schema to extract %s from website content.\n"+
			"Make it practical and useful. Return only the schema description, not actual JSON.", dataType),
		extractTemperature)
	if err != nil {
		return nil, eris.Wrap(err, "analysis: create schema")
	}

	page, err := s.fetch(ctx, log, url)
	if err != nil {
		return nil, err
	}
	content := scrape.Cap(page.Markdown, s.limits.MaxContent)
	s.progress(StepScraped, fmt.Sprint(utf8.RuneCountInString(content)))

	extracted, elapsed, err := s.ask(ctx, modelName, extractionPrompt, fmt.Sprintf(
		"Extract %s from the website content below.\n"+
			"Use this schema as a guide: %s\n\n"+
			"Return valid JSON only, no extra text.\n\n"+
			"Website Content:\n%s", dataType, schema, content),
		extractTemperature)
	if err != nil {
		return nil, eris.Wrap(err, "analysis: extract")
	}

	result := model.NewResult().
		Set("url", url).
		Set("data_type", dataType).
		Set("schema", schema).
		Set("extracted_data", extracted).
		Stamp(s.now()).
		Set("model", modelName).
		Set("system_info", model.NewResult().
			Set("recommended_model_used", true).
			Set("model_category", string(model.CategoryCoding)))

	log.Info("extraction complete", zap.Duration("elapsed", elapsed))
	return &Report{ID: id, Type: TypeExtraction, URL: url, Source: page.Source, Result: result}, nil
}
