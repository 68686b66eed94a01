// Package analysis runs the scrape-then-ask operations: single page
// analysis, model comparison and structured extraction.
package analysis

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/analyst-cli/internal/catalog"
	"github.com/sells-group/analyst-cli/internal/llm"
	"github.com/sells-group/analyst-cli/internal/model"
	"github.com/sells-group/analyst-cli/internal/scrape"
)

// Report types, used as file name prefixes.
const (
	TypeAnalysis   = "website_analysis"
	TypeComparison = "model_comparison"
	TypeExtraction = "data_extraction"
)

var (
	// ErrNeedTwoModels is returned by Compare with fewer than two working
	// or selected models.
	ErrNeedTwoModels = eris.New("analysis: comparison needs at least 2 models")
	// ErrModelNotWorking is returned when the requested model did not
	// pass the probe.
	ErrModelNotWorking = eris.New("analysis: model is not a working model")
)

// Chatter runs chat completions. llm.Runtime satisfies it.
type Chatter interface {
	Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error)
}

// Limits bound the page content sent to models.
type Limits struct {
	// MaxContent caps analysis and extraction input.
	MaxContent int
	// CompareContent caps comparison input.
	CompareContent int
	// MinContent is the least trimmed text a page must have.
	MinContent int
}

// DefaultLimits returns the stock content limits.
func DefaultLimits() Limits {
	return Limits{MaxContent: 4000, CompareContent: 3500, MinContent: 50}
}

// Step identifies a progress event.
type Step int

const (
	StepScraping Step = iota
	StepScraped
	StepModelStart
	StepModelDone
	StepSchema
)

// Progress receives progress events. detail depends on the step: the URL,
// the scraped character count, the model name, or the model name with its
// elapsed time.
type Progress func(step Step, detail string)

// Report is the outcome of one operation.
type Report struct {
	ID     string
	Type   string
	URL    string
	Source string
	Result *model.Result
}

// Service runs analyses against the current catalog.
type Service struct {
	scraper scrape.Scraper
	chat    Chatter
	limits  Limits
	now     func() time.Time

	mu  sync.RWMutex
	cat *catalog.Catalog

	// Progress, when set, is told about each step.
	Progress Progress
}

// NewService returns a Service. The catalog starts empty; call UseCatalog
// after each refresh.
func NewService(scraper scrape.Scraper, chat Chatter, limits Limits) *Service {
	d := DefaultLimits()
	if limits.MaxContent <= 0 {
		limits.MaxContent = d.MaxContent
	}
	if limits.CompareContent <= 0 {
		limits.CompareContent = d.CompareContent
	}
	if limits.MinContent <= 0 {
		limits.MinContent = d.MinContent
	}
	return &Service{
		scraper: scraper,
		chat:    chat,
		limits:  limits,
		now:     time.Now,
		cat:     catalog.New(nil, nil, nil),
	}
}

// UseCatalog replaces the catalog snapshot.
func (s *Service) UseCatalog(c *catalog.Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cat = c
}

// Catalog returns the current catalog snapshot.
func (s *Service) Catalog() *catalog.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cat
}

// DefaultModel returns the model used when none is chosen: the first
// general-purpose model, else the first working one.
func (s *Service) DefaultModel() (string, error) {
	cat := s.Catalog()
	if err := cat.Require(); err != nil {
		return "", err
	}
	return cat.Candidates(model.CategoryGeneral)[0], nil
}

func (s *Service) progress(step Step, detail string) {
	if s.Progress != nil {
		s.Progress(step, detail)
	}
}

// fetch normalizes url and scrapes it.
func (s *Service) fetch(ctx context.Context, log *zap.Logger, url string) (*scrape.Result, error) {
	s.progress(StepScraping, url)
	start := time.Now()
	page, err := s.scraper.Scrape(ctx, url)
	if err != nil {
		return nil, err
	}
	log.Info("page scraped",
		zap.String("source", page.Source),
		zap.Int("chars", utf8.RuneCountInString(page.Markdown)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return page, nil
}

// ask runs one chat and reports its duration.
func (s *Service) ask(ctx context.Context, name, system, user string, temperature float64) (string, time.Duration, error) {
	s.progress(StepModelStart, name)
	start := time.Now()
	resp, err := s.chat.Chat(ctx, llm.ChatRequest{
		Model:       name,
		Messages:    []llm.Message{llm.System(system), llm.User(user)},
		Temperature: llm.Float(temperature),
	})
	elapsed := time.Since(start)
	if err != nil {
		return "", elapsed, err
	}
	s.progress(StepModelDone, fmt.Sprintf("%s (%.1fs)", name, elapsed.Seconds()))
	return resp.Content, elapsed, nil
}

func (s *Service) requireWorking(cat *catalog.Catalog, name string) error {
	if !slices.Contains(cat.Working(), name) {
		return eris.Wrap(ErrModelNotWorking, name)
	}
	return nil
}

func newOp(kind, url string) (string, *zap.Logger) {
	id := uuid.NewString()
	return id, zap.L().With(
		zap.String("op_id", id),
		zap.String("op", kind),
		zap.String("url", url),
	)
}

func trimTask(task string) (string, error) {
	task = strings.TrimSpace(task)
	if task == "" {
		return "", eris.New("analysis: task is required")
	}
	return task, nil
}
