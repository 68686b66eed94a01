// Package catalog discovers which installed models actually answer, groups
// them by inferred purpose and recommends one model per task.
package catalog

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/analyst-cli/internal/llm"
	"github.com/sells-group/analyst-cli/internal/model"
)

// ErrNoWorkingModels is returned by model-dependent operations when no
// installed model passed the probe.
var ErrNoWorkingModels = eris.New("catalog: no working models available")

// PullHint is shown alongside ErrNoWorkingModels.
const PullHint = "ollama pull llama3.2"

// Probe parameters.
const (
	probePrompt    = "Hi"
	probeMaxTokens = 3

	DefaultProbeTimeout = 10 * time.Second
)

// Lister lists installed models.
type Lister interface {
	ListModels(ctx context.Context) ([]model.ModelDescriptor, error)
}

// Prober runs a chat completion against a model.
type Prober interface {
	Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error)
}

// Source is both a Lister and a Prober. llm.Runtime satisfies it.
type Source interface {
	Lister
	Prober
}

// Options control catalog discovery.
type Options struct {
	// ProbeTimeout bounds each probe. Zero means DefaultProbeTimeout.
	ProbeTimeout time.Duration
	// Concurrency is the number of probes in flight. Values below 1 mean
	// strictly sequential.
	Concurrency int
	// Preferred maps task names to model names that override the
	// heuristic recommendation when working.
	Preferred map[string]string
}

// Catalog is a snapshot of the installed models and their usability.
type Catalog struct {
	descriptors     map[string]model.ModelDescriptor
	order           []string
	working         []string
	categories      map[model.Category][]string
	recommendations map[model.TaskKind]string

	// Warning is set when listing failed; the catalog is then empty.
	Warning string
}

// New builds a catalog from descriptors and the names among them that are
// working. Working names without a descriptor are dropped.
func New(descriptors []model.ModelDescriptor, working []string, preferred map[string]string) *Catalog {
	c := &Catalog{descriptors: make(map[string]model.ModelDescriptor, len(descriptors))}
	for _, d := range descriptors {
		if _, seen := c.descriptors[d.Name]; !seen {
			c.order = append(c.order, d.Name)
		}
		c.descriptors[d.Name] = d
	}
	for _, name := range working {
		if _, ok := c.descriptors[name]; ok && !slices.Contains(c.working, name) {
			c.working = append(c.working, name)
		}
	}
	c.categories = Categorize(c.working)
	c.recommendations = ApplyPreferred(c.categories, c.working, preferred)
	return c
}

// Refresh lists the installed models, probes each and builds a catalog.
// Refresh never fails: a listing error yields an empty catalog with Warning
// set.
func Refresh(ctx context.Context, src Source, opts Options) *Catalog {
	log := zap.L().With(zap.String("component", "catalog"))

	descriptors, err := src.ListModels(ctx)
	if err != nil {
		log.Warn("could not list models", zap.Error(err))
		c := New(nil, nil, nil)
		c.Warning = fmt.Sprintf("could not list models: %v", err)
		return c
	}

	start := time.Now()
	working := Probe(ctx, src, descriptors, opts)
	log.Info("models probed",
		zap.Int("installed", len(descriptors)),
		zap.Int("working", len(working)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return New(descriptors, working, opts.Preferred)
}

// Probe sends one minimal chat to each model and returns the names that
// answered without error, in input order. Probes are not retried.
func Probe(ctx context.Context, p Prober, descriptors []model.ModelDescriptor, opts Options) []string {
	timeout := opts.ProbeTimeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	limit := max(opts.Concurrency, 1)

	ok := make([]bool, len(descriptors))

	var g errgroup.Group
	g.SetLimit(limit)

	for i, d := range descriptors {
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			_, err := p.Chat(pctx, llm.ChatRequest{
				Model:     d.Name,
				Messages:  []llm.Message{llm.User(probePrompt)},
				MaxTokens: llm.Int(probeMaxTokens),
			})
			if err != nil {
				zap.L().Debug("model probe failed", zap.String("model", d.Name), zap.Error(err))
				return nil
			}
			ok[i] = true
			return nil
		})
	}
	_ = g.Wait()

	working := make([]string, 0, len(descriptors))
	for i, d := range descriptors {
		if ok[i] {
			working = append(working, d.Name)
		}
	}
	return working
}

// Require returns ErrNoWorkingModels when no model is working.
func (c *Catalog) Require() error {
	if len(c.working) == 0 {
		return ErrNoWorkingModels
	}
	return nil
}

// Descriptors returns all installed models in listing order.
func (c *Catalog) Descriptors() []model.ModelDescriptor {
	out := make([]model.ModelDescriptor, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.descriptors[name])
	}
	return out
}

// Descriptor returns the descriptor for name.
func (c *Catalog) Descriptor(name string) (model.ModelDescriptor, bool) {
	d, ok := c.descriptors[name]
	return d, ok
}

// Working returns the names of models that passed the probe.
func (c *Catalog) Working() []string {
	return slices.Clone(c.working)
}

// Categories returns the non-empty categories in display order with their
// members.
func (c *Catalog) Categories() []Group {
	var out []Group
	for _, cat := range model.AllCategories() {
		if names := c.categories[cat]; len(names) > 0 {
			out = append(out, Group{Category: cat, Models: slices.Clone(names)})
		}
	}
	return out
}

// Group is one category and its models.
type Group struct {
	Category model.Category `json:"category"`
	Models   []string       `json:"models"`
}

// CategoryNames returns the names of the non-empty categories in display
// order.
func (c *Catalog) CategoryNames() []string {
	var out []string
	for _, g := range c.Categories() {
		out = append(out, string(g.Category))
	}
	return out
}

// CategoryOf returns the category name is filed under. ok is false when
// name is not a working model.
func (c *Catalog) CategoryOf(name string) (model.Category, bool) {
	for cat, names := range c.categories {
		if slices.Contains(names, name) {
			return cat, true
		}
	}
	return "", false
}

// Candidates returns the working models in category, or every working model
// when the category is empty.
func (c *Catalog) Candidates(category model.Category) []string {
	if names := c.categories[category]; len(names) > 0 {
		return slices.Clone(names)
	}
	return c.Working()
}

// Recommendation returns the recommended model for task.
func (c *Catalog) Recommendation(task model.TaskKind) (string, bool) {
	name, ok := c.recommendations[task]
	return name, ok && name != ""
}

// Recommendations returns a copy of the task recommendations.
func (c *Catalog) Recommendations() map[model.TaskKind]string {
	return maps.Clone(c.recommendations)
}

// SizeLabel returns " (X.XMB)" for models with a known size, else "".
func (c *Catalog) SizeLabel(name string) string {
	if mb, ok := c.descriptors[name].SizeMB(); ok {
		return fmt.Sprintf(" (%.1fMB)", mb)
	}
	return ""
}

// Describe returns a display line for name: the name, its size in MB and
// its parameter size, omitting unknown parts.
func (c *Catalog) Describe(name string) string {
	s := name + c.SizeLabel(name)
	if p := c.descriptors[name].Params(); p != "" {
		s += " - " + p
	}
	return s
}
