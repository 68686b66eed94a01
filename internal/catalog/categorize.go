package catalog

import (
	"strings"

	"github.com/sells-group/analyst-cli/internal/model"
)

// rule maps name substrings to a category. Rules are checked in order and
// the first match wins, so "bge-embed-code" is an embedding model.
type rule struct {
	category model.Category
	needles  []string
}

var rules = []rule{
	{model.CategoryEmbedding, []string{"embed"}},
	{model.CategoryVision, []string{"vision", "llava", "visual", "vl"}},
	{model.CategoryCoding, []string{"code", "coder", "programming"}},
	{model.CategoryReasoning, []string{"qwen", "deepseek", "reasoning"}},
	{model.CategoryComprehensive, []string{"phi4", "phi-4", "claude", "gpt-4"}},
	{model.CategoryFast, []string{"3.2", "1b", "3b", "small"}},
}

// CategoryFor returns the category of a model name. Matching is
// case-insensitive; names matching no rule are general.
func CategoryFor(name string) model.Category {
	lower := strings.ToLower(name)
	for _, r := range rules {
		for _, n := range r.needles {
			if strings.Contains(lower, n) {
				return r.category
			}
		}
	}
	return model.CategoryGeneral
}

// Categorize partitions working model names into categories. Each name lands
// in exactly one category and keeps its relative order. Categories with no
// members are absent from the result.
func Categorize(working []string) map[model.Category][]string {
	out := make(map[model.Category][]string)
	for _, name := range working {
		c := CategoryFor(name)
		out[c] = append(out[c], name)
	}
	return out
}

// Recommend picks one working model per task kind:
//
//	fast:          fast[0], else working[0]
//	reasoning:     reasoning[0], else comprehensive[0], else working[0]
//	coding:        coding[0], else the reasoning pick
//	comprehensive: comprehensive[0], else the reasoning pick
//
// The result is empty only when working is empty.
func Recommend(categories map[model.Category][]string, working []string) map[model.TaskKind]string {
	return recommend(categories, working, nil)
}

// ApplyPreferred is Recommend with configured preferred models (task name →
// model name) pinned for their tasks when the preferred model is working.
// A pinned reasoning model also becomes the fallback for coding and
// comprehensive. A preferred name without a tag matches a working name with
// one ("llama3.2" matches "llama3.2:latest").
func ApplyPreferred(categories map[model.Category][]string, working []string, preferred map[string]string) map[model.TaskKind]string {
	pinned := make(map[model.TaskKind]string)
	for task, want := range preferred {
		tk := model.TaskKind(strings.ToLower(task))
		if !tk.IsValid() || want == "" {
			continue
		}
		if name, ok := matchWorking(working, want); ok {
			pinned[tk] = name
		}
	}
	return recommend(categories, working, pinned)
}

func recommend(categories map[model.Category][]string, working []string, pinned map[model.TaskKind]string) map[model.TaskKind]string {
	recs := make(map[model.TaskKind]string)
	if len(working) == 0 {
		return recs
	}

	first := func(cs ...model.Category) string {
		for _, c := range cs {
			if names := categories[c]; len(names) > 0 {
				return names[0]
			}
		}
		return ""
	}
	pick := func(task model.TaskKind, heuristic, fallback string) string {
		if name := pinned[task]; name != "" {
			return name
		}
		if heuristic != "" {
			return heuristic
		}
		return fallback
	}

	recs[model.TaskFast] = pick(model.TaskFast, first(model.CategoryFast), working[0])
	reasoning := pick(model.TaskReasoning, first(model.CategoryReasoning, model.CategoryComprehensive), working[0])
	recs[model.TaskReasoning] = reasoning
	recs[model.TaskCoding] = pick(model.TaskCoding, first(model.CategoryCoding), reasoning)
	recs[model.TaskComprehensive] = pick(model.TaskComprehensive, first(model.CategoryComprehensive), reasoning)
	return recs
}

func matchWorking(working []string, want string) (string, bool) {
	for _, w := range working {
		if w == want {
			return w, true
		}
	}
	for _, w := range working {
		if base, _, ok := strings.Cut(w, ":"); ok && base == want {
			return w, true
		}
	}
	return "", false
}
