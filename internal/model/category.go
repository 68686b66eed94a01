package model

// Category is the inferred purpose of a model, derived from its name.
type Category string

const (
	CategoryFast          Category = "fast"
	CategoryReasoning     Category = "reasoning"
	CategoryCoding        Category = "coding"
	CategoryComprehensive Category = "comprehensive"
	CategoryEmbedding     Category = "embedding"
	CategoryVision        Category = "vision"
	CategoryGeneral       Category = "general"
)

// AllCategories returns every category in display order.
func AllCategories() []Category {
	return []Category{
		CategoryFast,
		CategoryReasoning,
		CategoryCoding,
		CategoryComprehensive,
		CategoryEmbedding,
		CategoryVision,
		CategoryGeneral,
	}
}

var categoryDescriptions = map[Category]string{
	CategoryFast:          "Fast & Efficient",
	CategoryReasoning:     "Deep Reasoning",
	CategoryCoding:        "Code & Structured Data",
	CategoryComprehensive: "Comprehensive Analysis",
	CategoryEmbedding:     "Text Embeddings",
	CategoryVision:        "Vision & Multimodal",
	CategoryGeneral:       "General Purpose",
}

// Description returns a short human-readable label for the category.
func (c Category) Description() string {
	if d, ok := categoryDescriptions[c]; ok {
		return d
	}
	return string(c)
}

// TaskKind is a kind of work a model can be recommended for.
type TaskKind string

const (
	TaskFast          TaskKind = "fast"
	TaskReasoning     TaskKind = "reasoning"
	TaskCoding        TaskKind = "coding"
	TaskComprehensive TaskKind = "comprehensive"
)

// AllTasks returns every task kind in resolution order.
func AllTasks() []TaskKind {
	return []TaskKind{TaskFast, TaskReasoning, TaskCoding, TaskComprehensive}
}

// IsValid reports whether t is a known task kind.
func (t TaskKind) IsValid() bool {
	switch t {
	case TaskFast, TaskReasoning, TaskCoding, TaskComprehensive:
		return true
	}
	return false
}
