package llm

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/analyst-cli/internal/model"
	"github.com/sells-group/analyst-cli/pkg/ollama"
)

type ollamaRuntime struct {
	client ollama.Client
}

// NewOllama returns a Runtime backed by a native Ollama server.
func NewOllama(client ollama.Client) Runtime {
	return &ollamaRuntime{client: client}
}

func (r *ollamaRuntime) Provider() string { return ProviderOllama }

func (r *ollamaRuntime) Endpoint() string { return r.client.BaseURL() }

func (r *ollamaRuntime) ListModels(ctx context.Context) ([]model.ModelDescriptor, error) {
	resp, err := r.client.ListTags(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "llm: list ollama models")
	}

	out := make([]model.ModelDescriptor, 0, len(resp.Models))
	for _, m := range resp.Models {
		name := m.Name
		if name == "" {
			name = m.Model
		}
		if name == "" {
			continue
		}
		d := model.ModelDescriptor{
			Name:          name,
			Family:        model.StringPtr(m.Details.Family),
			ParameterSize: model.StringPtr(m.Details.ParameterSize),
		}
		if m.Size > 0 {
			d.SizeBytes = model.Int64Ptr(m.Size)
		}
		if !m.ModifiedAt.IsZero() {
			t := m.ModifiedAt
			d.ModifiedAt = &t
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *ollamaRuntime) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	msgs := make([]ollama.Message, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = ollama.Message{Role: m.Role, Content: m.Content}
	}

	creq := ollama.ChatRequest{Model: req.Model, Messages: msgs}
	if req.Temperature != nil || req.MaxTokens != nil {
		creq.Options = &ollama.Options{Temperature: req.Temperature, NumPredict: req.MaxTokens}
	}

	start := time.Now()
	resp, err := r.client.Chat(ctx, creq)
	if err != nil {
		var apiErr *ollama.APIError
		notFound := errors.As(err, &apiErr) && apiErr.NotFound()
		return nil, newChatError(req.Model, err, notFound)
	}

	return &ChatResponse{
		Content:  resp.Message.Content,
		Model:    req.Model,
		Duration: time.Since(start),
	}, nil
}
