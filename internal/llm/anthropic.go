package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/rotisserie/eris"

	"github.com/sells-group/analyst-cli/internal/model"
	"github.com/sells-group/analyst-cli/pkg/anthropic"
)

const anthropicEndpoint = "https://api.anthropic.com"

type anthropicRuntime struct {
	client    anthropic.Client
	maxTokens int64
}

// NewAnthropic returns a Runtime backed by the Anthropic Messages API.
// maxTokens is used when a request does not set its own limit.
func NewAnthropic(client anthropic.Client, maxTokens int64) Runtime {
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return &anthropicRuntime{client: client, maxTokens: maxTokens}
}

func (r *anthropicRuntime) Provider() string { return ProviderAnthropic }

func (r *anthropicRuntime) Endpoint() string { return anthropicEndpoint }

func (r *anthropicRuntime) ListModels(ctx context.Context) ([]model.ModelDescriptor, error) {
	models, err := r.client.ListModels(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "llm: list anthropic models")
	}

	out := make([]model.ModelDescriptor, 0, len(models))
	for _, m := range models {
		d := model.ModelDescriptor{
			Name:   m.ID,
			Family: model.StringPtr("claude"),
		}
		if !m.CreatedAt.IsZero() {
			t := m.CreatedAt
			d.ModifiedAt = &t
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *anthropicRuntime) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	mreq := anthropic.MessageRequest{
		Model:       req.Model,
		MaxTokens:   r.maxTokens,
		Temperature: req.Temperature,
	}
	if req.MaxTokens != nil {
		mreq.MaxTokens = int64(*req.MaxTokens)
	}
	// The Messages API takes system prompts separately.
	for _, m := range req.Messages {
		if m.Role == "system" {
			mreq.System = append(mreq.System, anthropic.SystemBlock{Text: m.Content})
			continue
		}
		mreq.Messages = append(mreq.Messages, anthropic.Message{Role: m.Role, Content: m.Content})
	}

	start := time.Now()
	resp, err := r.client.CreateMessage(ctx, mreq)
	if err != nil {
		return nil, newChatError(req.Model, err, anthropicNotFound(err))
	}
	resp.Usage.LogCost(req.Model, "chat")

	return &ChatResponse{
		Content:  strings.TrimSpace(resp.Text()),
		Model:    req.Model,
		Duration: time.Since(start),
	}, nil
}

func anthropicNotFound(err error) bool {
	var apiErr *sdk.Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
