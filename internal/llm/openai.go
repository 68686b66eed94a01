package llm

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	openai "github.com/sashabaranov/go-openai"

	"github.com/sells-group/analyst-cli/internal/model"
)

type openaiRuntime struct {
	client  *openai.Client
	baseURL string
}

// NewOpenAI returns a Runtime for an OpenAI-compatible server (LM Studio,
// llama.cpp, vLLM, Ollama's /v1 layer). baseURL includes the /v1 suffix.
func NewOpenAI(baseURL, apiKey string, hc *http.Client) Runtime {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	if hc != nil {
		cfg.HTTPClient = hc
	}
	return &openaiRuntime{
		client:  openai.NewClientWithConfig(cfg),
		baseURL: baseURL,
	}
}

func (r *openaiRuntime) Provider() string { return ProviderOpenAI }

func (r *openaiRuntime) Endpoint() string { return r.baseURL }

func (r *openaiRuntime) ListModels(ctx context.Context) ([]model.ModelDescriptor, error) {
	list, err := r.client.ListModels(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "llm: list openai models")
	}

	out := make([]model.ModelDescriptor, 0, len(list.Models))
	for _, m := range list.Models {
		if m.ID == "" {
			continue
		}
		d := model.ModelDescriptor{
			Name:   m.ID,
			Family: model.StringPtr(m.OwnedBy),
		}
		if m.CreatedAt > 0 {
			t := time.Unix(m.CreatedAt, 0).UTC()
			d.ModifiedAt = &t
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *openaiRuntime) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	msgs := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	creq := openai.ChatCompletionRequest{Model: req.Model, Messages: msgs}
	if req.Temperature != nil {
		creq.Temperature = float32(*req.Temperature)
	}
	if req.MaxTokens != nil {
		creq.MaxTokens = *req.MaxTokens
	}

	start := time.Now()
	resp, err := r.client.CreateChatCompletion(ctx, creq)
	if err != nil {
		return nil, newChatError(req.Model, err, openaiNotFound(err))
	}
	if len(resp.Choices) == 0 {
		return nil, newChatError(req.Model, eris.New("llm: openai returned no choices"), false)
	}

	return &ChatResponse{
		Content:  resp.Choices[0].Message.Content,
		Model:    req.Model,
		Duration: time.Since(start),
	}, nil
}

func openaiNotFound(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusNotFound
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusNotFound
	}
	return false
}
