// Package llm abstracts the language-model runtime that analyses run on.
// A Runtime lists installed models and runs single-shot chat completions;
// providers exist for Ollama, OpenAI-compatible servers and Anthropic.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/analyst-cli/internal/model"
)

// Provider names accepted by Connect.
const (
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// ErrRuntimeUnavailable is returned when no runtime endpoint answers.
var ErrRuntimeUnavailable = eris.New("llm: runtime unavailable")

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// System returns a system-role message.
func System(content string) Message { return Message{Role: "system", Content: content} }

// User returns a user-role message.
func User(content string) Message { return Message{Role: "user", Content: content} }

// ChatRequest is a single non-streaming completion request.
type ChatRequest struct {
	Model       string
	Messages    []Message
	Temperature *float64
	MaxTokens   *int
}

// ChatResponse is the completion result.
type ChatResponse struct {
	Content  string
	Model    string
	Duration time.Duration
}

// Runtime is a language-model runtime.
type Runtime interface {
	// Provider returns the provider name (ollama, openai, anthropic).
	Provider() string
	// Endpoint returns the address the runtime is reached at.
	Endpoint() string
	// ListModels returns the installed models.
	ListModels(ctx context.Context) ([]model.ModelDescriptor, error)
	// Chat runs one completion.
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// Float returns a pointer to f.
func Float(f float64) *float64 { return &f }

// Int returns a pointer to n.
func Int(n int) *int { return &n }

// ChatFailure classifies a failed chat call.
type ChatFailure string

const (
	FailureModelNotFound     ChatFailure = "model_not_found"
	FailureTimeout           ChatFailure = "timeout"
	FailureConnectionRefused ChatFailure = "connection_refused"
	FailureRequest           ChatFailure = "request_failed"
)

// ChatError is returned by Runtime.Chat.
type ChatError struct {
	Model   string
	Failure ChatFailure
	Err     error
}

func (e *ChatError) Error() string {
	return fmt.Sprintf("llm: chat %s: %s: %v", e.Model, e.Failure, e.Err)
}

func (e *ChatError) Unwrap() error {
	return e.Err
}

// newChatError classifies err. notFound reports whether the provider saw a
// missing-model response.
func newChatError(modelName string, err error, notFound bool) *ChatError {
	f := FailureRequest
	var netErr net.Error
	switch {
	case notFound:
		f = FailureModelNotFound
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		f = FailureTimeout
	case errors.Is(err, syscall.ECONNREFUSED):
		f = FailureConnectionRefused
	}
	return &ChatError{Model: modelName, Failure: f, Err: err}
}

// IsChatFailure reports whether err is a ChatError of the given kind.
func IsChatFailure(err error, f ChatFailure) bool {
	var ce *ChatError
	return errors.As(err, &ce) && ce.Failure == f
}
