package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(WithBaseURL(srv.URL + "/"))
	return srv, c
}

func TestListTags(t *testing.T) {
	srv, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/tags", r.URL.Path)

		w.Write([]byte(`{"models":[
			{"name":"llama3.2:latest","model":"llama3.2:latest","size":2019393189,"modified_at":"2025-01-02T15:04:05.123456789-05:00",
			 "details":{"format":"gguf","family":"llama","parameter_size":"3.2B","quantization_level":"Q4_K_M"}},
			{"name":"nomic-embed-text:latest","model":"nomic-embed-text:latest","size":274302450,"details":{}}
		]}`))
	})

	assert.Equal(t, srv.URL, c.BaseURL())

	resp, err := c.ListTags(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Models, 2)

	first := resp.Models[0]
	assert.Equal(t, "llama3.2:latest", first.Name)
	assert.Equal(t, int64(2019393189), first.Size)
	assert.Equal(t, "llama", first.Details.Family)
	assert.Equal(t, "3.2B", first.Details.ParameterSize)
	assert.Equal(t, 2025, first.ModifiedAt.Year())

	second := resp.Models[1]
	assert.Empty(t, second.Details.Family)
	assert.True(t, second.ModifiedAt.IsZero())
}

func TestListTags_ServerError(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"boom"}`))
	})

	_, err := c.ListTags(context.Background())
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.StatusCode)
	assert.False(t, apiErr.NotFound())
}

func TestChat(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Equal(t, "llama3.2", raw["model"])
		assert.Equal(t, false, raw["stream"])
		opts, ok := raw["options"].(map[string]any)
		require.True(t, ok)
		assert.InDelta(t, 0.3, opts["temperature"], 0.0001)
		assert.EqualValues(t, 3, opts["num_predict"])
		msgs, ok := raw["messages"].([]any)
		require.True(t, ok)
		require.Len(t, msgs, 2)

		json.NewEncoder(w).Encode(ChatResponse{
			Model:     "llama3.2",
			Message:   Message{Role: "assistant", Content: "Hello!"},
			Done:      true,
			EvalCount: 3,
		})
	})

	temp := 0.3
	n := 3
	resp, err := c.Chat(context.Background(), ChatRequest{
		Model: "llama3.2",
		Messages: []Message{
			{Role: "system", Content: "Be brief."},
			{Role: "user", Content: "Hi"},
		},
		Stream:  true, // always sent as false
		Options: &Options{Temperature: &temp, NumPredict: &n},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello!", resp.Message.Content)
	assert.True(t, resp.Done)
	assert.Equal(t, 3, resp.EvalCount)
}

func TestChat_OmitsEmptyOptions(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, has := raw["options"]
		assert.False(t, has)
		w.Write([]byte(`{"model":"phi4","message":{"role":"assistant","content":"ok"},"done":true}`))
	})

	resp, err := c.Chat(context.Background(), ChatRequest{Model: "phi4", Messages: []Message{{Role: "user", Content: "x"}}})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Message.Content)
}

func TestChat_ModelNotFound(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"model \"ghost\" not found, try pulling it first"}`))
	})

	_, err := c.Chat(context.Background(), ChatRequest{Model: "ghost"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ollama: chat ghost")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.NotFound())
}

func TestVersion(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/version", r.URL.Path)
		w.Write([]byte(`{"version":"0.5.7"}`))
	})

	v, err := c.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0.5.7", v)
}

func TestConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(WithBaseURL(url), WithTimeout(2*time.Second))
	_, err := c.ListTags(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execute request")
}

func TestMalformedJSON(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	})

	_, err := c.ListTags(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestAPIError_Error(t *testing.T) {
	t.Parallel()
	e := &APIError{StatusCode: 404, Body: `{"error":"not found"}`}
	assert.Equal(t, `ollama: HTTP 404: {"error":"not found"}`, e.Error())
}

func TestNewClient_Defaults(t *testing.T) {
	t.Parallel()
	c := NewClient().(*httpClient)
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, 5*time.Minute, c.http.Timeout)

	custom := &http.Client{}
	c = NewClient(WithHTTPClient(custom)).(*httpClient)
	assert.Equal(t, custom, c.http)
}
