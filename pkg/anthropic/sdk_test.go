package anthropic

import (
	"testing"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromSDKMessage(t *testing.T) {
	sdkMsg := &sdk.Message{
		ID:           "msg_test_123",
		Model:        "claude-sonnet-4-5-20250929",
		StopReason:   "end_turn",
		StopSequence: "STOP",
		Content: []sdk.ContentBlockUnion{
			{Type: "text", Text: "Hello world"},
			{Type: "text", Text: "Second block"},
		},
		Usage: sdk.Usage{
			InputTokens:  100,
			OutputTokens: 50,
		},
	}

	resp := fromSDKMessage(sdkMsg)
	require.NotNil(t, resp)
	assert.Equal(t, "msg_test_123", resp.ID)
	assert.Equal(t, "claude-sonnet-4-5-20250929", resp.Model)
	assert.Equal(t, "end_turn", resp.StopReason)
	assert.Equal(t, "STOP", resp.StopSequence)
	require.Len(t, resp.Content, 2)
	assert.Equal(t, "Hello world", resp.Content[0].Text)
	assert.Equal(t, "Hello worldSecond block", resp.Text())
	assert.Equal(t, int64(100), resp.Usage.InputTokens)
	assert.Equal(t, int64(50), resp.Usage.OutputTokens)
}

func TestFromSDKMessage_EmptyContent(t *testing.T) {
	sdkMsg := &sdk.Message{
		ID:         "msg_empty",
		Model:      "claude-haiku-4-5-20251001",
		StopReason: "max_tokens",
	}

	resp := fromSDKMessage(sdkMsg)
	require.NotNil(t, resp)
	assert.Empty(t, resp.Content)
	assert.Empty(t, resp.Text())
	assert.Equal(t, "max_tokens", resp.StopReason)
}

func TestMessageResponse_TextSkipsNonText(t *testing.T) {
	resp := &MessageResponse{Content: []ContentBlock{
		{Type: "thinking", Text: "hmm"},
		{Type: "text", Text: "answer"},
	}}
	assert.Equal(t, "answer", resp.Text())
}

func TestToSDKMessages(t *testing.T) {
	tests := []struct {
		name string
		msgs []Message
		want int
	}{
		{"user", []Message{{Role: "user", Content: "Hello"}}, 1},
		{"assistant", []Message{{Role: "assistant", Content: "Hi"}}, 1},
		{"mixed", []Message{
			{Role: "user", Content: "Question"},
			{Role: "assistant", Content: "Answer"},
			{Role: "user", Content: "Follow-up"},
		}, 3},
		{"unknown role defaults to user", []Message{{Role: "unknown", Content: "text"}}, 1},
		{"empty", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, toSDKMessages(tt.msgs), tt.want)
		})
	}
}

func TestToSDKSystemBlocks(t *testing.T) {
	blocks := []SystemBlock{{Text: "First block"}, {Text: "Second block"}}
	sdkBlocks := toSDKSystemBlocks(blocks)
	require.Len(t, sdkBlocks, 2)
	assert.Equal(t, "First block", sdkBlocks[0].Text)
	assert.Equal(t, "Second block", sdkBlocks[1].Text)
}

func TestNewClient_ReturnsNonNil(t *testing.T) {
	client := NewClient("test-api-key")
	require.NotNil(t, client)
}

func TestEstimateCost(t *testing.T) {
	tests := []struct {
		model string
		usage TokenUsage
		want  float64
	}{
		{"claude-haiku-4-5-20251001", TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}, 6.00},
		{"claude-sonnet-4-5-20250929", TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}, 18.00},
		{"claude-opus-4-1-20250805", TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}, 90.00},
		// cacheWrite: 0.2M * $3 * 1.25 = 0.75, cacheRead: 0.3M * $3 * 0.1 = 0.09
		{"claude-sonnet-4-5-20250929", TokenUsage{CacheCreationInputTokens: 200_000, CacheReadInputTokens: 300_000}, 0.84},
		{"unknown-model", TokenUsage{InputTokens: 1_000_000}, 0},
		{"claude-haiku-4-5-20251001", TokenUsage{}, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, tt.usage.EstimateCost(tt.model), 0.001, tt.model)
	}
}

func TestLogCost_DoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		TokenUsage{InputTokens: 100, OutputTokens: 50}.LogCost("claude-haiku-4-5-20251001", "analyze")
		TokenUsage{}.LogCost("unknown-model", "")
	})
}
