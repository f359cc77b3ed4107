package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, status int, body any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func anthropicAgainst(t *testing.T, srv *httptest.Server) *AnthropicProvider {
	t.Helper()
	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "test-key", Model: "claude-haiku"},
		option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	require.NoError(t, err)
	return p
}

func openaiAgainst(srv *httptest.Server) *OpenAIProvider {
	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return &OpenAIProvider{client: openai.NewClientWithConfig(cfg), model: "gpt-4o-mini"}
}

func explainRequest() Request {
	return Request{
		System:    "You explain HTML and CSS quiz answers.",
		Messages:  []Message{{Role: RoleUser, Content: "Why is background-color: red correct?"}},
		Schema:    explanationSchema(),
		MaxTokens: 256,
	}
}

func TestAnthropicStructuredResponse(t *testing.T) {
	srv := serve(t, http.StatusOK, map[string]any{
		"id": "msg_1", "type": "message", "role": "assistant",
		"content":     []map[string]any{{"type": "text", "text": explanationJSON}},
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": "end_turn",
		"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
	})

	resp, err := anthropicAgainst(t, srv).Generate(context.Background(), explainRequest())
	require.NoError(t, err)
	assert.JSONEq(t, explanationJSON, string(resp.Content))
	assert.Equal(t, Usage{InputTokens: 50, OutputTokens: 30, TotalTokens: 80}, resp.Usage)
	assert.Equal(t, "end", resp.StopReason)
}

func TestAnthropicTruncatedIsMaxTokens(t *testing.T) {
	srv := serve(t, http.StatusOK, map[string]any{
		"id": "msg_1", "type": "message", "role": "assistant",
		"content":     []map[string]any{{"type": "text", "text": `{"explanation":"backgr`}},
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": "max_tokens",
		"usage":       map[string]any{"input_tokens": 50, "output_tokens": 256},
	})

	_, err := anthropicAgainst(t, srv).Generate(context.Background(), explainRequest())
	var mt *ErrMaxTokensExceeded
	assert.ErrorAs(t, err, &mt)
}

func TestAnthropicErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		target any
	}{
		{http.StatusTooManyRequests, new(*ErrRateLimit)},
		{http.StatusInternalServerError, new(*ErrProviderUnavailable)},
	}
	for _, tt := range tests {
		srv := serve(t, tt.status, map[string]any{
			"type":  "error",
			"error": map[string]any{"type": "api_error", "message": "nope"},
		})
		_, err := anthropicAgainst(t, srv).Generate(context.Background(), explainRequest())
		require.Error(t, err)
		assert.True(t, errors.As(err, tt.target), "status %d: got %T", tt.status, err)
	}
}

func TestOpenAIStructuredResponse(t *testing.T) {
	srv := serve(t, http.StatusOK, map[string]any{
		"id": "chatcmpl-1", "object": "chat.completion", "model": "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": explanationJSON},
			"finish_reason": "stop",
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	})

	resp, err := openaiAgainst(srv).Generate(context.Background(), explainRequest())
	require.NoError(t, err)
	assert.Equal(t, 40, resp.Usage.InputTokens)
	assert.Equal(t, 25, resp.Usage.OutputTokens)
	assert.Equal(t, "end", resp.StopReason)
}

func TestOpenAISchemaMismatch(t *testing.T) {
	srv := serve(t, http.StatusOK, map[string]any{
		"id": "chatcmpl-1", "object": "chat.completion", "model": "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": `{"reason":"x"}`},
			"finish_reason": "stop",
		}},
	})

	_, err := openaiAgainst(srv).Generate(context.Background(), explainRequest())
	var inv *ErrInvalidResponse
	assert.ErrorAs(t, err, &inv)
}

func TestOpenAIRateLimit(t *testing.T) {
	srv := serve(t, http.StatusTooManyRequests, map[string]any{
		"error": map[string]any{"type": "tokens", "message": "slow down", "code": "rate_limit_exceeded"},
	})
	_, err := openaiAgainst(srv).Generate(context.Background(), explainRequest())
	var rl *ErrRateLimit
	assert.ErrorAs(t, err, &rl)
}

func TestProviderConstructors(t *testing.T) {
	_, err := NewAnthropicProvider(AnthropicConfig{})
	assert.Error(t, err)
	_, err = NewOpenAIProvider(OpenAIConfig{})
	assert.Error(t, err)
	_, err = NewOpenRouterProvider(OpenRouterConfig{Model: "x"})
	assert.Error(t, err)
	_, err = NewGeminiProvider(context.Background(), GeminiConfig{})
	assert.Error(t, err)

	oa, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", oa.ModelID())

	or, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "k", Model: "anthropic/claude-3-haiku"})
	require.NoError(t, err)
	assert.Equal(t, "anthropic/claude-3-haiku", or.ModelID(), "openrouter IDs pass through")

	an, err := NewAnthropicProvider(AnthropicConfig{APIKey: "k", Model: "claude-sonnet"})
	require.NoError(t, err)
	assert.Equal(t, "claude-sonnet-4-20250514", an.ModelID())
}

func TestResolveModel(t *testing.T) {
	assert.Equal(t, "claude-haiku-4-5-20251001", resolveModel("claude-haiku", anthropicModels))
	assert.Equal(t, "gemini-2.0-flash", resolveModel("gemini-flash", geminiModels))
	assert.Equal(t, "gemini-2.5-pro", resolveModel("gemini-2.5-pro", geminiModels))
}

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(explanationSchema().Definition)

	assert.Equal(t, "OBJECT", string(s.Type))
	require.Len(t, s.Properties, 4)
	assert.Equal(t, "STRING", string(s.Properties["explanation"].Type))
	assert.Equal(t, []string{"low", "high"}, s.Properties["confidence"].Enum)
	assert.Equal(t, "ARRAY", string(s.Properties["lines"].Type))
	assert.Equal(t, "INTEGER", string(s.Properties["lines"].Items.Type))
	assert.Equal(t, []string{"explanation"}, s.Required)
}
