package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
)

func newTestAnthropicProvider(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "test-key", Model: "haiku"}, option.WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return p
}

func TestAnthropicProvider_JoinsTextBlocks(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":   "msg_test",
			"type": "message",
			"role": "assistant",
			"content": []map[string]any{
				{"type": "text", "text": "COACHING:\nBe specific."},
				{"type": "text", "text": "IDEAL_ANSWER:\nS: ..."},
			},
			"model":       "claude-haiku-4-5-20251001",
			"stop_reason": "end_turn",
			"usage": map[string]any{
				"input_tokens":  50,
				"output_tokens": 30,
			},
		})
	}

	p := newTestAnthropicProvider(t, handler)
	resp, err := p.Generate(context.Background(), userRequest("coach me", 256, 0.7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() != "COACHING:\nBe specific.\nIDEAL_ANSWER:\nS: ..." {
		t.Fatalf("unexpected text %q", resp.Text())
	}
	if resp.Usage.InputTokens != 50 || resp.Usage.TotalTokens != 80 {
		t.Fatalf("unexpected usage %+v", resp.Usage)
	}
	if resp.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp.StopReason)
	}
}

func TestAnthropicProvider_NoText(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":          "msg_test",
			"type":        "message",
			"role":        "assistant",
			"content":     []map[string]any{},
			"model":       "claude-haiku-4-5-20251001",
			"stop_reason": "end_turn",
			"usage":       map[string]any{"input_tokens": 1, "output_tokens": 0},
		})
	}

	p := newTestAnthropicProvider(t, handler)
	_, err := p.Generate(context.Background(), userRequest("x", 16, 0))
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse, got: %v", err)
	}
}

func TestAnthropicProvider_RateLimit(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"type": "error",
			"error": map[string]any{
				"type":    "rate_limit_error",
				"message": "Rate limit exceeded",
			},
		})
	}

	p := newTestAnthropicProvider(t, handler)
	_, err := p.Generate(context.Background(), userRequest("x", 16, 0))
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %v", err)
	}
	if rl.RetryAfter != 7*time.Second {
		t.Fatalf("expected Retry-After of 7s, got %s", rl.RetryAfter)
	}
}

func TestAnthropicProvider_ServerError(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{
			"type":  "error",
			"error": map[string]any{"type": "api_error", "message": "Internal error"},
		})
	}

	p := newTestAnthropicProvider(t, handler)
	_, err := p.Generate(context.Background(), userRequest("x", 16, 0))
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %v", err)
	}
}

func TestAnthropicProvider_MissingKey(t *testing.T) {
	if _, err := NewAnthropicProvider(AnthropicConfig{}); err == nil {
		t.Fatal("expected an error without an API key")
	}
}

func TestAnthropicParams(t *testing.T) {
	req := Request{
		System: "be brief",
		Messages: []Message{
			{Role: RoleUser, Content: "q"},
			{Role: RoleAssistant, Content: "a"},
		},
		MaxTokens: 64,
	}
	params := anthropicParams("m", req)
	if len(params.Messages) != 2 || params.Messages[1].Role != "assistant" {
		t.Fatalf("unexpected messages %+v", params.Messages)
	}
	if len(params.System) != 1 || params.System[0].Text != "be brief" {
		t.Fatalf("unexpected system %+v", params.System)
	}
	if params.MaxTokens != 64 || params.Temperature.Valid() {
		t.Fatalf("unexpected limits: max=%d temperature set=%v", params.MaxTokens, params.Temperature.Valid())
	}
}

func TestAnthropicModelMapping(t *testing.T) {
	if got := resolveModel("haiku", anthropicModels); got != "claude-haiku-4-5-20251001" {
		t.Fatalf("unexpected model %q", got)
	}
	if got := resolveModel("claude-opus-4-1", anthropicModels); got != "claude-opus-4-1" {
		t.Fatalf("expected pass-through, got %q", got)
	}
}
