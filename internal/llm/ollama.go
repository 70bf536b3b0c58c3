package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// OllamaProvider implements Provider against a local Ollama server via
// langchaingo.
type OllamaProvider struct {
	client *ollama.LLM
	model  string
}

// NewOllamaProvider creates a provider for the server at cfg.ServerURL.
func NewOllamaProvider(cfg OllamaConfig) (*OllamaProvider, error) {
	serverURL, err := normalizeOllamaURL(cfg.ServerURL)
	if err != nil {
		return nil, err
	}

	client, err := ollama.New(
		ollama.WithServerURL(serverURL),
		ollama.WithModel(cfg.Model),
		ollama.WithHTTPClient(&http.Client{}),
	)
	if err != nil {
		return nil, fmt.Errorf("create Ollama client: %w", err)
	}

	return &OllamaProvider{client: client, model: cfg.Model}, nil
}

func (p *OllamaProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var messages []llms.MessageContent
	if req.System != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, req.System))
	}
	for _, m := range req.Messages {
		role := llms.ChatMessageTypeHuman
		if m.Role == RoleAssistant {
			role = llms.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(role, m.Content))
	}

	opts := []llms.CallOption{
		llms.WithTemperature(req.Temperature),
	}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}
	if req.Schema != nil {
		opts = append(opts, llms.WithJSONMode())
	}

	resp, err := p.client.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return nil, classifyUntyped(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("no choices in Ollama response")}
	}

	parts := make([]string, 0, len(resp.Choices))
	for _, c := range resp.Choices {
		parts = append(parts, c.Content)
	}
	text := joinFragments(parts)
	if text == "" {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("no text in Ollama response")}
	}
	content := json.RawMessage(text)

	if req.Schema != nil {
		if err := validateResponse(req.Schema, content); err != nil {
			return nil, err
		}
	}

	info := resp.Choices[0].GenerationInfo
	usage := Usage{
		InputTokens:  intInfo(info, "PromptTokens"),
		OutputTokens: intInfo(info, "CompletionTokens"),
	}
	usage.TotalTokens = usage.InputTokens + usage.OutputTokens

	return &Response{
		Content:    content,
		Usage:      usage,
		Model:      p.model,
		StopReason: "end",
	}, nil
}

func (p *OllamaProvider) ModelID() string {
	return p.model
}

// normalizeOllamaURL accepts OLLAMA_HOST values with or without a scheme.
// The URL is checked here because langchaingo exits the process on a
// malformed one.
func normalizeOllamaURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("ollama server URL is required")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid ollama server URL: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid ollama server URL %q: missing host", raw)
	}
	return u.String(), nil
}

func intInfo(info map[string]any, key string) int {
	switch v := info[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
