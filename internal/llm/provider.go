package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider is the core abstraction for text generation.
// The Backend wraps one Provider; scoring and coaching never call a
// Provider directly.
type Provider interface {
	// Generate sends a prompt to the model and returns its output.
	// When the request's Schema is set, the provider asks for JSON
	// conforming to it and validates the result.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System is the system prompt.
	System string

	// Messages is the conversation. Coaching and scoring send a single
	// user message.
	Messages []Message

	// Schema is the JSON Schema the response must conform to.
	// When nil, the response Content is the raw generated text.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies this schema and keys the compiled-schema cache.
	// Kebab-case, e.g. "answer-score".
	Name string

	// Description is sent to the model to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the model output.
type Response struct {
	// Content is the generated output: validated JSON when the request
	// carried a Schema, plain text otherwise.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Text returns Content as trimmed text.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return strings.TrimSpace(string(r.Content))
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// userRequest builds the single-message request used by the Backend.
func userRequest(prompt string, maxTokens int, temperature float64) Request {
	return Request{
		Messages:    []Message{{Role: RoleUser, Content: prompt}},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
}

// joinFragments concatenates non-blank text fragments with newlines.
func joinFragments(fragments []string) string {
	var kept []string
	for _, f := range fragments {
		if strings.TrimSpace(f) != "" {
			kept = append(kept, f)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
