package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Short names accepted in ANTHROPIC_MODEL and --model.
var anthropicModels = map[string]string{
	"sonnet": "claude-sonnet-4-5-20250929",
	"haiku":  "claude-haiku-4-5-20251001",
}

// AnthropicProvider calls the Messages API.
type AnthropicProvider struct {
	messages anthropic.MessageService
	model    string
}

// NewAnthropicProvider builds a provider from cfg. Retries are left to
// RetryProvider, so the SDK's own retry loop is disabled.
func NewAnthropicProvider(cfg AnthropicConfig, opts ...option.RequestOption) (*AnthropicProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic API key is required")
	}
	opts = append([]option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}, opts...)

	client := anthropic.NewClient(opts...)
	return &AnthropicProvider{
		messages: client.Messages,
		model:    resolveModel(cfg.Model, anthropicModels),
	}, nil
}

func (p *AnthropicProvider) ModelID() string { return p.model }

func (p *AnthropicProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	msg, err := p.messages.New(ctx, anthropicParams(p.model, req))
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			var header http.Header
			if apiErr.Response != nil {
				header = apiErr.Response.Header
			}
			return nil, classifyStatus(apiErr.StatusCode, header, err)
		}
		return nil, classifyUntyped(err)
	}

	resp, err := anthropicResponse(msg)
	if err != nil {
		return nil, err
	}
	if req.Schema != nil {
		if err := validateResponse(req.Schema, resp.Content); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

func anthropicParams(model string, req Request) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(req.MaxTokens),
	}
	for _, m := range req.Messages {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == RoleAssistant {
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(block))
		} else {
			params.Messages = append(params.Messages, anthropic.NewUserMessage(block))
		}
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}
	if req.Schema != nil {
		params.OutputConfig = anthropic.OutputConfigParam{
			Format: anthropic.JSONOutputFormatParam{Schema: req.Schema.Definition},
		}
	}
	return params
}

func anthropicResponse(msg *anthropic.Message) (*Response, error) {
	var fragments []string
	for _, block := range msg.Content {
		if block.Type == "text" {
			fragments = append(fragments, block.Text)
		}
	}
	text := joinFragments(fragments)
	if text == "" {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("anthropic: message %s has no text", msg.ID)}
	}

	stop := "end"
	if msg.StopReason == anthropic.StopReasonMaxTokens {
		stop = "max_tokens"
	}
	in, out := int(msg.Usage.InputTokens), int(msg.Usage.OutputTokens)
	return &Response{
		Content:    []byte(text),
		Usage:      Usage{InputTokens: in, OutputTokens: out, TotalTokens: in + out},
		Model:      string(msg.Model),
		StopReason: stop,
	}, nil
}

// resolveModel maps a short name to a provider model ID. Unknown names
// are returned unchanged so full IDs keep working.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
