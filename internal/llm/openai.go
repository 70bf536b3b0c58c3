package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Short names accepted in OPENAI_MODEL and --model.
var openaiModels = map[string]string{
	"gpt-4o":      "gpt-4o",
	"gpt-4o-mini": "gpt-4o-mini",
	"gpt-mini":    "gpt-4.1-mini",
}

// OpenAIProvider calls the Chat Completions API. OpenRouter and other
// compatible endpoints reuse it through BaseURL.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	cfg.Model = resolveModel(cfg.Model, openaiModels)
	return newOpenAICompatible(cfg, nil)
}

// newOpenAICompatible builds the provider without short-name mapping, for
// compatible APIs whose model IDs must pass through untouched. A nil doer
// keeps the SDK's default HTTP client.
func newOpenAICompatible(cfg OpenAIConfig, doer openai.HTTPDoer) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	if doer != nil {
		config.HTTPClient = doer
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		model:  cfg.Model,
	}, nil
}

func (p *OpenAIProvider) ModelID() string { return p.model }

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	chatReq, err := openaiRequest(p.model, req)
	if err != nil {
		return nil, err
	}
	completion, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, mapOpenAIError(err)
	}
	if len(completion.Choices) == 0 {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("openai: completion %s has no choices", completion.ID)}
	}

	text := extractOpenAIText(completion.Choices)
	if text == "" {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("openai: completion %s has no text", completion.ID)}
	}
	resp := &Response{
		Content: []byte(text),
		Usage: Usage{
			InputTokens:  completion.Usage.PromptTokens,
			OutputTokens: completion.Usage.CompletionTokens,
			TotalTokens:  completion.Usage.TotalTokens,
		},
		Model:      completion.Model,
		StopReason: mapOpenAIStopReason(completion.Choices[0].FinishReason),
	}
	if req.Schema != nil {
		if err := validateResponse(req.Schema, resp.Content); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

func openaiRequest(model string, req Request) (openai.ChatCompletionRequest, error) {
	chat := openai.ChatCompletionRequest{
		Model:               model,
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
	}
	if req.System != "" {
		chat.Messages = append(chat.Messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		chat.Messages = append(chat.Messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	if req.Schema != nil {
		def, err := json.Marshal(req.Schema.Definition)
		if err != nil {
			return chat, fmt.Errorf("marshal schema %q: %w", req.Schema.Name, err)
		}
		chat.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:        req.Schema.Name,
				Description: req.Schema.Description,
				Schema:      json.RawMessage(def),
				Strict:      true,
			},
		}
	}
	return chat, nil
}

// extractOpenAIText takes the first choice's content and otherwise joins
// the text parts of every choice.
func extractOpenAIText(choices []openai.ChatCompletionChoice) string {
	if t := joinFragments([]string{choices[0].Message.Content}); t != "" {
		return t
	}
	var fragments []string
	for _, c := range choices {
		fragments = append(fragments, c.Message.Content)
		for _, part := range c.Message.MultiContent {
			if part.Type == openai.ChatMessagePartTypeText {
				fragments = append(fragments, part.Text)
			}
		}
	}
	return joinFragments(fragments)
}

func mapOpenAIStopReason(reason openai.FinishReason) string {
	if reason == openai.FinishReasonLength {
		return "max_tokens"
	}
	return "end"
}

func mapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode, nil, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.HTTPStatusCode, nil, err)
	}
	return classifyUntyped(err)
}
