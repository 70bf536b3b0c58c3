package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// Short names accepted in GEMINI_MODEL and --model.
var geminiModels = map[string]string{
	"flash": "gemini-2.5-flash",
	"pro":   "gemini-2.5-pro",
	"lite":  "gemini-2.5-flash-lite",
}

// GeminiProvider calls the Gemini API through the Gen AI SDK.
type GeminiProvider struct {
	models *genai.Models
	model  string
}

func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return &GeminiProvider{
		models: client.Models,
		model:  resolveModel(cfg.Model, geminiModels),
	}, nil
}

func (p *GeminiProvider) ModelID() string { return p.model }

func (p *GeminiProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := genai.Role(genai.RoleUser)
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	result, err := p.models.GenerateContent(ctx, p.model, contents, geminiConfig(req))
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return nil, classifyStatus(apiErr.Code, nil, err)
		}
		return nil, classifyUntyped(err)
	}

	text := extractGeminiText(result)
	if text == "" {
		return nil, &ErrInvalidResponse{Err: errors.New("gemini: response has no text")}
	}
	resp := &Response{
		Content:    []byte(text),
		Model:      p.model,
		StopReason: "end",
	}
	if len(result.Candidates) > 0 && result.Candidates[0].FinishReason == genai.FinishReasonMaxTokens {
		resp.StopReason = "max_tokens"
	}
	if u := result.UsageMetadata; u != nil {
		resp.Usage = Usage{
			InputTokens:  int(u.PromptTokenCount),
			OutputTokens: int(u.CandidatesTokenCount),
			TotalTokens:  int(u.TotalTokenCount),
		}
	}

	if req.Schema != nil {
		if err := validateResponse(req.Schema, resp.Content); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// geminiConfig maps the request's generation settings. A schema is sent
// as-is in JSON Schema form; the API accepts it without conversion.
func geminiConfig(req Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{MaxOutputTokens: int32(req.MaxTokens)}
	if req.Temperature > 0 {
		cfg.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseJsonSchema = req.Schema.Definition
	}
	return cfg
}

// extractGeminiText prefers the SDK's aggregated text and otherwise
// stitches together the text parts of every candidate.
func extractGeminiText(result *genai.GenerateContentResponse) string {
	if result == nil {
		return ""
	}
	if t := joinFragments([]string{result.Text()}); t != "" {
		return t
	}
	var fragments []string
	for _, cand := range result.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil {
				fragments = append(fragments, part.Text)
			}
		}
	}
	return joinFragments(fragments)
}
