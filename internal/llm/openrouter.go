package llm

import (
	"errors"
	"net/http"
)

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

	// Attribution headers shown on the OpenRouter dashboard.
	openRouterReferer = "https://github.com/Anwar-Qureshi/SkillBridge"
	openRouterTitle   = "SkillBridge"
)

// NewOpenRouterProvider targets OpenRouter's OpenAI-compatible endpoint.
// Model IDs such as "google/gemini-2.5-flash" are sent unchanged.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOpenRouterBaseURL
	}

	client := &http.Client{Transport: attributionTransport{base: http.DefaultTransport}}
	return newOpenAICompatible(OpenAIConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
	}, client)
}

type attributionTransport struct {
	base http.RoundTripper
}

func (t attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("HTTP-Referer", openRouterReferer)
	req.Header.Set("X-Title", openRouterTitle)
	return t.base.RoundTrip(req)
}
