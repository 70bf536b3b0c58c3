package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderGemini     = "gemini"
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
	ProviderMock       = "mock"
)

// Config holds all provider configuration.
type Config struct {
	// Provider selects the single active provider.
	Provider string

	Gemini     GeminiConfig
	OpenAI     OpenAIConfig
	Anthropic  AnthropicConfig
	OpenRouter OpenRouterConfig
	Ollama     OllamaConfig
	Retry      RetryConfig

	// Timeout bounds a single Backend call including retries.
	Timeout time.Duration
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-2.5-flash"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for compatible APIs.
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "haiku"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.5-flash"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// OllamaConfig points at a local Ollama server.
type OllamaConfig struct {
	ServerURL string
	Model     string // Default: "llama3.2"
}

// RetryConfig configures retries of rate-limited calls.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with defaults and no credentials.
// Retries allow two extra attempts after waits of 1s and 2s.
func DefaultConfig() Config {
	return Config{
		Gemini: GeminiConfig{
			Model: "gemini-2.5-flash",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Anthropic: AnthropicConfig{
			Model: "haiku",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.5-flash",
		},
		Ollama: OllamaConfig{
			Model: "llama3.2",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     2 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 60 * time.Second,
	}
}

// credential is one recognized environment variable.
type credential struct {
	env      string
	provider string
	apply    func(*Config, string)
}

// credentials lists the recognized variables in priority order.
var credentials = []credential{
	{"GEMINI_API_KEY", ProviderGemini, func(c *Config, v string) { c.Gemini.APIKey = v }},
	{"GOOGLE_API_KEY", ProviderGemini, func(c *Config, v string) { c.Gemini.APIKey = v }},
	{"OPENAI_API_KEY", ProviderOpenAI, func(c *Config, v string) { c.OpenAI.APIKey = v }},
	{"ANTHROPIC_API_KEY", ProviderAnthropic, func(c *Config, v string) { c.Anthropic.APIKey = v }},
	{"OPENROUTER_API_KEY", ProviderOpenRouter, func(c *Config, v string) { c.OpenRouter.APIKey = v }},
	{"OLLAMA_HOST", ProviderOllama, func(c *Config, v string) { c.Ollama.ServerURL = v }},
}

// CredentialEnvVars returns the recognized credential variables in
// priority order.
func CredentialEnvVars() []string {
	out := make([]string, len(credentials))
	for i, c := range credentials {
		out[i] = c.env
	}
	return out
}

// DiscoverConfig probes the recognized credential variables and returns a
// Config for the first provider whose credential is set. A non-empty
// preferred provider wins when its own credential is present. Blank values
// count as unset. Returns (DefaultConfig(), false) if nothing is found.
func DiscoverConfig(preferred string) (Config, bool) {
	cfg := DefaultConfig()
	found := false

	for _, c := range credentials {
		v := strings.TrimSpace(os.Getenv(c.env))
		if v == "" {
			continue
		}
		// Keep the highest-priority value when two variables feed the
		// same provider.
		if !cfg.hasCredential(c.provider) {
			c.apply(&cfg, v)
		}
		if !found {
			cfg.Provider = c.provider
			found = true
		}
	}

	if found && preferred != "" && cfg.hasCredential(preferred) {
		cfg.Provider = preferred
	}
	return cfg, found
}

// WithModel overrides the model of the selected provider.
func (c Config) WithModel(model string) Config {
	if model == "" {
		return c
	}
	switch c.Provider {
	case ProviderGemini:
		c.Gemini.Model = model
	case ProviderOpenAI:
		c.OpenAI.Model = model
	case ProviderAnthropic:
		c.Anthropic.Model = model
	case ProviderOpenRouter:
		c.OpenRouter.Model = model
	case ProviderOllama:
		c.Ollama.Model = model
	}
	return c
}

func (c Config) hasCredential(provider string) bool {
	switch provider {
	case ProviderGemini:
		return c.Gemini.APIKey != ""
	case ProviderOpenAI:
		return c.OpenAI.APIKey != ""
	case ProviderAnthropic:
		return c.Anthropic.APIKey != ""
	case ProviderOpenRouter:
		return c.OpenRouter.APIKey != ""
	case ProviderOllama:
		return c.Ollama.ServerURL != ""
	case ProviderMock:
		return true
	}
	return false
}

// Validate checks that the selected provider has its credential set.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderAnthropic, ProviderOpenRouter, ProviderOllama, ProviderMock:
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if !c.hasCredential(c.Provider) {
		return fmt.Errorf("no credential configured for the %s provider", c.Provider)
	}
	return nil
}
