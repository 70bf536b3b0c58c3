package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Anwar-Qureshi/SkillBridge/internal/store"
)

// NewProvider creates the configured Provider wrapped with retry and
// logging middleware. eventRepo may be nil.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *zap.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderOllama:
		base, err = NewOllamaProvider(cfg.Ollama)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller → retry → logging → base: every attempt is recorded.
	logged := WithLogging(base, cfg.Provider, eventRepo, log)
	return WithRetry(logged, cfg.Retry), nil
}
