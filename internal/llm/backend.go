package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Anwar-Qureshi/SkillBridge/internal/store"
)

// Backend is the optional text-generation capability used by scoring and
// coaching. Its zero value is a valid Backend with no provider. Generate
// never returns an error: any failure is reported as an absent result.
type Backend struct {
	provider    Provider
	hasProvider bool
	name        string
	timeout     time.Duration
	log         *zap.Logger
}

// BackendOptions configures NewBackendFromEnv.
type BackendOptions struct {
	// Provider optionally prefers one provider over the priority order.
	Provider string
	// Model optionally overrides the selected provider's model.
	Model string
	// Timeout bounds each Generate call. Zero keeps the default.
	Timeout time.Duration
	// Events records each request when non-nil.
	Events store.EventRepo
	Log    *zap.Logger
}

// NewBackendFromEnv reads the recognized credential variables once and
// builds the Backend. A credential whose provider fails to initialize
// still counts as configured, but every call then yields nothing.
func NewBackendFromEnv(ctx context.Context, opts BackendOptions) *Backend {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	cfg, found := DiscoverConfig(opts.Provider)
	if !found {
		log.Info("no generative backend credentials found; using deterministic feedback only")
		return &Backend{log: log}
	}
	cfg = cfg.WithModel(opts.Model)
	if opts.Timeout > 0 {
		cfg.Timeout = opts.Timeout
	}

	b := &Backend{
		hasProvider: true,
		name:        cfg.Provider,
		timeout:     cfg.Timeout,
		log:         log,
	}

	p, err := NewProvider(ctx, cfg, opts.Events, log)
	if err != nil {
		log.Warn("generative backend failed to initialize", zap.String("provider", cfg.Provider), zap.Error(err))
		return b
	}
	b.provider = p
	log.Info("generative backend ready", zap.String("provider", cfg.Provider), zap.String("model", p.ModelID()))
	return b
}

// NewBackend wraps an already-built Provider. A nil provider yields a
// Backend without a provider.
func NewBackend(p Provider, timeout time.Duration, log *zap.Logger) *Backend {
	if log == nil {
		log = zap.NewNop()
	}
	return &Backend{
		provider:    p,
		hasProvider: p != nil,
		name:        "custom",
		timeout:     timeout,
		log:         log,
	}
}

// HasProvider reports whether any credential was present at construction.
func (b *Backend) HasProvider() bool {
	return b != nil && b.hasProvider
}

// ModelID returns the active model, or "" when no provider is usable.
func (b *Backend) ModelID() string {
	if b == nil || b.provider == nil {
		return ""
	}
	return b.provider.ModelID()
}

// Describe returns a one-line status for display.
func (b *Backend) Describe() string {
	switch {
	case !b.HasProvider():
		return "generative backend: off (no credentials)"
	case b.provider == nil:
		return fmt.Sprintf("generative backend: %s (failed to initialize)", b.name)
	default:
		return fmt.Sprintf("generative backend: %s (%s)", b.name, b.provider.ModelID())
	}
}

// Generate returns the trimmed generated text for prompt, or ("", false)
// when no provider is usable, the call fails, or nothing was produced.
func (b *Backend) Generate(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, bool) {
	resp, ok := b.call(ctx, userRequest(prompt, maxTokens, temperature))
	if !ok {
		return "", false
	}
	text := resp.Text()
	return text, text != ""
}

// GenerateJSON asks for output conforming to schema and returns the
// validated JSON, or (nil, false) on any failure.
func (b *Backend) GenerateJSON(ctx context.Context, prompt string, schema *Schema, maxTokens int) (json.RawMessage, bool) {
	req := userRequest(prompt, maxTokens, 0)
	req.Schema = schema
	resp, ok := b.call(ctx, req)
	if !ok {
		return nil, false
	}
	if err := ValidateJSON(schema, resp.Content); err != nil {
		b.log.Debug("generated JSON rejected", zap.Error(err))
		return nil, false
	}
	return resp.Content, true
}

func (b *Backend) call(ctx context.Context, req Request) (resp *Response, ok bool) {
	if b == nil || b.provider == nil {
		return nil, false
	}

	defer func() {
		if r := recover(); r != nil {
			b.log.Error("generative backend panicked", zap.Any("panic", r))
			resp, ok = nil, false
		}
	}()

	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	resp, err := b.provider.Generate(ctx, req)
	if err != nil {
		level := b.log.Warn
		if errors.Is(err, context.Canceled) {
			level = b.log.Debug
		}
		level("generative call returned nothing", zap.String("purpose", PurposeFrom(ctx)), zap.Error(err))
		return nil, false
	}
	return resp, true
}
