package llm

import (
	"context"
	"fmt"
)

// NewProvider creates a Provider from configuration, wrapped with retry
// and request-logging middleware. log may be nil when no run store is
// attached.
func NewProvider(ctx context.Context, cfg Config, log RequestLog) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// Wrap with middleware: caller → retry → logging → base
	logged := WithRequestLog(base, log)
	return WithRetry(logged, cfg.Retry), nil
}

// NewProviderFromEnv discovers a provider from the environment. The second
// return value is false when no credential is present; callers treat that
// as degraded operation, not an error.
func NewProviderFromEnv(ctx context.Context, log RequestLog) (Provider, bool, error) {
	cfg, ok := DiscoverConfig()
	if !ok {
		return nil, false, nil
	}
	p, err := NewProvider(ctx, cfg, log)
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}
