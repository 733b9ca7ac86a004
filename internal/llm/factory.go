package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abhisek/flashmaster/internal/store"
)

// Factory builds a Provider for one model of the cascade.
type Factory func(ctx context.Context, apiKey, model string) (Provider, error)

// NewFactory returns a Factory that builds providers from cfg, wrapped with
// retry and event-logging middleware. A nil eventRepo disables event logging.
func NewFactory(cfg Config, eventRepo store.EventRepo, log *slog.Logger) Factory {
	return func(ctx context.Context, apiKey, model string) (Provider, error) {
		return NewProvider(ctx, cfg, apiKey, model, eventRepo, log)
	}
}

// NewProvider creates a Provider for model using the API selected by cfg.
// It returns the provider wrapped with retry and logging middleware.
func NewProvider(ctx context.Context, cfg Config, apiKey, model string, eventRepo store.EventRepo, log *slog.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case ProviderOpenRouter, "":
		base, err = NewOpenRouterProvider(OpenRouterConfig{APIKey: apiKey, Model: model, BaseURL: cfg.BaseURL})
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(OpenAIConfig{APIKey: apiKey, Model: stripVendor(model), BaseURL: cfg.BaseURL})
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(AnthropicConfig{APIKey: apiKey, Model: model, BaseURL: cfg.BaseURL})
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, GeminiConfig{APIKey: apiKey, Model: model})
	case ProviderMock:
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// Wrap with middleware: caller → retry → logging → base
	p := base
	if eventRepo != nil {
		p = WithLogging(p, cfg.Provider, eventRepo, log)
	}
	return WithRetry(p, cfg.Retry, log), nil
}
