package llm

import (
	"context"
	"fmt"

	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/store"
	"github.com/rs/zerolog"
)

// NewChain builds the failover runner from configuration: one base provider
// per chain entry, each wrapped with event logging, composed in order.
// Middleware layering: caller → failover → logging → base.
func NewChain(ctx context.Context, cfg Config, events store.LLMEventRepo, logger zerolog.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	candidates := make([]Provider, 0, len(cfg.Chain))
	for _, spec := range cfg.Chain {
		base, err := newBaseProvider(ctx, spec, cfg)
		if err != nil {
			return nil, fmt.Errorf("initializing %s: %w", spec, err)
		}
		if events != nil {
			base = WithLogging(base, spec.Provider, events)
		}
		candidates = append(candidates, base)
	}

	return NewFailover(logger, candidates...), nil
}

// NewChainFromEnv discovers provider API keys from the environment and
// builds a failover chain from every provider found.
func NewChainFromEnv(ctx context.Context, events store.LLMEventRepo, logger zerolog.Logger) (Provider, error) {
	cfg, ok := DiscoverConfig()
	if !ok {
		return nil, fmt.Errorf("no model API key found (set GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY or OPENROUTER_API_KEY)")
	}
	return NewChain(ctx, cfg, events, logger)
}

func newBaseProvider(ctx context.Context, spec ModelSpec, cfg Config) (Provider, error) {
	switch spec.Provider {
	case "anthropic":
		return NewAnthropicProvider(cfg.Anthropic, spec.Model)
	case "openai":
		return NewOpenAIProvider(cfg.OpenAI, spec.Model)
	case "gemini":
		return NewGeminiProvider(ctx, cfg.Gemini, spec.Model)
	case "openrouter":
		return NewOpenRouterProvider(cfg.OpenRouter, spec.Model)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown model provider: %q", spec.Provider)
	}
}
