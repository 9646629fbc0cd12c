package llm

import (
	"fmt"
	"os"
	"strings"
)

// Config holds model provider credentials and the failover chain.
type Config struct {
	// Chain is the ordered list of candidate models. Generation tries each
	// in turn until one succeeds. Must not be empty.
	Chain []ModelSpec

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
}

// ModelSpec identifies one candidate model in the failover chain.
type ModelSpec struct {
	// Provider selects the backend.
	// Values: "anthropic", "openai", "gemini", "openrouter", "mock"
	Provider string

	// Model is a friendly name ("gemini-flash") or a direct model ID.
	Model string
}

func (s ModelSpec) String() string {
	return s.Provider + ":" + s.Model
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string // Optional. Override for OpenAI-compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// DefaultChain is the candidate order used when nothing is configured.
// Gemini first: it is the only backend with image input support today.
func DefaultChain() []ModelSpec {
	return []ModelSpec{
		{Provider: "gemini", Model: "gemini-flash"},
		{Provider: "gemini", Model: "gemini-flash-lite"},
	}
}

// ParseChain parses a comma-separated "provider:model" list, e.g.
// "gemini:gemini-flash,openai:gpt-4o-mini,anthropic:claude-haiku".
// The model part may be omitted to use the provider's default model.
func ParseChain(s string) ([]ModelSpec, error) {
	var chain []ModelSpec
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		provider, model, found := strings.Cut(entry, ":")
		provider = strings.TrimSpace(provider)
		model = strings.TrimSpace(model)
		if provider == "" {
			return nil, fmt.Errorf("chain entry %q: missing provider", entry)
		}
		if !found || model == "" {
			model = defaultModelFor(provider)
		}
		chain = append(chain, ModelSpec{Provider: provider, Model: model})
	}
	if len(chain) == 0 {
		return nil, fmt.Errorf("model chain is empty")
	}
	return chain, nil
}

func defaultModelFor(provider string) string {
	switch provider {
	case "anthropic":
		return "claude-haiku"
	case "openai":
		return "gpt-4o-mini"
	case "gemini":
		return "gemini-flash"
	case "openrouter":
		return "google/gemini-2.0-flash-exp"
	default:
		return ""
	}
}

// DiscoverConfig probes standard API key env vars and builds a failover
// chain from every provider whose key is present, in priority order
// (Gemini → OpenAI → Anthropic → OpenRouter). Returns (Config{}, false)
// when no key is found.
func DiscoverConfig() (Config, bool) {
	var cfg Config

	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Gemini.APIKey = k
		cfg.Chain = append(cfg.Chain,
			ModelSpec{Provider: "gemini", Model: "gemini-flash"},
			ModelSpec{Provider: "gemini", Model: "gemini-flash-lite"},
		)
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.OpenAI.APIKey = k
		cfg.Chain = append(cfg.Chain, ModelSpec{Provider: "openai", Model: "gpt-4o-mini"})
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Anthropic.APIKey = k
		cfg.Chain = append(cfg.Chain, ModelSpec{Provider: "anthropic", Model: "claude-haiku"})
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.OpenRouter.APIKey = k
		cfg.Chain = append(cfg.Chain, ModelSpec{Provider: "openrouter", Model: "google/gemini-2.0-flash-exp"})
	}

	if len(cfg.Chain) == 0 {
		return Config{}, false
	}
	return cfg, true
}

// Validate checks that the chain is non-empty and every candidate's
// provider has its required API key set.
func (c Config) Validate() error {
	if len(c.Chain) == 0 {
		return fmt.Errorf("model chain is empty")
	}
	for _, spec := range c.Chain {
		switch spec.Provider {
		case "anthropic":
			if c.Anthropic.APIKey == "" {
				return fmt.Errorf("chain entry %s: anthropic API key is required", spec)
			}
		case "openai":
			if c.OpenAI.APIKey == "" {
				return fmt.Errorf("chain entry %s: openai API key is required", spec)
			}
		case "gemini":
			if c.Gemini.APIKey == "" {
				return fmt.Errorf("chain entry %s: gemini API key is required", spec)
			}
		case "openrouter":
			if c.OpenRouter.APIKey == "" {
				return fmt.Errorf("chain entry %s: openrouter API key is required", spec)
			}
		case "mock":
			// No API key needed.
		default:
			return fmt.Errorf("unknown model provider: %q", spec.Provider)
		}
	}
	return nil
}
