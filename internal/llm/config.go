package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects and configures one provider.
type Config struct {
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig configures exponential backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig uses small, cheap models; explanations are short.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 30 * time.Second,
	}
}

// envBindings maps SYNAPSE_* variables onto config fields.
func envBindings(cfg *Config) map[string]*string {
	return map[string]*string{
		"SYNAPSE_LLM_PROVIDER":       &cfg.Provider,
		"SYNAPSE_ANTHROPIC_API_KEY":  &cfg.Anthropic.APIKey,
		"SYNAPSE_ANTHROPIC_MODEL":    &cfg.Anthropic.Model,
		"SYNAPSE_OPENAI_API_KEY":     &cfg.OpenAI.APIKey,
		"SYNAPSE_OPENAI_MODEL":       &cfg.OpenAI.Model,
		"SYNAPSE_OPENAI_BASE_URL":    &cfg.OpenAI.BaseURL,
		"SYNAPSE_GEMINI_API_KEY":     &cfg.Gemini.APIKey,
		"SYNAPSE_GEMINI_MODEL":       &cfg.Gemini.Model,
		"SYNAPSE_OPENROUTER_API_KEY": &cfg.OpenRouter.APIKey,
		"SYNAPSE_OPENROUTER_MODEL":   &cfg.OpenRouter.Model,
	}
}

// ConfigFromEnv overlays SYNAPSE_* variables on DefaultConfig. The second
// result reports whether SYNAPSE_LLM_PROVIDER was set.
func ConfigFromEnv() (Config, bool) {
	cfg := DefaultConfig()
	for name, field := range envBindings(&cfg) {
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}
	return cfg, os.Getenv("SYNAPSE_LLM_PROVIDER") != ""
}

// discoveryOrder is the priority for standard vendor key variables.
var discoveryOrder = []struct {
	env      string
	provider string
}{
	{"GEMINI_API_KEY", ProviderGemini},
	{"OPENAI_API_KEY", ProviderOpenAI},
	{"ANTHROPIC_API_KEY", ProviderAnthropic},
	{"OPENROUTER_API_KEY", ProviderOpenRouter},
}

// DiscoverConfig picks the first provider whose standard API key variable
// is set. It returns false when none is.
func DiscoverConfig() (Config, bool) {
	for _, d := range discoveryOrder {
		k := os.Getenv(d.env)
		if k == "" {
			continue
		}
		cfg := DefaultConfig()
		cfg.Provider = d.provider
		cfg.setAPIKey(k)
		return cfg, true
	}
	return Config{}, false
}

// Resolve returns the explicit SYNAPSE_* configuration when a provider is
// named, else a discovered one.
func Resolve() (Config, bool) {
	if cfg, ok := ConfigFromEnv(); ok {
		return cfg, true
	}
	return DiscoverConfig()
}

func (c *Config) setAPIKey(k string) {
	switch c.Provider {
	case ProviderAnthropic:
		c.Anthropic.APIKey = k
	case ProviderOpenAI:
		c.OpenAI.APIKey = k
	case ProviderGemini:
		c.Gemini.APIKey = k
	case ProviderOpenRouter:
		c.OpenRouter.APIKey = k
	}
}

func (c Config) apiKey() string {
	switch c.Provider {
	case ProviderAnthropic:
		return c.Anthropic.APIKey
	case ProviderOpenAI:
		return c.OpenAI.APIKey
	case ProviderGemini:
		return c.Gemini.APIKey
	case ProviderOpenRouter:
		return c.OpenRouter.APIKey
	}
	return ""
}

// Validate checks that the selected provider is known and has a key.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderMock:
		return nil
	case ProviderAnthropic, ProviderOpenAI, ProviderGemini, ProviderOpenRouter:
		if c.apiKey() == "" {
			return fmt.Errorf("SYNAPSE_%s_API_KEY is required for the %s provider", strings.ToUpper(c.Provider), c.Provider)
		}
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
}
