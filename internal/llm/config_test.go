package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	var cfg Config
	for name := range envBindings(&cfg) {
		t.Setenv(name, "")
	}
	for _, d := range discoveryOrder {
		t.Setenv(d.env, "")
	}
}

func TestConfigFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SYNAPSE_LLM_PROVIDER", "openai")
	t.Setenv("SYNAPSE_OPENAI_API_KEY", "sk-test")
	t.Setenv("SYNAPSE_OPENAI_BASE_URL", "http://localhost:8080/v1")

	cfg, explicit := ConfigFromEnv()
	assert.True(t, explicit)
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, "http://localhost:8080/v1", cfg.OpenAI.BaseURL)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.NoError(t, cfg.Validate())
}

func TestDiscoverConfigPriority(t *testing.T) {
	clearEnv(t)
	_, ok := DiscoverConfig()
	assert.False(t, ok)

	t.Setenv("ANTHROPIC_API_KEY", "a")
	t.Setenv("OPENAI_API_KEY", "o")
	cfg, ok := DiscoverConfig()
	require.True(t, ok)
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "o", cfg.OpenAI.APIKey)

	t.Setenv("SYNAPSE_LLM_PROVIDER", "mock")
	cfg, ok = Resolve()
	require.True(t, ok)
	assert.Equal(t, ProviderMock, cfg.Provider, "explicit configuration wins")
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		cfg     Config
		wantErr string
	}{
		{Config{Provider: ProviderAnthropic}, "SYNAPSE_ANTHROPIC_API_KEY"},
		{Config{Provider: ProviderOpenRouter}, "SYNAPSE_OPENROUTER_API_KEY"},
		{Config{Provider: ProviderGemini, Gemini: GeminiConfig{APIKey: "k"}}, ""},
		{Config{Provider: ProviderMock}, ""},
		{Config{Provider: "bard"}, "unknown LLM provider"},
	}
	for _, tt := range tests {
		err := tt.cfg.Validate()
		if tt.wantErr == "" {
			assert.NoError(t, err, tt.cfg.Provider)
			continue
		}
		assert.ErrorContains(t, err, tt.wantErr)
	}
}

func TestNewProviderMock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderMock
	p, err := NewProvider(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())

	cfg.Provider = ProviderOpenAI
	_, err = NewProvider(context.Background(), cfg, nil, nil)
	assert.Error(t, err, "missing key")
}
