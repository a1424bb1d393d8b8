package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "https://api.deepseek.com/v1", cfg.Host)
	assert.Equal(t, "deepseek-chat", cfg.Model)
	assert.Equal(t, 0.1, cfg.Temperature)
	assert.Equal(t, 1000, cfg.MaxTokens)
	assert.False(t, cfg.JSONMode)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()

		assert.NotNil(t, cfg)
		// Should have default values
		assert.Equal(t, "https://api.deepseek.com/v1", cfg.Host)
		assert.Empty(t, cfg.APIKey)
	})

	t.Run("with custom host and model", func(t *testing.T) {
		cfg := NewConfig(
			WithHost("http://localhost:11434/v1"),
			WithModel("qwen2.5:7b"),
		)

		assert.Equal(t, "http://localhost:11434/v1", cfg.Host)
		assert.Equal(t, "qwen2.5:7b", cfg.Model)
	})

	t.Run("with multiple options", func(t *testing.T) {
		cfg := NewConfig(
			WithProvider(ProviderGemini),
			WithAPIKey("k"),
			WithTemperature(0.3),
			WithMaxTokens(2048),
			WithJSONMode(true),
		)

		assert.Equal(t, ProviderGemini, cfg.Provider)
		assert.Equal(t, "k", cfg.APIKey)
		assert.Equal(t, 0.3, cfg.Temperature)
		assert.Equal(t, 2048, cfg.MaxTokens)
		assert.True(t, cfg.JSONMode)
	})
}

func TestConfig_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		host     string
		want     string
	}{
		{name: "adds /v1", provider: ProviderOpenAI, host: "https://api.deepseek.com", want: "https://api.deepseek.com/v1"},
		{name: "trailing slash", provider: ProviderOpenAI, host: "http://localhost:11434/", want: "http://localhost:11434/v1"},
		{name: "already normalized", provider: ProviderOpenAI, host: "http://localhost:11434/v1", want: "http://localhost:11434/v1"},
		{name: "gemini untouched", provider: ProviderGemini, host: "https://proxy.example", want: "https://proxy.example"},
		{name: "empty stays empty", provider: ProviderOpenAI, host: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Provider: tt.provider, Host: tt.host}
			cfg.Normalize()
			assert.Equal(t, tt.want, cfg.Host)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return NewConfig(WithAPIKey("sk-test"))
	}

	t.Run("valid config", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})

	t.Run("provider is case insensitive", func(t *testing.T) {
		cfg := valid()
		cfg.Provider = " OpenAI "
		require.NoError(t, cfg.Validate())
		assert.Equal(t, ProviderOpenAI, cfg.Provider)
	})

	t.Run("gemini without host", func(t *testing.T) {
		cfg := valid()
		cfg.Provider = ProviderGemini
		cfg.Host = ""
		require.NoError(t, cfg.Validate())
	})

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
		wantMsg string
	}{
		{name: "missing key", mutate: func(c *Config) { c.APIKey = "" }, wantErr: ErrMissingAPIKey},
		{name: "placeholder key", mutate: func(c *Config) { c.APIKey = PlaceholderAPIKey }, wantErr: ErrPlaceholderAPIKey},
		{name: "unknown provider", mutate: func(c *Config) { c.Provider = "anthropic-ish" }, wantErr: ErrUnknownProvider},
		{name: "missing host", mutate: func(c *Config) { c.Host = "" }, wantMsg: "Host is required"},
		{name: "missing model", mutate: func(c *Config) { c.Model = "" }, wantMsg: "Model is required"},
		{name: "zero max tokens", mutate: func(c *Config) { c.MaxTokens = 0 }, wantMsg: "MaxTokens"},
		{name: "temperature out of range", mutate: func(c *Config) { c.Temperature = 3 }, wantMsg: "Temperature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}
