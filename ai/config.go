// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"fmt"
	"strings"
)

// Provider names accepted by Config.Provider.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// PlaceholderAPIKey is the value shipped in sample configs. It is rejected.
const PlaceholderAPIKey = "your-api-key-here"

// Config holds configuration for the extraction service.
type Config struct {
	// Provider selects the client implementation: "openai" for any
	// OpenAI-compatible chat completions API (DeepSeek by default) or "gemini".
	Provider string

	// Host is the base URL of the service API.
	// Example: "https://api.deepseek.com/v1"
	// Empty means the provider's default endpoint for Gemini.
	Host string

	// Model is the model identifier.
	// Example: "deepseek-chat", "gemini-2.5-flash"
	Model string

	// APIKey authenticates against the service.
	APIKey string

	// Temperature controls sampling. Low values give consistent extraction.
	// Default: 0.1
	Temperature float64

	// MaxTokens bounds the length of a reply.
	// Default: 1000
	MaxTokens int

	// JSONMode asks the service for a JSON-only reply when it supports it.
	JSONMode bool
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithProvider sets the provider name.
func WithProvider(provider string) ConfigOption {
	return func(c *Config) {
		c.Provider = provider
	}
}

// WithHost sets the service host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithModel sets the model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) ConfigOption {
	return func(c *Config) {
		c.Temperature = t
	}
}

// WithMaxTokens sets the reply token limit.
func WithMaxTokens(n int) ConfigOption {
	return func(c *Config) {
		c.MaxTokens = n
	}
}

// WithJSONMode toggles JSON-only replies.
func WithJSONMode(enabled bool) ConfigOption {
	return func(c *Config) {
		c.JSONMode = enabled
	}
}

// DefaultConfig returns a Config for the DeepSeek chat completions API.
func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderOpenAI,
		Host:        "https://api.deepseek.com/v1",
		Model:       "deepseek-chat",
		Temperature: 0.1,
		MaxTokens:   1000,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithAPIKey(os.Getenv("DEEPSEEK_API_KEY")),
//	    WithModel("deepseek-chat"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// OpenAI-compatible hosts get a /v1 suffix when missing.
func (c *Config) Normalize() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	c.APIKey = strings.TrimSpace(c.APIKey)
	if c.Provider == ProviderOpenAI && c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/")
		c.Host = c.Host + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	switch c.Provider {
	case ProviderOpenAI:
		if c.Host == "" {
			return errors.New("ai config: Host is required")
		}
	case ProviderGemini:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.Provider)
	}
	if c.Model == "" {
		return errors.New("ai config: Model is required")
	}
	if c.MaxTokens < 1 {
		return errors.New("ai config: MaxTokens must be positive")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return errors.New("ai config: Temperature must be between 0 and 2")
	}
	return CheckCredential(c.APIKey)
}

// CheckCredential rejects empty and placeholder API keys.
func CheckCredential(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrMissingAPIKey
	}
	if key == PlaceholderAPIKey {
		return ErrPlaceholderAPIKey
	}
	return nil
}
