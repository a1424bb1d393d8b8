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


package pipeline

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/975125089bb/flutter-app/ai"
)

// Checkpoint store kinds accepted by Config.Store.
const (
	StoreFile   = "file"
	StoreBadger = "badger"
)

// DefaultGeminiModel replaces the DeepSeek default model when the provider
// is switched to Gemini without naming a model.
const DefaultGeminiModel = "gemini-2.5-flash"

// ProviderConfig selects and tunes the extraction service.
type ProviderConfig struct {
	Name        string  `yaml:"name"`
	Host        string  `yaml:"host"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"api_key"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	JSONMode    bool    `yaml:"json_mode"`
}

// Config holds the settings of one pipeline run.
type Config struct {
	// InputDir holds the profile documents.
	InputDir string `yaml:"input_dir"`

	// Patterns are glob patterns matched against file names in InputDir.
	Patterns []string `yaml:"patterns"`

	// Skip lists file names that match Patterns but hold no profiles.
	Skip []string `yaml:"skip"`

	// OutputPath is the CSV snapshot written by every flush.
	OutputPath string `yaml:"output"`

	// CheckpointPath is the JSON file or Badger directory holding progress.
	CheckpointPath string `yaml:"checkpoint"`

	// Store is StoreFile or StoreBadger.
	Store string `yaml:"store"`

	// Resume loads the checkpoint and the previous snapshot before processing.
	Resume bool `yaml:"resume"`

	// MaxBlocks caps the number of blocks attempted in this run. Zero means no cap.
	MaxBlocks int `yaml:"max_blocks"`

	// FlushInterval is the number of attempted blocks between flushes.
	FlushInterval int `yaml:"flush_interval"`

	// MaxPerMinute caps remote calls per minute. Zero disables the cap.
	MaxPerMinute int `yaml:"max_per_minute"`

	// Delay is slept after every remote call.
	Delay time.Duration `yaml:"delay"`

	// MaxRetries is the number of extra attempts after a retryable failure.
	MaxRetries int `yaml:"max_retries"`

	// BaseDelay is the first backoff delay; it doubles on every retry.
	BaseDelay time.Duration `yaml:"base_delay"`

	// Timeout bounds each remote call.
	Timeout time.Duration `yaml:"timeout"`

	// ProgressInterval reports progress every N attempted blocks.
	ProgressInterval int `yaml:"progress_interval"`

	Provider ProviderConfig `yaml:"provider"`
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithInputDir sets the document directory.
func WithInputDir(dir string) ConfigOption {
	return func(c *Config) {
		c.InputDir = dir
	}
}

// WithPatterns sets the document glob patterns.
func WithPatterns(patterns ...string) ConfigOption {
	return func(c *Config) {
		c.Patterns = patterns
	}
}

// WithOutputPath sets the CSV destination.
func WithOutputPath(path string) ConfigOption {
	return func(c *Config) {
		c.OutputPath = path
	}
}

// WithCheckpointPath sets the checkpoint location.
func WithCheckpointPath(path string) ConfigOption {
	return func(c *Config) {
		c.CheckpointPath = path
	}
}

// WithResume enables resuming from the checkpoint.
func WithResume(resume bool) ConfigOption {
	return func(c *Config) {
		c.Resume = resume
	}
}

// WithMaxBlocks caps the blocks attempted in one run.
func WithMaxBlocks(n int) ConfigOption {
	return func(c *Config) {
		c.MaxBlocks = n
	}
}

// WithFlushInterval sets how many attempted blocks pass between flushes.
func WithFlushInterval(n int) ConfigOption {
	return func(c *Config) {
		c.FlushInterval = n
	}
}

// WithAPIKey sets the extraction service credential.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.Provider.APIKey = key
	}
}

// DefaultConfig returns the stock settings: ten calls
// per minute with a six second pause, flushing every ten blocks.
func DefaultConfig() *Config {
	aiDefaults := ai.DefaultConfig()
	return &Config{
		InputDir:         "raw_data",
		Patterns:         []string{"men_*.md", "women_*.md"},
		Skip:             []string{"tinder.md"},
		OutputPath:       "processed_dating_profiles.csv",
		CheckpointPath:   "pipeline_progress.json",
		Store:            StoreFile,
		FlushInterval:    10,
		MaxPerMinute:     10,
		Delay:            6 * time.Second,
		MaxRetries:       3,
		BaseDelay:        2 * time.Second,
		Timeout:          30 * time.Second,
		ProgressInterval: 1,
		Provider: ProviderConfig{
			Name:        aiDefaults.Provider,
			Host:        aiDefaults.Host,
			Model:       aiDefaults.Model,
			Temperature: aiDefaults.Temperature,
			MaxTokens:   aiDefaults.MaxTokens,
		},
	}
}

// NewConfig creates a Config with the default values and applies opts.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// LoadConfigFile overlays the YAML file at path onto cfg. Keys absent from
// the file keep their current values.
//
// Example:
//
//	input_dir: raw_data
//	flush_interval: 20
//	delay: 4s
//	provider:
//	  name: gemini
func LoadConfigFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate checks that every value is in range.
func (c *Config) Validate() error {
	switch {
	case len(c.Patterns) == 0:
		return fmt.Errorf("%w: at least one pattern is required", ErrInvalidConfig)
	case c.OutputPath == "":
		return fmt.Errorf("%w: output path is required", ErrInvalidConfig)
	case c.CheckpointPath == "":
		return fmt.Errorf("%w: checkpoint path is required", ErrInvalidConfig)
	case c.Store != StoreFile && c.Store != StoreBadger:
		return fmt.Errorf("%w: unknown store %q", ErrInvalidConfig, c.Store)
	case c.FlushInterval < 1:
		return fmt.Errorf("%w: flush interval must be at least 1", ErrInvalidConfig)
	case c.MaxBlocks < 0:
		return fmt.Errorf("%w: max blocks must not be negative", ErrInvalidConfig)
	case c.MaxPerMinute < 0 || c.Delay < 0:
		return fmt.Errorf("%w: rate settings must not be negative", ErrInvalidConfig)
	case c.MaxRetries < 0 || c.BaseDelay < 0:
		return fmt.Errorf("%w: retry settings must not be negative", ErrInvalidConfig)
	case c.Timeout <= 0:
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

// AIConfig builds the extraction service configuration. When the provider
// is Gemini, the DeepSeek default host and model are replaced by Gemini's.
func (c *Config) AIConfig() *ai.Config {
	p := c.Provider
	defaults := ai.DefaultConfig()
	if strings.EqualFold(strings.TrimSpace(p.Name), ai.ProviderGemini) {
		if p.Host == defaults.Host {
			p.Host = ""
		}
		if p.Model == defaults.Model {
			p.Model = DefaultGeminiModel
		}
	}
	return ai.NewConfig(
		ai.WithProvider(p.Name),
		ai.WithHost(p.Host),
		ai.WithModel(p.Model),
		ai.WithAPIKey(p.APIKey),
		ai.WithTemperature(p.Temperature),
		ai.WithMaxTokens(p.MaxTokens),
		ai.WithJSONMode(p.JSONMode),
	)
}
