// Package gemini implements ai.Completer on the Google Gemini API.
package gemini

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/975125089bb/flutter-app/ai"
	"google.golang.org/genai"
)

// Completer implements ai.Completer using the genai client.
type Completer struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
	jsonMode    bool
	logger      *slog.Logger
}

// NewCompleter creates a Gemini completer. config.Host, when set, overrides
// the API base URL.
//
// Returns ai.Completer interface to enforce abstraction.
func NewCompleter(ctx context.Context, config *ai.Config) (ai.Completer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	cc := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if host := strings.TrimSpace(config.Host); host != "" {
		cc.HTTPOptions.BaseURL = host
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}

	return &Completer{
		client:      client,
		model:       config.Model,
		temperature: float32(config.Temperature),
		maxTokens:   int32(config.MaxTokens),
		jsonMode:    config.JSONMode,
		logger:      slog.Default().With("component", "gemini-completer"),
	}, nil
}

// Complete sends the system prompt as system instruction and the user text
// as the only content.
func (c *Completer) Complete(ctx context.Context, system, user string) (string, error) {
	temperature := c.temperature
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
		Temperature:       &temperature,
		MaxOutputTokens:   c.maxTokens,
		CandidateCount:    1,
	}
	if c.jsonMode {
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(user), cfg)
	if err != nil {
		return "", classifyErr(err)
	}

	text := resp.Text()
	if text == "" {
		return "", ai.ErrEmptyResponse
	}
	c.logger.Debug("received completion", "model", c.model, "length", len(text))
	return text, nil
}

// classifyErr maps API errors carrying an HTTP code to *ai.StatusError.
func classifyErr(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code != 0 {
		return &ai.StatusError{Code: apiErr.Code, Err: err}
	}
	return err
}
