package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/975125089bb/flutter-app/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatReply(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "deepseek-chat",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
		"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	})
	return string(body)
}

func newTestCompleter(t *testing.T, handler http.HandlerFunc) *Completer {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := ai.NewConfig(
		ai.WithHost(srv.URL),
		ai.WithAPIKey("test-key"),
	)
	c, err := newCompleter(cfg, srv.Client())
	require.NoError(t, err)
	return c
}

func TestCompleter_Success(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any

	c := newTestCompleter(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, chatReply(`结果如下 {"zodiac":"天蝎"}`))
	})

	reply, err := c.Complete(context.Background(), "system prompt", "编号1\n天蝎座")
	require.NoError(t, err)

	assert.Equal(t, `结果如下 {"zodiac":"天蝎"}`, reply)
	assert.True(t, strings.HasSuffix(gotPath, "/v1/chat/completions"), gotPath)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "deepseek-chat", gotBody["model"])
}

func TestCompleter_StatusErrors(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		wantRetryable bool
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, wantRetryable: true},
		{name: "server error", status: http.StatusBadGateway, wantRetryable: true},
		{name: "unauthorized", status: http.StatusUnauthorized, wantRetryable: false},
		{name: "bad request", status: http.StatusBadRequest, wantRetryable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCompleter(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, `{"error":{"message":"nope","type":"error"}}`)
			})

			_, err := c.Complete(context.Background(), "system", "user")
			require.Error(t, err)

			var statusErr *ai.StatusError
			require.True(t, errors.As(err, &statusErr), "got %v", err)
			assert.Equal(t, tt.status, statusErr.Code)
			assert.Equal(t, tt.wantRetryable, statusErr.Retryable())
		})
	}
}

func TestNewCompleter_InvalidConfig(t *testing.T) {
	_, err := NewCompleter(ai.NewConfig())
	assert.ErrorIs(t, err, ai.ErrMissingAPIKey)

	_, err = NewCompleter(ai.NewConfig(ai.WithAPIKey(ai.PlaceholderAPIKey)))
	assert.ErrorIs(t, err, ai.ErrPlaceholderAPIKey)
}
