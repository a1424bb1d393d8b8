package mock

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/975125089bb/flutter-app/ai"
	"github.com/975125089bb/flutter-app/core"
)

// Call records the arguments of one Complete invocation.
type Call struct {
	System string
	User   string
}

// MockCompleter is a test double for ai.Completer.
// It allows custom behavior injection via function fields.
type MockCompleter struct {
	// CompleteFunc is called by Complete if set.
	// If nil, replies with prose wrapping a small JSON object.
	CompleteFunc func(ctx context.Context, system, user string) (string, error)

	mu    sync.Mutex
	calls []Call
}

var _ ai.Completer = (*MockCompleter)(nil)

// NewMockCompleter creates a mock completer with default behavior.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{}
}

// WithCompleteFunc sets custom behavior and returns the mock for chaining.
func (m *MockCompleter) WithCompleteFunc(fn func(ctx context.Context, system, user string) (string, error)) *MockCompleter {
	m.CompleteFunc = fn
	return m
}

// Complete returns the injected reply, or by default a reply whose JSON
// carries the first non-heading line of the user text as self_introduction.
func (m *MockCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{System: system, User: user})
	fn := m.CompleteFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, system, user)
	}

	intro := ""
	lines := strings.Split(user, "\n")
	for _, line := range lines[min(1, len(lines)):] {
		if line = strings.TrimSpace(line); line != "" {
			intro = line
			break
		}
	}
	payload, err := json.Marshal(map[string]any{core.FieldSelfIntroduction: intro})
	if err != nil {
		return "", err
	}
	return "以下是提取结果：\n" + string(payload) + "\n以上。", nil
}

// CallCount returns the number of times Complete was called.
func (m *MockCompleter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Calls returns a copy of the recorded calls.
func (m *MockCompleter) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// Reset clears recorded calls and custom functions.
func (m *MockCompleter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.CompleteFunc = nil
}
