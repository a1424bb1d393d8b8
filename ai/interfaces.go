package ai

import "context"

// Completer sends one system prompt plus one user message to a chat model
// and returns the text of the first reply.
// Implementations must be safe for concurrent use.
type Completer interface {
	// Complete returns the model's reply text. HTTP failures are reported
	// as *StatusError when the status code is known.
	Complete(ctx context.Context, system, user string) (string, error)
}
