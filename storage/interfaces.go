package storage

import (
	"context"

	"github.com/975125089bb/flutter-app/core"
)

// CheckpointRepository persists the resumable state of a pipeline run.
type CheckpointRepository interface {
	// SaveCheckpoint replaces the stored state with state as a whole.
	// Readers never observe a partially written state.
	SaveCheckpoint(ctx context.Context, state *core.CheckpointState) error

	// LoadCheckpoint returns the stored state.
	// Returns (nil, nil) when nothing has been saved yet.
	LoadCheckpoint(ctx context.Context) (*core.CheckpointState, error)

	// Close releases the underlying resources.
	Close() error
}
