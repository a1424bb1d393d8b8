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


package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"github.com/975125089bb/flutter-app/core"
	"github.com/975125089bb/flutter-app/storage"
)

// CheckpointRepository stores the checkpoint as one JSON document.
type CheckpointRepository struct {
	path   string
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

var _ storage.CheckpointRepository = (*CheckpointRepository)(nil)

// NewCheckpointRepository returns a repository backed by the JSON file at
// path. The file is created on the first save.
func NewCheckpointRepository(path string) storage.CheckpointRepository {
	return newCheckpointRepository(path)
}

func newCheckpointRepository(path string) *CheckpointRepository {
	return &CheckpointRepository{
		path:   path,
		logger: slog.Default().With("component", "checkpoint-file"),
	}
}

// Path returns the checkpoint file location.
func (r *CheckpointRepository) Path() string {
	return r.path
}

func (r *CheckpointRepository) SaveCheckpoint(ctx context.Context, state *core.CheckpointState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return storage.ErrStorageClosed
	}

	data, err := storage.MarshalCheckpoint(state)
	if err != nil {
		return err
	}
	if err := WriteAtomic(ctx, r.path, bytes.NewReader(data), 0o644); err != nil {
		return fmt.Errorf("write checkpoint %s: %w", r.path, err)
	}
	r.logger.Debug("checkpoint saved", "path", r.path,
		"completed", len(state.Completed), "failed", len(state.Failed))
	return nil
}

func (r *CheckpointRepository) LoadCheckpoint(ctx context.Context) (*core.CheckpointState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, storage.ErrStorageClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read checkpoint %s: %w", r.path, err)
	}

	state, err := storage.UnmarshalCheckpoint(data)
	if err != nil {
		return nil, fmt.Errorf("checkpoint %s: %w", r.path, err)
	}
	return state, nil
}

func (r *CheckpointRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}
