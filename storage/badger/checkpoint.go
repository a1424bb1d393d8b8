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


package badger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/975125089bb/flutter-app/core"
	"github.com/975125089bb/flutter-app/storage"
)

// CheckpointRepository stores a checkpoint as one key per identifier plus a
// metadata key, all under the "chkpt:" prefix.
type CheckpointRepository struct {
	backend   *Backend
	ownsStore bool
	logger    *slog.Logger
}

var _ storage.CheckpointRepository = (*CheckpointRepository)(nil)

// NewCheckpointRepository opens the database directory at path and returns
// a repository that closes it on Close.
func NewCheckpointRepository(path string) (storage.CheckpointRepository, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	repo := newCheckpointRepository(backend)
	repo.ownsStore = true
	return repo, nil
}

func newCheckpointRepository(backend *Backend) *CheckpointRepository {
	return &CheckpointRepository{
		backend: backend,
		logger:  slog.Default().With("component", "checkpoint-badger"),
	}
}

// SaveCheckpoint deletes every existing checkpoint key and writes the new
// state in the same transaction.
func (r *CheckpointRepository) SaveCheckpoint(ctx context.Context, state *core.CheckpointState) error {
	meta, err := storage.MarshalMeta(storage.MetaOf(state))
	if err != nil {
		return err
	}

	err = r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		stale, err := checkpointKeys(tx)
		if err != nil {
			return err
		}
		for _, key := range stale {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}

		if err := tx.Set([]byte(checkpointMetaKey), meta); err != nil {
			return err
		}
		for id, at := range state.Completed {
			value, err := storage.MarshalTime(at)
			if err != nil {
				return err
			}
			if err := tx.Set(makeDoneKey(id), value); err != nil {
				return err
			}
		}
		for id, entry := range state.Failed {
			value, err := storage.MarshalFailedEntry(entry)
			if err != nil {
				return err
			}
			if err := tx.Set(makeFailKey(id), value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		if errors.Is(err, badger.ErrTxnTooBig) {
			return fmt.Errorf("checkpoint with %d entries does not fit one transaction: %w",
				len(state.Completed)+len(state.Failed), err)
		}
		return err
	}

	r.logger.Debug("checkpoint saved", "completed", len(state.Completed), "failed", len(state.Failed))
	return nil
}

func (r *CheckpointRepository) LoadCheckpoint(ctx context.Context) (*core.CheckpointState, error) {
	var (
		state   core.CheckpointState
		found   bool
		hasMeta bool
	)
	state.Completed = make(map[string]time.Time)
	state.Failed = make(map[string]*core.FailedEntry)

	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(checkpointPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			key := item.Key()
			found = true

			err := item.Value(func(val []byte) error {
				switch {
				case bytes.Equal(key, []byte(checkpointMetaKey)):
					meta, err := storage.UnmarshalMeta(val)
					if err != nil {
						return err
					}
					hasMeta = true
					state.Version = meta.Version
					state.RunID = meta.RunID
					state.Timestamps = meta.Timestamps
					state.Totals = meta.Totals
				case bytes.HasPrefix(key, []byte(checkpointDonePrefix)):
					at, err := storage.UnmarshalTime(val)
					if err != nil {
						return err
					}
					state.Completed[string(key[len(checkpointDonePrefix):])] = at
				case bytes.HasPrefix(key, []byte(checkpointFailPrefix)):
					entry, err := storage.UnmarshalFailedEntry(val)
					if err != nil {
						return err
					}
					state.Failed[string(key[len(checkpointFailPrefix):])] = entry
				default:
					r.logger.Warn("ignoring unknown checkpoint key", "key", string(key))
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, nil
	}
	if !hasMeta {
		return nil, fmt.Errorf("%w: metadata key missing", core.ErrInvalidCheckpoint)
	}
	if err := storage.Finish(&state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Close closes the database when the repository opened it.
func (r *CheckpointRepository) Close() error {
	if !r.ownsStore {
		return nil
	}
	return r.backend.Close()
}

func checkpointKeys(tx *badger.Txn) ([][]byte, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(checkpointPrefix)
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)
	defer iter.Close()

	var keys [][]byte
	for iter.Rewind(); iter.Valid(); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	return keys, nil
}
