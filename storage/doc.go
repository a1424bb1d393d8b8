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


// Package storage defines where pipeline checkpoints live.
//
// # Constructor Return Type Pattern
//
// Public constructors in the backend packages return the
// storage.CheckpointRepository interface:
//
//	repo := file.NewCheckpointRepository("pipeline_progress.json")
//	repo, err := badger.NewCheckpointRepository("./progress.db")
//
// Internal constructors (newCheckpointRepository) return concrete types for
// use inside the implementation package and its tests.
//
// # Backends
//
//   - file: a single JSON document, replaced atomically on every save
//   - badger: one key per identifier, rewritten inside a single transaction
//
// Both backends return (nil, nil) from LoadCheckpoint when nothing has been
// saved, and both validate what they load: an identifier may not be both
// completed and failed.
//
// # Context Support
//
// Repository methods accept a context.Context. The file backend stops
// copying when the context is cancelled; the badger backend only checks it
// before starting a transaction.
package storage
