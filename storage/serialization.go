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


package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/975125089bb/flutter-app/core"
)

// CheckpointMeta is the part of a checkpoint that is not keyed by identifier.
type CheckpointMeta struct {
	Version    int             `json:"version"`
	RunID      string          `json:"run_id"`
	Timestamps core.Timestamps `json:"timestamps"`
	Totals     core.Totals     `json:"totals"`
}

// MetaOf extracts the identifier-independent fields of state.
func MetaOf(state *core.CheckpointState) CheckpointMeta {
	return CheckpointMeta{
		Version:    state.Version,
		RunID:      state.RunID,
		Timestamps: state.Timestamps,
		Totals:     state.Totals,
	}
}

// MarshalCheckpoint serializes a CheckpointState to indented JSON.
func MarshalCheckpoint(state *core.CheckpointState) ([]byte, error) {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalCheckpoint deserializes and validates a CheckpointState.
// Files written before versioning decode with Version 0 and are upgraded.
func UnmarshalCheckpoint(data []byte) (*core.CheckpointState, error) {
	var state core.CheckpointState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	if err := Finish(&state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Finish fills in missing maps, validates a decoded state and upgrades a
// legacy version.
func Finish(state *core.CheckpointState) error {
	if state.Completed == nil {
		state.Completed = make(map[string]time.Time)
	}
	if state.Failed == nil {
		state.Failed = make(map[string]*core.FailedEntry)
	}
	if err := core.ValidateCheckpointState(state); err != nil {
		return err
	}
	if state.Version == 0 {
		state.Version = core.CheckpointVersion
	}
	return nil
}

// MarshalMeta serializes checkpoint metadata.
func MarshalMeta(meta CheckpointMeta) ([]byte, error) {
	data, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalMeta deserializes checkpoint metadata.
func UnmarshalMeta(data []byte) (CheckpointMeta, error) {
	var meta CheckpointMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return meta, nil
}

// MarshalFailedEntry serializes a FailedEntry.
func MarshalFailedEntry(entry *core.FailedEntry) ([]byte, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalFailedEntry deserializes a FailedEntry.
func UnmarshalFailedEntry(data []byte) (*core.FailedEntry, error) {
	var entry core.FailedEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &entry, nil
}

// MarshalTime serializes a completion time.
func MarshalTime(t time.Time) ([]byte, error) {
	data, err := t.MarshalText()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalTime deserializes a completion time.
func UnmarshalTime(data []byte) (time.Time, error) {
	var t time.Time
	if err := t.UnmarshalText(data); err != nil {
		return t, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return t, nil
}
