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


package core

import "fmt"

// ValidateRecord validates a Record written to or read back from the output
// table.
//
// Validation rules:
//   - ID must not be empty
//   - RawText must not be empty
//
// NOT validated (populated by the extraction service):
//   - Any extracted attribute (all are optional)
func ValidateRecord(record *Record) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}

	if record.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyIdentifier)
	}

	if record.RawText == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyContent)
	}

	return nil
}

// ValidateCheckpointState validates a loaded checkpoint.
//
// Validation rules:
//   - Version must be known (0 is accepted as a legacy file without a version)
//   - Identifiers must not be empty
//   - An identifier must not be both completed and failed
func ValidateCheckpointState(state *CheckpointState) error {
	if state == nil {
		return fmt.Errorf("%w: state is nil", ErrInvalidCheckpoint)
	}

	if state.Version > CheckpointVersion || state.Version < 0 {
		return fmt.Errorf("%w: %w: %d", ErrInvalidCheckpoint, ErrUnsupportedVersion, state.Version)
	}

	for id := range state.Completed {
		if id == "" {
			return fmt.Errorf("%w: %w", ErrInvalidCheckpoint, ErrEmptyIdentifier)
		}
		if _, ok := state.Failed[id]; ok {
			return fmt.Errorf("%w: %w: %s", ErrInvalidCheckpoint, ErrOverlappingEntry, id)
		}
	}

	for id, entry := range state.Failed {
		if id == "" {
			return fmt.Errorf("%w: %w", ErrInvalidCheckpoint, ErrEmptyIdentifier)
		}
		if entry == nil {
			return fmt.Errorf("%w: failed entry %s is nil", ErrInvalidCheckpoint, id)
		}
	}

	return nil
}
