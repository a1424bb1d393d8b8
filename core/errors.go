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

import "errors"

// Domain validation errors
var (
	// ErrInvalidRecord indicates a Record failed validation.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrInvalidCheckpoint indicates a CheckpointState failed validation.
	ErrInvalidCheckpoint = errors.New("invalid checkpoint")

	// ErrEmptyIdentifier indicates a record or checkpoint entry has no identifier.
	ErrEmptyIdentifier = errors.New("identifier cannot be empty")

	// ErrEmptyContent indicates the raw block text is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrOverlappingEntry indicates an identifier is both completed and failed.
	ErrOverlappingEntry = errors.New("identifier is both completed and failed")

	// ErrUnsupportedVersion indicates a checkpoint written by an unknown layout.
	ErrUnsupportedVersion = errors.New("unsupported checkpoint version")
)
