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


package pipeline

import "errors"

var (
	// ErrInputNotFound indicates the input directory does not exist.
	ErrInputNotFound = errors.New("input directory not found")

	// ErrNoDocuments indicates no document matched the configured patterns.
	ErrNoDocuments = errors.New("no documents match the input patterns")

	// ErrNoRecords indicates a run finished without producing any record.
	ErrNoRecords = errors.New("no records were produced")

	// ErrInterrupted indicates the run stopped early because its context was cancelled.
	ErrInterrupted = errors.New("run interrupted")

	// ErrInvalidConfig indicates a configuration value is out of range.
	ErrInvalidConfig = errors.New("invalid pipeline config")

	// ErrNotText indicates a document's content is not text.
	ErrNotText = errors.New("document is not text")

	// ErrExtractorRequired indicates the orchestrator was built without an extractor.
	ErrExtractorRequired = errors.New("extractor is required")

	// ErrStoreRequired indicates the orchestrator was built without a checkpoint store.
	ErrStoreRequired = errors.New("checkpoint store is required")

	// ErrSinkRequired indicates the orchestrator was built without a sink.
	ErrSinkRequired = errors.New("sink is required")
)
