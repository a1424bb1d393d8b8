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


package extract

import (
	"context"
	"errors"
	"net"

	"github.com/975125089bb/flutter-app/ai"
)

var (
	// ErrInvalidMaxRetries indicates a negative retry budget.
	ErrInvalidMaxRetries = errors.New("max retries must be zero or more")

	// ErrRetriesExhausted indicates every attempt failed with a retryable error.
	ErrRetriesExhausted = errors.New("retries exhausted")

	// ErrNoStructuredSpan indicates the reply held no balanced {...} object.
	ErrNoStructuredSpan = errors.New("no structured object in reply")

	// ErrMalformedResponse indicates an object span was found but could not be parsed.
	ErrMalformedResponse = errors.New("malformed structured object")

	// ErrEmptyExtraction indicates the reply parsed but carried no known attribute.
	ErrEmptyExtraction = errors.New("no fields extracted")

	// ErrNilCompleter indicates the client was built without a completer.
	ErrNilCompleter = errors.New("completer is required")

	// ErrNilLimiter indicates the client was built without a rate limiter.
	ErrNilLimiter = errors.New("rate limiter is required")
)

// Retryable reports whether a failed call is worth retrying: rate limiting,
// server errors and timeouts.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	var statusErr *ai.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
