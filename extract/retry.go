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
	"fmt"
	"log/slog"
	"time"
)

// maxBackoffShift caps the exponent so the delay cannot overflow.
const maxBackoffShift = 20

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Backoff returns the delay before the retry that follows a failed attempt:
// baseDelay * 2^attempt, where attempt 0 is the first call.
func Backoff(baseDelay time.Duration, attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > maxBackoffShift {
		attempt = maxBackoffShift
	}
	return baseDelay * time.Duration(1<<attempt)
}

// RetryWithBackoff runs operation until it succeeds, fails with an error
// retryable rejects, or maxRetries additional attempts have been spent.
// It returns the number of attempts made and the final error.
func RetryWithBackoff(
	ctx context.Context,
	operation func(attempt int) error,
	retryable func(error) bool,
	maxRetries int,
	baseDelay time.Duration,
	sleep SleepFunc,
) (int, error) {
	if maxRetries < 0 {
		return 0, ErrInvalidMaxRetries
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt, err
		}

		lastErr = operation(attempt)
		if lastErr == nil {
			if attempt > 0 {
				slog.Debug("operation succeeded after retry", "attempt", attempt+1)
			}
			return attempt + 1, nil
		}

		if !retryable(lastErr) {
			return attempt + 1, lastErr
		}

		// Don't sleep after the last attempt
		if attempt == maxRetries {
			break
		}

		delay := Backoff(baseDelay, attempt)
		slog.Debug("operation failed, will retry",
			"attempt", attempt+1, "maxAttempts", maxRetries+1, "delay", delay, "error", lastErr)
		if err := sleep(ctx, delay); err != nil {
			return attempt + 1, err
		}
	}

	return maxRetries + 1, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, maxRetries+1, lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
