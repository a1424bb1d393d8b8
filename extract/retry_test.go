package extract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/975125089bb/flutter-app/ai"
)

type recordedSleep struct {
	delays []time.Duration
}

func (r *recordedSleep) sleep(ctx context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return ctx.Err()
}

func alwaysRetry(error) bool { return true }

func TestBackoff(t *testing.T) {
	base := 2 * time.Second
	assert.Equal(t, 2*time.Second, Backoff(base, 0))
	assert.Equal(t, 4*time.Second, Backoff(base, 1))
	assert.Equal(t, 8*time.Second, Backoff(base, 2))
	assert.Equal(t, 2*time.Second, Backoff(base, -1), "negative attempts clamp to zero")
	assert.Equal(t, Backoff(base, maxBackoffShift), Backoff(base, 64), "large attempts are capped")
}

func TestRetryWithBackoff_Success(t *testing.T) {
	rec := &recordedSleep{}
	calls := 0
	attempts, err := RetryWithBackoff(context.Background(), func(int) error {
		calls++
		return nil
	}, alwaysRetry, 3, time.Second, rec.sleep)

	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, calls, "should succeed on first try")
	assert.Empty(t, rec.delays)
}

func TestRetryWithBackoff_EventualSuccess(t *testing.T) {
	rec := &recordedSleep{}
	attempts, err := RetryWithBackoff(context.Background(), func(attempt int) error {
		if attempt < 2 {
			return errors.New("temporary error")
		}
		return nil
	}, alwaysRetry, 3, 2*time.Second, rec.sleep)

	require.NoError(t, err)
	assert.Equal(t, 3, attempts, "should succeed on third attempt")
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, rec.delays)
}

func TestRetryWithBackoff_Exhausted(t *testing.T) {
	rec := &recordedSleep{}
	cause := errors.New("persistent error")
	calls := 0
	attempts, err := RetryWithBackoff(context.Background(), func(int) error {
		calls++
		return cause
	}, alwaysRetry, 3, 2*time.Second, rec.sleep)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 4, attempts)
	assert.Equal(t, 4, calls, "one call plus three retries")
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}, rec.delays,
		"no sleep after the final attempt")
}

func TestRetryWithBackoff_NonRetryableStopsImmediately(t *testing.T) {
	rec := &recordedSleep{}
	cause := &ai.StatusError{Code: 401, Err: errors.New("unauthorized")}
	attempts, err := RetryWithBackoff(context.Background(), func(int) error {
		return cause
	}, Retryable, 3, time.Second, rec.sleep)

	require.Error(t, err)
	assert.Same(t, cause, err)
	assert.Equal(t, 1, attempts)
	assert.Empty(t, rec.delays)
}

func TestRetryWithBackoff_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rec := &recordedSleep{}
	calls := 0
	_, err := RetryWithBackoff(ctx, func(int) error {
		calls++
		if calls == 2 {
			cancel()
		}
		return errors.New("error")
	}, alwaysRetry, 10, time.Second, rec.sleep)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, calls, "should stop when context is canceled")
}

func TestRetryWithBackoff_InvalidMaxRetries(t *testing.T) {
	_, err := RetryWithBackoff(context.Background(), func(int) error { return nil },
		alwaysRetry, -1, time.Second, (&recordedSleep{}).sleep)
	assert.ErrorIs(t, err, ErrInvalidMaxRetries)
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limited", &ai.StatusError{Code: 429}, true},
		{"server error", &ai.StatusError{Code: 503}, true},
		{"bad request", &ai.StatusError{Code: 400}, false},
		{"unauthorized", &ai.StatusError{Code: 401}, false},
		{"deadline", context.DeadlineExceeded, true},
		{"wrapped deadline", errors.Join(errors.New("call"), context.DeadlineExceeded), true},
		{"network timeout", timeoutErr{}, true},
		{"canceled", context.Canceled, false},
		{"other", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Retryable(tt.err))
		})
	}
}
