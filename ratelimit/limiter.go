// Package ratelimit paces requests to the extraction service with a hard
// per-window cap and a fixed delay after every request.
package ratelimit

import (
	"context"
	"log/slog"
	"time"
)

// DefaultWindow is the length of one rate window.
const DefaultWindow = time.Minute

// Limiter bounds burst rate with a per-window cap and steady-state rate with
// a flat delay after each request. It is owned by a single caller and is not
// safe for concurrent use.
type Limiter struct {
	maxPerWindow int
	window       time.Duration
	fixedDelay   time.Duration

	count       int
	windowStart time.Time

	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration) error
	logger *slog.Logger
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithWindow overrides the window length.
func WithWindow(d time.Duration) Option {
	return func(l *Limiter) {
		l.window = d
	}
}

// WithClock replaces the time source and the sleep function. Used by tests.
func WithClock(now func() time.Time, sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(l *Limiter) {
		l.now = now
		l.sleep = sleep
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) {
		l.logger = logger
	}
}

// New creates a limiter that admits at most maxPerWindow requests per
// window and sleeps fixedDelay after every request. A maxPerWindow of zero
// or less disables the cap.
func New(maxPerWindow int, fixedDelay time.Duration, opts ...Option) *Limiter {
	l := &Limiter{
		maxPerWindow: maxPerWindow,
		window:       DefaultWindow,
		fixedDelay:   fixedDelay,
		now:          time.Now,
		sleep:        sleepCtx,
		logger:       slog.Default().With("component", "rate-limiter"),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.windowStart = l.now()
	return l
}

// Acquire blocks until the next request may be issued. It returns the
// context error if ctx is cancelled while waiting.
func (l *Limiter) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	now := l.now()
	elapsed := now.Sub(l.windowStart)
	if elapsed >= l.window {
		l.windowStart = now
		l.count = 0
		elapsed = 0
	}

	if l.maxPerWindow > 0 && l.count >= l.maxPerWindow {
		wait := l.window - elapsed
		l.logger.Info("rate limit reached, waiting for window reset",
			"requests", l.count, "wait", wait.Round(100*time.Millisecond))
		if err := l.sleep(ctx, wait); err != nil {
			return err
		}
		l.windowStart = l.now()
		l.count = 0
	}

	l.count++

	if l.fixedDelay > 0 {
		return l.sleep(ctx, l.fixedDelay)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
