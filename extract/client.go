package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/975125089bb/flutter-app/ai"
	"github.com/975125089bb/flutter-app/core"
)

const (
	DefaultMaxRetries = 3
	DefaultBaseDelay  = 2 * time.Second
	DefaultTimeout    = 30 * time.Second
)

// Limiter gates every remote call.
type Limiter interface {
	Acquire(ctx context.Context) error
}

// Request is one block of profile text to extract from.
type Request struct {
	Text string
	// GenderKnown selects the prompt variant that tells the service not to
	// extract gender.
	GenderKnown bool
}

// Outcome is the result of one Extract call. Fields is empty whenever Err
// is set; Err is informational and never needs to be handled as a failure
// of the call itself.
type Outcome struct {
	Fields   core.Fields
	Attempts int
	Err      error
}

// OK reports whether the outcome carries extracted fields.
func (o Outcome) OK() bool {
	return o.Err == nil && !o.Fields.IsEmpty()
}

// Client wraps a single remote extraction with rate limiting, a per-call
// timeout, retry with exponential backoff and reply parsing.
// It is not safe for concurrent use.
type Client struct {
	completer  ai.Completer
	limiter    Limiter
	prompts    map[bool]string
	maxRetries int
	baseDelay  time.Duration
	timeout    time.Duration
	sleep      SleepFunc
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client) error

// WithMaxRetries sets how many additional attempts follow a retryable failure.
func WithMaxRetries(n int) Option {
	return func(c *Client) error {
		if n < 0 {
			return ErrInvalidMaxRetries
		}
		c.maxRetries = n
		return nil
	}
}

// WithBaseDelay sets the first backoff delay.
func WithBaseDelay(d time.Duration) Option {
	return func(c *Client) error {
		c.baseDelay = d
		return nil
	}
}

// WithTimeout bounds each remote call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %s", d)
		}
		c.timeout = d
		return nil
	}
}

// WithSleep replaces the backoff sleep. Used by tests.
func WithSleep(fn SleepFunc) Option {
	return func(c *Client) error {
		c.sleep = fn
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

// NewClient creates an extraction client. Both prompt variants are rendered
// up front.
func NewClient(completer ai.Completer, limiter Limiter, opts ...Option) (*Client, error) {
	if completer == nil {
		return nil, ErrNilCompleter
	}
	if limiter == nil {
		return nil, ErrNilLimiter
	}

	c := &Client{
		completer:  completer,
		limiter:    limiter,
		prompts:    make(map[bool]string, 2),
		maxRetries: DefaultMaxRetries,
		baseDelay:  DefaultBaseDelay,
		timeout:    DefaultTimeout,
		sleep:      sleepCtx,
		logger:     slog.Default().With("component", "extraction-client"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	for _, genderKnown := range []bool{false, true} {
		prompt, err := ai.RenderSystemPrompt(ai.PromptOptions{GenderKnown: genderKnown})
		if err != nil {
			return nil, err
		}
		c.prompts[genderKnown] = prompt
	}

	return c, nil
}

// Extract runs the remote extraction for one block. It never returns an
// error to the caller: failures yield an Outcome with empty Fields and Err
// describing the cause. Every attempt, retries included, acquires the rate
// limiter first.
//
// Cancelling ctx interrupts limiter and backoff waits. A remote call already
// in flight runs until it completes or times out.
func (c *Client) Extract(ctx context.Context, req Request) Outcome {
	system := c.prompts[req.GenderKnown]

	var fields core.Fields
	attempts, err := RetryWithBackoff(ctx, func(attempt int) error {
		if err := c.limiter.Acquire(ctx); err != nil {
			return err
		}

		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		reply, err := c.completer.Complete(callCtx, system, req.Text)
		if err != nil {
			c.logger.Warn("extraction call failed",
				"attempt", attempt+1, "retryable", Retryable(err), "err", ai.RedactSecrets(err.Error()))
			return err
		}

		m, err := decodeFirstObject(reply)
		if err != nil {
			if !errors.Is(err, ErrNoStructuredSpan) {
				err = fmt.Errorf("%w: %w", ErrMalformedResponse, err)
			}
			c.logger.Warn("unusable reply", "attempt", attempt+1, "err", err, "reply_length", len(reply))
			return err
		}

		fields = core.FieldsFromMap(m)
		return nil
	}, Retryable, c.maxRetries, c.baseDelay, c.sleep)

	if err != nil {
		return Outcome{Attempts: attempts, Err: err}
	}
	if fields.IsEmpty() {
		return Outcome{Attempts: attempts, Err: ErrEmptyExtraction}
	}
	return Outcome{Fields: fields, Attempts: attempts}
}
