package checkpoint

import (
	"context"
	"log/slog"
	"time"

	"github.com/975125089bb/flutter-app/ai"
	"github.com/975125089bb/flutter-app/core"
	"github.com/975125089bb/flutter-app/storage"
)

// DefaultMaxAttempts is the number of failed attempts after which an
// identifier is skipped on later runs.
const DefaultMaxAttempts = 3

// Store is the in-memory view of a run's checkpoint, persisted through a
// storage.CheckpointRepository. It is owned by one goroutine.
type Store struct {
	repo        storage.CheckpointRepository
	runID       string
	state       *core.CheckpointState
	maxAttempts int
	now         func() time.Time
	logger      *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithMaxAttempts overrides DefaultMaxAttempts.
func WithMaxAttempts(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithClock replaces the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a store with an empty state for run runID.
func New(repo storage.CheckpointRepository, runID string, opts ...Option) *Store {
	s := &Store{
		repo:        repo,
		runID:       runID,
		maxAttempts: DefaultMaxAttempts,
		now:         time.Now,
		logger:      slog.Default().With("component", "checkpoint"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = core.NewCheckpointState(runID, s.now().UTC())
	return s
}

// Load replaces the in-memory state with the persisted one. It returns
// (nil, nil) and keeps the empty state when nothing was saved before.
func (s *Store) Load(ctx context.Context) (*core.CheckpointState, error) {
	state, err := s.repo.LoadCheckpoint(ctx)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, nil
	}

	s.logger.Info("resuming from checkpoint",
		"previous_run", state.RunID,
		"completed", len(state.Completed),
		"failed", len(state.Failed))
	state.RunID = s.runID
	s.state = state
	return state, nil
}

// Save stamps and persists the current state, replacing what was stored.
func (s *Store) Save(ctx context.Context) error {
	s.state.RunID = s.runID
	s.state.Timestamps.UpdatedAt = s.now().UTC()
	return s.repo.SaveCheckpoint(ctx, s.state)
}

// IsDone reports whether id completed successfully in this or an earlier run.
func (s *Store) IsDone(id string) bool {
	_, ok := s.state.Completed[id]
	return ok
}

// ShouldSkipRetry reports whether id has failed often enough to be skipped.
func (s *Store) ShouldSkipRetry(id string) bool {
	entry, ok := s.state.Failed[id]
	return ok && entry.AttemptCount >= s.maxAttempts
}

// MarkSuccess records id as completed and forgets earlier failures.
func (s *Store) MarkSuccess(id string) {
	delete(s.state.Failed, id)
	s.state.Completed[id] = s.now().UTC()
	s.state.Totals.Succeeded++
}

// MarkFailure increments the attempt count for id and records cause.
// Credentials in the error text are redacted before they are stored.
func (s *Store) MarkFailure(id string, cause error) {
	attempts := 1
	if prev, ok := s.state.Failed[id]; ok {
		attempts = prev.AttemptCount + 1
	}
	msg := ""
	if cause != nil {
		msg = ai.RedactSecrets(cause.Error())
	}
	delete(s.state.Completed, id)
	s.state.Failed[id] = &core.FailedEntry{
		AttemptCount: attempts,
		Timestamp:    s.now().UTC(),
		LastError:    msg,
	}
	s.state.Totals.Failed++
}

// AttemptCount returns the number of failed attempts recorded for id.
func (s *Store) AttemptCount(id string) int {
	if entry, ok := s.state.Failed[id]; ok {
		return entry.AttemptCount
	}
	return 0
}

// CountSkipDone records a block skipped because it already completed.
func (s *Store) CountSkipDone() { s.state.Totals.SkippedDone++ }

// CountSkipRetry records a block skipped because it failed too often.
func (s *Store) CountSkipRetry() { s.state.Totals.SkippedRetry++ }

// CountCollision records a block whose identifier was seen earlier in the run.
func (s *Store) CountCollision() { s.state.Totals.Collisions++ }

// CountFlush records a sink flush.
func (s *Store) CountFlush() { s.state.Totals.Flushes++ }

// State returns the live state. Callers must not modify it.
func (s *Store) State() *core.CheckpointState {
	return s.state
}

// Totals returns a copy of the running counters.
func (s *Store) Totals() core.Totals {
	return s.state.Totals
}

// RunID returns the identifier of the current run.
func (s *Store) RunID() string {
	return s.runID
}

// Close closes the underlying repository.
func (s *Store) Close() error {
	return s.repo.Close()
}
