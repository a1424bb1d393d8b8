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

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/975125089bb/flutter-app/ai"
	"github.com/975125089bb/flutter-app/checkpoint"
	"github.com/975125089bb/flutter-app/core"
	"github.com/975125089bb/flutter-app/extract"
	"github.com/975125089bb/flutter-app/segment"
)

// Extractor turns block text into fields. *extract.Client implements it.
type Extractor interface {
	Extract(ctx context.Context, req extract.Request) extract.Outcome
}

// Sink persists the accumulated records. *sink.CSV implements it.
type Sink interface {
	Flush(ctx context.Context, records []*core.Record) error
	Load(ctx context.Context) ([]*core.Record, error)
}

// Summary describes a finished run.
type Summary struct {
	RunID     string
	State     State
	Documents int
	Blocks    int

	Attempted    int
	Succeeded    int
	Failed       int
	SkippedDone  int
	SkippedRetry int
	Collisions   int
	Flushes      int

	// PersistErrors counts checkpoint saves and sink flushes that failed.
	PersistErrors int
	// Records is the number of rows in the output, including resumed ones.
	Records int
	Elapsed time.Duration
}

// LogValue implements slog.LogValuer.
func (s *Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("run_id", s.RunID),
		slog.String("state", s.State.String()),
		slog.Int("documents", s.Documents),
		slog.Int("blocks", s.Blocks),
		slog.Int("succeeded", s.Succeeded),
		slog.Int("failed", s.Failed),
		slog.Int("skipped_done", s.SkippedDone),
		slog.Int("skipped_retry", s.SkippedRetry),
		slog.Int("collisions", s.Collisions),
		slog.Int("flushes", s.Flushes),
		slog.Int("records", s.Records),
		slog.Duration("elapsed", s.Elapsed),
	)
}

// Orchestrator drives one sequential pipeline run.
type Orchestrator struct {
	cfg       *Config
	extractor Extractor
	store     *checkpoint.Store
	sink      Sink

	progress      io.Writer
	now           func() time.Time
	logger        *slog.Logger
	onStateChange func(State)

	state   State
	records []*core.Record
	summary *Summary
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithProgressWriter sets where the progress line is printed. Default: none.
func WithProgressWriter(w io.Writer) Option {
	return func(o *Orchestrator) {
		o.progress = w
	}
}

// WithClock replaces the time source used for ages and timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithStateObserver registers fn to be called on every state transition.
func WithStateObserver(fn func(State)) Option {
	return func(o *Orchestrator) {
		o.onStateChange = fn
	}
}

// NewOrchestrator wires a run from its parts.
func NewOrchestrator(cfg *Config, extractor Extractor, store *checkpoint.Store, sink Sink, opts ...Option) (*Orchestrator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}
	if sink == nil {
		return nil, ErrSinkRequired
	}

	o := &Orchestrator{
		cfg:       cfg,
		extractor: extractor,
		store:     store,
		sink:      sink,
		progress:  io.Discard,
		now:       time.Now,
		logger:    slog.Default().With("component", "pipeline"),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.With("run_id", store.RunID())
	return o, nil
}

// Preflight runs the checks that must pass before any remote call: valid
// settings, an existing input directory with at least one document and a
// usable credential.
func Preflight(cfg *Config) ([]Document, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	docs, err := Discover(cfg.InputDir, cfg.Patterns, cfg.Skip)
	if err != nil {
		return nil, err
	}
	if err := ai.CheckCredential(cfg.Provider.APIKey); err != nil {
		return nil, err
	}
	return docs, nil
}

// State returns the current state.
func (o *Orchestrator) State() State {
	return o.state
}

// Run executes the pipeline until every block has been considered, the
// block cap is reached or ctx is cancelled. The returned summary is never
// nil. The error is nil only when the run ends in StateDone.
func (o *Orchestrator) Run(ctx context.Context) (summary *Summary, err error) {
	start := o.now()
	o.summary = &Summary{RunID: o.store.RunID()}
	summary = o.summary
	defer func() {
		summary.State = o.state
		summary.Records = len(o.records)
		summary.Elapsed = o.now().Sub(start)
	}()

	o.setState(StateInit)
	docs, err := Preflight(o.cfg)
	if err != nil {
		o.setState(StateFailed)
		return summary, err
	}
	summary.Documents = len(docs)

	o.setState(StateLoadingCheckpoint)
	if err := o.loadPrevious(ctx); err != nil {
		o.setState(StateFailed)
		return summary, err
	}

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("unexpected failure, saving progress", "panic", r)
			o.persist(context.WithoutCancel(ctx))
			o.setState(StateFailed)
			panic(r)
		}
	}()

	o.setState(StateProcessing)
	interrupted := o.process(ctx, docs)

	if interrupted {
		o.logger.Warn("interrupted, saving progress")
		o.persist(context.WithoutCancel(ctx))
		o.setState(StateInterrupted)
		o.logger.Info("run ended", "summary", summary)
		return summary, fmt.Errorf("%w: %w", ErrInterrupted, context.Cause(ctx))
	}

	o.setState(StateFinalizing)
	o.persist(ctx)

	if len(o.records) == 0 {
		o.setState(StateFailed)
		o.logger.Error("run produced no records", "summary", summary)
		return summary, ErrNoRecords
	}

	o.setState(StateDone)
	o.logger.Info("run complete", "summary", summary)
	return summary, nil
}

func (o *Orchestrator) loadPrevious(ctx context.Context) error {
	if !o.cfg.Resume {
		return nil
	}
	if _, err := o.store.Load(ctx); err != nil {
		return fmt.Errorf("load checkpoint: %w", err)
	}
	prior, err := o.sink.Load(ctx)
	if err != nil {
		return fmt.Errorf("load previous output: %w", err)
	}
	o.records = prior
	if len(prior) > 0 {
		o.logger.Info("kept rows from previous runs", "records", len(prior))
	}
	return nil
}

type documentBlocks struct {
	doc    Document
	blocks []core.RawBlock
}

// process runs the PROCESSING state and reports whether it was interrupted.
func (o *Orchestrator) process(ctx context.Context, docs []Document) bool {
	var work []documentBlocks
	total := 0
	for _, doc := range docs {
		text, err := ReadDocument(doc)
		if err != nil {
			o.logger.Warn("skipping document", "document", doc.Name, "err", err)
			continue
		}
		blocks := segment.Split(doc.Name, text)
		o.logger.Debug("document segmented", "document", doc.Name, "blocks", len(blocks))
		work = append(work, documentBlocks{doc: doc, blocks: blocks})
		total += len(blocks)
	}
	o.summary.Blocks = total

	tracker := NewProgressTracker(o.progress, total, o.cfg.ProgressInterval)
	tracker.Start()
	defer tracker.Finish()

	seen := make(map[string]string, total)
	for _, item := range work {
		overrides := core.Fields{Gender: item.doc.Gender}
		for _, block := range item.blocks {
			if ctx.Err() != nil {
				return true
			}
			if o.cfg.MaxBlocks > 0 && o.summary.Attempted >= o.cfg.MaxBlocks {
				o.logger.Info("block limit reached", "limit", o.cfg.MaxBlocks)
				return false
			}

			id := core.BlockID(block)
			if prev, dup := seen[id]; dup {
				o.summary.Collisions++
				o.store.CountCollision()
				o.logger.Warn("identifier collision", "id", id,
					"sequence_id", block.SequenceID, "first_seen", prev)
			} else {
				seen[id] = fmt.Sprintf("%s#%d", block.Document, block.SequenceID)
			}

			if o.store.IsDone(id) {
				o.summary.SkippedDone++
				o.store.CountSkipDone()
				tracker.Skip()
				continue
			}
			if o.store.ShouldSkipRetry(id) {
				o.summary.SkippedRetry++
				o.store.CountSkipRetry()
				o.logger.Debug("skipping block after repeated failures", "id", id,
					"attempts", o.store.AttemptCount(id))
				tracker.Skip()
				continue
			}

			out := o.extractor.Extract(ctx, extract.Request{
				Text:        block.Text,
				GenderKnown: item.doc.Gender != nil,
			})
			if !out.OK() && ctx.Err() != nil {
				// Cut short by the interrupt; retried on the next run.
				return true
			}

			o.summary.Attempted++
			if out.OK() {
				record := core.NewRecord(block, out.Fields, overrides, o.now())
				o.records = append(o.records, record)
				o.store.MarkSuccess(id)
				o.summary.Succeeded++
			} else {
				o.store.MarkFailure(id, out.Err)
				o.summary.Failed++
				o.logger.Warn("extraction failed", "id", id,
					"attempts", out.Attempts, "err", ai.RedactSecrets(out.Err.Error()))
			}
			tracker.Attempt(out.OK())

			if (o.summary.Succeeded+o.summary.Failed)%o.cfg.FlushInterval == 0 {
				o.persist(ctx)
			}
		}
	}
	return false
}

// persist saves the checkpoint and flushes the sink. Failures are logged and
// counted; processing continues with the in-memory state.
func (o *Orchestrator) persist(ctx context.Context) {
	o.summary.Flushes++
	o.store.CountFlush()
	if err := o.store.Save(ctx); err != nil {
		o.summary.PersistErrors++
		o.logger.Error("checkpoint save failed", "err", err)
	}

	if err := o.sink.Flush(ctx, o.records); err != nil {
		o.summary.PersistErrors++
		o.logger.Error("output flush failed", "err", err)
		return
	}
	o.logger.Info("progress saved", "records", len(o.records),
		"succeeded", o.summary.Succeeded, "failed", o.summary.Failed)
}

func (o *Orchestrator) setState(s State) {
	if o.state == s && s != StateInit {
		return
	}
	o.logger.Debug("state transition", "from", o.state, "to", s)
	o.state = s
	if o.onStateChange != nil {
		o.onStateChange(s)
	}
}

var _ Extractor = (*extract.Client)(nil)

// IsConfigError reports whether err is a CONFIG-class failure raised before
// processing starts.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInputNotFound) ||
		errors.Is(err, ErrNoDocuments) ||
		errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ai.ErrMissingAPIKey) ||
		errors.Is(err, ai.ErrPlaceholderAPIKey)
}
