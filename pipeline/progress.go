package pipeline

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker prints a single updating progress line for a run.
type ProgressTracker struct {
	writer         io.Writer
	total          int
	current        int
	succeeded      int
	failed         int
	reportInterval int
	lastReported   int
	startTime      time.Time
	started        bool
	now            func() time.Time
	mu             sync.Mutex
}

// NewProgressTracker creates a tracker for total blocks that reports every
// reportInterval attempted blocks.
func NewProgressTracker(writer io.Writer, total, reportInterval int) *ProgressTracker {
	if reportInterval < 1 {
		reportInterval = 1
	}
	return &ProgressTracker{
		writer:         writer,
		total:          total,
		reportInterval: reportInterval,
		now:            time.Now,
	}
}

// Start begins tracking progress.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = p.now()
	p.started = true
	p.current = 0
	p.succeeded = 0
	p.failed = 0
	p.lastReported = 0
}

// Skip counts a block that needed no remote call.
func (p *ProgressTracker) Skip() {
	p.advance(func() {})
}

// Attempt counts an attempted block and its outcome.
func (p *ProgressTracker) Attempt(ok bool) {
	p.advance(func() {
		if ok {
			p.succeeded++
		} else {
			p.failed++
		}
	})
}

func (p *ProgressTracker) advance(count func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	count()
	p.current++
	if p.current > p.total {
		p.current = p.total
	}

	if p.current-p.lastReported >= p.reportInterval {
		p.report()
		p.lastReported = p.current
	}
}

// Finish prints the final progress line.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.report()
	fmt.Fprintln(p.writer)
}

// Elapsed returns the time elapsed since Start was called.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return 0
	}

	return p.now().Sub(p.startTime)
}

// report prints the current progress. Must be called with lock held.
func (p *ProgressTracker) report() {
	rate := 0.0
	if elapsed := p.now().Sub(p.startTime).Seconds(); elapsed > 0 {
		rate = float64(p.succeeded) / elapsed
	}

	percentage := 0.0
	if p.total > 0 {
		percentage = float64(p.current) / float64(p.total) * 100.0
	}

	fmt.Fprintf(p.writer, "\rProgress: %d/%d (%.1f%%) - %d ok, %d failed - %.2f records/s",
		p.current, p.total, percentage, p.succeeded, p.failed, rate)
}
