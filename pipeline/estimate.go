package pipeline

import (
	"context"
	"log/slog"
	"math"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/975125089bb/flutter-app/segment"
)

// DocumentEstimate is the block count of one document.
type DocumentEstimate struct {
	Name   string
	Blocks int
	// Err is set when the document could not be read; Blocks is then zero.
	Err error
}

// EstimateReport predicts the size and duration of a full run.
type EstimateReport struct {
	Documents   []DocumentEstimate
	TotalBlocks int
	// Requests is the minimum number of remote calls, one per block.
	Requests int
	// Minutes is the time spent in the fixed per-request delay alone,
	// rounded to one decimal.
	Minutes float64
}

// Estimate segments every matching document without calling the extraction
// service. Documents are read in parallel on a pool of poolSize workers;
// poolSize below 1 uses half the CPUs.
func Estimate(ctx context.Context, cfg *Config, poolSize int) (*EstimateReport, error) {
	docs, err := Discover(cfg.InputDir, cfg.Patterns, cfg.Skip)
	if err != nil {
		return nil, err
	}

	if poolSize < 1 {
		poolSize = max(runtime.NumCPU()/2, 1)
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	results := make([]DocumentEstimate, len(docs))
	var wg sync.WaitGroup
	for i, doc := range docs {
		results[i].Name = doc.Name
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return
			}
			text, err := ReadDocument(doc)
			if err != nil {
				results[i].Err = err
				return
			}
			results[i].Blocks = segment.Count(text)
		})
		if err != nil {
			wg.Done()
			results[i].Err = err
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &EstimateReport{Documents: results}
	for _, r := range results {
		if r.Err != nil {
			slog.Warn("document skipped in estimate", "component", "estimate", "document", r.Name, "err", r.Err)
			continue
		}
		report.TotalBlocks += r.Blocks
	}
	report.Requests = report.TotalBlocks
	report.Minutes = EstimateMinutes(report.TotalBlocks, cfg.Delay.Seconds())
	return report, nil
}

// EstimateMinutes returns round(blocks * delaySeconds / 60, 1).
func EstimateMinutes(blocks int, delaySeconds float64) float64 {
	return math.Round(float64(blocks)*delaySeconds/60*10) / 10
}
