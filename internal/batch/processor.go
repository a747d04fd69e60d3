package batch

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"euler-quat/internal/anglefile"
	"euler-quat/internal/mathutil"
)

// Config holds the settings for a batch run.
type Config struct {
	Workers         int
	RejectNonFinite bool

	// Progress receives periodic "[n/total]" lines. Nil disables reporting.
	Progress         io.Writer
	ProgressInterval time.Duration
}

// Result holds the outcome of converting one entry.
type Result struct {
	Name    string
	Angles  mathutil.Angles
	Quat    mathutil.Quat
	Success bool
	Error   string
}

// Run converts all entries using a worker pool. Results are in input order.
func Run(cfg Config, entries []anglefile.Entry) []Result {
	total := len(entries)
	results := make([]Result, total)
	if total == 0 {
		return results
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > total {
		workers = total
	}

	var processed atomic.Int64
	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	var reporter sync.WaitGroup
	if cfg.Progress != nil {
		interval := cfg.ProgressInterval
		if interval <= 0 {
			interval = 2 * time.Second
		}
		reporter.Add(1)
		go func() {
			defer reporter.Done()
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						rate := float64(p) / time.Since(start).Seconds()
						fmt.Fprintf(cfg.Progress, "  [%d/%d] %.1f entries/sec\n", p, total, rate)
					}
				}
			}
		}()
	}

	// Worker pool
	idxChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range idxChan {
				results[idx] = convert(cfg, entries[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range entries {
		idxChan <- i
	}
	close(idxChan)

	wg.Wait()
	close(done)
	reporter.Wait()

	return results
}

func convert(cfg Config, e anglefile.Entry) Result {
	if cfg.RejectNonFinite && !e.Angles.IsFinite() {
		return Result{
			Name:   e.Name,
			Angles: e.Angles,
			Error:  fmt.Sprintf("non-finite angle (yaw=%v pitch=%v roll=%v)", e.Yaw, e.Pitch, e.Roll),
		}
	}

	return Result{
		Name:    e.Name,
		Angles:  e.Angles,
		Quat:    e.Angles.Quat(),
		Success: true,
	}
}

// Failed returns the results that did not succeed, in order.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	return failed
}
