package screenrunner

import (
	"context"
	"log/slog"
	"sync"

	"urlinfo/internal/ports"
	"urlinfo/internal/services/screening"
)

// Run screens every target with concurrency workers and returns one result
// per target in input order. Targets not reached before ctx is cancelled
// carry ctx.Err().
func Run(ctx context.Context, screener ports.Screener, targets []string, concurrency int, logger *slog.Logger) []ports.ScreenResult {
	if logger == nil {
		logger = slog.Default()
	}
	if concurrency < 1 {
		concurrency = 1
	}
	results := make([]ports.ScreenResult, len(targets))
	jobsCh := make(chan ports.ScreenJob, concurrency)

	// dispatcher
	go func() {
		defer close(jobsCh)
		for i, target := range targets {
			job := ports.ScreenJob{Index: i, Target: target}
			select {
			case <-ctx.Done():
				for j := i; j < len(targets); j++ {
					results[j] = ports.ScreenResult{ScreenJob: ports.ScreenJob{Index: j, Target: targets[j]}, Err: ctx.Err()}
				}
				return
			case jobsCh <- job:
			}
		}
	}()

	// workers
	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			for job := range jobsCh {
				v, err := screener.Screen(ctx, screening.ParseTarget(job.Target))
				if err != nil {
					logger.Debug("batch target not screened", "worker", idx, "index", job.Index, "error", err)
				}
				results[job.Index] = ports.ScreenResult{ScreenJob: job, Verdict: v, Err: err}
			}
		}(i)
	}
	wg.Wait()
	return results
}
