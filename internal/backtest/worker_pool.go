package backtest

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"
)

// Job is a single backtest task inside a sweep.
type Job struct {
	ID     int
	Config Config
}

// JobResult pairs a job with its outcome. A failed job carries its error
// here instead of aborting the rest of the sweep.
type JobResult struct {
	Job      Job
	Result   *Result
	Err      error
	Duration time.Duration
}

// WorkerPool runs backtests in parallel over a shared Runner. The runner's
// regime cache makes the benchmark load a one-time cost across workers.
type WorkerPool struct {
	workerCount int
	runner      *Runner
}

// NewWorkerPool creates a pool. A non-positive worker count defaults to the
// number of CPUs.
func NewWorkerPool(runner *Runner, workerCount int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	return &WorkerPool{
		workerCount: workerCount,
		runner:      runner,
	}
}

// RunAll executes every config and returns results in job order. Individual
// failures are isolated per job; only context cancellation stops the sweep
// early, and even then the already-finished results come back.
func (wp *WorkerPool) RunAll(ctx context.Context, configs []Config) []JobResult {
	jobs := make(chan Job, len(configs))
	results := make(chan JobResult, len(configs))

	var wg sync.WaitGroup
	for i := 0; i < wp.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wp.worker(ctx, jobs, results)
		}()
	}

	for i, cfg := range configs {
		jobs <- Job{ID: i, Config: cfg}
	}
	close(jobs)

	wg.Wait()
	close(results)

	collected := make([]JobResult, 0, len(configs))
	for res := range results {
		collected = append(collected, res)
	}
	sort.Slice(collected, func(i, j int) bool {
		return collected[i].Job.ID < collected[j].Job.ID
	})
	return collected
}

func (wp *WorkerPool) worker(ctx context.Context, jobs <-chan Job, results chan<- JobResult) {
	for job := range jobs {
		if err := ctx.Err(); err != nil {
			results <- JobResult{Job: job, Err: err}
			continue
		}

		started := time.Now()
		result, err := wp.runner.Run(ctx, job.Config)
		results <- JobResult{
			Job:      job,
			Result:   result,
			Err:      err,
			Duration: time.Since(started),
		}
	}
}

// Failures counts the jobs that ended in error.
func Failures(results []JobResult) int {
	n := 0
	for _, res := range results {
		if res.Err != nil {
			n++
		}
	}
	return n
}
