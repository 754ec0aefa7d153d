// Package tasks runs small periodic maintenance jobs on their own
// tickers. Jobs are best effort: a failing run is logged and retried on
// the next tick, never escalated.
package tasks

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is one periodic maintenance task.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// runTimeout bounds a single job run.
const runTimeout = 30 * time.Second

// Runner owns a set of jobs and their goroutines.
type Runner struct {
	log    *zap.Logger
	jobs   []Job
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewRunner creates an empty runner. Add jobs before calling Start.
func NewRunner(logger *zap.Logger) *Runner {
	return &Runner{log: logger, stopCh: make(chan struct{})}
}

// Add registers a job. Not safe to call after Start.
func (r *Runner) Add(job Job) {
	r.jobs = append(r.jobs, job)
}

// Start launches one goroutine per job.
func (r *Runner) Start() {
	for _, job := range r.jobs {
		r.wg.Add(1)
		go r.loop(job)
	}
	r.log.Info("task runner started", zap.Int("jobs", len(r.jobs)))
}

// Stop signals all job loops and waits for them to finish.
func (r *Runner) Stop() {
	close(r.stopCh)
	r.wg.Wait()
	r.log.Info("task runner stopped")
}

func (r *Runner) loop(job Job) {
	defer r.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
			if err := job.Run(ctx); err != nil {
				r.log.Error("task run failed",
					zap.String("task", job.Name), zap.Error(err))
			}
			cancel()
		}
	}
}
