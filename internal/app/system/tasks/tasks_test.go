package tasks

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestRunnerRunsJobOnTicks(t *testing.T) {
	var runs atomic.Int32

	r := NewRunner(zap.NewNop())
	r.Add(Job{
		Name:     "counter",
		Interval: 5 * time.Millisecond,
		Run: func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
	})
	r.Start()

	deadline := time.After(2 * time.Second)
	for runs.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("job never ran twice")
		case <-time.After(time.Millisecond):
		}
	}
	r.Stop()
}

func TestRunnerStopUnblocksWithoutJobs(t *testing.T) {
	r := NewRunner(zap.NewNop())
	r.Start()

	done := make(chan struct{})
	go func() {
		r.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestRunnerKeepsTickingAfterFailure(t *testing.T) {
	var runs atomic.Int32

	r := NewRunner(zap.NewNop())
	r.Add(Job{
		Name:     "flaky",
		Interval: 5 * time.Millisecond,
		Run: func(ctx context.Context) error {
			runs.Add(1)
			return errors.New("boom")
		},
	})
	r.Start()

	deadline := time.After(2 * time.Second)
	for runs.Load() < 3 {
		select {
		case <-deadline:
			t.Fatal("failing job stopped retrying")
		case <-time.After(time.Millisecond):
		}
	}
	r.Stop()
}
