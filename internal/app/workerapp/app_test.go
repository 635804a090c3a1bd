package workerapp

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/QCNachos/TindAi/internal/config"
	"github.com/QCNachos/TindAi/internal/jobs/karma"
)

type countingJob struct {
	runs atomic.Int32
	err  error
}

func (j *countingJob) Run(context.Context) (karma.Result, error) {
	j.runs.Add(1)
	return karma.Result{Processed: 1}, j.err
}

func TestRunKarmaLoopRunsImmediatelyAndStopsOnCancel(t *testing.T) {
	job := &countingJob{}
	cfg := config.Default()
	cfg.Karma.Interval = time.Hour
	app := &App{cfg: cfg, logger: zap.NewNop(), karmaJob: job}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for job.runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("worker did not stop after cancel")
	}
	if job.runs.Load() != 1 {
		t.Fatalf("expected exactly one run before the first tick, got %d", job.runs.Load())
	}
}

func TestRunKarmaLoopKeepsGoingAfterFailedRun(t *testing.T) {
	job := &countingJob{err: errors.New("db down")}
	cfg := config.Default()
	cfg.Karma.Interval = 10 * time.Millisecond
	app := &App{cfg: cfg, logger: zap.NewNop(), karmaJob: job}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	for job.runs.Load() < 3 && ctx.Err() == nil {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	if err := <-done; err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if job.runs.Load() < 3 {
		t.Fatalf("expected repeated runs after failures, got %d", job.runs.Load())
	}
}

func TestIntervalFallsBackToDefault(t *testing.T) {
	app := &App{cfg: config.Config{}}
	if got := app.interval(); got != defaultKarmaInterval {
		t.Fatalf("unexpected interval: got %s want %s", got, defaultKarmaInterval)
	}
}
