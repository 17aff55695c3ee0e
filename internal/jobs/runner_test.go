package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunnerRunsImmediatelyAndOnTicks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs int64
	r := NewRunner()
	r.Add("counter", 10*time.Millisecond, func(context.Context) error {
		atomic.AddInt64(&runs, 1)
		return nil
	})

	r.Start(ctx)
	time.Sleep(100 * time.Millisecond)
	cancel()
	r.Wait()

	got := atomic.LoadInt64(&runs)
	if got < 2 {
		t.Fatalf("runs = %d, want at least 2 (immediate + ticks)", got)
	}
}

func TestRunnerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	r := NewRunner()
	r.Add("noop", time.Millisecond, func(context.Context) error { return nil })
	r.Start(ctx)

	cancel()

	done := make(chan struct{})
	go func() {
		r.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runner did not stop after cancel")
	}
}

func TestRunnerRecoversPanicAndKeepsTicking(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs int64
	r := NewRunner()
	r.Add("panicky", 10*time.Millisecond, func(context.Context) error {
		atomic.AddInt64(&runs, 1)
		panic("boom")
	})

	r.Start(ctx)
	time.Sleep(60 * time.Millisecond)
	cancel()
	r.Wait()

	if got := atomic.LoadInt64(&runs); got < 2 {
		t.Fatalf("runs = %d, want the job to survive its own panic", got)
	}
}

func TestRunnerLogsErrorsAndContinues(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs int64
	r := NewRunner()
	r.Add("failing", 10*time.Millisecond, func(context.Context) error {
		atomic.AddInt64(&runs, 1)
		return errors.New("transient")
	})

	r.Start(ctx)
	time.Sleep(60 * time.Millisecond)
	cancel()
	r.Wait()

	if got := atomic.LoadInt64(&runs); got < 2 {
		t.Fatalf("runs = %d, want repeated runs despite errors", got)
	}
}
