package scrape

import (
	"sync/atomic"
	"testing"
)

func TestWorkerPoolRunsEverySubmittedJob(t *testing.T) {
	pool := newWorkerPool(4)

	var done int64
	for i := 0; i < 100; i++ {
		pool.Submit(func() {
			atomic.AddInt64(&done, 1)
		})
	}
	pool.Wait()

	if done != 100 {
		t.Fatalf("done = %d, want 100", done)
	}
}

func TestWorkerPoolBoundsConcurrency(t *testing.T) {
	const limit = 3
	pool := newWorkerPool(limit)

	var active, peak int64
	for i := 0; i < 50; i++ {
		pool.Submit(func() {
			n := atomic.AddInt64(&active, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
					break
				}
			}
			atomic.AddInt64(&active, -1)
		})
	}
	pool.Wait()

	if peak > limit {
		t.Fatalf("peak concurrency = %d, want at most %d", peak, limit)
	}
}

func TestWorkerPoolZeroSizeStillWorks(t *testing.T) {
	pool := newWorkerPool(0)

	var done int64
	pool.Submit(func() { atomic.AddInt64(&done, 1) })
	pool.Wait()

	if done != 1 {
		t.Fatal("job did not run")
	}
}

func TestDefaultJobsPurgeFlag(t *testing.T) {
	for _, job := range DefaultJobs() {
		want := job.Name == "myproperty-condominium"
		if job.PurgeOnEmpty != want {
			t.Errorf("%s: PurgeOnEmpty = %v, want %v", job.Name, job.PurgeOnEmpty, want)
		}
		if job.Limit <= 0 {
			t.Errorf("%s: limit must be positive", job.Name)
		}
		if job.Every <= 0 {
			t.Errorf("%s: interval must be positive", job.Name)
		}
	}
}
