package scrape

import "sync"

// workerPool bounds upsert fan-out within one batch. The ingest job waits for
// the pool before returning, so batch completion is deterministic.
type workerPool struct {
	sem chan struct{}
	wg  sync.WaitGroup
}

func newWorkerPool(maxWorkers int) *workerPool {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	return &workerPool{sem: make(chan struct{}, maxWorkers)}
}

func (wp *workerPool) Submit(job func()) {
	wp.wg.Add(1)
	wp.sem <- struct{}{}

	go func() {
		defer wp.wg.Done()
		defer func() { <-wp.sem }()
		job()
	}()
}

func (wp *workerPool) Wait() {
	wp.wg.Wait()
}
