package jobs

import (
	"context"
	"log"
	"sync"
	"time"
)

// Job is one named periodic task.
type Job struct {
	Name  string
	Every time.Duration
	Run   func(ctx context.Context) error
}

// Runner drives a set of periodic jobs, one goroutine per job, until the
// context is cancelled.
type Runner struct {
	jobs []Job
	wg   sync.WaitGroup
}

func NewRunner() *Runner {
	return &Runner{}
}

func (r *Runner) Add(name string, every time.Duration, fn func(ctx context.Context) error) {
	r.jobs = append(r.jobs, Job{Name: name, Every: every, Run: fn})
}

// Start launches all jobs. Each job runs once immediately, then on its ticker.
func (r *Runner) Start(ctx context.Context) {
	for _, job := range r.jobs {
		r.wg.Add(1)
		go func(job Job) {
			defer r.wg.Done()

			runOne(ctx, job)

			ticker := time.NewTicker(job.Every)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					runOne(ctx, job)
				}
			}
		}(job)
	}
}

// Wait blocks until every job goroutine has exited.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func runOne(ctx context.Context, job Job) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[jobs] %s panicked: %v", job.Name, rec)
		}
	}()

	if err := job.Run(ctx); err != nil {
		log.Printf("[jobs] %s failed: %v", job.Name, err)
	}
}
