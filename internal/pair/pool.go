package pair

import (
	"context"
	"errors"
	"sync"

	"github.com/Croissong/vdirsyncer/internal/ctxlog"
)

// Job is one unit of per-pair work, e.g. discovering a pair's collections.
type Job func(ctx context.Context) error

// Pool runs jobs across a bounded set of workers. The first failure cancels
// the context so queued jobs are skipped, but already-running jobs finish
// and every error is reported.
type Pool struct {
	workers int
}

// NewPool returns a pool with the given worker count, defaulting to 1 for
// non-positive values.
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Run executes all jobs and blocks until they are done or skipped.
func (p *Pool) Run(ctx context.Context, jobs []Job) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobCh := make(chan Job)
	errCh := make(chan error, len(jobs))

	var wg sync.WaitGroup
	for id := 0; id < p.workers; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p.worker(ctx, id, jobCh, errCh, cancel)
		}(id)
	}

	for _, job := range jobs {
		jobCh <- job
	}
	close(jobCh)
	wg.Wait()
	close(errCh)

	var errs []error
	for err := range errCh {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// worker is the processing loop of one concurrent worker. Workers keep
// draining the channel after cancellation so the feeder never blocks; they
// just stop doing work.
func (p *Pool) worker(ctx context.Context, id int, jobs <-chan Job, errs chan<- error, cancel context.CancelFunc) {
	logger := ctxlog.FromContext(ctx).With("workerID", id)
	logger.Debug("Worker started.")

	for job := range jobs {
		if ctx.Err() != nil {
			logger.Debug("Skipping job after cancellation.")
			continue
		}
		if err := job(ctx); err != nil {
			logger.Error("Job failed.", "error", err)
			errs <- err
			cancel()
		}
	}
	logger.Debug("Worker finished.")
}
