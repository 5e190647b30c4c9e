package domain

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// DefaultPoolSize is the number of tasks a Scheduler runs at once unless configured otherwise.
const DefaultPoolSize = 5

// Scheduler runs batches of tasks with bounded concurrency. The bound is shared by every
// batch submitted to the same Scheduler, and each batch is joined before RunBatch returns.
type Scheduler struct {
	size        int
	sem         *semaphore.Weighted
	taskTimeout time.Duration
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithTaskTimeout bounds the context handed to every task. Zero disables the timeout.
func WithTaskTimeout(timeout time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		s.taskTimeout = timeout
	}
}

// NewScheduler creates a Scheduler running at most size tasks at once.
// A non-positive size falls back to DefaultPoolSize.
func NewScheduler(size int, opts ...SchedulerOption) *Scheduler {
	if size <= 0 {
		size = DefaultPoolSize
	}

	s := &Scheduler{
		size: size,
		sem:  semaphore.NewWeighted(int64(size)),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Size returns the concurrency bound.
func (s *Scheduler) Size() int {
	return s.size
}

// RunBatch submits n tasks and blocks until all of them returned. Task i receives its index
// and a context bounded by the task timeout. When ctx is cancelled before a task obtains a
// slot, the task still runs with the cancelled context so it can report the failure.
func (s *Scheduler) RunBatch(ctx context.Context, n int, task func(ctx context.Context, i int)) {
	var group errgroup.Group

	for i := range n {
		group.Go(func() error {
			if err := s.sem.Acquire(ctx, 1); err != nil {
				task(ctx, i)
				return nil
			}
			defer s.sem.Release(1)

			taskCtx, cancel := s.taskContext(ctx)
			defer cancel()

			task(taskCtx, i)

			return nil
		})
	}

	_ = group.Wait()
}

func (s *Scheduler) taskContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.taskTimeout > 0 {
		return context.WithTimeout(ctx, s.taskTimeout)
	}

	return context.WithCancel(ctx)
}
