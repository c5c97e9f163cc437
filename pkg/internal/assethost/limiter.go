package assethost

import (
	"context"
	"sync"
	"time"
)

// Limiter serializes calls through a single FIFO lane and enforces a minimum
// interval between consecutive dispatches. The last-dispatch timestamp is
// owned exclusively by the drain goroutine, so no two callers can race past
// the spacing check.
type Limiter struct {
	interval time.Duration
	jobs     chan *limiterJob

	startOnce sync.Once
	stopOnce  sync.Once
	stopped   chan struct{}
}

type limiterJob struct {
	ctx  context.Context
	fn   func(ctx context.Context) error
	done chan error
}

// NewLimiter creates a limiter with the given minimum inter-dispatch spacing.
// A zero or negative interval still serializes calls, without spacing.
func NewLimiter(interval time.Duration) *Limiter {
	return &Limiter{
		interval: interval,
		jobs:     make(chan *limiterJob, 64),
		stopped:  make(chan struct{}),
	}
}

// Do enqueues fn and blocks until it has run or ctx is done. Calls are
// dispatched in submission order.
func (l *Limiter) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	l.startOnce.Do(func() { go l.drain() })

	job := &limiterJob{ctx: ctx, fn: fn, done: make(chan error, 1)}

	select {
	case l.jobs <- job:
	case <-ctx.Done():
		return ctx.Err()
	case <-l.stopped:
		return context.Canceled
	}

	select {
	case err := <-job.done:
		return err
	case <-ctx.Done():
		// The job may still dispatch; the caller has stopped waiting.
		return ctx.Err()
	case <-l.stopped:
		return context.Canceled
	}
}

// Close stops the drain loop. Queued jobs fail with context.Canceled.
func (l *Limiter) Close() {
	l.stopOnce.Do(func() { close(l.stopped) })
}

// drain pops one job at a time, waits out the remaining spacing since the
// previous dispatch, then runs the job synchronously.
func (l *Limiter) drain() {
	var last time.Time

	for {
		select {
		case <-l.stopped:
			l.flush()
			return
		case job := <-l.jobs:
			if err := job.ctx.Err(); err != nil {
				job.done <- err
				continue
			}

			if !last.IsZero() {
				if wait := l.interval - time.Since(last); wait > 0 {
					timer := time.NewTimer(wait)
					select {
					case <-timer.C:
					case <-job.ctx.Done():
						timer.Stop()
						job.done <- job.ctx.Err()

						continue
					case <-l.stopped:
						timer.Stop()
						job.done <- context.Canceled
						l.flush()

						return
					}
				}
			}

			last = time.Now()
			job.done <- job.fn(job.ctx)
		}
	}
}

// flush fails every job still queued after Close so no caller is left
// waiting on done.
func (l *Limiter) flush() {
	for {
		select {
		case job := <-l.jobs:
			job.done <- context.Canceled
		default:
			return
		}
	}
}
