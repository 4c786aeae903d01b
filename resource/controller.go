// Package resource bounds the parallelism of partition-local work.
package resource

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits for realizing partition tasks.
type Config struct {
	// MaxWorkers is the maximum number of partition tasks running at once.
	// If 0, defaults to GOMAXPROCS.
	MaxWorkers int64

	// RowLimitPerSec is the maximum row throughput across all tasks.
	// If 0, unlimited.
	RowLimitPerSec int64
}

// Controller manages shared limits across the independent tasks of one
// realize step. A nil Controller applies no limits.
type Controller struct {
	cfg Config

	workerSem *semaphore.Weighted
	inFlight  atomic.Int64

	rowLimiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = int64(runtime.GOMAXPROCS(0))
	}

	c := &Controller{
		cfg:       cfg,
		workerSem: semaphore.NewWeighted(cfg.MaxWorkers),
	}

	if cfg.RowLimitPerSec > 0 {
		c.rowLimiter = rate.NewLimiter(rate.Limit(cfg.RowLimitPerSec), int(cfg.RowLimitPerSec))
	}

	return c
}

// MaxWorkers returns the effective worker limit.
func (c *Controller) MaxWorkers() int64 {
	if c == nil {
		return int64(runtime.GOMAXPROCS(0))
	}
	return c.cfg.MaxWorkers
}

// AcquireWorker reserves a task slot, blocking while all slots are busy.
func (c *Controller) AcquireWorker(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if err := c.workerSem.Acquire(ctx, 1); err != nil {
		return err
	}
	c.inFlight.Add(1)
	return nil
}

// TryAcquireWorker reserves a task slot without blocking.
func (c *Controller) TryAcquireWorker() bool {
	if c == nil {
		return true
	}
	if !c.workerSem.TryAcquire(1) {
		return false
	}
	c.inFlight.Add(1)
	return true
}

// ReleaseWorker releases a task slot.
func (c *Controller) ReleaseWorker() {
	if c == nil {
		return
	}
	c.workerSem.Release(1)
	c.inFlight.Add(-1)
}

// InFlight returns the number of tasks currently holding a slot.
func (c *Controller) InFlight() int64 {
	if c == nil {
		return 0
	}
	return c.inFlight.Load()
}

// ThrottleRows waits until the row-throughput limit admits n rows.
func (c *Controller) ThrottleRows(ctx context.Context, n int) error {
	if c == nil || c.rowLimiter == nil || n <= 0 {
		return nil
	}
	// WaitN caps n at the limiter burst; chunk large partitions through it.
	burst := c.rowLimiter.Burst()
	for n > 0 {
		chunk := n
		if chunk > burst {
			chunk = burst
		}
		if err := c.rowLimiter.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}
