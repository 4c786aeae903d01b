package skygo

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/starhaven/skygo/healpix"
	"github.com/starhaven/skygo/metadata"
	"github.com/starhaven/skygo/partition"
	"github.com/starhaven/skygo/table"
)

// Task is one independent unit of deferred work: it produces the table for a
// single output partition. Run must be a pure function of its captured inputs
// so tasks can execute concurrently.
type Task struct {
	Pixel healpix.Pixel
	Run   func(ctx context.Context) (*table.Table, error)
}

// Plan is an ordered set of tasks, one per output partition, in storage
// order. Building a plan performs no row-level work.
type Plan []Task

// LazyCatalog is a derived catalog whose partitions have not been computed
// yet. Construction only walks partition structure; Compute realizes the
// plan.
type LazyCatalog struct {
	meta      *metadata.Metadata
	plan      Plan
	histOrder int
	opts      Options
}

// Meta returns the metadata the realized catalog will carry.
func (lc *LazyCatalog) Meta() *metadata.Metadata {
	return lc.meta
}

// Plan returns the deferred tasks in storage order.
func (lc *LazyCatalog) Plan() Plan {
	return lc.plan
}

// Compute realizes the plan and assembles the resulting catalog. Tasks run in
// parallel, bounded by the configured resource controller, and fail fast: the
// first error cancels the rest and no partial catalog is returned.
func (lc *LazyCatalog) Compute(ctx context.Context) (*Catalog, error) {
	parts := make([]*table.Table, len(lc.plan))

	g, gctx := errgroup.WithContext(ctx)
	if rc := lc.opts.Controller; rc != nil {
		g.SetLimit(int(rc.MaxWorkers()))
	}
	for i, task := range lc.plan {
		g.Go(func() error {
			if rc := lc.opts.Controller; rc != nil {
				if err := rc.AcquireWorker(gctx); err != nil {
					return err
				}
				defer rc.ReleaseWorker()
			}
			t, err := task.Run(gctx)
			if err != nil {
				return err
			}
			if rc := lc.opts.Controller; rc != nil {
				if err := rc.ThrottleRows(gctx, t.Len()); err != nil {
					return err
				}
			}
			t.SortByIndex()
			parts[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		lc.opts.Logger.LogRealize(ctx, len(lc.plan), 0, err)
		return nil, err
	}

	pixels := make([]healpix.Pixel, len(lc.plan))
	counts := make([]int64, len(lc.plan))
	var rows int
	for i, task := range lc.plan {
		pixels[i] = task.Pixel
		counts[i] = int64(parts[i].Len())
		rows += parts[i].Len()
	}
	pmap, err := partition.NewMap(lc.histOrder, pixels, counts)
	if err != nil {
		return nil, err
	}

	cat, err := NewCatalog(lc.meta, pmap, parts, func(o *Options) {
		*o = lc.opts
	})
	if err != nil {
		return nil, err
	}
	lc.opts.Logger.LogRealize(ctx, len(lc.plan), rows, nil)
	return cat, nil
}
