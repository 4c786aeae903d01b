package partition

import (
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/starhaven/skygo/healpix"
)

// MaxHistogramOrder bounds the fine histogram order so child pixel ids fit
// the 32-bit bitmaps backing each partition's children set.
const MaxHistogramOrder = 14

// ErrInvalidOptions indicates unusable partitioner options.
var ErrInvalidOptions = errors.New("invalid partitioner options")

// Options contains configuration options for the histogram partitioner.
type Options struct {
	// HistogramOrder is the fine order the count histogram is built at.
	HistogramOrder int

	// LowestOrder is the coarsest order a partition may be emitted at.
	LowestOrder int

	// Threshold is the soft row-count cap per partition. Sibling cells merge
	// only while the merged count stays at or under it.
	Threshold int64
}

// DefaultOptions contains the default configuration options for the
// histogram partitioner.
var DefaultOptions = Options{
	HistogramOrder: 10,
	LowestOrder:    0,
	Threshold:      100_000,
}

// cell is a pending or emitted partition during the merge.
type cell struct {
	count    int64
	children *roaring.Bitmap
}

// Build histograms the spatial keys at the histogram order and merges sibling
// cells bottom-up into the coarsest pixels that stay under the threshold.
// The result is deterministic for identical inputs.
func Build(indices []healpix.Index, optFns ...func(o *Options)) (*PixelMap, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Threshold <= 0 {
		return nil, fmt.Errorf("%w: threshold must be positive, got %d", ErrInvalidOptions, opts.Threshold)
	}
	if opts.LowestOrder < 0 {
		return nil, fmt.Errorf("%w: lowest order must be non-negative, got %d", ErrInvalidOptions, opts.LowestOrder)
	}
	if opts.HistogramOrder < opts.LowestOrder {
		return nil, fmt.Errorf("%w: histogram order %d below lowest order %d", ErrInvalidOptions, opts.HistogramOrder, opts.LowestOrder)
	}
	if opts.HistogramOrder > MaxHistogramOrder {
		return nil, fmt.Errorf("%w: histogram order %d exceeds %d", ErrInvalidOptions, opts.HistogramOrder, MaxHistogramOrder)
	}

	// Sparse count histogram over the order-H cells.
	pending := make(map[int64]cell)
	for _, idx := range indices {
		num := idx.Pixel(opts.HistogramOrder).Num
		c, ok := pending[num]
		if !ok {
			c.children = roaring.New()
			c.children.Add(uint32(num))
		}
		c.count++
		pending[num] = c
	}

	final := make(map[healpix.Pixel]cell)
	for order := opts.HistogramOrder; order > opts.LowestOrder; order-- {
		// Group the pending cells by parent and merge whole sibling groups
		// whose total stays under the threshold. Groups over the threshold
		// emit their members at the current order; at the histogram order
		// that can mean an oversized leaf.
		groups := make(map[int64][]int64)
		for num := range pending {
			groups[num>>2] = append(groups[num>>2], num)
		}

		next := make(map[int64]cell, len(groups))
		for parent, members := range groups {
			var sum int64
			for _, num := range members {
				sum += pending[num].count
			}
			if sum <= opts.Threshold {
				merged := roaring.New()
				for _, num := range members {
					merged.Or(pending[num].children)
				}
				next[parent] = cell{count: sum, children: merged}
			} else {
				for _, num := range members {
					final[healpix.Pixel{Order: order, Num: num}] = pending[num]
				}
			}
		}
		pending = next
	}
	for num, c := range pending {
		final[healpix.Pixel{Order: opts.LowestOrder, Num: num}] = c
	}

	entries := make([]Entry, 0, len(final))
	for p, c := range final {
		entries = append(entries, Entry{Pixel: p, Count: c.count, children: c.children})
	}
	return newMap(opts.HistogramOrder, entries)
}
