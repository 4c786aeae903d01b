package partition

import (
	"fmt"
	"iter"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/starhaven/skygo/healpix"
)

// Entry is one partition of a catalog: a pixel, its ordinal in physical
// storage order, its row count and the set of nonempty histogram-order
// children it subsumes.
type Entry struct {
	Pixel   healpix.Pixel
	Ordinal int
	Count   int64

	histOrder int
	children  *roaring.Bitmap
}

// Children returns the set of nonempty histogram-order child pixels subsumed
// by this partition. The bitmap must not be mutated.
func (e Entry) Children() *roaring.Bitmap {
	return e.children
}

// RowRange returns the half-open key range that routes rows into this
// partition. In the nested scheme the subsumed children are contiguous, so
// the range spans the lowest child through the highest.
func (e Entry) RowRange() (lo, hi healpix.Index) {
	first := healpix.Pixel{Order: e.histOrder, Num: int64(e.children.Minimum())}
	last := healpix.Pixel{Order: e.histOrder, Num: int64(e.children.Maximum())}
	lo, _ = first.IndexRange()
	_, hi = last.IndexRange()
	return lo, hi
}

// PixelMap is the bijection from a catalog's partition pixels to contiguous
// ordinals 0..n-1 in physical storage order (ascending pixel). It is
// immutable once built.
type PixelMap struct {
	histOrder int
	entries   []Entry
	byPixel   map[healpix.Pixel]int
}

// HistogramOrder returns the fine order the children sets are expressed at.
func (m *PixelMap) HistogramOrder() int {
	return m.histOrder
}

// Len returns the number of partitions.
func (m *PixelMap) Len() int {
	return len(m.entries)
}

// Entries iterates the partitions in storage order.
func (m *PixelMap) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, e := range m.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// Entry returns the partition at the given ordinal.
func (m *PixelMap) Entry(ordinal int) Entry {
	return m.entries[ordinal]
}

// Pixels returns the partition pixels in storage order.
func (m *PixelMap) Pixels() []healpix.Pixel {
	out := make([]healpix.Pixel, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Pixel
	}
	return out
}

// Ordinal returns the storage position of a partition pixel.
func (m *PixelMap) Ordinal(p healpix.Pixel) (int, bool) {
	i, ok := m.byPixel[p]
	return i, ok
}

// newMap assembles and validates a map from entries whose children sets are
// already populated. Entries are sorted into storage order here.
func newMap(histOrder int, entries []Entry) (*PixelMap, error) {
	slices.SortFunc(entries, func(a, b Entry) int {
		return a.Pixel.Compare(b.Pixel)
	})

	byPixel := make(map[healpix.Pixel]int, len(entries))
	for i := range entries {
		entries[i].Ordinal = i
		entries[i].histOrder = histOrder
		if _, dup := byPixel[entries[i].Pixel]; dup {
			return nil, fmt.Errorf("partition: duplicate pixel %v", entries[i].Pixel)
		}
		byPixel[entries[i].Pixel] = i
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Pixel.Contains(entries[i].Pixel) {
			return nil, fmt.Errorf("partition: pixel %v overlaps %v", entries[i].Pixel, entries[i-1].Pixel)
		}
	}
	return &PixelMap{histOrder: histOrder, entries: entries, byPixel: byPixel}, nil
}

// NewMap builds a map for a derived catalog from bare pixels and counts. The
// children set of each entry covers the pixel's full histogram-order range.
// If a pixel is finer than histOrder, the map's order is raised to fit.
func NewMap(histOrder int, pixels []healpix.Pixel, counts []int64) (*PixelMap, error) {
	if len(pixels) != len(counts) {
		return nil, fmt.Errorf("partition: %d pixels but %d counts", len(pixels), len(counts))
	}
	for _, p := range pixels {
		if p.Order > histOrder {
			histOrder = p.Order
		}
	}
	if histOrder > MaxHistogramOrder {
		return nil, fmt.Errorf("partition: histogram order %d exceeds %d", histOrder, MaxHistogramOrder)
	}

	entries := make([]Entry, len(pixels))
	for i, p := range pixels {
		shift := 2 * uint(histOrder-p.Order)
		bm := roaring.New()
		bm.AddRange(uint64(p.Num)<<shift, uint64(p.Num+1)<<shift)
		entries[i] = Entry{Pixel: p, Count: counts[i], children: bm}
	}
	return newMap(histOrder, entries)
}
