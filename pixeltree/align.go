package pixeltree

import "github.com/starhaven/skygo/healpix"

// AlignMode selects which partition pairs an alignment emits.
type AlignMode int

const (
	// AlignInner emits only pairs with real overlap on both sides.
	AlignInner AlignMode = iota
	// AlignLeft additionally emits unmatched left leaves.
	AlignLeft
	// AlignRight additionally emits unmatched right leaves.
	AlignRight
	// AlignOuter additionally emits unmatched leaves from both sides.
	AlignOuter
)

func (m AlignMode) String() string {
	switch m {
	case AlignInner:
		return "inner"
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	case AlignOuter:
		return "outer"
	default:
		return "unknown"
	}
}

// Pair is one aligned partition pair. A side without overlap (left/right/
// outer modes only) has its Has flag unset and a zero pixel. Join is the
// finer of the two pixels; when both sides sit at the same node they are the
// same pixel, which keeps the finer-pixel rule deterministic without a
// separate id tie-break.
type Pair struct {
	Left     healpix.Pixel
	Right    healpix.Pixel
	HasLeft  bool
	HasRight bool
	Join     healpix.Pixel
}

// Align pairs the overlapping partitions of two trees by simultaneous
// top-down descent. Each leaf meets only the opposite leaves it overlaps, so
// the cost is linear in the number of leaves rather than their product.
// Pairs are emitted in storage order of the join pixel.
func Align(a, b *Tree, mode AlignMode) []Pair {
	var out []Pair
	for i := range 12 {
		var ra, rb *node
		if a != nil {
			ra = a.roots[i]
		}
		if b != nil {
			rb = b.roots[i]
		}
		alignNodes(ra, rb, mode, &out)
	}
	return out
}

func alignNodes(a, b *node, mode AlignMode, out *[]Pair) {
	switch {
	case a == nil && b == nil:
		return

	case b == nil:
		if mode == AlignLeft || mode == AlignOuter {
			var leaves []healpix.Pixel
			leavesUnder(a, &leaves)
			for _, p := range leaves {
				*out = append(*out, Pair{Left: p, HasLeft: true, Join: p})
			}
		}

	case a == nil:
		if mode == AlignRight || mode == AlignOuter {
			var leaves []healpix.Pixel
			leavesUnder(b, &leaves)
			for _, p := range leaves {
				*out = append(*out, Pair{Right: p, HasRight: true, Join: p})
			}
		}

	case a.leaf && b.leaf:
		*out = append(*out, Pair{
			Left: a.pixel, Right: b.pixel,
			HasLeft: true, HasRight: true,
			Join: a.pixel,
		})

	case a.leaf:
		// Every leaf beneath b lies inside a's pixel and is the finer side.
		var leaves []healpix.Pixel
		leavesUnder(b, &leaves)
		for _, p := range leaves {
			*out = append(*out, Pair{
				Left: a.pixel, Right: p,
				HasLeft: true, HasRight: true,
				Join: p,
			})
		}

	case b.leaf:
		var leaves []healpix.Pixel
		leavesUnder(a, &leaves)
		for _, p := range leaves {
			*out = append(*out, Pair{
				Left: p, Right: b.pixel,
				HasLeft: true, HasRight: true,
				Join: p,
			})
		}

	default:
		for i := range 4 {
			alignNodes(a.children[i], b.children[i], mode, out)
		}
	}
}
