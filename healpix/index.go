package healpix

import "fmt"

// Index is the 64-bit sortable spatial key assigned to every catalog object.
//
// Bit layout (most significant first):
//
//	bits 62-63  always zero
//	bits 20-61  nested pixel number at MaxOrder (42 bits)
//	bits  0-19  tie-break counter among objects sharing that pixel
//
// Sorting by Index therefore groups objects by fine pixel, and every pixel at
// any order <= MaxOrder owns one contiguous key range (see IndexRange).
type Index uint64

// TieBreakBits is the width of the tie-break field in an Index.
const TieBreakBits = 20

// MaxTieBreak is the largest representable tie-break counter.
const MaxTieBreak = 1<<TieBreakBits - 1

// EncodeIndex packs a MaxOrder pixel number and a tie-break counter into an
// Index. The counter must fit in TieBreakBits.
func EncodeIndex(num int64, tieBreak uint32) (Index, error) {
	if num < 0 || num >= NumPixels(MaxOrder) {
		return 0, fmt.Errorf("healpix: pixel %d outside [0, %d) at order %d", num, NumPixels(MaxOrder), MaxOrder)
	}
	if tieBreak > MaxTieBreak {
		return 0, fmt.Errorf("healpix: tie-break %d exceeds %d", tieBreak, MaxTieBreak)
	}
	return Index(uint64(num)<<TieBreakBits | uint64(tieBreak)), nil
}

// Pixel returns the pixel containing this index at the given order.
func (i Index) Pixel(order int) Pixel {
	num := int64(i >> TieBreakBits)
	return Pixel{Order: order, Num: num >> (2 * uint(MaxOrder-order))}
}

// TieBreak returns the tie-break counter portion of the index.
func (i Index) TieBreak() uint32 {
	return uint32(i & MaxTieBreak)
}

// IndexRange returns the half-open key range [lo, hi) covering every index
// whose MaxOrder pixel lies inside p. Ranges of disjoint pixels never overlap
// and the ranges of a pixel's four children exactly tile its own range.
func (p Pixel) IndexRange() (lo, hi Index) {
	shift := 2*uint(MaxOrder-p.Order) + TieBreakBits
	return Index(uint64(p.Num) << shift), Index(uint64(p.Num+1) << shift)
}
