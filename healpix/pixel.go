package healpix

import (
	"fmt"
	"math"
)

// MaxOrder is the finest supported subdivision order. It is also the order at
// which spatial keys are computed (see Index).
const MaxOrder = 19

// Pixel identifies a single HEALPix cell in the nested numbering scheme.
type Pixel struct {
	Order int
	Num   int64
}

// NumPixels returns the total number of pixels at the given order.
func NumPixels(order int) int64 {
	return 12 << (2 * uint(order))
}

// NewPixel validates and creates a pixel.
func NewPixel(order int, num int64) (Pixel, error) {
	if order < 0 || order > MaxOrder {
		return Pixel{}, fmt.Errorf("healpix: order %d outside [0, %d]", order, MaxOrder)
	}
	if num < 0 || num >= NumPixels(order) {
		return Pixel{}, fmt.Errorf("healpix: pixel %d outside [0, %d) at order %d", num, NumPixels(order), order)
	}
	return Pixel{Order: order, Num: num}, nil
}

func (p Pixel) String() string {
	return fmt.Sprintf("Order: %d, Pixel: %d", p.Order, p.Num)
}

// Parent returns the pixel's parent at the next coarser order.
// Calling Parent on an order-0 pixel is invalid.
func (p Pixel) Parent() Pixel {
	return Pixel{Order: p.Order - 1, Num: p.Num >> 2}
}

// Child returns the i-th (0..3) child at the next finer order.
func (p Pixel) Child(i int) Pixel {
	return Pixel{Order: p.Order + 1, Num: p.Num<<2 + int64(i)}
}

// Contains reports whether other equals p or lies beneath p in the hierarchy.
func (p Pixel) Contains(other Pixel) bool {
	if other.Order < p.Order {
		return false
	}
	return other.Num>>(2*uint(other.Order-p.Order)) == p.Num
}

// Compare orders pixels by the position of their coverage range on the sphere,
// which is a total order for any leaf-disjoint set. Overlapping pixels compare
// coarser-first.
func (p Pixel) Compare(other Pixel) int {
	lo1, _ := p.IndexRange()
	lo2, _ := other.IndexRange()
	switch {
	case lo1 < lo2:
		return -1
	case lo1 > lo2:
		return 1
	case p.Order < other.Order:
		return -1
	case p.Order > other.Order:
		return 1
	default:
		return 0
	}
}

// jrll and jpll locate each base cell's ring and azimuth offsets. They are the
// standard HEALPix face constants.
var (
	jrll = [12]int64{2, 2, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4}
	jpll = [12]int64{1, 3, 5, 7, 0, 2, 4, 6, 1, 3, 5, 7}
)

// spreadBits distributes the low 32 bits of v to the even bit positions.
func spreadBits(v int64) int64 {
	x := uint64(v) & 0xFFFFFFFF
	x = (x | x<<16) & 0x0000FFFF0000FFFF
	x = (x | x<<8) & 0x00FF00FF00FF00FF
	x = (x | x<<4) & 0x0F0F0F0F0F0F0F0F
	x = (x | x<<2) & 0x3333333333333333
	x = (x | x<<1) & 0x5555555555555555
	return int64(x)
}

// compressBits collects the even bit positions of v into the low 32 bits.
// Inverse of spreadBits.
func compressBits(v int64) int64 {
	x := uint64(v) & 0x5555555555555555
	x = (x | x>>1) & 0x3333333333333333
	x = (x | x>>2) & 0x0F0F0F0F0F0F0F0F
	x = (x | x>>4) & 0x00FF00FF00FF00FF
	x = (x | x>>8) & 0x0000FFFF0000FFFF
	x = (x | x>>16) & 0x00000000FFFFFFFF
	return int64(x)
}

// FromCoords maps sky coordinates (degrees, ra in [-180,180], dec in
// [-90,90]) to the nested pixel containing them at the given order.
// Coordinates are not validated here; see ValidateRADec.
func FromCoords(ra, dec float64, order int) Pixel {
	nside := int64(1) << uint(order)

	phi := ra * math.Pi / 180
	if phi < 0 {
		phi += 2 * math.Pi
	}
	z := math.Sin(dec * math.Pi / 180)
	za := math.Abs(z)

	tt := math.Mod(phi/(math.Pi/2), 4)
	if tt < 0 {
		tt += 4
	}

	var face, ix, iy int64
	if za <= 2.0/3.0 {
		// Equatorial region.
		temp1 := float64(nside) * (0.5 + tt)
		temp2 := float64(nside) * z * 0.75
		jp := int64(temp1 - temp2)
		jm := int64(temp1 + temp2)

		ifp := jp >> uint(order)
		ifm := jm >> uint(order)
		switch {
		case ifp == ifm:
			face = (ifp & 3) + 4
		case ifp < ifm:
			face = ifp & 3
		default:
			face = (ifm & 3) + 8
		}
		ix = jm & (nside - 1)
		iy = nside - (jp & (nside - 1)) - 1
	} else {
		// Polar caps.
		ntt := int64(tt)
		if ntt >= 4 {
			ntt = 3
		}
		tp := tt - float64(ntt)
		tmp := float64(nside) * math.Sqrt(3*(1-za))

		jp := int64(tp * tmp)
		jm := int64((1 - tp) * tmp)
		if jp >= nside {
			jp = nside - 1
		}
		if jm >= nside {
			jm = nside - 1
		}

		if z >= 0 {
			face = ntt
			ix = nside - jm - 1
			iy = nside - jp - 1
		} else {
			face = ntt + 8
			ix = jp
			iy = jm
		}
	}

	num := face*nside*nside + (spreadBits(ix) | spreadBits(iy)<<1)
	return Pixel{Order: order, Num: num}
}

// faceXY decomposes the pixel number into its base cell and in-face grid
// coordinates.
func (p Pixel) faceXY() (face, ix, iy int64) {
	nside := int64(1) << uint(p.Order)
	npface := nside * nside
	face = p.Num / npface
	local := p.Num % npface
	ix = compressBits(local)
	iy = compressBits(local >> 1)
	return face, ix, iy
}

// Center returns the sky coordinates of the pixel center in degrees, with
// ra in [-180,180].
func (p Pixel) Center() (ra, dec float64) {
	nside := int64(1) << uint(p.Order)
	face, ix, iy := p.faceXY()

	jr := jrll[face]*nside - ix - iy - 1

	var nr, kshift int64
	var z float64
	switch {
	case jr < nside:
		// North polar cap.
		nr = jr
		z = 1 - float64(jr*jr)/(3*float64(nside)*float64(nside))
	case jr > 3*nside:
		// South polar cap.
		nr = 4*nside - jr
		z = -1 + float64(nr*nr)/(3*float64(nside)*float64(nside))
	default:
		nr = nside
		z = float64(2*nside-jr) * 2 / (3 * float64(nside))
		kshift = (jr - nside) & 1
	}

	jp := (jpll[face]*nr + ix - iy + 1 + kshift) / 2
	if jp > 4*nr {
		jp -= 4 * nr
	}
	if jp < 1 {
		jp += 4 * nr
	}

	phi := (float64(jp) - float64(kshift+1)*0.5) * (math.Pi / 2) / float64(nr)

	ra = phi * 180 / math.Pi
	if ra > 180 {
		ra -= 360
	}
	dec = math.Asin(z) * 180 / math.Pi
	return ra, dec
}

// MaxRadius returns an upper bound, in degrees, on the angular distance from
// the pixel center to any point inside the pixel. The bound samples the
// centers of every border cell a few orders down and pads by those cells'
// own radius, so it is a true superset bound.
func (p Pixel) MaxRadius() float64 {
	s := 4
	if p.Order+s > MaxOrder {
		s = MaxOrder - p.Order
	}
	n := int64(1) << uint(s)

	ra0, dec0 := p.Center()
	base := p.Num << (2 * uint(s))
	childOrder := p.Order + s

	maxSep := 0.0
	sample := func(dx, dy int64) {
		child := Pixel{Order: childOrder, Num: base + (spreadBits(dx) | spreadBits(dy)<<1)}
		ra, dec := child.Center()
		if sep := Separation(ra0, dec0, ra, dec); sep > maxSep {
			maxSep = sep
		}
	}
	for i := int64(0); i < n; i++ {
		sample(i, 0)
		sample(i, n-1)
		sample(0, i)
		sample(n-1, i)
	}

	// Pad by a generous bound on the sampled cells' own radius.
	pad := 2.0 / float64(int64(1)<<uint(childOrder)) * 180 / math.Pi
	return maxSep + pad
}
