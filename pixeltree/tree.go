// Package pixeltree represents a catalog's partitions as a quadtree over the
// sphere and aligns two such trees into overlapping partition pairs.
package pixeltree

import (
	"fmt"
	"slices"

	"github.com/starhaven/skygo/healpix"
)

// node is one quadtree cell. Leaves are physical partitions; internal nodes
// exist only to reach leaves beneath them.
type node struct {
	pixel    healpix.Pixel
	children [4]*node
	leaf     bool
}

// Tree is a catalog's partition structure: a quadtree rooted at the whole
// sky whose leaves are the partition pixels. Leaves are disjoint (no
// ancestor/descendant pairs) and exactly tile the catalog's footprint.
// Immutable once built.
type Tree struct {
	roots  [12]*node
	leaves []healpix.Pixel
}

// New builds a tree from a catalog's partition pixels.
func New(pixels []healpix.Pixel) (*Tree, error) {
	t := &Tree{}
	sorted := slices.Clone(pixels)
	slices.SortFunc(sorted, func(a, b healpix.Pixel) int { return a.Compare(b) })

	for _, p := range sorted {
		if p.Order < 0 || p.Order > healpix.MaxOrder || p.Num < 0 || p.Num >= healpix.NumPixels(p.Order) {
			return nil, fmt.Errorf("pixeltree: invalid pixel %v", p)
		}
		if err := t.insert(p); err != nil {
			return nil, err
		}
	}
	t.leaves = sorted
	return t, nil
}

func (t *Tree) insert(p healpix.Pixel) error {
	base := p.Num >> (2 * uint(p.Order))
	cur := t.roots[base]
	if cur == nil {
		cur = &node{pixel: healpix.Pixel{Order: 0, Num: base}}
		t.roots[base] = cur
	}

	for order := 0; ; order++ {
		if cur.leaf {
			return fmt.Errorf("pixeltree: pixel %v is contained in leaf %v", p, cur.pixel)
		}
		if order == p.Order {
			if cur.children != [4]*node{} {
				return fmt.Errorf("pixeltree: pixel %v contains existing leaves", p)
			}
			cur.leaf = true
			return nil
		}
		// Index of the child on the path down to p.
		i := (p.Num >> (2 * uint(p.Order-order-1))) & 3
		if cur.children[i] == nil {
			cur.children[i] = &node{pixel: cur.pixel.Child(int(i))}
		}
		cur = cur.children[i]
	}
}

// Leaves returns the partition pixels in storage order.
func (t *Tree) Leaves() []healpix.Pixel {
	return t.leaves
}

// Contains reports whether the pixel is one of the tree's leaves.
func (t *Tree) Contains(p healpix.Pixel) bool {
	_, ok := slices.BinarySearchFunc(t.leaves, p, func(a, b healpix.Pixel) int { return a.Compare(b) })
	return ok
}

// leavesUnder collects every leaf in the subtree in storage order.
func leavesUnder(n *node, out *[]healpix.Pixel) {
	if n == nil {
		return
	}
	if n.leaf {
		*out = append(*out, n.pixel)
		return
	}
	for _, c := range n.children {
		leavesUnder(c, out)
	}
}
