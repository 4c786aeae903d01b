package crossmatch

import (
	"fmt"
	"math"
	"slices"

	"github.com/starhaven/skygo/healpix"
	"github.com/starhaven/skygo/table"
)

// Compile-time check that the built-in matcher satisfies the contract.
var _ Algorithm = (*KDTreeAlgorithm)(nil)

// KDTreeAlgorithm is the default matcher. It builds a 3-D k-d tree over the
// right partition's unit-sphere coordinates and finds each left object's
// nearest right objects by chordal distance, reporting true great-circle
// separations.
//
// Equidistant candidates are ordered by ascending right row position, so
// results are deterministic for identical inputs.
type KDTreeAlgorithm struct{}

// Match implements Algorithm.
func (a *KDTreeAlgorithm) Match(in Input, opts Options) (*table.Table, error) {
	if opts.NNeighbors < 1 {
		return nil, fmt.Errorf("crossmatch: n_neighbors must be positive, got %d", opts.NNeighbors)
	}

	leftRA, leftDec, err := spatialColumns(in.Left.Schema, in.LeftMeta.RAColumn, in.LeftMeta.DecColumn)
	if err != nil {
		return nil, err
	}
	rightRA, rightDec, err := spatialColumns(in.Right.Schema, in.RightMeta.RAColumn, in.RightMeta.DecColumn)
	if err != nil {
		return nil, err
	}

	out := table.New(OutputSchema(in.Left.Schema, in.Right.Schema, in.Suffixes))
	if in.Right.Len() == 0 {
		return out, nil
	}

	points := make([]kdPoint, in.Right.Len())
	for i := range in.Right.Rows {
		ra, err := in.Right.Float(i, rightRA)
		if err != nil {
			return nil, err
		}
		dec, err := in.Right.Float(i, rightDec)
		if err != nil {
			return nil, err
		}
		points[i] = kdPoint{vec: healpix.UnitVector(ra, dec), row: i}
	}
	tree := buildKDTree(points, 0)

	k := opts.NNeighbors
	if k > in.Right.Len() {
		k = in.Right.Len()
	}

	for i, leftRow := range in.Left.Rows {
		ra, err := in.Left.Float(i, leftRA)
		if err != nil {
			return nil, err
		}
		dec, err := in.Left.Float(i, leftDec)
		if err != nil {
			return nil, err
		}

		var heap candidateHeap
		tree.search(healpix.UnitVector(ra, dec), k, &heap)

		// Drain worst-first, then reverse into ascending distance order.
		matches := make([]neighbor, heap.Len())
		for j := heap.Len() - 1; j >= 0; j-- {
			matches[j], _ = heap.Pop()
		}

		for _, m := range matches {
			// Chordal distance is not linear in angle; both the reported
			// distance and the threshold comparison use the true
			// great-circle separation.
			sep := healpix.ChordToAngle(math.Sqrt(m.dist2))
			if opts.Threshold >= 0 && sep > opts.Threshold {
				continue
			}
			values := make([]any, 0, len(out.Schema))
			values = append(values, leftRow.Values...)
			values = append(values, in.Right.Rows[m.row].Values...)
			values = append(values, sep)
			if err := out.Append(leftRow.Index, values...); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func spatialColumns(schema table.Schema, raColumn, decColumn string) (ra, dec int, err error) {
	ra, ok := schema.Column(raColumn)
	if !ok {
		return 0, 0, fmt.Errorf("crossmatch: ra column %q not in schema", raColumn)
	}
	dec, ok = schema.Column(decColumn)
	if !ok {
		return 0, 0, fmt.Errorf("crossmatch: dec column %q not in schema", decColumn)
	}
	return ra, dec, nil
}

// kdPoint is one right-side object on the unit sphere.
type kdPoint struct {
	vec [3]float64
	row int
}

type kdNode struct {
	point kdPoint
	axis  int
	left  *kdNode
	right *kdNode
}

// buildKDTree builds a balanced tree by median split, cycling axes per level.
func buildKDTree(points []kdPoint, depth int) *kdNode {
	if len(points) == 0 {
		return nil
	}
	axis := depth % 3
	slices.SortFunc(points, func(a, b kdPoint) int {
		switch {
		case a.vec[axis] < b.vec[axis]:
			return -1
		case a.vec[axis] > b.vec[axis]:
			return 1
		default:
			return a.row - b.row
		}
	})
	median := len(points) / 2
	return &kdNode{
		point: points[median],
		axis:  axis,
		left:  buildKDTree(points[:median], depth+1),
		right: buildKDTree(points[median+1:], depth+1),
	}
}

// search collects the k nearest points to q into the heap.
func (n *kdNode) search(q [3]float64, k int, heap *candidateHeap) {
	if n == nil {
		return
	}

	var dist2 float64
	for i := range 3 {
		d := q[i] - n.point.vec[i]
		dist2 += d * d
	}
	heap.Push(neighbor{dist2: dist2, row: n.point.row}, k)

	diff := q[n.axis] - n.point.vec[n.axis]
	near, far := n.left, n.right
	if diff > 0 {
		near, far = far, near
	}

	near.search(q, k, heap)

	// The far side can still hold a closer point, or an equidistant one with
	// a lower row position, while the splitting plane is within the current
	// worst distance.
	if top, ok := heap.Top(); !ok || heap.Len() < k || diff*diff <= top.dist2 {
		far.search(q, k, heap)
	}
}
