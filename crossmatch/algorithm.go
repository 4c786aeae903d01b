// Package crossmatch provides the pluggable per-partition matching strategies
// used when crossmatching two catalogs.
//
// A matcher sees one aligned partition pair at a time. It is a pure function
// of its inputs, so aligned pairs can run in parallel.
package crossmatch

import (
	"fmt"

	"github.com/starhaven/skygo/healpix"
	"github.com/starhaven/skygo/metadata"
	"github.com/starhaven/skygo/table"
)

// DistanceColumn is the single distance column every matcher must append,
// holding the great-circle separation in degrees.
const DistanceColumn = "_dist"

// ThresholdUnset disables distance filtering; all requested neighbors are
// kept.
const ThresholdUnset = -1

// Options contains strategy options shared by the built-in matchers.
type Options struct {
	// NNeighbors is the number of right-side neighbors to find per left
	// object.
	NNeighbors int

	// Threshold is the maximum great-circle separation in degrees. Negative
	// means unset: keep all NNeighbors matches.
	Threshold float64
}

// DefaultOptions contains the default matcher options.
var DefaultOptions = Options{
	NNeighbors: 1,
	Threshold:  ThresholdUnset,
}

// Input bundles one aligned partition pair for a matcher invocation.
type Input struct {
	Left  *table.Table
	Right *table.Table

	LeftPixel  healpix.Pixel
	RightPixel healpix.Pixel

	LeftMeta  *metadata.Metadata
	RightMeta *metadata.Metadata

	Suffixes [2]string
}

// Algorithm matches objects between one pair of overlapping partitions.
//
// The result must carry the suffixed union of both input schemas plus
// DistanceColumn, be indexed by the matched left row's spatial key, and hold
// one row per (left object, matched right object) pair. Implementations must
// not retain or mutate shared state: pairs run concurrently.
type Algorithm interface {
	Match(in Input, opts Options) (*table.Table, error)
}

// BuiltIn enumerates the built-in matching strategies.
type BuiltIn int

const (
	// KDTree finds the k nearest neighbors with a 3-D k-d tree over unit
	// vectors. This is the default strategy.
	KDTree BuiltIn = iota
)

// New returns a built-in matcher.
func New(b BuiltIn) (Algorithm, error) {
	switch b {
	case KDTree:
		return &KDTreeAlgorithm{}, nil
	default:
		return nil, fmt.Errorf("crossmatch: unknown built-in algorithm %d", b)
	}
}

// OutputSchema returns the schema a matcher's result must carry for the given
// input schemas and suffixes.
func OutputSchema(left, right table.Schema, suffixes [2]string) table.Schema {
	out := make(table.Schema, 0, len(left)+len(right)+1)
	out = append(out, left.WithSuffix(suffixes[0])...)
	out = append(out, right.WithSuffix(suffixes[1])...)
	return append(out, DistanceColumn)
}
