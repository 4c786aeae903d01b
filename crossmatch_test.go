package skygo

import (
	"context"
	"math"
	"slices"
	"sync/atomic"
	"testing"

	"github.com/starhaven/skygo/crossmatch"
	"github.com/starhaven/skygo/healpix"
	"github.com/starhaven/skygo/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingAlgorithm wraps a matcher and counts invocations, so tests can
// verify that planning runs nothing.
type countingAlgorithm struct {
	inner crossmatch.Algorithm
	calls atomic.Int64
}

func (a *countingAlgorithm) Match(in crossmatch.Input, opts crossmatch.Options) (*table.Table, error) {
	a.calls.Add(1)
	return a.inner.Match(in, opts)
}

// brokenAlgorithm returns results violating the matcher contract in a
// configurable way.
type brokenAlgorithm struct {
	wrongSchema bool
}

func (a *brokenAlgorithm) Match(in crossmatch.Input, opts crossmatch.Options) (*table.Table, error) {
	if a.wrongSchema {
		out := table.New(table.Schema{"bogus"})
		return out, nil
	}
	// Right schema, but a spatial key no left row carries.
	out := table.New(crossmatch.OutputSchema(in.Left.Schema, in.Right.Schema, in.Suffixes))
	values := make([]any, len(out.Schema))
	if err := out.Append(healpix.Index(math.MaxUint32), values...); err != nil {
		return nil, err
	}
	return out, nil
}

func TestCrossmatch(t *testing.T) {
	ctx := context.Background()

	left := testCatalog(t, "left", [][2]float64{{10, 10}, {10.001, 10}})
	right := testCatalog(t, "right", [][2]float64{{10, 10}, {20, 20}})

	t.Run("NearestNeighbor", func(t *testing.T) {
		lazy, err := left.Crossmatch(right)
		require.NoError(t, err)
		out, err := lazy.Compute(ctx)
		require.NoError(t, err)

		// Both left objects match the right object at (10,10).
		require.Equal(t, 2, out.Len())
		assert.Equal(t, "left_x_right", out.Name())
		assert.Equal(t, "ra_left", out.Meta().RAColumn)
		assert.Equal(t, "dec_left", out.Meta().DecColumn)

		want := crossmatch.OutputSchema(left.Schema(), right.Schema(), [2]string{"_left", "_right"})
		assert.Equal(t, want, out.Schema())

		distCol, ok := out.Schema().Column(crossmatch.DistanceColumn)
		require.True(t, ok)
		idRight, ok := out.Schema().Column("id_right")
		require.True(t, ok)

		var dists []float64
		for p := range out.Partitions() {
			part, err := out.Partition(p.Order, p.Num)
			require.NoError(t, err)
			for i, row := range part.Rows {
				assert.Equal(t, int64(0), row.Values[idRight])
				d, err := part.Float(i, distCol)
				require.NoError(t, err)
				dists = append(dists, d)
			}
		}
		require.Len(t, dists, 2)
		slices.Sort(dists)
		assert.InDelta(t, 0, dists[0], 1e-12)
		assert.InDelta(t, 0.001*math.Cos(10*math.Pi/180), dists[1], 1e-7)
	})

	t.Run("Threshold", func(t *testing.T) {
		lazy, err := left.Crossmatch(right, func(o *CrossmatchOptions) {
			o.Threshold = 1
		})
		require.NoError(t, err)
		out, err := lazy.Compute(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, out.Len())

		lazy, err = left.Crossmatch(right, func(o *CrossmatchOptions) {
			o.Threshold = 0.0005
		})
		require.NoError(t, err)
		out, err = lazy.Compute(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, out.Len())
	})

	t.Run("Lazy", func(t *testing.T) {
		alg := &countingAlgorithm{inner: &crossmatch.KDTreeAlgorithm{}}
		lazy, err := left.Crossmatch(right, func(o *CrossmatchOptions) {
			o.Algorithm = alg
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), alg.calls.Load())

		_, err = lazy.Compute(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(len(lazy.Plan())), alg.calls.Load())
	})

	t.Run("CustomSuffixesAndName", func(t *testing.T) {
		lazy, err := left.Crossmatch(right, func(o *CrossmatchOptions) {
			o.Suffixes = []string{"_a", "_b"}
			o.OutputName = "joined"
		})
		require.NoError(t, err)
		out, err := lazy.Compute(ctx)
		require.NoError(t, err)

		assert.Equal(t, "joined", out.Name())
		assert.Equal(t, "ra_a", out.Meta().RAColumn)
		_, ok := out.Schema().Column("id_b")
		assert.True(t, ok)
	})

	t.Run("InvalidSuffixes", func(t *testing.T) {
		cases := map[string][]string{
			"TooFew":    {"_a"},
			"TooMany":   {"_a", "_b", "_c"},
			"Empty":     {"", "_b"},
			"Duplicate": {"_a", "_a"},
		}
		for name, suffixes := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := left.Crossmatch(right, func(o *CrossmatchOptions) {
					o.Suffixes = suffixes
				})
				assert.ErrorIs(t, err, ErrInvalidArgument)
			})
		}
	})

	t.Run("InvalidNeighborCount", func(t *testing.T) {
		// Bad counts fail at planning time, before any matcher runs.
		_, err := left.Crossmatch(right, func(o *CrossmatchOptions) {
			o.NNeighbors = 0
		})
		assert.ErrorIs(t, err, ErrInvalidArgument)

		_, err = left.Crossmatch(right, func(o *CrossmatchOptions) {
			o.NNeighbors = -3
		})
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("SchemaMismatch", func(t *testing.T) {
		lazy, err := left.Crossmatch(right, func(o *CrossmatchOptions) {
			o.Algorithm = &brokenAlgorithm{wrongSchema: true}
		})
		require.NoError(t, err)

		_, err = lazy.Compute(ctx)
		var mismatch *ErrSchemaMismatch
		assert.ErrorAs(t, err, &mismatch)
	})

	t.Run("ContractViolation", func(t *testing.T) {
		lazy, err := left.Crossmatch(right, func(o *CrossmatchOptions) {
			o.Algorithm = &brokenAlgorithm{}
		})
		require.NoError(t, err)

		_, err = lazy.Compute(ctx)
		var violation *ErrContractViolation
		assert.ErrorAs(t, err, &violation)
	})

	t.Run("NilRight", func(t *testing.T) {
		_, err := left.Crossmatch(nil)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("NoOverlap", func(t *testing.T) {
		// Catalogs in opposite sky regions align to an empty plan.
		far := testCatalog(t, "far", [][2]float64{{-170, -80}})
		lazy, err := left.Crossmatch(far)
		require.NoError(t, err)
		assert.Empty(t, lazy.Plan())

		out, err := lazy.Compute(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, out.Len())
	})
}
