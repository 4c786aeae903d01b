package crossmatch

import (
	"fmt"
	"math"
	"testing"

	"github.com/starhaven/skygo/healpix"
	"github.com/starhaven/skygo/metadata"
	"github.com/starhaven/skygo/table"
	"github.com/starhaven/skygo/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMeta(t *testing.T, name string) *metadata.Metadata {
	t.Helper()
	m, err := metadata.New(name, "ra", "dec", metadata.TypeObject)
	require.NoError(t, err)
	return m
}

func testTable(t *testing.T, points [][2]float64) *table.Table {
	t.Helper()
	tbl := table.New(table.Schema{"id", "ra", "dec"})
	for i, p := range points {
		require.NoError(t, tbl.Append(healpix.Index(i+1), int64(i), p[0], p[1]))
	}
	return tbl
}

func testInput(t *testing.T, left, right [][2]float64) Input {
	t.Helper()
	return Input{
		Left:      testTable(t, left),
		Right:     testTable(t, right),
		LeftPixel: healpix.Pixel{Order: 0, Num: 0}, RightPixel: healpix.Pixel{Order: 0, Num: 0},
		LeftMeta: testMeta(t, "left"), RightMeta: testMeta(t, "right"),
		Suffixes: [2]string{"_left", "_right"},
	}
}

func TestKDTreeMatch(t *testing.T) {
	alg := &KDTreeAlgorithm{}

	t.Run("NearestNeighbor", func(t *testing.T) {
		in := testInput(t,
			[][2]float64{{10, 10}, {10.001, 10}},
			[][2]float64{{10, 10}, {20, 20}},
		)
		out, err := alg.Match(in, Options{NNeighbors: 1, Threshold: ThresholdUnset})
		require.NoError(t, err)

		require.Equal(t, 2, out.Len())
		assert.Equal(t, OutputSchema(in.Left.Schema, in.Right.Schema, in.Suffixes), out.Schema)

		// Both left objects match the right object at (10,10).
		distCol, ok := out.Schema.Column(DistanceColumn)
		require.True(t, ok)
		rightID, ok := out.Schema.Column("id_right")
		require.True(t, ok)

		assert.Equal(t, int64(0), out.Rows[0].Values[rightID])
		assert.Equal(t, int64(0), out.Rows[1].Values[rightID])

		d0 := out.Rows[0].Values[distCol].(float64)
		d1 := out.Rows[1].Values[distCol].(float64)
		assert.InDelta(t, 0, d0, 1e-12)
		assert.InDelta(t, 0.001*math.Cos(10*math.Pi/180), d1, 1e-7)

		// Results are indexed by the left row's spatial key.
		assert.Equal(t, in.Left.Rows[0].Index, out.Rows[0].Index)
		assert.Equal(t, in.Left.Rows[1].Index, out.Rows[1].Index)
	})

	t.Run("Threshold", func(t *testing.T) {
		in := testInput(t,
			[][2]float64{{10, 10}, {10.001, 10}},
			[][2]float64{{10, 10}, {20, 20}},
		)

		out, err := alg.Match(in, Options{NNeighbors: 1, Threshold: 1})
		require.NoError(t, err)
		assert.Equal(t, 2, out.Len())

		out, err = alg.Match(in, Options{NNeighbors: 1, Threshold: 0.0005})
		require.NoError(t, err)
		require.Equal(t, 1, out.Len())
		idLeft, _ := out.Schema.Column("id_left")
		assert.Equal(t, int64(0), out.Rows[0].Values[idLeft])
	})

	t.Run("RowCountBound", func(t *testing.T) {
		// With no threshold, each left object yields min(k, right size) rows.
		in := testInput(t,
			[][2]float64{{0, 0}, {1, 1}, {2, 2}},
			[][2]float64{{0, 0}, {3, 3}},
		)
		out, err := alg.Match(in, Options{NNeighbors: 5, Threshold: ThresholdUnset})
		require.NoError(t, err)
		assert.Equal(t, 3*2, out.Len())
	})

	t.Run("EmptyRight", func(t *testing.T) {
		in := testInput(t, [][2]float64{{0, 0}}, nil)
		out, err := alg.Match(in, Options{NNeighbors: 1, Threshold: ThresholdUnset})
		require.NoError(t, err)
		assert.Equal(t, 0, out.Len())
	})

	t.Run("TieBreakByRowPosition", func(t *testing.T) {
		// Two right objects exactly equidistant from the left object: the
		// one at the lower row position wins, regardless of value order.
		in := testInput(t, [][2]float64{{0, 0}}, [][2]float64{{1, 0}, {-1, 0}})
		out, err := alg.Match(in, Options{NNeighbors: 1, Threshold: ThresholdUnset})
		require.NoError(t, err)

		require.Equal(t, 1, out.Len())
		rightID, _ := out.Schema.Column("id_right")
		assert.Equal(t, int64(0), out.Rows[0].Values[rightID])

		in = testInput(t, [][2]float64{{0, 0}}, [][2]float64{{-1, 0}, {1, 0}})
		out, err = alg.Match(in, Options{NNeighbors: 1, Threshold: ThresholdUnset})
		require.NoError(t, err)
		require.Equal(t, 1, out.Len())
		assert.Equal(t, int64(0), out.Rows[0].Values[rightID])
	})

	t.Run("InvalidNeighbors", func(t *testing.T) {
		in := testInput(t, [][2]float64{{0, 0}}, [][2]float64{{1, 0}})
		_, err := alg.Match(in, Options{NNeighbors: 0})
		assert.Error(t, err)
	})

	t.Run("MissingSpatialColumn", func(t *testing.T) {
		in := testInput(t, [][2]float64{{0, 0}}, [][2]float64{{1, 0}})
		in.LeftMeta.RAColumn = "missing"
		_, err := alg.Match(in, Options{NNeighbors: 1})
		assert.Error(t, err)
	})
}

func TestKDTreeAgainstBruteForce(t *testing.T) {
	rng := testutil.NewRNG(4711)
	alg := &KDTreeAlgorithm{}

	var left, right [][2]float64
	for range 60 {
		ra, dec := rng.SkyPointIn(20, 40, -20, 20)
		left = append(left, [2]float64{ra, dec})
	}
	for range 80 {
		ra, dec := rng.SkyPointIn(20, 40, -20, 20)
		right = append(right, [2]float64{ra, dec})
	}

	in := testInput(t, left, right)
	const k = 3
	out, err := alg.Match(in, Options{NNeighbors: k, Threshold: ThresholdUnset})
	require.NoError(t, err)
	require.Equal(t, len(left)*k, out.Len())

	distCol, _ := out.Schema.Column(DistanceColumn)
	rightID, _ := out.Schema.Column("id_right")

	for i, l := range left {
		// Brute-force the k nearest right objects.
		type cand struct {
			sep float64
			row int
		}
		var cands []cand
		for j, r := range right {
			cands = append(cands, cand{sep: healpix.Separation(l[0], l[1], r[0], r[1]), row: j})
		}
		for a := range cands {
			for b := a + 1; b < len(cands); b++ {
				if cands[b].sep < cands[a].sep || (cands[b].sep == cands[a].sep && cands[b].row < cands[a].row) {
					cands[a], cands[b] = cands[b], cands[a]
				}
			}
		}

		for j := range k {
			row := out.Rows[i*k+j]
			assert.Equal(t, int64(cands[j].row), row.Values[rightID], fmt.Sprintf("left %d neighbor %d", i, j))
			assert.InDelta(t, cands[j].sep, row.Values[distCol].(float64), 1e-9)
		}
	}
}

func TestThresholdMonotonicity(t *testing.T) {
	rng := testutil.NewRNG(99)
	alg := &KDTreeAlgorithm{}

	var left, right [][2]float64
	for range 40 {
		ra, dec := rng.SkyPointIn(0, 5, 0, 5)
		left = append(left, [2]float64{ra, dec})
		ra, dec = rng.SkyPointIn(0, 5, 0, 5)
		right = append(right, [2]float64{ra, dec})
	}
	in := testInput(t, left, right)

	small, err := alg.Match(in, Options{NNeighbors: 3, Threshold: 0.005})
	require.NoError(t, err)
	large, err := alg.Match(in, Options{NNeighbors: 3, Threshold: 2})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, large.Len(), small.Len())
}

func TestNewBuiltIn(t *testing.T) {
	alg, err := New(KDTree)
	require.NoError(t, err)
	assert.IsType(t, &KDTreeAlgorithm{}, alg)

	_, err = New(BuiltIn(42))
	assert.Error(t, err)
}
