package skygo

import (
	"testing"

	"github.com/starhaven/skygo/healpix"
	"github.com/starhaven/skygo/metadata"
	"github.com/starhaven/skygo/partition"
	"github.com/starhaven/skygo/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	cat := testCatalog(t, "gaia", [][2]float64{{10, 10}, {-120, -45}, {60, 30}})

	t.Run("Accessors", func(t *testing.T) {
		assert.Equal(t, "gaia", cat.Name())
		assert.Equal(t, "ra", cat.Meta().RAColumn)
		assert.Equal(t, table.Schema{"id", "ra", "dec"}, cat.Schema())
		assert.Equal(t, 3, cat.Len())
		assert.Equal(t, cat.PixelMap().Len(), len(cat.Tree().Leaves()))
	})

	t.Run("PartitionsAscending", func(t *testing.T) {
		var prev int
		for p := range cat.Partitions() {
			i, err := cat.PartitionIndex(p.Order, p.Num)
			require.NoError(t, err)
			if prev > 0 {
				assert.Equal(t, prev, i)
			}
			prev = i + 1
		}
		assert.Equal(t, cat.PixelMap().Len(), prev)
	})

	t.Run("PartitionNotFound", func(t *testing.T) {
		// The three points cannot occupy all 12 base cells.
		missing := int64(-1)
		for num := int64(0); num < 12; num++ {
			if _, err := cat.Partition(0, num); err != nil {
				missing = num
				break
			}
		}
		require.NotEqual(t, int64(-1), missing)

		_, err := cat.Partition(0, missing)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = cat.PartitionIndex(0, missing)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("InvalidPixel", func(t *testing.T) {
		_, err := cat.Partition(-1, 0)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		_, err = cat.Partition(0, 12)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestNewCatalog(t *testing.T) {
	meta := testMeta(t, "assembled")
	pixels := []healpix.Pixel{{Order: 1, Num: 0}, {Order: 1, Num: 1}}
	pmap, err := partition.NewMap(10, pixels, []int64{0, 0})
	require.NoError(t, err)

	t.Run("TableCountMismatch", func(t *testing.T) {
		_, err := NewCatalog(meta, pmap, []*table.Table{table.New(table.Schema{"a"})})
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("SchemaMismatch", func(t *testing.T) {
		parts := []*table.Table{
			table.New(table.Schema{"a"}),
			table.New(table.Schema{"b"}),
		}
		_, err := NewCatalog(meta, pmap, parts)
		var mismatch *ErrSchemaMismatch
		assert.ErrorAs(t, err, &mismatch)
	})

	t.Run("SpatialColumnsMissing", func(t *testing.T) {
		// Metadata naming columns the schema does not carry must fail at
		// assembly, not silently filter on the wrong values later.
		renamed, err := metadata.New("stars", "right_ascension", "declination", metadata.TypeObject)
		require.NoError(t, err)

		single, err := partition.NewMap(10, []healpix.Pixel{{Order: 0, Num: 4}}, []int64{1})
		require.NoError(t, err)
		tbl := table.New(table.Schema{"flux", "ra", "dec"})
		require.NoError(t, tbl.Append(0, 170.0, 45.0, 0.0))

		_, err = NewCatalog(renamed, single, []*table.Table{tbl})
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.ErrorContains(t, err, "right_ascension")
	})

	t.Run("Valid", func(t *testing.T) {
		parts := []*table.Table{
			table.New(table.Schema{"id", "ra", "dec"}),
			table.New(table.Schema{"id", "ra", "dec"}),
		}
		cat, err := NewCatalog(meta, pmap, parts)
		require.NoError(t, err)
		assert.Equal(t, 2, cat.PixelMap().Len())
		assert.Equal(t, 0, cat.Len())
	})
}
