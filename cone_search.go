package skygo

import (
	"context"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/starhaven/skygo/healpix"
	"github.com/starhaven/skygo/table"
)

// ConeSearch returns the lazy catalog of rows within radius degrees of the
// given center. The boundary is inclusive: a row exactly radius away is kept.
//
// Construction only runs the coarse partition filter; the exact per-row
// filter is deferred until Compute. A partition survives the coarse pass when
// its boundary may intersect the cap, so retained partitions are a superset
// of those actually holding matching rows.
func (c *Catalog) ConeSearch(ra, dec, radius float64) (*LazyCatalog, error) {
	if err := healpix.ValidateRADec(ra, dec); err != nil {
		return nil, translateError(err)
	}
	if radius < 0 {
		return nil, invalidArgumentf("radius must be non-negative, got %g", radius)
	}

	var raCol, decCol int
	if c.pmap.Len() > 0 {
		var ok bool
		raCol, ok = c.Schema().Column(c.meta.RAColumn)
		if !ok {
			return nil, invalidArgumentf("ra column %q not in schema", c.meta.RAColumn)
		}
		decCol, ok = c.Schema().Column(c.meta.DecColumn)
		if !ok {
			return nil, invalidArgumentf("dec column %q not in schema", c.meta.DecColumn)
		}
	}

	// Coarse pass: a pixel whose center is farther than radius plus its own
	// circumradius cannot touch the cap.
	candidates := roaring.New()
	for e := range c.pmap.Entries() {
		cra, cdec := e.Pixel.Center()
		if healpix.Separation(ra, dec, cra, cdec) <= radius+e.Pixel.MaxRadius() {
			candidates.Add(uint32(e.Ordinal))
		}
	}
	c.opts.Logger.LogConeSearch(context.Background(), ra, dec, radius, int(candidates.GetCardinality()))

	plan := make(Plan, 0, candidates.GetCardinality())
	it := candidates.Iterator()
	for it.HasNext() {
		e := c.pmap.Entry(int(it.Next()))
		src := c.parts[e.Ordinal]
		plan = append(plan, Task{
			Pixel: e.Pixel,
			Run: func(ctx context.Context) (*table.Table, error) {
				out := table.New(src.Schema)
				for i, row := range src.Rows {
					rra, err := src.Float(i, raCol)
					if err != nil {
						return nil, err
					}
					rdec, err := src.Float(i, decCol)
					if err != nil {
						return nil, err
					}
					if healpix.Separation(ra, dec, rra, rdec) <= radius {
						if err := out.Append(row.Index, row.Values...); err != nil {
							return nil, err
						}
					}
				}
				return out, nil
			},
		})
	}

	return &LazyCatalog{
		meta:      c.meta.Clone(),
		plan:      plan,
		histOrder: c.pmap.HistogramOrder(),
		opts:      c.opts,
	}, nil
}
