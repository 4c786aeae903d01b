package skygo

import (
	"context"
	"fmt"
	"slices"

	"github.com/starhaven/skygo/healpix"
	"github.com/starhaven/skygo/metadata"
	"github.com/starhaven/skygo/partition"
	"github.com/starhaven/skygo/table"
)

// FromTable builds a partitioned catalog from an unpartitioned in-memory
// table. Every row is assigned a spatial key from its ra/dec columns, rows
// are sorted by key, the histogram partitioner picks the partition pixels and
// rows are routed into one table per partition.
func FromTable(tbl *table.Table, meta *metadata.Metadata, optFns ...Option) (*Catalog, error) {
	if tbl == nil {
		return nil, invalidArgumentf("table is required")
	}
	if meta == nil {
		return nil, invalidArgumentf("metadata is required")
	}
	opts := applyOptions(optFns...)

	raCol, ok := tbl.Schema.Column(meta.RAColumn)
	if !ok {
		return nil, invalidArgumentf("ra column %q not in schema", meta.RAColumn)
	}
	decCol, ok := tbl.Schema.Column(meta.DecColumn)
	if !ok {
		return nil, invalidArgumentf("dec column %q not in schema", meta.DecColumn)
	}

	// Key every row by its fine pixel, keeping the original position so the
	// tie-break assignment below is deterministic.
	type keyed struct {
		num int64
		pos int
	}
	keys := make([]keyed, tbl.Len())
	for i := range tbl.Rows {
		ra, err := tbl.Float(i, raCol)
		if err != nil {
			return nil, translateError(err)
		}
		dec, err := tbl.Float(i, decCol)
		if err != nil {
			return nil, translateError(err)
		}
		if err := healpix.ValidateRADec(ra, dec); err != nil {
			return nil, translateError(fmt.Errorf("row %d: %w", i, err))
		}
		keys[i] = keyed{num: healpix.FromCoords(ra, dec, healpix.MaxOrder).Num, pos: i}
	}

	slices.SortFunc(keys, func(a, b keyed) int {
		switch {
		case a.num != b.num:
			if a.num < b.num {
				return -1
			}
			return 1
		case a.pos < b.pos:
			return -1
		case a.pos > b.pos:
			return 1
		default:
			return 0
		}
	})

	// Rows sharing a fine pixel get ascending tie-break counters in original
	// row order.
	indices := make([]healpix.Index, len(keys))
	var tieBreak uint32
	for i, k := range keys {
		if i > 0 && keys[i-1].num == k.num {
			tieBreak++
		} else {
			tieBreak = 0
		}
		idx, err := healpix.EncodeIndex(k.num, tieBreak)
		if err != nil {
			return nil, translateError(fmt.Errorf("row %d: %w", k.pos, err))
		}
		indices[i] = idx
	}

	pmap, err := partition.Build(indices, func(o *partition.Options) {
		*o = opts.Partitioning
	})
	if err != nil {
		opts.Logger.LogLoad(context.Background(), meta.CatalogName, tbl.Len(), 0, err)
		return nil, translateError(err)
	}

	// Rows are already in key order and entries are in storage order, so the
	// contiguous row ranges line up with a single forward sweep.
	parts := make([]*table.Table, 0, pmap.Len())
	pos := 0
	for e := range pmap.Entries() {
		_, hi := e.RowRange()
		part := table.New(tbl.Schema)
		for pos < len(indices) && indices[pos] < hi {
			row := tbl.Rows[keys[pos].pos]
			if err := part.Append(indices[pos], row.Values...); err != nil {
				return nil, err
			}
			pos++
		}
		parts = append(parts, part)
	}
	if pos != len(indices) {
		return nil, fmt.Errorf("skygo: %d rows not covered by any partition", len(indices)-pos)
	}

	cat, err := NewCatalog(meta, pmap, parts, optFns...)
	if err != nil {
		return nil, err
	}
	opts.Logger.LogLoad(context.Background(), meta.CatalogName, tbl.Len(), pmap.Len(), nil)
	return cat, nil
}
