package skygo

import (
	"fmt"
	"iter"

	"github.com/starhaven/skygo/healpix"
	"github.com/starhaven/skygo/metadata"
	"github.com/starhaven/skygo/partition"
	"github.com/starhaven/skygo/pixeltree"
	"github.com/starhaven/skygo/table"
)

// Catalog is a fully realized sky catalog: metadata, a pixel map describing
// its adaptive partitioning, the matching pixel tree and one in-memory table
// per partition. Catalogs are immutable; derived catalogs are built by the
// lazy operations and realized with Compute.
type Catalog struct {
	meta  *metadata.Metadata
	pmap  *partition.PixelMap
	tree  *pixeltree.Tree
	parts []*table.Table

	opts Options
}

// NewCatalog assembles a catalog from already-partitioned tables. The tables
// must be in pixel map storage order, one per partition, all sharing one
// schema.
//
// Rows are not required to fall inside their partition's own pixel range:
// crossmatch results keyed by a finer join pixel legitimately carry left rows
// from the whole coarser partition.
func NewCatalog(meta *metadata.Metadata, pmap *partition.PixelMap, parts []*table.Table, optFns ...Option) (*Catalog, error) {
	if meta == nil {
		return nil, invalidArgumentf("metadata is required")
	}
	if pmap == nil {
		return nil, invalidArgumentf("pixel map is required")
	}
	if len(parts) != pmap.Len() {
		return nil, invalidArgumentf("%d tables for %d partitions", len(parts), pmap.Len())
	}
	for i, t := range parts {
		if t == nil {
			return nil, invalidArgumentf("partition %d has no table", i)
		}
		if i > 0 && !t.Schema.Equal(parts[0].Schema) {
			return nil, &ErrSchemaMismatch{
				Pixel: pmap.Entry(i).Pixel,
				Want:  parts[0].Schema,
				Got:   t.Schema,
			}
		}
	}
	if len(parts) > 0 {
		// The metadata's spatial columns must resolve against the shared
		// schema, or every coordinate read downstream is garbage.
		if _, ok := parts[0].Schema.Column(meta.RAColumn); !ok {
			return nil, invalidArgumentf("ra column %q not in schema", meta.RAColumn)
		}
		if _, ok := parts[0].Schema.Column(meta.DecColumn); !ok {
			return nil, invalidArgumentf("dec column %q not in schema", meta.DecColumn)
		}
	}

	tree, err := pixeltree.New(pmap.Pixels())
	if err != nil {
		return nil, fmt.Errorf("build pixel tree: %w", err)
	}

	return &Catalog{
		meta:  meta,
		pmap:  pmap,
		tree:  tree,
		parts: parts,
		opts:  applyOptions(optFns...),
	}, nil
}

// Name returns the catalog name.
func (c *Catalog) Name() string {
	return c.meta.CatalogName
}

// Meta returns the catalog metadata. Callers must not mutate it.
func (c *Catalog) Meta() *metadata.Metadata {
	return c.meta
}

// PixelMap returns the catalog's partition map.
func (c *Catalog) PixelMap() *partition.PixelMap {
	return c.pmap
}

// Tree returns the pixel tree over the catalog's partition pixels.
func (c *Catalog) Tree() *pixeltree.Tree {
	return c.tree
}

// Schema returns the shared column schema of the catalog's partitions.
func (c *Catalog) Schema() table.Schema {
	if len(c.parts) == 0 {
		return nil
	}
	return c.parts[0].Schema
}

// Len returns the total number of rows across all partitions.
func (c *Catalog) Len() int {
	var n int
	for _, t := range c.parts {
		n += t.Len()
	}
	return n
}

// Partitions iterates the partition pixels in storage order.
func (c *Catalog) Partitions() iter.Seq[healpix.Pixel] {
	return func(yield func(healpix.Pixel) bool) {
		for _, p := range c.pmap.Pixels() {
			if !yield(p) {
				return
			}
		}
	}
}

// Partition returns the table backing the given partition pixel, or
// ErrNotFound if the pixel is not a partition of this catalog.
func (c *Catalog) Partition(order int, num int64) (*table.Table, error) {
	p, err := healpix.NewPixel(order, num)
	if err != nil {
		return nil, invalidArgumentf("%v", err)
	}
	i, ok := c.pmap.Ordinal(p)
	if !ok {
		return nil, fmt.Errorf("%w: partition %v", ErrNotFound, p)
	}
	return c.parts[i], nil
}

// PartitionIndex returns the storage ordinal of the given partition pixel, or
// ErrNotFound if the pixel is not a partition of this catalog.
func (c *Catalog) PartitionIndex(order int, num int64) (int, error) {
	p, err := healpix.NewPixel(order, num)
	if err != nil {
		return 0, invalidArgumentf("%v", err)
	}
	i, ok := c.pmap.Ordinal(p)
	if !ok {
		return 0, fmt.Errorf("%w: partition %v", ErrNotFound, p)
	}
	return i, nil
}
