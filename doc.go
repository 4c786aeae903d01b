// Package skygo manages large catalogs of sky objects by partitioning them
// over equal-area HEALPix regions, enabling scalable spatial queries and
// pairwise catalog matching without loading the full dataset at once.
//
// # Quick Start
//
//	meta, _ := metadata.New("gaia", "ra", "dec", metadata.TypeObject)
//	cat, _ := skygo.FromTable(tbl, meta)
//
//	// Spatial range query: everything within 1 degree of (45, -30).
//	lazy, _ := cat.ConeSearch(45, -30, 1)
//	cone, _ := lazy.Compute(ctx)
//
//	// Nearest-neighbor matching against another catalog.
//	lazy, _ = cat.Crossmatch(other, func(o *skygo.CrossmatchOptions) {
//	    o.NNeighbors = 3
//	    o.Threshold = 0.005 // degrees
//	})
//	matched, _ := lazy.Compute(ctx)
//
// # Partitioning
//
// FromTable assigns every object a 64-bit sortable spatial key, histograms
// the keys over a fine HEALPix order and merges sibling cells bottom-up until
// each partition holds at most a threshold of rows (the threshold is soft:
// a single crowded cell at the finest histogram order is emitted as an
// oversized leaf). Partitions are leaf-disjoint pixels that exactly tile the
// catalog's footprint.
//
// # Laziness
//
// ConeSearch and Crossmatch only build a plan of independent per-partition
// tasks; nothing touches row data until Compute. Tasks are pure functions of
// one partition (or one aligned partition pair), run in parallel bounded by a
// resource.Controller, and fail fast: either a fully valid catalog is
// returned, or nothing.
package skygo
