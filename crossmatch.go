package skygo

import (
	"context"
	"fmt"

	"github.com/starhaven/skygo/crossmatch"
	"github.com/starhaven/skygo/healpix"
	"github.com/starhaven/skygo/metadata"
	"github.com/starhaven/skygo/pixeltree"
	"github.com/starhaven/skygo/table"
)

// CrossmatchOptions contains configuration options for Crossmatch.
type CrossmatchOptions struct {
	// Suffixes disambiguate the left and right column names in the output.
	// Exactly two distinct non-empty strings; they default to "_{name}" of
	// each input catalog.
	Suffixes []string

	// Algorithm is the per-pair matching strategy. Defaults to the built-in
	// k-d tree KNN matcher.
	Algorithm crossmatch.Algorithm

	// OutputName names the result catalog. Defaults to "{left}_x_{right}".
	OutputName string

	// NNeighbors is the number of right-side matches per left object.
	NNeighbors int

	// Threshold is the maximum separation in degrees; negative means unset.
	Threshold float64
}

// Crossmatch matches every object of this catalog against its nearest
// neighbors in the other catalog. The two pixel trees are inner-aligned and
// one independent matching task is planned per overlapping partition pair;
// nothing row-level runs until Compute.
func (c *Catalog) Crossmatch(other *Catalog, optFns ...func(o *CrossmatchOptions)) (*LazyCatalog, error) {
	if other == nil {
		return nil, invalidArgumentf("right catalog is required")
	}

	opts := CrossmatchOptions{
		Suffixes:   []string{"_" + c.Name(), "_" + other.Name()},
		OutputName: c.Name() + "_x_" + other.Name(),
		NNeighbors: crossmatch.DefaultOptions.NNeighbors,
		Threshold:  crossmatch.DefaultOptions.Threshold,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Algorithm == nil {
		alg, err := crossmatch.New(crossmatch.KDTree)
		if err != nil {
			return nil, err
		}
		opts.Algorithm = alg
	}

	if opts.NNeighbors < 1 {
		return nil, invalidArgumentf("n_neighbors must be positive, got %d", opts.NNeighbors)
	}
	if len(opts.Suffixes) != 2 {
		return nil, invalidArgumentf("want exactly 2 suffixes, got %d", len(opts.Suffixes))
	}
	if opts.Suffixes[0] == "" || opts.Suffixes[1] == "" {
		return nil, invalidArgumentf("suffixes must be non-empty")
	}
	if opts.Suffixes[0] == opts.Suffixes[1] {
		return nil, invalidArgumentf("suffixes must be distinct, both are %q", opts.Suffixes[0])
	}
	suffixes := [2]string{opts.Suffixes[0], opts.Suffixes[1]}

	pairs := pixeltree.Align(c.tree, other.tree, pixeltree.AlignInner)
	c.opts.Logger.LogCrossmatch(context.Background(), c.Name(), other.Name(), len(pairs))

	wantSchema := crossmatch.OutputSchema(c.Schema(), other.Schema(), suffixes)

	plan := make(Plan, 0, len(pairs))
	for _, pair := range pairs {
		li, _ := c.pmap.Ordinal(pair.Left)
		ri, _ := other.pmap.Ordinal(pair.Right)
		in := crossmatch.Input{
			Left:       c.parts[li],
			Right:      other.parts[ri],
			LeftPixel:  pair.Left,
			RightPixel: pair.Right,
			LeftMeta:   c.meta,
			RightMeta:  other.meta,
			Suffixes:   suffixes,
		}
		join := pair.Join
		plan = append(plan, Task{
			Pixel: join,
			Run: func(ctx context.Context) (*table.Table, error) {
				out, err := opts.Algorithm.Match(in, crossmatch.Options{
					NNeighbors: opts.NNeighbors,
					Threshold:  opts.Threshold,
				})
				if err != nil {
					return nil, err
				}
				if !out.Schema.Equal(wantSchema) {
					return nil, &ErrSchemaMismatch{Pixel: join, Want: wantSchema, Got: out.Schema}
				}
				leftKeys := make(map[healpix.Index]struct{}, in.Left.Len())
				for _, row := range in.Left.Rows {
					leftKeys[row.Index] = struct{}{}
				}
				for _, row := range out.Rows {
					if _, ok := leftKeys[row.Index]; !ok {
						return nil, &ErrContractViolation{
							Pixel:  join,
							Reason: fmt.Sprintf("result index %d is not a left partition row", row.Index),
						}
					}
				}
				return out, nil
			},
		})
	}

	meta, err := crossmatchMeta(c.meta, opts.OutputName, suffixes[0])
	if err != nil {
		return nil, err
	}

	histOrder := c.pmap.HistogramOrder()
	if o := other.pmap.HistogramOrder(); o > histOrder {
		histOrder = o
	}

	return &LazyCatalog{
		meta:      meta,
		plan:      plan,
		histOrder: histOrder,
		opts:      c.opts,
	}, nil
}

// crossmatchMeta derives the output metadata: the left catalog's provenance
// with the name replaced and the spatial columns renamed to their suffixed
// forms.
func crossmatchMeta(left *metadata.Metadata, name, leftSuffix string) (*metadata.Metadata, error) {
	out, err := metadata.New(name, left.RAColumn+leftSuffix, left.DecColumn+leftSuffix, left.CatalogType)
	if err != nil {
		return nil, translateError(err)
	}
	out.Extra = left.Clone().Extra
	return out, nil
}
