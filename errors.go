package skygo

import (
	"errors"
	"fmt"

	"github.com/starhaven/skygo/healpix"
	"github.com/starhaven/skygo/metadata"
	"github.com/starhaven/skygo/partition"
	"github.com/starhaven/skygo/table"
)

var (
	// ErrNotFound is returned when a pixel is absent from a catalog's
	// partition map.
	ErrNotFound = errors.New("pixel not found in catalog")

	// ErrInvalidArgument is returned for unusable coordinates, radii,
	// suffixes, thresholds or options.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ErrSchemaMismatch indicates a matcher returned a result with the wrong
// column set for its partition pair.
type ErrSchemaMismatch struct {
	Pixel healpix.Pixel
	Want  table.Schema
	Got   table.Schema
}

func (e *ErrSchemaMismatch) Error() string {
	return fmt.Sprintf("schema mismatch in partition %v: want columns %v, got %v", e.Pixel, e.Want, e.Got)
}

// ErrContractViolation indicates a matcher result that breaks the crossmatch
// contract in a way other than its column set, such as rows not indexed by a
// left-partition spatial key.
type ErrContractViolation struct {
	Pixel  healpix.Pixel
	Reason string
}

func (e *ErrContractViolation) Error() string {
	return fmt.Sprintf("algorithm contract violation in partition %v: %s", e.Pixel, e.Reason)
}

func invalidArgumentf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// translateError folds collaborator error kinds into the package taxonomy.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, healpix.ErrDomain) ||
		errors.Is(err, partition.ErrInvalidOptions) ||
		errors.Is(err, metadata.ErrInvalidCatalogType) {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return err
}
