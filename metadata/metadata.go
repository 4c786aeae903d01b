// Package metadata holds catalog provenance metadata.
//
// The core only interprets the two spatial column names and the catalog type;
// every other field travels through derived catalogs unchanged.
package metadata

import (
	"errors"
	"fmt"
	"maps"
)

// CatalogType classifies a catalog's contents.
type CatalogType string

const (
	// TypeObject is a catalog of unique sky objects.
	TypeObject CatalogType = "object"
	// TypeSource is a catalog of individual detections.
	TypeSource CatalogType = "source"
)

// ErrInvalidCatalogType indicates a catalog type other than object or source.
var ErrInvalidCatalogType = errors.New("catalog must be of type object or source")

// Metadata describes a catalog: its name, where its spatial columns live and
// opaque provenance fields.
type Metadata struct {
	CatalogName string
	RAColumn    string
	DecColumn   string
	CatalogType CatalogType

	// Extra carries provenance fields the core never interprets.
	Extra map[string]string
}

// New creates validated catalog metadata.
func New(name, raColumn, decColumn string, typ CatalogType) (*Metadata, error) {
	if name == "" {
		return nil, errors.New("catalog name must not be empty")
	}
	if raColumn == "" || decColumn == "" {
		return nil, fmt.Errorf("spatial columns must not be empty (ra=%q, dec=%q)", raColumn, decColumn)
	}
	if typ != TypeObject && typ != TypeSource {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidCatalogType, typ)
	}
	return &Metadata{
		CatalogName: name,
		RAColumn:    raColumn,
		DecColumn:   decColumn,
		CatalogType: typ,
	}, nil
}

// Clone returns an independent copy.
func (m *Metadata) Clone() *Metadata {
	out := *m
	if m.Extra != nil {
		out.Extra = maps.Clone(m.Extra)
	}
	return &out
}
