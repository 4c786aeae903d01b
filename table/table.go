// Package table provides the in-memory row sets that catalog partitions are
// made of. A Table is a small positional schema plus rows keyed by their
// spatial index; it deliberately knows nothing about the sphere.
package table

import (
	"fmt"
	"slices"

	"github.com/starhaven/skygo/healpix"
)

// Schema is an ordered list of column names.
type Schema []string

// Column returns the position of the named column.
func (s Schema) Column(name string) (int, bool) {
	for i, c := range s {
		if c == name {
			return i, true
		}
	}
	return 0, false
}

// WithSuffix returns a copy of the schema with the suffix appended to every
// column name.
func (s Schema) WithSuffix(suffix string) Schema {
	out := make(Schema, len(s))
	for i, c := range s {
		out[i] = c + suffix
	}
	return out
}

// Equal reports whether two schemas have the same columns in the same order.
func (s Schema) Equal(other Schema) bool {
	return slices.Equal(s, other)
}

// Clone returns an independent copy of the schema.
func (s Schema) Clone() Schema {
	return slices.Clone(s)
}

// Row is a single catalog object: its spatial key plus one value per schema
// column.
type Row struct {
	Index  healpix.Index
	Values []any
}

// Table holds rows sharing one schema. Stored partitions keep their rows
// sorted by Index.
type Table struct {
	Schema Schema
	Rows   []Row
}

// New creates an empty table with the given schema.
func New(schema Schema) *Table {
	return &Table{Schema: schema.Clone()}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Append adds a row. The value count must match the schema.
func (t *Table) Append(index healpix.Index, values ...any) error {
	if len(values) != len(t.Schema) {
		return fmt.Errorf("table: row has %d values, schema has %d columns", len(values), len(t.Schema))
	}
	t.Rows = append(t.Rows, Row{Index: index, Values: values})
	return nil
}

// SortByIndex sorts rows ascending by spatial key. The sort is stable so rows
// sharing a key keep their insertion order.
func (t *Table) SortByIndex() {
	slices.SortStableFunc(t.Rows, func(a, b Row) int {
		switch {
		case a.Index < b.Index:
			return -1
		case a.Index > b.Index:
			return 1
		default:
			return 0
		}
	})
}

// Float returns the float64 value of the given column in the given row.
func (t *Table) Float(row, col int) (float64, error) {
	v := t.Rows[row].Values[col]
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("table: column %q row %d: expected float64, got %T", t.Schema[col], row, v)
	}
	return f, nil
}
