package table

import (
	"fmt"
)

// ColumnKind is the inferred type of a whole column
type ColumnKind string

const (
	ColumnNumeric ColumnKind = "numeric"
	ColumnString  ColumnKind = "string"
)

// Column is a named sequence of values
type Column struct {
	Name   string
	Values []Value
}

// NewColumn creates a column from the given values
func NewColumn(name string, values ...Value) *Column {
	return &Column{Name: name, Values: values}
}

// Kind infers the column type: numeric when every present value is a
// number. An all-missing column is numeric.
func (c *Column) Kind() ColumnKind {
	for _, v := range c.Values {
		if v.Kind() == KindText {
			return ColumnString
		}
	}
	return ColumnNumeric
}

// IsNumeric is shorthand for Kind() == ColumnNumeric
func (c *Column) IsNumeric() bool {
	return c.Kind() == ColumnNumeric
}

// Numbers returns the present numeric values in row order
func (c *Column) Numbers() []float64 {
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if f, ok := v.Float(); ok {
			out = append(out, f)
		}
	}
	return out
}

// MissingCount counts missing entries
func (c *Column) MissingCount() int {
	n := 0
	for _, v := range c.Values {
		if v.IsMissing() {
			n++
		}
	}
	return n
}

// PresentCount counts non-missing entries
func (c *Column) PresentCount() int {
	return len(c.Values) - c.MissingCount()
}

// Clone returns a deep copy of the column
func (c *Column) Clone() *Column {
	values := make([]Value, len(c.Values))
	copy(values, c.Values)
	return &Column{Name: c.Name, Values: values}
}

// Table is an ordered set of uniquely named columns with a uniform row count
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// New builds a table and checks the uniform-length and unique-name invariants
func New(columns ...*Column) (*Table, error) {
	t := &Table{index: make(map[string]int, len(columns))}
	for i, col := range columns {
		if _, dup := t.index[col.Name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", col.Name)
		}
		if i == 0 {
			t.rows = len(col.Values)
		} else if len(col.Values) != t.rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", col.Name, len(col.Values), t.rows)
		}
		t.index[col.Name] = i
		t.columns = append(t.columns, col)
	}
	return t, nil
}

// MustNew is New that panics on error. Intended for tests and fixtures.
func MustNew(columns ...*Column) *Table {
	t, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

// RowCount returns the number of rows
func (t *Table) RowCount() int { return t.rows }

// Columns returns the columns in table order
func (t *Table) Columns() []*Column { return t.columns }

// ColumnNames returns column names in table order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Column looks a column up by name
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// Has reports whether a column exists
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// NumericColumns returns the numeric columns in table order
func (t *Table) NumericColumns() []*Column {
	var out []*Column
	for _, c := range t.columns {
		if c.IsNumeric() {
			out = append(out, c)
		}
	}
	return out
}

// Clone returns a deep copy
func (t *Table) Clone() *Table {
	cols := make([]*Column, len(t.columns))
	for i, c := range t.columns {
		cols[i] = c.Clone()
	}
	return MustNew(cols...)
}

// Select returns a new table holding the columns accepted by keep, in
// table order. Row count is preserved even when nothing is kept.
func (t *Table) Select(keep func(*Column) bool) *Table {
	var cols []*Column
	for _, c := range t.columns {
		if keep(c) {
			cols = append(cols, c)
		}
	}
	out := MustNew(cols...)
	out.rows = t.rows
	return out
}

// Equal compares names, order and every value
func (t *Table) Equal(o *Table) bool {
	if t.rows != o.rows || len(t.columns) != len(o.columns) {
		return false
	}
	for i, c := range t.columns {
		oc := o.columns[i]
		if c.Name != oc.Name || len(c.Values) != len(oc.Values) {
			return false
		}
		for j := range c.Values {
			if !c.Values[j].Equal(oc.Values[j]) {
				return false
			}
		}
	}
	return true
}
