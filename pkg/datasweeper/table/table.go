// Package table provides the in-memory table passed between pipeline steps.
//
// A Table wraps a gota DataFrame. Column types are whatever gota inferred
// (int, float, bool or string); int and float columns are numeric. Tables
// are never modified in place: every operation that changes content returns
// a new Table.
package table

import (
	"errors"
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Kind groups column types by how values compare and aggregate.
type Kind int

const (
	// KindText is a string column.
	KindText Kind = iota
	// KindNumeric is an int or float column.
	KindNumeric
	// KindBoolean is a bool column.
	KindBoolean
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindBoolean:
		return "boolean"
	default:
		return "text"
	}
}

// KindOf returns the kind of a gota series type.
func KindOf(t series.Type) Kind {
	switch t {
	case series.Int, series.Float:
		return KindNumeric
	case series.Bool:
		return KindBoolean
	default:
		return KindText
	}
}

// ErrNoColumns indicates a table without any column.
var ErrNoColumns = errors.New("table has no columns")

// Table is an ordered set of named, equally long, typed columns.
type Table struct {
	df    dataframe.DataFrame
	types []series.Type
}

// New wraps a DataFrame. It fails when the DataFrame carries an error.
func New(df dataframe.DataFrame) (*Table, error) {
	if df.Err != nil {
		return nil, df.Err
	}
	if df.Ncol() == 0 {
		return nil, ErrNoColumns
	}
	return &Table{df: df, types: df.Types()}, nil
}

// FromSeries builds a table from columns.
func FromSeries(columns ...series.Series) (*Table, error) {
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}
	return New(dataframe.New(columns...))
}

// Empty builds a zero-row table whose columns all have the given type.
func Empty(names []string, t series.Type) (*Table, error) {
	columns := make([]series.Series, len(names))
	for i, name := range names {
		columns[i] = series.New([]string{}, t, name)
	}
	return FromSeries(columns...)
}

// Frame returns the underlying DataFrame. Callers must not modify it.
func (t *Table) Frame() dataframe.DataFrame {
	return t.df
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	return t.df.Names()
}

// Types returns the column types in order.
func (t *Table) Types() []series.Type {
	out := make([]series.Type, len(t.types))
	copy(out, t.types)
	return out
}

// Nrow returns the number of rows.
func (t *Table) Nrow() int {
	return t.df.Nrow()
}

// Ncol returns the number of columns.
func (t *Table) Ncol() int {
	return t.df.Ncol()
}

// Index returns the position of a column, or -1 when absent.
func (t *Table) Index(name string) int {
	for i, n := range t.df.Names() {
		if n == name {
			return i
		}
	}
	return -1
}

// Has reports whether the table has a column with the given name.
func (t *Table) Has(name string) bool {
	return t.Index(name) >= 0
}

// Type returns the type of the column at position col.
func (t *Table) Type(col int) series.Type {
	return t.types[col]
}

// Kind returns the kind of the column at position col.
func (t *Table) Kind(col int) Kind {
	return KindOf(t.types[col])
}

// Column returns a copy of the column at position col.
func (t *Table) Column(col int) series.Series {
	return t.df.Col(t.df.Names()[col]).Copy()
}

// NumericColumns returns the positions of int and float columns in order.
func (t *Table) NumericColumns() []int {
	var cols []int
	for i, typ := range t.types {
		if KindOf(typ) == KindNumeric {
			cols = append(cols, i)
		}
	}
	return cols
}

// IsNull reports whether a cell is missing.
func (t *Table) IsNull(row, col int) bool {
	return t.df.Elem(row, col).IsNA()
}

// Value returns a cell as int, float64, bool or string, or nil when missing.
func (t *Table) Value(row, col int) any {
	e := t.df.Elem(row, col)
	if e.IsNA() {
		return nil
	}
	switch t.types[col] {
	case series.Int:
		v, err := e.Int()
		if err != nil {
			return nil
		}
		return v
	case series.Float:
		return e.Float()
	case series.Bool:
		v, err := e.Bool()
		if err != nil {
			return nil
		}
		return v
	default:
		return e.String()
	}
}

// Head returns the first n rows, or the table itself when it is shorter.
func (t *Table) Head(n int) *Table {
	if n >= t.Nrow() {
		return t
	}
	if n <= 0 {
		return t.emptyLike()
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	head, err := t.Subset(idx)
	if err != nil {
		return t.emptyLike()
	}
	return head
}

// Subset returns the rows at the given positions, in the given order.
func (t *Table) Subset(rows []int) (*Table, error) {
	if len(rows) == 0 {
		return t.emptyLike(), nil
	}
	return New(t.df.Subset(rows))
}

// Select returns the named columns in the given order.
func (t *Table) Select(names []string) (*Table, error) {
	for _, name := range names {
		if !t.Has(name) {
			return nil, fmt.Errorf("column %q not found", name)
		}
	}
	return New(t.df.Select(names))
}

// Replace returns a table with the column of the same name replaced by s.
func (t *Table) Replace(s series.Series) (*Table, error) {
	if !t.Has(s.Name) {
		return nil, fmt.Errorf("column %q not found", s.Name)
	}
	if s.Len() != t.Nrow() {
		return nil, fmt.Errorf("column %q has %d rows, table has %d", s.Name, s.Len(), t.Nrow())
	}
	return New(t.df.Mutate(s))
}

func (t *Table) emptyLike() *Table {
	names := t.df.Names()
	columns := make([]series.Series, len(names))
	for i, name := range names {
		columns[i] = series.New([]string{}, t.types[i], name)
	}
	return &Table{df: dataframe.New(columns...), types: t.Types()}
}

// Equal reports whether two tables hold the same columns and values.
//
// Columns must match by name, position and kind. Numeric cells compare by
// value, so an int column equals a float column holding the same numbers;
// two ints compare exactly. Missing cells equal missing cells.
//
// A table written out and read back is Equal to the original except where
// the file cannot carry the type: a table without rows comes back with text
// columns, and CSV text made only of digits or true/false comes back as
// numbers or booleans.
func Equal(a, b *Table) bool {
	if a.Nrow() != b.Nrow() || a.Ncol() != b.Ncol() {
		return false
	}
	an, bn := a.Names(), b.Names()
	for col := range an {
		if an[col] != bn[col] || a.Kind(col) != b.Kind(col) {
			return false
		}
	}
	for col := range an {
		kind := a.Kind(col)
		for row := 0; row < a.Nrow(); row++ {
			av, bv := a.Value(row, col), b.Value(row, col)
			if av == nil || bv == nil {
				if av != bv {
					return false
				}
				continue
			}
			ai, aInt := av.(int)
			bi, bInt := bv.(int)
			if aInt && bInt {
				if ai != bi {
					return false
				}
				continue
			}
			if kind == KindNumeric {
				if toFloat(av) != toFloat(bv) {
					return false
				}
				continue
			}
			if av != bv {
				return false
			}
		}
	}
	return true
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}
