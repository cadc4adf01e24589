package transform

import (
	"fmt"

	"github.com/ukaji3/datasweeper-go/pkg/datasweeper/table"
)

// ColumnError reports a selection problem with one column name.
type ColumnError struct {
	Name string
	// Duplicate is true when the name was requested more than once,
	// false when the table has no such column.
	Duplicate bool
}

func (e *ColumnError) Error() string {
	if e.Duplicate {
		return fmt.Sprintf("column %q selected more than once", e.Name)
	}
	return fmt.Sprintf("column %q not found", e.Name)
}

// SelectColumns projects t onto names, in the order given.
// An empty selection keeps every column.
func SelectColumns(t *table.Table, names []string) (*table.Table, error) {
	if len(names) == 0 {
		return t, nil
	}
	requested := make(map[string]bool, len(names))
	for _, name := range names {
		if requested[name] {
			return nil, &ColumnError{Name: name, Duplicate: true}
		}
		requested[name] = true
		if !t.Has(name) {
			return nil, &ColumnError{Name: name}
		}
	}
	return t.Select(names)
}
