// Package transform implements the cleaning and projection steps applied to
// a table between ingestion and export.
package transform

import (
	"fmt"
	"strings"

	"github.com/ukaji3/datasweeper-go/pkg/datasweeper/table"
)

// RemoveDuplicates drops every row equal to an earlier row across all
// columns, keeping first occurrences in their original order.
// Missing cells compare equal to each other.
func RemoveDuplicates(t *table.Table) (*table.Table, error) {
	seen := make(map[string]struct{}, t.Nrow())
	keep := make([]int, 0, t.Nrow())
	for row := 0; row < t.Nrow(); row++ {
		key := rowKey(t, row)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keep = append(keep, row)
	}
	if len(keep) == t.Nrow() {
		return t, nil
	}
	return t.Subset(keep)
}

func rowKey(t *table.Table, row int) string {
	var b strings.Builder
	for col := 0; col < t.Ncol(); col++ {
		fmt.Fprintf(&b, "%T=%#v\x1f", t.Value(row, col), t.Value(row, col))
	}
	return b.String()
}
