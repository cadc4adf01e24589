// Package output encodes tables as CSV or XLSX.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ukaji3/datasweeper-go/pkg/datasweeper/table"
)

// WriteCSV writes the header row followed by one record per table row.
// Missing cells are written as empty fields.
func WriteCSV(w io.Writer, t *table.Table) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(t.Names()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, t.Ncol())
	for row := 0; row < t.Nrow(); row++ {
		for col := range record {
			record[col] = FormatCell(t.Value(row, col))
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", row, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// FormatCell renders a cell value as CSV text.
// Floats keep a decimal point so integral values are re-read as floats.
func FormatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case int:
		return strconv.Itoa(val)
	case float64:
		return formatFloat(val)
	case bool:
		return strconv.FormatBool(val)
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

func formatFloat(f float64) string {
	if math.IsInf(f, 0) {
		if f > 0 {
			return "inf"
		}
		return "-inf"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
