package output

import (
	"fmt"
	"io"
	"math"

	"github.com/ukaji3/datasweeper-go/pkg/datasweeper/table"
	"github.com/xuri/excelize/v2"
)

// SheetName is the name of the single worksheet written by WriteXLSX.
const SheetName = "Sheet1"

// WriteXLSX writes a workbook with one sheet: a header row and the data rows.
// Numbers and booleans are stored as typed cells, missing values as blanks.
func WriteXLSX(w io.Writer, t *table.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	names := t.Names()
	header := make([]interface{}, len(names))
	for i, name := range names {
		header[i] = name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for row := 0; row < t.Nrow(); row++ {
		values := make([]interface{}, len(names))
		for col := range values {
			values[col] = sheetValue(t.Value(row, col))
		}
		cell, err := excelize.CoordinatesToCellName(1, row+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// sheetValue maps a cell value to what the stream writer stores.
// Infinities have no numeric cell form and are written as text.
func sheetValue(v any) interface{} {
	if f, ok := v.(float64); ok && math.IsInf(f, 0) {
		return formatFloat(f)
	}
	return v
}
