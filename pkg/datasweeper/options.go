// Package datasweeper converts uploaded CSV and XLSX files between formats,
// with optional row deduplication, mean filling of missing numbers and
// column selection on the way.
package datasweeper

import (
	"fmt"
	"strings"
)

// Format represents an export format.
type Format string

const (
	// FormatCSV is comma-separated text with a header row.
	FormatCSV Format = "csv"
	// FormatSpreadsheet is an Office Open XML workbook with a single sheet.
	FormatSpreadsheet Format = "xlsx"
)

// ParseFormat parses a format name. "excel" and "spreadsheet" are accepted
// as aliases of "xlsx". Matching is case-insensitive.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "xlsx", "excel", "spreadsheet":
		return FormatSpreadsheet, nil
	default:
		return "", fmt.Errorf("%w: %q (must be csv or xlsx)", ErrUnsupportedFormat, s)
	}
}

// Extension returns the file extension of the format, dot included.
func (f Format) Extension() string {
	if f == FormatSpreadsheet {
		return ".xlsx"
	}
	return ".csv"
}

// MIMEType returns the content type of encoded output.
func (f Format) MIMEType() string {
	if f == FormatSpreadsheet {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// CleanAction represents one cleaning step.
type CleanAction string

const (
	// RemoveDuplicates drops rows equal to an earlier row.
	RemoveDuplicates CleanAction = "remove-duplicates"
	// FillMissingMean fills missing numeric cells with the column mean.
	FillMissingMean CleanAction = "fill-missing-mean"
)

// ParseCleanAction parses a cleaning step name.
func ParseCleanAction(s string) (CleanAction, error) {
	switch a := CleanAction(strings.ToLower(strings.TrimSpace(s))); a {
	case RemoveDuplicates, FillMissingMean:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
}

// ParseCleanActions parses step names, keeping their order.
func ParseCleanActions(names []string) ([]CleanAction, error) {
	actions := make([]CleanAction, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		a, err := ParseCleanAction(name)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, nil
}

// DefaultPreviewRows is the number of rows shown in a preview.
const DefaultPreviewRows = 5

// Options configures processing of one file.
type Options struct {
	// Clean lists cleaning steps, applied in order.
	Clean []CleanAction
	// Columns selects and orders output columns. Empty keeps all columns.
	Columns []string
	// Format is the export format.
	Format Format
}

// DefaultOptions returns options that convert to CSV without cleaning.
func DefaultOptions() Options {
	return Options{
		Format: FormatCSV,
	}
}
