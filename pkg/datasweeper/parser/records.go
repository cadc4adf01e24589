// Package parser decodes CSV and XLSX content into tables.
//
// Both readers produce a header row plus data rows as strings and hand them
// to gota, which infers a type per column. XLSX columns made only of string
// cells stay text whatever their content.
package parser

import (
	"errors"
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/ukaji3/datasweeper-go/pkg/datasweeper/table"
)

// ErrEmpty indicates input without a header row.
var ErrEmpty = errors.New("no header row")

// NullValues lists the cell texts read as missing values.
var NullValues = []string{"", "NA", "N/A", "n/a", "NaN", "nan", "null", "NULL", "#N/A", "<NA>", "None"}

// RowWidthError reports a data row wider than the header.
type RowWidthError struct {
	// Row is the 1-based record number, header included.
	Row    int
	Fields int
	Header int
}

func (e *RowWidthError) Error() string {
	return fmt.Sprintf("row %d has %d fields, header has %d", e.Row, e.Fields, e.Header)
}

// loadRecords turns a header row followed by data rows into a table.
// Short rows are padded with missing values. Cells equal to one of nulls
// are missing. Columns flagged in text are kept as strings instead of
// having their type inferred.
func loadRecords(records [][]string, nulls []string, text []bool) (*table.Table, error) {
	if len(records) == 0 {
		return nil, ErrEmpty
	}
	headers := normalizeHeaders(records[0])
	if len(headers) == 0 {
		return nil, ErrEmpty
	}

	rows := make([][]string, 0, len(records))
	rows = append(rows, headers)
	for i, record := range records[1:] {
		if len(record) > len(headers) {
			return nil, &RowWidthError{Row: i + 2, Fields: len(record), Header: len(headers)}
		}
		row := make([]string, len(headers))
		copy(row, record)
		rows = append(rows, row)
	}

	if len(rows) == 1 {
		return table.Empty(headers, series.String)
	}

	types := make(map[string]series.Type)
	for i, isText := range text {
		if isText && i < len(headers) {
			types[headers[i]] = series.String
		}
	}

	df := dataframe.LoadRecords(rows,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nulls),
		dataframe.WithTypes(types),
	)
	return table.New(df)
}

// normalizeHeaders names blank header cells Column_<n> and suffixes
// repeated names with .1, .2, ... Other names are kept byte for byte.
func normalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, h := range raw {
		if h == "" {
			h = fmt.Sprintf("Column_%d", i+1)
		}
		headers[i] = h
	}
	for _, h := range headers {
		seen[h] = 0
	}
	used := make(map[string]bool, len(headers))
	for i, h := range headers {
		if !used[h] {
			used[h] = true
			continue
		}
		for {
			seen[h]++
			candidate := fmt.Sprintf("%s.%d", h, seen[h])
			if _, taken := seen[candidate]; !taken && !used[candidate] {
				headers[i] = candidate
				used[candidate] = true
				break
			}
		}
	}
	return headers
}
