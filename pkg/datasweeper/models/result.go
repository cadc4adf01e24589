package models

import "github.com/ukaji3/datasweeper-go/pkg/datasweeper/table"

// Preview is the head of a table prepared for display.
type Preview struct {
	// Columns lists column names in table order.
	Columns []string `json:"columns"`
	// Types lists the inferred type of each column.
	Types []string `json:"types"`
	// Rows holds cell values row by row; nil marks a missing cell.
	Rows [][]any `json:"rows"`
}

// Output is an encoded table ready for download.
type Output struct {
	// FileName is the input name with the extension of the output format.
	FileName string `json:"file_name"`
	// MIMEType is the content type of Data.
	MIMEType string `json:"mime_type"`
	// Data is the encoded table.
	Data []byte `json:"data"`
}

// FileResult is the outcome of processing one uploaded file.
type FileResult struct {
	FileName string
	Details  *FileDetails
	Preview  *Preview
	// Table is the table after cleaning and column selection.
	Table  *table.Table
	Output *Output
	// Err is the error that stopped processing, nil on success.
	Err error
}

// OK reports whether the file was converted.
func (r FileResult) OK() bool {
	return r.Err == nil && r.Output != nil
}
