package datasweeper

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat indicates a file extension or format name other than csv or xlsx.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ErrDecode indicates file content that could not be parsed.
var ErrDecode = errors.New("decode error")

// ErrUnknownColumn indicates a selected column that the table does not have.
var ErrUnknownColumn = errors.New("unknown column")

// ErrDuplicateColumn indicates a column selected more than once.
var ErrDuplicateColumn = errors.New("duplicate column")

// ErrUnknownAction indicates a cleaning step that does not exist.
var ErrUnknownAction = errors.New("unknown cleaning action")

// ErrNotEnoughNumericColumns indicates a table with fewer than two numeric columns to chart.
var ErrNotEnoughNumericColumns = errors.New("not enough numeric columns for visualization")

// Stage names the pipeline step a FileError happened in.
type Stage string

const (
	StageIngest Stage = "ingest"
	StageClean  Stage = "clean"
	StageSelect Stage = "select"
	StageExport Stage = "export"
	StageChart  Stage = "chart"
)

// FileError represents a failure while processing one file.
type FileError struct {
	FileName string
	Stage    Stage
	Err      error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Stage, e.FileName, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// NewFileError creates a new FileError.
func NewFileError(fileName string, stage Stage, err error) *FileError {
	return &FileError{
		FileName: fileName,
		Stage:    stage,
		Err:      err,
	}
}

// ErrorKind returns a stable code for err, suitable for API responses and
// metric labels. It returns "" for nil and "internal" for unknown errors.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, ErrDecode):
		return "decode_error"
	case errors.Is(err, ErrUnknownColumn):
		return "unknown_column"
	case errors.Is(err, ErrDuplicateColumn):
		return "duplicate_column"
	case errors.Is(err, ErrUnknownAction):
		return "unknown_action"
	case errors.Is(err, ErrNotEnoughNumericColumns):
		return "not_enough_numeric_columns"
	default:
		return "internal"
	}
}
