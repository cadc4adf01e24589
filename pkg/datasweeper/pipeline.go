package datasweeper

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ukaji3/datasweeper-go/pkg/datasweeper/models"
	"github.com/ukaji3/datasweeper-go/pkg/datasweeper/output"
	"github.com/ukaji3/datasweeper-go/pkg/datasweeper/parser"
	"github.com/ukaji3/datasweeper-go/pkg/datasweeper/table"
	"github.com/ukaji3/datasweeper-go/pkg/datasweeper/transform"
)

// Ingest decodes an uploaded file into a table.
// The format is chosen by the file extension, case-insensitively.
// Failures are returned as *FileError wrapping ErrUnsupportedFormat or ErrDecode.
func Ingest(file models.UploadedFile) (*table.Table, error) {
	var (
		t   *table.Table
		err error
	)
	switch ext := file.Extension(); ext {
	case ".csv":
		t, err = parser.ReadCSV(bytes.NewReader(file.Content))
	case ".xlsx":
		t, err = parser.ReadXLSX(bytes.NewReader(file.Content))
	default:
		return nil, NewFileError(file.Name, StageIngest, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext))
	}
	if err != nil {
		return nil, NewFileError(file.Name, StageIngest, fmt.Errorf("%w: %w", ErrDecode, err))
	}
	return t, nil
}

// Clean applies cleaning steps in the order given.
func Clean(t *table.Table, actions []CleanAction) (*table.Table, error) {
	out := t
	for _, action := range actions {
		var err error
		switch action {
		case RemoveDuplicates:
			out, err = transform.RemoveDuplicates(out)
		case FillMissingMean:
			out, err = transform.FillMissingMean(out)
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", action, err)
		}
	}
	return out, nil
}

// SelectColumns projects t onto names, in the order given.
// An empty selection keeps every column. t is never modified.
func SelectColumns(t *table.Table, names []string) (*table.Table, error) {
	out, err := transform.SelectColumns(t, names)
	if err != nil {
		var colErr *transform.ColumnError
		if errors.As(err, &colErr) {
			if colErr.Duplicate {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, colErr.Name)
			}
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, colErr.Name)
		}
		return nil, err
	}
	return out, nil
}

// Export encodes t in the given format.
func Export(t *table.Table, format Format) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatCSV:
		if err := output.WriteCSV(&buf, t); err != nil {
			return nil, err
		}
	case FormatSpreadsheet:
		if err := output.WriteXLSX(&buf, t); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return buf.Bytes(), nil
}

// OutputName replaces the trailing extension of name with the one of format.
func OutputName(name string, format Format) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + format.Extension()
}
