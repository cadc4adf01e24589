package parser

import (
	"bytes"
	"encoding/csv"
	"io"

	"github.com/ukaji3/datasweeper-go/pkg/datasweeper/table"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV decodes comma-separated content whose first record is the header.
func ReadCSV(r io.Reader) (*table.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	return loadRecords(records, NullValues, nil)
}
