package output

import (
	"bytes"
	"math"
	"testing"

	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/datasweeper-go/pkg/datasweeper/table"
)

func sample(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.FromSeries(
		series.New([]string{"alice", "bob, jr", "NaN"}, series.String, "name"),
		series.New([]int{1, 2, 3}, series.Int, "n"),
		series.New([]string{"2", "NaN", "0.25"}, series.Float, "score"),
		series.New([]bool{true, false, true}, series.Bool, "ok"),
	)
	require.NoError(t, err)
	return tbl
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sample(t)))

	expected := "name,n,score,ok\n" +
		"alice,1,2.0,true\n" +
		"\"bob, jr\",2,,false\n" +
		",3,0.25,true\n"
	assert.Equal(t, expected, buf.String())
}

func TestWriteCSVHeaderOnly(t *testing.T) {
	tbl, err := table.Empty([]string{"a", "b"}, series.String)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl))
	assert.Equal(t, "a,b\n", buf.String())
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"nil", nil, ""},
		{"int", -42, "-42"},
		{"integral float", 3.0, "3.0"},
		{"fraction", 1.125, "1.125"},
		{"large float", 1e21, "1000000000000000000000.0"},
		{"positive infinity", math.Inf(1), "inf"},
		{"negative infinity", math.Inf(-1), "-inf"},
		{"bool", false, "false"},
		{"string", "x y", "x y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatCell(tt.value))
		})
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sample(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"name", "n", "score", "ok"}, rows[0])
	assert.Equal(t, []string{"alice", "1", "2", "TRUE"}, rows[1])
	assert.Equal(t, []string{"bob, jr", "2", "", "FALSE"}, rows[2])
	assert.Equal(t, []string{"", "3", "0.25", "TRUE"}, rows[3])

	typ, err := f.GetCellType(SheetName, "B2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, typ, "numbers are stored as numeric cells")
}
