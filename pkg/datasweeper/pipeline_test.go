package datasweeper

import (
	"errors"
	"testing"

	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/datasweeper-go/pkg/datasweeper/models"
	"github.com/ukaji3/datasweeper-go/pkg/datasweeper/table"
)

func csvFile(name, content string) models.UploadedFile {
	return models.NewUploadedFile(name, []byte(content))
}

func mixedTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.FromSeries(
		series.New([]string{"alice", "bob, jr", "NaN"}, series.String, "name"),
		series.New([]int{1, 2, 3}, series.Int, "n"),
		series.New([]string{"1.5", "NaN", "-3.125"}, series.Float, "score"),
		series.New([]bool{true, false, true}, series.Bool, "flag"),
	)
	require.NoError(t, err)
	return tbl
}

func TestExportIngestRoundTrip(t *testing.T) {
	both := []Format{FormatCSV, FormatSpreadsheet}
	spreadsheet := []Format{FormatSpreadsheet}
	tenth, fifth := 0.1, 0.2

	tests := []struct {
		name    string
		formats []Format
		columns []series.Series
	}{
		{"mixed types", both, nil},
		{"names with surrounding spaces", both, []series.Series{
			series.New([]int{1, 2}, series.Int, " a "),
			series.New([]string{"x", "y"}, series.String, "b "),
		}},
		{"float precision", both, []series.Series{
			series.New([]float64{tenth + fifth, 1e-7, -2.5e10, 1.0 / 3}, series.Float, "f"),
		}},
		{"large ints", both, []series.Series{
			series.New([]int{1<<53 + 1, -(1 << 62), 0}, series.Int, "i"),
		}},
		{"digit-only text", spreadsheet, []series.Series{
			series.New([]string{"1", "2", "007"}, series.String, "code"),
		}},
		{"null markers and booleans as text", spreadsheet, []series.Series{
			series.New([]string{"NA", "TRUE", "false"}, series.String, "note"),
		}},
	}

	for _, tt := range tests {
		for _, format := range tt.formats {
			t.Run(tt.name+"/"+string(format), func(t *testing.T) {
				original := mixedTable(t)
				if tt.columns != nil {
					var err error
					original, err = table.FromSeries(tt.columns...)
					require.NoError(t, err)
				}

				data, err := Export(original, format)
				require.NoError(t, err)

				decoded, err := Ingest(models.NewUploadedFile(OutputName("data.txt", format), data))
				require.NoError(t, err)

				assert.True(t, table.Equal(original, decoded), "decoded %v", decoded.Frame())
			})
		}
	}
}

func TestIngestStyledWorkbook(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	twoDecimals, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	require.NoError(t, err)
	thousands, err := f.NewStyle(&excelize.Style{NumFmt: 3})
	require.NoError(t, err)

	tenth, fifth := 0.1, 0.2
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"price", "total"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{1.23456, 1234567.5}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{tenth + fifth, 9007199254740993}))
	require.NoError(t, f.SetCellStyle("Sheet1", "A2", "A3", twoDecimals))
	require.NoError(t, f.SetCellStyle("Sheet1", "B2", "B3", thousands))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	tbl, err := Ingest(models.NewUploadedFile("styled.xlsx", buf.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, series.Float, tbl.Type(0))
	assert.Equal(t, 1.23456, tbl.Value(0, 0))
	assert.Equal(t, tenth+fifth, tbl.Value(1, 0))
	assert.Equal(t, series.Float, tbl.Type(1))
	assert.Equal(t, 1234567.5, tbl.Value(0, 1))
}

func TestIngestUnsupportedFormat(t *testing.T) {
	_, err := Ingest(csvFile("notes.txt", "a,b\n1,2\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	var fileErr *FileError
	require.True(t, errors.As(err, &fileErr))
	assert.Equal(t, "notes.txt", fileErr.FileName)
	assert.Equal(t, StageIngest, fileErr.Stage)
}

func TestIngestExtensionIsCaseInsensitive(t *testing.T) {
	tbl, err := Ingest(csvFile("DATA.CSV", "a\n1\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Nrow())
}

func TestIngestDecodeError(t *testing.T) {
	tests := []struct {
		name string
		file models.UploadedFile
	}{
		{"unterminated quote", csvFile("bad.csv", "a,b\n\"1,2\n")},
		{"empty csv", csvFile("empty.csv", "")},
		{"not a workbook", csvFile("bad.xlsx", "definitely not a zip")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Ingest(tt.file)
			assert.ErrorIs(t, err, ErrDecode)
			assert.Equal(t, "decode_error", ErrorKind(err))
		})
	}
}

func TestCleanRemoveDuplicates(t *testing.T) {
	tbl, err := Ingest(csvFile("d.csv", "name,n\na,1\na,1\nb,2\n"))
	require.NoError(t, err)

	out, err := Clean(tbl, []CleanAction{RemoveDuplicates})
	require.NoError(t, err)
	require.Equal(t, 2, out.Nrow())
	assert.Equal(t, "a", out.Value(0, 0))
	assert.Equal(t, "b", out.Value(1, 0))
	assert.Equal(t, 3, tbl.Nrow())
}

func TestCleanFillMissingMean(t *testing.T) {
	tbl, err := Ingest(csvFile("f.csv", "id,x\na,1\nb,\nc,3\n"))
	require.NoError(t, err)

	out, err := Clean(tbl, []CleanAction{FillMissingMean})
	require.NoError(t, err)
	assert.Equal(t, 1.0, out.Value(0, 1))
	assert.Equal(t, 2.0, out.Value(1, 1))
	assert.Equal(t, 3.0, out.Value(2, 1))
}

func TestCleanFillMissingMeanAllNull(t *testing.T) {
	tbl, err := Ingest(csvFile("f.csv", "id,x\na,\nb,\n"))
	require.NoError(t, err)

	out, err := Clean(tbl, []CleanAction{FillMissingMean})
	require.NoError(t, err)
	assert.True(t, out.IsNull(0, 1))
	assert.True(t, out.IsNull(1, 1))
}

func TestCleanOrderMatters(t *testing.T) {
	tbl, err := Ingest(csvFile("o.csv", "k,v\na,\na,2\nb,\n"))
	require.NoError(t, err)

	fillFirst, err := Clean(tbl, []CleanAction{FillMissingMean, RemoveDuplicates})
	require.NoError(t, err)
	assert.Equal(t, 2, fillFirst.Nrow())

	dedupFirst, err := Clean(tbl, []CleanAction{RemoveDuplicates, FillMissingMean})
	require.NoError(t, err)
	assert.Equal(t, 3, dedupFirst.Nrow())
}

func TestCleanUnknownAction(t *testing.T) {
	tbl := mixedTable(t)
	_, err := Clean(tbl, []CleanAction{"shuffle"})
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestSelectColumns(t *testing.T) {
	tbl := mixedTable(t)

	out, err := SelectColumns(tbl, []string{"score", "name"})
	require.NoError(t, err)
	assert.Equal(t, []string{"score", "name"}, out.Names())

	_, err = SelectColumns(tbl, []string{"name", "missing"})
	assert.ErrorIs(t, err, ErrUnknownColumn)
	assert.Equal(t, "unknown_column", ErrorKind(err))

	_, err = SelectColumns(tbl, []string{"n", "n"})
	assert.ErrorIs(t, err, ErrDuplicateColumn)

	assert.Equal(t, []string{"name", "n", "score", "flag"}, tbl.Names())
}

func TestExportUnsupportedFormat(t *testing.T) {
	_, err := Export(mixedTable(t), Format("pdf"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		name     string
		format   Format
		expected string
	}{
		{"data.csv", FormatSpreadsheet, "data.xlsx"},
		{"data.xlsx", FormatCSV, "data.csv"},
		{"report.final.CSV", FormatCSV, "report.final.csv"},
		{"noext", FormatCSV, "noext.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, OutputName(tt.name, tt.format))
		})
	}
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{nil, ""},
		{NewFileError("a.csv", StageIngest, ErrUnsupportedFormat), "unsupported_format"},
		{NewFileError("a.csv", StageSelect, ErrDuplicateColumn), "duplicate_column"},
		{ErrUnknownAction, "unknown_action"},
		{NewFileError("a.csv", StageChart, ErrNotEnoughNumericColumns), "not_enough_numeric_columns"},
		{errors.New("boom"), "internal"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ErrorKind(tt.err))
	}
}
