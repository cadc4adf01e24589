package datasweeper

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/datasweeper-go/pkg/datasweeper/models"
	"github.com/ukaji3/datasweeper-go/pkg/datasweeper/table"
)

type recordingObserver struct {
	mu      sync.Mutex
	results []models.FileResult
	formats []Format
}

func (o *recordingObserver) FileProcessed(result models.FileResult, format Format, elapsed time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.results = append(o.results, result)
	o.formats = append(o.formats, format)
}

func TestProcessorProcess(t *testing.T) {
	obs := &recordingObserver{}
	p := NewProcessor(WithObserver(obs))

	file := csvFile("sales.csv", "region,units,price\nnorth,10,2.5\nsouth,,3.5\nnorth,10,2.5\n")
	result := p.Process(context.Background(), file, Options{
		Clean:   []CleanAction{RemoveDuplicates, FillMissingMean},
		Columns: []string{"units", "region"},
		Format:  FormatSpreadsheet,
	})
	require.NoError(t, result.Err)
	assert.True(t, result.OK())

	require.NotNil(t, result.Details)
	assert.Equal(t, models.FileDetails{Name: "sales.csv", SizeBytes: file.Size, SizeKB: models.FormatKB(file.Size), Rows: 3, Columns: 3}, *result.Details)

	require.NotNil(t, result.Preview)
	assert.Equal(t, []string{"region", "units", "price"}, result.Preview.Columns)
	assert.Len(t, result.Preview.Rows, 3, "preview is taken before cleaning")

	assert.Equal(t, []string{"units", "region"}, result.Table.Names())
	assert.Equal(t, 2, result.Table.Nrow())
	assert.Equal(t, 10.0, result.Table.Value(1, 0))

	require.NotNil(t, result.Output)
	assert.Equal(t, "sales.xlsx", result.Output.FileName)
	assert.Equal(t, FormatSpreadsheet.MIMEType(), result.Output.MIMEType)

	decoded, err := Ingest(models.NewUploadedFile(result.Output.FileName, result.Output.Data))
	require.NoError(t, err)
	assert.True(t, table.Equal(result.Table, decoded))

	require.Len(t, obs.results, 1)
	assert.Equal(t, FormatSpreadsheet, obs.formats[0])
}

func TestProcessorDefaultsToCSV(t *testing.T) {
	result := NewProcessor().Process(context.Background(), csvFile("a.csv", "x\n1\n"), Options{})
	require.NoError(t, result.Err)
	assert.Equal(t, "a.csv", result.Output.FileName)
	assert.Equal(t, "text/csv", result.Output.MIMEType)
	assert.Equal(t, "x\n1\n", string(result.Output.Data))
}

func TestProcessorStages(t *testing.T) {
	tests := []struct {
		name  string
		file  models.UploadedFile
		opts  Options
		stage Stage
		err   error
	}{
		{"ingest", csvFile("a.json", "{}"), Options{}, StageIngest, ErrUnsupportedFormat},
		{"clean", csvFile("a.csv", "x\n1\n"), Options{Clean: []CleanAction{"sort"}}, StageClean, ErrUnknownAction},
		{"select", csvFile("a.csv", "x\n1\n"), Options{Columns: []string{"y"}}, StageSelect, ErrUnknownColumn},
		{"export", csvFile("a.csv", "x\n1\n"), Options{Format: "pdf"}, StageExport, ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Process(tt.file, tt.opts)
			require.Error(t, result.Err)
			assert.ErrorIs(t, result.Err, tt.err)

			fileErr, ok := result.Err.(*FileError)
			require.True(t, ok, "expected *FileError, got %T", result.Err)
			assert.Equal(t, tt.stage, fileErr.Stage)
			assert.Equal(t, tt.file.Name, fileErr.FileName)
			assert.Nil(t, result.Output)
		})
	}
}

func TestProcessBatchIsolatesFailures(t *testing.T) {
	var logs bytes.Buffer
	p := NewProcessor(WithLogger(slog.New(slog.NewJSONHandler(&logs, nil))))

	files := []models.UploadedFile{
		csvFile("broken.csv", "a,b\n\"1,2\n"),
		csvFile("good.csv", "a,b\n1,2\n"),
		csvFile("notes.txt", "hello"),
	}
	results := p.ProcessBatch(context.Background(), files, Options{Format: FormatCSV})
	require.Len(t, results, 3)

	assert.Equal(t, "broken.csv", results[0].FileName)
	assert.ErrorIs(t, results[0].Err, ErrDecode)

	assert.Equal(t, "good.csv", results[1].FileName)
	require.NoError(t, results[1].Err)
	assert.Equal(t, "a,b\n1,2\n", string(results[1].Output.Data))

	assert.ErrorIs(t, results[2].Err, ErrUnsupportedFormat)

	assert.Contains(t, logs.String(), `"msg":"batch processed"`)
	assert.Contains(t, logs.String(), `"failed":2`)
}

func TestPreview(t *testing.T) {
	tbl, err := table.FromSeries(
		series.New([]int{1, 2, 3, 4, 5, 6, 7}, series.Int, "n"),
		series.New([]float64{1, 2, 3, 4, 5, 6, math.Inf(1)}, series.Float, "f"),
	)
	require.NoError(t, err)

	preview := Preview(tbl, DefaultPreviewRows)
	assert.Equal(t, []string{"n", "f"}, preview.Columns)
	assert.Equal(t, []string{"int", "float"}, preview.Types)
	require.Len(t, preview.Rows, 5)
	assert.Equal(t, []any{1, 1.0}, preview.Rows[0])

	full := Preview(tbl, 10)
	assert.Equal(t, "inf", full.Rows[6][1])
}

func TestChart(t *testing.T) {
	tbl, err := Ingest(csvFile("c.csv", "label,a,flag,b,c\nx,1,true,2.5,9\ny,,false,3.5,9\n"))
	require.NoError(t, err)

	chart, err := Chart(tbl)
	require.NoError(t, err)
	assert.Equal(t, "bar", chart.ChartType)
	assert.Equal(t, 2, chart.Rows)
	require.Len(t, chart.Series, ChartColumns)

	assert.Equal(t, "a", chart.Series[0].Name)
	require.NotNil(t, chart.Series[0].Values[0])
	assert.Equal(t, 1.0, *chart.Series[0].Values[0])
	assert.Nil(t, chart.Series[0].Values[1])

	assert.Equal(t, "b", chart.Series[1].Name)
	assert.Equal(t, "float", chart.Series[1].Type)
	assert.Equal(t, 3.5, *chart.Series[1].Values[1])
}

func TestChartNeedsTwoNumericColumns(t *testing.T) {
	tbl, err := Ingest(csvFile("c.csv", "label,a\nx,1\n"))
	require.NoError(t, err)

	_, err = Chart(tbl)
	assert.ErrorIs(t, err, ErrNotEnoughNumericColumns)
}
