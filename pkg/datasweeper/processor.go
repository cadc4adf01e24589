package datasweeper

import (
	"context"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/ukaji3/datasweeper-go/pkg/datasweeper/models"
	"github.com/ukaji3/datasweeper-go/pkg/datasweeper/output"
	"github.com/ukaji3/datasweeper-go/pkg/datasweeper/table"
)

// Observer receives the outcome of every processed file.
type Observer interface {
	FileProcessed(result models.FileResult, format Format, elapsed time.Duration)
}

// Processor runs the ingest, clean, select and export steps for uploaded
// files. It keeps no table state between calls and is safe for concurrent use.
type Processor struct {
	logger      *slog.Logger
	observer    Observer
	previewRows int
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithLogger sets the logger used for per-file outcomes.
func WithLogger(logger *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithObserver registers an observer notified after each file.
func WithObserver(o Observer) ProcessorOption {
	return func(p *Processor) {
		p.observer = o
	}
}

// WithPreviewRows sets how many rows a preview holds.
func WithPreviewRows(n int) ProcessorOption {
	return func(p *Processor) {
		if n > 0 {
			p.previewRows = n
		}
	}
}

// NewProcessor creates a Processor. Without WithLogger it discards logs.
func NewProcessor(opts ...ProcessorOption) *Processor {
	p := &Processor{
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		previewRows: DefaultPreviewRows,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process converts one file. Errors are recorded on the result, never returned.
func (p *Processor) Process(ctx context.Context, file models.UploadedFile, opts Options) models.FileResult {
	if opts.Format == "" {
		opts.Format = FormatCSV
	}

	start := time.Now()
	result := p.process(file, opts)
	elapsed := time.Since(start)

	if p.observer != nil {
		p.observer.FileProcessed(result, opts.Format, elapsed)
	}

	if result.Err != nil {
		p.logger.WarnContext(ctx, "file processing failed",
			slog.String("file", file.Name),
			slog.Int64("size", file.Size),
			slog.String("kind", ErrorKind(result.Err)),
			slog.String("error", result.Err.Error()))
		return result
	}
	p.logger.InfoContext(ctx, "file converted",
		slog.String("file", file.Name),
		slog.String("output", result.Output.FileName),
		slog.Int("rows", result.Table.Nrow()),
		slog.Int("columns", result.Table.Ncol()),
		slog.Int("bytes", len(result.Output.Data)),
		slog.Duration("elapsed", elapsed))
	return result
}

func (p *Processor) process(file models.UploadedFile, opts Options) models.FileResult {
	result := models.FileResult{FileName: file.Name}

	t, err := Ingest(file)
	if err != nil {
		result.Err = err
		return result
	}
	details := Details(file, t)
	result.Details = &details
	preview := Preview(t, p.previewRows)
	result.Preview = &preview

	t, err = Clean(t, opts.Clean)
	if err != nil {
		result.Err = NewFileError(file.Name, StageClean, err)
		return result
	}
	t, err = SelectColumns(t, opts.Columns)
	if err != nil {
		result.Err = NewFileError(file.Name, StageSelect, err)
		return result
	}
	result.Table = t

	data, err := Export(t, opts.Format)
	if err != nil {
		result.Err = NewFileError(file.Name, StageExport, err)
		return result
	}
	result.Output = &models.Output{
		FileName: OutputName(file.Name, opts.Format),
		MIMEType: opts.Format.MIMEType(),
		Data:     data,
	}
	return result
}

// ProcessBatch converts files one after another. A failing file does not
// stop the others; results are returned in input order.
func (p *Processor) ProcessBatch(ctx context.Context, files []models.UploadedFile, opts Options) []models.FileResult {
	results := make([]models.FileResult, 0, len(files))
	failed := 0
	for _, file := range files {
		result := p.Process(ctx, file, opts)
		if result.Err != nil {
			failed++
		}
		results = append(results, result)
	}
	p.logger.InfoContext(ctx, "batch processed",
		slog.Int("files", len(files)),
		slog.Int("failed", failed),
		slog.String("format", string(opts.Format)))
	return results
}

// Process converts one file with a default Processor.
func Process(file models.UploadedFile, opts Options) models.FileResult {
	return NewProcessor().Process(context.Background(), file, opts)
}

// ProcessBatch converts files with a default Processor.
func ProcessBatch(files []models.UploadedFile, opts Options) []models.FileResult {
	return NewProcessor().ProcessBatch(context.Background(), files, opts)
}

// Details summarises an ingested file.
func Details(file models.UploadedFile, t *table.Table) models.FileDetails {
	return models.FileDetails{
		Name:      file.Name,
		SizeBytes: file.Size,
		SizeKB:    models.FormatKB(file.Size),
		Rows:      t.Nrow(),
		Columns:   t.Ncol(),
	}
}

// Preview returns the first n rows of t.
func Preview(t *table.Table, n int) models.Preview {
	head := t.Head(n)
	preview := models.Preview{
		Columns: head.Names(),
		Types:   make([]string, head.Ncol()),
		Rows:    make([][]any, head.Nrow()),
	}
	for col, typ := range head.Types() {
		preview.Types[col] = string(typ)
	}
	for row := range preview.Rows {
		values := make([]any, head.Ncol())
		for col := range values {
			values[col] = displayValue(head.Value(row, col))
		}
		preview.Rows[row] = values
	}
	return preview
}

// displayValue keeps values JSON-encodable.
func displayValue(v any) any {
	if f, ok := v.(float64); ok && math.IsInf(f, 0) {
		return output.FormatCell(f)
	}
	return v
}
