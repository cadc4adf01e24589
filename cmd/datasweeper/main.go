// Package main provides the CLI entry point for datasweeper.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ukaji3/datasweeper-go/internal/config"
	"github.com/ukaji3/datasweeper-go/internal/logging"
	"github.com/ukaji3/datasweeper-go/internal/metrics"
	"github.com/ukaji3/datasweeper-go/internal/server"
	"github.com/ukaji3/datasweeper-go/pkg/datasweeper"
	"github.com/ukaji3/datasweeper-go/pkg/datasweeper/models"
)

var (
	logLevel  string
	logFormat string

	toFormat     string
	cleanActions []string
	columns      []string
	outDir       string

	previewRows int
	withChart   bool
	pretty      bool

	configPath string
	listenAddr string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "datasweeper",
		Short: "Convert CSV and Excel files with optional cleaning",
		Long: `datasweeper converts CSV and XLSX files into each other, optionally
removing duplicate rows, filling missing numbers with the column mean and
keeping only selected columns.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")

	convertCmd := &cobra.Command{
		Use:   "convert [files...]",
		Short: "Convert files to CSV or XLSX",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runConvert,
	}
	convertCmd.Flags().StringVarP(&toFormat, "to", "t", "csv", "Output format: csv or xlsx")
	convertCmd.Flags().StringSliceVar(&cleanActions, "clean", nil, "Cleaning steps in order: remove-duplicates, fill-missing-mean")
	convertCmd.Flags().StringSliceVar(&columns, "columns", nil, "Columns to keep, in output order (default: all)")
	convertCmd.Flags().StringVarP(&outDir, "out-dir", "o", ".", "Directory for converted files")

	previewCmd := &cobra.Command{
		Use:   "preview [files...]",
		Short: "Print file details and the first rows as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runPreview,
	}
	previewCmd.Flags().IntVar(&previewRows, "rows", datasweeper.DefaultPreviewRows, "Number of rows to show")
	previewCmd.Flags().BoolVar(&withChart, "chart", false, "Include the chart projection of the first two numeric columns")
	previewCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP conversion service",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&configPath, "config", "", "YAML configuration file")
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "Listen address (overrides configuration)")

	rootCmd.AddCommand(convertCmd, previewCmd, serveCmd)
	return rootCmd
}

func newLogger(w io.Writer) *slog.Logger {
	return logging.New(config.LoggingConfig{Level: logLevel, Format: logFormat}, w)
}

func runConvert(cmd *cobra.Command, args []string) error {
	format, err := datasweeper.ParseFormat(toFormat)
	if err != nil {
		return err
	}
	actions, err := datasweeper.ParseCleanActions(cleanActions)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ctx := logging.WithRequestID(cmd.Context(), uuid.New().String())
	processor := datasweeper.NewProcessor(datasweeper.WithLogger(newLogger(cmd.ErrOrStderr())))
	opts := datasweeper.Options{Clean: actions, Columns: columns, Format: format}

	inputs, err := absPaths(args)
	if err != nil {
		return err
	}
	files, failed := readInputFiles(cmd.ErrOrStderr(), args)
	for _, result := range processor.ProcessBatch(ctx, files, opts) {
		if result.Err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "FAIL %s: %v\n", result.FileName, result.Err)
			continue
		}
		target, err := writeOutput(result.Output, outDir, inputs)
		if err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "FAIL %s: %v\n", result.FileName, err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%d rows, %d columns)\n",
			result.FileName, target, result.Table.Nrow(), result.Table.Ncol())
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

// readInputFiles reads each path, reporting unreadable ones and skipping them.
func readInputFiles(stderr io.Writer, paths []string) ([]models.UploadedFile, int) {
	files := make([]models.UploadedFile, 0, len(paths))
	failed := 0
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			failed++
			fmt.Fprintf(stderr, "FAIL %s: %v\n", path, err)
			continue
		}
		files = append(files, models.NewUploadedFile(filepath.Base(path), content))
	}
	return files, failed
}

var errOverwriteInput = errors.New("output would overwrite an input file")

// absPaths returns the set of absolute forms of paths.
func absPaths(paths []string) (map[string]bool, error) {
	set := make(map[string]bool, len(paths))
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
		}
		set[abs] = true
	}
	return set, nil
}

// writeOutput writes out into dir, refusing to replace any of the input
// files, given as absolute paths.
func writeOutput(out *models.Output, dir string, inputs map[string]bool) (string, error) {
	target := filepath.Join(dir, out.FileName)
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output path: %w", err)
	}
	if inputs[abs] {
		return "", fmt.Errorf("%w: %s", errOverwriteInput, target)
	}
	if err := os.WriteFile(target, out.Data, 0644); err != nil {
		return "", fmt.Errorf("failed to write output: %w", err)
	}
	return target, nil
}

type previewEntry struct {
	Details *models.FileDetails `json:"details,omitempty"`
	Preview *models.Preview     `json:"preview,omitempty"`
	Chart   *models.ChartData   `json:"chart,omitempty"`
	Warning string              `json:"warning,omitempty"`
	Error   string              `json:"error,omitempty"`
}

func runPreview(cmd *cobra.Command, args []string) error {
	entries := make(map[string]previewEntry, len(args))
	failed := 0
	for _, path := range args {
		entry := buildPreview(path)
		if entry.Error != "" {
			failed++
		}
		entries[filepath.Base(path)] = entry
	}

	jsonData, err := toJSON(entries, pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

func buildPreview(path string) previewEntry {
	content, err := os.ReadFile(path)
	if err != nil {
		return previewEntry{Error: err.Error()}
	}
	file := models.NewUploadedFile(filepath.Base(path), content)
	t, err := datasweeper.Ingest(file)
	if err != nil {
		return previewEntry{Error: err.Error()}
	}

	details := datasweeper.Details(file, t)
	preview := datasweeper.Preview(t, previewRows)
	entry := previewEntry{Details: &details, Preview: &preview}
	if withChart {
		chart, err := datasweeper.Chart(t)
		if err != nil {
			entry.Warning = err.Error()
		} else {
			entry.Chart = &chart
		}
	}
	return entry
}

func toJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if listenAddr != "" {
		cfg.Server.Addr = listenAddr
	}

	logger := logging.New(cfg.Logging, cmd.ErrOrStderr())
	srv, err := server.New(cfg, logger, metrics.NewRecorder())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}
