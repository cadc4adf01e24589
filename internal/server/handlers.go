package server

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/ukaji3/datasweeper-go/internal/logging"
	"github.com/ukaji3/datasweeper-go/pkg/datasweeper"
	"github.com/ukaji3/datasweeper-go/pkg/datasweeper/models"
)

// Handler serves the conversion endpoints.
type Handler struct {
	processor     *datasweeper.Processor
	logger        *slog.Logger
	validate      *validator.Validate
	defaultFormat datasweeper.Format
	maxUpload     int64
}

// NewHandler creates a handler converting with processor.
func NewHandler(processor *datasweeper.Processor, logger *slog.Logger, defaultFormat datasweeper.Format, maxUpload int64) *Handler {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{
		processor:     processor,
		logger:        logger.With(slog.String("component", "convert_handler")),
		validate:      v,
		defaultFormat: defaultFormat,
		maxUpload:     maxUpload,
	}
}

// FileResponse is the outcome of one file in a batch response.
type FileResponse struct {
	FileName string              `json:"file_name"`
	Success  bool                `json:"success"`
	Details  *models.FileDetails `json:"details,omitempty"`
	Preview  *models.Preview     `json:"preview,omitempty"`
	Output   *models.Output      `json:"output,omitempty"`
	Error    *APIError           `json:"error,omitempty"`
}

// ConvertResponse is the body of a batch conversion.
type ConvertResponse struct {
	RequestID string         `json:"request_id"`
	Format    string         `json:"format"`
	Converted int            `json:"converted"`
	Failed    int            `json:"failed"`
	Results   []FileResponse `json:"results"`
}

// HealthResponse is the body of the health endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Convert handles POST /api/v1/convert. Every uploaded file gets an entry
// in the response; a failing file does not fail the request.
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	opts, ok := h.readOptions(w, r)
	if !ok {
		return
	}
	files, err := readUploads(r.MultipartForm, fieldFiles)
	if err != nil {
		writeError(w, r, NewAPIError(http.StatusBadRequest, "INVALID_REQUEST", "Invalid upload", err.Error()))
		return
	}
	if len(files) == 0 {
		writeError(w, r, NewAPIError(http.StatusBadRequest, "MISSING_PARAMETER", "No files uploaded", ValidationError{Field: fieldFiles, Message: "at least one file is required"}))
		return
	}

	results := h.processor.ProcessBatch(r.Context(), files, opts)

	resp := ConvertResponse{
		RequestID: logging.RequestID(r.Context()),
		Format:    string(opts.Format),
		Results:   make([]FileResponse, 0, len(results)),
	}
	for _, res := range results {
		fr := FileResponse{
			FileName: res.FileName,
			Success:  res.OK(),
			Details:  res.Details,
			Preview:  res.Preview,
			Output:   res.Output,
		}
		if res.Err != nil {
			fr.Error = pipelineError(res.Err)
			resp.Failed++
		} else {
			resp.Converted++
		}
		resp.Results = append(resp.Results, fr)
	}
	render.JSON(w, r, resp)
}

// Download handles POST /api/v1/convert/download and responds with the
// encoded file itself.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	opts, ok := h.readOptions(w, r)
	if !ok {
		return
	}
	file, ok := h.singleUpload(w, r)
	if !ok {
		return
	}

	result := h.processor.Process(r.Context(), file, opts)
	if result.Err != nil {
		writeError(w, r, pipelineError(result.Err))
		return
	}

	out := result.Output
	w.Header().Set("Content-Type", out.MIMEType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": out.FileName}))
	w.Header().Set("Content-Length", strconv.Itoa(len(out.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out.Data); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write download",
			slog.String("file", out.FileName),
			slog.String("error", err.Error()))
	}
}

// Chart handles POST /api/v1/chart: the bar chart projection of the first
// two numeric columns after cleaning and selection.
func (h *Handler) Chart(w http.ResponseWriter, r *http.Request) {
	opts, ok := h.readOptions(w, r)
	if !ok {
		return
	}
	file, ok := h.singleUpload(w, r)
	if !ok {
		return
	}

	t, err := datasweeper.Ingest(file)
	if err == nil {
		t, err = datasweeper.Clean(t, opts.Clean)
	}
	if err == nil {
		t, err = datasweeper.SelectColumns(t, opts.Columns)
	}
	if err != nil {
		writeError(w, r, pipelineError(err))
		return
	}

	chart, err := datasweeper.Chart(t)
	if err != nil {
		writeError(w, r, pipelineError(datasweeper.NewFileError(file.Name, datasweeper.StageChart, err)))
		return
	}
	render.JSON(w, r, chart)
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// readOptions parses and validates the form fields, writing the error
// response itself when they are invalid.
func (h *Handler) readOptions(w http.ResponseWriter, r *http.Request) (datasweeper.Options, bool) {
	if r.ContentLength > h.maxUpload {
		h.tooLarge(w, r)
		return datasweeper.Options{}, false
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	req, err := parseMultipart(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.tooLarge(w, r)
			return datasweeper.Options{}, false
		}
		writeError(w, r, NewAPIError(http.StatusBadRequest, "INVALID_REQUEST", "Invalid multipart form", err.Error()))
		return datasweeper.Options{}, false
	}

	if err := h.validate.Struct(req); err != nil {
		writeError(w, r, NewAPIError(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", validationErrors(err)))
		return datasweeper.Options{}, false
	}

	opts, err := req.Options(h.defaultFormat)
	if err != nil {
		writeError(w, r, pipelineError(err))
		return datasweeper.Options{}, false
	}
	return opts, true
}

func (h *Handler) tooLarge(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, NewAPIError(http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body exceeds maximum allowed size", map[string]int64{"max_size": h.maxUpload}))
}

func (h *Handler) singleUpload(w http.ResponseWriter, r *http.Request) (models.UploadedFile, bool) {
	files, err := readUploads(r.MultipartForm, fieldFile)
	if err != nil {
		writeError(w, r, NewAPIError(http.StatusBadRequest, "INVALID_REQUEST", "Invalid upload", err.Error()))
		return models.UploadedFile{}, false
	}
	if len(files) != 1 {
		writeError(w, r, NewAPIError(http.StatusBadRequest, "MISSING_PARAMETER", "Exactly one file is required", ValidationError{Field: fieldFile, Message: "exactly one file is required"}))
		return models.UploadedFile{}, false
	}
	return files[0], true
}
