package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ukaji3/datasweeper-go/pkg/datasweeper"
	"github.com/ukaji3/datasweeper-go/pkg/datasweeper/models"
)

// Multipart form field names.
const (
	fieldFiles   = "files"
	fieldFile    = "file"
	fieldFormat  = "format"
	fieldClean   = "clean"
	fieldColumns = "columns"
)

// multipartMemory is the part of a multipart body kept in memory; the rest
// is spooled to temporary files by net/http.
const multipartMemory = 8 << 20

// ConvertRequest holds the non-file fields of a conversion request.
type ConvertRequest struct {
	Format  string   `json:"format" validate:"omitempty,oneof=csv xlsx excel spreadsheet"`
	Clean   []string `json:"clean" validate:"dive,oneof=remove-duplicates fill-missing-mean"`
	Columns []string `json:"columns" validate:"unique,dive,required"`
}

// Options converts a validated request into pipeline options.
func (c ConvertRequest) Options(defaultFormat datasweeper.Format) (datasweeper.Options, error) {
	opts := datasweeper.Options{
		Columns: c.Columns,
		Format:  defaultFormat,
	}
	if c.Format != "" {
		format, err := datasweeper.ParseFormat(c.Format)
		if err != nil {
			return opts, err
		}
		opts.Format = format
	}
	actions, err := datasweeper.ParseCleanActions(c.Clean)
	if err != nil {
		return opts, err
	}
	opts.Clean = actions
	return opts, nil
}

// parseMultipart reads the multipart body and the conversion fields.
func parseMultipart(r *http.Request) (ConvertRequest, error) {
	var req ConvertRequest
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return req, err
	}
	form := r.MultipartForm
	req.Format = strings.ToLower(strings.TrimSpace(firstValue(form.Value[fieldFormat])))
	req.Clean = normalizeValues(form.Value[fieldClean])
	req.Columns = form.Value[fieldColumns]
	return req, nil
}

// normalizeValues trims and lowercases values, dropping blank ones.
func normalizeValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func firstValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// readUploads reads every file attached under field.
func readUploads(form *multipart.Form, field string) ([]models.UploadedFile, error) {
	headers := form.File[field]
	files := make([]models.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		content, err := readPart(fh)
		if err != nil {
			return nil, fmt.Errorf("failed to read %q: %w", fh.Filename, err)
		}
		files = append(files, models.NewUploadedFile(fh.Filename, content))
	}
	return files, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// validationErrors converts validator output into API field errors.
func validationErrors(err error) []ValidationError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ValidationError{{Message: err.Error()}}
	}
	out := make([]ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("failed on the %q rule", fe.Tag()),
		})
	}
	return out
}
