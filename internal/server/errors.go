package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/ukaji3/datasweeper-go/pkg/datasweeper"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError with additional details
func NewAPIError(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// ValidationError represents one invalid request field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error"`
}

// Render implements the render.Renderer interface
func (e *ErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.Error.StatusCode)
	return nil
}

func writeError(w http.ResponseWriter, r *http.Request, err *APIError) {
	_ = render.Render(w, r, &ErrorResponse{Success: false, Error: err})
}

var kindStatus = map[string]int{
	"unsupported_format":         http.StatusUnsupportedMediaType,
	"decode_error":               http.StatusUnprocessableEntity,
	"unknown_column":             http.StatusBadRequest,
	"duplicate_column":           http.StatusBadRequest,
	"unknown_action":             http.StatusBadRequest,
	"not_enough_numeric_columns": http.StatusUnprocessableEntity,
}

// pipelineError maps a pipeline failure to an API error.
func pipelineError(err error) *APIError {
	kind := datasweeper.ErrorKind(err)
	status, ok := kindStatus[kind]
	if !ok {
		return NewAPIError(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error", nil)
	}
	return NewAPIError(status, strings.ToUpper(kind), err.Error(), nil)
}
