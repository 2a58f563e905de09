// Package errors provides structured API error responses and a
// centralized handler that logs and renders them.
package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
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

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Predefined error types for common scenarios
var (
	// 400 Bad Request
	ErrInvalidRequest   = New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	ErrMissingFile      = New(http.StatusBadRequest, "MISSING_FILE", "Multipart field \"file\" is required")
	ErrEmptyFilename    = New(http.StatusBadRequest, "EMPTY_FILENAME", "Uploaded file has no name")
	ErrUnsupportedFile  = New(http.StatusBadRequest, "UNSUPPORTED_FILE", "Only spreadsheet uploads are supported (.xlsx, .xls, .xml, .csv)")
	ErrValidationFailed = New(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed")

	// 404 Not Found
	ErrNotFound      = New(http.StatusNotFound, "NOT_FOUND", "Resource not found")
	ErrMonthNotFound = New(http.StatusNotFound, "MONTH_NOT_FOUND", "Requested month not present in dataset")

	// 413 Payload Too Large
	ErrPayloadTooLarge = New(http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Uploaded file exceeds the size limit")

	// 422 Unprocessable Entity
	ErrUnprocessableFile = New(http.StatusUnprocessableEntity, "UNPROCESSABLE_FILE", "File could not be parsed")

	// 429 Too Many Requests
	ErrRateLimitExceeded = New(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded")

	// 500 Internal Server Error
	ErrInternalServer = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
	ErrFileSystem     = New(http.StatusInternalServerError, "FILESYSTEM_ERROR", "File system error")
)

// UnprocessableFile wraps a parse failure with its cause for the
// response body.
func UnprocessableFile(err error) *APIError {
	return NewWithDetails(http.StatusUnprocessableEntity, "UNPROCESSABLE_FILE", "File could not be parsed", err.Error())
}

// NotFoundError creates a not found error with details
func NotFoundError(resource string) *APIError {
	return NewWithDetails(http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("%s not found", resource), resource)
}
