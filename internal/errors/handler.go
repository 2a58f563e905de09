package errors

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

// ErrorHandler provides centralized error handling for HTTP handlers:
// every failure is logged once with request context and rendered as a
// structured APIError.
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger.With(slog.String("component", "error_handler")),
	}
}

// HandleError logs err and writes it as a structured response. Plain
// errors are wrapped as 500s; *APIError values keep their status.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	apiErr := h.toAPIError(err)

	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("error_code", apiErr.ErrorCode),
		slog.Int("status", apiErr.StatusCode),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	if renderErr := render.Render(w, r, apiErr); renderErr != nil {
		http.Error(w, apiErr.Message, apiErr.StatusCode)
	}
}

func (h *ErrorHandler) toAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return NewWithDetails(http.StatusInternalServerError,
		"INTERNAL_SERVER_ERROR", "Internal server error", err.Error())
}
