package errors

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorError(t *testing.T) {
	err := New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	assert.Equal(t, "Invalid request format", err.Error())
}

func TestHandleErrorAPIError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	handler := NewErrorHandler(logger)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	handler.HandleError(rec, req, ErrMonthNotFound)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "MONTH_NOT_FOUND", body.ErrorCode)
}

func TestHandleErrorWrapsPlainErrors(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	handler := NewErrorHandler(logger)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	handler.HandleError(rec, req, fmt.Errorf("disk on fire"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_SERVER_ERROR")
	assert.Contains(t, rec.Body.String(), "disk on fire")
}

func TestHandleErrorWrappedAPIError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	handler := NewErrorHandler(logger)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	handler.HandleError(rec, req, fmt.Errorf("loading dataset: %w", ErrUnsupportedFile))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNSUPPORTED_FILE")
}

func TestUnprocessableFile(t *testing.T) {
	err := UnprocessableFile(fmt.Errorf("not a spreadsheet"))
	assert.Equal(t, http.StatusUnprocessableEntity, err.StatusCode)
	assert.Equal(t, "not a spreadsheet", err.Details)
}
