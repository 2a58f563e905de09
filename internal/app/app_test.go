package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApplication(t *testing.T) {
	t.Setenv("BILLSCAN_SERVER_PORT", "18099")
	t.Setenv("BILLSCAN_LOGGING_LEVEL", "error")

	application, err := NewApplication()
	require.NoError(t, err)
	assert.Equal(t, ":18099", application.Server.Addr)

	rec := httptest.NewRecorder()
	application.Server.Handler.ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestNewApplicationInvalidConfig(t *testing.T) {
	t.Setenv("BILLSCAN_SERVER_PORT", "99999")

	_, err := NewApplication()
	assert.Error(t, err)
}
