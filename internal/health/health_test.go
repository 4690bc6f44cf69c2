package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestStatusMemoryBackendWithoutAI(t *testing.T) {
	svc := NewService(nil, nil)
	svc.now = fixedClock

	report := svc.Status(context.Background())
	assert.Equal(t, "healthy", report.Status)
	assert.Equal(t, Version, report.Version)
	assert.Equal(t, fixedClock(), report.Timestamp)
	assert.Equal(t, map[string]string{
		"database": "using local storage",
		"openai":   "unavailable",
	}, report.Services)
}

func TestStatusDatabaseAndAI(t *testing.T) {
	ok := NewService(func(context.Context) error { return nil }, func() bool { return true })
	report := ok.Status(context.Background())
	assert.Equal(t, "ok", report.Services["database"])
	assert.Equal(t, "ok", report.Services["openai"])

	failing := NewService(func(context.Context) error { return errors.New("down") }, func() bool { return false })
	report = failing.Status(context.Background())
	assert.Equal(t, "healthy", report.Status)
	assert.Equal(t, "error", report.Services["database"])
	assert.Equal(t, "unavailable", report.Services["openai"])
}

func TestHandlerEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(NewService(nil, func() bool { return true })).RegisterRoutes(r.Group("/api/v1"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status string `json:"status"`
		Data   Report `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, "healthy", body.Data.Status)
	assert.Equal(t, "ok", body.Data.Services["openai"])
}
