package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-manager/internal/shared/telemetry"
)

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	restore := telemetry.SetOutput(&buf)
	defer restore()

	router := gin.New()
	router.Use(RequestID(), Logging())
	router.GET("/api/v1/resumes/:id", func(c *gin.Context) {
		c.Set("resumeId", "res-1")
		c.Set("source", "fallback")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resumes/res-1", nil)
	req.Header.Set("X-Request-Id", "req-42")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	last := lines[len(lines)-1]
	var payload map[string]any
	if err := json.Unmarshal([]byte(last), &payload); err != nil {
		t.Fatalf("decode log json: %v", err)
	}

	for _, key := range []string{"request_id", "resume_id", "source", "duration_ms", "status", "route"} {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing log field: %s", key)
		}
	}
	if payload["request_id"] != "req-42" {
		t.Fatalf("unexpected request_id: %v", payload["request_id"])
	}
	if payload["route"] != "/api/v1/resumes/:id" {
		t.Fatalf("unexpected route: %v", payload["route"])
	}
	if resp.Header().Get("X-Request-Id") != "req-42" {
		t.Fatalf("expected request id echoed in response header")
	}
}

func TestRecoveryReturnsEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	restore := telemetry.SetOutput(&bytes.Buffer{})
	defer restore()

	router := gin.New()
	router.Use(RequestID(), Recovery())
	router.GET("/boom", func(c *gin.Context) {
		panic("kaboom")
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if payload["status"] != "error" {
		t.Fatalf("expected error envelope, got %v", payload)
	}
	if strings.Contains(resp.Body.String(), "kaboom") {
		t.Fatalf("panic value leaked into response")
	}
}
