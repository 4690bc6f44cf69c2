package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resume-manager/internal/shared/telemetry"
)

func TestRateLimitOnlyMatchedRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	restore := telemetry.SetOutput(&bytes.Buffer{})
	defer restore()

	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	r := gin.New()
	r.Use(RateLimit(limiter, RateLimitRule{Rate: 1, Burst: 2}, func(c *gin.Context) bool {
		return c.Request.Method == http.MethodPost
	}))
	r.POST("/api/v1/resumes/:id/optimize-content", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/api/v1/resumes/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 5; i++ {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/resumes/1", nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("unmatched request %d expected 200, got %d", i+1, resp.Code)
		}
	}

	for i := 0; i < 2; i++ {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/resumes/1/optimize-content", nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("request %d expected 200, got %d", i+1, resp.Code)
		}
	}

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/resumes/1/optimize-content", nil))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
	if resp.Header().Get("Retry-After") != "1" {
		t.Fatalf("expected Retry-After 1, got %q", resp.Header().Get("Retry-After"))
	}
}

func TestRateLimiterRefills(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 2, Burst: 1}

	if ok, _ := limiter.Allow("k", rule); !ok {
		t.Fatalf("expected first call allowed")
	}
	ok, wait := limiter.Allow("k", rule)
	if ok {
		t.Fatalf("expected second call limited")
	}
	if wait != 500*time.Millisecond {
		t.Fatalf("expected 500ms wait, got %s", wait)
	}

	now = now.Add(500 * time.Millisecond)
	if ok, _ := limiter.Allow("k", rule); !ok {
		t.Fatalf("expected call allowed after refill")
	}
}

func TestRateLimiterDisabledRule(t *testing.T) {
	limiter := NewRateLimiter(nil)
	for i := 0; i < 10; i++ {
		if ok, _ := limiter.Allow("k", RateLimitRule{}); !ok {
			t.Fatalf("zero rule must not limit")
		}
	}
}

func TestRateLimiterEvictsIdleBuckets(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 1, Burst: 1}

	limiter.Allow("10.0.0.1|/upload", rule)
	limiter.Allow("10.0.0.2|/upload", rule)
	if got := limiter.Len(); got != 2 {
		t.Fatalf("expected 2 buckets, got %d", got)
	}

	now = now.Add(limiterIdleTTL / 2)
	limiter.Allow("10.0.0.2|/upload", rule)

	now = now.Add(limiterIdleTTL/2 + time.Second)
	if ok, _ := limiter.Allow("10.0.0.3|/upload", rule); !ok {
		t.Fatal("new client should be allowed")
	}
	if got := limiter.Len(); got != 2 {
		t.Fatalf("expected idle bucket to be evicted, got %d buckets", got)
	}
}
