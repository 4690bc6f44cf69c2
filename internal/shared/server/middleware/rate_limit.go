package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"resume-manager/internal/shared/server/respond"
)

// RateLimitRule is a token bucket refilled at Rate tokens per second.
type RateLimitRule struct {
	Rate  float64
	Burst int
}

// limiterIdleTTL is how long a client bucket may sit unused before it is
// dropped.
const limiterIdleTTL = 10 * time.Minute

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client key. Buckets idle for
// longer than limiterIdleTTL are evicted.
type RateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter constructs a limiter. now may be nil.
func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		buckets: make(map[string]*bucket),
		now:     now,
	}
}

// Allow reports whether key may proceed and, if not, how long to wait.
func (l *RateLimiter) Allow(key string, rule RateLimitRule) (bool, time.Duration) {
	if l == nil || rule.Rate <= 0 || rule.Burst <= 0 {
		return true, 0
	}
	now := l.now()

	l.mu.Lock()
	l.sweep(now)
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(rate.Limit(rule.Rate), rule.Burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	lim := b.lim
	l.mu.Unlock()

	r := lim.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Second
	}
	delay := r.DelayFrom(now)
	if delay <= 0 {
		return true, 0
	}
	r.CancelAt(now)
	return false, delay
}

// Len returns the number of tracked client buckets.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// sweep drops idle buckets at most once per TTL. Callers hold l.mu.
func (l *RateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < limiterIdleTTL {
		return
	}
	l.lastSweep = now
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) >= limiterIdleTTL {
			delete(l.buckets, key)
		}
	}
}

// RateLimit limits requests per client IP. Routes for which match returns
// false pass through untouched.
func RateLimit(limiter *RateLimiter, rule RateLimitRule, match func(*gin.Context) bool) gin.HandlerFunc {
	if limiter == nil {
		limiter = NewRateLimiter(nil)
	}
	return func(c *gin.Context) {
		if match != nil && !match(c) {
			c.Next()
			return
		}
		key := strings.TrimSpace(c.ClientIP()) + "|" + c.FullPath()
		allowed, retryAfter := limiter.Allow(key, rule)
		if allowed {
			c.Next()
			return
		}
		seconds := int(math.Ceil(retryAfter.Seconds()))
		if seconds <= 0 {
			seconds = 1
		}
		c.Header("Retry-After", strconv.Itoa(seconds))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "Too many requests")
	}
}
