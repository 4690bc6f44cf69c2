package server

import (
	"github.com/gin-gonic/gin"

	"resume-manager/internal/health"
	"resume-manager/internal/resumes"
	"resume-manager/internal/shared/config"
	"resume-manager/internal/shared/metrics"
	"resume-manager/internal/shared/server/middleware"
)

// Deps are the handlers the router mounts.
type Deps struct {
	Resumes *resumes.Handler
	Health  *health.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config, deps Deps) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigins),
	)

	var ai []gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		rule := middleware.RateLimitRule{Rate: cfg.RateLimit.RPS, Burst: cfg.RateLimit.Burst}
		ai = append(ai, middleware.RateLimit(middleware.NewRateLimiter(nil), rule, nil))
	}

	api := r.Group("/api/v1")
	if deps.Health != nil {
		deps.Health.RegisterRoutes(api)
		deps.Health.RegisterRoutes(r)
	}
	if deps.Resumes != nil {
		deps.Resumes.RegisterRoutes(api, ai...)
		deps.Resumes.RegisterLegacyRoutes(r, ai...)
	}
	r.GET("/metrics", metrics.Handler())

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
