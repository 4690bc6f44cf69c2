package health

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-manager/internal/shared/server/respond"
)

// Handler serves the health endpoint.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Get writes the health report inside the standard envelope.
func (h *Handler) Get(c *gin.Context) {
	respond.OK(c, h.svc.Status(c.Request.Context()))
}

// RegisterRoutes mounts GET /health on rg.
func (h *Handler) RegisterRoutes(rg gin.IRouter) {
	rg.GET("/health", h.Get)
	rg.HEAD("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
}
