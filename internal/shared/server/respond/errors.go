package respond

import (
	"github.com/gin-gonic/gin"

	"resume-manager/internal/shared/telemetry"
)

// Error sends an error envelope and aborts the chain.
func Error(c *gin.Context, status int, code, message string) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if resumeID := c.GetString("resumeId"); resumeID != "" {
		fields["resume_id"] = resumeID
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, Envelope{
		Status:  StatusError,
		Message: message,
		Code:    code,
	})
}
