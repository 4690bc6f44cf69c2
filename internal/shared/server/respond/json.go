package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"

	SourceFallback = "fallback"
)

// Envelope is the uniform response body for every JSON route.
type Envelope struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
}

// Meta marks data produced by a fallback generator.
type Meta struct {
	Source string `json:"source"`
	Reason string `json:"reason"`
}

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// Success writes a success envelope.
func Success(c *gin.Context, status int, data any, message string) {
	JSON(c, status, Envelope{Status: StatusSuccess, Data: data, Message: message})
}

// OK writes a 200 success envelope.
func OK(c *gin.Context, data any) {
	Success(c, http.StatusOK, data, "")
}

// Fallback writes a 200 success envelope annotated with the fallback reason.
func Fallback(c *gin.Context, data any, reason string) {
	FallbackStatus(c, http.StatusOK, data, reason)
}

// FallbackStatus is Fallback with an explicit status code.
func FallbackStatus(c *gin.Context, status int, data any, reason string) {
	JSON(c, status, Envelope{
		Status: StatusSuccess,
		Data:   data,
		Meta:   &Meta{Source: SourceFallback, Reason: reason},
	})
}
