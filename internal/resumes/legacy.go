package resumes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-manager/internal/shared/server/respond"
)

// RegisterLegacyRoutes attaches the pre-v1 aliases at the router root.
func (h *Handler) RegisterLegacyRoutes(r gin.IRouter, ai ...gin.HandlerFunc) {
	g := r.Group("", tagResumeID)
	g.GET("/resume/:id", h.get)
	g.GET("/analysis/:id", h.getAnalysis)

	a := g.Group("", ai...)
	a.POST("/api/resumes", h.uploadAndAnalyze)
	a.POST("/upload", h.uploadAndAnalyze)
	a.GET("/job-suggestions/:id", h.jobSuggestions)
}

// uploadAndAnalyze stores, parses and analyzes in one request. Non-PDF
// uploads get 415 here.
func (h *Handler) uploadAndAnalyze(c *gin.Context) {
	in, err := h.readUpload(c, "Missing user_id parameter")
	if err != nil {
		writeError(c, err, http.StatusUnsupportedMediaType)
		return
	}

	up, analysis, err := h.Svc.UploadAndAnalyze(c.Request.Context(), in)
	if err != nil {
		writeError(c, err, http.StatusUnsupportedMediaType)
		return
	}
	c.Set("resumeId", up.Resume.ID)

	data := legacyUploadResponse{
		ResumeID:      up.Resume.ID,
		ParsedContent: up.Resume.Content,
	}
	reason := ""
	if up.Parse.Fallback() {
		reason = up.Parse.Reason
	}
	if analysis != nil {
		data.Analysis = &analysis.Analysis.Value
		if analysis.Analysis.Fallback() && reason == "" {
			reason = analysis.Analysis.Reason
		}
	}
	if reason != "" {
		c.Set("source", SourceFallback)
		respond.Fallback(c, data, reason)
		return
	}
	respond.OK(c, data)
}
