package resumes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-manager/internal/shared/server/respond"
	"resume-manager/internal/shared/telemetry"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler. maxUploadBytes <= 0 disables the cap.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches resume routes to the /api/v1 group. ai is applied
// to routes that call the model.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, ai ...gin.HandlerFunc) {
	g := rg.Group("", tagResumeID)
	g.GET("/resumes", h.list)
	g.GET("/resumes/:id", h.get)
	g.PUT("/resumes/:id/content", h.updateContent)
	g.DELETE("/resumes/:id", h.delete)
	g.GET("/resumes/:id/download", h.download)
	g.GET("/resumes/:id/generate-pdf", h.generatePDF)
	g.GET("/analyses/:id", h.getAnalysis)

	a := g.Group("", ai...)
	a.POST("/resumes/upload", h.upload)
	a.POST("/resumes/:id/parse", h.parse)
	a.POST("/resumes/:id/analyze", h.analyze)
	a.GET("/resumes/:id/job-suggestions", h.jobSuggestions)
	a.GET("/resumes/:id/extract-keywords", h.keywords)
	a.GET("/resumes/:id/content-string", h.contentString)
	a.POST("/resumes/:id/optimize-content", h.optimize)
}

func tagResumeID(c *gin.Context) {
	if id := c.Param("id"); id != "" {
		c.Set("resumeId", id)
	}
	c.Next()
}

// readUpload reads the multipart upload. An oversized body is reported
// first; otherwise a missing user_id (reported as missingUser) takes
// precedence over a missing file.
func (h *Handler) readUpload(c *gin.Context, missingUser string) (UploadInput, error) {
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}
	fileHeader, fileErr := c.FormFile("file")
	var maxErr *http.MaxBytesError
	if errors.As(fileErr, &maxErr) {
		return UploadInput{}, withDetail(ErrValidation, "File exceeds the "+uploadLimit(h.MaxUploadBytes)+" upload limit")
	}

	userID := strings.TrimSpace(c.PostForm("user_id"))
	if userID == "" {
		return UploadInput{}, withDetail(ErrValidation, missingUser)
	}
	c.Set("userId", userID)
	if fileErr != nil {
		return UploadInput{}, withDetail(ErrValidation, "No file part")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return UploadInput{}, withDetail(ErrValidation, "unable to read file")
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return UploadInput{}, withDetail(ErrValidation, "unable to read file")
	}
	return UploadInput{Filename: fileHeader.Filename, UserID: userID, Data: data}, nil
}

func uploadLimit(n int64) string {
	if n >= 1<<20 && n%(1<<20) == 0 {
		return fmt.Sprintf("%d MB", n>>20)
	}
	return fmt.Sprintf("%d byte", n)
}

func (h *Handler) upload(c *gin.Context) {
	in, err := h.readUpload(c, "user_id is required")
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}

	out, err := h.Svc.Upload(c.Request.Context(), in)
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}
	c.Set("resumeId", out.Resume.ID)

	data := uploadResponse{
		ResumeID:   out.Resume.ID,
		Filename:   out.Resume.Filename,
		UserID:     out.Resume.UserID,
		FileType:   "pdf",
		Status:     out.Resume.Status,
		ParsedData: out.Resume.Content,
	}
	writeSourced(c, http.StatusCreated, out.Parse, data)
}

func (h *Handler) parse(c *gin.Context) {
	out, err := h.Svc.Parse(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}
	data := parseResponse{ResumeID: out.ResumeID, Content: out.Content.Value}
	if out.AlreadyParsed {
		data.Message = "Resume was already parsed"
		respond.OK(c, data)
		return
	}
	data.Message = "Resume parsed successfully"
	writeSourced(c, http.StatusOK, out.Content, data)
}

func (h *Handler) analyze(c *gin.Context) {
	out, err := h.Svc.Analyze(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}
	writeSourced(c, http.StatusOK, out.Analysis, analyzeResponse{
		ResumeID:   out.ResumeID,
		AnalysisID: out.AnalysisID,
		Analysis:   out.Analysis.Value,
	})
}

func (h *Handler) list(c *gin.Context) {
	userID := c.Query("user_id")
	if userID != "" {
		c.Set("userId", userID)
	}
	items, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}
	resp := make([]ResumeResponse, 0, len(items))
	for _, r := range items {
		resp = append(resp, toResumeResponse(r))
	}
	respond.OK(c, gin.H{"resumes": resp})
}

func (h *Handler) get(c *gin.Context) {
	res, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}
	respond.OK(c, toResumeResponse(res))
}

func (h *Handler) getAnalysis(c *gin.Context) {
	a, err := h.Svc.GetAnalysis(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}
	respond.OK(c, toAnalysisResponse(a))
}

func (h *Handler) jobSuggestions(c *gin.Context) {
	id, out, err := h.Svc.JobSuggestions(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}
	writeSourced(c, http.StatusOK, out, gin.H{"resume_id": id, "job_suggestions": out.Value})
}

func (h *Handler) keywords(c *gin.Context) {
	id, out, err := h.Svc.Keywords(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}
	writeSourced(c, http.StatusOK, out, gin.H{"resume_id": id, "keywords": out.Value})
}

func (h *Handler) contentString(c *gin.Context) {
	id, out, err := h.Svc.ContentString(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}
	writeSourced(c, http.StatusOK, out, gin.H{"resume_id": id, "content_string": out.Value})
}

func (h *Handler) optimize(c *gin.Context) {
	var req optimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "No data provided")
		return
	}
	optimized, err := h.Svc.Optimize(c.Request.Context(), c.Param("id"), OptimizeInput{
		SectionKey:     req.SectionKey,
		CurrentContent: req.CurrentContent,
		JobTitle:       req.JobTitle,
		ItemIndex:      req.ItemIndex,
	})
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}
	respond.OK(c, optimizeResponse{OriginalContent: req.CurrentContent, OptimizedContent: optimized})
}

func (h *Handler) updateContent(c *gin.Context) {
	var req updateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Content is required")
		return
	}
	id, err := h.Svc.UpdateContent(c.Request.Context(), c.Param("id"), req.Content)
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}
	respond.OK(c, gin.H{"resume_id": id, "message": "Resume content updated successfully"})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}
	respond.Success(c, http.StatusOK, nil, "Resume deleted successfully")
}

func (h *Handler) download(c *gin.Context) {
	rc, filename, err := h.Svc.Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}
	defer rc.Close()
	c.DataFromReader(http.StatusOK, -1, "application/pdf", rc, map[string]string{
		"Content-Disposition": attachment(filename),
	})
}

func (h *Handler) generatePDF(c *gin.Context) {
	data, filename, err := h.Svc.GeneratePDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}
	c.Header("Content-Disposition", attachment(filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

func attachment(filename string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": filename})
}

func writeSourced[T any](c *gin.Context, status int, s Sourced[T], data any) {
	if s.Fallback() {
		c.Set("source", SourceFallback)
		respond.FallbackStatus(c, status, data, s.Reason)
		return
	}
	respond.Success(c, status, data, "")
}

// writeError maps service errors onto the envelope. unsupportedStatus is
// the status used for non-PDF uploads.
func writeError(c *gin.Context, err error, unsupportedStatus int) {
	var upstream *UpstreamError
	switch {
	case errors.Is(err, ErrValidation):
		respond.Error(c, http.StatusBadRequest, "validation_error", errorMessage(err, "Invalid request"))
	case errors.Is(err, ErrUnsupportedMedia):
		respond.Error(c, unsupportedStatus, "validation_error", errorMessage(err, "Only PDF files are allowed"))
	case errors.Is(err, ErrInvalidIdentifier):
		respond.Error(c, http.StatusBadRequest, "invalid_identifier", errorMessage(err, "Invalid resume ID format"))
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", errorMessage(err, "Resume not found"))
	case errors.Is(err, ErrPreconditionFailed):
		respond.Error(c, http.StatusBadRequest, "precondition_failed", errorMessage(err, "Resume is not ready for this operation"))
	case errors.As(err, &upstream):
		respond.Error(c, http.StatusInternalServerError, "upstream_error", upstream.Error())
	case errors.Is(err, context.Canceled):
		telemetry.Warn("request.cancelled", map[string]any{"path": c.Request.URL.Path})
		c.AbortWithStatus(http.StatusServiceUnavailable)
	default:
		telemetry.Error("resume.request_failed", map[string]any{
			"path":  c.Request.URL.Path,
			"error": err.Error(),
		})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

func errorMessage(err error, fallbackMsg string) string {
	var de *detailError
	if errors.As(err, &de) {
		return de.msg
	}
	return fallbackMsg
}
