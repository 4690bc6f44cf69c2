package resumes

import (
	"time"

	"resume-manager/resume/model"
)

// ResumeResponse is the outward-facing representation of a resume.
type ResumeResponse struct {
	ID         string         `json:"_id"`
	ResumeID   string         `json:"resume_id"`
	UserID     string         `json:"user_id"`
	Filename   string         `json:"filename"`
	FilePath   string         `json:"filepath"`
	Status     Status         `json:"status"`
	Content    *model.Content `json:"content"`
	UploadDate time.Time      `json:"upload_date"`
}

func toResumeResponse(r Resume) ResumeResponse {
	return ResumeResponse{
		ID:         r.ID,
		ResumeID:   r.ID,
		UserID:     r.UserID,
		Filename:   r.Filename,
		FilePath:   r.FilePath,
		Status:     r.Status,
		Content:    r.Content,
		UploadDate: r.UploadDate,
	}
}

// AnalysisResponse is the outward-facing representation of an analysis.
type AnalysisResponse struct {
	ID        string               `json:"_id"`
	ResumeID  string               `json:"resume_id"`
	Analysis  model.AnalysisResult `json:"analysis"`
	Source    string               `json:"source"`
	CreatedAt time.Time            `json:"created_at"`
}

func toAnalysisResponse(a Analysis) AnalysisResponse {
	return AnalysisResponse{
		ID:        a.ID,
		ResumeID:  a.ResumeID,
		Analysis:  a.Result,
		Source:    a.Source,
		CreatedAt: a.CreatedAt,
	}
}

type uploadResponse struct {
	ResumeID   string         `json:"resume_id"`
	Filename   string         `json:"filename"`
	UserID     string         `json:"user_id"`
	FileType   string         `json:"file_type"`
	Status     Status         `json:"status"`
	ParsedData *model.Content `json:"parsed_data"`
}

type parseResponse struct {
	ResumeID string        `json:"resume_id"`
	Content  model.Content `json:"content"`
	Message  string        `json:"message"`
}

type analyzeResponse struct {
	ResumeID   string               `json:"resume_id"`
	AnalysisID string               `json:"analysis_id"`
	Analysis   model.AnalysisResult `json:"analysis"`
}

type legacyUploadResponse struct {
	ResumeID      string                `json:"resume_id"`
	ParsedContent *model.Content        `json:"parsed_content"`
	Analysis      *model.AnalysisResult `json:"analysis"`
}

type updateContentRequest struct {
	Content *model.Content `json:"content"`
}

type optimizeRequest struct {
	SectionKey     string `json:"sectionKey"`
	CurrentContent string `json:"currentContent"`
	JobTitle       string `json:"jobTitle"`
	ItemIndex      *int   `json:"itemIndex"`
}

type optimizeResponse struct {
	OriginalContent  string `json:"originalContent"`
	OptimizedContent string `json:"optimizedContent"`
}
