package resumes

import (
	"time"

	"resume-manager/resume/model"
)

// Status is the lifecycle state of a stored resume.
type Status string

const (
	StatusUploaded Status = "uploaded"
	StatusParsed   Status = "parsed"
)

// Sources recorded on analyses and reported in fallback meta.
const (
	SourceOpenAI   = "openai"
	SourceFallback = "fallback"
)

// Resume is one uploaded resume. Content is nil until parsing succeeds.
type Resume struct {
	ID         string
	UserID     string
	Filename   string
	FilePath   string
	Status     Status
	Content    *model.Content
	UploadDate time.Time
}

// Parsed reports whether the resume carries usable structured content.
func (r Resume) Parsed() bool {
	return r.Status == StatusParsed && r.Content != nil && !r.Content.IsEmpty()
}

// ContentOrEmpty returns the content, or an empty value when unparsed.
func (r Resume) ContentOrEmpty() model.Content {
	if r.Content == nil {
		return model.Content{}
	}
	return *r.Content
}

// Analysis is the stored assessment of one resume.
type Analysis struct {
	ID        string
	ResumeID  string
	Result    model.AnalysisResult
	Source    string
	CreatedAt time.Time
}
