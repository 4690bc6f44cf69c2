package resumes

import (
	"context"

	"resume-manager/resume/model"
)

// Repo persists resumes and their analyses. Keys passed in must already be
// normalized for Backend().
type Repo interface {
	CreateResume(ctx context.Context, filename, filePath, userID string, content *model.Content) (string, error)
	GetResume(ctx context.Context, key string) (Resume, error)
	UpdateResumeContent(ctx context.Context, key string, content model.Content) (bool, error)
	DeleteResume(ctx context.Context, key string) (bool, error)
	ListResumesByUser(ctx context.Context, userID string) ([]Resume, error)
	SaveAnalysis(ctx context.Context, resumeKey string, result model.AnalysisResult, source string) (string, error)
	GetAnalysis(ctx context.Context, resumeKey string) (Analysis, error)
	Backend() Backend
}

// errEmptyContent is returned by UpdateResumeContent for content with no data.
var errEmptyContent = withDetail(ErrValidation, "Content is required")

func initialStatus(content *model.Content) Status {
	if content != nil && !content.IsEmpty() {
		return StatusParsed
	}
	return StatusUploaded
}
