package resumes

import (
	"context"
	"strconv"
	"sync"
	"time"

	"resume-manager/resume/model"
)

// MemoryRepo is an in-memory Repo. Data is lost on restart.
type MemoryRepo struct {
	mu       sync.RWMutex
	next     int
	order    []string
	resumes  map[string]Resume
	analyses map[string]Analysis // resume key -> analysis
	now      func() time.Time
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		resumes:  make(map[string]Resume),
		analyses: make(map[string]Analysis),
		now:      time.Now,
	}
}

// Backend reports BackendMemory.
func (r *MemoryRepo) Backend() Backend { return BackendMemory }

func (r *MemoryRepo) nextKey() string {
	r.next++
	return strconv.Itoa(r.next)
}

// CreateResume stores a new resume under the next decimal key.
func (r *MemoryRepo) CreateResume(ctx context.Context, filename, filePath, userID string, content *model.Content) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := r.nextKey()
	r.resumes[key] = Resume{
		ID:         key,
		UserID:     userID,
		Filename:   filename,
		FilePath:   filePath,
		Status:     initialStatus(content),
		Content:    cloneContent(content),
		UploadDate: r.now().UTC(),
	}
	r.order = append(r.order, key)
	return key, nil
}

// GetResume returns a copy of the stored resume.
func (r *MemoryRepo) GetResume(ctx context.Context, key string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.resumes[key]
	if !ok {
		return Resume{}, ErrNotFound
	}
	res.Content = cloneContent(res.Content)
	return res, nil
}

// UpdateResumeContent replaces the content and marks the resume parsed.
// Empty content is rejected so a parsed record always carries data.
func (r *MemoryRepo) UpdateResumeContent(ctx context.Context, key string, content model.Content) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if content.IsEmpty() {
		return false, errEmptyContent
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.resumes[key]
	if !ok {
		return false, nil
	}
	res.Content = cloneContent(&content)
	res.Status = StatusParsed
	r.resumes[key] = res
	return true, nil
}

// DeleteResume removes the resume and its analysis.
func (r *MemoryRepo) DeleteResume(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.resumes[key]; !ok {
		return false, nil
	}
	delete(r.resumes, key)
	delete(r.analyses, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// ListResumesByUser returns the user's resumes in insertion order.
func (r *MemoryRepo) ListResumesByUser(ctx context.Context, userID string) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Resume{}
	for _, key := range r.order {
		res := r.resumes[key]
		if res.UserID != userID {
			continue
		}
		res.Content = cloneContent(res.Content)
		out = append(out, res)
	}
	return out, nil
}

// SaveAnalysis upserts the analysis for resumeKey, keeping its ID stable.
func (r *MemoryRepo) SaveAnalysis(ctx context.Context, resumeKey string, result model.AnalysisResult, source string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.resumes[resumeKey]; !ok {
		return "", ErrNotFound
	}
	id := ""
	if prev, ok := r.analyses[resumeKey]; ok {
		id = prev.ID
	} else {
		id = r.nextKey()
	}
	r.analyses[resumeKey] = Analysis{
		ID:        id,
		ResumeID:  resumeKey,
		Result:    cloneResult(result),
		Source:    source,
		CreatedAt: r.now().UTC(),
	}
	return id, nil
}

// GetAnalysis returns the analysis stored for resumeKey.
func (r *MemoryRepo) GetAnalysis(ctx context.Context, resumeKey string) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.analyses[resumeKey]
	if !ok {
		return Analysis{}, withDetail(ErrNotFound, "Analysis not found")
	}
	a.Result = cloneResult(a.Result)
	return a, nil
}

func cloneContent(c *model.Content) *model.Content {
	if c == nil {
		return nil
	}
	out := c.Clone()
	return &out
}

func cloneResult(a model.AnalysisResult) model.AnalysisResult {
	a.Strengths = append([]string(nil), a.Strengths...)
	a.AreasForImprovement = append([]string(nil), a.AreasForImprovement...)
	a.Suggestions = append([]string(nil), a.Suggestions...)
	return a.Normalize()
}
