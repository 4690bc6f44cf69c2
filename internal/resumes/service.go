package resumes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"resume-manager/internal/fallback"
	"resume-manager/internal/llm"
	"resume-manager/internal/shared/metrics"
	"resume-manager/internal/shared/storage/object"
	"resume-manager/internal/shared/telemetry"
	"resume-manager/internal/shared/util"
	"resume-manager/resume/model"
)

// Pipeline stages, used as metric labels and log fields.
const (
	StageParse          = "parse"
	StageAnalyze        = "analyze"
	StageJobSuggestions = "job_suggestions"
	StageKeywords       = "extract_keywords"
	StageContentString  = "content_string"
	StageOptimize       = "optimize"
)

// TextExtractor pulls plain text out of an uploaded document.
type TextExtractor interface {
	Text(ctx context.Context, data []byte) (string, error)
}

// PDFRenderer turns structured content into a PDF document.
type PDFRenderer interface {
	Render(ctx context.Context, content model.Content) ([]byte, error)
}

// Service runs the resume pipeline. Each AI-backed stage tries the gateway
// first and falls back to a deterministic generator.
type Service struct {
	Repo      Repo
	Store     object.ObjectStore
	Gateway   *llm.Gateway
	Extractor TextExtractor
	Renderer  PDFRenderer
}

// Sourced is a stage output together with where it came from.
type Sourced[T any] struct {
	Value  T
	Source string
	Reason string
}

// Fallback reports whether a fallback generator produced Value.
func (s Sourced[T]) Fallback() bool { return s.Source == SourceFallback }

// runStage tries call through g and substitutes alt() when the gateway is
// unavailable or fails. A cancelled request yields an error instead.
func runStage[T any](ctx context.Context, g *llm.Gateway, stage, resumeID string, call func(context.Context) (T, error), alt func() T) (Sourced[T], error) {
	res := llm.Attempt(ctx, g, call)
	switch res.Verdict {
	case llm.VerdictOK:
		metrics.IncStage(stage, metrics.OutcomePrimary)
		return Sourced[T]{Value: res.Value, Source: SourceOpenAI}, nil
	case llm.VerdictFallback:
		metrics.IncStage(stage, metrics.OutcomeFallback)
		fields := map[string]any{
			"stage":     stage,
			"resume_id": resumeID,
			"reason":    res.Reason,
		}
		if res.Err != nil && !errors.Is(res.Err, llm.ErrUnavailable) {
			fields["error"] = res.Err.Error()
		}
		telemetry.Warn("pipeline.fallback", fields)
		return Sourced[T]{Value: alt(), Source: SourceFallback, Reason: res.Reason}, nil
	default:
		metrics.IncStage(stage, metrics.OutcomeError)
		return Sourced[T]{}, res.Err
	}
}

// UploadInput is one uploaded file.
type UploadInput struct {
	Filename string
	UserID   string
	Data     []byte
}

// UploadResult describes a stored upload.
type UploadResult struct {
	Resume Resume
	Parse  Sourced[model.Content]
}

// Upload validates, stores and parses a PDF in one step.
func (s *Service) Upload(ctx context.Context, in UploadInput) (UploadResult, error) {
	in.UserID = strings.TrimSpace(in.UserID)
	if in.UserID == "" {
		return UploadResult{}, withDetail(ErrValidation, "user_id is required")
	}
	if strings.TrimSpace(in.Filename) == "" {
		return UploadResult{}, withDetail(ErrValidation, "No selected file")
	}
	if !strings.EqualFold(filepath.Ext(in.Filename), ".pdf") {
		return UploadResult{}, withDetail(ErrUnsupportedMedia, "Only PDF files are allowed")
	}
	filename, err := util.SanitizeFileName(filepath.Base(in.Filename))
	if err != nil {
		return UploadResult{}, withDetail(ErrValidation, "Invalid file name")
	}

	parsed, err := s.parseDocument(ctx, "", in.Data)
	if err != nil {
		return UploadResult{}, err
	}

	key, _, _, err := s.Store.Save(ctx, in.UserID, filename, bytes.NewReader(in.Data))
	if err != nil {
		return UploadResult{}, fmt.Errorf("store upload: %w", err)
	}

	var content *model.Content
	if !parsed.Value.IsEmpty() {
		content = &parsed.Value
	}
	id, err := s.Repo.CreateResume(ctx, filename, key, in.UserID, content)
	if err != nil {
		if delErr := s.Store.Delete(ctx, key); delErr != nil {
			telemetry.Warn("upload.cleanup_failed", map[string]any{"file_path": key, "error": delErr.Error()})
		}
		return UploadResult{}, fmt.Errorf("create resume: %w", err)
	}

	res, err := s.Repo.GetResume(ctx, id)
	if err != nil {
		return UploadResult{}, fmt.Errorf("reload resume: %w", err)
	}
	telemetry.Info("resume.uploaded", map[string]any{
		"resume_id": id,
		"user_id":   in.UserID,
		"status":    string(res.Status),
		"source":    parsed.Source,
	})
	return UploadResult{Resume: res, Parse: parsed}, nil
}

// parseDocument extracts text and structures it. Documents with no
// extractable text yield empty content without consulting the gateway.
func (s *Service) parseDocument(ctx context.Context, resumeID string, data []byte) (Sourced[model.Content], error) {
	text, err := s.Extractor.Text(ctx, data)
	if err != nil {
		return Sourced[model.Content]{}, withDetail(ErrUnsupportedMedia, "Only PDF files are allowed")
	}
	if strings.TrimSpace(text) == "" {
		return Sourced[model.Content]{}, nil
	}
	return runStage(ctx, s.Gateway, StageParse, resumeID,
		func(ctx context.Context) (model.Content, error) { return s.Gateway.ExtractStructured(ctx, text) },
		func() model.Content { return fallback.ParseText(text) },
	)
}

// ParseResult describes a parse request.
type ParseResult struct {
	ResumeID      string
	AlreadyParsed bool
	Content       Sourced[model.Content]
}

// Parse structures a stored resume that has not been parsed yet.
func (s *Service) Parse(ctx context.Context, rawID string) (ParseResult, error) {
	res, err := s.load(ctx, rawID)
	if err != nil {
		return ParseResult{}, err
	}
	if res.Parsed() {
		return ParseResult{
			ResumeID:      res.ID,
			AlreadyParsed: true,
			Content:       Sourced[model.Content]{Value: *res.Content},
		}, nil
	}

	data, err := s.readStored(ctx, res)
	if err != nil {
		return ParseResult{}, err
	}
	parsed, err := s.parseDocument(ctx, res.ID, data)
	if err != nil {
		return ParseResult{}, err
	}
	if parsed.Value.IsEmpty() {
		return ParseResult{}, withDetail(ErrPreconditionFailed, "No text could be extracted from the resume")
	}
	ok, err := s.Repo.UpdateResumeContent(ctx, res.ID, parsed.Value)
	if err != nil {
		return ParseResult{}, fmt.Errorf("update resume content: %w", err)
	}
	if !ok {
		return ParseResult{}, ErrNotFound
	}
	return ParseResult{ResumeID: res.ID, Content: parsed}, nil
}

// AnalyzeResult is a stored analysis plus its provenance.
type AnalyzeResult struct {
	ResumeID   string
	AnalysisID string
	Analysis   Sourced[model.AnalysisResult]
}

// Analyze assesses parsed content and upserts the analysis.
func (s *Service) Analyze(ctx context.Context, rawID string) (AnalyzeResult, error) {
	res, err := s.load(ctx, rawID)
	if err != nil {
		return AnalyzeResult{}, err
	}
	return s.analyze(ctx, res)
}

func (s *Service) analyze(ctx context.Context, res Resume) (AnalyzeResult, error) {
	if !res.Parsed() {
		return AnalyzeResult{}, withDetail(ErrPreconditionFailed, "Resume has not been parsed yet")
	}
	content := *res.Content
	out, err := runStage(ctx, s.Gateway, StageAnalyze, res.ID,
		func(ctx context.Context) (model.AnalysisResult, error) { return s.Gateway.Analyze(ctx, content) },
		func() model.AnalysisResult { return fallback.Analysis(content) },
	)
	if err != nil {
		return AnalyzeResult{}, err
	}
	out.Value = out.Value.Normalize()
	analysisID, err := s.Repo.SaveAnalysis(ctx, res.ID, out.Value, out.Source)
	if err != nil {
		return AnalyzeResult{}, fmt.Errorf("save analysis: %w", err)
	}
	return AnalyzeResult{ResumeID: res.ID, AnalysisID: analysisID, Analysis: out}, nil
}

// UploadAndAnalyze is the one-shot flow: upload, parse and analyze. The
// analysis is skipped when nothing could be parsed.
func (s *Service) UploadAndAnalyze(ctx context.Context, in UploadInput) (UploadResult, *AnalyzeResult, error) {
	up, err := s.Upload(ctx, in)
	if err != nil {
		return UploadResult{}, nil, err
	}
	if !up.Resume.Parsed() {
		return up, nil, nil
	}
	analysis, err := s.analyze(ctx, up.Resume)
	if err != nil {
		return up, nil, err
	}
	return up, &analysis, nil
}

// List returns a user's resumes.
func (s *Service) List(ctx context.Context, userID string) ([]Resume, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, withDetail(ErrValidation, "user_id parameter is required")
	}
	return s.Repo.ListResumesByUser(ctx, userID)
}

// Get returns one resume.
func (s *Service) Get(ctx context.Context, rawID string) (Resume, error) {
	return s.load(ctx, rawID)
}

// GetAnalysis returns the stored analysis for a resume.
func (s *Service) GetAnalysis(ctx context.Context, rawID string) (Analysis, error) {
	key, err := NormalizeKey(s.Repo.Backend(), rawID)
	if err != nil {
		return Analysis{}, err
	}
	return s.Repo.GetAnalysis(ctx, key)
}

// JobSuggestions recommends roles from a resume and its analysis.
func (s *Service) JobSuggestions(ctx context.Context, rawID string) (string, Sourced[[]model.JobSuggestion], error) {
	var zero Sourced[[]model.JobSuggestion]
	key, err := NormalizeKey(s.Repo.Backend(), rawID)
	if err != nil {
		return "", zero, err
	}
	res, err := s.Repo.GetResume(ctx, key)
	if err != nil {
		return "", zero, missingAnalysis(err)
	}
	analysis, err := s.Repo.GetAnalysis(ctx, key)
	if err != nil {
		return "", zero, missingAnalysis(err)
	}

	content := res.ContentOrEmpty()
	out, err := runStage(ctx, s.Gateway, StageJobSuggestions, key,
		func(ctx context.Context) ([]model.JobSuggestion, error) {
			return s.Gateway.SuggestJobs(ctx, content, analysis.Result)
		},
		func() []model.JobSuggestion { return fallback.JobSuggestions(content.Indented()) },
	)
	return key, out, err
}

func missingAnalysis(err error) error {
	if errors.Is(err, ErrNotFound) {
		return withDetail(ErrNotFound, "Resume or analysis not found")
	}
	return err
}

// Keywords extracts job-matching keywords.
func (s *Service) Keywords(ctx context.Context, rawID string) (string, Sourced[[]string], error) {
	res, err := s.load(ctx, rawID)
	if err != nil {
		return "", Sourced[[]string]{}, err
	}
	content := res.ContentOrEmpty()
	out, err := runStage(ctx, s.Gateway, StageKeywords, res.ID,
		func(ctx context.Context) ([]string, error) { return s.Gateway.ExtractKeywords(ctx, content) },
		func() []string { return fallback.Keywords(content.Indented()) },
	)
	return res.ID, out, err
}

// ContentString flattens a resume into one matching string.
func (s *Service) ContentString(ctx context.Context, rawID string) (string, Sourced[string], error) {
	res, err := s.load(ctx, rawID)
	if err != nil {
		return "", Sourced[string]{}, err
	}
	content := res.ContentOrEmpty()
	out, err := runStage(ctx, s.Gateway, StageContentString, res.ID,
		func(ctx context.Context) (string, error) { return s.Gateway.Summarize(ctx, content) },
		func() string { return fallback.ContentString(content) },
	)
	return res.ID, out, err
}

// OptimizeInput is a snippet rewrite request.
type OptimizeInput struct {
	SectionKey     string
	CurrentContent string
	JobTitle       string
	ItemIndex      *int
}

// Optimize rewrites one section or bullet. There is no fallback: a missing
// or failing gateway is reported as an *UpstreamError.
func (s *Service) Optimize(ctx context.Context, rawID string, in OptimizeInput) (string, error) {
	if strings.TrimSpace(in.SectionKey) == "" {
		return "", withDetail(ErrValidation, "Missing required field: sectionKey")
	}
	if strings.TrimSpace(in.CurrentContent) == "" {
		return "", withDetail(ErrValidation, "Missing required field: currentContent")
	}
	res, err := s.load(ctx, rawID)
	if err != nil {
		return "", err
	}

	out := llm.Attempt(ctx, s.Gateway, func(ctx context.Context) (string, error) {
		return s.Gateway.OptimizeSnippet(ctx, llm.OptimizeInput{
			SectionKey:     in.SectionKey,
			CurrentContent: in.CurrentContent,
			JobTitle:       in.JobTitle,
			ItemIndex:      in.ItemIndex,
		})
	})
	switch out.Verdict {
	case llm.VerdictOK:
		metrics.IncStage(StageOptimize, metrics.OutcomePrimary)
		return out.Value, nil
	case llm.VerdictError:
		metrics.IncStage(StageOptimize, metrics.OutcomeError)
		return "", out.Err
	default:
		metrics.IncStage(StageOptimize, metrics.OutcomeError)
		upErr := &UpstreamError{Stage: StageOptimize, Err: out.Err, Unavailable: errors.Is(out.Err, llm.ErrUnavailable)}
		telemetry.Error("pipeline.upstream_failed", map[string]any{
			"stage":     StageOptimize,
			"resume_id": res.ID,
			"error":     upErr.Error(),
		})
		return "", upErr
	}
}

// UpdateContent replaces a resume's content with edited data.
func (s *Service) UpdateContent(ctx context.Context, rawID string, content *model.Content) (string, error) {
	if content == nil || content.IsEmpty() {
		return "", withDetail(ErrValidation, "Content is required")
	}
	res, err := s.load(ctx, rawID)
	if err != nil {
		return "", err
	}
	ok, err := s.Repo.UpdateResumeContent(ctx, res.ID, *content)
	if err != nil {
		return "", fmt.Errorf("update resume content: %w", err)
	}
	if !ok {
		return "", ErrNotFound
	}
	return res.ID, nil
}

// Delete removes a resume and, best effort, its stored file.
func (s *Service) Delete(ctx context.Context, rawID string) error {
	key, err := NormalizeKey(s.Repo.Backend(), rawID)
	if err != nil {
		return err
	}
	res, err := s.Repo.GetResume(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return withDetail(ErrNotFound, "Resume not found or could not be deleted")
		}
		return err
	}
	ok, err := s.Repo.DeleteResume(ctx, key)
	if err != nil {
		return fmt.Errorf("delete resume: %w", err)
	}
	if !ok {
		return withDetail(ErrNotFound, "Resume not found or could not be deleted")
	}
	if res.FilePath != "" {
		if err := s.Store.Delete(ctx, res.FilePath); err != nil {
			telemetry.Warn("resume.file_delete_failed", map[string]any{
				"resume_id": key,
				"file_path": res.FilePath,
				"error":     err.Error(),
			})
		}
	}
	return nil
}

// Download opens the original uploaded file. The caller closes the reader.
func (s *Service) Download(ctx context.Context, rawID string) (io.ReadCloser, string, error) {
	res, err := s.load(ctx, rawID)
	if err != nil {
		return nil, "", err
	}
	rc, err := s.openStored(ctx, res)
	if err != nil {
		return nil, "", err
	}
	return rc, "optimized_" + res.Filename, nil
}

// GeneratePDF renders parsed content into a fresh PDF.
func (s *Service) GeneratePDF(ctx context.Context, rawID string) ([]byte, string, error) {
	res, err := s.load(ctx, rawID)
	if err != nil {
		return nil, "", err
	}
	if !res.Parsed() {
		return nil, "", withDetail(ErrPreconditionFailed, "Resume content not parsed")
	}
	data, err := s.Renderer.Render(ctx, *res.Content)
	if err != nil {
		return nil, "", fmt.Errorf("render pdf: %w", err)
	}
	return data, "resume_" + res.ID + ".pdf", nil
}

func (s *Service) load(ctx context.Context, rawID string) (Resume, error) {
	key, err := NormalizeKey(s.Repo.Backend(), rawID)
	if err != nil {
		return Resume{}, err
	}
	return s.Repo.GetResume(ctx, key)
}

func (s *Service) openStored(ctx context.Context, res Resume) (io.ReadCloser, error) {
	if res.FilePath == "" {
		return nil, withDetail(ErrNotFound, "Resume file not found")
	}
	rc, err := s.Store.Open(ctx, res.FilePath)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return nil, withDetail(ErrNotFound, "Resume file not found")
		}
		return nil, fmt.Errorf("open stored file: %w", err)
	}
	return rc, nil
}

func (s *Service) readStored(ctx context.Context, res Resume) ([]byte, error) {
	rc, err := s.openStored(ctx, res)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read stored file: %w", err)
	}
	return data, nil
}
