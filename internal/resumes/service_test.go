package resumes

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-manager/internal/fallback"
	"resume-manager/internal/llm"
	"resume-manager/internal/shared/metrics"
	"resume-manager/resume/model"
)

func upload(t *testing.T, svc *Service) UploadResult {
	t.Helper()
	out, err := svc.Upload(context.Background(), UploadInput{Filename: "resume.pdf", UserID: "u1", Data: []byte("%PDF-1.4 body")})
	require.NoError(t, err)
	return out
}

func TestUploadValidation(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.Upload(ctx, UploadInput{Filename: "resume.pdf", Data: []byte("x")})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "user_id is required", err.Error())

	_, err = svc.Upload(ctx, UploadInput{Filename: "resume.docx", UserID: "u1", Data: []byte("x")})
	assert.ErrorIs(t, err, ErrUnsupportedMedia)

	_, err = svc.Upload(ctx, UploadInput{Filename: "", UserID: "u1"})
	assert.ErrorIs(t, err, ErrValidation)

	svc.Extractor = stubExtractor{err: errors.New("not a pdf")}
	_, err = svc.Upload(ctx, UploadInput{Filename: "fake.pdf", UserID: "u1", Data: []byte("text")})
	assert.ErrorIs(t, err, ErrUnsupportedMedia)
}

func TestUploadWithoutGatewayUsesParseFallback(t *testing.T) {
	svc, _ := newTestService(t, nil)

	out := upload(t, svc)
	assert.True(t, out.Parse.Fallback())
	assert.Equal(t, llm.ReasonUnavailable, out.Parse.Reason)
	assert.Equal(t, StatusParsed, out.Resume.Status)
	assert.Equal(t, "Jane Doe", out.Resume.Content.PersonalInfo.Name)

	got, err := svc.Get(context.Background(), out.Resume.ID)
	require.NoError(t, err)
	assert.Equal(t, out.Resume.Content, got.Content)

	rc, name, err := svc.Download(context.Background(), out.Resume.ID)
	require.NoError(t, err)
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "%PDF-1.4 body", string(data))
	assert.Equal(t, "optimized_resume.pdf", name)
}

func TestUploadUsesModelWhenAvailable(t *testing.T) {
	client := &scriptedClient{replies: map[llm.Task]string{
		llm.TaskExtractStructured: `{"personal_info": {"name": "Jane Model"}, "summary": "From the model"}`,
	}}
	svc, _ := newTestService(t, client)

	out := upload(t, svc)
	assert.False(t, out.Parse.Fallback())
	assert.Equal(t, SourceOpenAI, out.Parse.Source)
	assert.Equal(t, "Jane Model", out.Resume.Content.PersonalInfo.Name)
}

func TestUploadWithoutTextStaysUploaded(t *testing.T) {
	svc, _ := newTestService(t, nil)
	svc.Extractor = stubExtractor{text: "   "}

	out := upload(t, svc)
	assert.Equal(t, StatusUploaded, out.Resume.Status)
	assert.False(t, out.Parse.Fallback())

	_, err := svc.Analyze(context.Background(), out.Resume.ID)
	assert.ErrorIs(t, err, ErrPreconditionFailed)
	assert.Equal(t, "Resume has not been parsed yet", err.Error())

	_, err = svc.Parse(context.Background(), out.Resume.ID)
	assert.ErrorIs(t, err, ErrPreconditionFailed)

	_, _, err = svc.GeneratePDF(context.Background(), out.Resume.ID)
	assert.ErrorIs(t, err, ErrPreconditionFailed)
}

func TestParseReadsStoredFile(t *testing.T) {
	svc, repo := newTestService(t, nil)
	svc.Extractor = stubExtractor{text: ""}
	out := upload(t, svc)
	require.Equal(t, StatusUploaded, out.Resume.Status)

	svc.Extractor = stubExtractor{text: sampleText}
	parsed, err := svc.Parse(context.Background(), out.Resume.ID)
	require.NoError(t, err)
	assert.False(t, parsed.AlreadyParsed)
	assert.True(t, parsed.Content.Fallback())

	stored, err := repo.GetResume(context.Background(), out.Resume.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusParsed, stored.Status)

	again, err := svc.Parse(context.Background(), out.Resume.ID)
	require.NoError(t, err)
	assert.True(t, again.AlreadyParsed)
}

func TestAnalyzeFallbackAndUpsert(t *testing.T) {
	svc, _ := newTestService(t, nil)
	out := upload(t, svc)
	before := metrics.StageCount(StageAnalyze, metrics.OutcomeFallback)

	first, err := svc.Analyze(context.Background(), out.Resume.ID)
	require.NoError(t, err)
	assert.True(t, first.Analysis.Fallback())
	assert.GreaterOrEqual(t, first.Analysis.Value.OverallScore, 0)
	assert.LessOrEqual(t, first.Analysis.Value.OverallScore, 100)
	assert.Equal(t, before+1, metrics.StageCount(StageAnalyze, metrics.OutcomeFallback))

	second, err := svc.Analyze(context.Background(), out.Resume.ID)
	require.NoError(t, err)
	assert.Equal(t, first.AnalysisID, second.AnalysisID)

	stored, err := svc.GetAnalysis(context.Background(), out.Resume.ID)
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, stored.Source)
}

func TestAnalyzeUsesModel(t *testing.T) {
	client := &scriptedClient{replies: map[llm.Task]string{
		llm.TaskExtractStructured: `{"personal_info": {"name": "Jane"}, "summary": "s"}`,
		llm.TaskAnalyze:           `{"overall_score": 87, "strengths": ["focus"], "ats_compatibility": {"score": 70, "comments": "ok"}}`,
	}}
	svc, _ := newTestService(t, client)
	out := upload(t, svc)

	res, err := svc.Analyze(context.Background(), out.Resume.ID)
	require.NoError(t, err)
	assert.Equal(t, SourceOpenAI, res.Analysis.Source)
	assert.Equal(t, 87, res.Analysis.Value.OverallScore)
}

func TestJobSuggestionsNeedAnalysis(t *testing.T) {
	svc, _ := newTestService(t, nil)
	out := upload(t, svc)

	_, _, err := svc.JobSuggestions(context.Background(), out.Resume.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Resume or analysis not found", err.Error())

	_, err = svc.Analyze(context.Background(), out.Resume.ID)
	require.NoError(t, err)

	id, jobs, err := svc.JobSuggestions(context.Background(), out.Resume.ID)
	require.NoError(t, err)
	assert.Equal(t, out.Resume.ID, id)
	assert.True(t, jobs.Fallback())
	assert.Equal(t, llm.ReasonUnavailable, jobs.Reason)
	assert.Len(t, jobs.Value, fallback.JobLimit)
}

func TestCallTimeFailureFallsBackWithAPIError(t *testing.T) {
	client := &scriptedClient{replies: map[llm.Task]string{
		llm.TaskExtractStructured: `{"personal_info": {"name": "Jane"}, "summary": "Python and data work"}`,
	}}
	svc, _ := newTestService(t, client)
	out := upload(t, svc)

	_, kw, err := svc.Keywords(context.Background(), out.Resume.ID)
	require.NoError(t, err)
	assert.True(t, kw.Fallback())
	assert.Equal(t, llm.ReasonAPIError, kw.Reason)
	assert.Contains(t, kw.Value, "python")

	_, str, err := svc.ContentString(context.Background(), out.Resume.ID)
	require.NoError(t, err)
	assert.Equal(t, llm.ReasonAPIError, str.Reason)
	assert.Contains(t, str.Value, "Python and data work")
}

func TestOptimizeHasNoFallback(t *testing.T) {
	svc, _ := newTestService(t, nil)
	out := upload(t, svc)
	ctx := context.Background()

	_, err := svc.Optimize(ctx, out.Resume.ID, OptimizeInput{SectionKey: "summary"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Missing required field: currentContent", err.Error())

	_, err = svc.Optimize(ctx, out.Resume.ID, OptimizeInput{SectionKey: "summary", CurrentContent: "text"})
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.True(t, upstream.Unavailable)
	assert.Equal(t, "OpenAI client not available", err.Error())

	svc.Gateway = llm.NewGateway(&scriptedClient{err: errors.New("boom")})
	_, err = svc.Optimize(ctx, out.Resume.ID, OptimizeInput{SectionKey: "summary", CurrentContent: "text"})
	require.ErrorAs(t, err, &upstream)
	assert.False(t, upstream.Unavailable)
	assert.Contains(t, err.Error(), "OpenAI API error:")
	assert.Contains(t, err.Error(), "boom")
}

func TestOptimizeKeepsBulletMarker(t *testing.T) {
	svc, _ := newTestService(t, &scriptedClient{replies: map[llm.Task]string{
		llm.TaskExtractStructured: `{"summary": "s"}`,
		llm.TaskOptimizeSnippet:   "Shipped 3 services",
	}})
	out := upload(t, svc)
	idx := 0

	got, err := svc.Optimize(context.Background(), out.Resume.ID, OptimizeInput{
		SectionKey:     "experience",
		CurrentContent: "- shipped services",
		ItemIndex:      &idx,
	})
	require.NoError(t, err)
	assert.Equal(t, "- Shipped 3 services", got)
}

func TestUpdateContentRoundTrip(t *testing.T) {
	svc, _ := newTestService(t, nil)
	out := upload(t, svc)
	edited := sampleContent()
	edited.Summary = "Edited summary"

	id, err := svc.UpdateContent(context.Background(), out.Resume.ID, &edited)
	require.NoError(t, err)
	assert.Equal(t, out.Resume.ID, id)

	got, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, edited, *got.Content)

	_, err = svc.UpdateContent(context.Background(), out.Resume.ID, &model.Content{})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.UpdateContent(context.Background(), "404", &edited)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteTwiceAndRemovesFile(t *testing.T) {
	svc, _ := newTestService(t, nil)
	out := upload(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, out.Resume.ID))
	err := svc.Delete(ctx, out.Resume.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Store.Open(ctx, out.Resume.FilePath)
	assert.Error(t, err)
}

func TestGeneratePDF(t *testing.T) {
	svc, _ := newTestService(t, nil)
	renderer := &stubRenderer{}
	svc.Renderer = renderer
	out := upload(t, svc)

	data, name, err := svc.GeneratePDF(context.Background(), out.Resume.ID)
	require.NoError(t, err)
	assert.Equal(t, "resume_"+out.Resume.ID+".pdf", name)
	assert.Contains(t, string(data), "%PDF")
	require.NotNil(t, renderer.got)
	assert.Equal(t, "Jane Doe", renderer.got.PersonalInfo.Name)
}

func TestPostgresKeysAreValidatedBeforeLookup(t *testing.T) {
	svc, repo := newTestService(t, nil)
	svc.Repo = postgresKeyed{repo}

	_, err := svc.Get(context.Background(), "12")
	assert.ErrorIs(t, err, ErrInvalidIdentifier)

	_, err = svc.Get(context.Background(), "6f9619ff-8b86-d011-b42d-00c04fc964ff")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelledRequestProducesNoFallback(t *testing.T) {
	svc, _ := newTestService(t, &scriptedClient{err: context.Canceled})
	svc.Extractor = stubExtractor{text: sampleText}

	_, err := svc.Upload(context.Background(), UploadInput{Filename: "resume.pdf", UserID: "u1", Data: []byte("x")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUploadAndAnalyze(t *testing.T) {
	svc, _ := newTestService(t, nil)

	up, analysis, err := svc.UploadAndAnalyze(context.Background(), UploadInput{Filename: "resume.pdf", UserID: "u1", Data: []byte("x")})
	require.NoError(t, err)
	require.NotNil(t, analysis)
	assert.Equal(t, up.Resume.ID, analysis.ResumeID)

	svc.Extractor = stubExtractor{text: ""}
	_, analysis, err = svc.UploadAndAnalyze(context.Background(), UploadInput{Filename: "blank.pdf", UserID: "u1", Data: []byte("x")})
	require.NoError(t, err)
	assert.Nil(t, analysis)
}
