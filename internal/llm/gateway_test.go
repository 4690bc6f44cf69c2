package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-manager/resume/model"
)

type fakeClient struct {
	reply string
	err   error
	reqs  []Request
}

func (f *fakeClient) Complete(ctx context.Context, req Request) (string, error) {
	f.reqs = append(f.reqs, req)
	return f.reply, f.err
}

func TestGatewayUnavailable(t *testing.T) {
	g := NewGateway(nil)
	assert.False(t, g.Available())

	_, err := g.ExtractKeywords(context.Background(), model.Content{})
	assert.ErrorIs(t, err, ErrUnavailable)

	var nilGateway *Gateway
	assert.False(t, nilGateway.Available())
}

func TestExtractStructured(t *testing.T) {
	fc := &fakeClient{reply: `{"personal_info":{"name":"Ada"},"experience":[{"company":"X","position":"Dev"}]}`}
	g := NewGateway(fc)

	content, err := g.ExtractStructured(context.Background(), "Ada\nDev at X")
	require.NoError(t, err)
	assert.Equal(t, "Ada", content.PersonalInfo.Name)
	require.Len(t, content.WorkExperience, 1)

	require.Len(t, fc.reqs, 1)
	assert.Equal(t, TaskExtractStructured, fc.reqs[0].Task)
	assert.Equal(t, FormatJSON, fc.reqs[0].Format)
	assert.Contains(t, fc.reqs[0].User, "Dev at X")
}

func TestExtractStructuredRejectsEmpty(t *testing.T) {
	g := NewGateway(&fakeClient{reply: `{}`})
	_, err := g.ExtractStructured(context.Background(), "text")
	assert.Error(t, err)
}

func TestAnalyzeClampsScores(t *testing.T) {
	g := NewGateway(&fakeClient{reply: `{"overall_score": 120, "strengths": ["clear"], "ats_compatibility": {"score": -5, "comments": "ok"}}`})
	res, err := g.Analyze(context.Background(), model.Content{Summary: "s"})
	require.NoError(t, err)
	assert.Equal(t, 100, res.OverallScore)
	assert.Equal(t, 0, res.ATSCompatibility.Score)
	assert.Equal(t, []string{"clear"}, res.Strengths)
	assert.NotNil(t, res.Suggestions)
}

func TestSuggestJobsShapes(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  int
		err   bool
	}{
		{name: "wrapped", reply: `{"job_suggestions":[{"job_title":"Go Dev"},{"job_title":"SRE"}]}`, want: 2},
		{name: "other key", reply: `{"roles":[{"job_title":"Go Dev"}]}`, want: 1},
		{name: "bare array", reply: `[{"job_title":"Go Dev"},{"job_title":""}]`, want: 1},
		{name: "no titles", reply: `{"job_suggestions":[{"salary_range":"x"}]}`, err: true},
		{name: "not json", reply: `nope`, err: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			g := NewGateway(&fakeClient{reply: tt.reply})
			got, err := g.SuggestJobs(context.Background(), model.Content{}, model.AnalysisResult{})
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestExtractKeywordsDedupes(t *testing.T) {
	g := NewGateway(&fakeClient{reply: `{"keywords":["Go"," go ","SQL",""]}`})
	got, err := g.ExtractKeywords(context.Background(), model.Content{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "SQL"}, got)
}

func TestOptimizeSnippetPreservesBullet(t *testing.T) {
	fc := &fakeClient{reply: `"- Led migration of 12 services to Go"`}
	g := NewGateway(fc)
	idx := 0

	out, err := g.OptimizeSnippet(context.Background(), OptimizeInput{
		SectionKey:     "experience",
		CurrentContent: "• moved services to go",
		JobTitle:       "Backend Engineer",
		ItemIndex:      &idx,
	})
	require.NoError(t, err)
	assert.Equal(t, "• Led migration of 12 services to Go", out)

	req := fc.reqs[0]
	assert.Equal(t, FormatText, req.Format)
	assert.InDelta(t, 0.3, req.Temperature, 0.0001)
	assert.Contains(t, req.User, "Job Target: Backend Engineer")
	assert.Contains(t, req.User, "bullet point in the experience section")
	assert.NotContains(t, req.User, "• moved")
}

func TestOptimizeSnippetSectionContext(t *testing.T) {
	fc := &fakeClient{reply: "Seasoned engineer"}
	g := NewGateway(fc)

	out, err := g.OptimizeSnippet(context.Background(), OptimizeInput{SectionKey: "summary", CurrentContent: "engineer"})
	require.NoError(t, err)
	assert.Equal(t, "Seasoned engineer", out)
	assert.Contains(t, fc.reqs[0].User, "This is the summary section of a resume.")
	assert.NotContains(t, fc.reqs[0].User, "Job Target")
}

func TestClientErrorIsWrappedWithTask(t *testing.T) {
	g := NewGateway(&fakeClient{err: errors.New("boom")})
	_, err := g.Summarize(context.Background(), model.Content{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), string(TaskSummarize))
}

func TestCleanOptimized(t *testing.T) {
	assert.Equal(t, "Built APIs", cleanOptimized(`  "Built APIs" `))
	assert.Equal(t, "Built APIs", cleanOptimized("- - Built APIs"))
	assert.Equal(t, "Built APIs", cleanOptimized("• Built APIs"))
}
