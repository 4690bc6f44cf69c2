package resumes

import (
	"context"
	"errors"
	"testing"

	"resume-manager/internal/llm"
	"resume-manager/internal/shared/storage/object/local"
	"resume-manager/resume/model"
)

type stubExtractor struct {
	text string
	err  error
}

func (s stubExtractor) Text(context.Context, []byte) (string, error) {
	return s.text, s.err
}

// scriptedClient answers every task from replies; tasks without a reply fail.
type scriptedClient struct {
	replies map[llm.Task]string
	err     error
	calls   []llm.Task
}

func (s *scriptedClient) Complete(_ context.Context, req llm.Request) (string, error) {
	s.calls = append(s.calls, req.Task)
	if s.err != nil {
		return "", s.err
	}
	reply, ok := s.replies[req.Task]
	if !ok {
		return "", errors.New("status 500: upstream exploded")
	}
	return reply, nil
}

type stubRenderer struct {
	got *model.Content
}

func (s *stubRenderer) Render(_ context.Context, c model.Content) ([]byte, error) {
	s.got = &c
	return []byte("%PDF-1.4 rendered"), nil
}

// postgresKeyed behaves like the memory repo but demands UUID keys.
type postgresKeyed struct {
	*MemoryRepo
}

func (postgresKeyed) Backend() Backend { return BackendPostgres }

const sampleText = "Jane Doe\njane@example.com\nSenior Python engineer working with data and cloud. Strong leadership."

func sampleContent() model.Content {
	return model.Content{
		PersonalInfo: model.PersonalInfo{Name: "Jane Doe", Title: "Engineer", Email: "jane@example.com"},
		Summary:      "Senior Python engineer working with data and cloud.",
		WorkExperience: []model.Experience{{
			Company:          "Acme",
			Position:         "Backend Engineer",
			DateRange:        "2020 - 2024",
			Responsibilities: []string{"Built ingestion pipelines"},
		}},
		Education: []model.Education{{Institution: "State University", Degree: "BSc Computer Science"}},
		Skills: model.Skills{
			{Category: "technical", Items: []string{"Python", "SQL", "AWS"}},
			{Category: "soft", Items: []string{"Leadership"}},
		},
	}
}

func newTestService(t *testing.T, client llm.Client) (*Service, *MemoryRepo) {
	t.Helper()
	repo := NewMemoryRepo()
	return &Service{
		Repo:      repo,
		Store:     local.New(t.TempDir()),
		Gateway:   llm.NewGateway(client),
		Extractor: stubExtractor{text: sampleText},
		Renderer:  &stubRenderer{},
	}, repo
}
