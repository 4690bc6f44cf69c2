package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"resume-manager/internal/shared/metrics"
	"resume-manager/resume/model"
)

const (
	tempExtract   = 0.1
	tempAnalyze   = 0.2
	tempSuggest   = 0.2
	tempKeywords  = 0.1
	tempOptimize  = 0.3
	tempSummarize = 0.1
)

// Gateway turns resume tasks into chat completions and parses the replies.
// A Gateway built without a client is permanently unavailable.
type Gateway struct {
	client Client
}

// NewGateway wraps client. client may be nil.
func NewGateway(client Client) *Gateway {
	return &Gateway{client: client}
}

// Available reports whether a provider was configured.
func (g *Gateway) Available() bool {
	return g != nil && g.client != nil
}

// OptimizeInput describes one snippet rewrite.
type OptimizeInput struct {
	SectionKey     string
	CurrentContent string
	JobTitle       string
	ItemIndex      *int
}

// ExtractStructured converts raw resume text into structured content.
func (g *Gateway) ExtractStructured(ctx context.Context, text string) (model.Content, error) {
	raw, err := g.complete(ctx, Request{
		Task:        TaskExtractStructured,
		System:      systemParser,
		User:        extractPrompt(text),
		Format:      FormatJSON,
		Temperature: tempExtract,
	})
	if err != nil {
		return model.Content{}, err
	}
	var content model.Content
	if err := json.Unmarshal([]byte(raw), &content); err != nil {
		return model.Content{}, fmt.Errorf("decode structured content: %w", err)
	}
	if content.IsEmpty() {
		return model.Content{}, errors.New("structured content is empty")
	}
	return content, nil
}

// Analyze scores parsed content.
func (g *Gateway) Analyze(ctx context.Context, content model.Content) (model.AnalysisResult, error) {
	raw, err := g.complete(ctx, Request{
		Task:        TaskAnalyze,
		System:      systemAnalyst,
		User:        analyzePrompt(content.Indented()),
		Format:      FormatJSON,
		Temperature: tempAnalyze,
	})
	if err != nil {
		return model.AnalysisResult{}, err
	}
	var result model.AnalysisResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return model.AnalysisResult{}, fmt.Errorf("decode analysis: %w", err)
	}
	return result.Normalize(), nil
}

// SuggestJobs recommends roles for the candidate.
func (g *Gateway) SuggestJobs(ctx context.Context, content model.Content, analysis model.AnalysisResult) ([]model.JobSuggestion, error) {
	analysisJSON, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return nil, err
	}
	raw, err := g.complete(ctx, Request{
		Task:        TaskSuggestJobs,
		System:      systemAdvisor,
		User:        suggestJobsPrompt(content.Indented(), string(analysisJSON)),
		Format:      FormatJSON,
		Temperature: tempSuggest,
	})
	if err != nil {
		return nil, err
	}
	return decodeJobSuggestions(raw)
}

// ExtractKeywords returns job-matching keywords.
func (g *Gateway) ExtractKeywords(ctx context.Context, content model.Content) ([]string, error) {
	raw, err := g.complete(ctx, Request{
		Task:        TaskExtractKeywords,
		System:      systemKeywords,
		User:        keywordsPrompt(content.Indented()),
		Format:      FormatJSON,
		Temperature: tempKeywords,
	})
	if err != nil {
		return nil, err
	}
	var payload struct {
		Keywords []string `json:"keywords"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("decode keywords: %w", err)
	}
	return dedupe(payload.Keywords), nil
}

// OptimizeSnippet rewrites one section or bullet. A leading "- " or "• "
// marker on the input is preserved on the output.
func (g *Gateway) OptimizeSnippet(ctx context.Context, in OptimizeInput) (string, error) {
	prefix, body := splitBullet(in.CurrentContent)
	raw, err := g.complete(ctx, Request{
		Task:        TaskOptimizeSnippet,
		System:      systemWriter,
		User:        optimizePrompt(in, body),
		Format:      FormatText,
		Temperature: tempOptimize,
	})
	if err != nil {
		return "", err
	}
	cleaned := cleanOptimized(raw)
	if cleaned == "" {
		return "", errors.New("optimized content is empty")
	}
	return prefix + cleaned, nil
}

// Summarize flattens content into one matching string.
func (g *Gateway) Summarize(ctx context.Context, content model.Content) (string, error) {
	raw, err := g.complete(ctx, Request{
		Task:        TaskSummarize,
		System:      systemSummarizer,
		User:        summarizePrompt(content.Indented()),
		Format:      FormatText,
		Temperature: tempSummarize,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

func (g *Gateway) complete(ctx context.Context, req Request) (string, error) {
	if !g.Available() {
		return "", ErrUnavailable
	}
	start := time.Now()
	out, err := g.client.Complete(ctx, req)
	metrics.ObserveLLMDuration(time.Since(start))
	if err != nil {
		return "", fmt.Errorf("%s: %w", req.Task, err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("%s: empty response", req.Task)
	}
	return out, nil
}

// decodeJobSuggestions accepts a bare array or an object holding one.
func decodeJobSuggestions(raw string) ([]model.JobSuggestion, error) {
	trimmed := strings.TrimSpace(raw)
	var items []model.JobSuggestion
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
			return nil, fmt.Errorf("decode job suggestions: %w", err)
		}
	} else {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal([]byte(trimmed), &obj); err != nil {
			return nil, fmt.Errorf("decode job suggestions: %w", err)
		}
		for _, key := range []string{"job_suggestions", "jobs", "suggestions", "positions"} {
			if v, ok := obj[key]; ok && json.Unmarshal(v, &items) == nil {
				break
			}
		}
		if len(items) == 0 {
			for _, v := range obj {
				if json.Unmarshal(v, &items) == nil && len(items) > 0 {
					break
				}
			}
		}
	}

	out := make([]model.JobSuggestion, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.JobTitle) == "" {
			continue
		}
		out = append(out, item)
	}
	if len(out) == 0 {
		return nil, errors.New("no job suggestions in response")
	}
	return out, nil
}

func splitBullet(s string) (prefix, body string) {
	trimmed := strings.TrimLeft(s, " \t\r\n")
	for _, marker := range []string{"- ", "• "} {
		if strings.HasPrefix(trimmed, marker) {
			return marker, strings.TrimPrefix(trimmed, marker)
		}
	}
	return "", s
}

func cleanOptimized(raw string) string {
	out := strings.TrimSpace(raw)
	if len(out) >= 2 && strings.HasPrefix(out, `"`) && strings.HasSuffix(out, `"`) {
		out = out[1 : len(out)-1]
	}
	out = strings.TrimLeft(out, "- ")
	out = strings.TrimLeft(out, "• ")
	return strings.TrimSpace(out)
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		key := strings.ToLower(v)
		if v == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}
