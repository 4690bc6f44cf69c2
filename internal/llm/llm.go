package llm

import (
	"context"
	"errors"
)

// Task names one kind of gateway request.
type Task string

const (
	TaskExtractStructured Task = "extract-structured-data"
	TaskAnalyze           Task = "analyze"
	TaskSuggestJobs       Task = "suggest-jobs"
	TaskExtractKeywords   Task = "extract-keywords"
	TaskOptimizeSnippet   Task = "optimize-snippet"
	TaskSummarize         Task = "summarize-to-string"
)

// Format selects the response mode requested from the model.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// Request is one chat completion.
type Request struct {
	Task        Task
	System      string
	User        string
	Format      Format
	Temperature float32
}

// Client abstracts the chat completion provider.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ErrUnavailable is returned when no provider was configured at startup.
var ErrUnavailable = errors.New("LLM client not configured")
