package llm

import (
	"context"
	"errors"
)

// Fallback reasons reported to clients.
const (
	ReasonUnavailable = "OpenAI not available"
	ReasonAPIError    = "API error"
)

// Verdict classifies one gateway attempt.
type Verdict int

const (
	// VerdictOK means the gateway produced a value.
	VerdictOK Verdict = iota
	// VerdictFallback means the caller should use its deterministic fallback.
	VerdictFallback
	// VerdictError means the request itself is gone and nothing should be produced.
	VerdictError
)

func (v Verdict) String() string {
	switch v {
	case VerdictOK:
		return "ok"
	case VerdictFallback:
		return "fallback"
	default:
		return "error"
	}
}

// Result is the outcome of one gateway attempt.
type Result[T any] struct {
	Verdict Verdict
	Value   T
	Reason  string
	Err     error
}

// Attempt runs call through g and classifies the outcome. There is no memory
// between attempts: a failure now does not skip the gateway next time.
func Attempt[T any](ctx context.Context, g *Gateway, call func(context.Context) (T, error)) Result[T] {
	if !g.Available() {
		return Result[T]{Verdict: VerdictFallback, Reason: ReasonUnavailable, Err: ErrUnavailable}
	}
	v, err := call(ctx)
	switch {
	case err == nil:
		return Result[T]{Verdict: VerdictOK, Value: v}
	case errors.Is(err, context.Canceled):
		return Result[T]{Verdict: VerdictError, Err: err}
	case errors.Is(err, ErrUnavailable):
		return Result[T]{Verdict: VerdictFallback, Reason: ReasonUnavailable, Err: err}
	default:
		return Result[T]{Verdict: VerdictFallback, Reason: ReasonAPIError, Err: err}
	}
}
