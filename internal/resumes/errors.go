package resumes

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrUnsupportedMedia   = errors.New("unsupported media type")
	ErrInvalidIdentifier  = errors.New("invalid identifier")
	ErrNotFound           = errors.New("not found")
	ErrPreconditionFailed = errors.New("precondition failed")
)

// detailError carries a client-facing message while still matching its
// sentinel through errors.Is.
type detailError struct {
	kind error
	msg  string
}

func (e *detailError) Error() string { return e.msg }
func (e *detailError) Unwrap() error { return e.kind }

func withDetail(kind error, msg string) error {
	return &detailError{kind: kind, msg: msg}
}

// UpstreamError reports a stage that has no fallback and whose model call
// could not produce a value.
type UpstreamError struct {
	Stage string
	Err   error
	// Unavailable is set when no model was configured at all.
	Unavailable bool
}

func (e *UpstreamError) Error() string {
	if e.Unavailable {
		return "OpenAI client not available"
	}
	return fmt.Sprintf("OpenAI API error: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
