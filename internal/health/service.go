package health

import (
	"context"
	"time"
)

const (
	Version = "1.0.0"

	stateOK           = "ok"
	stateUnavailable  = "unavailable"
	stateLocalStorage = "using local storage"
	stateError        = "error"
)

// Pinger checks that the document database answers.
type Pinger func(ctx context.Context) error

// Report is the health payload.
type Report struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Services  map[string]string `json:"services"`
}

// Service encapsulates health-related checks. A nil Ping means the
// process runs on the in-memory backend.
type Service struct {
	Ping      Pinger
	AIEnabled func() bool
	now       func() time.Time
}

// NewService constructs a new health service.
func NewService(ping Pinger, aiEnabled func() bool) *Service {
	return &Service{Ping: ping, AIEnabled: aiEnabled, now: time.Now}
}

// Status reports the storage backend and AI gateway state. The process is
// healthy whenever it can answer; a failing database ping is reported but
// does not flip the overall status.
func (s *Service) Status(ctx context.Context) Report {
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	report := Report{
		Status:    "healthy",
		Timestamp: now().UTC(),
		Version:   Version,
		Services:  map[string]string{},
	}

	switch {
	case s.Ping == nil:
		report.Services["database"] = stateLocalStorage
	case s.Ping(ctx) != nil:
		report.Services["database"] = stateError
	default:
		report.Services["database"] = stateOK
	}

	if s.AIEnabled != nil && s.AIEnabled() {
		report.Services["openai"] = stateOK
	} else {
		report.Services["openai"] = stateUnavailable
	}
	return report
}
