package resumes

import (
	"strings"

	"github.com/google/uuid"
)

// Backend identifies the storage engine chosen at startup.
type Backend int

const (
	BackendMemory Backend = iota
	BackendPostgres
)

func (b Backend) String() string {
	if b == BackendPostgres {
		return "postgres"
	}
	return "memory"
}

// NormalizeKey turns a client-supplied identifier into the backend's key
// form. Postgres keys must parse as UUIDs and come back in canonical
// lowercase form; memory keys are trimmed and must be non-empty.
func NormalizeKey(backend Backend, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidIdentifier
	}
	if backend != BackendPostgres {
		return raw, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", withDetail(ErrInvalidIdentifier, "Invalid resume ID format")
	}
	return id.String(), nil
}
