package telemetry

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoWritesJSONLineWithFields(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Info("request.complete", map[string]any{"status": 200, "path": "/api/v1/health"})

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &payload))
	assert.Equal(t, "info", payload["level"])
	assert.Equal(t, "request.complete", payload["msg"])
	assert.Equal(t, "/api/v1/health", payload["path"])
	assert.EqualValues(t, 200, payload["status"])
	assert.NotEmpty(t, payload["ts"])
}

func TestErrorAndWarnLevels(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Warn("storage.memory", nil)
	Error("http.error", map[string]any{"code": "not_found"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"level":"warn"`)
	assert.Contains(t, lines[1], `"level":"error"`)
	assert.Contains(t, lines[1], `"code":"not_found"`)
}
