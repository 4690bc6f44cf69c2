package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)
	assert.Equal(t, "local", cfg.ObjectStoreType)
	assert.Equal(t, "fpdf", cfg.Renderer)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, 60, cfg.OpenAI.TimeoutSeconds)
	assert.Equal(t, int64(16<<20), cfg.MaxUploadBytes())
	assert.False(t, cfg.RateLimit.Enabled)
	assert.True(t, cfg.AutoMigrate)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("OBJECT_STORE", "MinIO")
	t.Setenv("RENDERER", "chrome")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_TIMEOUT_SECONDS", "15")
	t.Setenv("MINIO_BUCKET_NAME", "cv")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_BURST", "2")
	t.Setenv("MAX_UPLOAD_MB", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "minio", cfg.ObjectStoreType)
	assert.Equal(t, "chromedp", cfg.Renderer)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowOrigins)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, 15, cfg.OpenAI.TimeoutSeconds)
	assert.Equal(t, "cv", cfg.Minio.Bucket)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 2, cfg.RateLimit.Burst)
	assert.Equal(t, int64(16), cfg.MaxUploadMB)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("OPENAI_TIMEOUT_SECONDS", "soon")

	_, err := Load()
	require.Error(t, err)
}
