package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Env              string   `env:"ENV" envDefault:"dev"`
	Port             string   `env:"PORT" envDefault:"8080"`
	CORSAllowOrigins []string `env:"CORS_ALLOW_ORIGINS" envDefault:"*" envSeparator:","`
	DatabaseURL      string   `env:"DATABASE_URL"`
	AutoMigrate      bool     `env:"DB_AUTO_MIGRATE" envDefault:"true"`
	ObjectStoreType  string   `env:"OBJECT_STORE" envDefault:"local"`
	LocalStoreDir    string   `env:"LOCAL_STORE_DIR" envDefault:"./uploads"`
	MaxUploadMB      int64    `env:"MAX_UPLOAD_MB" envDefault:"16"`
	Renderer         string   `env:"RENDERER" envDefault:"fpdf"`
	ChromePath       string   `env:"CHROME_PATH"`
	FontDir          string   `env:"RENDER_FONT_DIR"`

	S3        S3        `envPrefix:"S3_"`
	Minio     Minio     `envPrefix:"MINIO_"`
	OpenAI    OpenAI    `envPrefix:"OPENAI_"`
	Log       Log       `envPrefix:"LOG_"`
	RateLimit RateLimit `envPrefix:"RATE_LIMIT_"`
}

// S3 configures the S3 object store.
type S3 struct {
	Region      string `env:"REGION"`
	Bucket      string `env:"BUCKET"`
	Prefix      string `env:"PREFIX"`
	SSEKMSKeyID string `env:"SSE_KMS_KEY_ID"`
}

// Minio configures the MinIO object store.
type Minio struct {
	Endpoint  string `env:"ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Bucket    string `env:"BUCKET_NAME" envDefault:"resumes"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

// OpenAI configures the chat completion client. An empty APIKey leaves the
// AI gateway unavailable for the life of the process.
type OpenAI struct {
	APIKey         string `env:"API_KEY"`
	Model          string `env:"MODEL" envDefault:"gpt-4o-mini"`
	TimeoutSeconds int    `env:"TIMEOUT_SECONDS" envDefault:"60"`
}

// Log configures structured logging.
type Log struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
}

// RateLimit configures per-client limits on AI-backed routes.
type RateLimit struct {
	Enabled bool    `env:"ENABLED" envDefault:"false"`
	RPS     float64 `env:"RPS" envDefault:"1"`
	Burst   int     `env:"BURST" envDefault:"5"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (Config, error) {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.ObjectStoreType = normalizeStoreType(cfg.ObjectStoreType)
	cfg.Renderer = normalizeRenderer(cfg.Renderer)
	cfg.CORSAllowOrigins = trimAll(cfg.CORSAllowOrigins)
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 16
	}
	return cfg, nil
}

// MaxUploadBytes returns the upload cap in bytes.
func (c Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

func loadEnvFiles(paths ...string) {
	for _, p := range paths {
		// godotenv never overrides variables already present in the process.
		_ = godotenv.Load(p)
	}
}

func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	case "minio":
		return "minio"
	default:
		return "local"
	}
}

func normalizeRenderer(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "chromedp", "chrome", "html":
		return "chromedp"
	default:
		return "fpdf"
	}
}
