package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-manager/internal/extract"
	"resume-manager/internal/health"
	"resume-manager/internal/llm"
	openai "resume-manager/internal/llm/openai"
	"resume-manager/internal/resumes"
	"resume-manager/internal/shared/config"
	"resume-manager/internal/shared/server"
	"resume-manager/internal/shared/storage/db"
	"resume-manager/internal/shared/storage/object"
	localstore "resume-manager/internal/shared/storage/object/local"
	miniostore "resume-manager/internal/shared/storage/object/minio"
	s3store "resume-manager/internal/shared/storage/object/s3"
	"resume-manager/internal/shared/telemetry"
	"resume-manager/resume/render"
)

const healthPingTimeout = 2 * time.Second

// App holds shared dependencies.
type App struct {
	Config        config.Config
	Router        *gin.Engine
	DB            *sql.DB
	Store         object.ObjectStore
	Gateway       *llm.Gateway
	Repo          resumes.Repo
	Service       *resumes.Service
	Handler       *resumes.Handler
	HealthHandler *health.Handler
}

// Build wires every dependency once. A missing or unreachable database
// selects the in-memory repository for the life of the process; a missing
// API key leaves the AI gateway unavailable.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	sqlDB := buildDB(ctx, cfg)

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	renderer, err := render.New(cfg.Renderer, cfg.ChromePath, cfg.FontDir)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:  cfg,
		DB:      sqlDB,
		Store:   store,
		Gateway: buildGateway(cfg),
	}

	if sqlDB != nil {
		app.Repo = resumes.NewPGRepo(sqlDB)
	} else {
		app.Repo = resumes.NewMemoryRepo()
	}

	app.Service = &resumes.Service{
		Repo:      app.Repo,
		Store:     store,
		Gateway:   app.Gateway,
		Extractor: extract.PDF{},
		Renderer:  renderer,
	}
	app.Handler = resumes.NewHandler(app.Service, cfg.MaxUploadBytes())

	var ping health.Pinger
	if sqlDB != nil {
		ping = func(ctx context.Context) error { return db.Ping(ctx, sqlDB, healthPingTimeout) }
	}
	app.HealthHandler = health.NewHandler(health.NewService(ping, app.Gateway.Available))

	app.Router = server.NewRouter(cfg, server.Deps{
		Resumes: app.Handler,
		Health:  app.HealthHandler,
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"backend":  app.Repo.Backend().String(),
		"store":    cfg.ObjectStoreType,
		"renderer": cfg.Renderer,
		"ai":       app.Gateway.Available(),
	})
	return app, nil
}

// Close releases the database pool.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config) *sql.DB {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		telemetry.Warn("bootstrap.memory_backend", map[string]any{"reason": "DATABASE_URL empty"})
		return nil
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Warn("bootstrap.memory_backend", map[string]any{"reason": "connect failed", "error": err.Error()})
		return nil
	}
	if cfg.AutoMigrate {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			telemetry.Warn("bootstrap.memory_backend", map[string]any{"reason": "migrations failed", "error": err.Error()})
			sqlDB.Close()
			return nil
		}
	}
	return sqlDB
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3.Region) == "" || strings.TrimSpace(cfg.S3.Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_REGION and S3_BUCKET")
		}
		return s3store.New(ctx, cfg.S3.Region, cfg.S3.Bucket, cfg.S3.Prefix, cfg.S3.SSEKMSKeyID)
	case "minio":
		return miniostore.New(ctx, miniostore.Options{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			UseSSL:    cfg.Minio.UseSSL,
		})
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildGateway(cfg config.Config) *llm.Gateway {
	if strings.TrimSpace(cfg.OpenAI.APIKey) == "" {
		telemetry.Warn("bootstrap.ai_unavailable", map[string]any{"reason": "OPENAI_API_KEY empty"})
		return llm.NewGateway(nil)
	}
	timeout := time.Duration(cfg.OpenAI.TimeoutSeconds) * time.Second
	client, err := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, timeout)
	if err != nil {
		telemetry.Warn("bootstrap.ai_unavailable", map[string]any{"error": err.Error()})
		return llm.NewGateway(nil)
	}
	return llm.NewGateway(client)
}
