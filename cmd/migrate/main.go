package main

// Run database migrations:
//   go run ./cmd/migrate

import (
	"context"
	"fmt"
	"os"

	"resume-manager/internal/shared/config"
	"resume-manager/internal/shared/storage/db"
	"resume-manager/internal/shared/telemetry"
)

func main() {
	if err := run(context.Background()); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	telemetry.Info("migrate.done", nil)
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	telemetry.Init(telemetry.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer sqlDB.Close()

	return db.RunMigrations(ctx, sqlDB)
}
