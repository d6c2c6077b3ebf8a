// Command archive copies the previous day's readings from the warehouse to
// S3 as a CSV, one object per day. The warehouse keeps only a short rolling
// window, so this job is scheduled daily shortly after midnight.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/cacareco/plant-data-etl/internal/adapter/mssql"
	"github.com/cacareco/plant-data-etl/internal/adapter/s3"
	"github.com/cacareco/plant-data-etl/internal/archive"
	"github.com/cacareco/plant-data-etl/internal/config"
	"github.com/cacareco/plant-data-etl/internal/observability"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.RequireDB(); err != nil {
		slog.Error("missing database config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := mssql.NewStore(cfg.DSN(), logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	objectStore, err := s3.NewStore(ctx, cfg.ArchiveBucket, cfg.AWSRegion)
	if err != nil {
		logger.Error("failed to create s3 client", "error", err)
		os.Exit(1)
	}

	archiver := archive.New(store, objectStore, logger, nil)
	if err := archiver.Run(ctx); err != nil {
		logger.Error("archive run failed", "error", err)
		os.Exit(1)
	}
}
