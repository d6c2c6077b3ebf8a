// Command seed populates the reference tables (country, city, origin
// location, plant, botanist) from a full fetch of the plant API. Run it once
// before the pipeline, or again when the plant collection changes; inserts
// skip natural keys that already exist.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/cacareco/plant-data-etl/internal/adapter/mssql"
	"github.com/cacareco/plant-data-etl/internal/adapter/plantapi"
	"github.com/cacareco/plant-data-etl/internal/config"
	"github.com/cacareco/plant-data-etl/internal/observability"
	"github.com/cacareco/plant-data-etl/internal/seeding"
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

	if err := store.Migrate(ctx); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	client := plantapi.NewClient(cfg.PlantAPIURL, cfg.PlantCount, cfg.FetchConcurrency, logger)

	batch, err := client.FetchBatch(ctx)
	if err != nil {
		logger.Error("fetching seed batch failed", "error", err)
		os.Exit(1)
	}
	logger.Info("seed batch fetched", "records", len(batch))

	if err := seeding.New(store, logger).Run(ctx, batch); err != nil {
		logger.Error("seeding failed", "error", err)
		os.Exit(1)
	}

	logger.Info("seeding complete")
}
