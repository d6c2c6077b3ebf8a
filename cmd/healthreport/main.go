// Command healthreport evaluates plant health over the previous day's
// archived readings and publishes alerts to Kafka. Evaluation is stateless,
// so scheduling it more often only re-sends whatever is still alerting.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/cacareco/plant-data-etl/internal/adapter/kafka"
	"github.com/cacareco/plant-data-etl/internal/adapter/s3"
	"github.com/cacareco/plant-data-etl/internal/config"
	"github.com/cacareco/plant-data-etl/internal/health"
	"github.com/cacareco/plant-data-etl/internal/observability"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	objectStore, err := s3.NewStore(ctx, cfg.ArchiveBucket, cfg.AWSRegion)
	if err != nil {
		logger.Error("failed to create s3 client", "error", err)
		os.Exit(1)
	}

	publisher := kafka.NewAlertPublisher(cfg, logger)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}()

	source := health.NewCSVHistorySource(objectStore, nil)
	reporter := health.New(source, publisher, cfg.Thresholds(), logger, metrics)

	if err := reporter.Run(ctx); err != nil {
		logger.Error("health report failed", "error", err)
		os.Exit(1)
	}
}
