package health

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cacareco/plant-data-etl/internal/domain"
	"github.com/cacareco/plant-data-etl/internal/observability"
)

// HistorySource provides the reading history an evaluation runs over.
type HistorySource interface {
	History(ctx context.Context) ([]domain.Reading, error)
}

// Notifier hands a non-empty batch of alerts to the notification channel.
type Notifier interface {
	Notify(ctx context.Context, alerts []domain.AlertRecord) error
}

// Reporter evaluates plant health over a reading history and dispatches the
// resulting alerts. Evaluation is stateless: every run looks at the full
// visible history and re-emits whatever is currently alerting.
type Reporter struct {
	source     HistorySource
	notifier   Notifier
	thresholds domain.HealthThresholds
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// New creates a Reporter.
func New(source HistorySource, notifier Notifier, thresholds domain.HealthThresholds, logger *slog.Logger, metrics *observability.Metrics) *Reporter {
	return &Reporter{
		source:     source,
		notifier:   notifier,
		thresholds: thresholds,
		logger:     logger,
		metrics:    metrics,
	}
}

// Run performs one evaluation pass. Every alert is logged; the notifier is
// only invoked when there is something to send.
func (r *Reporter) Run(ctx context.Context) error {
	readings, err := r.source.History(ctx)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	groups := domain.GroupReadings(readings)
	alerts := domain.EvaluateAlerts(groups, r.thresholds)

	for _, alert := range alerts {
		r.metrics.AlertsEmitted.WithLabelValues(string(alert.Issue)).Inc()
		switch alert.Issue {
		case domain.IssueNeedsWater:
			r.logger.Warn("plant needs water",
				"plant", alert.PlantName,
				"time_since_watered", alert.TimeSinceWatered,
			)
		default:
			r.logger.Warn("sustained out-of-range readings",
				"plant", alert.PlantName,
				"issue", alert.Issue,
				"average", alert.AverageValue,
				"values", alert.Values,
			)
		}
	}

	if len(alerts) == 0 {
		r.logger.Info("all plants healthy", "readings", len(readings), "plants", len(groups))
		return nil
	}

	if err := r.notifier.Notify(ctx, alerts); err != nil {
		return fmt.Errorf("dispatching %d alerts: %w", len(alerts), err)
	}

	r.logger.Info("alerts dispatched", "count", len(alerts))
	return nil
}
