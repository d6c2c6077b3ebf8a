package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/cacareco/plant-data-etl/internal/domain"
	"github.com/cacareco/plant-data-etl/internal/observability"
)

// Extractor fetches one batch of raw records from the plant API.
type Extractor interface {
	FetchBatch(ctx context.Context) ([]domain.RawPlantRecord, error)
}

// BotanistMapper returns the botanist email to id map from storage.
type BotanistMapper interface {
	BotanistMapping(ctx context.Context) (domain.Mapping, error)
}

// Loader writes a batch of transformed status rows to storage as one unit.
type Loader interface {
	LoadStatusBatch(ctx context.Context, rows []domain.PlantStatusRow) error
}

// Pipeline orchestrates the periodic fetch-transform-load loop.
type Pipeline struct {
	extractor Extractor
	mapper    BotanistMapper
	loader    Loader
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
	interval  time.Duration
}

// New creates a Pipeline with the given stages and observability.
func New(e Extractor, m BotanistMapper, l Loader, logger *slog.Logger, metrics *observability.Metrics, interval time.Duration) *Pipeline {
	return &Pipeline{
		extractor: e,
		mapper:    m,
		loader:    l,
		logger:    logger,
		metrics:   metrics,
		interval:  interval,
	}
}

// CheckReadiness returns nil once the pipeline has completed at least one
// cycle, or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not completed a cycle yet")
	}
	return nil
}

// Run executes one cycle immediately, then one per interval, until the
// context is cancelled. A failed cycle is logged and the loop continues;
// transient API or database outages resolve by the next tick.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "interval", p.interval)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if err := p.runCycle(ctx); err != nil {
			if ctx.Err() != nil {
				p.logger.Info("pipeline stopping", "reason", ctx.Err())
				return nil
			}
			p.logger.Error("cycle failed", "error", err)
		}

		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		case <-ticker.C:
		}
	}
}

// runCycle performs one fetch-transform-load pass. Individual bad records are
// rejected and logged without failing the cycle; only batch-level failures
// (fetch, map query, load) surface as errors.
func (p *Pipeline) runCycle(ctx context.Context) error {
	start := time.Now()

	batch, err := p.extractor.FetchBatch(ctx)
	if err != nil {
		return err
	}
	if len(batch) == 0 {
		p.logger.Warn("fetched empty batch")
		return nil
	}

	p.metrics.RecordsFetched.Add(float64(len(batch)))
	p.metrics.BatchSize.Observe(float64(len(batch)))

	botanists, err := p.mapper.BotanistMapping(ctx)
	if err != nil {
		return err
	}

	rows := make([]domain.PlantStatusRow, 0, len(batch))
	for _, raw := range batch {
		row, err := domain.TransformStatus(raw, botanists)
		if err != nil {
			p.logger.Warn("record rejected", "plant_id", raw.PlantID, "error", err)
			p.metrics.RecordsRejected.Inc()
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		p.logger.Warn("no valid rows in batch", "fetched", len(batch))
		return nil
	}

	if err := p.loader.LoadStatusBatch(ctx, rows); err != nil {
		return err
	}

	p.metrics.RowsLoaded.Add(float64(len(rows)))
	p.metrics.CycleDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)

	p.logger.Info("cycle complete",
		"fetched", len(batch),
		"loaded", len(rows),
		"rejected", len(batch)-len(rows),
		"duration", time.Since(start),
	)
	return nil
}
