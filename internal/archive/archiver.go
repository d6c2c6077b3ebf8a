package archive

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/cacareco/plant-data-etl/internal/domain"
)

// StatusQuerier returns the joined readings recorded within [from, to).
type StatusQuerier interface {
	StatusReadings(ctx context.Context, from, to time.Time) ([]domain.Reading, error)
}

// ObjectStore uploads one archive object.
type ObjectStore interface {
	Upload(ctx context.Context, key string, body []byte) error
}

// Archiver writes the previous day's readings to long-term object storage.
// The short-term database keeps only a rolling window; this job preserves
// history before the window rolls past it.
type Archiver struct {
	querier StatusQuerier
	store   ObjectStore
	logger  *slog.Logger
	clock   clockwork.Clock
}

// New creates an Archiver. Pass a nil clock to use real time.
func New(querier StatusQuerier, store ObjectStore, logger *slog.Logger, clock clockwork.Clock) *Archiver {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Archiver{querier: querier, store: store, logger: logger, clock: clock}
}

// Run archives yesterday's readings as one CSV object. A day with no
// readings uploads nothing.
func (a *Archiver) Run(ctx context.Context) error {
	now := a.clock.Now().UTC()
	dayEnd := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dayStart := dayEnd.AddDate(0, 0, -1)

	readings, err := a.querier.StatusReadings(ctx, dayStart, dayEnd)
	if err != nil {
		return fmt.Errorf("querying readings: %w", err)
	}
	if len(readings) == 0 {
		a.logger.Warn("no readings to archive", "day", dayStart.Format("2006-01-02"))
		return nil
	}

	var buf bytes.Buffer
	if err := WriteHistoryCSV(&buf, readings); err != nil {
		return fmt.Errorf("encoding archive: %w", err)
	}

	key := ArchiveKey(dayStart)
	if err := a.store.Upload(ctx, key, buf.Bytes()); err != nil {
		return fmt.Errorf("uploading %s: %w", key, err)
	}

	a.logger.Info("archive uploaded", "key", key, "readings", len(readings))
	return nil
}
