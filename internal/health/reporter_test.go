package health_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cacareco/plant-data-etl/internal/archive"
	"github.com/cacareco/plant-data-etl/internal/domain"
	"github.com/cacareco/plant-data-etl/internal/health"
	"github.com/cacareco/plant-data-etl/internal/observability"
)

type fakeSource struct {
	readings []domain.Reading
	err      error
}

func (s *fakeSource) History(context.Context) ([]domain.Reading, error) {
	return s.readings, s.err
}

type fakeNotifier struct {
	sent  [][]domain.AlertRecord
	err   error
	calls int
}

func (n *fakeNotifier) Notify(_ context.Context, alerts []domain.AlertRecord) error {
	n.calls++
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, alerts)
	return nil
}

type fakeDownloader struct {
	key  string
	body []byte
	err  error
}

func (d *fakeDownloader) Download(_ context.Context, key string) ([]byte, error) {
	d.key = key
	return d.body, d.err
}

func overdueReading(name string, hoursSinceWatered int) domain.Reading {
	taken := time.Date(2025, 2, 3, 14, 0, 0, 0, time.UTC)
	return domain.Reading{
		PlantName:      name,
		RecordingTaken: taken,
		LastWatered:    taken.Add(-time.Duration(hoursSinceWatered) * time.Hour),
		SoilMoisture:   50,
		Temperature:    20,
	}
}

func newReporter(source health.HistorySource, notifier health.Notifier) *health.Reporter {
	return health.New(source, notifier, domain.DefaultHealthThresholds(), slog.Default(), observability.NewMetricsForTesting())
}

func TestReporter_Run(t *testing.T) {
	t.Run("dispatches alerts", func(t *testing.T) {
		source := &fakeSource{readings: []domain.Reading{overdueReading("Venus flytrap", 40)}}
		notifier := &fakeNotifier{}

		require.NoError(t, newReporter(source, notifier).Run(context.Background()))

		require.Len(t, notifier.sent, 1)
		require.Len(t, notifier.sent[0], 1)
		assert.Equal(t, domain.IssueNeedsWater, notifier.sent[0][0].Issue)
		assert.Equal(t, 40*time.Hour, notifier.sent[0][0].TimeSinceWatered)
	})

	t.Run("healthy plants skip the notifier", func(t *testing.T) {
		source := &fakeSource{readings: []domain.Reading{overdueReading("Aloe vera", 10)}}
		notifier := &fakeNotifier{}

		require.NoError(t, newReporter(source, notifier).Run(context.Background()))
		assert.Zero(t, notifier.calls)
	})

	t.Run("source error propagates", func(t *testing.T) {
		source := &fakeSource{err: errors.New("no archive")}
		err := newReporter(source, &fakeNotifier{}).Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loading history")
	})

	t.Run("notifier error propagates", func(t *testing.T) {
		source := &fakeSource{readings: []domain.Reading{overdueReading("Venus flytrap", 40)}}
		notifier := &fakeNotifier{err: errors.New("broker down")}

		err := newReporter(source, notifier).Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dispatching")
	})
}

func TestCSVHistorySource(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 2, 4, 9, 0, 0, 0, time.UTC))

	t.Run("downloads and parses yesterday's archive", func(t *testing.T) {
		var buf bytes.Buffer
		readings := []domain.Reading{overdueReading("Venus flytrap", 40)}
		require.NoError(t, archive.WriteHistoryCSV(&buf, readings))

		downloader := &fakeDownloader{body: buf.Bytes()}
		source := health.NewCSVHistorySource(downloader, clock)

		got, err := source.History(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "2025/02/03_hist.csv", downloader.key)
		require.Len(t, got, 1)
		assert.Equal(t, "Venus flytrap", got[0].PlantName)
	})

	t.Run("download error propagates", func(t *testing.T) {
		source := health.NewCSVHistorySource(&fakeDownloader{err: errors.New("missing")}, clock)
		_, err := source.History(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "2025/02/03_hist.csv")
	})

	t.Run("malformed archive propagates", func(t *testing.T) {
		source := health.NewCSVHistorySource(&fakeDownloader{body: []byte("not,a,valid\nheader")}, clock)
		_, err := source.History(context.Background())
		require.Error(t, err)
	})
}
