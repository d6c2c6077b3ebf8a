package health

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"

	"github.com/cacareco/plant-data-etl/internal/archive"
	"github.com/cacareco/plant-data-etl/internal/domain"
)

// Downloader fetches one archive object by key.
type Downloader interface {
	Download(ctx context.Context, key string) ([]byte, error)
}

// CSVHistorySource reads the previous day's archived CSV as the evaluation
// history, the same window the archiver wrote.
type CSVHistorySource struct {
	downloader Downloader
	clock      clockwork.Clock
}

// NewCSVHistorySource creates a source over the archive store. Pass a nil
// clock to use real time.
func NewCSVHistorySource(downloader Downloader, clock clockwork.Clock) *CSVHistorySource {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &CSVHistorySource{downloader: downloader, clock: clock}
}

// History downloads and parses yesterday's archive.
func (s *CSVHistorySource) History(ctx context.Context) ([]domain.Reading, error) {
	key := archive.ArchiveKey(s.clock.Now().UTC().AddDate(0, 0, -1))

	body, err := s.downloader.Download(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", key, err)
	}

	readings, err := archive.ReadHistoryCSV(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", key, err)
	}
	return readings, nil
}
