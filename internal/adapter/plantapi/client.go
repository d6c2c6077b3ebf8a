package plantapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/cacareco/plant-data-etl/internal/domain"
)

// Client fetches raw plant records from the plant sensor API. Plant ids are
// sequential starting at 0; the API intermittently returns errors for
// individual plants, which FetchBatch treats as gaps rather than failures.
type Client struct {
	baseURL     string
	plantCount  int
	concurrency int
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewClient creates a plant API client fetching ids [0, plantCount).
func NewClient(baseURL string, plantCount, concurrency int, logger *slog.Logger) *Client {
	return &Client{
		baseURL:     baseURL,
		plantCount:  plantCount,
		concurrency: concurrency,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// FetchPlant retrieves one plant's current record.
func (c *Client) FetchPlant(ctx context.Context, id int) (domain.RawPlantRecord, error) {
	url := fmt.Sprintf("%s/plants/%d", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.RawPlantRecord{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.RawPlantRecord{}, fmt.Errorf("fetch plant %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.RawPlantRecord{}, fmt.Errorf("plant API error: plant %d: status %d: %s", id, resp.StatusCode, body)
	}

	var record domain.RawPlantRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return domain.RawPlantRecord{}, fmt.Errorf("decode plant %d: %w", id, err)
	}
	return record, nil
}

// FetchBatch fetches all plants with a bounded worker pool. Plants that fail
// are logged and skipped; the batch is whatever succeeded, ordered by plant
// id so downstream output is deterministic.
func (c *Client) FetchBatch(ctx context.Context) ([]domain.RawPlantRecord, error) {
	type result struct {
		id     int
		record domain.RawPlantRecord
	}

	ids := make(chan int)
	results := make(chan result)

	var wg sync.WaitGroup
	for range c.concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range ids {
				record, err := c.FetchPlant(ctx, id)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					c.logger.Warn("plant fetch failed, skipping", "plant_id", id, "error", err)
					continue
				}
				results <- result{id: id, record: record}
			}
		}()
	}

	go func() {
		defer close(ids)
		for id := 0; id < c.plantCount; id++ {
			select {
			case ids <- id:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]result, 0, c.plantCount)
	for r := range results {
		collected = append(collected, r)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(collected, func(i, j int) bool { return collected[i].id < collected[j].id })

	batch := make([]domain.RawPlantRecord, len(collected))
	for i, r := range collected {
		batch[i] = r.record
	}
	return batch, nil
}
