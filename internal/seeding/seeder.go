package seeding

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cacareco/plant-data-etl/internal/domain"
)

// ReferenceStore is the storage surface the seeder needs: bulk inserts for
// each reference table plus the natural-key queries the resolver maps are
// built from.
type ReferenceStore interface {
	InsertCountries(ctx context.Context, rows []domain.CountryRow) error
	CountryIDs(ctx context.Context) ([]domain.KeyID, error)
	InsertCities(ctx context.Context, rows []domain.CityRow) error
	CityIDs(ctx context.Context) ([]domain.KeyID, error)
	InsertOriginLocations(ctx context.Context, rows []domain.OriginLocationRow) error
	OriginLocationIDs(ctx context.Context) ([]domain.KeyID, error)
	InsertPlants(ctx context.Context, rows []domain.PlantRow) error
	InsertBotanists(ctx context.Context, rows []domain.BotanistRow) error
}

// Seeder populates the reference tables from one batch of raw API records.
type Seeder struct {
	store  ReferenceStore
	logger *slog.Logger
}

// New creates a Seeder over the given store.
func New(store ReferenceStore, logger *slog.Logger) *Seeder {
	return &Seeder{store: store, logger: logger}
}

// Run executes the five extraction passes in hard dependency order. Each
// resolver map is rebuilt from a store query after the previous insert, not
// from the extraction pass's own output, so ids reflect what storage actually
// assigned (including rows surviving from earlier runs).
func (s *Seeder) Run(ctx context.Context, batch []domain.RawPlantRecord) error {
	countries := domain.ExtractCountries(batch)
	if err := s.store.InsertCountries(ctx, countries); err != nil {
		return fmt.Errorf("inserting countries: %w", err)
	}
	s.logger.Info("countries seeded", "count", len(countries))

	countryPairs, err := s.store.CountryIDs(ctx)
	if err != nil {
		return fmt.Errorf("querying country ids: %w", err)
	}

	cities := domain.ExtractCities(batch, domain.BuildMapping(countryPairs))
	if err := s.store.InsertCities(ctx, cities); err != nil {
		return fmt.Errorf("inserting cities: %w", err)
	}
	s.logger.Info("cities seeded", "count", len(cities))

	cityPairs, err := s.store.CityIDs(ctx)
	if err != nil {
		return fmt.Errorf("querying city ids: %w", err)
	}

	locations := domain.ExtractOriginLocations(batch, domain.BuildMapping(cityPairs))
	if err := s.store.InsertOriginLocations(ctx, locations); err != nil {
		return fmt.Errorf("inserting origin locations: %w", err)
	}
	s.logger.Info("origin locations seeded", "count", len(locations))

	locationPairs, err := s.store.OriginLocationIDs(ctx)
	if err != nil {
		return fmt.Errorf("querying origin location ids: %w", err)
	}

	plants, err := domain.ExtractPlants(batch, domain.BuildMapping(locationPairs))
	if err != nil {
		return fmt.Errorf("extracting plants: %w", err)
	}
	if err := s.store.InsertPlants(ctx, plants); err != nil {
		return fmt.Errorf("inserting plants: %w", err)
	}
	s.logger.Info("plants seeded", "count", len(plants))

	botanists := domain.ExtractBotanists(batch)
	if err := s.store.InsertBotanists(ctx, botanists); err != nil {
		return fmt.Errorf("inserting botanists: %w", err)
	}
	s.logger.Info("botanists seeded", "count", len(botanists))

	return nil
}
