package seeding_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cacareco/plant-data-etl/internal/domain"
	"github.com/cacareco/plant-data-etl/internal/seeding"
)

// fakeStore assigns sequential ids on insert and answers queries from what it
// holds, mimicking an identity-column table.
type fakeStore struct {
	countries []domain.CountryRow
	cities    []domain.CityRow
	locations []domain.OriginLocationRow
	plants    []domain.PlantRow
	botanists []domain.BotanistRow

	calls   []string
	failOn  string
	missing bool // when set, id queries return nothing
}

func (s *fakeStore) fail(op string) error {
	if s.failOn == op {
		return errors.New(op + " failed")
	}
	return nil
}

func (s *fakeStore) InsertCountries(_ context.Context, rows []domain.CountryRow) error {
	s.calls = append(s.calls, "InsertCountries")
	s.countries = append(s.countries, rows...)
	return s.fail("InsertCountries")
}

func (s *fakeStore) CountryIDs(context.Context) ([]domain.KeyID, error) {
	s.calls = append(s.calls, "CountryIDs")
	if s.missing {
		return nil, nil
	}
	pairs := make([]domain.KeyID, len(s.countries))
	for i, c := range s.countries {
		pairs[i] = domain.KeyID{Key: c.Code, ID: int64(i + 1)}
	}
	return pairs, nil
}

func (s *fakeStore) InsertCities(_ context.Context, rows []domain.CityRow) error {
	s.calls = append(s.calls, "InsertCities")
	s.cities = append(s.cities, rows...)
	return s.fail("InsertCities")
}

func (s *fakeStore) CityIDs(context.Context) ([]domain.KeyID, error) {
	s.calls = append(s.calls, "CityIDs")
	if s.missing {
		return nil, nil
	}
	pairs := make([]domain.KeyID, len(s.cities))
	for i, c := range s.cities {
		pairs[i] = domain.KeyID{Key: c.Name, ID: int64(i + 1)}
	}
	return pairs, nil
}

func (s *fakeStore) InsertOriginLocations(_ context.Context, rows []domain.OriginLocationRow) error {
	s.calls = append(s.calls, "InsertOriginLocations")
	s.locations = append(s.locations, rows...)
	return s.fail("InsertOriginLocations")
}

func (s *fakeStore) OriginLocationIDs(context.Context) ([]domain.KeyID, error) {
	s.calls = append(s.calls, "OriginLocationIDs")
	if s.missing {
		return nil, nil
	}
	pairs := make([]domain.KeyID, 0, len(s.locations))
	for i, l := range s.locations {
		key, err := domain.CoordinateKey(l.Latitude, l.Longitude)
		if err != nil {
			continue
		}
		pairs = append(pairs, domain.KeyID{Key: key, ID: int64(i + 1)})
	}
	return pairs, nil
}

func (s *fakeStore) InsertPlants(_ context.Context, rows []domain.PlantRow) error {
	s.calls = append(s.calls, "InsertPlants")
	s.plants = append(s.plants, rows...)
	return s.fail("InsertPlants")
}

func (s *fakeStore) InsertBotanists(_ context.Context, rows []domain.BotanistRow) error {
	s.calls = append(s.calls, "InsertBotanists")
	s.botanists = append(s.botanists, rows...)
	return s.fail("InsertBotanists")
}

func seedBatch() []domain.RawPlantRecord {
	return []domain.RawPlantRecord{
		{
			PlantID:        json.Number("0"),
			Name:           "Epipremnum Aureum",
			OriginLocation: []string{"51.50741", "-0.127584", "London", "GB", "Europe/London"},
			Botanist:       domain.Botanist{Name: "Carl Linnaeus", Email: "carl.linnaeus@lnhm.co.uk"},
		},
		{
			PlantID:        json.Number("1"),
			Name:           "Venus flytrap",
			OriginLocation: []string{"13.70167", "100.50144", "Bangkok", "TH", "Asia/Bangkok"},
			Botanist:       domain.Botanist{Name: "Gertrude Jekyll", Email: "gertrude.jekyll@lnhm.co.uk"},
		},
	}
}

func TestSeeder_Run(t *testing.T) {
	t.Run("dependency order", func(t *testing.T) {
		store := &fakeStore{}
		s := seeding.New(store, slog.Default())

		require.NoError(t, s.Run(context.Background(), seedBatch()))

		assert.Equal(t, []string{
			"InsertCountries", "CountryIDs",
			"InsertCities", "CityIDs",
			"InsertOriginLocations", "OriginLocationIDs",
			"InsertPlants", "InsertBotanists",
		}, store.calls)
	})

	t.Run("foreign keys resolved through store-assigned ids", func(t *testing.T) {
		store := &fakeStore{}
		s := seeding.New(store, slog.Default())

		require.NoError(t, s.Run(context.Background(), seedBatch()))

		require.Len(t, store.cities, 2)
		require.NotNil(t, store.cities[0].CountryID)
		assert.Equal(t, int64(1), *store.cities[0].CountryID)
		require.NotNil(t, store.cities[1].CountryID)
		assert.Equal(t, int64(2), *store.cities[1].CountryID)

		require.Len(t, store.plants, 2)
		require.NotNil(t, store.plants[0].OriginLocationID)
		assert.Equal(t, int64(1), *store.plants[0].OriginLocationID)

		require.Len(t, store.botanists, 2)
		assert.Equal(t, "carl.linnaeus@lnhm.co.uk", store.botanists[0].Email)
	})

	t.Run("empty id queries degrade to nil foreign keys", func(t *testing.T) {
		store := &fakeStore{missing: true}
		s := seeding.New(store, slog.Default())

		require.NoError(t, s.Run(context.Background(), seedBatch()))

		for _, city := range store.cities {
			assert.Nil(t, city.CountryID)
		}
		for _, plant := range store.plants {
			assert.Nil(t, plant.OriginLocationID)
		}
	})

	t.Run("insert failure stops the run", func(t *testing.T) {
		store := &fakeStore{failOn: "InsertCities"}
		s := seeding.New(store, slog.Default())

		err := s.Run(context.Background(), seedBatch())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "inserting cities")
		assert.NotContains(t, store.calls, "InsertPlants")
	})

	t.Run("bad plant id fails before plant insert", func(t *testing.T) {
		batch := seedBatch()
		batch[0].PlantID = json.Number("zero")
		store := &fakeStore{}
		s := seeding.New(store, slog.Default())

		err := s.Run(context.Background(), batch)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "extracting plants")
		assert.NotContains(t, store.calls, "InsertPlants")
	})
}
