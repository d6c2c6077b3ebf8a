package mssql

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/cacareco/plant-data-etl/internal/domain"
)

// Store is the SQL Server warehouse adapter. It implements pipeline.Loader,
// pipeline.BotanistMapper, seeding.ReferenceStore, and archive.StatusQuerier.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewStore opens a connection to the warehouse.
func NewStore(dsn string, log *slog.Logger) (*Store, error) {
	db, err := gorm.Open(sqlserver.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlserver connection: %w", err)
	}
	return &Store{db: db, logger: log}, nil
}

// Migrate creates or updates the schema.
func (s *Store) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(
		&country{},
		&city{},
		&originLocation{},
		&plant{},
		&botanist{},
		&plantStatus{},
	)
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// insertIgnoringDuplicates bulk-inserts rows, skipping ones whose natural key
// already exists so seeding runs are idempotent.
func insertIgnoringDuplicates[T any](ctx context.Context, db *gorm.DB, rows []T, naturalKey ...string) error {
	if len(rows) == 0 {
		return nil
	}
	conflict := clause.OnConflict{DoNothing: true}
	for _, col := range naturalKey {
		conflict.Columns = append(conflict.Columns, clause.Column{Name: col})
	}
	return db.WithContext(ctx).
		Clauses(conflict).
		CreateInBatches(rows, 100).Error
}

// --- seeding.ReferenceStore ---

func (s *Store) InsertCountries(ctx context.Context, rows []domain.CountryRow) error {
	models := make([]country, len(rows))
	for i, r := range rows {
		models[i] = country{CountryCode: r.Code}
	}
	return insertIgnoringDuplicates(ctx, s.db, models, "country_code")
}

func (s *Store) CountryIDs(ctx context.Context) ([]domain.KeyID, error) {
	var models []country
	if err := s.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("querying countries: %w", err)
	}
	pairs := make([]domain.KeyID, len(models))
	for i, m := range models {
		pairs[i] = domain.KeyID{Key: m.CountryCode, ID: m.CountryID}
	}
	return pairs, nil
}

func (s *Store) InsertCities(ctx context.Context, rows []domain.CityRow) error {
	models := make([]city, len(rows))
	for i, r := range rows {
		models[i] = city{CityName: r.Name, CountryID: r.CountryID, Timezone: r.Timezone}
	}
	return insertIgnoringDuplicates(ctx, s.db, models, "city_name")
}

func (s *Store) CityIDs(ctx context.Context) ([]domain.KeyID, error) {
	var models []city
	if err := s.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("querying cities: %w", err)
	}
	pairs := make([]domain.KeyID, len(models))
	for i, m := range models {
		pairs[i] = domain.KeyID{Key: m.CityName, ID: m.CityID}
	}
	return pairs, nil
}

func (s *Store) InsertOriginLocations(ctx context.Context, rows []domain.OriginLocationRow) error {
	models := make([]originLocation, len(rows))
	for i, r := range rows {
		models[i] = originLocation{Latitude: r.Latitude, Longitude: r.Longitude, CityID: r.CityID}
	}
	return insertIgnoringDuplicates(ctx, s.db, models, "latitude", "longitude")
}

// OriginLocationIDs keys each stored location by the normalized coordinate
// key. Normalization happens here rather than in SQL so the lookup side and
// the build side share one implementation. Rows whose stored coordinates no
// longer parse are skipped.
func (s *Store) OriginLocationIDs(ctx context.Context) ([]domain.KeyID, error) {
	var models []originLocation
	if err := s.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("querying origin locations: %w", err)
	}
	pairs := make([]domain.KeyID, 0, len(models))
	for _, m := range models {
		key, err := domain.CoordinateKey(m.Latitude, m.Longitude)
		if err != nil {
			s.logger.Warn("skipping unparsable stored coordinates",
				"origin_location_id", m.OriginLocationID, "error", err)
			continue
		}
		pairs = append(pairs, domain.KeyID{Key: key, ID: m.OriginLocationID})
	}
	return pairs, nil
}

func (s *Store) InsertPlants(ctx context.Context, rows []domain.PlantRow) error {
	models := make([]plant, len(rows))
	for i, r := range rows {
		models[i] = plant{
			PlantID:          r.ID,
			PlantName:        r.Name,
			ScientificName:   r.ScientificName,
			OriginLocationID: r.OriginLocationID,
			ImageURL:         r.ImageURL,
		}
	}
	return insertIgnoringDuplicates(ctx, s.db, models, "plant_id")
}

func (s *Store) InsertBotanists(ctx context.Context, rows []domain.BotanistRow) error {
	models := make([]botanist, len(rows))
	for i, r := range rows {
		models[i] = botanist{BotanistName: r.Name, BotanistEmail: r.Email, BotanistPhone: r.Phone}
	}
	return insertIgnoringDuplicates(ctx, s.db, models, "botanist_email")
}

// --- pipeline.BotanistMapper ---

func (s *Store) BotanistMapping(ctx context.Context) (domain.Mapping, error) {
	var models []botanist
	if err := s.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("querying botanists: %w", err)
	}
	pairs := make([]domain.KeyID, len(models))
	for i, m := range models {
		pairs[i] = domain.KeyID{Key: m.BotanistEmail, ID: m.BotanistID}
	}
	return domain.BuildMapping(pairs), nil
}

// --- pipeline.Loader ---

// LoadStatusBatch writes one cycle's rows in a single transaction: either
// every row of the batch lands or none do.
func (s *Store) LoadStatusBatch(ctx context.Context, rows []domain.PlantStatusRow) error {
	if len(rows) == 0 {
		return nil
	}
	models := make([]plantStatus, len(rows))
	for i, r := range rows {
		models[i] = plantStatus{
			BotanistID:     r.BotanistID,
			PlantID:        r.PlantID,
			RecordingTaken: r.RecordingTaken,
			SoilMoisture:   r.SoilMoisture,
			Temperature:    r.Temperature,
			LastWatered:    r.LastWatered,
		}
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(models, 100).Error
	})
}

// --- archive.StatusQuerier ---

// statusReadingRow is the scan target for the joined history query.
type statusReadingRow struct {
	PlantName      string
	BotanistName   string
	Latitude       string
	Longitude      string
	CityName       string
	CountryCode    string
	RecordingTaken time.Time
	SoilMoisture   float64
	Temperature    float64
	LastWatered    time.Time
}

// StatusReadings returns the joined readings recorded within [from, to),
// newest first.
func (s *Store) StatusReadings(ctx context.Context, from, to time.Time) ([]domain.Reading, error) {
	var rows []statusReadingRow
	err := s.db.WithContext(ctx).
		Table("plant_status").
		Select(`plant.plant_name,
			botanist.botanist_name,
			origin_location.latitude,
			origin_location.longitude,
			city.city_name,
			country.country_code,
			plant_status.recording_taken,
			plant_status.soil_moisture,
			plant_status.temperature,
			plant_status.last_watered`).
		Joins("JOIN plant ON plant.plant_id = plant_status.plant_id").
		Joins("JOIN botanist ON botanist.botanist_id = plant_status.botanist_id").
		Joins("LEFT JOIN origin_location ON origin_location.origin_location_id = plant.origin_location_id").
		Joins("LEFT JOIN city ON city.city_id = origin_location.city_id").
		Joins("LEFT JOIN country ON country.country_id = city.country_id").
		Where("plant_status.recording_taken >= ? AND plant_status.recording_taken < ?", from, to).
		Order("plant_status.recording_taken DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("querying status readings: %w", err)
	}

	readings := make([]domain.Reading, len(rows))
	for i, r := range rows {
		readings[i] = domain.Reading{
			PlantName:      r.PlantName,
			BotanistName:   r.BotanistName,
			RegionName:     regionName(r.Latitude, r.Longitude),
			CityName:       r.CityName,
			CountryName:    r.CountryCode,
			RecordingTaken: r.RecordingTaken,
			SoilMoisture:   r.SoilMoisture,
			Temperature:    r.Temperature,
			LastWatered:    r.LastWatered,
		}
	}
	return readings, nil
}

// regionName renders a coordinate pair for the archive's region column.
func regionName(lat, lon string) string {
	if lat == "" || lon == "" {
		return ""
	}
	return lat + "," + lon
}
