package domain

import (
	"encoding/json"
	"time"
)

// Indices into the origin_location array returned by the plant API.
const (
	originLatitude = iota
	originLongitude
	originCity
	originCountryCode
	originTimezone
)

// RawPlantRecord is the JSON document returned by the plant API for one plant.
// It is ephemeral: parsed per fetch and never persisted in this shape.
type RawPlantRecord struct {
	PlantID        json.Number `json:"plant_id"`
	Name           string      `json:"name"`
	ScientificName string      `json:"scientific_name"`
	OriginLocation []string    `json:"origin_location"` // [lat, lon, city, country code, timezone]
	Botanist       Botanist    `json:"botanist"`
	Images         *Images     `json:"images"`
	LastWatered    string      `json:"last_watered"`
	RecordingTaken string      `json:"recording_taken"`
	SoilMoisture   *float64    `json:"soil_moisture"`
	Temperature    *float64    `json:"temperature"`
}

// Botanist is the nested botanist object; email is the natural key.
type Botanist struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Images holds the plant image links; only the original is kept.
type Images struct {
	OriginalURL string `json:"original_url"`
}

// origin returns the i-th origin_location element, or "" when the array is
// missing or too short.
func (r RawPlantRecord) origin(i int) string {
	if i >= len(r.OriginLocation) {
		return ""
	}
	return r.OriginLocation[i]
}

// PlantStatusRow is one accepted telemetry reading, ready for bulk insertion.
// All six fields are guaranteed present by TransformStatus.
type PlantStatusRow struct {
	BotanistID     int64
	PlantID        int64
	RecordingTaken time.Time
	SoilMoisture   float64
	Temperature    float64
	LastWatered    time.Time
}

// Reference entity rows produced by the seed extraction passes. Each is
// positionally aligned with its target table's insert columns.

// CountryRow holds a unique country code.
type CountryRow struct {
	Code string
}

// CityRow holds a unique city with its resolved country. A nil CountryID
// means the country was not present in the ID map at extraction time.
type CityRow struct {
	Name      string
	CountryID *int64
	Timezone  string
}

// OriginLocationRow holds a unique coordinate pair with its resolved city.
// Latitude and longitude stay strings exactly as the API sent them; rounding
// happens only when building coordinate lookup keys.
type OriginLocationRow struct {
	Latitude  string
	Longitude string
	CityID    *int64
}

// PlantRow holds one plant's reference data. ID is the upstream plant id,
// which is also the primary key of the plant table.
type PlantRow struct {
	ID               int64
	Name             string
	ScientificName   string
	OriginLocationID *int64
	ImageURL         *string
}

// BotanistRow holds a unique botanist keyed by email.
type BotanistRow struct {
	Name  string
	Email string
	Phone string
}

// Reading is one historical telemetry sample joined with its reference data,
// as written to and read back from the daily archive CSV.
type Reading struct {
	PlantName      string
	BotanistName   string
	RegionName     string
	CityName       string
	CountryName    string
	RecordingTaken time.Time
	SoilMoisture   float64
	Temperature    float64
	LastWatered    time.Time
}

// Issue identifies the health rule that produced an alert.
type Issue string

// Alert issues.
const (
	IssueNeedsWater   Issue = "needs_water"
	IssueSoilMoisture Issue = "soil_moisture"
	IssueTemperature  Issue = "temperature"
)

// AlertRecord is one health alert for one plant, ready for handoff to a
// notification collaborator. Issue-specific payload: TimeSinceWatered is set
// for needs_water; AverageValue and Values for the sustained metric issues.
type AlertRecord struct {
	PlantName        string        `json:"plant_name"`
	Issue            Issue         `json:"issue"`
	TimeSinceWatered time.Duration `json:"time_since_watered,omitempty"`
	AverageValue     float64       `json:"average_value,omitempty"`
	Values           []float64     `json:"values,omitempty"`
	GeneratedAt      time.Time     `json:"generated_at"`
}
