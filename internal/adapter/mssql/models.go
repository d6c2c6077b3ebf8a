package mssql

import "time"

// GORM models for the reference and telemetry tables. Column names follow the
// warehouse schema, which predates this service.

type country struct {
	CountryID   int64  `gorm:"column:country_id;primaryKey"`
	CountryCode string `gorm:"column:country_code;size:4;uniqueIndex"`
}

func (country) TableName() string { return "country" }

type city struct {
	CityID    int64  `gorm:"column:city_id;primaryKey"`
	CityName  string `gorm:"column:city_name;size:128;uniqueIndex"`
	CountryID *int64 `gorm:"column:country_id"`
	Timezone  string `gorm:"column:timezone;size:64"`
}

func (city) TableName() string { return "city" }

type originLocation struct {
	OriginLocationID int64  `gorm:"column:origin_location_id;primaryKey"`
	Latitude         string `gorm:"column:latitude;size:32;uniqueIndex:idx_origin_coords"`
	Longitude        string `gorm:"column:longitude;size:32;uniqueIndex:idx_origin_coords"`
	CityID           *int64 `gorm:"column:city_id"`
}

func (originLocation) TableName() string { return "origin_location" }

// plant keeps the upstream plant id as its primary key, so no identity column.
type plant struct {
	PlantID          int64   `gorm:"column:plant_id;primaryKey;autoIncrement:false"`
	PlantName        string  `gorm:"column:plant_name;size:128"`
	ScientificName   string  `gorm:"column:scientific_name;size:128"`
	OriginLocationID *int64  `gorm:"column:origin_location_id"`
	ImageURL         *string `gorm:"column:image_url;size:512"`
}

func (plant) TableName() string { return "plant" }

type botanist struct {
	BotanistID    int64  `gorm:"column:botanist_id;primaryKey"`
	BotanistName  string `gorm:"column:botanist_name;size:128"`
	BotanistEmail string `gorm:"column:botanist_email;size:128;uniqueIndex"`
	BotanistPhone string `gorm:"column:botanist_phone;size:64"`
}

func (botanist) TableName() string { return "botanist" }

type plantStatus struct {
	PlantStatusID  int64     `gorm:"column:plant_status_id;primaryKey"`
	BotanistID     int64     `gorm:"column:botanist_id"`
	PlantID        int64     `gorm:"column:plant_id;index"`
	RecordingTaken time.Time `gorm:"column:recording_taken;index"`
	SoilMoisture   float64   `gorm:"column:soil_moisture"`
	Temperature    float64   `gorm:"column:temperature"`
	LastWatered    time.Time `gorm:"column:last_watered"`
}

func (plantStatus) TableName() string { return "plant_status" }
