package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cacareco/plant-data-etl/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	PlantAPIURL      string
	PlantCount       int
	FetchConcurrency int
	PollInterval     time.Duration

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	ArchiveBucket string
	AWSRegion     string

	KafkaBrokers    []string
	KafkaAlertTopic string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	WateringInterval time.Duration
	SoilMoistureSafe domain.Range
	TemperatureSafe  domain.Range
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	pollInterval, err := parseDuration("POLL_INTERVAL", time.Minute)
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	wateringInterval, err := parseDuration("WATERING_INTERVAL", 36*time.Hour)
	if err != nil {
		return nil, err
	}

	plantCount, err := parseInt("PLANT_COUNT", 50)
	if err != nil {
		return nil, err
	}

	fetchConcurrency, err := parseInt("FETCH_CONCURRENCY", 10)
	if err != nil {
		return nil, err
	}

	dbPort, err := parseInt("DB_PORT", 1433)
	if err != nil {
		return nil, err
	}

	moistureSafe, err := parseRange("SOIL_MOISTURE_SAFE_MIN", "SOIL_MOISTURE_SAFE_MAX", domain.Range{Min: 20, Max: 80})
	if err != nil {
		return nil, err
	}

	temperatureSafe, err := parseRange("TEMPERATURE_SAFE_MIN", "TEMPERATURE_SAFE_MAX", domain.Range{Min: 9, Max: 30})
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		PlantAPIURL:      envOrDefault("PLANT_API_URL", "https://data-eng-plants-api.herokuapp.com"),
		PlantCount:       plantCount,
		FetchConcurrency: fetchConcurrency,
		PollInterval:     pollInterval,

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     dbPort,
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		ArchiveBucket: envOrDefault("ARCHIVE_BUCKET", "c15-cacareco-archive"),
		AWSRegion:     envOrDefault("AWS_REGION", "eu-west-2"),

		KafkaBrokers:    parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaAlertTopic: envOrDefault("KAFKA_ALERT_TOPIC", "plant-health-alerts"),

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		WateringInterval: wateringInterval,
		SoilMoistureSafe: moistureSafe,
		TemperatureSafe:  temperatureSafe,
	}

	if _, err := url.Parse(cfg.PlantAPIURL); err != nil {
		return nil, fmt.Errorf("invalid PLANT_API_URL: %w", err)
	}
	if cfg.PlantCount <= 0 {
		return nil, errors.New("PLANT_COUNT must be positive")
	}
	if cfg.FetchConcurrency <= 0 {
		return nil, errors.New("FETCH_CONCURRENCY must be positive")
	}
	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaAlertTopic == "" {
		return nil, errors.New("KAFKA_ALERT_TOPIC is required")
	}

	return cfg, nil
}

// DSN builds the SQL Server connection string. Database credentials are not
// validated in Load so the archive and report jobs can run without them;
// callers that need the database check RequireDB first.
func (c *Config) DSN() string {
	return fmt.Sprintf("sqlserver://%s:%s@%s:%d?database=%s",
		url.QueryEscape(c.DBUser), url.QueryEscape(c.DBPassword), c.DBHost, c.DBPort, c.DBName)
}

// RequireDB errors when any database credential is missing.
func (c *Config) RequireDB() error {
	switch {
	case c.DBHost == "":
		return errors.New("DB_HOST is required")
	case c.DBUser == "":
		return errors.New("DB_USER is required")
	case c.DBPassword == "":
		return errors.New("DB_PASSWORD is required")
	case c.DBName == "":
		return errors.New("DB_NAME is required")
	}
	return nil
}

// Thresholds returns the alert rule configuration.
func (c *Config) Thresholds() domain.HealthThresholds {
	return domain.HealthThresholds{
		WateringInterval: c.WateringInterval,
		SoilMoistureSafe: c.SoilMoistureSafe,
		TemperatureSafe:  c.TemperatureSafe,
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func parseInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func parseRange(minKey, maxKey string, fallback domain.Range) (domain.Range, error) {
	min, err := parseFloat(minKey, fallback.Min)
	if err != nil {
		return domain.Range{}, err
	}
	max, err := parseFloat(maxKey, fallback.Max)
	if err != nil {
		return domain.Range{}, err
	}
	if min > max {
		return domain.Range{}, fmt.Errorf("%s must not exceed %s", minKey, maxKey)
	}
	return domain.Range{Min: min, Max: max}, nil
}
