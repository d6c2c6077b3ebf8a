package domain

import (
	"fmt"
	"time"
)

// Sensor domains. Values outside these bounds are sensor faults, not data.
const (
	SoilMoistureMin = 0.0
	SoilMoistureMax = 100.0
	TemperatureMin  = -50.0
	TemperatureMax  = 50.0
)

// Timestamp layouts used by the plant API.
const (
	LayoutRecordingTaken = "2006-01-02 15:04:05"
	LayoutLastWatered    = "Mon, 02 Jan 2006 15:04:05 MST"
)

// ValidateRange returns value unchanged when it is present and within
// [min, max] inclusive, nil otherwise. Absent input and out-of-domain input
// are treated identically: the reading is rejected, never clamped.
func ValidateRange(value *float64, min, max float64) *float64 {
	if value == nil || *value < min || *value > max {
		return nil
	}
	return value
}

// ValidateSoilMoisture checks a soil moisture percentage against [0, 100].
func ValidateSoilMoisture(value *float64) *float64 {
	return ValidateRange(value, SoilMoistureMin, SoilMoistureMax)
}

// ValidateTemperature checks a temperature in Celsius against [-50, 50].
func ValidateTemperature(value *float64) *float64 {
	return ValidateRange(value, TemperatureMin, TemperatureMax)
}

// ParseTimestamp parses text strictly against the given layout. Empty input
// yields (nil, nil): a missing timestamp is absent, not malformed. Non-empty
// input that does not match the layout is a parse error, surfaced to the
// caller rather than swallowed.
func ParseTimestamp(text, layout string) (*time.Time, error) {
	if text == "" {
		return nil, nil
	}
	t, err := time.Parse(layout, text)
	if err != nil {
		return nil, fmt.Errorf("parse timestamp %q: %w", text, err)
	}
	return &t, nil
}
