package domain

import (
	"errors"
	"fmt"
)

// ErrRecordRejected marks a raw record that failed validation. Rejection is
// whole-record and fail-closed: a single bad field discards the entire
// reading, no partial row is ever emitted.
var ErrRecordRejected = errors.New("record rejected")

// TransformStatus converts one raw API record into a storable status row.
// The record is accepted only if every field is present and valid: plant id
// numeric, both timestamps parseable, soil moisture and temperature inside
// their sensor domains, and the botanist email resolvable to a surrogate id.
// The returned error wraps ErrRecordRejected with the failing field.
func TransformStatus(raw RawPlantRecord, botanists Mapping) (PlantStatusRow, error) {
	plantID, err := raw.PlantID.Int64()
	if err != nil {
		return PlantStatusRow{}, rejectf("plant_id %q: %v", raw.PlantID, err)
	}

	recordingTaken, err := ParseTimestamp(raw.RecordingTaken, LayoutRecordingTaken)
	if err != nil {
		return PlantStatusRow{}, rejectf("recording_taken: %v", err)
	}
	if recordingTaken == nil {
		return PlantStatusRow{}, rejectf("recording_taken missing")
	}

	lastWatered, err := ParseTimestamp(raw.LastWatered, LayoutLastWatered)
	if err != nil {
		return PlantStatusRow{}, rejectf("last_watered: %v", err)
	}
	if lastWatered == nil {
		return PlantStatusRow{}, rejectf("last_watered missing")
	}

	soilMoisture := ValidateSoilMoisture(raw.SoilMoisture)
	if soilMoisture == nil {
		return PlantStatusRow{}, rejectf("soil_moisture out of domain")
	}

	temperature := ValidateTemperature(raw.Temperature)
	if temperature == nil {
		return PlantStatusRow{}, rejectf("temperature out of domain")
	}

	botanistID := botanists.Resolve(raw.Botanist.Email)
	if botanistID == nil {
		return PlantStatusRow{}, rejectf("unresolved botanist %q", raw.Botanist.Email)
	}

	return PlantStatusRow{
		BotanistID:     *botanistID,
		PlantID:        plantID,
		RecordingTaken: *recordingTaken,
		SoilMoisture:   *soilMoisture,
		Temperature:    *temperature,
		LastWatered:    *lastWatered,
	}, nil
}

func rejectf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrRecordRejected, fmt.Sprintf(format, args...))
}
