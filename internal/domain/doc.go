// Package domain models plant sensor telemetry from the LMNH plant API.
//
// # Data Source
//
// Each plant on display carries a soil moisture and temperature sensor that
// reports through a per-plant HTTP endpoint (GET /plants/<id>). The API
// returns one JSON document per plant with the latest reading plus the
// plant's static reference data (origin location, assigned botanist).
//
// # API Data Conventions
//
// Origin location format:
//
//	A five-element string array: [latitude, longitude, city, country code, timezone]
//	e.g. ["33.95015", "-118.03917", "South Whittier", "US", "America/Los_Angeles"].
//	All elements are strings, any may be absent; short or missing arrays are
//	tolerated and yield absent fields.
//
// Timestamp formats:
//
//	recording_taken: "2006-01-02 15:04:05" (no zone, taken as UTC)
//	last_watered:    "Mon, 02 Jan 2006 15:04:05 MST" (RFC-1123 style)
//
// Sensor domains:
//
//	soil_moisture: percentage, valid within [0, 100] inclusive
//	temperature:   degrees Celsius, valid within [-50, 50] inclusive
//	Readings outside the valid domain (or missing) are rejected, never
//	clamped; a single invalid field rejects the whole record.
//
// # Natural Keys and Coordinate Normalization
//
// Reference entities deduplicate on natural keys before surrogate IDs are
// assigned by storage: country code, city name, (lat, lon) pair, botanist
// email, plant id. Coordinate keys are rounded to 3 decimal places with
// trailing zeros trimmed ("33.95015" → "33.95") so that values survive a
// round-trip through the database's decimal columns. The same rule is
// applied when building an ID map and when querying it; see [CoordinateKey].
//
// # Health Alert Rules
//
// Alerts are evaluated per plant over a newest-first reading history:
//
//	needs_water:   most recent recording_taken minus last_watered exceeds
//	               the watering interval (default 36h, configurable).
//	soil_moisture: all of the last 3 readings outside the safe band
//	               (default [20, 80]).
//	temperature:   all of the last 3 readings outside the safe band
//	               (default [9, 30]).
//
// The sustained 3-sample rule suppresses single-sample sensor glitches.
// Evaluation is stateless: every run re-evaluates the full visible window
// and repeat alerts are not deduplicated.
package domain
