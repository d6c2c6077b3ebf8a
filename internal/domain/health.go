package domain

import (
	"math"
	"sort"
	"time"
)

// sustainedWindow is how many of the most recent readings must all be out of
// a safe band before a metric alert fires. A single in-range reading inside
// the window suppresses the alert.
const sustainedWindow = 3

// Range is an inclusive safe band for a metric.
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v lies inside the band, bounds inclusive.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// HealthThresholds configures the alert rules. Historical deployments used
// both 24h and 36h watering intervals and both [20,80] and [20,98] moisture
// bands, so none of these are hardcoded.
type HealthThresholds struct {
	WateringInterval time.Duration
	SoilMoistureSafe Range
	TemperatureSafe  Range
}

// DefaultHealthThresholds returns the current production defaults.
func DefaultHealthThresholds() HealthThresholds {
	return HealthThresholds{
		WateringInterval: 36 * time.Hour,
		SoilMoistureSafe: Range{Min: 20, Max: 80},
		TemperatureSafe:  Range{Min: 9, Max: 30},
	}
}

// ReadingGroup is one plant's reading history, sorted newest-first by
// recording time.
type ReadingGroup struct {
	PlantName string
	Readings  []Reading
}

// GroupReadings groups a flat reading history by plant name and sorts each
// group newest-first, the shape EvaluateAlerts expects. Groups are ordered by
// plant name so evaluation output is deterministic.
func GroupReadings(readings []Reading) []ReadingGroup {
	byName := make(map[string][]Reading)
	for _, r := range readings {
		byName[r.PlantName] = append(byName[r.PlantName], r)
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([]ReadingGroup, 0, len(names))
	for _, name := range names {
		rs := byName[name]
		sort.SliceStable(rs, func(i, j int) bool {
			return rs[i].RecordingTaken.After(rs[j].RecordingTaken)
		})
		groups = append(groups, ReadingGroup{PlantName: name, Readings: rs})
	}
	return groups
}

// EvaluateAlerts runs every health rule over every group and returns the
// alerts due. Evaluation is stateless: nothing is suppressed or deduplicated
// against earlier runs, each run re-evaluates the visible history in full.
// A plant may emit up to three alerts per run, one per rule.
func EvaluateAlerts(groups []ReadingGroup, thresholds HealthThresholds) []AlertRecord {
	var alerts []AlertRecord
	now := clock.Now().UTC()

	for _, group := range groups {
		if len(group.Readings) == 0 {
			continue
		}

		head := group.Readings[0]
		if since := head.RecordingTaken.Sub(head.LastWatered); since > thresholds.WateringInterval {
			alerts = append(alerts, AlertRecord{
				PlantName:        group.PlantName,
				Issue:            IssueNeedsWater,
				TimeSinceWatered: since,
				GeneratedAt:      now,
			})
		}

		if len(group.Readings) < sustainedWindow {
			continue
		}
		window := group.Readings[:sustainedWindow]

		if alert, ok := sustainedAlert(group.PlantName, IssueSoilMoisture, window, soilMoisture, thresholds.SoilMoistureSafe); ok {
			alert.GeneratedAt = now
			alerts = append(alerts, alert)
		}
		if alert, ok := sustainedAlert(group.PlantName, IssueTemperature, window, temperature, thresholds.TemperatureSafe); ok {
			alert.GeneratedAt = now
			alerts = append(alerts, alert)
		}
	}
	return alerts
}

func soilMoisture(r Reading) float64 { return r.SoilMoisture }
func temperature(r Reading) float64  { return r.Temperature }

// sustainedAlert fires only when every value in the window is outside the
// safe band. The alert carries the window's mean and raw values, all rounded
// to 2 decimal places.
func sustainedAlert(plantName string, issue Issue, window []Reading, metric func(Reading) float64, safe Range) (AlertRecord, bool) {
	values := make([]float64, len(window))
	sum := 0.0
	for i, r := range window {
		v := metric(r)
		if safe.Contains(v) {
			return AlertRecord{}, false
		}
		values[i] = round2(v)
		sum += v
	}
	return AlertRecord{
		PlantName:    plantName,
		Issue:        issue,
		AverageValue: round2(sum / float64(len(window))),
		Values:       values,
	}, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
