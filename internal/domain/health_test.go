package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reading(name string, taken, watered time.Time, moisture, temp float64) Reading {
	return Reading{
		PlantName:      name,
		RecordingTaken: taken,
		LastWatered:    watered,
		SoilMoisture:   moisture,
		Temperature:    temp,
	}
}

func TestGroupReadings(t *testing.T) {
	base := time.Date(2025, 2, 4, 12, 0, 0, 0, time.UTC)

	readings := []Reading{
		reading("Venus flytrap", base.Add(-2*time.Hour), base, 50, 20),
		reading("Aloe vera", base, base, 50, 20),
		reading("Venus flytrap", base, base, 50, 20),
		reading("Venus flytrap", base.Add(-time.Hour), base, 50, 20),
	}

	groups := GroupReadings(readings)

	require.Len(t, groups, 2)
	assert.Equal(t, "Aloe vera", groups[0].PlantName)
	assert.Equal(t, "Venus flytrap", groups[1].PlantName)

	fly := groups[1].Readings
	require.Len(t, fly, 3)
	assert.True(t, fly[0].RecordingTaken.After(fly[1].RecordingTaken))
	assert.True(t, fly[1].RecordingTaken.After(fly[2].RecordingTaken))
}

func TestEvaluateAlerts(t *testing.T) {
	now := time.Date(2025, 2, 4, 14, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(now))
	t.Cleanup(func() { SetClock(nil) })

	thresholds := DefaultHealthThresholds()
	base := time.Date(2025, 2, 4, 12, 0, 0, 0, time.UTC)

	t.Run("needs water past the interval", func(t *testing.T) {
		groups := []ReadingGroup{{
			PlantName: "Venus flytrap",
			Readings:  []Reading{reading("Venus flytrap", base, base.Add(-40*time.Hour), 50, 20)},
		}}

		alerts := EvaluateAlerts(groups, thresholds)

		require.Len(t, alerts, 1)
		assert.Equal(t, IssueNeedsWater, alerts[0].Issue)
		assert.Equal(t, "Venus flytrap", alerts[0].PlantName)
		assert.Equal(t, 40*time.Hour, alerts[0].TimeSinceWatered)
		assert.Equal(t, now, alerts[0].GeneratedAt)
	})

	t.Run("recently watered stays quiet", func(t *testing.T) {
		groups := []ReadingGroup{{
			PlantName: "Venus flytrap",
			Readings:  []Reading{reading("Venus flytrap", base, base.Add(-12*time.Hour), 50, 20)},
		}}

		assert.Empty(t, EvaluateAlerts(groups, thresholds))
	})

	t.Run("sustained high temperature", func(t *testing.T) {
		groups := []ReadingGroup{{
			PlantName: "Cactus",
			Readings: []Reading{
				reading("Cactus", base, base, 50, 35),
				reading("Cactus", base.Add(-time.Hour), base, 50, 40),
				reading("Cactus", base.Add(-2*time.Hour), base, 50, 38),
			},
		}}

		alerts := EvaluateAlerts(groups, thresholds)

		require.Len(t, alerts, 1)
		assert.Equal(t, IssueTemperature, alerts[0].Issue)
		assert.Equal(t, 37.67, alerts[0].AverageValue)
		assert.Equal(t, []float64{35, 40, 38}, alerts[0].Values)
	})

	t.Run("one in-range reading suppresses the alert", func(t *testing.T) {
		groups := []ReadingGroup{{
			PlantName: "Cactus",
			Readings: []Reading{
				reading("Cactus", base, base, 50, 35),
				reading("Cactus", base.Add(-time.Hour), base, 50, 25),
				reading("Cactus", base.Add(-2*time.Hour), base, 50, 38),
			},
		}}

		assert.Empty(t, EvaluateAlerts(groups, thresholds))
	})

	t.Run("sustained low soil moisture", func(t *testing.T) {
		groups := []ReadingGroup{{
			PlantName: "Fern",
			Readings: []Reading{
				reading("Fern", base, base, 12.345, 20),
				reading("Fern", base.Add(-time.Hour), base, 10, 20),
				reading("Fern", base.Add(-2*time.Hour), base, 8.5, 20),
			},
		}}

		alerts := EvaluateAlerts(groups, thresholds)

		require.Len(t, alerts, 1)
		assert.Equal(t, IssueSoilMoisture, alerts[0].Issue)
		assert.Equal(t, 10.28, alerts[0].AverageValue)
		assert.Equal(t, []float64{12.35, 10, 8.5}, alerts[0].Values)
	})

	t.Run("only the newest three readings count", func(t *testing.T) {
		groups := []ReadingGroup{{
			PlantName: "Fern",
			Readings: []Reading{
				reading("Fern", base, base, 10, 20),
				reading("Fern", base.Add(-time.Hour), base, 10, 20),
				reading("Fern", base.Add(-2*time.Hour), base, 10, 20),
				reading("Fern", base.Add(-3*time.Hour), base, 50, 20),
			},
		}}

		alerts := EvaluateAlerts(groups, thresholds)
		require.Len(t, alerts, 1)
		assert.Equal(t, IssueSoilMoisture, alerts[0].Issue)
	})

	t.Run("two readings get watering check only", func(t *testing.T) {
		groups := []ReadingGroup{{
			PlantName: "Fern",
			Readings: []Reading{
				reading("Fern", base, base.Add(-48*time.Hour), 5, 40),
				reading("Fern", base.Add(-time.Hour), base.Add(-48*time.Hour), 5, 40),
			},
		}}

		alerts := EvaluateAlerts(groups, thresholds)
		require.Len(t, alerts, 1)
		assert.Equal(t, IssueNeedsWater, alerts[0].Issue)
	})

	t.Run("empty group skipped", func(t *testing.T) {
		assert.Empty(t, EvaluateAlerts([]ReadingGroup{{PlantName: "Ghost"}}, thresholds))
	})

	t.Run("multiple issues for one plant", func(t *testing.T) {
		watered := base.Add(-48 * time.Hour)
		groups := []ReadingGroup{{
			PlantName: "Swamp orchid",
			Readings: []Reading{
				reading("Swamp orchid", base, watered, 95, 35),
				reading("Swamp orchid", base.Add(-time.Hour), watered, 90, 40),
				reading("Swamp orchid", base.Add(-2*time.Hour), watered, 85, 38),
			},
		}}

		alerts := EvaluateAlerts(groups, thresholds)

		require.Len(t, alerts, 3)
		issues := []Issue{alerts[0].Issue, alerts[1].Issue, alerts[2].Issue}
		assert.Contains(t, issues, IssueNeedsWater)
		assert.Contains(t, issues, IssueSoilMoisture)
		assert.Contains(t, issues, IssueTemperature)
	})

	t.Run("configurable thresholds", func(t *testing.T) {
		tight := HealthThresholds{
			WateringInterval: 24 * time.Hour,
			SoilMoistureSafe: Range{Min: 20, Max: 98},
			TemperatureSafe:  Range{Min: 9, Max: 30},
		}
		groups := []ReadingGroup{{
			PlantName: "Fern",
			Readings: []Reading{
				reading("Fern", base, base.Add(-30*time.Hour), 95, 20),
				reading("Fern", base.Add(-time.Hour), base.Add(-30*time.Hour), 95, 20),
				reading("Fern", base.Add(-2*time.Hour), base.Add(-30*time.Hour), 95, 20),
			},
		}}

		alerts := EvaluateAlerts(groups, tight)

		require.Len(t, alerts, 1)
		assert.Equal(t, IssueNeedsWater, alerts[0].Issue)
	})
}
