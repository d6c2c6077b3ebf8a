package archive

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/cacareco/plant-data-etl/internal/domain"
)

// historyHeader is the fixed column order of an archive file. Readers written
// against older archives depend on it, so it never changes shape.
var historyHeader = []string{
	"plant_name",
	"botanist_name",
	"region_name",
	"city_name",
	"country_name",
	"recording_taken",
	"soil_moisture",
	"temperature",
	"last_watered",
}

// ArchiveKey returns the object key for the day containing t, one file per
// day grouped by year and month.
func ArchiveKey(t time.Time) string {
	return t.UTC().Format("2006/01/02") + "_hist.csv"
}

// WriteHistoryCSV writes readings as an archive CSV with the standard header.
func WriteHistoryCSV(w io.Writer, readings []domain.Reading) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(historyHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, r := range readings {
		record := []string{
			r.PlantName,
			r.BotanistName,
			r.RegionName,
			r.CityName,
			r.CountryName,
			r.RecordingTaken.UTC().Format(domain.LayoutRecordingTaken),
			strconv.FormatFloat(r.SoilMoisture, 'f', -1, 64),
			strconv.FormatFloat(r.Temperature, 'f', -1, 64),
			r.LastWatered.UTC().Format(domain.LayoutRecordingTaken),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing reading for %q: %w", r.PlantName, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadHistoryCSV parses an archive CSV back into readings, verifying the
// header before trusting any column positions.
func ReadHistoryCSV(r io.Reader) ([]domain.Reading, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(historyHeader)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i, want := range historyHeader {
		if header[i] != want {
			return nil, fmt.Errorf("unexpected header column %d: got %q, want %q", i, header[i], want)
		}
	}

	var readings []domain.Reading
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		reading, err := parseHistoryRow(record)
		if err != nil {
			return nil, err
		}
		readings = append(readings, reading)
	}
	return readings, nil
}

func parseHistoryRow(record []string) (domain.Reading, error) {
	recordingTaken, err := time.Parse(domain.LayoutRecordingTaken, record[5])
	if err != nil {
		return domain.Reading{}, fmt.Errorf("parsing recording_taken: %w", err)
	}
	soilMoisture, err := strconv.ParseFloat(record[6], 64)
	if err != nil {
		return domain.Reading{}, fmt.Errorf("parsing soil_moisture: %w", err)
	}
	temperature, err := strconv.ParseFloat(record[7], 64)
	if err != nil {
		return domain.Reading{}, fmt.Errorf("parsing temperature: %w", err)
	}
	lastWatered, err := time.Parse(domain.LayoutRecordingTaken, record[8])
	if err != nil {
		return domain.Reading{}, fmt.Errorf("parsing last_watered: %w", err)
	}

	return domain.Reading{
		PlantName:      record[0],
		BotanistName:   record[1],
		RegionName:     record[2],
		CityName:       record[3],
		CountryName:    record[4],
		RecordingTaken: recordingTaken,
		SoilMoisture:   soilMoisture,
		Temperature:    temperature,
		LastWatered:    lastWatered,
	}, nil
}
