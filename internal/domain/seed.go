package domain

import "fmt"

// Seed extraction passes. Each pass is pure and order-preserving: duplicates
// by natural key are dropped, first occurrence wins. Passes must run in
// dependency order (countries, cities, origin locations, then plants and
// botanists) because each map argument is built from the ids the store
// assigned in the previous pass, not from the pass's own output.

// ExtractCountries returns the unique country codes in first-seen order.
// Records without a country code are skipped.
func ExtractCountries(batch []RawPlantRecord) []CountryRow {
	var rows []CountryRow
	seen := make(map[string]struct{})
	for _, raw := range batch {
		code := raw.origin(originCountryCode)
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		rows = append(rows, CountryRow{Code: code})
	}
	return rows
}

// ExtractCities returns the unique cities, keyed by name, with country ids
// resolved through countries. A city whose country code is not in the map
// gets a nil CountryID rather than failing the pass.
func ExtractCities(batch []RawPlantRecord, countries Mapping) []CityRow {
	var rows []CityRow
	seen := make(map[string]struct{})
	for _, raw := range batch {
		name := raw.origin(originCity)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		rows = append(rows, CityRow{
			Name:      name,
			CountryID: countries.Resolve(raw.origin(originCountryCode)),
			Timezone:  raw.origin(originTimezone),
		})
	}
	return rows
}

// ExtractOriginLocations returns the unique coordinate pairs, keyed by the
// raw (latitude, longitude) strings, with city ids resolved through cities.
func ExtractOriginLocations(batch []RawPlantRecord, cities Mapping) []OriginLocationRow {
	var rows []OriginLocationRow
	seen := make(map[[2]string]struct{})
	for _, raw := range batch {
		lat, lon := raw.origin(originLatitude), raw.origin(originLongitude)
		if lat == "" || lon == "" {
			continue
		}
		key := [2]string{lat, lon}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		rows = append(rows, OriginLocationRow{
			Latitude:  lat,
			Longitude: lon,
			CityID:    cities.Resolve(raw.origin(originCity)),
		})
	}
	return rows
}

// ExtractPlants returns one row per unique plant id, with origin location ids
// resolved through the normalized coordinate key. A plant id that fails to
// parse aborts the pass: plant_id is the primary key of the plant table, so a
// bad one is a structural failure, not a droppable record.
func ExtractPlants(batch []RawPlantRecord, locations Mapping) ([]PlantRow, error) {
	var rows []PlantRow
	seen := make(map[int64]struct{})
	for _, raw := range batch {
		id, err := raw.PlantID.Int64()
		if err != nil {
			return nil, fmt.Errorf("parsing plant id %q: %w", raw.PlantID, err)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		var locationID *int64
		lat, lon := raw.origin(originLatitude), raw.origin(originLongitude)
		if lat != "" && lon != "" {
			if key, err := CoordinateKey(lat, lon); err == nil {
				locationID = locations.Resolve(key)
			}
		}

		var imageURL *string
		if raw.Images != nil && raw.Images.OriginalURL != "" {
			url := raw.Images.OriginalURL
			imageURL = &url
		}

		rows = append(rows, PlantRow{
			ID:               id,
			Name:             raw.Name,
			ScientificName:   raw.ScientificName,
			OriginLocationID: locationID,
			ImageURL:         imageURL,
		})
	}
	return rows, nil
}

// ExtractBotanists returns the unique botanists keyed by email, first-seen
// name and phone winning. Records without an email are skipped.
func ExtractBotanists(batch []RawPlantRecord) []BotanistRow {
	var rows []BotanistRow
	seen := make(map[string]struct{})
	for _, raw := range batch {
		email := raw.Botanist.Email
		if email == "" {
			continue
		}
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		rows = append(rows, BotanistRow{
			Name:  raw.Botanist.Name,
			Email: email,
			Phone: raw.Botanist.Phone,
		})
	}
	return rows
}
