package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// KeyID is one (natural key, surrogate id) pair from a storage query.
type KeyID struct {
	Key string
	ID  int64
}

// Mapping is a natural-key → surrogate-id lookup built once per batch from a
// storage query result set. It is never mutated after construction.
type Mapping map[string]int64

// BuildMapping builds a Mapping from query result pairs. Keys are expected
// unique; if duplicates occur the last occurrence wins.
func BuildMapping(pairs []KeyID) Mapping {
	m := make(Mapping, len(pairs))
	for _, p := range pairs {
		m[p.Key] = p.ID
	}
	return m
}

// Resolve looks up a natural key. An absent key yields nil, not an error;
// callers treat an unresolved id as a validation failure for that record.
func (m Mapping) Resolve(key string) *int64 {
	id, ok := m[key]
	if !ok {
		return nil
	}
	return &id
}

// CoordinateKey builds the lookup key for an origin location from its
// coordinate strings: each value rounded to 3 decimal places with trailing
// zeros (and a trailing dot) trimmed, joined by a comma. The same rule is
// applied when building the map from stored rows and when querying it, so
// values tolerate float representation drift across the storage round-trip.
// A coordinate that does not parse as a number yields an error; callers
// treat that like an unresolvable key.
func CoordinateKey(lat, lon string) (string, error) {
	latKey, err := formatCoordinate(lat)
	if err != nil {
		return "", err
	}
	lonKey, err := formatCoordinate(lon)
	if err != nil {
		return "", err
	}
	return latKey + "," + lonKey, nil
}

func formatCoordinate(text string) (string, error) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return "", fmt.Errorf("parse coordinate %q: %w", text, err)
	}
	s := strconv.FormatFloat(v, 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, "."), nil
}
