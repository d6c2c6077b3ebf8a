package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMapping(t *testing.T) {
	t.Run("pairs become lookups", func(t *testing.T) {
		m := BuildMapping([]KeyID{{"GB", 1}, {"US", 2}})

		id := m.Resolve("GB")
		require.NotNil(t, id)
		assert.Equal(t, int64(1), *id)
	})

	t.Run("duplicate key last occurrence wins", func(t *testing.T) {
		m := BuildMapping([]KeyID{{"GB", 1}, {"GB", 7}})

		id := m.Resolve("GB")
		require.NotNil(t, id)
		assert.Equal(t, int64(7), *id)
	})

	t.Run("absent key resolves to nil", func(t *testing.T) {
		m := BuildMapping(nil)
		assert.Nil(t, m.Resolve("FR"))
	})
}

func TestCoordinateKey(t *testing.T) {
	tests := []struct {
		name string
		lat  string
		lon  string
		want string
	}{
		{"plain", "51.5", "-0.12", "51.5,-0.12"},
		{"rounded to three places", "51.50741", "-0.127584", "51.507,-0.128"},
		{"trailing zeros trimmed", "13.700000", "100.500000", "13.7,100.5"},
		{"integer loses the dot", "14.000", "-87.0", "14,-87"},
		{"already three places", "-19.326", "-41.254", "-19.326,-41.254"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CoordinateKey(tt.lat, tt.lon)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("non-numeric coordinate", func(t *testing.T) {
		_, err := CoordinateKey("north", "-0.12")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse coordinate")
	})

	t.Run("same rule on both sides of the map", func(t *testing.T) {
		stored, err := CoordinateKey("51.507000", "-0.128000")
		require.NoError(t, err)
		queried, err := CoordinateKey("51.50741", "-0.127584")
		require.NoError(t, err)

		m := BuildMapping([]KeyID{{stored, 42}})
		id := m.Resolve(queried)
		require.NotNil(t, id)
		assert.Equal(t, int64(42), *id)
	})
}
