package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversine_SamePoint(t *testing.T) {
	p := Coordinates{Latitude: 40.7506, Longitude: -73.9971}
	assert.Equal(t, 0.0, Haversine(p, p))
}

func TestHaversine_KnownDistances(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Coordinates
		expected float64 // miles
		delta    float64
	}{
		{
			name:     "Manhattan to downtown LA",
			a:        Coordinates{Latitude: 40.7506, Longitude: -73.9971},
			b:        Coordinates{Latitude: 33.9731, Longitude: -118.2479},
			expected: 2445,
			delta:    15,
		},
		{
			name:     "Chicago Loop to Milwaukee",
			a:        Coordinates{Latitude: 41.8781, Longitude: -87.6298},
			b:        Coordinates{Latitude: 43.0389, Longitude: -87.9065},
			expected: 81,
			delta:    3,
		},
		{
			name:     "one degree of latitude",
			a:        Coordinates{Latitude: 40.0, Longitude: -75.0},
			b:        Coordinates{Latitude: 41.0, Longitude: -75.0},
			expected: 69.1,
			delta:    0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Haversine(tt.a, tt.b), tt.delta)
		})
	}
}

func TestHaversine_Symmetric(t *testing.T) {
	a := Coordinates{Latitude: 39.9526, Longitude: -75.1652}
	b := Coordinates{Latitude: 40.4406, Longitude: -79.9959}
	assert.InDelta(t, Haversine(a, b), Haversine(b, a), 1e-9)
}
