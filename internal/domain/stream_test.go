package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStationPrefetchEvent_Valid(t *testing.T) {
	tests := []struct {
		name     string
		event    StationPrefetchEvent
		expected bool
	}{
		{name: "delhi", event: StationPrefetchEvent{Lat: 28.6139, Lon: 77.2090, RadiusKm: 5}, expected: true},
		{name: "poles and antimeridian", event: StationPrefetchEvent{Lat: -90, Lon: 180}, expected: true},
		{name: "latitude out of range", event: StationPrefetchEvent{Lat: 90.1, Lon: 0}},
		{name: "longitude out of range", event: StationPrefetchEvent{Lat: 0, Lon: -180.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.event.Valid())
		})
	}
}

func TestStationPrefetchEvent_JSON(t *testing.T) {
	var event StationPrefetchEvent
	require.NoError(t, json.Unmarshal([]byte(`{"lat":19.076,"lon":72.8777,"radius_km":2.5}`), &event))
	assert.Equal(t, StationPrefetchEvent{Lat: 19.076, Lon: 72.8777, RadiusKm: 2.5}, event)
}
