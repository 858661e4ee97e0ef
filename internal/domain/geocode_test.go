package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- mock geocoder ---

type mockGeocoder struct {
	results map[LocationKey]GeocodingResult
	err     error
	calls   int
}

func (m *mockGeocoder) ReverseGeocode(_ context.Context, lat, lon float64) (GeocodingResult, error) {
	m.calls++
	if m.err != nil {
		return GeocodingResult{}, m.err
	}
	return m.results[NewLocationKey(lat, lon)], nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func rankedAt(coords ...Coordinate) []ScoredLocation {
	out := make([]ScoredLocation, len(coords))
	for i, c := range coords {
		key := NewLocationKey(c.Lat, c.Lon)
		out[i] = ScoredLocation{FusedLocation: *newFusedLocation(key), Score: 1}
	}
	return out
}

// --- tests ---

func TestEnrichWithPlaceNames_NilGeocoder(t *testing.T) {
	ranked := rankedAt(Coordinate{Lat: 31, Lon: -99})

	EnrichWithPlaceNames(context.Background(), ranked, nil, 10, discardLogger())

	assert.Empty(t, ranked[0].PlaceName)
}

func TestEnrichWithPlaceNames_LimitsLookups(t *testing.T) {
	austin := Coordinate{Lat: 30.2672, Lon: -97.7431}
	midland := Coordinate{Lat: 31.9973, Lon: -102.0779}
	geo := &mockGeocoder{results: map[LocationKey]GeocodingResult{
		NewLocationKey(austin.Lat, austin.Lon):   {PlaceName: "Austin", FormattedAddress: "Austin, Texas, United States"},
		NewLocationKey(midland.Lat, midland.Lon): {FormattedAddress: "Midland, Texas, United States"},
	}}
	ranked := rankedAt(austin, midland, Coordinate{Lat: 40, Lon: -100})

	EnrichWithPlaceNames(context.Background(), ranked, geo, 2, discardLogger())

	assert.Equal(t, 2, geo.calls)
	assert.Equal(t, "Austin", ranked[0].PlaceName)
	assert.Equal(t, "Midland, Texas, United States", ranked[1].PlaceName, "falls back to formatted address")
	assert.Empty(t, ranked[2].PlaceName)
}

func TestEnrichWithPlaceNames_ErrorDegrades(t *testing.T) {
	geo := &mockGeocoder{err: errors.New("api down")}
	ranked := rankedAt(Coordinate{Lat: 31, Lon: -99}, Coordinate{Lat: 32, Lon: -98})

	EnrichWithPlaceNames(context.Background(), ranked, geo, 10, discardLogger())

	assert.Equal(t, 2, geo.calls)
	assert.Empty(t, ranked[0].PlaceName)
	assert.Empty(t, ranked[1].PlaceName)
}

func TestEnrichWithPlaceNames_CancelledContext(t *testing.T) {
	geo := &mockGeocoder{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	EnrichWithPlaceNames(ctx, rankedAt(Coordinate{Lat: 31, Lon: -99}), geo, 10, discardLogger())

	assert.Equal(t, 0, geo.calls)
}
