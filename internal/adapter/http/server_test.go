package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpadapter "github.com/couchcryptid/geothermal-site-service/internal/adapter/http"
	"github.com/couchcryptid/geothermal-site-service/internal/adapter/export"
	"github.com/couchcryptid/geothermal-site-service/internal/domain"
	"github.com/couchcryptid/geothermal-site-service/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// --- fakes ---

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type fakeSnapshots struct {
	snap  *domain.Snapshot
	views *domain.Views
	err   error
}

func (f *fakeSnapshots) Snapshot() (*domain.Snapshot, error) { return f.snap, f.err }

func (f *fakeSnapshots) Views() (*domain.Views, error) {
	switch {
	case f.views != nil:
		return f.views, nil
	case f.snap != nil:
		return &f.snap.Views, nil
	default:
		return nil, pipeline.ErrNotLoaded
	}
}

type fakeGeocoder struct{}

func (fakeGeocoder) ReverseGeocode(_ context.Context, lat, _ float64) (domain.GeocodingResult, error) {
	return domain.GeocodingResult{PlaceName: fmt.Sprintf("Place %.0f", lat)}, nil
}

func ptr(v float64) *float64 { return &v }

var generatedAt = time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)

func location(lat, lon float64, temp, flow, grav *float64) domain.FusedLocation {
	return domain.FusedLocation{
		Key:         domain.NewLocationKey(lat, lon),
		Latitude:    lat,
		Longitude:   lon,
		Temperature: temp,
		HeatFlow:    flow,
		Gravity:     grav,
	}
}

// testSnapshot holds three locations: a hot complete site (score 1 with any
// weights), a cold partial site (score 0), and a partial site in between.
func testSnapshot() *domain.Snapshot {
	hot := location(31, -99, ptr(200), ptr(100), ptr(10))
	cold := location(30, -98, ptr(100), nil, ptr(0))
	mid := location(32, -97, ptr(150), ptr(50), nil)

	locations := []domain.FusedLocation{cold, hot, mid}
	wells := []domain.RawWellRecord{
		{Latitude: ptr(31), Longitude: ptr(-99), CorrectedTemperature: ptr(200), Depth: ptr(4000), State: "TX", OperationName: "Deep 1"},
		{Latitude: ptr(30), Longitude: ptr(-98), CorrectedTemperature: ptr(100), Depth: ptr(2000), State: "TX"},
	}
	summary, mapWells, temps := domain.NewWellView(wells)

	return &domain.Snapshot{
		Dataset: domain.Dataset{
			Locations:   locations,
			Complete:    []domain.FusedLocation{hot},
			Stats:       domain.ComputeStats(locations),
			GeneratedAt: generatedAt,
		},
		Views: domain.Views{
			Wells:            summary,
			MapWells:         mapWells,
			WellTemperatures: temps,
			Gravity: domain.SummarizeGravity([]domain.RawGravityStationRecord{
				{Longitude: -99, Latitude: 31, BouguerGravityAnomaly: 10},
				{Longitude: -98, Latitude: 30, BouguerGravityAnomaly: -4},
			}),
		},
	}
}

var defaultQuery = pipeline.Query{Weights: domain.DefaultWeights, Threshold: domain.DefaultMatchThreshold}

func newTestServer(snaps *fakeSnapshots, readyErr error, geocoder domain.Geocoder) *httpadapter.Server {
	ranker := pipeline.NewRanker(geocoder, 10, slog.Default())
	return httpadapter.NewServer(":0", snaps, &mockReadiness{err: readyErr}, ranker, defaultQuery, slog.Default())
}

func get(t *testing.T, srv http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

type locationsBody struct {
	Locations []struct {
		Latitude    float64  `json:"latitude"`
		Longitude   float64  `json:"longitude"`
		Temperature *float64 `json:"temperature"`
		HeatFlow    *float64 `json:"heatFlow"`
		Score       float64  `json:"score"`
		PlaceName   string   `json:"placeName"`
	} `json:"locations"`
	Stats       domain.DimensionStats  `json:"stats"`
	Weights     domain.CriteriaWeights `json:"weights"`
	Threshold   float64                `json:"threshold"`
	Complete    bool                   `json:"complete"`
	Candidates  int                    `json:"candidates"`
	GeneratedAt time.Time              `json:"generatedAt"`
}

func decodeLocations(t *testing.T, rec *httptest.ResponseRecorder) locationsBody {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body locationsBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// --- probes ---

func TestHealthzReturns200(t *testing.T) {
	rec := get(t, newTestServer(&fakeSnapshots{}, nil, nil), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := get(t, newTestServer(&fakeSnapshots{}, nil, nil), "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := get(t, newTestServer(&fakeSnapshots{}, errors.New("not ready yet"), nil), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(t, newTestServer(&fakeSnapshots{}, nil, nil), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

// --- locations ---

func TestLocations_Defaults(t *testing.T) {
	srv := newTestServer(&fakeSnapshots{snap: testSnapshot()}, nil, nil)

	body := decodeLocations(t, get(t, srv, "/api/locations"))

	require.Len(t, body.Locations, 1, "only the hot site clears 0.8")
	assert.InDelta(t, 31.0, body.Locations[0].Latitude, 1e-9)
	assert.InDelta(t, 1.0, body.Locations[0].Score, 1e-9)
	assert.Empty(t, body.Locations[0].PlaceName)
	assert.Equal(t, domain.DefaultWeights, body.Weights)
	assert.InDelta(t, 0.8, body.Threshold, 1e-12)
	assert.False(t, body.Complete)
	assert.Equal(t, 3, body.Candidates)
	assert.Equal(t, domain.Range{Min: 100, Max: 200}, body.Stats.Temperature)
	assert.True(t, generatedAt.Equal(body.GeneratedAt))
}

func TestLocations_CustomQuery(t *testing.T) {
	srv := newTestServer(&fakeSnapshots{snap: testSnapshot()}, nil, nil)

	body := decodeLocations(t, get(t, srv, "/api/locations?temperature=1&heatFlow=0&gravity=0&threshold=0"))

	require.Len(t, body.Locations, 3)
	// Temperature-only scores: hot 1, mid 0.5, cold 0.
	assert.InDelta(t, 1.0, body.Locations[0].Score, 1e-9)
	assert.InDelta(t, 0.5, body.Locations[1].Score, 1e-9)
	assert.InDelta(t, 0.0, body.Locations[2].Score, 1e-9)
	assert.InDelta(t, 30.0, body.Locations[2].Latitude, 1e-9)
}

func TestLocations_CompleteOnly(t *testing.T) {
	srv := newTestServer(&fakeSnapshots{snap: testSnapshot()}, nil, nil)

	body := decodeLocations(t, get(t, srv, "/api/locations?threshold=0&complete=true"))

	require.Len(t, body.Locations, 1)
	assert.InDelta(t, 31.0, body.Locations[0].Latitude, 1e-9)
	assert.True(t, body.Complete)
	assert.Equal(t, 1, body.Candidates)
}

func TestLocations_PlaceNames(t *testing.T) {
	srv := newTestServer(&fakeSnapshots{snap: testSnapshot()}, nil, fakeGeocoder{})

	body := decodeLocations(t, get(t, srv, "/api/locations?threshold=0"))

	require.Len(t, body.Locations, 3)
	assert.Equal(t, "Place 31", body.Locations[0].PlaceName)
}

func TestLocations_InvalidParams(t *testing.T) {
	srv := newTestServer(&fakeSnapshots{snap: testSnapshot()}, nil, nil)

	tests := []struct {
		name  string
		query string
	}{
		{"weight above one", "temperature=1.5"},
		{"negative weight", "gravity=-0.1"},
		{"threshold above one", "threshold=2"},
		{"not a number", "heatFlow=lots"},
		{"NaN", "threshold=NaN"},
		{"bad complete flag", "complete=maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, srv, "/api/locations?"+tt.query)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestLocations_LoadErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"empty result", domain.ErrNoValidLocations, http.StatusUnprocessableEntity},
		{"source unavailable", fmt.Errorf("load bht: %w", domain.ErrSourceUnavailable), http.StatusBadGateway},
		{"not loaded", pipeline.ErrNotLoaded, http.StatusServiceUnavailable},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(&fakeSnapshots{err: tt.err}, nil, nil)
			for _, path := range []string{"/api/locations", "/api/locations.geojson", "/api/locations.xlsx"} {
				rec := get(t, srv, path)
				assert.Equal(t, tt.status, rec.Code, path)
			}
		})
	}
}

func TestLocations_EmptyResultMessage(t *testing.T) {
	srv := newTestServer(&fakeSnapshots{err: domain.ErrNoValidLocations}, nil, nil)

	rec := get(t, srv, "/api/locations")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "No valid location data found", body["error"])
}

func TestLocationsGeoJSON(t *testing.T) {
	srv := newTestServer(&fakeSnapshots{snap: testSnapshot()}, nil, nil)

	rec := get(t, srv, "/api/locations.geojson?threshold=0.4")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.GeoJSONContentType, rec.Header().Get("Content-Type"))

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			ID string `json:"id"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	require.NotEmpty(t, fc.Features)
	assert.Equal(t, "31.0000,-99.0000", fc.Features[0].ID)
}

func TestLocationsXLSX(t *testing.T) {
	srv := newTestServer(&fakeSnapshots{snap: testSnapshot()}, nil, nil)

	rec := get(t, srv, "/api/locations.xlsx?threshold=0")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.XLSXContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "geothermal-sites.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 4, "header plus three locations")
}

// --- wells and gravity ---

func TestWells(t *testing.T) {
	srv := newTestServer(&fakeSnapshots{snap: testSnapshot()}, nil, nil)

	rec := get(t, srv, "/api/wells")
	require.Equal(t, http.StatusOK, rec.Code)

	var body domain.WellSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.TemperatureData, 2)
	assert.Len(t, body.GeoData, 2)
}

func TestMapWells(t *testing.T) {
	srv := newTestServer(&fakeSnapshots{snap: testSnapshot()}, nil, nil)

	rec := get(t, srv, "/api/wells/map")
	require.Equal(t, http.StatusOK, rec.Code)

	var wells []domain.MapWell
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &wells))
	require.Len(t, wells, 2)
	assert.Equal(t, "Deep 1", wells[0].Name)
	assert.Equal(t, "Well TX-2", wells[1].Name)
	assert.Equal(t, [2]float64{31, -99}, wells[0].Coordinates)
}

func TestRankedWells(t *testing.T) {
	srv := newTestServer(&fakeSnapshots{snap: testSnapshot()}, nil, nil)

	t.Run("default threshold", func(t *testing.T) {
		rec := get(t, srv, "/api/wells/ranked")
		require.Equal(t, http.StatusOK, rec.Code)

		var wells []domain.ScoredWell
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &wells))
		require.Len(t, wells, 1)
		assert.Equal(t, "Deep 1", wells[0].Name)
		assert.InDelta(t, 1.0, wells[0].Score, 1e-9)
	})

	t.Run("zero threshold", func(t *testing.T) {
		rec := get(t, srv, "/api/wells/ranked?threshold=0")
		require.Equal(t, http.StatusOK, rec.Code)

		var wells []domain.ScoredWell
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &wells))
		assert.Len(t, wells, 2)
	})

	t.Run("invalid threshold", func(t *testing.T) {
		rec := get(t, srv, "/api/wells/ranked?threshold=-1")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGravity(t *testing.T) {
	srv := newTestServer(&fakeSnapshots{snap: testSnapshot()}, nil, nil)

	rec := get(t, srv, "/api/gravity")
	require.Equal(t, http.StatusOK, rec.Code)

	var body domain.GravitySummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Statistics.TotalStations)
	assert.Equal(t, 1, body.Statistics.PositiveAnomalyCount)
	assert.InDelta(t, 50.0, body.Statistics.PositiveAnomalyPercentage, 1e-9)
	assert.Len(t, body.PositiveAnomalies, 1)
}

func TestWellAndGravityViewsIgnoreCombinedLoadError(t *testing.T) {
	views := testSnapshot().Views
	for _, loadErr := range []error{
		domain.ErrNoValidLocations,
		fmt.Errorf("load heat_flow: %w", domain.ErrSourceUnavailable),
	} {
		t.Run(loadErr.Error(), func(t *testing.T) {
			srv := newTestServer(&fakeSnapshots{views: &views, err: loadErr}, nil, nil)

			for _, target := range []string{"/api/wells", "/api/wells/map", "/api/wells/ranked", "/api/gravity"} {
				rec := get(t, srv, target)
				assert.Equal(t, http.StatusOK, rec.Code, target)
			}
			assert.NotEqual(t, http.StatusOK, get(t, srv, "/api/locations").Code)
		})
	}
}

func TestWellsBeforeFirstRefreshReturns503(t *testing.T) {
	rec := get(t, newTestServer(&fakeSnapshots{err: domain.ErrNoValidLocations}, nil, nil), "/api/wells")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUnknownRouteReturns404(t *testing.T) {
	rec := get(t, newTestServer(&fakeSnapshots{}, nil, nil), "/api/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
