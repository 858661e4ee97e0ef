package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/geothermal-site-service/internal/adapter/export"
	"github.com/couchcryptid/geothermal-site-service/internal/domain"
	"github.com/couchcryptid/geothermal-site-service/internal/pipeline"
)

// errBadParam marks a query parameter that does not parse.
var errBadParam = errors.New("invalid query parameter")

// locationsResponse is the body of GET /api/locations.
type locationsResponse struct {
	Locations   []domain.ScoredLocation `json:"locations"`
	Stats       domain.DimensionStats   `json:"stats"`
	Weights     domain.CriteriaWeights  `json:"weights"`
	Threshold   float64                 `json:"threshold"`
	Complete    bool                    `json:"complete"`
	Candidates  int                     `json:"candidates"`
	GeneratedAt time.Time               `json:"generatedAt"`
}

func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	snap, q, ranked, ok := s.rank(w, r)
	if !ok {
		return
	}

	candidates := len(snap.Dataset.Locations)
	if q.Complete {
		candidates = len(snap.Dataset.Complete)
	}
	writeJSON(w, http.StatusOK, locationsResponse{
		Locations:   ranked,
		Stats:       snap.Dataset.Stats,
		Weights:     q.Weights,
		Threshold:   q.Threshold,
		Complete:    q.Complete,
		Candidates:  candidates,
		GeneratedAt: snap.Dataset.GeneratedAt,
	})
}

func (s *Server) handleLocationsGeoJSON(w http.ResponseWriter, r *http.Request) {
	_, _, ranked, ok := s.rank(w, r)
	if !ok {
		return
	}
	s.writeBody(w, export.GeoJSONContentType, "", func(out io.Writer) error {
		return export.WriteGeoJSON(out, ranked)
	})
}

func (s *Server) handleLocationsXLSX(w http.ResponseWriter, r *http.Request) {
	_, _, ranked, ok := s.rank(w, r)
	if !ok {
		return
	}
	s.writeBody(w, export.XLSXContentType, "geothermal-sites.xlsx", func(out io.Writer) error {
		return export.WriteXLSX(out, ranked)
	})
}

func (s *Server) handleWells(w http.ResponseWriter, _ *http.Request) {
	views, ok := s.views(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, views.Wells)
}

func (s *Server) handleMapWells(w http.ResponseWriter, _ *http.Request) {
	views, ok := s.views(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, views.MapWells)
}

func (s *Server) handleRankedWells(w http.ResponseWriter, r *http.Request) {
	threshold, err := floatParam(r.URL.Query(), "threshold", s.defaults.Threshold)
	if err == nil {
		err = domain.ValidateUnit("threshold", threshold)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	views, ok := s.views(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, domain.RankWells(views.MapWells, views.WellTemperatures, threshold, domain.RankedWellLimit))
}

func (s *Server) handleGravity(w http.ResponseWriter, _ *http.Request) {
	views, ok := s.views(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, views.Gravity)
}

// rank parses the query, loads the snapshot and ranks it. On failure it has
// already written the error response.
func (s *Server) rank(w http.ResponseWriter, r *http.Request) (*domain.Snapshot, pipeline.Query, []domain.ScoredLocation, bool) {
	q, err := parseQuery(r.URL.Query(), s.defaults)
	if err != nil {
		s.writeError(w, err)
		return nil, q, nil, false
	}

	snap, ok := s.snapshot(w)
	if !ok {
		return nil, q, nil, false
	}

	ranked, err := s.ranker.Rank(r.Context(), snap.Dataset, q)
	if err != nil {
		s.writeError(w, err)
		return nil, q, nil, false
	}
	return snap, q, ranked, true
}

func (s *Server) snapshot(w http.ResponseWriter) (*domain.Snapshot, bool) {
	snap, err := s.snapshots.Snapshot()
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return snap, true
}

// views never fails on a combined-load error; the well and gravity views
// are published independently of the fused dataset.
func (s *Server) views(w http.ResponseWriter) (*domain.Views, bool) {
	v, err := s.snapshots.Views()
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return v, true
}

// writeBody renders into a buffer first so an encoding failure can still
// produce an error status.
func (s *Server) writeBody(w http.ResponseWriter, contentType, filename string, render func(io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	if filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes()) //nolint:errcheck // client may have gone away
}

// statusFor maps domain errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidWeights), errors.Is(err, errBadParam):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoValidLocations):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrSourceUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, pipeline.ErrNotLoaded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// parseQuery overlays request parameters on the configured defaults.
func parseQuery(values url.Values, defaults pipeline.Query) (pipeline.Query, error) {
	q := defaults
	var err error

	for _, p := range []struct {
		name string
		dst  *float64
	}{
		{"temperature", &q.Weights.Temperature},
		{"heatFlow", &q.Weights.HeatFlow},
		{"gravity", &q.Weights.Gravity},
		{"threshold", &q.Threshold},
	} {
		if *p.dst, err = floatParam(values, p.name, *p.dst); err != nil {
			return q, err
		}
	}

	if raw := values.Get("complete"); raw != "" {
		if q.Complete, err = strconv.ParseBool(raw); err != nil {
			return q, fmt.Errorf("%w: complete must be a boolean, got %q", errBadParam, raw)
		}
	}

	return q, q.Validate()
}

func floatParam(values url.Values, name string, def float64) (float64, error) {
	raw := values.Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number, got %q", errBadParam, name, raw)
	}
	return v, nil
}
