package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/geothermal-site-service/internal/domain"
	"github.com/couchcryptid/geothermal-site-service/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SnapshotSource provides the most recent loaded snapshot and the
// independently loaded well and gravity views.
type SnapshotSource interface {
	Snapshot() (*domain.Snapshot, error)
	Views() (*domain.Views, error)
}

// Ranker scores a dataset for one query.
type Ranker interface {
	Rank(ctx context.Context, ds domain.Dataset, q pipeline.Query) ([]domain.ScoredLocation, error)
}

// Server exposes health, readiness, metrics, and the location/well data API.
type Server struct {
	httpServer *http.Server
	snapshots  SnapshotSource
	ranker     Ranker
	defaults   pipeline.Query
	logger     *slog.Logger
}

// NewServer creates an HTTP server. defaults supplies the weights and
// threshold used when a request omits them.
func NewServer(addr string, snapshots SnapshotSource, ready sharedobs.ReadinessChecker, ranker Ranker, defaults pipeline.Query, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		snapshots: snapshots,
		ranker:    ranker,
		defaults:  defaults,
		logger:    logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/locations", s.handleLocations)
	mux.HandleFunc("GET /api/locations.geojson", s.handleLocationsGeoJSON)
	mux.HandleFunc("GET /api/locations.xlsx", s.handleLocationsXLSX)
	mux.HandleFunc("GET /api/wells", s.handleWells)
	mux.HandleFunc("GET /api/wells/map", s.handleMapWells)
	mux.HandleFunc("GET /api/wells/ranked", s.handleRankedWells)
	mux.HandleFunc("GET /api/gravity", s.handleGravity)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}
