package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/geothermal-site-service/internal/domain"
)

// Query selects and weighs the locations of one ranking request.
type Query struct {
	Weights   domain.CriteriaWeights
	Threshold float64
	// Complete restricts ranking to locations carrying all three dimensions.
	Complete bool
}

// Validate checks weights and threshold lie in [0, 1].
func (q Query) Validate() error {
	if err := q.Weights.Validate(); err != nil {
		return err
	}
	return domain.ValidateUnit("threshold", q.Threshold)
}

// Ranker scores a dataset for a query, with optional place-name enrichment
// of the best results.
type Ranker struct {
	geocoder domain.Geocoder
	topN     int
	logger   *slog.Logger
}

// NewRanker creates a Ranker. Pass a nil geocoder to disable place names.
func NewRanker(geocoder domain.Geocoder, topN int, logger *slog.Logger) *Ranker {
	return &Ranker{
		geocoder: geocoder,
		topN:     topN,
		logger:   logger,
	}
}

// Rank returns the threshold-passing locations, best first. Statistics always
// come from the working set, so a location's score does not change when the
// request narrows to complete locations.
func (r *Ranker) Rank(ctx context.Context, ds domain.Dataset, q Query) ([]domain.ScoredLocation, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	locations := ds.Locations
	if q.Complete {
		locations = ds.Complete
	}

	ranked := domain.RankLocations(locations, q.Weights, ds.Stats, q.Threshold)
	domain.EnrichWithPlaceNames(ctx, ranked, r.geocoder, r.topN, r.logger)
	return ranked, nil
}
