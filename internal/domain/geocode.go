package domain

import (
	"context"
	"log/slog"
)

// EnrichWithPlaceNames reverse-geocodes the first limit ranked locations and
// sets PlaceName. A nil geocoder leaves the slice untouched; a failed lookup
// is logged and the location keeps an empty name (graceful degradation).
func EnrichWithPlaceNames(ctx context.Context, ranked []ScoredLocation, geocoder Geocoder, limit int, logger *slog.Logger) {
	if geocoder == nil {
		return
	}

	for i := range ranked {
		if i >= limit || ctx.Err() != nil {
			return
		}
		loc := &ranked[i]
		result, err := geocoder.ReverseGeocode(ctx, loc.Latitude, loc.Longitude)
		if err != nil {
			logger.Warn("reverse geocoding failed",
				"location", loc.Key.String(),
				"error", err,
			)
			continue
		}
		if result.PlaceName != "" {
			loc.PlaceName = result.PlaceName
		} else {
			loc.PlaceName = result.FormattedAddress
		}
	}
}
