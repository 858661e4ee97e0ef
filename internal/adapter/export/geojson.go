// Package export renders ranked locations in map and spreadsheet formats.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/couchcryptid/geothermal-site-service/internal/domain"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// GeoJSONContentType is the media type written by WriteGeoJSON.
const GeoJSONContentType = "application/geo+json"

// FeatureCollection converts ranked locations to WGS-84 point features, one
// per location, in rank order. Absent measurements are omitted from the
// properties rather than written as null.
func FeatureCollection(ranked []domain.ScoredLocation) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(ranked))}
	for i, loc := range ranked {
		point := geom.NewPointFlat(geom.XY, []float64{loc.Longitude, loc.Latitude}).SetSRID(4326)

		props := map[string]any{
			"rank":  i + 1,
			"score": loc.Score,
		}
		for _, d := range domain.Dimensions {
			if v, ok := loc.Value(d); ok {
				props[d.String()] = v
			}
		}
		if loc.PlaceName != "" {
			props["placeName"] = loc.PlaceName
		}

		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         loc.Key.String(),
			Geometry:   point,
			Properties: props,
		})
	}
	return fc
}

// WriteGeoJSON encodes ranked locations as a GeoJSON FeatureCollection.
func WriteGeoJSON(w io.Writer, ranked []domain.ScoredLocation) error {
	data, err := json.Marshal(FeatureCollection(ranked))
	if err != nil {
		return fmt.Errorf("encode geojson: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write geojson: %w", err)
	}
	return nil
}
