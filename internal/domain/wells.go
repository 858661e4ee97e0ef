package domain

import (
	"cmp"
	"fmt"
	"slices"
)

// Well summary thresholds carried over from the well analysis screen.
const (
	ReferenceTemperature = 143.0  // °C, wells counted in WellStatistics
	GeoMinTemperature    = 60.0   // °C, exclusive
	GeoMaxDepthMeters    = 6000.0 // inclusive

	// MapWellLimit caps the wells drawn on the map.
	MapWellLimit = 1000
	// RankedWellLimit caps the threshold-filtered ranking.
	RankedWellLimit = 50
)

// DepthTemperature is one point of the temperature-versus-depth plot.
type DepthTemperature struct {
	Depth       float64 `json:"depth"` // km
	Temperature float64 `json:"temperature"`
}

// GeoPoint is a well suitable for the geospatial plot.
type GeoPoint struct {
	Longitude        float64 `json:"longitude"`
	Latitude         float64 `json:"latitude"`
	Temperature      float64 `json:"temperature"`
	Depth            float64 `json:"depth"` // km
	State            string  `json:"state"`
	OperationName    string  `json:"operation_name"`
	DrillingStart    string  `json:"drilling_start"`
	DrillingComplete string  `json:"drilling_complete"`
	FieldName        string  `json:"field_name"`
	Formation        string  `json:"formation"`
	CompanyName      string  `json:"company_name"`
}

// WellStatistics summarizes wells at the reference temperature.
type WellStatistics struct {
	WellsAt143CCount int     `json:"wellsAt143CCount"`
	MeanDepthAt143C  float64 `json:"meanDepthAt143C"` // meters, as recorded
}

// WellSummary is the well-only loader output.
type WellSummary struct {
	TemperatureData []DepthTemperature `json:"temperatureData"`
	GeoData         []GeoPoint         `json:"geoData"`
	Statistics      WellStatistics     `json:"statistics"`
}

// EmptyWellSummary is returned when the well source cannot be loaded.
func EmptyWellSummary() WellSummary {
	return WellSummary{TemperatureData: []DepthTemperature{}, GeoData: []GeoPoint{}}
}

// SummarizeWells builds the depth/temperature series, the filtered
// geospatial set, and the 143 °C statistics from raw well records.
func SummarizeWells(records []RawWellRecord) WellSummary {
	summary := EmptyWellSummary()

	var depthSum float64
	depthCount := 0
	for _, rec := range records {
		temp, depth := rec.CorrectedTemperature, rec.Depth

		if temp != nil && *temp == ReferenceTemperature {
			summary.Statistics.WellsAt143CCount++
			if depth != nil {
				depthSum += *depth
				depthCount++
			}
		}

		// Zero depth or temperature is treated as unrecorded.
		if temp != nil && depth != nil && *temp != 0 && *depth != 0 {
			summary.TemperatureData = append(summary.TemperatureData, DepthTemperature{
				Depth:       *depth / 1000,
				Temperature: *temp,
			})
		}

		if isGeoCandidate(rec) {
			summary.GeoData = append(summary.GeoData, GeoPoint{
				Longitude:        *rec.Longitude,
				Latitude:         *rec.Latitude,
				Temperature:      *temp,
				Depth:            *depth / 1000,
				State:            rec.State,
				OperationName:    rec.OperationName,
				DrillingStart:    rec.DrillingStart,
				DrillingComplete: rec.DrillingComplete,
				FieldName:        rec.FieldName,
				Formation:        rec.Formation,
				CompanyName:      rec.CompanyName,
			})
		}
	}

	if depthCount > 0 {
		summary.Statistics.MeanDepthAt143C = depthSum / float64(depthCount)
	}
	return summary
}

func isGeoCandidate(rec RawWellRecord) bool {
	if !rec.HasCoordinates() || *rec.Latitude == 0 || *rec.Longitude == 0 {
		return false
	}
	if !(Coordinate{Lat: *rec.Latitude, Lon: *rec.Longitude}).Valid() {
		return false
	}
	if rec.CorrectedTemperature == nil || *rec.CorrectedTemperature <= GeoMinTemperature {
		return false
	}
	return rec.Depth != nil && *rec.Depth <= GeoMaxDepthMeters
}

// MapWell is a well prepared for map display and ranking.
type MapWell struct {
	ID               int        `json:"id"`
	Name             string     `json:"name"`
	Coordinates      [2]float64 `json:"coordinates"` // [lat, lon]
	Temperature      float64    `json:"temperature"`
	Depth            float64    `json:"depth"` // km
	State            string     `json:"state"`
	DrillingStart    string     `json:"drillingStart"`
	DrillingComplete string     `json:"drillingComplete"`
	FieldName        string     `json:"fieldName"`
	Formation        string     `json:"formation"`
	CompanyName      string     `json:"companyName"`
}

// MapWells sorts geo points by descending temperature and returns the
// hottest limit wells, numbered from 1. The input is not modified.
func MapWells(points []GeoPoint, limit int) []MapWell {
	sorted := slices.Clone(points)
	slices.SortStableFunc(sorted, func(a, b GeoPoint) int {
		return cmp.Compare(b.Temperature, a.Temperature)
	})
	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	wells := make([]MapWell, len(sorted))
	for i, p := range sorted {
		id := i + 1
		name := p.OperationName
		if name == "" {
			name = fmt.Sprintf("Well %s-%d", p.State, id)
		}
		wells[i] = MapWell{
			ID:               id,
			Name:             name,
			Coordinates:      [2]float64{p.Latitude, p.Longitude},
			Temperature:      p.Temperature,
			Depth:            p.Depth,
			State:            p.State,
			DrillingStart:    p.DrillingStart,
			DrillingComplete: p.DrillingComplete,
			FieldName:        p.FieldName,
			Formation:        p.Formation,
			CompanyName:      p.CompanyName,
		}
	}
	return wells
}

// WellTemperatureRange is the corrected-temperature range over every raw
// well that has one. Wells are scored against this population, not the
// fused-location statistics.
func WellTemperatureRange(records []RawWellRecord) Range {
	var r Range
	seen := false
	for _, rec := range records {
		if rec.CorrectedTemperature == nil {
			continue
		}
		t := *rec.CorrectedTemperature
		if !seen {
			r = Range{Min: t, Max: t}
			seen = true
			continue
		}
		r.Min = min(r.Min, t)
		r.Max = max(r.Max, t)
	}
	return r
}

// WellScore is the temperature-only normalized score of a well.
func WellScore(w MapWell, temps Range) float64 {
	return temps.Normalize(w.Temperature)
}

// EvaluateWell scores the well and reports whether it meets threshold.
func EvaluateWell(w MapWell, temps Range, threshold float64) (float64, bool) {
	s := WellScore(w, temps)
	return s, s >= threshold
}

// ScoredWell is a map well with its temperature-only score.
type ScoredWell struct {
	MapWell
	Score float64 `json:"score"`
}

// RankWells keeps wells scoring at least threshold, sorted by descending
// score, capped at limit.
func RankWells(wells []MapWell, temps Range, threshold float64, limit int) []ScoredWell {
	out := make([]ScoredWell, 0, len(wells))
	for _, w := range wells {
		s, ok := EvaluateWell(w, temps, threshold)
		if ok {
			out = append(out, ScoredWell{MapWell: w, Score: s})
		}
	}
	slices.SortStableFunc(out, func(a, b ScoredWell) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
