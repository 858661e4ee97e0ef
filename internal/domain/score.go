package domain

import (
	"cmp"
	"fmt"
	"math"
	"slices"
)

// CriteriaWeights sets the relative importance of each dimension. Values lie
// in [0, 1] and need not sum to 1.
type CriteriaWeights struct {
	Temperature float64 `json:"temperature"`
	HeatFlow    float64 `json:"heatFlow"`
	Gravity     float64 `json:"gravity"`
}

// DefaultWeights matches the ranking screen's initial slider positions.
var DefaultWeights = CriteriaWeights{Temperature: 0.5, HeatFlow: 0.3, Gravity: 0.2}

// DefaultMatchThreshold is the initial minimum score for a match.
const DefaultMatchThreshold = 0.8

// For returns the weight for d.
func (w CriteriaWeights) For(d Dimension) float64 {
	switch d {
	case DimTemperature:
		return w.Temperature
	case DimHeatFlow:
		return w.HeatFlow
	case DimGravity:
		return w.Gravity
	default:
		return 0
	}
}

// Validate checks every weight lies in [0, 1].
func (w CriteriaWeights) Validate() error {
	for _, d := range Dimensions {
		if err := ValidateUnit(d.String()+" weight", w.For(d)); err != nil {
			return err
		}
	}
	return nil
}

// ValidateUnit checks v is a finite number in [0, 1].
func ValidateUnit(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return fmt.Errorf("%w: %s must be within [0, 1], got %v", ErrInvalidWeights, name, v)
	}
	return nil
}

// Score computes the weighted mean of the location's normalized dimensions,
// renormalized over the dimensions it actually has. A location whose present
// dimensions all carry zero weight scores 0.
func Score(loc FusedLocation, weights CriteriaWeights, stats DimensionStats) float64 {
	var sum, totalWeight float64
	for _, d := range Dimensions {
		v, ok := loc.Value(d)
		if !ok {
			continue
		}
		w := weights.For(d)
		sum += stats.For(d).Normalize(v) * w
		totalWeight += w
	}
	if totalWeight == 0 {
		return 0
	}
	return sum / totalWeight
}

// Evaluate scores the location and reports whether it meets threshold.
func Evaluate(loc FusedLocation, weights CriteriaWeights, stats DimensionStats, threshold float64) (float64, bool) {
	s := Score(loc, weights, stats)
	return s, s >= threshold
}

// ScoredLocation is a fused location with a score computed for one set of
// weights.
type ScoredLocation struct {
	FusedLocation
	Score     float64 `json:"score"`
	PlaceName string  `json:"placeName,omitempty"`
}

// RankLocations scores every location, keeps those meeting threshold and
// sorts them by descending score (ties broken by key for stable output).
func RankLocations(locations []FusedLocation, weights CriteriaWeights, stats DimensionStats, threshold float64) []ScoredLocation {
	out := make([]ScoredLocation, 0, len(locations))
	for _, loc := range locations {
		s, ok := Evaluate(loc, weights, stats, threshold)
		if !ok {
			continue
		}
		out = append(out, ScoredLocation{FusedLocation: loc, Score: s})
	}
	slices.SortStableFunc(out, func(a, b ScoredLocation) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		if a.Key.Less(b.Key) {
			return -1
		}
		if b.Key.Less(a.Key) {
			return 1
		}
		return 0
	})
	return out
}
