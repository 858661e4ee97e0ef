package domain

// Range is the min and max of one dimension.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Width returns Max - Min.
func (r Range) Width() float64 { return r.Max - r.Min }

// Normalize maps v onto [0, 1] within the range. A zero-width range yields
// 0; values outside the range saturate.
func (r Range) Normalize(v float64) float64 {
	w := r.Width()
	if w <= 0 {
		return 0
	}
	n := (v - r.Min) / w
	switch {
	case n < 0:
		return 0
	case n > 1:
		return 1
	default:
		return n
	}
}

// DimensionStats holds a Range per dimension.
type DimensionStats struct {
	Temperature Range `json:"temperature"`
	HeatFlow    Range `json:"heatFlow"`
	Gravity     Range `json:"gravity"`
}

// For returns the range for d.
func (s DimensionStats) For(d Dimension) Range {
	switch d {
	case DimTemperature:
		return s.Temperature
	case DimHeatFlow:
		return s.HeatFlow
	case DimGravity:
		return s.Gravity
	default:
		return Range{}
	}
}

func (s *DimensionStats) set(d Dimension, r Range) {
	switch d {
	case DimTemperature:
		s.Temperature = r
	case DimHeatFlow:
		s.HeatFlow = r
	case DimGravity:
		s.Gravity = r
	}
}

// ComputeStats takes min and max per dimension over the locations where the
// dimension is present. Absent values are excluded rather than read as 0;
// a dimension absent everywhere collapses to {0, 0}.
func ComputeStats(locations []FusedLocation) DimensionStats {
	var stats DimensionStats
	for _, d := range Dimensions {
		var r Range
		seen := false
		for _, loc := range locations {
			v, ok := loc.Value(d)
			if !ok {
				continue
			}
			if !seen {
				r = Range{Min: v, Max: v}
				seen = true
				continue
			}
			r.Min = min(r.Min, v)
			r.Max = max(r.Max, v)
		}
		stats.set(d, r)
	}
	return stats
}
