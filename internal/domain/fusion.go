package domain

import (
	"slices"
	"time"
)

// Completeness thresholds for CountPresent.
const (
	MinPartial  = 2
	MinComplete = 3
)

// Contribution is one measurement a record adds to the fused map.
type Contribution struct {
	Coordinate Coordinate
	Dimension  Dimension
	Value      float64
}

// Extractor turns a raw record into a contribution. It returns false for
// records that cannot be placed (no coordinates, unknown region, no value).
type Extractor[T any] func(rec T) (Contribution, bool)

// LocationMap accumulates contributions keyed by LocationKey.
type LocationMap struct {
	entries map[LocationKey]*FusedLocation
}

// NewLocationMap returns an empty map.
func NewLocationMap() *LocationMap {
	return &LocationMap{entries: make(map[LocationKey]*FusedLocation)}
}

// Len returns the number of distinct keys.
func (m *LocationMap) Len() int { return len(m.entries) }

// Merge folds records into m. A new key gets a fresh entry carrying only the
// contributed dimension; an existing key has that dimension overwritten
// (last writer wins). It returns how many records were merged and skipped.
func Merge[T any](m *LocationMap, records []T, extract Extractor[T]) (merged, skipped int) {
	for _, rec := range records {
		c, ok := extract(rec)
		if !ok {
			skipped++
			continue
		}
		key := NewLocationKey(c.Coordinate.Lat, c.Coordinate.Lon)
		loc, exists := m.entries[key]
		if !exists {
			loc = newFusedLocation(key)
			m.entries[key] = loc
		}
		loc.set(c.Dimension, c.Value)
		merged++
	}
	return merged, skipped
}

// Locations returns copies of every entry with at least minPresent
// dimensions, ordered by key.
func (m *LocationMap) Locations(minPresent int) []FusedLocation {
	out := make([]FusedLocation, 0, len(m.entries))
	for _, loc := range m.entries {
		if loc.CountPresent() >= minPresent {
			out = append(out, loc.clone())
		}
	}
	slices.SortFunc(out, func(a, b FusedLocation) int {
		switch {
		case a.Key.Less(b.Key):
			return -1
		case b.Key.Less(a.Key):
			return 1
		default:
			return 0
		}
	})
	return out
}

// WellContribution places a BHT record's corrected temperature. Wells with
// missing or out-of-range coordinates are skipped.
func WellContribution(rec RawWellRecord) (Contribution, bool) {
	if !rec.HasCoordinates() || rec.CorrectedTemperature == nil {
		return Contribution{}, false
	}
	coord := Coordinate{Lat: *rec.Latitude, Lon: *rec.Longitude}
	if !coord.Valid() {
		return Contribution{}, false
	}
	return Contribution{
		Coordinate: coord,
		Dimension:  DimTemperature,
		Value:      *rec.CorrectedTemperature,
	}, true
}

// HeatFlowContribution places a heat-flow record at its region's
// representative coordinate.
func HeatFlowContribution(rec RawHeatFlowRecord) (Contribution, bool) {
	coord, ok := ResolveRegion(rec.Region)
	if !ok {
		return Contribution{}, false
	}
	return Contribution{
		Coordinate: coord,
		Dimension:  DimHeatFlow,
		Value:      rec.HeatFlow,
	}, true
}

// GravityContribution places a gravity station's Bouguer anomaly. Stations
// with out-of-range coordinates are skipped.
func GravityContribution(rec RawGravityStationRecord) (Contribution, bool) {
	coord := Coordinate{Lat: rec.Latitude, Lon: rec.Longitude}
	if !coord.Valid() {
		return Contribution{}, false
	}
	return Contribution{
		Coordinate: coord,
		Dimension:  DimGravity,
		Value:      rec.BouguerGravityAnomaly,
	}, true
}

// Dataset is the frozen output of fusion: the working set of locations with
// at least two measurements, the stricter complete set, and statistics over
// the working set.
type Dataset struct {
	Locations   []FusedLocation `json:"locations"`
	Complete    []FusedLocation `json:"complete"`
	Stats       DimensionStats  `json:"stats"`
	GeneratedAt time.Time       `json:"generatedAt"`
}

// Fuse merges the three sources in BHT, heat-flow, gravity order and returns
// the map before any completeness filtering.
func Fuse(wells []RawWellRecord, flows []RawHeatFlowRecord, stations []RawGravityStationRecord, sink DiagnosticSink) *LocationMap {
	sink = sinkOrNop(sink)
	m := NewLocationMap()

	merged, skipped := Merge(m, wells, WellContribution)
	sink.Report(Diagnostic{Source: SourceBHT, Stage: StageMerge, Accepted: merged, Rejected: skipped})

	merged, skipped = Merge(m, flows, HeatFlowContribution)
	sink.Report(Diagnostic{Source: SourceHeatFlow, Stage: StageMerge, Accepted: merged, Rejected: skipped})

	merged, skipped = Merge(m, stations, GravityContribution)
	sink.Report(Diagnostic{Source: SourceGravity, Stage: StageMerge, Accepted: merged, Rejected: skipped})

	return m
}

// BuildDataset fuses the sources, filters by completeness and computes
// statistics. It returns ErrNoValidLocations when no location has at least
// two measurements.
func BuildDataset(wells []RawWellRecord, flows []RawHeatFlowRecord, stations []RawGravityStationRecord, sink DiagnosticSink) (Dataset, error) {
	m := Fuse(wells, flows, stations, sink)

	partial := m.Locations(MinPartial)
	if len(partial) == 0 {
		return Dataset{}, ErrNoValidLocations
	}

	return Dataset{
		Locations:   partial,
		Complete:    m.Locations(MinComplete),
		Stats:       ComputeStats(partial),
		GeneratedAt: clock.Now(),
	}, nil
}
