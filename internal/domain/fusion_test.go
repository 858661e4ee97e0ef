package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func well(lat, lon, temp float64) RawWellRecord {
	return RawWellRecord{Latitude: ptr(lat), Longitude: ptr(lon), CorrectedTemperature: ptr(temp)}
}

func station(lat, lon, bouguer float64) RawGravityStationRecord {
	return RawGravityStationRecord{Latitude: lat, Longitude: lon, BouguerGravityAnomaly: bouguer}
}

func TestNewLocationKey(t *testing.T) {
	t.Run("rounds to four decimals", func(t *testing.T) {
		assert.Equal(t, LocationKey{Lat: 319686, Lon: -999018}, NewLocationKey(31.9686, -99.9018))
		assert.Equal(t, NewLocationKey(31.00004, -99.00004), NewLocationKey(31.0, -99.0))
		assert.NotEqual(t, NewLocationKey(31.00006, -99.0), NewLocationKey(31.0, -99.0))
	})

	t.Run("round trips through coordinate", func(t *testing.T) {
		k := NewLocationKey(64.8561, -147.8028)
		assert.Equal(t, Coordinate{Lat: 64.8561, Lon: -147.8028}, k.Coordinate())
		assert.Equal(t, "64.8561,-147.8028", k.String())
	})

	t.Run("ordering", func(t *testing.T) {
		a := NewLocationKey(31.0, -99.0)
		b := NewLocationKey(31.0, -98.0)
		c := NewLocationKey(32.0, -100.0)
		assert.True(t, a.Less(b))
		assert.True(t, b.Less(c))
		assert.False(t, c.Less(a))
		assert.False(t, a.Less(a))
	})
}

func TestFuse_WellsAndGravity(t *testing.T) {
	wells := []RawWellRecord{
		well(31.0, -99.0, 100),
		well(31.0, -99.0, 150),
		well(32.0, -98.0, 120),
	}
	stations := []RawGravityStationRecord{
		station(31.0, -99.0, 5.0),
		station(32.0, -98.0, -2.0),
	}

	m := Fuse(wells, nil, stations, nil)
	assert.Equal(t, 2, m.Len())

	partial := m.Locations(MinPartial)
	require.Len(t, partial, 2)

	first := partial[0]
	assert.Equal(t, 31.0, first.Latitude)
	assert.Equal(t, -99.0, first.Longitude)
	assert.Equal(t, ptr(150.0), first.Temperature, "last write wins at a shared key")
	assert.Equal(t, ptr(5.0), first.Gravity)
	assert.Nil(t, first.HeatFlow)

	second := partial[1]
	assert.Equal(t, ptr(120.0), second.Temperature)
	assert.Equal(t, ptr(-2.0), second.Gravity)

	assert.Empty(t, m.Locations(MinComplete))
}

func TestFuse_HeatFlowRegions(t *testing.T) {
	flows := []RawHeatFlowRecord{
		{ID: "TX-001", Region: "TX", HeatFlow: 55.5},
		{ID: "ZZ-001", Region: "ZZ", HeatFlow: 70},
	}
	sink := &recordingSink{}

	m := Fuse(nil, flows, nil, sink)

	all := m.Locations(1)
	require.Len(t, all, 1)
	assert.Equal(t, 31.9686, all[0].Latitude)
	assert.Equal(t, -99.9018, all[0].Longitude)
	assert.Equal(t, ptr(55.5), all[0].HeatFlow)

	d, ok := sink.find(SourceHeatFlow, StageMerge)
	require.True(t, ok)
	assert.Equal(t, 1, d.Accepted)
	assert.Equal(t, 1, d.Rejected)
}

func TestFuse_SkipsUnplaceableWells(t *testing.T) {
	wells := []RawWellRecord{
		{Latitude: ptr(31.0), CorrectedTemperature: ptr(100)},
		{Latitude: ptr(31.0), Longitude: ptr(-99.0)},
		well(31.0, -99.0, 90),
	}
	sink := &recordingSink{}

	m := Fuse(wells, nil, nil, sink)
	assert.Equal(t, 1, m.Len())

	d, ok := sink.find(SourceBHT, StageMerge)
	require.True(t, ok)
	assert.Equal(t, 1, d.Accepted)
	assert.Equal(t, 2, d.Rejected)
}

func TestFuse_SkipsOutOfRangeCoordinates(t *testing.T) {
	wells := []RawWellRecord{
		well(91, -99, 100),
		well(31, -181, 110),
		well(31, -99, 120),
	}
	stations := []RawGravityStationRecord{
		station(1e300, 1e300, 5),
		station(-1e300, -1e300, 7),
		station(31, -99, 3),
	}
	sink := &recordingSink{}

	m := Fuse(wells, nil, stations, sink)
	require.Equal(t, 1, m.Len())

	locs := m.Locations(MinPartial)
	require.Len(t, locs, 1)
	assert.Equal(t, NewLocationKey(31, -99), locs[0].Key)
	assert.Equal(t, ptr(120.0), locs[0].Temperature)
	assert.Equal(t, ptr(3.0), locs[0].Gravity)

	bht, ok := sink.find(SourceBHT, StageMerge)
	require.True(t, ok)
	assert.Equal(t, 1, bht.Accepted)
	assert.Equal(t, 2, bht.Rejected)

	gravity, ok := sink.find(SourceGravity, StageMerge)
	require.True(t, ok)
	assert.Equal(t, 1, gravity.Accepted)
	assert.Equal(t, 2, gravity.Rejected)
}

func TestCoordinate_Valid(t *testing.T) {
	tests := []struct {
		name  string
		coord Coordinate
		want  bool
	}{
		{"origin", Coordinate{0, 0}, true},
		{"bounds", Coordinate{-90, 180}, true},
		{"latitude too high", Coordinate{90.0001, 0}, false},
		{"longitude too low", Coordinate{0, -180.5}, false},
		{"huge", Coordinate{1e300, 1e300}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.coord.Valid())
		})
	}
}

func TestFuse_CompleteSet(t *testing.T) {
	tx := RegionCoordinates["TX"]
	wells := []RawWellRecord{well(tx.Lat, tx.Lon, 130), well(30.0, -97.0, 90)}
	flows := []RawHeatFlowRecord{{ID: "TX-7", Region: "TX", HeatFlow: 60}}
	stations := []RawGravityStationRecord{station(tx.Lat, tx.Lon, 1.5)}

	m := Fuse(wells, flows, stations, nil)

	complete := m.Locations(MinComplete)
	require.Len(t, complete, 1)
	assert.Equal(t, 3, complete[0].CountPresent())

	assert.Len(t, m.Locations(MinPartial), 1)
	assert.Len(t, m.Locations(1), 2)
}

func TestFuse_Idempotent(t *testing.T) {
	wells := []RawWellRecord{well(31.0, -99.0, 100), well(32.0, -98.0, 120), well(33.5, -97.25, 80)}
	flows := []RawHeatFlowRecord{{ID: "TX-1", Region: "TX", HeatFlow: 40}, {ID: "LA-1", Region: "LA", HeatFlow: 70}}
	stations := []RawGravityStationRecord{station(31.0, -99.0, 3), station(31.2448, -92.1450, -4), station(33.5, -97.25, 8)}

	first := Fuse(wells, flows, stations, nil).Locations(1)
	second := Fuse(wells, flows, stations, nil).Locations(1)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("fusion not idempotent (-first +second):\n%s", diff)
	}
}

func TestFuse_HeatFlowGravityOrderIndependent(t *testing.T) {
	wells := []RawWellRecord{well(31.9686, -99.9018, 140)}
	flows := []RawHeatFlowRecord{{ID: "TX-1", Region: "TX", HeatFlow: 40}}
	stations := []RawGravityStationRecord{station(31.9686, -99.9018, 2), station(40, -100, 1)}

	forward := NewLocationMap()
	Merge(forward, wells, WellContribution)
	Merge(forward, flows, HeatFlowContribution)
	Merge(forward, stations, GravityContribution)

	swapped := NewLocationMap()
	Merge(swapped, wells, WellContribution)
	Merge(swapped, stations, GravityContribution)
	Merge(swapped, flows, HeatFlowContribution)

	if diff := cmp.Diff(forward.Locations(1), swapped.Locations(1)); diff != "" {
		t.Errorf("merge order changed the result (-forward +swapped):\n%s", diff)
	}
}

func TestLocations_ReturnsCopies(t *testing.T) {
	m := Fuse([]RawWellRecord{well(31, -99, 100)}, nil, []RawGravityStationRecord{station(31, -99, 1)}, nil)

	out := m.Locations(MinPartial)
	require.Len(t, out, 1)
	*out[0].Temperature = 999

	again := m.Locations(MinPartial)
	assert.Equal(t, ptr(100.0), again[0].Temperature)
}

func TestBuildDataset(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	defer SetClock(nil)

	t.Run("partial set with stats", func(t *testing.T) {
		wells := []RawWellRecord{well(31.0, -99.0, 100), well(31.0, -99.0, 150), well(32.0, -98.0, 120)}
		stations := []RawGravityStationRecord{station(31.0, -99.0, 5.0), station(32.0, -98.0, -2.0)}

		ds, err := BuildDataset(wells, nil, stations, nil)
		require.NoError(t, err)

		assert.Len(t, ds.Locations, 2)
		assert.Empty(t, ds.Complete)
		assert.Equal(t, Range{Min: 120, Max: 150}, ds.Stats.Temperature)
		assert.Equal(t, Range{Min: -2, Max: 5}, ds.Stats.Gravity)
		assert.Equal(t, Range{}, ds.Stats.HeatFlow)
		assert.Equal(t, fixed, ds.GeneratedAt)
	})

	t.Run("no location with two measurements", func(t *testing.T) {
		wells := []RawWellRecord{well(31.0, -99.0, 100)}
		stations := []RawGravityStationRecord{station(40.0, -100.0, 5.0)}

		_, err := BuildDataset(wells, nil, stations, nil)
		require.ErrorIs(t, err, ErrNoValidLocations)
		assert.Equal(t, "No valid location data found", err.Error())
	})
}
