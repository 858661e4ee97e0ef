package domain

import (
	"fmt"
	"math"
)

// keyScale is the fixed-point factor for LocationKey: 4 decimal places.
const keyScale = 10_000

// LocationKey is a coordinate quantized to 4 decimal places (~11 m) and
// stored as fixed-point integers, so equality never depends on float
// formatting.
type LocationKey struct {
	Lat int64
	Lon int64
}

// NewLocationKey rounds a coordinate to the nearest 1e-4 degree.
func NewLocationKey(lat, lon float64) LocationKey {
	return LocationKey{
		Lat: int64(math.Round(lat * keyScale)),
		Lon: int64(math.Round(lon * keyScale)),
	}
}

// Coordinate returns the quantized coordinate in decimal degrees.
func (k LocationKey) Coordinate() Coordinate {
	return Coordinate{
		Lat: float64(k.Lat) / keyScale,
		Lon: float64(k.Lon) / keyScale,
	}
}

// String renders the key as "lat,lon" with 4 decimals.
func (k LocationKey) String() string {
	c := k.Coordinate()
	return fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lon)
}

// Less orders keys by latitude, then longitude.
func (k LocationKey) Less(o LocationKey) bool {
	if k.Lat != o.Lat {
		return k.Lat < o.Lat
	}
	return k.Lon < o.Lon
}

// Dimension is one measurement axis of a fused location.
type Dimension int

const (
	DimTemperature Dimension = iota
	DimHeatFlow
	DimGravity
)

// Dimensions lists every dimension in merge order.
var Dimensions = []Dimension{DimTemperature, DimHeatFlow, DimGravity}

func (d Dimension) String() string {
	switch d {
	case DimTemperature:
		return "temperature"
	case DimHeatFlow:
		return "heatFlow"
	case DimGravity:
		return "gravity"
	default:
		return fmt.Sprintf("dimension(%d)", int(d))
	}
}

// FusedLocation combines whatever measurements the sources contributed at
// one LocationKey. Absent dimensions are nil.
type FusedLocation struct {
	Key         LocationKey `json:"-"`
	Latitude    float64     `json:"latitude"`
	Longitude   float64     `json:"longitude"`
	Temperature *float64    `json:"temperature,omitempty"` // °C
	HeatFlow    *float64    `json:"heatFlow,omitempty"`    // mW/m²
	Gravity     *float64    `json:"gravity,omitempty"`     // Bouguer anomaly, mGal
}

func newFusedLocation(key LocationKey) *FusedLocation {
	c := key.Coordinate()
	return &FusedLocation{Key: key, Latitude: c.Lat, Longitude: c.Lon}
}

// Value returns the measurement for d and whether it is present.
func (l FusedLocation) Value(d Dimension) (float64, bool) {
	var p *float64
	switch d {
	case DimTemperature:
		p = l.Temperature
	case DimHeatFlow:
		p = l.HeatFlow
	case DimGravity:
		p = l.Gravity
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

func (l *FusedLocation) set(d Dimension, v float64) {
	switch d {
	case DimTemperature:
		l.Temperature = &v
	case DimHeatFlow:
		l.HeatFlow = &v
	case DimGravity:
		l.Gravity = &v
	}
}

// CountPresent returns how many dimensions the location carries.
func (l FusedLocation) CountPresent() int {
	n := 0
	for _, d := range Dimensions {
		if _, ok := l.Value(d); ok {
			n++
		}
	}
	return n
}

// clone copies the location so callers never share measurement pointers
// with the fusion map.
func (l FusedLocation) clone() FusedLocation {
	out := l
	out.Temperature = copyFloat(l.Temperature)
	out.HeatFlow = copyFloat(l.HeatFlow)
	out.Gravity = copyFloat(l.Gravity)
	return out
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
