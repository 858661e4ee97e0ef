package domain

// RegionCoordinates places heat-flow records, which carry no coordinates of
// their own, at one representative point per region code. Every record for
// a region lands on the same key, so the table trades station precision for
// the ability to join heat flow at all. Codes not listed here are dropped.
var RegionCoordinates = map[string]Coordinate{
	"TX": {Lat: 31.9686, Lon: -99.9018},
	"LA": {Lat: 31.2448, Lon: -92.1450},
	"AK": {Lat: 64.8561, Lon: -147.8028},
}

// Coordinate is a WGS-84 latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether c lies within [-90, 90] latitude and [-180, 180]
// longitude. Coordinates outside that range would saturate the fixed-point
// key and collide.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// ResolveRegion returns the representative coordinate for a region code.
func ResolveRegion(code string) (Coordinate, bool) {
	c, ok := RegionCoordinates[code]
	return c, ok
}
