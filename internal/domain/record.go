package domain

// RawWellRecord is one row of the BHT well CSV. Nil pointers mark values
// that were empty or not numeric in the source.
type RawWellRecord struct {
	Latitude             *float64 `json:"latitude,omitempty"`
	Longitude            *float64 `json:"longitude,omitempty"`
	CorrectedTemperature *float64 `json:"bhtcorrected_temp,omitempty"` // °C
	Depth                *float64 `json:"depth,omitempty"`             // meters

	State            string `json:"state,omitempty"`
	OperationName    string `json:"operation_name,omitempty"`
	FieldName        string `json:"field_name,omitempty"`
	Formation        string `json:"formation,omitempty"`
	DrillingStart    string `json:"drilling_start,omitempty"`
	DrillingComplete string `json:"drilling_complete,omitempty"`
	CompanyName      string `json:"company_name,omitempty"`
}

// HasCoordinates reports whether both latitude and longitude parsed.
func (r RawWellRecord) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// RawHeatFlowRecord is one row of the heat-flow CSV.
type RawHeatFlowRecord struct {
	ID       string  `json:"id"`
	Region   string  `json:"region"`    // prefix of ID before the first "-"
	HeatFlow float64 `json:"heat_flow"` // mW/m²
}

// RawGravityStationRecord is one station line of the gravity text file.
// Longitude, latitude and the Bouguer anomaly are required; the remaining
// columns are optional.
type RawGravityStationRecord struct {
	Longitude              float64  `json:"longitude"`
	Latitude               float64  `json:"latitude"`
	StationElevation       *float64 `json:"stationElevation,omitempty"`
	ObservedGravity        *float64 `json:"observedGravity,omitempty"`
	InnerTerrainCorrection *float64 `json:"innerTerrainCorrection,omitempty"`
	OuterTerrainCorrection *float64 `json:"outerTerrainCorrection,omitempty"`
	FreeAirGravityAnomaly  *float64 `json:"freeAirGravityAnomaly,omitempty"`
	BouguerGravityAnomaly  float64  `json:"bouguerGravityAnomaly"` // mGal
}
