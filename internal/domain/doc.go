// Package domain models geoscience survey data used to rank candidate
// geothermal well sites.
//
// # Data Sources
//
// Three independent surveys feed the ranking:
//
//	BHT wells     SMU bottom-hole-temperature CSV, one row per drilled well.
//	Heat flow     SMU heat-flow CSV, one row per survey entry.
//	Gravity       USGS gravity station text file, 8 whitespace columns.
//
// # Format Conventions
//
// BHT CSV (header row required):
//
//	latitude, longitude      decimal degrees (WGS-84)
//	bhtcorrected_temp        corrected bottom-hole temperature, °C
//	depth                    meters; presentation converts to km (/1000)
//	state, operation_name, drilling_start, drilling_complete,
//	field_name, formation, company_name   descriptive metadata
//
// Heat-flow CSV (header row required):
//
//	ID                "REGION-serial", e.g. "TX-001"
//	CO HF (mW/m2)     corrected heat flow, mW/m²
//
// The heat-flow source carries no coordinates. Each record is placed at one
// representative point for its region code (see [RegionCoordinates]). This
// is a coarse approximation, not a station location.
//
// Gravity text (no header), one station per non-blank line:
//
//	longitude latitude stationElevation observedGravity
//	innerTerrainCorrection outerTerrainCorrection
//	freeAirGravityAnomaly bouguerGravityAnomaly
//
// Header names are trimmed before lookup. Numeric cells that do not parse
// as a finite float are treated as absent (nil), never as zero.
//
// # Fusion
//
// Records are joined on a [LocationKey]: latitude and longitude rounded to
// 4 decimal places (~11 m) and held as fixed-point integers. Two records
// merge if and only if their keys are equal. Sources merge in the order
// BHT, heat flow, gravity; each source sets only its own dimension, so the
// order never changes the result, but it is fixed for reproducible output.
//
// # Statistics
//
// Min/max per dimension are taken over locations where the dimension is
// present. The upstream web application defaulted absent values to 0 in
// this reduction, which dragged min toward 0 whenever any location lacked
// the dimension. That behavior is not reproduced.
//
// # Scoring
//
// A location's score is the weighted mean of its min-max normalized
// dimensions, with weights renormalized over the dimensions it actually
// has. Missing data is weight-neutral rather than zero-filled.
package domain
