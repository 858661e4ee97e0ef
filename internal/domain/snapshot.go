package domain

// Views holds the well-only and gravity-only results of one refresh. They
// load independently of the fused dataset and are published even when the
// combined load fails.
type Views struct {
	Wells            WellSummary
	MapWells         []MapWell
	WellTemperatures Range
	Gravity          GravitySummary
}

// Snapshot is everything one successful refresh loaded: the fused dataset
// plus the views loaded alongside it. Snapshots are immutable once published.
type Snapshot struct {
	Dataset Dataset
	Views
}

// NewWellView derives the map list and temperature range from raw wells.
func NewWellView(records []RawWellRecord) (WellSummary, []MapWell, Range) {
	summary := SummarizeWells(records)
	return summary, MapWells(summary.GeoData, MapWellLimit), WellTemperatureRange(records)
}
