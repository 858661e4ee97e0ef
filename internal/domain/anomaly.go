package domain

import "math"

// GravityStatistics summarizes the share of stations with a positive
// Bouguer anomaly.
type GravityStatistics struct {
	TotalStations             int     `json:"totalStations"`
	PositiveAnomalyCount      int     `json:"positiveAnomalyCount"`
	PositiveAnomalyPercentage float64 `json:"positiveAnomalyPercentage"` // 2 decimals
}

// GravitySummary is the gravity-only loader output.
type GravitySummary struct {
	AllData           []RawGravityStationRecord `json:"allData"`
	PositiveAnomalies []RawGravityStationRecord `json:"positiveAnomalies"`
	Statistics        GravityStatistics         `json:"statistics"`
}

// EmptyGravitySummary is returned when the gravity source cannot be loaded.
func EmptyGravitySummary() GravitySummary {
	return GravitySummary{
		AllData:           []RawGravityStationRecord{},
		PositiveAnomalies: []RawGravityStationRecord{},
	}
}

// SummarizeGravity splits out stations with a Bouguer anomaly above zero.
func SummarizeGravity(stations []RawGravityStationRecord) GravitySummary {
	summary := EmptyGravitySummary()
	summary.AllData = append(summary.AllData, stations...)

	for _, s := range stations {
		if s.BouguerGravityAnomaly > 0 {
			summary.PositiveAnomalies = append(summary.PositiveAnomalies, s)
		}
	}

	total := len(stations)
	positive := len(summary.PositiveAnomalies)
	summary.Statistics = GravityStatistics{
		TotalStations:        total,
		PositiveAnomalyCount: positive,
	}
	if total > 0 {
		pct := float64(positive) / float64(total) * 100
		summary.Statistics.PositiveAnomalyPercentage = math.Round(pct*100) / 100
	}
	return summary
}
