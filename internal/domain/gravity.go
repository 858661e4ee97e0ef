package domain

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// gravityColumns is the number of positional fields on a station line.
const gravityColumns = 8

// ParseGravity reads the whitespace-delimited gravity station file. Blank
// lines are ignored. A line whose longitude, latitude or Bouguer anomaly
// does not parse is dropped and counted as rejected; other missing columns
// are left nil. Fields beyond the eighth are ignored.
func ParseGravity(r io.Reader, sink DiagnosticSink) ([]RawGravityStationRecord, error) {
	sink = sinkOrNop(sink)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var records []RawGravityStationRecord
	dropped := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		rec, ok := parseGravityLine(strings.Fields(line))
		if !ok {
			dropped++
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("parse gravity data: %w", err)
	}

	sink.Report(Diagnostic{
		Source:   SourceGravity,
		Stage:    StageParse,
		Accepted: len(records),
		Rejected: dropped,
	})
	return records, nil
}

func parseGravityLine(fields []string) (RawGravityStationRecord, bool) {
	col := func(i int) string {
		if i < len(fields) && i < gravityColumns {
			return fields[i]
		}
		return ""
	}

	lon, okLon := parseFloat(col(0))
	lat, okLat := parseFloat(col(1))
	bouguer, okBouguer := parseFloat(col(7))
	if !okLon || !okLat || !okBouguer {
		return RawGravityStationRecord{}, false
	}

	return RawGravityStationRecord{
		Longitude:              lon,
		Latitude:               lat,
		StationElevation:       parseOptionalFloat(col(2)),
		ObservedGravity:        parseOptionalFloat(col(3)),
		InnerTerrainCorrection: parseOptionalFloat(col(4)),
		OuterTerrainCorrection: parseOptionalFloat(col(5)),
		FreeAirGravityAnomaly:  parseOptionalFloat(col(6)),
		BouguerGravityAnomaly:  bouguer,
	}, true
}
