package domain

import (
	"errors"
	"fmt"
	"io"
)

// BHT CSV column names.
const (
	colLatitude         = "latitude"
	colLongitude        = "longitude"
	colBHTCorrected     = "bhtcorrected_temp"
	colDepth            = "depth"
	colState            = "state"
	colOperationName    = "operation_name"
	colDrillingStart    = "drilling_start"
	colDrillingComplete = "drilling_complete"
	colFieldName        = "field_name"
	colFormation        = "formation"
	colCompanyName      = "company_name"
)

// ParseBHT reads the BHT well CSV. Every non-blank row yields a record;
// cells that do not parse are left nil. Rows without both coordinates are
// kept here (depth/temperature summaries still use them) and reported as
// rejected so the fusion stage's drop is visible in diagnostics.
func ParseBHT(r io.Reader, sink DiagnosticSink) ([]RawWellRecord, error) {
	sink = sinkOrNop(sink)

	table, err := newCSVTable(r)
	if err != nil {
		return nil, fmt.Errorf("parse bht csv: %w", err)
	}

	var records []RawWellRecord
	missingCoords := 0
	for {
		row, err := table.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse bht csv: %w", err)
		}

		rec := RawWellRecord{
			Latitude:             parseOptionalFloat(table.field(row, colLatitude)),
			Longitude:            parseOptionalFloat(table.field(row, colLongitude)),
			CorrectedTemperature: parseOptionalFloat(table.field(row, colBHTCorrected)),
			Depth:                parseOptionalFloat(table.field(row, colDepth)),
			State:                table.field(row, colState),
			OperationName:        table.field(row, colOperationName),
			FieldName:            table.field(row, colFieldName),
			Formation:            table.field(row, colFormation),
			DrillingStart:        table.field(row, colDrillingStart),
			DrillingComplete:     table.field(row, colDrillingComplete),
			CompanyName:          table.field(row, colCompanyName),
		}
		if !rec.HasCoordinates() {
			missingCoords++
		}
		records = append(records, rec)
	}

	sink.Report(Diagnostic{
		Source:   SourceBHT,
		Stage:    StageParse,
		Accepted: len(records) - missingCoords,
		Rejected: missingCoords,
	})
	return records, nil
}
