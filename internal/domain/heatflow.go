package domain

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Heat-flow CSV column names.
const (
	colHeatFlowID    = "ID"
	colHeatFlowValue = "CO HF (mW/m2)"
)

// ParseHeatFlow reads the heat-flow CSV. Rows with an empty ID or a
// missing/non-numeric heat flow are skipped.
func ParseHeatFlow(r io.Reader, sink DiagnosticSink) ([]RawHeatFlowRecord, error) {
	sink = sinkOrNop(sink)

	table, err := newCSVTable(r)
	if err != nil {
		return nil, fmt.Errorf("parse heat flow csv: %w", err)
	}

	var records []RawHeatFlowRecord
	skipped := 0
	for {
		row, err := table.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse heat flow csv: %w", err)
		}

		id := table.field(row, colHeatFlowID)
		value, ok := parseFloat(table.field(row, colHeatFlowValue))
		if id == "" || !ok {
			skipped++
			continue
		}

		records = append(records, RawHeatFlowRecord{
			ID:       id,
			Region:   regionCode(id),
			HeatFlow: value,
		})
	}

	sink.Report(Diagnostic{
		Source:   SourceHeatFlow,
		Stage:    StageParse,
		Accepted: len(records),
		Rejected: skipped,
	})
	return records, nil
}

// regionCode returns the part of a heat-flow ID before the first "-",
// e.g. "TX-001" -> "TX".
func regionCode(id string) string {
	code, _, _ := strings.Cut(id, "-")
	return strings.TrimSpace(code)
}
