package export

import (
	"fmt"
	"io"

	"github.com/couchcryptid/geothermal-site-service/internal/domain"
	"github.com/xuri/excelize/v2"
)

// XLSXContentType is the media type written by WriteXLSX.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SheetName is the worksheet holding the ranking.
const SheetName = "Ranked Sites"

var xlsxHeader = []any{
	"Rank", "Latitude", "Longitude", "Score",
	"Temperature (°C)", "Heat Flow (mW/m²)", "Bouguer Anomaly (mGal)", "Place",
}

// WriteXLSX writes ranked locations as a single-sheet workbook. Absent
// measurements are left as empty cells.
func WriteXLSX(w io.Writer, ranked []domain.ScoredLocation) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("open stream writer: %w", err)
	}
	if err := sw.SetRow("A1", xlsxHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, loc := range ranked {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			i + 1, loc.Latitude, loc.Longitude, loc.Score,
			optional(loc.Temperature), optional(loc.HeatFlow), optional(loc.Gravity),
			loc.PlaceName,
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1") //nolint:errcheck // default sheet always exists

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// optional returns nil for an absent measurement so the cell stays empty.
func optional(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
