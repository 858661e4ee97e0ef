package domain

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// parseOptionalFloat parses s as a finite float64. Empty, non-numeric, NaN
// and infinite values return nil.
func parseOptionalFloat(s string) *float64 {
	v, ok := parseFloat(s)
	if !ok {
		return nil
	}
	return &v
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// csvTable iterates the data rows of a CSV with a header row, exposing
// cells by trimmed header name.
type csvTable struct {
	reader  *csv.Reader
	columns map[string]int
}

func newCSVTable(r io.Reader) (*csvTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}
	return &csvTable{reader: reader, columns: columns}, nil
}

// next returns the next non-blank row, or io.EOF.
func (t *csvTable) next() ([]string, error) {
	for {
		row, err := t.reader.Read()
		if err != nil {
			return nil, err
		}
		if !blankRow(row) {
			return row, nil
		}
	}
}

// field returns the trimmed cell for the named column, or "" when the
// column is missing from the header or the row is short.
func (t *csvTable) field(row []string, name string) string {
	i, ok := t.columns[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
