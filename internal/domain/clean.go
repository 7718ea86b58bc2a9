package domain

import (
	"math"
	"strconv"
	"strings"
)

// Prepare runs the full cleaning pass over a raw table with the default
// column set: narrow to the known schema, derive the intent flag from the
// raw cause code, coerce numeric cells to their sentinels, and add the
// burned-area alias. The derived columns exist afterwards even when their
// inputs were absent from the file.
func Prepare(raw RawTable) Table {
	return PrepareColumns(raw, DefaultColumns...)
}

// PrepareColumns is Prepare restricted to a caller-chosen column subset.
// Requested columns missing from the file are dropped, and downstream
// aggregations report them when required.
func PrepareColumns(raw RawTable, columns ...string) Table {
	selected := SelectColumns(raw, columns...)

	cols := NewColumnSet(selected.Columns...)
	cols[ColIntentional] = struct{}{}
	cols[ColBurnedAreaAlias] = struct{}{}

	var (
		yearIdx      = selected.columnIndex(ColYear)
		dangerIdx    = selected.columnIndex(ColDangerID)
		provIdx      = selected.columnIndex(ColProvinceID)
		nameIdx      = selected.columnIndex(ColProvinceName)
		personnelIdx = selected.columnIndex(ColPersonnel)
		heavyIdx     = selected.columnIndex(ColHeavy)
		airIdx       = selected.columnIndex(ColAir)
		burnedIdx    = selected.columnIndex(ColBurnedArea)
		causeIdx     = selected.columnIndex(ColCause)
	)

	records := make([]Record, len(selected.Rows))
	for i, row := range selected.Rows {
		cell := func(idx int) string {
			if idx < 0 || idx >= len(row) {
				return ""
			}
			return row[idx]
		}

		rec := Record{
			Year:         parseIntOr(cell(yearIdx), -1),
			DangerID:     parseIntOr(cell(dangerIdx), -1),
			ProvinceCode: parseIntOr(cell(provIdx), -1),
			ProvinceName: cell(nameIdx),
			Personnel:    parseFloatOrZero(cell(personnelIdx)),
			Heavy:        parseFloatOrZero(cell(heavyIdx)),
			Air:          parseFloatOrZero(cell(airIdx)),
			BurnedArea:   parseFloatPtr(cell(burnedIdx)),
		}

		// The flag reads the raw cause cell: an unreadable cause is "not
		// in range", never unknown.
		if f, ok := parseFloat(cell(causeIdx)); ok {
			cause := int(f)
			rec.Cause = &cause
			rec.Intentional = f >= IntentionalCauseLower && f <= IntentionalCauseUpper
		}

		if rec.BurnedArea != nil {
			rec.BurnedAreaAlias = *rec.BurnedArea
		}
		records[i] = rec
	}

	return Table{Columns: cols, Records: records}
}

// parseFloat parses a cell as a finite number. Blank cells, junk text,
// and NaN/Inf spellings all read as absent.
func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseFloatOrZero parses a cell as float64, returning 0 on failure.
func parseFloatOrZero(s string) float64 {
	f, ok := parseFloat(s)
	if !ok {
		return 0
	}
	return f
}

// parseIntOr parses a cell as a number truncated to int, returning
// fallback on failure. "7.0" reads as 7.
func parseIntOr(s string, fallback int) int {
	f, ok := parseFloat(s)
	if !ok {
		return fallback
	}
	return int(f)
}

func parseFloatPtr(s string) *float64 {
	f, ok := parseFloat(s)
	if !ok {
		return nil
	}
	return &f
}
