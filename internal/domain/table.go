package domain

import (
	"sort"

	"github.com/samber/lo"
)

// RawTable is a delimited file as read: header names plus untyped string
// cells in file order. Prepare turns it into a typed Table.
type RawTable struct {
	Columns []string
	Rows    [][]string
}

// HasColumn reports whether the raw table carries the named column.
func (r RawTable) HasColumn(name string) bool {
	return r.columnIndex(name) >= 0
}

func (r RawTable) columnIndex(name string) int {
	for i, c := range r.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// SelectColumns narrows a raw table to the requested columns, keeping only
// those actually present and silently dropping the rest. Requesting only
// absent columns yields a table with no columns, not an error.
func SelectColumns(raw RawTable, columns ...string) RawTable {
	keep := make([]int, 0, len(columns))
	names := make([]string, 0, len(columns))
	for _, c := range columns {
		if i := raw.columnIndex(c); i >= 0 {
			keep = append(keep, i)
			names = append(names, c)
		}
	}

	rows := make([][]string, len(raw.Rows))
	for i, row := range raw.Rows {
		cells := make([]string, len(keep))
		for j, idx := range keep {
			if idx < len(row) {
				cells[j] = row[idx]
			}
		}
		rows[i] = cells
	}
	return RawTable{Columns: names, Rows: rows}
}

// ColumnSet tracks which logical columns a table actually carries, so
// operations check their preconditions against presence instead of
// probing values.
type ColumnSet map[string]struct{}

// NewColumnSet builds a set from column names.
func NewColumnSet(names ...string) ColumnSet {
	s := make(ColumnSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s ColumnSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Clone returns an independent copy.
func (s ColumnSet) Clone() ColumnSet {
	out := make(ColumnSet, len(s)+1)
	for n := range s {
		out[n] = struct{}{}
	}
	return out
}

// Missing returns, preserving the order given, the names not in the set.
func (s ColumnSet) Missing(names ...string) []string {
	var missing []string
	for _, n := range names {
		if !s.Has(n) {
			missing = append(missing, n)
		}
	}
	return missing
}

// Names returns the set sorted, for logging and display.
func (s ColumnSet) Names() []string {
	names := lo.Keys(s)
	sort.Strings(names)
	return names
}

// Record is one fire event in the typed schema. Numeric fields carry
// their column's sentinel when the source cell was blank or junk: -1 for
// the ids, 0 for resource counts, nil for the burned-area source.
// BurnedAreaAlias is the hectareas_quemadas value (missing read as 0);
// Total is set by TotalResources and reported through the per-province
// aggregate rows rather than serialized here.
type Record struct {
	Year            int      `json:"anio"`
	DangerID        int      `json:"idpeligro"`
	ProvinceCode    int      `json:"idprovincia"`
	ProvinceName    string   `json:"provincia"`
	Personnel       float64  `json:"numeromediospersonal"`
	Heavy           float64  `json:"numeromediospesados"`
	Air             float64  `json:"numeromediosaereos"`
	BurnedArea      *float64 `json:"perdidassuperficiales"`
	Cause           *int     `json:"idcausa"`
	Intentional     bool     `json:"intencionado"`
	BurnedAreaAlias float64  `json:"hectareas_quemadas"`
	Total           float64  `json:"-"`
}

// Table pairs typed records with the set of columns the source actually
// provided. Transformations return new tables and never mutate their
// input, so a Table in hand is safe to share.
type Table struct {
	Columns ColumnSet
	Records []Record
}

// NewTable builds a table over records, declaring the given columns
// present.
func NewTable(records []Record, columns ...string) Table {
	return Table{Columns: NewColumnSet(columns...), Records: records}
}

// Has reports whether the named column was present in the source.
func (t Table) Has(column string) bool {
	return t.Columns.Has(column)
}

// Years returns the distinct years in ascending order.
func (t Table) Years() []int {
	years := lo.Uniq(lo.Map(t.Records, func(r Record, _ int) int { return r.Year }))
	sort.Ints(years)
	return years
}

func (t Table) cloneRecords() []Record {
	out := make([]Record, len(t.Records))
	copy(out, t.Records)
	return out
}
