package domain

import (
	"sort"

	"github.com/samber/lo"
)

// ProvinceResources is one choropleth row: summed resource usage for a
// province.
type ProvinceResources struct {
	Province  string  `json:"provincia"`
	Total     float64 `json:"total_medios"`
	Personnel float64 `json:"numeromediospersonal"`
	Heavy     float64 `json:"numeromediospesados"`
	Air       float64 `json:"numeromediosaereos"`
}

// YearBurnedArea is one chart row: hectares burned in a year.
type YearBurnedArea struct {
	Year       int     `json:"anio"`
	BurnedArea float64 `json:"hectareas_quemadas"`
}

// YearResources is one chart row: resource usage in a year.
type YearResources struct {
	Year      int     `json:"anio"`
	Personnel float64 `json:"numeromediospersonal"`
	Heavy     float64 `json:"numeromediospesados"`
	Air       float64 `json:"numeromediosaereos"`
}

// ProvinceBurnedArea is one ranking row for the top-provinces view.
type ProvinceBurnedArea struct {
	Province   string  `json:"provincia"`
	BurnedArea float64 `json:"hectareas_quemadas"`
}

// TotalResources adds the total_medios column, the per-row sum of the
// three resource categories. All three must be present.
func TotalResources(t Table) (Table, error) {
	if err := requireColumns(t, ResourceColumns...); err != nil {
		return Table{}, err
	}

	records := t.cloneRecords()
	for i := range records {
		records[i].Total = records[i].Personnel + records[i].Heavy + records[i].Air
	}

	cols := t.Columns.Clone()
	cols[ColTotalResources] = struct{}{}
	return Table{Columns: cols, Records: records}, nil
}

// GroupByProvinceForMap sums total and per-category resources by province
// name, one row per distinct name, sorted by name. The total column is
// computed on the fly when absent.
func GroupByProvinceForMap(t Table) ([]ProvinceResources, error) {
	if !t.Has(ColTotalResources) {
		withTotal, err := TotalResources(t)
		if err != nil {
			return nil, err
		}
		t = withTotal
	}
	if err := requireColumns(t, ResourceColumns...); err != nil {
		return nil, err
	}

	byProvince := make(map[string]*ProvinceResources)
	for _, r := range t.Records {
		row := byProvince[r.ProvinceName]
		if row == nil {
			row = &ProvinceResources{Province: r.ProvinceName}
			byProvince[r.ProvinceName] = row
		}
		row.Total += r.Total
		row.Personnel += r.Personnel
		row.Heavy += r.Heavy
		row.Air += r.Air
	}

	rows := lo.Map(lo.Values(byProvince), func(row *ProvinceResources, _ int) ProvinceResources {
		return *row
	})
	sort.Slice(rows, func(i, j int) bool { return rows[i].Province < rows[j].Province })
	return rows, nil
}

// BurnedAreaByYear sums burned area per year, sorted by year.
func BurnedAreaByYear(t Table) ([]YearBurnedArea, error) {
	value, err := burnedAreaValue(t)
	if err != nil {
		return nil, err
	}

	sums := make(map[int]float64)
	for _, r := range t.Records {
		sums[r.Year] += value(r)
	}

	years := lo.Keys(sums)
	sort.Ints(years)
	rows := make([]YearBurnedArea, len(years))
	for i, y := range years {
		rows[i] = YearBurnedArea{Year: y, BurnedArea: sums[y]}
	}
	return rows, nil
}

// ResourcesByYear sums each resource category per year, sorted by year.
// All three resource columns must be present.
func ResourcesByYear(t Table) ([]YearResources, error) {
	if err := requireColumns(t, ResourceColumns...); err != nil {
		return nil, err
	}

	byYear := make(map[int]*YearResources)
	for _, r := range t.Records {
		row := byYear[r.Year]
		if row == nil {
			row = &YearResources{Year: r.Year}
			byYear[r.Year] = row
		}
		row.Personnel += r.Personnel
		row.Heavy += r.Heavy
		row.Air += r.Air
	}

	years := lo.Keys(byYear)
	sort.Ints(years)
	rows := make([]YearResources, len(years))
	for i, y := range years {
		rows[i] = *byYear[y]
	}
	return rows, nil
}

// TopProvincesByBurnedArea ranks provinces by summed burned area,
// descending, and keeps the first n. Equal sums order by province name so
// the ranking is identical run to run.
func TopProvincesByBurnedArea(t Table, n int) ([]ProvinceBurnedArea, error) {
	value, err := burnedAreaValue(t)
	if err != nil {
		return nil, err
	}

	sums := make(map[string]float64)
	for _, r := range t.Records {
		sums[r.ProvinceName] += value(r)
	}

	rows := make([]ProvinceBurnedArea, 0, len(sums))
	for name, area := range sums {
		rows = append(rows, ProvinceBurnedArea{Province: name, BurnedArea: area})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].BurnedArea != rows[j].BurnedArea {
			return rows[i].BurnedArea > rows[j].BurnedArea
		}
		return rows[i].Province < rows[j].Province
	})

	if n < 0 {
		n = 0
	}
	if n > len(rows) {
		n = len(rows)
	}
	return rows[:n], nil
}

// burnedAreaValue picks the per-record burned-area reader: the alias
// column when present, else the raw source column with missing read as
// zero. Neither present is a hard error naming both.
func burnedAreaValue(t Table) (func(Record) float64, error) {
	switch {
	case t.Has(ColBurnedAreaAlias):
		return func(r Record) float64 { return r.BurnedAreaAlias }, nil
	case t.Has(ColBurnedArea):
		return func(r Record) float64 {
			if r.BurnedArea == nil {
				return 0
			}
			return *r.BurnedArea
		}, nil
	default:
		return nil, &MissingColumnsError{Columns: []string{ColBurnedAreaAlias, ColBurnedArea}}
	}
}
