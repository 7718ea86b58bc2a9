package domain

// ResolveProvinceNames fills the province name column from a code→name
// lookup, usually built by geo.ProvinceLookup from the boundary file.
// Tables without the province id column pass through unchanged. Codes
// missing from the lookup (including the -1 sentinel) keep whatever name
// the row already had; the name column is present in the result either
// way.
func ResolveProvinceNames(t Table, names map[int]string) Table {
	if !t.Has(ColProvinceID) {
		return t
	}

	records := t.cloneRecords()
	for i := range records {
		if name, ok := names[records[i].ProvinceCode]; ok {
			records[i].ProvinceName = name
		}
	}

	cols := t.Columns.Clone()
	cols[ColProvinceName] = struct{}{}
	return Table{Columns: cols, Records: records}
}
