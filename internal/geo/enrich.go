package geo

import "math"

// EnrichFeatures copies aggregate values onto the features whose
// nameField property matches a key of values. Every listed column is
// written to every feature: matched features get the number (NaN and
// infinities become null), unmatched features get null for each column,
// which tells the map layer "no data" apart from "key never existed".
// The input collection is cloned first and never mutated.
func EnrichFeatures(fc *FeatureCollection, nameField string, columns []string, values map[string]map[string]float64) *FeatureCollection {
	out := fc.Clone()
	if out == nil {
		return nil
	}

	for i := range out.Features {
		f := &out.Features[i]
		if f.Properties == nil {
			f.Properties = make(map[string]any, len(columns))
		}

		var row map[string]float64
		matched := false
		if name, ok := stringProperty(f.Properties, nameField); ok {
			row, matched = values[name]
		}

		for _, col := range columns {
			if !matched {
				f.Properties[col] = nil
				continue
			}
			v, ok := row[col]
			if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
				f.Properties[col] = nil
				continue
			}
			f.Properties[col] = v
		}
	}
	return out
}
