// Package geo models the provinces boundary file: a GeoJSON feature
// collection whose geometries are opaque payloads. Only feature
// properties are read here; geometry and CRS bytes pass through
// untouched so the map layer receives exactly what the source published.
package geo

import "encoding/json"

// Feature is one named region. Geometry stays raw: polygons and
// multipolygons are never parsed, only carried.
type Feature struct {
	Type       string          `json:"type"`
	Properties map[string]any  `json:"properties"`
	Geometry   json.RawMessage `json:"geometry,omitempty"`
}

// FeatureCollection is the boundary document. Name and CRS show up in
// common province exports and are preserved when present.
type FeatureCollection struct {
	Type     string          `json:"type"`
	Name     string          `json:"name,omitempty"`
	CRS      json.RawMessage `json:"crs,omitempty"`
	Features []Feature       `json:"features"`
}

// Clone returns a deep copy: mutating the copy's properties or geometry
// never touches the original.
func (fc *FeatureCollection) Clone() *FeatureCollection {
	if fc == nil {
		return nil
	}

	out := &FeatureCollection{
		Type:     fc.Type,
		Name:     fc.Name,
		CRS:      cloneRaw(fc.CRS),
		Features: make([]Feature, len(fc.Features)),
	}
	for i, f := range fc.Features {
		out.Features[i] = Feature{
			Type:       f.Type,
			Properties: cloneProperties(f.Properties),
			Geometry:   cloneRaw(f.Geometry),
		}
	}
	return out
}

func cloneRaw(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}
	out := make(json.RawMessage, len(raw))
	copy(out, raw)
	return out
}

func cloneProperties(props map[string]any) map[string]any {
	if props == nil {
		return nil
	}
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneProperties(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return val
	}
}
