package geo

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ProvinceLookup builds the code→name mapping from feature properties.
// Features missing either key, or whose code does not read as a number,
// are skipped. A code appearing on several features keeps the last one.
func ProvinceLookup(fc *FeatureCollection, codeKey, nameKey string) map[int]string {
	names := make(map[int]string)
	if fc == nil {
		return names
	}
	for _, f := range fc.Features {
		code, ok := intProperty(f.Properties, codeKey)
		if !ok {
			continue
		}
		name, ok := stringProperty(f.Properties, nameKey)
		if !ok {
			continue
		}
		names[code] = name
	}
	return names
}

// intProperty reads a property as an integer. Boundary exports disagree
// on the type: the code shows up as a JSON number or as a quoted string,
// occasionally zero-padded ("04"). Decimal values truncate.
func intProperty(props map[string]any, key string) (int, bool) {
	v, ok := props[key]
	if !ok {
		return 0, false
	}
	switch val := v.(type) {
	case float64:
		return int(val), true
	case int:
		return val, true
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0, false
		}
		return int(f), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return int(f), true
	default:
		return 0, false
	}
}

func stringProperty(props map[string]any, key string) (string, bool) {
	v, ok := props[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
