package geo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const provincesJSON = `{
  "type": "FeatureCollection",
  "name": "provincias",
  "crs": {"type": "name", "properties": {"name": "urn:ogc:def:crs:OGC:1.3:CRS84"}},
  "features": [
    {
      "type": "Feature",
      "properties": {"cod_prov": 27, "name": "Lugo", "cod_ccaa": "12"},
      "geometry": {"type": "Polygon", "coordinates": [[[-7.7, 43.0], [-7.0, 43.0], [-7.0, 42.3], [-7.7, 43.0]]]}
    },
    {
      "type": "Feature",
      "properties": {"cod_prov": "32", "name": "Ourense"},
      "geometry": {"type": "Polygon", "coordinates": [[[-8.1, 42.4], [-7.0, 42.4], [-7.0, 41.8], [-8.1, 42.4]]]}
    },
    {
      "type": "Feature",
      "properties": {"name": "Sin Codigo"},
      "geometry": null
    }
  ]
}`

func decodeProvinces(t *testing.T) *FeatureCollection {
	t.Helper()
	var fc FeatureCollection
	require.NoError(t, json.Unmarshal([]byte(provincesJSON), &fc))
	return &fc
}

func TestFeatureCollectionDecode(t *testing.T) {
	fc := decodeProvinces(t)

	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.Equal(t, "provincias", fc.Name)
	assert.NotEmpty(t, fc.CRS)
	require.Len(t, fc.Features, 3)
	assert.JSONEq(t, `{"type": "Polygon", "coordinates": [[[-7.7, 43.0], [-7.0, 43.0], [-7.0, 42.3], [-7.7, 43.0]]]}`, string(fc.Features[0].Geometry))
}

func TestProvinceLookup(t *testing.T) {
	t.Run("reads numeric and string codes", func(t *testing.T) {
		names := ProvinceLookup(decodeProvinces(t), "cod_prov", "name")

		assert.Equal(t, map[int]string{27: "Lugo", 32: "Ourense"}, names)
	})

	t.Run("skips features missing either key", func(t *testing.T) {
		fc := &FeatureCollection{Features: []Feature{
			{Properties: map[string]any{"cod_prov": 1.0}},
			{Properties: map[string]any{"name": "Solo Nombre"}},
			{Properties: nil},
		}}

		assert.Empty(t, ProvinceLookup(fc, "cod_prov", "name"))
	})

	t.Run("last feature wins on duplicate codes", func(t *testing.T) {
		fc := &FeatureCollection{Features: []Feature{
			{Properties: map[string]any{"cod_prov": 8.0, "name": "Barcelona"}},
			{Properties: map[string]any{"cod_prov": 8.0, "name": "Barcelone"}},
		}}

		names := ProvinceLookup(fc, "cod_prov", "name")

		assert.Equal(t, "Barcelone", names[8])
	})

	t.Run("tolerates zero-padded and decimal codes", func(t *testing.T) {
		fc := &FeatureCollection{Features: []Feature{
			{Properties: map[string]any{"cod_prov": "04", "name": "Almeria"}},
			{Properties: map[string]any{"cod_prov": 15.0, "name": "A Coruna"}},
		}}

		names := ProvinceLookup(fc, "cod_prov", "name")

		assert.Equal(t, map[int]string{4: "Almeria", 15: "A Coruna"}, names)
	})

	t.Run("skips unreadable codes and non-string names", func(t *testing.T) {
		fc := &FeatureCollection{Features: []Feature{
			{Properties: map[string]any{"cod_prov": "not-a-code", "name": "X"}},
			{Properties: map[string]any{"cod_prov": 9.0, "name": 9.0}},
		}}

		assert.Empty(t, ProvinceLookup(fc, "cod_prov", "name"))
	})

	t.Run("nil collection yields an empty lookup", func(t *testing.T) {
		assert.Empty(t, ProvinceLookup(nil, "cod_prov", "name"))
	})
}

func TestClone(t *testing.T) {
	fc := decodeProvinces(t)

	clone := fc.Clone()
	clone.Features[0].Properties["name"] = "Mutado"
	clone.Features[0].Geometry[0] = 'X'
	clone.Name = "otra"

	assert.Equal(t, "Lugo", fc.Features[0].Properties["name"])
	assert.Equal(t, byte('{'), fc.Features[0].Geometry[0])
	assert.Equal(t, "provincias", fc.Name)
}
