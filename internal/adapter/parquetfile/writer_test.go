package parquetfile

import (
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LoreEMF/spain-wildfires/internal/domain"
)

func TestWriter_WriteTable(t *testing.T) {
	raw := domain.RawTable{
		Columns: []string{
			"anio", "idpeligro", "idprovincia", "provincia",
			"numeromediospersonal", "numeromediospesados", "numeromediosaereos",
			"perdidassuperficiales", "idcausa",
		},
		Rows: [][]string{
			{"2001", "1", "27", "Lugo", "5", "1", "0", "12.5", "410"},
			{"2003", "2", "32", "Ourense", "3", "0", "1", "", ""},
		},
	}
	table, err := domain.TotalResources(domain.Prepare(raw))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", "fires.parquet")
	require.NoError(t, NewWriter(path).WriteTable(table))

	rows, err := parquet.ReadFile[fireRow](path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, int32(2001), first.Year)
	assert.Equal(t, int32(27), first.ProvinceCode)
	assert.Equal(t, "Lugo", first.ProvinceName)
	require.NotNil(t, first.BurnedArea)
	assert.Equal(t, 12.5, *first.BurnedArea)
	require.NotNil(t, first.Cause)
	assert.Equal(t, int32(410), *first.Cause)
	assert.True(t, first.Intentional)
	assert.Equal(t, 12.5, first.BurnedAreaAlias)
	assert.Equal(t, 6.0, first.Total)

	second := rows[1]
	assert.Nil(t, second.BurnedArea, "missing burned area stays null")
	assert.Nil(t, second.Cause, "blank cause stays null")
	assert.False(t, second.Intentional)
	assert.Equal(t, 0.0, second.BurnedAreaAlias)
	assert.Equal(t, 4.0, second.Total)
}

func TestWriter_EmptyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fires.parquet")
	require.NoError(t, NewWriter(path).WriteTable(domain.Table{}))

	rows, err := parquet.ReadFile[fireRow](path)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
