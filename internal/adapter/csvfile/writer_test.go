package csvfile

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LoreEMF/spain-wildfires/internal/domain"
)

func preparedFixture(t *testing.T) domain.Table {
	t.Helper()
	raw := domain.RawTable{
		Columns: []string{
			"anio", "idpeligro", "idprovincia", "provincia",
			"numeromediospersonal", "numeromediospesados", "numeromediosaereos",
			"perdidassuperficiales", "idcausa",
		},
		Rows: [][]string{
			{"2001", "1", "27", "Lugo", "5", "1", "0", "12.5", "410"},
			{"2003", "2", "32", "Ourense", "3", "0", "1", "", "oops"},
		},
	}
	return domain.Prepare(raw)
}

func TestWriter_WriteTable(t *testing.T) {
	table := preparedFixture(t)
	path := filepath.Join(t.TempDir(), "export.csv")

	require.NoError(t, NewWriter(path).WriteTable(table))

	raw, err := NewReader(path, ',').ReadTable(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"anio", "idpeligro", "idprovincia", "provincia",
		"numeromediospersonal", "numeromediospesados", "numeromediosaereos",
		"perdidassuperficiales", "idcausa", "intencionado", "hectareas_quemadas",
	}, raw.Columns)

	require.Len(t, raw.Rows, 2)
	assert.Equal(t, []string{"2001", "1", "27", "Lugo", "5", "1", "0", "12.5", "410", "true", "12.5"}, raw.Rows[0])
	// Missing burned area and unreadable cause export as empty cells.
	assert.Equal(t, []string{"2003", "2", "32", "Ourense", "3", "0", "1", "", "", "false", "0"}, raw.Rows[1])
}

func TestWriter_IncludesTotalColumn(t *testing.T) {
	table, err := domain.TotalResources(preparedFixture(t))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, NewWriter(path).WriteTable(table))

	raw, err := NewReader(path, ',').ReadTable(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, raw.Columns)
	assert.Equal(t, "total_medios", raw.Columns[len(raw.Columns)-1])
	assert.Equal(t, "6", raw.Rows[0][len(raw.Columns)-1])
	assert.Equal(t, "4", raw.Rows[1][len(raw.Columns)-1])
}

func TestWriter_CreatesParentDirectories(t *testing.T) {
	table := preparedFixture(t)
	path := filepath.Join(t.TempDir(), "out", "nested", "export.csv")

	require.NoError(t, NewWriter(path).WriteTable(table))

	raw, err := NewReader(path, ',').ReadTable(context.Background())
	require.NoError(t, err)
	assert.Len(t, raw.Rows, 2)
}

func TestWriter_SubsetColumns(t *testing.T) {
	raw := domain.RawTable{
		Columns: []string{"anio", "idcausa"},
		Rows:    [][]string{{"2001", "450"}},
	}
	table := domain.PrepareColumns(raw, "anio", "idcausa")

	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, NewWriter(path).WriteTable(table))

	out, err := NewReader(path, ',').ReadTable(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"anio", "idcausa", "intencionado", "hectareas_quemadas"}, out.Columns)
	assert.Equal(t, []string{"2001", "450", "true", "0"}, out.Rows[0])
}
