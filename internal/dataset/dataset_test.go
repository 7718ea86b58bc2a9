package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LoreEMF/spain-wildfires/internal/config"
	"github.com/LoreEMF/spain-wildfires/internal/domain"
	"github.com/LoreEMF/spain-wildfires/internal/geo"
	"github.com/LoreEMF/spain-wildfires/internal/observability"
)

// --- fakes ---

type fakeTables struct {
	raw   domain.RawTable
	err   error
	calls int
}

func (f *fakeTables) ReadTable(_ context.Context) (domain.RawTable, error) {
	f.calls++
	return f.raw, f.err
}

type fakeBounds struct {
	fc  *geo.FeatureCollection
	err error
}

func (f *fakeBounds) ReadBoundaries(_ context.Context) (*geo.FeatureCollection, error) {
	return f.fc, f.err
}

func fakeRaw() domain.RawTable {
	return domain.RawTable{
		Columns: []string{
			domain.ColYear, domain.ColProvinceID, domain.ColPersonnel,
			domain.ColHeavy, domain.ColAir, domain.ColBurnedArea,
			domain.ColCause, domain.ColDangerID,
		},
		Rows: [][]string{
			{"2001", "27", "5", "1", "0", "12.5", "410", "1"},
			{"2001", "32", "3", "0", "1", "", "200", "2"},
			{"2003", "27", "2", "2", "2", "7.5", "500", "1"},
		},
	}
}

func fakeBoundaries() *geo.FeatureCollection {
	point := json.RawMessage(`{"type":"Point","coordinates":[-7.5,43.0]}`)
	return &geo.FeatureCollection{
		Type: "FeatureCollection",
		Features: []geo.Feature{
			{Type: "Feature", Properties: map[string]any{"cod_prov": float64(27), "name": "Lugo"}, Geometry: point},
			{Type: "Feature", Properties: map[string]any{"cod_prov": "32", "name": "Ourense"}, Geometry: point},
			{Type: "Feature", Properties: map[string]any{"cod_prov": float64(99), "name": "Atlantida"}, Geometry: point},
		},
	}
}

func testConfig() *config.Config {
	return &config.Config{GeoCodeKey: "cod_prov", GeoNameKey: "name", ViewCacheSize: 8}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDataset(t *testing.T) *Dataset {
	t.Helper()
	d := New(&fakeTables{raw: fakeRaw()}, &fakeBounds{fc: fakeBoundaries()}, testConfig(), testLogger(), observability.NewMetricsForTesting())
	require.NoError(t, d.Load(context.Background()))
	return d
}

// allYears matches every row regardless of year or intent.
var allYears = domain.Filter{FromYear: 0, ToYear: 9999, Intentional: true, Unintentional: true}

// --- tests ---

func TestDataset_Load(t *testing.T) {
	d := newTestDataset(t)

	table := d.Table()
	require.Len(t, table.Records, 3)

	assert.Equal(t, "Lugo", table.Records[0].ProvinceName)
	assert.Equal(t, "Ourense", table.Records[1].ProvinceName)
	assert.True(t, table.Records[0].Intentional)
	assert.False(t, table.Records[1].Intentional)

	minYear, maxYear := d.YearRange()
	assert.Equal(t, 2001, minYear)
	assert.Equal(t, 2003, maxYear)
}

func TestDataset_CheckReadiness(t *testing.T) {
	d := New(&fakeTables{raw: fakeRaw()}, &fakeBounds{fc: fakeBoundaries()}, testConfig(), testLogger(), observability.NewMetricsForTesting())

	err := d.CheckReadiness(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not been loaded")

	require.NoError(t, d.Load(context.Background()))
	assert.NoError(t, d.CheckReadiness(context.Background()))
}

func TestDataset_LoadSourceErrors(t *testing.T) {
	t.Run("table source", func(t *testing.T) {
		d := New(&fakeTables{err: errors.New("boom")}, &fakeBounds{fc: fakeBoundaries()}, testConfig(), testLogger(), observability.NewMetricsForTesting())
		err := d.Load(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read table")
	})

	t.Run("boundary source", func(t *testing.T) {
		d := New(&fakeTables{raw: fakeRaw()}, &fakeBounds{err: errors.New("boom")}, testConfig(), testLogger(), observability.NewMetricsForTesting())
		err := d.Load(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read boundaries")
	})
}

func TestDataset_Summary(t *testing.T) {
	loadTime := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(loadTime))
	defer SetClock(nil)

	d := newTestDataset(t)

	s := d.Summary(allYears)
	assert.Equal(t, 3, s.Records)
	assert.Equal(t, 2, s.Provinces)
	assert.Equal(t, 2001, s.MinYear)
	assert.Equal(t, 2003, s.MaxYear)
	assert.Equal(t, 1, s.Intentional)
	assert.InDelta(t, 20.0, s.TotalBurnedArea, 1e-9)
	assert.Equal(t, loadTime, s.GeneratedAt)

	onlyIntentional := allYears
	onlyIntentional.Unintentional = false
	s = d.Summary(onlyIntentional)
	assert.Equal(t, 1, s.Records)
	assert.Equal(t, 1, s.Provinces)
	assert.InDelta(t, 12.5, s.TotalBurnedArea, 1e-9)
}

func TestDataset_Records(t *testing.T) {
	d := newTestDataset(t)

	records := d.Records(domain.Filter{FromYear: 2001, ToYear: 2001, Intentional: true, Unintentional: true})
	require.Len(t, records, 2)
	assert.Equal(t, "Lugo", records[0].ProvinceName)
	assert.Equal(t, "Ourense", records[1].ProvinceName)
}

func TestDataset_BurnedAreaByYear(t *testing.T) {
	d := newTestDataset(t)

	rows, err := d.BurnedAreaByYear(allYears)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, domain.YearBurnedArea{Year: 2001, BurnedArea: 12.5}, rows[0])
	assert.Equal(t, domain.YearBurnedArea{Year: 2003, BurnedArea: 7.5}, rows[1])
}

func TestDataset_ResourcesByYear(t *testing.T) {
	d := newTestDataset(t)

	rows, err := d.ResourcesByYear(allYears)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, domain.YearResources{Year: 2001, Personnel: 8, Heavy: 1, Air: 1}, rows[0])
	assert.Equal(t, domain.YearResources{Year: 2003, Personnel: 2, Heavy: 2, Air: 2}, rows[1])
}

func TestDataset_Provinces(t *testing.T) {
	d := newTestDataset(t)

	rows, err := d.Provinces(allYears)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, domain.ProvinceResources{Province: "Lugo", Total: 12, Personnel: 7, Heavy: 3, Air: 2}, rows[0])
	assert.Equal(t, domain.ProvinceResources{Province: "Ourense", Total: 4, Personnel: 3, Heavy: 0, Air: 1}, rows[1])
}

func TestDataset_TopProvinces(t *testing.T) {
	d := newTestDataset(t)

	rows, err := d.TopProvinces(allYears, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Lugo", rows[0].Province)
	assert.InDelta(t, 20.0, rows[0].BurnedArea, 1e-9)
}

func TestDataset_MapFeatureCollection(t *testing.T) {
	d := newTestDataset(t)

	fc, err := d.MapFeatureCollection(allYears)
	require.NoError(t, err)
	require.Len(t, fc.Features, 3)

	lugo := fc.Features[0].Properties
	assert.Equal(t, 12.0, lugo[domain.ColTotalResources])
	assert.Equal(t, 7.0, lugo[domain.ColPersonnel])
	assert.Equal(t, 3.0, lugo[domain.ColHeavy])
	assert.Equal(t, 2.0, lugo[domain.ColAir])

	ourense := fc.Features[1].Properties
	assert.Equal(t, 4.0, ourense[domain.ColTotalResources])

	// No rows for this province: keys present, values null.
	atlantida := fc.Features[2].Properties
	require.Contains(t, atlantida, domain.ColTotalResources)
	assert.Nil(t, atlantida[domain.ColTotalResources])
	assert.Nil(t, atlantida[domain.ColPersonnel])
}

func TestDataset_ViewMemoization(t *testing.T) {
	d := newTestDataset(t)

	first, err := d.BurnedAreaByYear(allYears)
	require.NoError(t, err)
	second, err := d.BurnedAreaByYear(allYears)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, d.cache.len(), "same filter should reuse one entry")

	narrow := domain.Filter{FromYear: 2001, ToYear: 2001, Intentional: true, Unintentional: true}
	_, err = d.BurnedAreaByYear(narrow)
	require.NoError(t, err)
	assert.Equal(t, 2, d.cache.len(), "distinct filters cache separately")
}

func TestDataset_ReloadClearsCache(t *testing.T) {
	tables := &fakeTables{raw: fakeRaw()}
	d := New(tables, &fakeBounds{fc: fakeBoundaries()}, testConfig(), testLogger(), observability.NewMetricsForTesting())
	require.NoError(t, d.Load(context.Background()))

	_, err := d.BurnedAreaByYear(allYears)
	require.NoError(t, err)
	require.Equal(t, 1, d.cache.len())

	require.NoError(t, d.Load(context.Background()))
	assert.Equal(t, 2, tables.calls)
	assert.Equal(t, 0, d.cache.len())
}

func TestDataset_MissingColumnsPropagate(t *testing.T) {
	raw := fakeRaw()
	raw.Columns = raw.Columns[:2] // only year and province id survive
	for i, row := range raw.Rows {
		raw.Rows[i] = row[:2]
	}

	d := New(&fakeTables{raw: raw}, &fakeBounds{fc: fakeBoundaries()}, testConfig(), testLogger(), observability.NewMetricsForTesting())
	require.NoError(t, d.Load(context.Background()))

	_, err := d.ResourcesByYear(allYears)
	require.Error(t, err)

	var missing *domain.MissingColumnsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{domain.ColPersonnel, domain.ColHeavy, domain.ColAir}, missing.Columns)
}
