// Package dataset owns the loaded fires table and serves the derived
// views the dashboard reads. It wires the file sources to the domain
// transformations and memoizes per-filter view results.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samber/lo"

	"github.com/LoreEMF/spain-wildfires/internal/config"
	"github.com/LoreEMF/spain-wildfires/internal/domain"
	"github.com/LoreEMF/spain-wildfires/internal/geo"
	"github.com/LoreEMF/spain-wildfires/internal/observability"
)

// TableSource reads the raw fires table from its backing store.
type TableSource interface {
	ReadTable(ctx context.Context) (domain.RawTable, error)
}

// BoundarySource reads the province boundary collection.
type BoundarySource interface {
	ReadBoundaries(ctx context.Context) (*geo.FeatureCollection, error)
}

// mapColumns are the aggregate values written into each boundary
// feature by the map view.
var mapColumns = []string{
	domain.ColTotalResources,
	domain.ColPersonnel,
	domain.ColHeavy,
	domain.ColAir,
}

// Summary describes the loaded dataset for the dashboard header.
type Summary struct {
	Records         int       `json:"records"`
	Provinces       int       `json:"provinces"`
	MinYear         int       `json:"min_year"`
	MaxYear         int       `json:"max_year"`
	Intentional     int       `json:"intentional"`
	TotalBurnedArea float64   `json:"total_burned_area"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// Dataset holds the prepared table, the boundary features, and an LRU
// cache of derived views. Load replaces the whole state atomically, so
// readers always see one consistent table.
type Dataset struct {
	tables  TableSource
	bounds  BoundarySource
	codeKey string
	nameKey string
	logger  *slog.Logger
	metrics *observability.Metrics
	cache   *viewCache

	mu       sync.RWMutex
	table    domain.Table
	features *geo.FeatureCollection
	minYear  int
	maxYear  int
	loadedAt time.Time

	ready atomic.Bool
}

// New creates a Dataset over the given sources. Call Load before
// serving views.
func New(tables TableSource, bounds BoundarySource, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Dataset {
	return &Dataset{
		tables:  tables,
		bounds:  bounds,
		codeKey: cfg.GeoCodeKey,
		nameKey: cfg.GeoNameKey,
		logger:  logger,
		metrics: metrics,
		cache:   newViewCache(cfg.ViewCacheSize),
	}
}

// Load reads both sources, prepares the table, resolves province names
// from the boundaries, and swaps the result in. Safe to call again to
// pick up changed files.
func (d *Dataset) Load(ctx context.Context) error {
	start := time.Now()

	raw, err := d.tables.ReadTable(ctx)
	if err != nil {
		return fmt.Errorf("read table: %w", err)
	}
	table := domain.Prepare(raw)

	features, err := d.bounds.ReadBoundaries(ctx)
	if err != nil {
		return fmt.Errorf("read boundaries: %w", err)
	}
	lookup := geo.ProvinceLookup(features, d.codeKey, d.nameKey)
	table = domain.ResolveProvinceNames(table, lookup)

	years := table.Years()
	minYear, maxYear := 0, 0
	if len(years) > 0 {
		minYear, maxYear = years[0], years[len(years)-1]
	}

	d.mu.Lock()
	d.table = table
	d.features = features
	d.minYear = minYear
	d.maxYear = maxYear
	d.loadedAt = clock.Now()
	d.mu.Unlock()

	d.cache.clear()
	d.ready.Store(true)

	d.metrics.DatasetLoads.Inc()
	d.metrics.LoadDuration.Observe(time.Since(start).Seconds())
	d.metrics.RecordsLoaded.Set(float64(len(table.Records)))
	d.metrics.ProvincesResolved.Set(float64(len(lookup)))

	d.logger.Info("dataset loaded",
		"records", len(table.Records),
		"provinces", len(lookup),
		"min_year", minYear,
		"max_year", maxYear,
		"duration", time.Since(start),
	)
	return nil
}

// CheckReadiness returns nil once a load has completed, or an error
// describing why the service is not yet ready.
func (d *Dataset) CheckReadiness(_ context.Context) error {
	if !d.ready.Load() {
		return errors.New("dataset has not been loaded yet")
	}
	return nil
}

// YearRange returns the inclusive span of years in the loaded table.
// Zero values mean the table is empty.
func (d *Dataset) YearRange() (int, int) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.minYear, d.maxYear
}

// Table returns the loaded table. Treat it as read-only.
func (d *Dataset) Table() domain.Table {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.table
}

// Records returns the rows matching the filter.
func (d *Dataset) Records(f domain.Filter) []domain.Record {
	table, _ := d.snapshot()
	return table.Filter(f).Records
}

// Summary reports record, province, and intent counts plus total burned
// area for the rows matching the filter.
func (d *Dataset) Summary(f domain.Filter) Summary {
	d.mu.RLock()
	table := d.table
	loadedAt := d.loadedAt
	minYear, maxYear := d.minYear, d.maxYear
	d.mu.RUnlock()

	filtered := table.Filter(f)

	provinces := lo.Uniq(lo.FilterMap(filtered.Records, func(r domain.Record, _ int) (string, bool) {
		return r.ProvinceName, r.ProvinceName != ""
	}))
	intentional := lo.CountBy(filtered.Records, func(r domain.Record) bool { return r.Intentional })

	var burned float64
	if rows, err := domain.BurnedAreaByYear(filtered); err == nil {
		burned = lo.SumBy(rows, func(r domain.YearBurnedArea) float64 { return r.BurnedArea })
	}

	return Summary{
		Records:         len(filtered.Records),
		Provinces:       len(provinces),
		MinYear:         minYear,
		MaxYear:         maxYear,
		Intentional:     intentional,
		TotalBurnedArea: burned,
		GeneratedAt:     loadedAt,
	}
}

// MapFeatureCollection returns the boundary features with per-province
// resource aggregates written into their properties. Provinces without
// matching rows get explicit nulls. The result is shared across callers
// and must be treated as read-only.
func (d *Dataset) MapFeatureCollection(f domain.Filter) (*geo.FeatureCollection, error) {
	v, err := d.cached("map", "map:"+f.String(), func() (any, error) {
		table, features := d.snapshot()
		rows, err := domain.GroupByProvinceForMap(table.Filter(f))
		if err != nil {
			return nil, err
		}

		values := make(map[string]map[string]float64, len(rows))
		for _, row := range rows {
			values[row.Province] = map[string]float64{
				domain.ColTotalResources: row.Total,
				domain.ColPersonnel:      row.Personnel,
				domain.ColHeavy:          row.Heavy,
				domain.ColAir:            row.Air,
			}
		}
		return geo.EnrichFeatures(features, d.nameKey, mapColumns, values), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*geo.FeatureCollection), nil
}

// Provinces returns per-province resource totals for the filtered
// table, sorted by province name.
func (d *Dataset) Provinces(f domain.Filter) ([]domain.ProvinceResources, error) {
	v, err := d.cached("provinces", "provinces:"+f.String(), func() (any, error) {
		table, _ := d.snapshot()
		return domain.GroupByProvinceForMap(table.Filter(f))
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.ProvinceResources), nil
}

// BurnedAreaByYear returns the hectares-burned-per-year chart rows for
// the filtered table.
func (d *Dataset) BurnedAreaByYear(f domain.Filter) ([]domain.YearBurnedArea, error) {
	v, err := d.cached("burned_area", "burned:"+f.String(), func() (any, error) {
		table, _ := d.snapshot()
		return domain.BurnedAreaByYear(table.Filter(f))
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.YearBurnedArea), nil
}

// ResourcesByYear returns the resources-per-year chart rows for the
// filtered table.
func (d *Dataset) ResourcesByYear(f domain.Filter) ([]domain.YearResources, error) {
	v, err := d.cached("resources", "resources:"+f.String(), func() (any, error) {
		table, _ := d.snapshot()
		return domain.ResourcesByYear(table.Filter(f))
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.YearResources), nil
}

// TopProvinces ranks provinces by burned area over the filtered table
// and keeps the first n.
func (d *Dataset) TopProvinces(f domain.Filter, n int) ([]domain.ProvinceBurnedArea, error) {
	key := fmt.Sprintf("top:%d:%s", n, f)
	v, err := d.cached("top_provinces", key, func() (any, error) {
		table, _ := d.snapshot()
		return domain.TopProvincesByBurnedArea(table.Filter(f), n)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.ProvinceBurnedArea), nil
}

func (d *Dataset) snapshot() (domain.Table, *geo.FeatureCollection) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.table, d.features
}

// cached serves a view from the LRU cache, computing and storing it on a
// miss. Errors are not cached so a fixed source file is picked up by the
// next reload without a poisoned entry.
func (d *Dataset) cached(view, key string, compute func() (any, error)) (any, error) {
	if v, ok := d.cache.get(key); ok {
		d.metrics.ViewCache.WithLabelValues(view, "hit").Inc()
		return v, nil
	}
	d.metrics.ViewCache.WithLabelValues(view, "miss").Inc()

	v, err := compute()
	if err != nil {
		d.metrics.ViewErrors.WithLabelValues(view).Inc()
		return nil, err
	}
	d.cache.put(key, v)
	return v, nil
}
