package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// dataset service.
type Metrics struct {
	DatasetLoads      prometheus.Counter
	LoadDuration      prometheus.Histogram
	RecordsLoaded     prometheus.Gauge
	ProvincesResolved prometheus.Gauge

	// Derived-view metrics.
	ViewCache  *prometheus.CounterVec // labels: view, result={hit,miss}
	ViewErrors *prometheus.CounterVec // labels: view

	// Export metrics.
	RecordsPublished prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		DatasetLoads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wildfires",
			Name:      "dataset_loads_total",
			Help:      "Completed dataset loads.",
		}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wildfires",
			Name:      "dataset_load_duration_seconds",
			Help:      "Duration of a complete read-prepare-resolve load.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		RecordsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wildfires",
			Name:      "records_loaded",
			Help:      "Rows in the prepared table after the last load.",
		}),
		ProvincesResolved: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wildfires",
			Name:      "provinces_resolved",
			Help:      "Entries in the province code lookup after the last load.",
		}),
		ViewCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wildfires",
			Name:      "view_cache_total",
			Help:      "Derived-view cache lookups by view and result.",
		}, []string{"view", "result"}),
		ViewErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wildfires",
			Name:      "view_errors_total",
			Help:      "Derived-view computations aborted by missing columns.",
		}, []string{"view"}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wildfires",
			Name:      "records_published_total",
			Help:      "Prepared records published to Kafka.",
		}),
	}

	prometheus.MustRegister(
		m.DatasetLoads,
		m.LoadDuration,
		m.RecordsLoaded,
		m.ProvincesResolved,
		m.ViewCache,
		m.ViewErrors,
		m.RecordsPublished,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		DatasetLoads:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "wildfires", Name: "dataset_loads_total"}),
		LoadDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "wildfires", Name: "dataset_load_duration_seconds"}),
		RecordsLoaded:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "wildfires", Name: "records_loaded"}),
		ProvincesResolved: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "wildfires", Name: "provinces_resolved"}),
		ViewCache:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "wildfires", Name: "view_cache_total"}, []string{"view", "result"}),
		ViewErrors:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "wildfires", Name: "view_errors_total"}, []string{"view"}),
		RecordsPublished:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "wildfires", Name: "records_published_total"}),
	}
}
