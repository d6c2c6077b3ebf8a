package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the ETL pipeline.
type Metrics struct {
	RecordsFetched  prometheus.Counter
	RecordsRejected prometheus.Counter
	RowsLoaded      prometheus.Counter
	PipelineRunning prometheus.Gauge

	// Batch cycle metrics.
	BatchSize     prometheus.Histogram
	CycleDuration prometheus.Histogram

	AlertsEmitted *prometheus.CounterVec // labels: issue={needs_water,soil_moisture,temperature}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RecordsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "plant_etl",
			Name:      "records_fetched_total",
			Help:      "Total raw records fetched from the plant API.",
		}),
		RecordsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "plant_etl",
			Name:      "records_rejected_total",
			Help:      "Total raw records rejected during validation.",
		}),
		RowsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "plant_etl",
			Name:      "rows_loaded_total",
			Help:      "Total status rows written to the database.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "plant_etl",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "plant_etl",
			Name:      "batch_size",
			Help:      "Number of raw records fetched per polling cycle.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "plant_etl",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of one complete fetch-transform-load cycle.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		AlertsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "plant_etl",
			Name:      "alerts_emitted_total",
			Help:      "Health alerts emitted by issue.",
		}, []string{"issue"}),
	}

	prometheus.MustRegister(
		m.RecordsFetched,
		m.RecordsRejected,
		m.RowsLoaded,
		m.PipelineRunning,
		m.BatchSize,
		m.CycleDuration,
		m.AlertsEmitted,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RecordsFetched:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "plant_etl", Name: "records_fetched_total"}),
		RecordsRejected: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "plant_etl", Name: "records_rejected_total"}),
		RowsLoaded:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "plant_etl", Name: "rows_loaded_total"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "plant_etl", Name: "pipeline_running"}),
		BatchSize:       prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "plant_etl", Name: "batch_size"}),
		CycleDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "plant_etl", Name: "cycle_duration_seconds"}),
		AlertsEmitted:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "plant_etl", Name: "alerts_emitted_total"}, []string{"issue"}),
	}
}
