package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "epw"

// Metrics holds the Prometheus counters, histograms, and gauges for EPW conversions.
type Metrics struct {
	// Conversion metrics.
	Conversions         *prometheus.CounterVec // labels: outcome
	ConversionsInFlight prometheus.Gauge
	RowsWritten         prometheus.Counter

	// NSRDB fetch metrics.
	FetchRequests *prometheus.CounterVec   // labels: endpoint={aggregated,typical}, outcome
	FetchDuration *prometheus.HistogramVec // labels: endpoint

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeAPIDuration prometheus.Histogram
	GeocodeEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates all metrics and registers them with reg.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(
		m.Conversions,
		m.ConversionsInFlight,
		m.RowsWritten,
		m.FetchRequests,
		m.FetchDuration,
		m.GeocodeRequests,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversions_total",
			Help:      "NSRDB to EPW conversions by outcome.",
		}, []string{"outcome"}),
		ConversionsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "conversions_in_flight",
			Help:      "Conversions currently running.",
		}),
		RowsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_written_total",
			Help:      "EPW data rows written to disk.",
		}),
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_requests_total",
			Help:      "NSRDB download requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "NSRDB download duration in seconds.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 12, 16, 20},
		}, []string{"endpoint"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Reverse geocoding requests by outcome.",
		}, []string{"outcome"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "geocode_enabled",
			Help:      "1 when geocoding enrichment is enabled, 0 otherwise.",
		}),
	}
}
