// Package observability contains Prometheus metrics of netrunner.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "netrunner"

// Metrics holds the Prometheus counters, histograms, and gauges for
// location resolution and server selection. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	Runs              prometheus.Counter
	ProviderAttempts  *prometheus.CounterVec   // labels: provider, outcome
	ProviderDuration  *prometheus.HistogramVec // labels: provider
	FallbackLocations prometheus.Counter

	DirectoryLookups *prometheus.CounterVec // labels: outcome={ok,empty,error,cache_hit}
	CatalogSize      prometheus.Gauge

	Probes       *prometheus.CounterVec   // labels: class, outcome={ok,timeout,connect_failed}
	ProbeLatency *prometheus.HistogramVec // labels: class

	SelectedServers   prometheus.Gauge
	SelectionFailures prometheus.Counter
}

// NewMetrics creates metrics and registers them with a given
// registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		Runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total server selection runs.",
		}),
		ProviderAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_attempts_total",
			Help:      "Geolocation provider attempts by provider and outcome.",
		}, []string{"provider", "outcome"}),
		ProviderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_duration_seconds",
			Help:      "Duration of geolocation provider lookups.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"provider"}),
		FallbackLocations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_locations_total",
			Help:      "Resolutions which ended up with the fixed fallback location.",
		}),
		DirectoryLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "directory_lookups_total",
			Help:      "Server directory lookups by outcome.",
		}, []string{"outcome"}),
		CatalogSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_size",
			Help:      "Number of candidates in the last assembled catalog.",
		}),
		Probes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probes_total",
			Help:      "Candidate probes by geographic class and outcome.",
		}, []string{"class", "outcome"}),
		ProbeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "probe_latency_seconds",
			Help:      "Measured round-trip time of reachable candidates.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
		}, []string{"class"}),
		SelectedServers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "selected_servers",
			Help:      "Number of servers returned by the last selection.",
		}),
		SelectionFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selection_failures_total",
			Help:      "Selections which found no reachable servers.",
		}),
	}

	registerer.MustRegister(
		m.Runs,
		m.ProviderAttempts,
		m.ProviderDuration,
		m.FallbackLocations,
		m.DirectoryLookups,
		m.CatalogSize,
		m.Probes,
		m.ProbeLatency,
		m.SelectedServers,
		m.SelectionFailures,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}

func (m *Metrics) ObserveRun() {
	if m == nil {
		return
	}

	m.Runs.Inc()
}

func (m *Metrics) ObserveProvider(provider, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.ProviderAttempts.WithLabelValues(provider, outcome).Inc()
	m.ProviderDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveFallback() {
	if m == nil {
		return
	}

	m.FallbackLocations.Inc()
}

func (m *Metrics) ObserveDirectory(outcome string) {
	if m == nil {
		return
	}

	m.DirectoryLookups.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveCatalog(size int) {
	if m == nil {
		return
	}

	m.CatalogSize.Set(float64(size))
}

func (m *Metrics) ObserveProbe(class, outcome string, latency time.Duration) {
	if m == nil {
		return
	}

	m.Probes.WithLabelValues(class, outcome).Inc()

	if latency > 0 {
		m.ProbeLatency.WithLabelValues(class).Observe(latency.Seconds())
	}
}

func (m *Metrics) ObserveSelection(selected int, err error) {
	if m == nil {
		return
	}

	if err != nil {
		m.SelectionFailures.Inc()
	}

	m.SelectedServers.Set(float64(selected))
}
