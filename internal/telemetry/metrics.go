// Package telemetry holds the Prometheus metrics of the screener.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Ticker outcomes recorded per scan
const (
	OutcomeTopPick  = "top_pick"
	OutcomeScored   = "scored"
	OutcomeNoData   = "no_data"
	OutcomeExcluded = "excluded"
)

// Metrics is the screener metric set. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	ScanDuration     prometheus.Histogram
	ScansTotal       *prometheus.CounterVec
	TickersScored    *prometheus.CounterVec
	ProviderFailures *prometheus.CounterVec
	ProviderLatency  *prometheus.HistogramVec
	CacheLookups     *prometheus.CounterVec
	TopPicks         prometheus.Gauge
}

// NewMetrics creates the metric set on its own registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		ScanDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "valuescan_scan_duration_seconds",
				Help:    "Duration of a full scan run in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
		),

		ScansTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "valuescan_scans_total",
				Help: "Total number of scans by result",
			},
			[]string{"result"},
		),

		TickersScored: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "valuescan_tickers_total",
				Help: "Tickers processed by outcome",
			},
			[]string{"outcome"},
		),

		ProviderFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "valuescan_provider_failures_total",
				Help: "Failed fundamentals fetches by provider",
			},
			[]string{"provider"},
		),

		ProviderLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "valuescan_provider_fetch_seconds",
				Help:    "Fundamentals fetch latency by provider",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"provider"},
		),

		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "valuescan_cache_lookups_total",
				Help: "Fundamentals cache lookups by result",
			},
			[]string{"result"},
		),

		TopPicks: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "valuescan_top_picks",
				Help: "Number of top picks in the latest scan",
			},
		),
	}

	m.registry.MustRegister(
		m.ScanDuration,
		m.ScansTotal,
		m.TickersScored,
		m.ProviderFailures,
		m.ProviderLatency,
		m.CacheLookups,
		m.TopPicks,
	)

	return m
}

// Handler serves the metrics in Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveScan records one finished scan
func (m *Metrics) ObserveScan(duration time.Duration, err error, topPicks int) {
	if m == nil {
		return
	}
	if err != nil {
		m.ScansTotal.WithLabelValues("error").Inc()
		return
	}
	m.ScansTotal.WithLabelValues("ok").Inc()
	m.ScanDuration.Observe(duration.Seconds())
	m.TopPicks.Set(float64(topPicks))
}

// CountTicker records one ticker outcome
func (m *Metrics) CountTicker(outcome string) {
	if m == nil {
		return
	}
	m.TickersScored.WithLabelValues(outcome).Inc()
}

// ObserveFetch records one provider call
func (m *Metrics) ObserveFetch(provider string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.ProviderLatency.WithLabelValues(provider).Observe(duration.Seconds())
	if err != nil {
		m.ProviderFailures.WithLabelValues(provider).Inc()
	}
}

// CacheResult records a cache hit or miss
func (m *Metrics) CacheResult(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheLookups.WithLabelValues("hit").Inc()
	} else {
		m.CacheLookups.WithLabelValues("miss").Inc()
	}
}
