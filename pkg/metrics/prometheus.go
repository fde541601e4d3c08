package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetchesTotal   *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	cacheRequests  *prometheus.CounterVec
	fallbacksTotal *prometheus.CounterVec
	impliedRate    *prometheus.GaugeVec
	latency        *prometheus.HistogramVec
}

// New creates a recorder registered with the default Prometheus registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a recorder registered with reg. Tests pass a fresh
// registry so repeated construction does not collide.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		fetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ratewatch_fetches_total",
				Help: "Total number of upstream market-data fetches",
			},
			[]string{"kind"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ratewatch_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		cacheRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ratewatch_cache_requests_total",
				Help: "Cache lookups by data kind and result",
			},
			[]string{"kind", "result"},
		),
		fallbacksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ratewatch_fallbacks_total",
				Help: "Times a component served fallback data instead of live data",
			},
			[]string{"component"},
		),
		impliedRate: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ratewatch_implied_rate",
				Help: "Last futures-implied rate per contract, in percent",
			},
			[]string{"contract"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ratewatch_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordFetch records an upstream fetch for a data kind.
func (r *Recorder) RecordFetch(kind string) {
	r.fetchesTotal.WithLabelValues(kind).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordCache records a cache hit or miss for a data kind.
func (r *Recorder) RecordCache(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheRequests.WithLabelValues(kind, result).Inc()
}

// RecordFallback records that a component served fallback data.
func (r *Recorder) RecordFallback(component string) {
	r.fallbacksTotal.WithLabelValues(component).Inc()
}

// RecordImpliedRate records the latest implied rate for a contract.
func (r *Recorder) RecordImpliedRate(contract string, rate float64) {
	r.impliedRate.WithLabelValues(contract).Set(rate)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
