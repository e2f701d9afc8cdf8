// Package metrics provides Prometheus collectors for dose analyses and HTTP
// traffic:
//   - analyses_total: Counter with risk_level label
//   - analysis_validation_failures_total: Counter with field label
//   - analysis_cache_hits_total: Counter with tier label
//   - analysis_duration_seconds: Histogram
//   - http_requests_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_requests_in_flight: Gauge for concurrent requests
//   - rate_limiter_clients: Gauge of tracked rate limiter buckets
//
// Each Collector owns its registry so independent instances never collide.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/saravanapriyaa21/take-it-right/internal/domain"
)

// Collector holds the service collectors and the registry they live in
type Collector struct {
	registry *prometheus.Registry

	AnalysesTotal       *prometheus.CounterVec
	ValidationFailures  *prometheus.CounterVec
	CacheHits           *prometheus.CounterVec
	AnalysisDuration    prometheus.Histogram
	HTTPRequestTotals   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestInFlight prometheus.Gauge
	RateLimiterClients  prometheus.Gauge
}

var _ domain.AnalysisObserver = (*Collector)(nil)

// NewCollector creates and registers all collectors on a fresh registry,
// including the Go runtime and process collectors.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		AnalysesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analyses_total",
				Help: "Completed dose analyses by risk level",
			},
			[]string{"risk_level"},
		),
		ValidationFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analysis_validation_failures_total",
				Help: "Rejected dose requests by offending field",
			},
			[]string{"field"},
		),
		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analysis_cache_hits_total",
				Help: "Verdicts served from cache by tier",
			},
			[]string{"tier"},
		),
		AnalysisDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "analysis_duration_seconds",
				Help:    "Dose analysis latency",
				Buckets: []float64{.0001, .0005, .001, .0025, .005, .01, .025, .05, .1},
			},
		),
		HTTPRequestTotals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Current in-flight requests",
			},
		),
		RateLimiterClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "rate_limiter_clients",
				Help: "Client buckets currently tracked by the rate limiter",
			},
		),
	}

	c.registry.MustRegister(
		c.AnalysesTotal,
		c.ValidationFailures,
		c.CacheHits,
		c.AnalysisDuration,
		c.HTTPRequestTotals,
		c.HTTPRequestDuration,
		c.HTTPRequestInFlight,
		c.RateLimiterClients,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// Registry returns the registry the collectors are registered on
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ObserveAnalysis records a completed analysis
func (c *Collector) ObserveAnalysis(result *domain.AnalysisResult, seconds float64) {
	if result != nil {
		c.AnalysesTotal.WithLabelValues(string(result.RiskLevel)).Inc()
	}
	c.AnalysisDuration.Observe(seconds)
}

// ObserveValidationFailure records a rejected request
func (c *Collector) ObserveValidationFailure(field string) {
	if field == "" {
		field = "unknown"
	}
	c.ValidationFailures.WithLabelValues(field).Inc()
}

// ObserveCacheHit records a verdict served from the given cache tier
func (c *Collector) ObserveCacheHit(tier string) {
	c.CacheHits.WithLabelValues(tier).Inc()
}
