// Package metrics holds the prometheus collectors for the circle engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cache read outcomes.
const (
	OutcomeHit   = "hit"
	OutcomeMiss  = "miss"
	OutcomeStale = "stale"
)

// Collector holds every metric the engine records. A nil *Collector is
// valid and records nothing, which keeps tests free of registry setup.
type Collector struct {
	registry *prometheus.Registry

	RefreshTotal     *prometheus.CounterVec
	RefreshDuration  prometheus.Histogram
	RefreshCoalesced prometheus.Counter
	CacheReads       *prometheus.CounterVec
	BulkOwners       *prometheus.CounterVec
	HTTPRequests     *prometheus.CounterVec
}

// New creates a collector registered on its own registry.
func New() *Collector {
	registry := prometheus.NewRegistry()
	c := &Collector{
		registry: registry,
		RefreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "circle_refresh_total",
			Help: "Snapshot refresh computations by result",
		}, []string{"result"}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "circle_refresh_duration_seconds",
			Help:    "Snapshot refresh duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		}),
		RefreshCoalesced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "circle_refresh_coalesced_total",
			Help: "Refresh requests served by an already scheduled computation",
		}),
		CacheReads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "circle_cache_reads_total",
			Help: "Snapshot cache reads by outcome",
		}, []string{"outcome"}),
		BulkOwners: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "circle_refresh_all_owners_total",
			Help: "Owners processed by bulk refresh jobs by result",
		}, []string{"result"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "circle_http_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
	}
	registry.MustRegister(
		c.RefreshTotal,
		c.RefreshDuration,
		c.RefreshCoalesced,
		c.CacheReads,
		c.BulkOwners,
		c.HTTPRequests,
	)
	return c
}

// Handler serves the collector's registry in the prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

func (c *Collector) ObserveRefresh(result string, seconds float64) {
	if c == nil {
		return
	}
	c.RefreshTotal.WithLabelValues(result).Inc()
	c.RefreshDuration.Observe(seconds)
}

func (c *Collector) IncCoalesced() {
	if c == nil {
		return
	}
	c.RefreshCoalesced.Inc()
}

func (c *Collector) IncCacheRead(outcome string) {
	if c == nil {
		return
	}
	c.CacheReads.WithLabelValues(outcome).Inc()
}

func (c *Collector) IncBulkOwner(result string) {
	if c == nil {
		return
	}
	c.BulkOwners.WithLabelValues(result).Inc()
}

func (c *Collector) IncHTTPRequest(method, route, status string) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, status).Inc()
}
