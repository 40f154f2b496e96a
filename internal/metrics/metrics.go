// Package metrics owns the Prometheus collectors exposed on /metrics.
package metrics

import (
    "net/http"
    "strconv"
    "time"

    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/collectors"
    "github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "soundbank"

// Metrics groups the service collectors.  All methods are safe on a nil
// receiver so components can run without instrumentation in tests.
type Metrics struct {
    registry *prometheus.Registry

    requests    *prometheus.CounterVec
    latency     *prometheus.HistogramVec
    tagFailures *prometheus.CounterVec
    catalog     *prometheus.CounterVec
    cache       *prometheus.CounterVec
    rateLimited prometheus.Counter
    events      *prometheus.CounterVec
}

// New registers every collector on a fresh registry together with the Go
// runtime and process collectors.
func New() *Metrics {
    reg := prometheus.NewRegistry()
    m := &Metrics{
        registry: reg,
        requests: prometheus.NewCounterVec(prometheus.CounterOpts{
            Namespace: namespace,
            Subsystem: "http",
            Name:      "requests_total",
            Help:      "HTTP requests by method, route and status.",
        }, []string{"method", "route", "status"}),
        latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
            Namespace: namespace,
            Subsystem: "http",
            Name:      "request_duration_seconds",
            Help:      "HTTP request latency by method and route.",
            Buckets:   prometheus.DefBuckets,
        }, []string{"method", "route"}),
        tagFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
            Namespace: namespace,
            Subsystem: "catalog",
            Name:      "tag_failures_total",
            Help:      "Tags that could not be linked to a sound or soundpack.",
        }, []string{"entity"}),
        catalog: prometheus.NewCounterVec(prometheus.CounterOpts{
            Namespace: namespace,
            Subsystem: "catalog",
            Name:      "writes_total",
            Help:      "Sounds and soundpacks created.",
        }, []string{"entity"}),
        cache: prometheus.NewCounterVec(prometheus.CounterOpts{
            Namespace: namespace,
            Subsystem: "cache",
            Name:      "lookups_total",
            Help:      "Response cache lookups by result.",
        }, []string{"result"}),
        rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
            Namespace: namespace,
            Subsystem: "auth",
            Name:      "rate_limited_total",
            Help:      "Login attempts rejected by the rate limiter.",
        }),
        events: prometheus.NewCounterVec(prometheus.CounterOpts{
            Namespace: namespace,
            Subsystem: "events",
            Name:      "published_total",
            Help:      "Catalog events by publish outcome.",
        }, []string{"outcome"}),
    }
    reg.MustRegister(
        collectors.NewGoCollector(),
        collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
        m.requests, m.latency, m.tagFailures, m.catalog, m.cache, m.rateLimited, m.events,
    )
    return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
    if m == nil {
        return promhttp.Handler()
    }
    return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
    if m == nil {
        return nil
    }
    return m.registry
}

func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
    if m == nil {
        return
    }
    m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
    m.latency.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) TagFailed(entity string) {
    if m == nil {
        return
    }
    m.tagFailures.WithLabelValues(entity).Inc()
}

func (m *Metrics) CatalogWrite(entity string) {
    if m == nil {
        return
    }
    m.catalog.WithLabelValues(entity).Inc()
}

// CacheLookup records a response cache hit or miss.
func (m *Metrics) CacheLookup(hit bool) {
    if m == nil {
        return
    }
    result := "miss"
    if hit {
        result = "hit"
    }
    m.cache.WithLabelValues(result).Inc()
}

func (m *Metrics) RateLimited() {
    if m == nil {
        return
    }
    m.rateLimited.Inc()
}

// EventPublished records the outcome of a catalog event publish.
func (m *Metrics) EventPublished(err error) {
    if m == nil {
        return
    }
    outcome := "ok"
    if err != nil {
        outcome = "error"
    }
    m.events.WithLabelValues(outcome).Inc()
}
