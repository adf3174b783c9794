package prometheus

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type PrometheusAdapter struct {
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	events       *prometheus.CounterVec
	cacheLookups *prometheus.CounterVec
}

// NewPrometheusAdapter registers the collectors with the default registry.
func NewPrometheusAdapter() *PrometheusAdapter {
	return NewPrometheusAdapterWith(prometheus.DefaultRegisterer)
}

func NewPrometheusAdapterWith(reg prometheus.Registerer) *PrometheusAdapter {
	a := &PrometheusAdapter{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rental_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rental_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rental_events_total",
			Help: "Business events emitted by the rental services.",
		}, []string{"event"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rental_cache_lookups_total",
			Help: "Read cache lookups by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(a.requests, a.duration, a.events, a.cacheLookups)
	return a
}

func (a *PrometheusAdapter) RecordMetrics(c *gin.Context, start time.Time) {
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	method := c.Request.Method

	a.requests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
	a.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
}

func (a *PrometheusAdapter) RecordEvent(event string) {
	a.events.WithLabelValues(event).Inc()
}

func (a *PrometheusAdapter) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	a.cacheLookups.WithLabelValues(result).Inc()
}
