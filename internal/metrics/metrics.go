// Package metrics collects and exposes Prometheus metrics for the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the metrics surface used by middleware and jobs.
type Recorder interface {
	RecordRequest(route, method string, statusCode int, duration time.Duration)
	RecordProviderError(code string)
	RecordOrphansDeleted(count int)
}

// Collector records metrics into a Prometheus registry.
type Collector struct {
	requests       *prometheus.CounterVec
	latency        *prometheus.HistogramVec
	providerErrors *prometheus.CounterVec
	orphans        prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_identity_http_requests_total",
			Help: "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status_code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "campus_identity_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		providerErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_identity_provider_errors_total",
			Help: "Failed directory or document store calls by error code.",
		}, []string{"code"}),
		orphans: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "campus_identity_student_orphans_deleted_total",
			Help: "Student documents removed because their account no longer exists.",
		}),
	}

	reg.MustRegister(
		c.requests,
		c.latency,
		c.providerErrors,
		c.orphans,
	)

	return c
}

// RecordRequest counts one handled request and observes its latency.
func (c *Collector) RecordRequest(route, method string, statusCode int, duration time.Duration) {
	c.requests.WithLabelValues(route, method, strconv.Itoa(statusCode)).Inc()
	c.latency.WithLabelValues(route, method).Observe(duration.Seconds())
}

func (c *Collector) RecordProviderError(code string) {
	c.providerErrors.WithLabelValues(code).Inc()
}

func (c *Collector) RecordOrphansDeleted(count int) {
	c.orphans.Add(float64(count))
}

// Handler returns the HTTP handler Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

var _ Recorder = (*Collector)(nil)
