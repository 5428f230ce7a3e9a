// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/planora/todo-planner-api/internal/identity"
)

// Collector gathers request, error and auth-state metrics.
type Collector struct {
	registry *prometheus.Registry

	httpRequests    *prometheus.CounterVec
	httpLatency     prometheus.Histogram
	gatewayErrors   *prometheus.CounterVec
	authTransitions *prometheus.CounterVec
}

// NewCollector creates a Collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "todo_http_requests_total",
			Help: "HTTP requests by method and status code",
		}, []string{"method", "status"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "todo_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		gatewayErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "todo_gateway_errors_total",
			Help: "Error responses by gateway error code",
		}, []string{"code"}),
		authTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "todo_auth_transitions_total",
			Help: "Authentication state transitions by event type",
		}, []string{"event"}),
	}

	c.registry.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.gatewayErrors,
		c.authTransitions,
	)

	return c
}

// Middleware records one observation per HTTP request.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		ctx.Next()

		c.httpRequests.WithLabelValues(
			ctx.Request.Method,
			strconv.Itoa(ctx.Writer.Status()),
		).Inc()
		c.httpLatency.Observe(time.Since(start).Seconds())
	}
}

// RecordGatewayError counts an error response by its taxonomy code.
func (c *Collector) RecordGatewayError(code string) {
	c.gatewayErrors.WithLabelValues(code).Inc()
}

// ObserveAuthEvents consumes auth-state transitions from the provider until
// the subscription is cancelled.
func (c *Collector) ObserveAuthEvents(events <-chan identity.Event) {
	for e := range events {
		c.authTransitions.WithLabelValues(string(e.Type)).Inc()
	}
}

// Handler serves the /metrics endpoint for this collector's registry.
func (c *Collector) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
	return func(ctx *gin.Context) {
		h.ServeHTTP(ctx.Writer, ctx.Request)
	}
}
