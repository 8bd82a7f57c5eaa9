package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/modelctx/linemcp/protocol"
)

// Metrics records Prometheus metrics for each request: a counter by method
// and outcome, and a latency histogram by method. Use Middleware to wire it
// into the pipeline and Handler to expose the scrape endpoint.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// MetricsOption configures the Metrics middleware.
type MetricsOption func(*metricsConfig)

type metricsConfig struct {
	namespace string
	registry  *prometheus.Registry
}

// WithMetricsNamespace sets the metric namespace. Defaults to "linemcp".
func WithMetricsNamespace(ns string) MetricsOption {
	return func(c *metricsConfig) {
		c.namespace = ns
	}
}

// WithMetricsRegistry sets a custom Prometheus registry.
func WithMetricsRegistry(r *prometheus.Registry) MetricsOption {
	return func(c *metricsConfig) {
		c.registry = r
	}
}

// NewMetrics creates a Metrics collector and registers its instruments.
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := &metricsConfig{
		namespace: "linemcp",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.registry == nil {
		cfg.registry = prometheus.NewRegistry()
	}

	m := &Metrics{
		registry: cfg.registry,
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.namespace,
				Name:      "requests_total",
				Help:      "Total number of requests by method and outcome.",
			},
			[]string{"method", "outcome", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.namespace,
				Name:      "request_duration_seconds",
				Help:      "Request latency by method.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}

	cfg.registry.MustRegister(m.requests, m.duration)
	return m
}

// Middleware returns the request middleware that records metrics.
func (m *Metrics) Middleware() Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			start := time.Now()

			resp, err := next(ctx, req)

			m.duration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())

			outcome, code := "success", ""
			switch {
			case err != nil:
				outcome = "error"
				var rpcErr *protocol.Error
				if errors.As(err, &rpcErr) {
					code = strconv.Itoa(rpcErr.Code)
				}
			case resp != nil && resp.Error != nil:
				outcome = "error"
				code = strconv.Itoa(resp.Error.Code)
			}
			m.requests.WithLabelValues(req.Method, outcome, code).Inc()

			return resp, err
		}
	}
}

// Handler returns an http.Handler serving the metrics in Prometheus
// exposition format, for mounting on a separate admin listener.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry, for registering additional
// collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
