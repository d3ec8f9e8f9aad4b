// Package metrics exports server activity in the Prometheus format.
//
// A Collector owns its own registry so several servers (and tests) can run
// side by side without clashing on the global default registry. All methods
// are safe on a nil *Collector, which records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "spark"

// Collector holds the server metrics.
type Collector struct {
	registry *prometheus.Registry

	connectionsAccepted prometheus.Counter
	connectionsActive   prometheus.Gauge
	acceptErrors        prometheus.Counter
	responses           *prometheus.CounterVec
	requestDuration     prometheus.Histogram
}

// Options configures a Collector.
type Options struct {
	// RuntimeMetrics adds the Go runtime and process collectors.
	RuntimeMetrics bool

	// DurationBuckets overrides the request duration histogram buckets.
	// Default: prometheus.DefBuckets
	DurationBuckets []float64
}

// New creates a Collector registered on a fresh registry.
func New(opts Options) *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	if opts.RuntimeMetrics {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	buckets := opts.DurationBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	return &Collector{
		registry: reg,

		connectionsAccepted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "connections",
			Name:      "accepted_total",
			Help:      "Total number of accepted connections",
		}),

		connectionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "connections",
			Name:      "active",
			Help:      "Number of connections currently being served",
		}),

		acceptErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accept_errors_total",
			Help:      "Total number of Accept errors other than shutdown",
		}),

		responses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "responses_total",
			Help:      "Total number of responses written, by status code",
		}, []string{"code"}),

		requestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Time from accept to response written",
			Buckets:   buckets,
		}),
	}
}

// ConnectionOpened records an accepted connection.
func (c *Collector) ConnectionOpened() {
	if c == nil {
		return
	}
	c.connectionsAccepted.Inc()
	c.connectionsActive.Inc()
}

// ConnectionClosed records the end of a connection.
func (c *Collector) ConnectionClosed() {
	if c == nil {
		return
	}
	c.connectionsActive.Dec()
}

// AcceptError records a failed Accept.
func (c *Collector) AcceptError() {
	if c == nil {
		return
	}
	c.acceptErrors.Inc()
}

// ObserveResponse records one response with its status code and the time
// spent serving the connection.
func (c *Collector) ObserveResponse(code int, d time.Duration) {
	if c == nil {
		return
	}
	c.responses.WithLabelValues(strconv.Itoa(code)).Inc()
	c.requestDuration.Observe(d.Seconds())
}

// Registry returns the registry backing c.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler serves the metrics of c. A nil Collector serves 404.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
