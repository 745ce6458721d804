package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector aggregates HTTP request statistics emitted by the storage
// transport. It satisfies the transport's observer contract: one observation
// per logical request, so retries performed inside the SDK pipeline do not
// inflate the counts.
type Collector struct {
	registry *prometheus.Registry

	requestsTotal *prometheus.CounterVec
	bytesReceived prometheus.Counter
	bytesSent     prometheus.Counter
}

// NewCollector creates a collector with its own Prometheus registry.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "azurefs",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests issued to the storage service",
		}, []string{"method", "status"}),
		bytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "azurefs",
			Subsystem: "http",
			Name:      "bytes_received_total",
			Help:      "Total response body bytes received from the storage service",
		}),
		bytesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "azurefs",
			Subsystem: "http",
			Name:      "bytes_sent_total",
			Help:      "Total request body bytes sent to the storage service",
		}),
	}

	registry.MustRegister(c.requestsTotal, c.bytesReceived, c.bytesSent)
	return c
}

// ObserveRequest records one completed HTTP request.
func (c *Collector) ObserveRequest(method string, statusCode int) {
	c.requestsTotal.WithLabelValues(method, strconv.Itoa(statusCode)).Inc()
}

// ObserveBytes records body bytes moved in either direction.
func (c *Collector) ObserveBytes(received, sent int64) {
	if received > 0 {
		c.bytesReceived.Add(float64(received))
	}
	if sent > 0 {
		c.bytesSent.Add(float64(sent))
	}
}

// Registry exposes the underlying registry for composition with a larger
// metrics surface.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns an HTTP handler serving the collected metrics in
// Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
