package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPMetrics records request-level prometheus metrics.
type HTTPMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// Metrics records domain-level counters.
type Metrics struct {
	settlementsTotal    *prometheus.CounterVec
	paymentRequestsTotal *prometheus.CounterVec
}

// NewHTTPMetrics registers HTTP metrics on the default registry.
func NewHTTPMetrics() *HTTPMetrics {
	return &HTTPMetrics{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "revena",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "revena",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// New registers domain metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		settlementsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "revena",
			Subsystem: "payment",
			Name:      "settlements_total",
			Help:      "Payment settlements by outcome.",
		}, []string{"outcome"}),
		paymentRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "revena",
			Subsystem: "payment",
			Name:      "requests_total",
			Help:      "Payment requests created by method.",
		}, []string{"method"}),
	}
}

// RecordSettlement counts a settlement outcome (settled, duplicate, rejected).
func (m *Metrics) RecordSettlement(outcome string) {
	if m == nil {
		return
	}
	m.settlementsTotal.WithLabelValues(outcome).Inc()
}

// RecordPaymentRequest counts a created payment request.
func (m *Metrics) RecordPaymentRequest(method string) {
	if m == nil {
		return
	}
	m.paymentRequestsTotal.WithLabelValues(method).Inc()
}

// GinMiddleware observes every request handled by the engine.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		m.requestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
