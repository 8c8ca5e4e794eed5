// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records the counters the reconciler, synchronizer and HTTP
// layer report.
type Collector struct {
	registry *prometheus.Registry

	reconciliations *prometheus.CounterVec
	webhookEvents   *prometheus.CounterVec
	httpStatus      *prometheus.CounterVec
}

// Boundary-level webhook outcomes; the synchronizer reports applied and
// dropped itself.
const (
	EventRejected = "rejected"
	EventIgnored  = "ignored"
)

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		reconciliations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "videosaas_reconciliations_total",
			Help: "Identity reconciliations by outcome.",
		}, []string{"outcome"}),
		webhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "videosaas_webhook_events_total",
			Help: "Billing webhook events by outcome.",
		}, []string{"outcome"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "videosaas_http_status_total",
			Help: "HTTP responses by status code.",
		}, []string{"status_code"}),
	}

	c.registry.MustRegister(c.reconciliations, c.webhookEvents, c.httpStatus)
	return c
}

func (c *Collector) RecordReconciliation(outcome string) {
	c.reconciliations.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordWebhookEvent(outcome string) {
	c.webhookEvents.WithLabelValues(outcome).Inc()
}

// Middleware counts response status codes.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()
		c.httpStatus.WithLabelValues(strconv.Itoa(ctx.Writer.Status())).Inc()
	}
}

// Handler serves the /metrics endpoint.
func (c *Collector) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}
