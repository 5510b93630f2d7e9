// Package metrics exposes Prometheus counters for generations, quota
// decisions and billing webhooks.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MetricsCollector interface {
	RecordGeneration(kind, result string)
	RecordQuotaDecision(plan string, allowed bool)
	RecordWebhookEvent(eventType string)
	RecordRender(result string)
}

type Collector struct {
	generations   *prometheus.CounterVec
	quotaDecision *prometheus.CounterVec
	webhookEvents *prometheus.CounterVec
	renders       *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flowsocial_generations_total",
			Help: "Model generations by kind and result.",
		}, []string{"kind", "result"}),
		quotaDecision: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flowsocial_quota_decisions_total",
			Help: "Usage gate decisions by plan.",
		}, []string{"plan", "decision"}),
		webhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flowsocial_stripe_webhook_events_total",
			Help: "Verified Stripe webhook events by type.",
		}, []string{"type"}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flowsocial_post_renders_total",
			Help: "Background post image renders by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(c.generations, c.quotaDecision, c.webhookEvents, c.renders)
	return c
}

func (c *Collector) RecordGeneration(kind, result string) {
	c.generations.WithLabelValues(kind, result).Inc()
}

func (c *Collector) RecordQuotaDecision(plan string, allowed bool) {
	decision := "denied"
	if allowed {
		decision = "allowed"
	}
	c.quotaDecision.WithLabelValues(plan, decision).Inc()
}

func (c *Collector) RecordWebhookEvent(eventType string) {
	c.webhookEvents.WithLabelValues(eventType).Inc()
}

func (c *Collector) RecordRender(result string) {
	c.renders.WithLabelValues(result).Inc()
}

// Handler serves the scrape endpoint for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything. Tests and tools that do not scrape use it.
type Nop struct{}

func (Nop) RecordGeneration(string, string)  {}
func (Nop) RecordQuotaDecision(string, bool) {}
func (Nop) RecordWebhookEvent(string)        {}
func (Nop) RecordRender(string)              {}
