package metrics

import "github.com/prometheus/client_golang/prometheus"

// PaymentMetrics tracks gateway webhook and reference activity.
type PaymentMetrics struct {
	webhookOutcomes *prometheus.CounterVec
	references      *prometheus.CounterVec
}

// NewPaymentMetrics registers the payment metrics on the provided registerer.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	if reg == nil {
		return &PaymentMetrics{}
	}
	webhookOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_webhook_total",
		Help: "Payment webhook deliveries by outcome.",
	}, []string{"outcome"})
	references := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_reference_total",
		Help: "Payment references created by method.",
	}, []string{"method"})
	reg.MustRegister(webhookOutcomes, references)
	return &PaymentMetrics{
		webhookOutcomes: webhookOutcomes,
		references:      references,
	}
}

// IncWebhook increments the webhook counter for the given outcome.
// Outcomes include paid, duplicate, unknown_order and mismatch.
func (p *PaymentMetrics) IncWebhook(outcome string) {
	if p == nil || p.webhookOutcomes == nil {
		return
	}
	p.webhookOutcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncReference increments the reference counter for the given method.
func (p *PaymentMetrics) IncReference(method string) {
	if p == nil || p.references == nil {
		return
	}
	p.references.WithLabelValues(normalizeLabel(method)).Inc()
}
