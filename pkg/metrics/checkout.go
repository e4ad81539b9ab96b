package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records counters for the checkout and webhook paths.
type CheckoutMetrics struct {
	sessionsStarted   *prometheus.CounterVec
	ordersFinalized   prometheus.Counter
	webhookEvents     *prometheus.CounterVec
	providerLatency   *prometheus.HistogramVec
	finalizeDuplicate prometheus.Counter
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	sessionsStarted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_sessions_started",
		Help: "Hosted checkout sessions created, by currency.",
	}, []string{"currency"})
	ordersFinalized := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_finalized",
		Help: "Orders created from confirmed payments.",
	})
	webhookEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stripe_webhook_events",
		Help: "Stripe webhook events received, by type and outcome.",
	}, []string{"type", "outcome"})
	providerLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_provider_latency_seconds",
		Help:    "Latency of payment provider calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	finalizeDuplicate := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_finalize_duplicates",
		Help: "Finalize attempts short-circuited because the order already exists.",
	})
	reg.MustRegister(sessionsStarted, ordersFinalized, webhookEvents, providerLatency, finalizeDuplicate)
	return &CheckoutMetrics{
		sessionsStarted:   sessionsStarted,
		ordersFinalized:   ordersFinalized,
		webhookEvents:     webhookEvents,
		providerLatency:   providerLatency,
		finalizeDuplicate: finalizeDuplicate,
	}
}

// IncSessionStarted increments the session counter for a currency.
func (m *CheckoutMetrics) IncSessionStarted(currency string) {
	if m == nil || m.sessionsStarted == nil {
		return
	}
	m.sessionsStarted.WithLabelValues(normalizeLabel(currency)).Inc()
}

// IncOrderFinalized increments the finalized order counter.
func (m *CheckoutMetrics) IncOrderFinalized() {
	if m == nil || m.ordersFinalized == nil {
		return
	}
	m.ordersFinalized.Inc()
}

// IncWebhookEvent records a webhook delivery outcome.
func (m *CheckoutMetrics) IncWebhookEvent(eventType, outcome string) {
	if m == nil || m.webhookEvents == nil {
		return
	}
	m.webhookEvents.WithLabelValues(normalizeLabel(eventType), normalizeLabel(outcome)).Inc()
}

// ObserveProviderLatency records the duration of a payment provider call.
func (m *CheckoutMetrics) ObserveProviderLatency(operation string, duration time.Duration) {
	if m == nil || m.providerLatency == nil {
		return
	}
	m.providerLatency.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncFinalizeDuplicate counts a finalize call that found an existing order.
func (m *CheckoutMetrics) IncFinalizeDuplicate() {
	if m == nil || m.finalizeDuplicate == nil {
		return
	}
	m.finalizeDuplicate.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
