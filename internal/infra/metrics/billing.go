package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		checkoutSessionsTotal,
		subscriptionCancelsTotal,
		webhookEventsTotal,
	)
}

var (
	checkoutSessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_sessions_total",
			Help: "Checkout session creations by outcome (created/failed).",
		},
		[]string{"outcome"},
	)

	subscriptionCancelsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscription_cancels_total",
			Help: "Subscription cancel requests by outcome.",
		},
		[]string{"outcome"},
	)

	webhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Webhook events by type and outcome (handled/duplicate/ignored/error/bad_signature).",
		},
		[]string{"type", "outcome"},
	)
)

func IncCheckoutSession(outcome string) {
	checkoutSessionsTotal.WithLabelValues(norm(outcome)).Inc()
}

func IncSubscriptionCancel(outcome string) {
	subscriptionCancelsTotal.WithLabelValues(norm(outcome)).Inc()
}

func IncWebhookEvent(eventType, outcome string) {
	webhookEventsTotal.WithLabelValues(norm(eventType), norm(outcome)).Inc()
}
