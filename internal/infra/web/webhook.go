package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/lukasssicevs/drippler-web/internal/infra/logging"
	"github.com/lukasssicevs/drippler-web/internal/infra/metrics"
)

const webhookBodyLimit = 1 << 20 // 1MiB, Stripe events are far smaller

// EventDeduper remembers already-processed webhook event ids.
type EventDeduper interface {
	Seen(ctx context.Context, eventID string) (bool, error)
}

// Local projections of the event payloads. Only the fields this service
// acts on are decoded; everything else in the raw event is ignored.
type stripeCheckoutSession struct {
	ID              string `json:"id"`
	Mode            string `json:"mode"`
	Customer        string `json:"customer"`
	Subscription    string `json:"subscription"`
	CustomerEmail   string `json:"customer_email"`
	CustomerDetails struct {
		Email string `json:"email"`
	} `json:"customer_details"`
}

type stripeSubscription struct {
	ID                string `json:"id"`
	Customer          string `json:"customer"`
	Status            string `json:"status"`
	CancelAtPeriodEnd bool   `json:"cancel_at_period_end"`
}

type stripeInvoice struct {
	ID       string `json:"id"`
	Customer string `json:"customer"`
}

func (s *Server) handleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, webhookBodyLimit))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unable to read request body")
		return
	}

	event, err := webhook.ConstructEventWithOptions(payload, r.Header.Get("Stripe-Signature"), s.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		metrics.IncWebhookEvent("unknown", "bad_signature")
		writeError(w, http.StatusBadRequest, "Invalid webhook signature")
		return
	}

	log := logging.With(r.Context(), s.log)

	// Stripe retries delivery; replays of a handled event are acknowledged
	// without touching the database again.
	if dup, derr := s.deduper.Seen(r.Context(), event.ID); derr != nil {
		log.Warn().Err(derr).Str("event_id", event.ID).Msg("webhook dedupe unavailable, processing anyway")
	} else if dup {
		metrics.IncWebhookEvent(string(event.Type), "duplicate")
		writeJSON(w, http.StatusOK, map[string]any{"received": true, "status": "duplicate"})
		return
	}

	outcome, err := s.applyWebhookEvent(r.Context(), &event)
	if err != nil {
		metrics.IncWebhookEvent(string(event.Type), "error")
		log.Error().Err(err).Str("event_id", event.ID).Str("type", string(event.Type)).Msg("webhook processing failed")
		writeError(w, http.StatusInternalServerError, "Failed to process webhook event")
		return
	}
	metrics.IncWebhookEvent(string(event.Type), outcome)
	writeJSON(w, http.StatusOK, map[string]any{"received": true})
}

func (s *Server) applyWebhookEvent(ctx context.Context, event *stripe.Event) (string, error) {
	switch event.Type {
	case "checkout.session.completed":
		var session stripeCheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return "error", fmt.Errorf("decode checkout session: %w", err)
		}
		if session.Mode != "subscription" {
			logging.With(ctx, s.log).Info().Str("mode", session.Mode).Msg("ignoring non-subscription checkout")
			return "ignored", nil
		}
		email := session.CustomerDetails.Email
		if email == "" {
			email = session.CustomerEmail
		}
		return "handled", s.billing.HandleCheckoutCompleted(ctx, email, session.Customer, session.Subscription)

	case "customer.subscription.updated":
		var sub stripeSubscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return "error", fmt.Errorf("decode subscription: %w", err)
		}
		return "handled", s.billing.HandleSubscriptionUpdated(ctx, sub.ID, sub.Status, sub.CancelAtPeriodEnd)

	case "customer.subscription.deleted":
		var sub stripeSubscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return "error", fmt.Errorf("decode subscription: %w", err)
		}
		return "handled", s.billing.HandleSubscriptionDeleted(ctx, sub.ID)

	case "invoice.payment_failed":
		var inv stripeInvoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return "error", fmt.Errorf("decode invoice: %w", err)
		}
		return "handled", s.billing.HandlePaymentFailed(ctx, inv.Customer)

	default:
		logging.With(ctx, s.log).Info().Str("type", string(event.Type)).Str("event_id", event.ID).Msg("webhook ignored (unhandled type)")
		return "ignored", nil
	}
}
