package payment

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"github.com/lukasssicevs/drippler-web/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.BillingGateway = (*StripeGateway)(nil)

// PriceSpec is the fixed subscription price attached to every checkout
// session (amount in cents, monthly interval).
type PriceSpec struct {
	ProductName        string
	ProductDescription string
	UnitAmount         int64
	Currency           string
	Interval           string
}

// StripeGateway implements adapter.BillingGateway on an injected Stripe
// client so tests and callers never touch process-wide SDK state.
type StripeGateway struct {
	sc         *client.API
	price      PriceSpec
	successURL string
	cancelURL  string
}

func NewStripeGateway(secretKey string, price PriceSpec, successURL, cancelURL string) (*StripeGateway, error) {
	if secretKey == "" {
		return nil, errors.New("stripe: secret key empty")
	}
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &StripeGateway{sc: sc, price: price, successURL: successURL, cancelURL: cancelURL}, nil
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req adapter.CheckoutRequest) (string, error) {
	params := &stripe.CheckoutSessionParams{
		CustomerEmail: stripe.String(req.CustomerEmail),
		Mode:          stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL:    stripe.String(g.successURL),
		CancelURL:     stripe.String(g.cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(g.price.Currency),
					UnitAmount: stripe.Int64(g.price.UnitAmount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(g.price.ProductName),
						Description: stripe.String(g.price.ProductDescription),
					},
					Recurring: &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
						Interval: stripe.String(g.price.Interval),
					},
				},
			},
		},
	}
	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.IdempotencyKey = stripe.String(req.IdempotencyKey)
	}

	sess, err := g.sc.CheckoutSessions.New(params)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

func (g *StripeGateway) CancelAtPeriodEnd(ctx context.Context, subscriptionID string) (*adapter.RemoteSubscription, error) {
	params := &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(true),
	}
	params.Context = ctx

	sub, err := g.sc.Subscriptions.Update(subscriptionID, params)
	if err != nil {
		return nil, err
	}
	return remoteSub(sub), nil
}

func (g *StripeGateway) ListActiveByCustomer(ctx context.Context, customerID string) ([]*adapter.RemoteSubscription, error) {
	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String(string(stripe.SubscriptionStatusActive)),
	}
	params.Context = ctx

	var out []*adapter.RemoteSubscription
	iter := g.sc.Subscriptions.List(params)
	for iter.Next() {
		out = append(out, remoteSub(iter.Subscription()))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func remoteSub(s *stripe.Subscription) *adapter.RemoteSubscription {
	out := &adapter.RemoteSubscription{
		ID:                s.ID,
		Status:            string(s.Status),
		CancelAtPeriodEnd: s.CancelAtPeriodEnd,
	}
	if s.Customer != nil {
		out.CustomerID = s.Customer.ID
	}
	return out
}
