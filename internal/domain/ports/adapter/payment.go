package adapter

import "context"

// CheckoutRequest describes one subscription checkout session.
type CheckoutRequest struct {
	CustomerEmail  string
	IdempotencyKey string
}

// RemoteSubscription is the payment provider's view of a subscription.
type RemoteSubscription struct {
	ID                string
	CustomerID        string
	Status            string
	CancelAtPeriodEnd bool
}

// BillingGateway is the port for the payment provider.
type BillingGateway interface {
	// CreateCheckoutSession builds one subscription-mode checkout session
	// and returns the provider-hosted checkout URL.
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error)

	// CancelAtPeriodEnd flags the subscription to end at the period
	// boundary instead of immediately.
	CancelAtPeriodEnd(ctx context.Context, subscriptionID string) (*RemoteSubscription, error)

	// ListActiveByCustomer lists the customer's currently active
	// subscriptions (newest first, provider order).
	ListActiveByCustomer(ctx context.Context, customerID string) ([]*RemoteSubscription, error)
}
