package model

import "time"

type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
)

// UserSubscription mirrors one row of the hosted user_subscriptions table.
// Rows are upserted on checkout completion keyed by the Stripe subscription
// id and mutated by webhook events.
type UserSubscription struct {
	ID                   string
	UserID               string
	StripeCustomerID     string
	StripeSubscriptionID string
	Status               SubscriptionStatus
	PlanType             PlanType
	CancelAtPeriodEnd    bool
	CurrentPeriodStart   *time.Time
	CurrentPeriodEnd     *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// PlanTypeForStatus maps a provider subscription status onto a plan tier:
// a user remains Pro only while the subscription is active (past_due keeps
// the row but the downgrade happens via updated/deleted events).
func PlanTypeForStatus(status SubscriptionStatus) PlanType {
	if status == SubscriptionStatusActive {
		return PlanPro
	}
	return PlanFree
}
