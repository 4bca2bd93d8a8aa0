package repository

import (
	"context"

	"github.com/lukasssicevs/drippler-web/internal/domain/model"
)

// SubscriptionRepository persists user_subscriptions rows.
type SubscriptionRepository interface {
	// FindActiveByUser returns the user's single status=active row or
	// domain.ErrNoActiveSubscription.
	FindActiveByUser(ctx context.Context, userID string) (*model.UserSubscription, error)

	// Upsert inserts or replaces a row keyed by stripe_subscription_id.
	Upsert(ctx context.Context, s *model.UserSubscription) error

	// UpdateBySubscriptionID sets status, plan_type and
	// cancel_at_period_end for the row with the given provider id.
	UpdateBySubscriptionID(ctx context.Context, subscriptionID string, status model.SubscriptionStatus, planType model.PlanType, cancelAtPeriodEnd bool) error

	// UpdateStatusBySubscriptionID sets only the status column.
	UpdateStatusBySubscriptionID(ctx context.Context, subscriptionID string, status model.SubscriptionStatus) error

	// SetCancelAtPeriodEnd mirrors the provider-side flag on a local row.
	SetCancelAtPeriodEnd(ctx context.Context, id string, cancel bool) error
}
