package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lukasssicevs/drippler-web/internal/domain"
	"github.com/lukasssicevs/drippler-web/internal/domain/model"
	"github.com/lukasssicevs/drippler-web/internal/domain/ports/adapter"
	"github.com/lukasssicevs/drippler-web/internal/domain/ports/repository"
	"github.com/lukasssicevs/drippler-web/internal/infra/logging"
)

// Compile-time check
var _ BillingUseCase = (*billingUC)(nil)

type BillingUseCase interface {
	// CreateCheckout opens one subscription checkout session and returns
	// the provider-hosted URL. An idempotency key is generated when the
	// caller does not supply one.
	CreateCheckout(ctx context.Context, customerEmail, idempotencyKey string) (string, error)

	// Cancel flags the user's active subscription to end at the period
	// boundary, provider first, then the local mirror.
	Cancel(ctx context.Context, userID string) (*CancelResult, error)

	// Webhook event appliers. Each mirrors one provider event onto the
	// local subscription table.
	HandleCheckoutCompleted(ctx context.Context, customerEmail, customerID, subscriptionID string) error
	HandleSubscriptionUpdated(ctx context.Context, subscriptionID, status string, cancelAtPeriodEnd bool) error
	HandleSubscriptionDeleted(ctx context.Context, subscriptionID string) error
	HandlePaymentFailed(ctx context.Context, customerID string) error
}

type CancelResult struct {
	SubscriptionID    string
	CancelAtPeriodEnd bool
}

type billingUC struct {
	gateway adapter.BillingGateway
	auth    adapter.AuthProvider
	subs    repository.SubscriptionRepository
	log     *zerolog.Logger
}

func NewBillingUseCase(gateway adapter.BillingGateway, auth adapter.AuthProvider, subs repository.SubscriptionRepository, log *zerolog.Logger) *billingUC {
	return &billingUC{gateway: gateway, auth: auth, subs: subs, log: log}
}

func (u *billingUC) CreateCheckout(ctx context.Context, customerEmail, idempotencyKey string) (string, error) {
	if customerEmail == "" {
		return "", fmt.Errorf("%w: customer_email is required", domain.ErrInvalidArgument)
	}
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}
	return u.gateway.CreateCheckoutSession(ctx, adapter.CheckoutRequest{
		CustomerEmail:  customerEmail,
		IdempotencyKey: idempotencyKey,
	})
}

func (u *billingUC) Cancel(ctx context.Context, userID string) (*CancelResult, error) {
	sub, err := u.subs.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	remote, err := u.gateway.CancelAtPeriodEnd(ctx, sub.StripeSubscriptionID)
	if err != nil {
		return nil, fmt.Errorf("cancel at provider: %w", err)
	}

	if err := u.subs.SetCancelAtPeriodEnd(ctx, sub.ID, true); err != nil {
		// Provider-side flag is already set; the next subscription.updated
		// webhook heals the local row.
		logging.With(ctx, u.log).Error().Err(err).
			Str("subscription_id", sub.ID).
			Str("stripe_subscription_id", sub.StripeSubscriptionID).
			Msg("mirror cancel flag locally")
		return nil, err
	}

	return &CancelResult{
		SubscriptionID:    remote.ID,
		CancelAtPeriodEnd: remote.CancelAtPeriodEnd,
	}, nil
}

func (u *billingUC) HandleCheckoutCompleted(ctx context.Context, customerEmail, customerID, subscriptionID string) error {
	if customerEmail == "" || subscriptionID == "" {
		logging.With(ctx, u.log).Warn().Msg("checkout completed without email or subscription, skipping")
		return nil
	}

	user, err := u.auth.FindUserByEmail(ctx, customerEmail)
	if errors.Is(err, domain.ErrNotFound) {
		// Acknowledge so the provider stops retrying; the email simply has
		// no account here.
		logging.With(ctx, u.log).Warn().Str("subscription_id", subscriptionID).Msg("checkout user not found, skipping")
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve checkout user: %w", err)
	}

	now := time.Now()
	return u.subs.Upsert(ctx, &model.UserSubscription{
		ID:                   uuid.NewString(),
		UserID:               user.ID,
		StripeCustomerID:     customerID,
		StripeSubscriptionID: subscriptionID,
		Status:               model.SubscriptionStatusActive,
		PlanType:             model.PlanPro,
		CancelAtPeriodEnd:    false,
		CreatedAt:            now,
		UpdatedAt:            now,
	})
}

func (u *billingUC) HandleSubscriptionUpdated(ctx context.Context, subscriptionID, status string, cancelAtPeriodEnd bool) error {
	st := model.SubscriptionStatus(status)
	return u.subs.UpdateBySubscriptionID(ctx, subscriptionID, st, model.PlanTypeForStatus(st), cancelAtPeriodEnd)
}

func (u *billingUC) HandleSubscriptionDeleted(ctx context.Context, subscriptionID string) error {
	return u.subs.UpdateBySubscriptionID(ctx, subscriptionID, model.SubscriptionStatusCanceled, model.PlanFree, false)
}

// HandlePaymentFailed marks the customer's first active subscription
// past_due. The row keeps plan_type pro: payment failure opens a grace
// period, the downgrade arrives with subscription.updated or .deleted.
func (u *billingUC) HandlePaymentFailed(ctx context.Context, customerID string) error {
	if customerID == "" {
		return nil
	}
	remotes, err := u.gateway.ListActiveByCustomer(ctx, customerID)
	if err != nil {
		return fmt.Errorf("list customer subscriptions: %w", err)
	}
	if len(remotes) == 0 {
		logging.With(ctx, u.log).Warn().Str("customer_id", customerID).
			Msg("payment failed for customer with no active subscription")
		return nil
	}
	return u.subs.UpdateStatusBySubscriptionID(ctx, remotes[0].ID, model.SubscriptionStatusPastDue)
}
