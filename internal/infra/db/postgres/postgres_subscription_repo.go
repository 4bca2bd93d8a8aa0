package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/lukasssicevs/drippler-web/internal/domain"
	"github.com/lukasssicevs/drippler-web/internal/domain/model"
	"github.com/lukasssicevs/drippler-web/internal/domain/ports/repository"
)

// Ensure subscriptionRepo implements repository.SubscriptionRepository
var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

type subscriptionRepo struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepo(pool *pgxpool.Pool) *subscriptionRepo {
	return &subscriptionRepo{pool: pool}
}

const subColumns = `
id, user_id, stripe_customer_id, stripe_subscription_id, status, plan_type,
cancel_at_period_end, current_period_start, current_period_end, created_at, updated_at`

func (r *subscriptionRepo) FindActiveByUser(ctx context.Context, userID string) (*model.UserSubscription, error) {
	const q = `
SELECT` + subColumns + `
  FROM user_subscriptions
 WHERE user_id=$1 AND status='active'
 ORDER BY created_at DESC
 LIMIT 1;`
	row := r.pool.QueryRow(ctx, q, userID)
	s, err := scanSub(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoActiveSubscription
		}
		return nil, domain.ErrOperationFailed
	}
	return s, nil
}

func (r *subscriptionRepo) Upsert(ctx context.Context, s *model.UserSubscription) error {
	const q = `
INSERT INTO user_subscriptions (
  user_id, stripe_customer_id, stripe_subscription_id, status, plan_type,
  cancel_at_period_end, current_period_start, current_period_end, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (stripe_subscription_id) DO UPDATE SET
  user_id=$1, stripe_customer_id=$2, status=$4, plan_type=$5,
  cancel_at_period_end=$6, current_period_start=$7, current_period_end=$8, updated_at=$9;`

	_, err := r.pool.Exec(ctx, q,
		s.UserID, s.StripeCustomerID, s.StripeSubscriptionID, s.Status, s.PlanType,
		s.CancelAtPeriodEnd, s.CurrentPeriodStart, s.CurrentPeriodEnd, time.Now())
	if err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *subscriptionRepo) UpdateBySubscriptionID(ctx context.Context, subscriptionID string, status model.SubscriptionStatus, planType model.PlanType, cancelAtPeriodEnd bool) error {
	const q = `
UPDATE user_subscriptions
   SET status=$2, plan_type=$3, cancel_at_period_end=$4, updated_at=$5
 WHERE stripe_subscription_id=$1;`
	tag, err := r.pool.Exec(ctx, q, subscriptionID, status, planType, cancelAtPeriodEnd, time.Now())
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *subscriptionRepo) UpdateStatusBySubscriptionID(ctx context.Context, subscriptionID string, status model.SubscriptionStatus) error {
	const q = `
UPDATE user_subscriptions
   SET status=$2, updated_at=$3
 WHERE stripe_subscription_id=$1;`
	tag, err := r.pool.Exec(ctx, q, subscriptionID, status, time.Now())
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *subscriptionRepo) SetCancelAtPeriodEnd(ctx context.Context, id string, cancel bool) error {
	const q = `
UPDATE user_subscriptions
   SET cancel_at_period_end=$2, updated_at=$3
 WHERE id=$1;`
	tag, err := r.pool.Exec(ctx, q, id, cancel, time.Now())
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanSub(row pgx.Row) (*model.UserSubscription, error) {
	var s model.UserSubscription
	err := row.Scan(
		&s.ID, &s.UserID, &s.StripeCustomerID, &s.StripeSubscriptionID,
		&s.Status, &s.PlanType, &s.CancelAtPeriodEnd,
		&s.CurrentPeriodStart, &s.CurrentPeriodEnd, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
