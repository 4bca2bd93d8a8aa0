package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/lukasssicevs/drippler-web/internal/domain"
	"github.com/lukasssicevs/drippler-web/internal/domain/model"
	"github.com/lukasssicevs/drippler-web/internal/domain/ports/repository"
)

// Ensure usageTracker implements repository.UsageTracker
var _ repository.UsageTracker = (*usageTracker)(nil)

// usageTracker calls the two hosted database functions that own the quota.
// Their implementation (including whether recording enforces the limit
// atomically) is server-side and opaque to this service.
type usageTracker struct {
	pool *pgxpool.Pool
}

func NewUsageTracker(pool *pgxpool.Pool) *usageTracker {
	return &usageTracker{pool: pool}
}

func (t *usageTracker) PlanInfo(ctx context.Context, userID string) (*model.PlanInfo, error) {
	const q = `
SELECT plan_type, status, monthly_limit, current_count, remaining_generations, subscription_active
  FROM get_user_plan_info($1);`

	var p model.PlanInfo
	err := t.pool.QueryRow(ctx, q, userID).Scan(
		&p.PlanType, &p.Status, &p.MonthlyLimit, &p.CurrentCount,
		&p.RemainingGenerations, &p.SubscriptionActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get_user_plan_info: %w", err)
	}
	return &p, nil
}

func (t *usageTracker) RecordGeneration(ctx context.Context, userID, generationType string, metadata map[string]any) error {
	const q = `SELECT record_user_generation($1, $2, $3::jsonb);`

	meta, err := json.Marshal(metadata)
	if err != nil {
		return domain.ErrInvalidArgument
	}
	if _, err := t.pool.Exec(ctx, q, userID, generationType, meta); err != nil {
		// A server-raised error means the function rejected the recording
		// (limit enforced remotely); anything else is a transport failure.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return domain.ErrQuotaExceeded
		}
		return fmt.Errorf("record_user_generation: %w", err)
	}
	return nil
}
