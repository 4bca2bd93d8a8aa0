package repository

import (
	"context"

	"github.com/lukasssicevs/drippler-web/internal/domain/model"
)

// UsageTracker wraps the two opaque database functions that own the
// per-user monthly quota. Their internals (including whether recording is
// limit-enforcing) live server-side and are not visible to this service.
type UsageTracker interface {
	// PlanInfo calls get_user_plan_info. Returns domain.ErrNotFound when
	// the function yields no row (callers default to the free shape).
	PlanInfo(ctx context.Context, userID string) (*model.PlanInfo, error)

	// RecordGeneration calls record_user_generation with a metadata
	// document. An error is interpreted by callers as the limit being
	// exceeded between check and record.
	RecordGeneration(ctx context.Context, userID, generationType string, metadata map[string]any) error
}
