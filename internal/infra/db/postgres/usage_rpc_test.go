//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/lukasssicevs/drippler-web/internal/domain"
	"github.com/lukasssicevs/drippler-web/internal/domain/model"
)

func TestUsageTracker_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	ctx := context.Background()
	tracker := NewUsageTracker(testPool)
	subs := NewSubscriptionRepo(testPool)

	t.Run("plan info defaults to the free shape for unknown users", func(t *testing.T) {
		cleanup(t)
		info, err := tracker.PlanInfo(ctx, uuid.NewString())
		if err != nil {
			t.Fatalf("plan info failed: %v", err)
		}
		if info.PlanType != model.PlanFree || info.MonthlyLimit != 15 || info.CurrentCount != 0 {
			t.Errorf("unexpected free shape: %+v", info)
		}
	})

	t.Run("plan info reflects an active pro subscription", func(t *testing.T) {
		cleanup(t)
		userID := uuid.NewString()
		err := subs.Upsert(ctx, &model.UserSubscription{
			UserID:               userID,
			StripeSubscriptionID: "sub_pro",
			Status:               model.SubscriptionStatusActive,
			PlanType:             model.PlanPro,
		})
		if err != nil {
			t.Fatalf("upsert failed: %v", err)
		}

		info, err := tracker.PlanInfo(ctx, userID)
		if err != nil {
			t.Fatalf("plan info failed: %v", err)
		}
		if info.PlanType != model.PlanPro || info.MonthlyLimit != 200 || !info.SubscriptionActive {
			t.Errorf("unexpected pro shape: %+v", info)
		}
	})

	t.Run("recording counts against the monthly quota", func(t *testing.T) {
		cleanup(t)
		userID := uuid.NewString()

		meta := map[string]any{"generated_image_url": "https://cdn/x.png"}
		if err := tracker.RecordGeneration(ctx, userID, "virtual_tryon", meta); err != nil {
			t.Fatalf("record failed: %v", err)
		}

		info, err := tracker.PlanInfo(ctx, userID)
		if err != nil {
			t.Fatalf("plan info failed: %v", err)
		}
		if info.CurrentCount != 1 || info.RemainingGenerations != 14 {
			t.Errorf("unexpected counts: %+v", info)
		}
	})

	t.Run("recording past the limit is rejected as quota exceeded", func(t *testing.T) {
		cleanup(t)
		userID := uuid.NewString()

		for i := 0; i < 15; i++ {
			if err := tracker.RecordGeneration(ctx, userID, "virtual_tryon", nil); err != nil {
				t.Fatalf("record %d failed: %v", i, err)
			}
		}

		err := tracker.RecordGeneration(ctx, userID, "virtual_tryon", nil)
		if !errors.Is(err, domain.ErrQuotaExceeded) {
			t.Fatalf("expected quota exceeded, got: %v", err)
		}
	})
}

func TestGenerationRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	ctx := context.Background()
	repo := NewGenerationRepo(testPool)

	t.Run("insert returns the stored row and listing is newest-first", func(t *testing.T) {
		cleanup(t)
		userID := uuid.NewString()

		for i, name := range []string{"first shirt", "second shirt"} {
			g := &model.Generation{
				ID:                ulid.Make().String(),
				UserID:            userID,
				GeneratedImageURL: "https://cdn/gen.png",
				ClothingName:      name,
			}
			saved, err := repo.Insert(ctx, g)
			if err != nil {
				t.Fatalf("insert %d failed: %v", i, err)
			}
			if saved.ID != g.ID || saved.CreatedAt.IsZero() {
				t.Errorf("unexpected saved row: %+v", saved)
			}
			time.Sleep(10 * time.Millisecond) // distinct created_at ordering
		}

		rows, err := repo.ListByUser(ctx, userID)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(rows))
		}
		if rows[0].ClothingName != "second shirt" {
			t.Errorf("expected newest-first ordering, got %q first", rows[0].ClothingName)
		}
	})

	t.Run("listing an unknown user yields an empty slice", func(t *testing.T) {
		cleanup(t)
		rows, err := repo.ListByUser(ctx, uuid.NewString())
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if rows == nil || len(rows) != 0 {
			t.Errorf("expected an empty non-nil slice, got %v", rows)
		}
	})
}
