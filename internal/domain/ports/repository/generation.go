package repository

import (
	"context"

	"github.com/lukasssicevs/drippler-web/internal/domain/model"
)

// GenerationRepository persists the legacy virtual_try_on_generations
// audit table.
type GenerationRepository interface {
	// Insert stores one audit row and returns it with the database id.
	Insert(ctx context.Context, g *model.Generation) (*model.Generation, error)

	// ListByUser returns the user's history newest-first.
	ListByUser(ctx context.Context, userID string) ([]*model.Generation, error)
}
