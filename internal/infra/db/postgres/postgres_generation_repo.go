package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/lukasssicevs/drippler-web/internal/domain"
	"github.com/lukasssicevs/drippler-web/internal/domain/model"
	"github.com/lukasssicevs/drippler-web/internal/domain/ports/repository"
)

// Ensure generationRepo implements repository.GenerationRepository
var _ repository.GenerationRepository = (*generationRepo)(nil)

type generationRepo struct {
	pool *pgxpool.Pool
}

func NewGenerationRepo(pool *pgxpool.Pool) *generationRepo {
	return &generationRepo{pool: pool}
}

func (r *generationRepo) Insert(ctx context.Context, g *model.Generation) (*model.Generation, error) {
	const q = `
INSERT INTO virtual_try_on_generations (
  id, user_id, user_image_url, clothing_image_url, generated_image_url, clothing_name
) VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id, created_at;`

	out := *g
	err := r.pool.QueryRow(ctx, q,
		g.ID, g.UserID, g.UserImageURL, g.ClothingImageURL, g.GeneratedImageURL, g.ClothingName,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	return &out, nil
}

func (r *generationRepo) ListByUser(ctx context.Context, userID string) ([]*model.Generation, error) {
	const q = `
SELECT id, user_id, user_image_url, clothing_image_url, generated_image_url, clothing_name, created_at
  FROM virtual_try_on_generations
 WHERE user_id=$1
 ORDER BY created_at DESC;`

	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	out := make([]*model.Generation, 0)
	for rows.Next() {
		var g model.Generation
		if err := rows.Scan(&g.ID, &g.UserID, &g.UserImageURL, &g.ClothingImageURL,
			&g.GeneratedImageURL, &g.ClothingName, &g.CreatedAt); err != nil {
			return nil, domain.ErrOperationFailed
		}
		out = append(out, &g)
	}
	if err := rows.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return nil, domain.ErrOperationFailed
	}
	return out, nil
}
