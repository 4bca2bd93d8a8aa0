package ai

import (
	"context"

	"github.com/lukasssicevs/drippler-web/internal/domain"
	"github.com/lukasssicevs/drippler-web/internal/domain/ports/adapter"
)

var _ adapter.ImageGenerator = (*UnconfiguredAdapter)(nil)

// UnconfiguredAdapter stands in when no generation API key is configured so
// the rest of the app (auth pages, billing) keeps serving. Every call fails
// with a configuration error that handlers map to 500.
type UnconfiguredAdapter struct{}

func NewUnconfiguredAdapter() *UnconfiguredAdapter { return &UnconfiguredAdapter{} }

func (a *UnconfiguredAdapter) GenerateTryOn(ctx context.Context, req adapter.TryOnRequest) (*adapter.TryOnResult, error) {
	return nil, domain.ErrNotConfigured
}
