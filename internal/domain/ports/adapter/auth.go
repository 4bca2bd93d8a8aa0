package adapter

import (
	"context"

	"github.com/lukasssicevs/drippler-web/internal/domain/model"
)

// AuthProvider is the port for the hosted auth service (token validation,
// admin lookups and account deletion).
type AuthProvider interface {
	// GetUser validates an access token and returns the user it belongs to.
	// Returns domain.ErrInvalidToken for missing/expired/forged tokens.
	GetUser(ctx context.Context, accessToken string) (*model.AuthUser, error)

	// FindUserByEmail scans the admin user list for a matching email.
	// Returns domain.ErrNotFound when no user matches.
	FindUserByEmail(ctx context.Context, email string) (*model.AuthUser, error)

	// DeleteUser permanently removes the user via the admin API.
	DeleteUser(ctx context.Context, userID string) error

	// UpdateUserMetadata merges metadata into the token owner's record.
	UpdateUserMetadata(ctx context.Context, accessToken string, metadata map[string]any) (*model.AuthUser, error)
}
