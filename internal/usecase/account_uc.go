package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lukasssicevs/drippler-web/internal/domain"
	"github.com/lukasssicevs/drippler-web/internal/domain/model"
	"github.com/lukasssicevs/drippler-web/internal/domain/ports/adapter"
	"github.com/lukasssicevs/drippler-web/internal/infra/logging"
)

// Compile-time check
var _ AccountUseCase = (*accountUC)(nil)

type AccountUseCase interface {
	// Delete permanently removes the user at the auth provider. Hosted
	// rows cascade provider-side; there is no local cleanup.
	Delete(ctx context.Context, userID string) error

	// Diagnose validates a raw access token and stamps the owner's
	// metadata with a test marker. Returns the user and the updated
	// metadata for echoing back.
	Diagnose(ctx context.Context, accessToken, message string) (*model.AuthUser, error)
}

type accountUC struct {
	auth adapter.AuthProvider
	log  *zerolog.Logger
}

func NewAccountUseCase(auth adapter.AuthProvider, log *zerolog.Logger) *accountUC {
	return &accountUC{auth: auth, log: log}
}

func (u *accountUC) Delete(ctx context.Context, userID string) error {
	if err := u.auth.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	logging.With(ctx, u.log).Info().Str("deleted_user_id", userID).Msg("account deleted")
	return nil
}

func (u *accountUC) Diagnose(ctx context.Context, accessToken, message string) (*model.AuthUser, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("%w: token is required", domain.ErrInvalidArgument)
	}
	user, err := u.auth.GetUser(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	count := 0
	if v, ok := user.UserMetadata["test_count"].(float64); ok {
		count = int(v)
	}
	meta := map[string]any{
		"test_count":     count + 1,
		"last_tested_at": time.Now().UTC().Format(time.RFC3339),
	}
	if message != "" {
		meta["test_message"] = message
	}

	updated, err := u.auth.UpdateUserMetadata(ctx, accessToken, meta)
	if err != nil {
		return nil, fmt.Errorf("update test metadata: %w", err)
	}
	return updated, nil
}
