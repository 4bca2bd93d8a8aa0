package model

import "time"

// AuthUser is the auth provider's view of a user, resolved from an access
// token. The provider owns the record; this is a read-only projection.
type AuthUser struct {
	ID               string         `json:"id"`
	Email            string         `json:"email"`
	EmailConfirmedAt *time.Time     `json:"email_confirmed_at"`
	CreatedAt        time.Time      `json:"created_at"`
	LastSignInAt     *time.Time     `json:"last_sign_in_at"`
	UserMetadata     map[string]any `json:"user_metadata"`
	AppMetadata      map[string]any `json:"app_metadata"`
}

func (u *AuthUser) EmailConfirmed() bool { return u.EmailConfirmedAt != nil }
