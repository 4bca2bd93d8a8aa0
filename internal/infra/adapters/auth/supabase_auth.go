package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lukasssicevs/drippler-web/internal/domain"
	"github.com/lukasssicevs/drippler-web/internal/domain/model"
	"github.com/lukasssicevs/drippler-web/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.AuthProvider = (*SupabaseAuth)(nil)

// SupabaseAuth talks to the hosted GoTrue auth API. User-scoped calls carry
// the caller's access token; admin calls carry the service-role key.
type SupabaseAuth struct {
	baseURL    string // e.g. https://xyz.supabase.co
	anonKey    string
	serviceKey string
	jwtSecret  []byte // optional local HS256 pre-check
	client     *http.Client
}

func NewSupabaseAuth(baseURL, anonKey, serviceKey, jwtSecret string) (*SupabaseAuth, error) {
	if baseURL == "" || anonKey == "" {
		return nil, errors.New("supabase auth: url and anon key required")
	}
	return &SupabaseAuth{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		serviceKey: serviceKey,
		jwtSecret:  []byte(jwtSecret),
		client:     &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (s *SupabaseAuth) GetUser(ctx context.Context, accessToken string) (*model.AuthUser, error) {
	if accessToken == "" {
		return nil, domain.ErrInvalidToken
	}
	// Cheap local rejection of expired or forged tokens before the remote
	// round trip. The remote call stays authoritative.
	if len(s.jwtSecret) > 0 {
		if err := s.verifyLocal(accessToken); err != nil {
			return nil, domain.ErrInvalidToken
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", s.anonKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, domain.ErrInvalidToken
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("auth get user: http %d", resp.StatusCode)
	}

	var u model.AuthUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, err
	}
	if u.ID == "" {
		return nil, domain.ErrInvalidToken
	}
	return &u, nil
}

func (s *SupabaseAuth) verifyLocal(accessToken string) error {
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(accessToken, claims, func(t *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !tkn.Valid {
		return domain.ErrInvalidToken
	}
	return nil
}

// adminUsersPage mirrors the GoTrue admin list response.
type adminUsersPage struct {
	Users []*model.AuthUser `json:"users"`
}

// FindUserByEmail scans the admin user list page by page. The admin API has
// no indexed email lookup, so this stays a bounded full scan.
func (s *SupabaseAuth) FindUserByEmail(ctx context.Context, email string) (*model.AuthUser, error) {
	if s.serviceKey == "" {
		return nil, domain.ErrNotConfigured
	}
	email = strings.ToLower(strings.TrimSpace(email))

	const perPage = 200
	const maxPages = 50
	for page := 1; page <= maxPages; page++ {
		url := fmt.Sprintf("%s/auth/v1/admin/users?page=%d&per_page=%d", s.baseURL, page, perPage)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		s.setAdminHeaders(req)

		resp, err := s.client.Do(req)
		if err != nil {
			return nil, err
		}
		var out adminUsersPage
		err = json.NewDecoder(resp.Body).Decode(&out)
		resp.Body.Close()
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("auth list users: http %d", resp.StatusCode)
		}
		if err != nil {
			return nil, err
		}
		for _, u := range out.Users {
			if strings.ToLower(u.Email) == email {
				return u, nil
			}
		}
		if len(out.Users) < perPage {
			break
		}
	}
	return nil, domain.ErrNotFound
}

func (s *SupabaseAuth) DeleteUser(ctx context.Context, userID string) error {
	if s.serviceKey == "" {
		return domain.ErrNotConfigured
	}
	url := fmt.Sprintf("%s/auth/v1/admin/users/%s", s.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	s.setAdminHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("auth delete user: http %d", resp.StatusCode)
	}
	return nil
}

func (s *SupabaseAuth) UpdateUserMetadata(ctx context.Context, accessToken string, metadata map[string]any) (*model.AuthUser, error) {
	body, err := json.Marshal(map[string]any{"data": metadata})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.baseURL+"/auth/v1/user", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", s.anonKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, domain.ErrInvalidToken
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("auth update metadata: http %d", resp.StatusCode)
	}

	var u model.AuthUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *SupabaseAuth) setAdminHeaders(req *http.Request) {
	req.Header.Set("apikey", s.serviceKey)
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
}
