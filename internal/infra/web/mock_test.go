//go:build !integration

package web_test

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/lukasssicevs/drippler-web/internal/config"
	"github.com/lukasssicevs/drippler-web/internal/domain"
	"github.com/lukasssicevs/drippler-web/internal/domain/model"
	"github.com/lukasssicevs/drippler-web/internal/infra/web"
	"github.com/lukasssicevs/drippler-web/internal/usecase"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Port = 8080
	cfg.Server.SiteURL = "https://drippler.example.com"
	cfg.Server.ExtensionID = "abcdefghijklmnop"
	cfg.Supabase.URL = "https://proj.supabase.co"
	cfg.Supabase.AnonKey = "anon-key"
	cfg.Stripe.WebhookSecret = "whsec_test_secret"
	cfg.Diagnostics.Enabled = true
	return cfg
}

type mockTryOn struct {
	GenerateFunc  func(ctx context.Context, userID string, req usecase.GenerateRequest) (*usecase.GenerateResult, error)
	HistoryFunc   func(ctx context.Context, userID string) (*usecase.HistoryResult, error)
	GenerateCalls int
}

func (m *mockTryOn) Generate(ctx context.Context, userID string, req usecase.GenerateRequest) (*usecase.GenerateResult, error) {
	m.GenerateCalls++
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, userID, req)
	}
	return &usecase.GenerateResult{
		GeneratedImageURL:    "https://cdn.example.com/virtual-try-on-user-1-1.png",
		GeneratedImageBase64: "Zm9v",
		GenerationID:         "01HXYZ",
		GenerationCount:      1,
		RemainingGenerations: 14,
		MonthlyLimit:         15,
		PlanType:             model.PlanFree,
	}, nil
}

func (m *mockTryOn) History(ctx context.Context, userID string) (*usecase.HistoryResult, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, userID)
	}
	return &usecase.HistoryResult{
		GenerationCount:      0,
		MaxGenerations:       15,
		RemainingGenerations: 15,
		PlanType:             model.PlanFree,
	}, nil
}

type mockBilling struct {
	CheckoutFunc func(ctx context.Context, email, key string) (string, error)
	CancelFunc   func(ctx context.Context, userID string) (*usecase.CancelResult, error)

	CheckoutCompleted   []string // customer emails
	SubscriptionUpdates []string // "id/status"
	Deletions           []string
	PaymentFailures     []string
	HandlerErr          error
}

func (m *mockBilling) CreateCheckout(ctx context.Context, email, key string) (string, error) {
	if m.CheckoutFunc != nil {
		return m.CheckoutFunc(ctx, email, key)
	}
	if email == "" {
		return "", domain.ErrInvalidArgument
	}
	return "https://checkout.stripe.com/pay/cs_test", nil
}

func (m *mockBilling) Cancel(ctx context.Context, userID string) (*usecase.CancelResult, error) {
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, userID)
	}
	return nil, domain.ErrNoActiveSubscription
}

func (m *mockBilling) HandleCheckoutCompleted(ctx context.Context, email, customerID, subscriptionID string) error {
	m.CheckoutCompleted = append(m.CheckoutCompleted, email)
	return m.HandlerErr
}

func (m *mockBilling) HandleSubscriptionUpdated(ctx context.Context, subscriptionID, status string, cancelAtPeriodEnd bool) error {
	m.SubscriptionUpdates = append(m.SubscriptionUpdates, subscriptionID+"/"+status)
	return m.HandlerErr
}

func (m *mockBilling) HandleSubscriptionDeleted(ctx context.Context, subscriptionID string) error {
	m.Deletions = append(m.Deletions, subscriptionID)
	return m.HandlerErr
}

func (m *mockBilling) HandlePaymentFailed(ctx context.Context, customerID string) error {
	m.PaymentFailures = append(m.PaymentFailures, customerID)
	return m.HandlerErr
}

type mockAccount struct {
	Deleted      []string
	DiagnoseFunc func(ctx context.Context, token, message string) (*model.AuthUser, error)
}

func (m *mockAccount) Delete(ctx context.Context, userID string) error {
	m.Deleted = append(m.Deleted, userID)
	return nil
}

func (m *mockAccount) Diagnose(ctx context.Context, token, message string) (*model.AuthUser, error) {
	if m.DiagnoseFunc != nil {
		return m.DiagnoseFunc(ctx, token, message)
	}
	if token == "" {
		return nil, domain.ErrInvalidArgument
	}
	if token != "valid-token" {
		return nil, domain.ErrInvalidToken
	}
	return &model.AuthUser{ID: "user-1", Email: "a@example.com", UserMetadata: map[string]any{"test_count": 1}}, nil
}

type mockAuth struct {
	users map[string]*model.AuthUser
	calls int
}

func newMockAuth() *mockAuth {
	return &mockAuth{users: map[string]*model.AuthUser{
		"valid-token": {ID: "user-1", Email: "a@example.com"},
	}}
}

func (m *mockAuth) GetUser(ctx context.Context, accessToken string) (*model.AuthUser, error) {
	m.calls++
	u, ok := m.users[accessToken]
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	return u, nil
}

func (m *mockAuth) FindUserByEmail(ctx context.Context, email string) (*model.AuthUser, error) {
	return nil, domain.ErrNotFound
}

func (m *mockAuth) DeleteUser(ctx context.Context, userID string) error { return nil }

func (m *mockAuth) UpdateUserMetadata(ctx context.Context, accessToken string, metadata map[string]any) (*model.AuthUser, error) {
	return nil, domain.ErrInvalidToken
}

type mockDeduper struct {
	seen map[string]bool
}

func newMockDeduper() *mockDeduper { return &mockDeduper{seen: make(map[string]bool)} }

func (m *mockDeduper) Seen(ctx context.Context, eventID string) (bool, error) {
	if m.seen[eventID] {
		return true, nil
	}
	m.seen[eventID] = true
	return false, nil
}

type serverDeps struct {
	tryOn   *mockTryOn
	billing *mockBilling
	account *mockAccount
	auth    *mockAuth
	deduper *mockDeduper
	cfg     *config.Config
}

func newServerDeps() *serverDeps {
	return &serverDeps{
		tryOn:   &mockTryOn{},
		billing: &mockBilling{},
		account: &mockAccount{},
		auth:    newMockAuth(),
		deduper: newMockDeduper(),
		cfg:     testConfig(),
	}
}

func (d *serverDeps) build() *web.Server {
	return web.NewServer(d.cfg, d.tryOn, d.billing, d.account, d.auth, d.deduper, newTestLogger())
}
