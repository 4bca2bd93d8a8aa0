//go:build !integration

package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lukasssicevs/drippler-web/internal/domain"
	"github.com/lukasssicevs/drippler-web/internal/domain/model"
	"github.com/lukasssicevs/drippler-web/internal/domain/ports/adapter"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// MockImageGenerator records calls and returns a canned image.
type MockImageGenerator struct {
	GenerateFunc func(ctx context.Context, req adapter.TryOnRequest) (*adapter.TryOnResult, error)
	Calls        []adapter.TryOnRequest
}

func (m *MockImageGenerator) GenerateTryOn(ctx context.Context, req adapter.TryOnRequest) (*adapter.TryOnResult, error) {
	m.Calls = append(m.Calls, req)
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return &adapter.TryOnResult{Data: []byte("generated"), MIMEType: "image/png"}, nil
}

// MockImageFetcher returns the URL bytes back as image data.
type MockImageFetcher struct {
	FetchFunc func(ctx context.Context, imageURL string) (adapter.ImageInput, error)
}

func (m *MockImageFetcher) Fetch(ctx context.Context, imageURL string) (adapter.ImageInput, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, imageURL)
	}
	return adapter.ImageInput{Data: []byte(imageURL), MIMEType: "image/jpeg"}, nil
}

// MockObjectStorage keeps uploads in memory.
type MockObjectStorage struct {
	mu         sync.Mutex
	UploadFunc func(ctx context.Context, object string, data []byte, contentType string) error
	Objects    map[string][]byte
}

func NewMockObjectStorage() *MockObjectStorage {
	return &MockObjectStorage{Objects: make(map[string][]byte)}
}

func (m *MockObjectStorage) Upload(ctx context.Context, object string, data []byte, contentType string) error {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, object, data, contentType)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[object] = data
	return nil
}

func (m *MockObjectStorage) PublicURL(object string) string {
	return "https://cdn.example.com/" + object
}

// MockUsageTracker simulates the two opaque database functions.
type MockUsageTracker struct {
	PlanInfoFunc func(ctx context.Context, userID string) (*model.PlanInfo, error)
	RecordFunc    func(ctx context.Context, userID, generationType string, metadata map[string]any) error
	Recorded      []map[string]any
	RecordedTypes []string
}

func (m *MockUsageTracker) PlanInfo(ctx context.Context, userID string) (*model.PlanInfo, error) {
	if m.PlanInfoFunc != nil {
		return m.PlanInfoFunc(ctx, userID)
	}
	return nil, domain.ErrNotFound
}

func (m *MockUsageTracker) RecordGeneration(ctx context.Context, userID, generationType string, metadata map[string]any) error {
	if m.RecordFunc != nil {
		if err := m.RecordFunc(ctx, userID, generationType, metadata); err != nil {
			return err
		}
	}
	m.Recorded = append(m.Recorded, metadata)
	m.RecordedTypes = append(m.RecordedTypes, generationType)
	return nil
}

// MockGenerationRepo is a small in-memory audit table.
type MockGenerationRepo struct {
	mu        sync.Mutex
	InsertErr error
	Rows      []*model.Generation
}

func (m *MockGenerationRepo) Insert(ctx context.Context, g *model.Generation) (*model.Generation, error) {
	if m.InsertErr != nil {
		return nil, m.InsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *g
	m.Rows = append([]*model.Generation{&cp}, m.Rows...)
	return &cp, nil
}

func (m *MockGenerationRepo) ListByUser(ctx context.Context, userID string) ([]*model.Generation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Generation
	for _, g := range m.Rows {
		if g.UserID == userID {
			cp := *g
			out = append(out, &cp)
		}
	}
	return out, nil
}

// MockLocker hands out leases unless told to fail.
type MockLocker struct {
	FailLock bool
	Locked   []string
	Unlocked []string
}

func (m *MockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if m.FailLock {
		return "", domain.ErrGenerationBusy
	}
	m.Locked = append(m.Locked, key)
	return "token", nil
}

func (m *MockLocker) Unlock(ctx context.Context, key, token string) error {
	m.Unlocked = append(m.Unlocked, key)
	return nil
}

// MockBillingGateway records provider calls.
type MockBillingGateway struct {
	CreateFunc func(ctx context.Context, req adapter.CheckoutRequest) (string, error)
	CancelFunc func(ctx context.Context, subscriptionID string) (*adapter.RemoteSubscription, error)
	ListFunc   func(ctx context.Context, customerID string) ([]*adapter.RemoteSubscription, error)
	Checkouts  []adapter.CheckoutRequest
}

func (m *MockBillingGateway) CreateCheckoutSession(ctx context.Context, req adapter.CheckoutRequest) (string, error) {
	m.Checkouts = append(m.Checkouts, req)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, req)
	}
	return "https://checkout.example.com/session", nil
}

func (m *MockBillingGateway) CancelAtPeriodEnd(ctx context.Context, subscriptionID string) (*adapter.RemoteSubscription, error) {
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, subscriptionID)
	}
	return &adapter.RemoteSubscription{ID: subscriptionID, Status: "active", CancelAtPeriodEnd: true}, nil
}

func (m *MockBillingGateway) ListActiveByCustomer(ctx context.Context, customerID string) ([]*adapter.RemoteSubscription, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, customerID)
	}
	return nil, nil
}

// MockAuthProvider resolves tokens and emails from fixed maps.
type MockAuthProvider struct {
	UsersByToken map[string]*model.AuthUser
	UsersByEmail map[string]*model.AuthUser
	Deleted      []string
	UpdateFunc   func(ctx context.Context, accessToken string, metadata map[string]any) (*model.AuthUser, error)
}

func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		UsersByToken: make(map[string]*model.AuthUser),
		UsersByEmail: make(map[string]*model.AuthUser),
	}
}

func (m *MockAuthProvider) GetUser(ctx context.Context, accessToken string) (*model.AuthUser, error) {
	u, ok := m.UsersByToken[accessToken]
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	cp := *u
	return &cp, nil
}

func (m *MockAuthProvider) FindUserByEmail(ctx context.Context, email string) (*model.AuthUser, error) {
	u, ok := m.UsersByEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MockAuthProvider) DeleteUser(ctx context.Context, userID string) error {
	m.Deleted = append(m.Deleted, userID)
	return nil
}

func (m *MockAuthProvider) UpdateUserMetadata(ctx context.Context, accessToken string, metadata map[string]any) (*model.AuthUser, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, accessToken, metadata)
	}
	u, ok := m.UsersByToken[accessToken]
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	cp := *u
	cp.UserMetadata = metadata
	return &cp, nil
}

// MockSubscriptionRepo is an in-memory user_subscriptions table keyed by
// the provider subscription id.
type MockSubscriptionRepo struct {
	mu    sync.Mutex
	store map[string]*model.UserSubscription

	SetCancelErr error
}

func NewMockSubscriptionRepo() *MockSubscriptionRepo {
	return &MockSubscriptionRepo{store: make(map[string]*model.UserSubscription)}
}

func (m *MockSubscriptionRepo) FindActiveByUser(ctx context.Context, userID string) (*model.UserSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.store {
		if s.UserID == userID && s.Status == model.SubscriptionStatusActive {
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrNoActiveSubscription
}

func (m *MockSubscriptionRepo) Upsert(ctx context.Context, s *model.UserSubscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.store[s.StripeSubscriptionID] = &cp
	return nil
}

func (m *MockSubscriptionRepo) UpdateBySubscriptionID(ctx context.Context, subscriptionID string, status model.SubscriptionStatus, planType model.PlanType, cancelAtPeriodEnd bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.store[subscriptionID]
	if !ok {
		return domain.ErrNotFound
	}
	s.Status = status
	s.PlanType = planType
	s.CancelAtPeriodEnd = cancelAtPeriodEnd
	return nil
}

func (m *MockSubscriptionRepo) UpdateStatusBySubscriptionID(ctx context.Context, subscriptionID string, status model.SubscriptionStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.store[subscriptionID]
	if !ok {
		return domain.ErrNotFound
	}
	s.Status = status
	return nil
}

func (m *MockSubscriptionRepo) SetCancelAtPeriodEnd(ctx context.Context, id string, cancel bool) error {
	if m.SetCancelErr != nil {
		return m.SetCancelErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.store {
		if s.ID == id {
			s.CancelAtPeriodEnd = cancel
			return nil
		}
	}
	return domain.ErrNotFound
}

// Get returns a copy of a stored row for assertions.
func (m *MockSubscriptionRepo) Get(subscriptionID string) *model.UserSubscription {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.store[subscriptionID]
	if !ok {
		return nil
	}
	cp := *s
	return &cp
}
