package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"cleanops/internal/model"
	"cleanops/internal/repository"
)

// MockProfileRepository is a mock implementation of ProfileRepository.
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Create(ctx context.Context, profile *model.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) Update(ctx context.Context, profile *model.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindByEmail(ctx context.Context, email string) (*model.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileRepository) List(ctx context.Context) ([]model.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Profile), args.Error(1)
}

func (m *MockProfileRepository) UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID string, email string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, email, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (string, string, error) {
	args := m.Called(ctx, tokenID)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockTokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTokenStore) StoreResetToken(ctx context.Context, token string, userID string, ttl time.Duration) error {
	args := m.Called(ctx, token, userID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) ConsumeResetToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

// MockServiceRequestRepository is a mock implementation of ServiceRequestRepository.
type MockServiceRequestRepository struct {
	mock.Mock
}

func (m *MockServiceRequestRepository) Create(ctx context.Context, req *model.ServiceRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockServiceRequestRepository) Update(ctx context.Context, req *model.ServiceRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockServiceRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ServiceRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ServiceRequest), args.Error(1)
}

func (m *MockServiceRequestRepository) List(ctx context.Context, filter repository.ServiceRequestFilter) ([]model.ServiceRequest, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ServiceRequest), args.Error(1)
}

// MockDiscountRepository is a mock implementation of DiscountRepository.
type MockDiscountRepository struct {
	mock.Mock
}

func (m *MockDiscountRepository) Create(ctx context.Context, d *model.Discount) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDiscountRepository) Update(ctx context.Context, d *model.Discount) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDiscountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDiscountRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Discount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Discount), args.Error(1)
}

func (m *MockDiscountRepository) List(ctx context.Context) ([]model.Discount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Discount), args.Error(1)
}

func (m *MockDiscountRepository) ListActive(ctx context.Context) ([]model.Discount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Discount), args.Error(1)
}

// MockLoyaltyRepository is a mock implementation of LoyaltyRepository.
type MockLoyaltyRepository struct {
	mock.Mock
}

func (m *MockLoyaltyRepository) FindByProfile(ctx context.Context, profileID uuid.UUID) (*model.LoyaltyRecord, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LoyaltyRecord), args.Error(1)
}

func (m *MockLoyaltyRepository) Increment(ctx context.Context, profileID uuid.UUID, points decimal.Decimal) (*model.LoyaltyRecord, error) {
	args := m.Called(ctx, profileID, points)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LoyaltyRecord), args.Error(1)
}

// MockLocationRepository is a mock implementation of LocationRepository.
type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) Create(ctx context.Context, l *model.Location) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLocationRepository) Update(ctx context.Context, l *model.Location) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Location, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Location), args.Error(1)
}

func (m *MockLocationRepository) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]model.Location, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Location), args.Error(1)
}

func adminProfile() *model.Profile {
	return &model.Profile{ID: uuid.New(), Name: "Admin", Email: "admin@example.com", Role: model.RoleAdmin, Active: true}
}

func userProfile() *model.Profile {
	return &model.Profile{ID: uuid.New(), Name: "Client", Email: "client@example.com", Role: model.RoleUser, Active: true}
}
