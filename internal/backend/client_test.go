package backend

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"cleanops/internal/auth"
	"cleanops/internal/model"
	"cleanops/internal/service"
	"cleanops/internal/session"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignUp(ctx context.Context, in service.SignUpInput) (*model.Profile, *auth.TokenPair, error) {
	args := m.Called(ctx, in)
	var p *model.Profile
	var pair *auth.TokenPair
	if args.Get(0) != nil {
		p = args.Get(0).(*model.Profile)
	}
	if args.Get(1) != nil {
		pair = args.Get(1).(*auth.TokenPair)
	}
	return p, pair, args.Error(2)
}

func (m *MockAuthService) SignIn(ctx context.Context, email, password string) (*model.Profile, *auth.TokenPair, error) {
	args := m.Called(ctx, email, password)
	var p *model.Profile
	var pair *auth.TokenPair
	if args.Get(0) != nil {
		p = args.Get(0).(*model.Profile)
	}
	if args.Get(1) != nil {
		pair = args.Get(1).(*auth.TokenPair)
	}
	return p, pair, args.Error(2)
}

func (m *MockAuthService) SignOut(ctx context.Context, accessToken, refreshToken string) error {
	args := m.Called(ctx, accessToken, refreshToken)
	return args.Error(0)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.TokenPair), args.Error(1)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockAuthService) ConfirmResetPassword(ctx context.Context, token, newPassword string) error {
	args := m.Called(ctx, token, newPassword)
	return args.Error(0)
}

func (m *MockAuthService) UpdatePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	args := m.Called(ctx, userID, currentPassword, newPassword)
	return args.Error(0)
}

func (m *MockAuthService) ValidateAccess(ctx context.Context, accessToken string) (*auth.Claims, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Claims), args.Error(1)
}

// MockProfileRepository is a mock implementation of repository.ProfileRepository.
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

func validPair() *auth.TokenPair {
	return &auth.TokenPair{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    time.Now().Add(15 * time.Minute),
	}
}

func accessClaims(userID uuid.UUID, email, name string) *auth.Claims {
	return &auth.Claims{
		UserID: userID.String(),
		Email:  email,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
		},
	}
}

func TestClient_SignInEstablishesSession(t *testing.T) {
	mockAuth := new(MockAuthService)
	client := New(mockAuth, new(MockProfileRepository))

	profile := &model.Profile{ID: uuid.New(), Email: "user@example.com", Name: "User", Role: model.RoleUser}
	mockAuth.On("SignIn", mock.Anything, "user@example.com", "secret").Return(profile, validPair(), nil)

	s, err := client.SignIn(context.Background(), "user@example.com", "secret")

	assert.NoError(t, err)
	assert.Equal(t, profile.ID, s.User.ID)
	assert.Equal(t, "access-token", s.AccessToken)

	current, err := client.CurrentSession(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, s, current)
}

func TestClient_CurrentSessionWithoutSignIn(t *testing.T) {
	client := New(new(MockAuthService), new(MockProfileRepository))

	s, err := client.CurrentSession(context.Background())

	assert.NoError(t, err)
	assert.Nil(t, s)
}

func TestClient_CurrentSessionRefreshesExpired(t *testing.T) {
	mockAuth := new(MockAuthService)
	client := New(mockAuth, new(MockProfileRepository))

	profile := &model.Profile{ID: uuid.New(), Email: "user@example.com"}
	expired := &auth.TokenPair{
		AccessToken:  "stale-access",
		RefreshToken: "refresh-token",
		ExpiresAt:    time.Now().Add(-time.Minute),
	}
	mockAuth.On("SignIn", mock.Anything, "user@example.com", "secret").Return(profile, expired, nil)
	mockAuth.On("Refresh", mock.Anything, "refresh-token").Return(validPair(), nil)
	mockAuth.On("ValidateAccess", mock.Anything, "access-token").Return(accessClaims(profile.ID, profile.Email, profile.Name), nil)

	_, err := client.SignIn(context.Background(), "user@example.com", "secret")
	assert.NoError(t, err)

	current, err := client.CurrentSession(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "access-token", current.AccessToken)
	assert.Equal(t, profile.ID, current.User.ID)
	mockAuth.AssertExpectations(t)
}

func TestClient_SetSessionValidToken(t *testing.T) {
	mockAuth := new(MockAuthService)
	client := New(mockAuth, new(MockProfileRepository))

	userID := uuid.New()
	claims := &auth.Claims{
		UserID: userID.String(),
		Email:  "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(10 * time.Minute)),
		},
	}
	mockAuth.On("ValidateAccess", mock.Anything, "access-token").Return(claims, nil)

	s, err := client.SetSession(context.Background(), &session.Session{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
	})

	assert.NoError(t, err)
	assert.Equal(t, userID, s.User.ID)
	assert.True(t, session.IsSessionValid(s))
}

func TestClient_SetSessionExpiredTokenFallsBackToRefresh(t *testing.T) {
	mockAuth := new(MockAuthService)
	client := New(mockAuth, new(MockProfileRepository))

	userID := uuid.New()
	mockAuth.On("ValidateAccess", mock.Anything, "stale-access").Return(nil, assert.AnError)
	mockAuth.On("Refresh", mock.Anything, "refresh-token").Return(validPair(), nil)
	mockAuth.On("ValidateAccess", mock.Anything, "access-token").Return(accessClaims(userID, "user@example.com", "User"), nil)

	// A device restoring from its cache presents the token pair alone; the
	// re-established session must still carry the token owner's identity.
	s, err := client.SetSession(context.Background(), &session.Session{
		AccessToken:  "stale-access",
		RefreshToken: "refresh-token",
	})

	assert.NoError(t, err)
	assert.Equal(t, "access-token", s.AccessToken)
	assert.Equal(t, userID, s.User.ID)
	assert.Equal(t, "user@example.com", s.User.Email)
	mockAuth.AssertExpectations(t)
}

func TestClient_SetSessionRefreshRejectsUnreadableClaims(t *testing.T) {
	mockAuth := new(MockAuthService)
	client := New(mockAuth, new(MockProfileRepository))

	mockAuth.On("ValidateAccess", mock.Anything, "stale-access").Return(nil, assert.AnError)
	mockAuth.On("Refresh", mock.Anything, "refresh-token").Return(validPair(), nil)
	claims := accessClaims(uuid.New(), "user@example.com", "User")
	claims.UserID = "not-a-uuid"
	mockAuth.On("ValidateAccess", mock.Anything, "access-token").Return(claims, nil)

	s, err := client.SetSession(context.Background(), &session.Session{
		AccessToken:  "stale-access",
		RefreshToken: "refresh-token",
	})

	assert.Error(t, err)
	assert.Nil(t, s)

	current, err := client.CurrentSession(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, current)
}

func TestClient_SetSessionRejectsRevokedBundle(t *testing.T) {
	mockAuth := new(MockAuthService)
	client := New(mockAuth, new(MockProfileRepository))

	mockAuth.On("ValidateAccess", mock.Anything, "stale-access").Return(nil, assert.AnError)
	mockAuth.On("Refresh", mock.Anything, "revoked-refresh").Return(nil, service.ErrInvalidRefreshToken)

	s, err := client.SetSession(context.Background(), &session.Session{
		AccessToken:  "stale-access",
		RefreshToken: "revoked-refresh",
	})

	assert.Error(t, err)
	assert.Nil(t, s)

	current, err := client.CurrentSession(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, current)
}

func TestClient_SetSessionNil(t *testing.T) {
	client := New(new(MockAuthService), new(MockProfileRepository))

	s, err := client.SetSession(context.Background(), nil)

	assert.Equal(t, ErrNoSession, err)
	assert.Nil(t, s)
}

func TestClient_SignOutDropsSessionAndNotifies(t *testing.T) {
	mockAuth := new(MockAuthService)
	client := New(mockAuth, new(MockProfileRepository))

	profile := &model.Profile{ID: uuid.New(), Email: "user@example.com"}
	mockAuth.On("SignIn", mock.Anything, "user@example.com", "secret").Return(profile, validPair(), nil)
	mockAuth.On("SignOut", mock.Anything, "access-token", "refresh-token").Return(nil)

	events := make(chan *session.Session, 2)
	client.OnAuthStateChange(func(s *session.Session) { events <- s })

	_, err := client.SignIn(context.Background(), "user@example.com", "secret")
	assert.NoError(t, err)
	assert.NotNil(t, <-events)

	err = client.SignOut(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, <-events)

	current, _ := client.CurrentSession(context.Background())
	assert.Nil(t, current)
}

func TestClient_UpdateProfileRequiresSession(t *testing.T) {
	client := New(new(MockAuthService), new(MockProfileRepository))

	p, err := client.UpdateProfile(context.Background(), &model.Profile{Name: "New"})

	assert.Equal(t, ErrNoSession, err)
	assert.Nil(t, p)
}

func TestClient_UpdateProfileNeverWritesRole(t *testing.T) {
	mockAuth := new(MockAuthService)
	mockProfiles := new(MockProfileRepository)
	client := New(mockAuth, mockProfiles)

	userID := uuid.New()
	profile := &model.Profile{ID: userID, Email: "user@example.com", Role: model.RoleUser}
	mockAuth.On("SignIn", mock.Anything, "user@example.com", "secret").Return(profile, validPair(), nil)
	_, err := client.SignIn(context.Background(), "user@example.com", "secret")
	assert.NoError(t, err)

	stored := &model.Profile{ID: userID, Name: "Old", Role: model.RoleUser}
	mockProfiles.On("FindByID", mock.Anything, userID).Return(stored, nil)
	mockProfiles.On("Update", mock.Anything, mock.MatchedBy(func(p *model.Profile) bool {
		return p.Role == model.RoleUser && p.Name == "New"
	})).Return(nil)

	// The caller smuggles an admin role into the payload; it must not stick.
	updated, err := client.UpdateProfile(context.Background(), &model.Profile{Name: "New", Role: model.RoleAdmin})

	assert.NoError(t, err)
	assert.Equal(t, model.RoleUser, updated.Role)
	mockProfiles.AssertExpectations(t)
}
