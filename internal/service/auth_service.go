package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"cleanops/internal/auth"
	"cleanops/internal/model"
	"cleanops/internal/repository"
)

const bcryptCost = 10

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserAlreadyExists is returned when trying to register an existing user.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrInvalidRefreshToken is returned when refresh token is invalid or expired.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrInvalidResetToken is returned when a password reset token is unknown or spent.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
)

// SignUpInput carries registration data. Role is deliberately absent:
// every new profile starts as a regular user and only the privileged
// admin path can change that.
type SignUpInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
	Address  string
}

// AuthService handles authentication operations.
type AuthService interface {
	SignUp(ctx context.Context, in SignUpInput) (*model.Profile, *auth.TokenPair, error)
	SignIn(ctx context.Context, email, password string) (*model.Profile, *auth.TokenPair, error)
	SignOut(ctx context.Context, accessToken, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
	ResetPassword(ctx context.Context, email string) error
	ConfirmResetPassword(ctx context.Context, token, newPassword string) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
	ValidateAccess(ctx context.Context, accessToken string) (*auth.Claims, error)
}

type authService struct {
	profileRepo repository.ProfileRepository
	jwtService  *auth.JWTService
	tokenStore  auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(profileRepo repository.ProfileRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		profileRepo: profileRepo,
		jwtService:  jwtService,
		tokenStore:  tokenStore,
	}
}

// SignUp creates a new profile with hashed password and signs it in.
func (s *authService) SignUp(ctx context.Context, in SignUpInput) (*model.Profile, *auth.TokenPair, error) {
	existing, err := s.profileRepo.FindByEmail(ctx, in.Email)
	if err == nil && existing != nil {
		return nil, nil, ErrUserAlreadyExists
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, nil, fmt.Errorf("check profile existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	profile := &model.Profile{
		ID:           uuid.New(),
		Email:        in.Email,
		PasswordHash: string(hashedPassword),
		Name:         in.Name,
		Phone:        in.Phone,
		Address:      in.Address,
		Role:         model.RoleUser,
		Active:       true,
	}

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, nil, fmt.Errorf("create profile: %w", err)
	}

	pair, err := s.issueTokens(ctx, profile)
	if err != nil {
		return nil, nil, err
	}
	return profile, pair, nil
}

// SignIn authenticates a profile and returns a token pair.
func (s *authService) SignIn(ctx context.Context, email, password string) (*model.Profile, *auth.TokenPair, error) {
	profile, err := s.profileRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !profile.Active {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, profile)
	if err != nil {
		return nil, nil, err
	}
	return profile, pair, nil
}

func (s *authService) issueTokens(ctx context.Context, profile *model.Profile) (*auth.TokenPair, error) {
	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(profile.ID, profile.Email, profile.Name)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(profile.ID, profile.Email)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, profile.ID.String(), profile.Email, auth.RefreshTokenExpiry); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &auth.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

// SignOut revokes the refresh token and blacklists the access token for the
// remainder of its lifetime.
func (s *authService) SignOut(ctx context.Context, accessToken, refreshToken string) error {
	if accessToken != "" {
		if claims, err := s.jwtService.ValidateToken(accessToken); err == nil && claims.ID != "" {
			ttl := time.Until(claims.ExpiresAt.Time)
			if ttl > 0 {
				_ = s.tokenStore.BlacklistAccessToken(ctx, claims.ID, ttl)
			}
		}
	}

	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return ErrInvalidRefreshToken
	}
	return s.tokenStore.DeleteRefreshToken(ctx, tokenID)
}

// Refresh validates a refresh token and returns a fresh token pair keeping
// the same refresh token.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	storedUserID, storedEmail, err := s.tokenStore.GetRefreshToken(ctx, tokenID)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	if storedUserID != claims.UserID || storedEmail != claims.Email {
		return nil, ErrInvalidRefreshToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(userID, claims.Email, claims.Name)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	return &auth.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

// ResetPassword issues a one-time reset token. Unknown emails are not
// reported to the caller, only logged, so the endpoint cannot be used to
// enumerate accounts.
func (s *authService) ResetPassword(ctx context.Context, email string) error {
	profile, err := s.profileRepo.FindByEmail(ctx, email)
	if err != nil {
		log.Printf("password reset requested for unknown email")
		return nil
	}

	token := uuid.New().String()
	if err := s.tokenStore.StoreResetToken(ctx, token, profile.ID.String(), auth.ResetTokenExpiry); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	// Mail dispatch is owned by an external notifier; the token is logged
	// so operators can relay it in environments without one.
	log.Printf("password reset token issued for profile %s", profile.ID)
	return nil
}

// ConfirmResetPassword consumes a reset token and sets the new password.
func (s *authService) ConfirmResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := s.tokenStore.ConsumeResetToken(ctx, token)
	if err != nil {
		return ErrInvalidResetToken
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		return ErrInvalidResetToken
	}

	profile, err := s.profileRepo.FindByID(ctx, id)
	if err != nil {
		return ErrInvalidResetToken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	profile.PasswordHash = string(hashedPassword)
	return s.profileRepo.Update(ctx, profile)
}

// UpdatePassword verifies the current password and replaces it.
func (s *authService) UpdatePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		return ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	profile.PasswordHash = string(hashedPassword)
	return s.profileRepo.Update(ctx, profile)
}

// ValidateAccess checks an access token signature, expiry and blacklist.
func (s *authService) ValidateAccess(ctx context.Context, accessToken string) (*auth.Claims, error) {
	claims, err := s.jwtService.ValidateToken(accessToken)
	if err != nil {
		return nil, err
	}
	if claims.ID != "" {
		if blacklisted, _ := s.tokenStore.IsAccessTokenBlacklisted(ctx, claims.ID); blacklisted {
			return nil, errors.New("token revoked")
		}
	}
	return claims, nil
}
