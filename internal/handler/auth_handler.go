package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"cleanops/internal/auth"
	"cleanops/internal/backend"
	"cleanops/internal/cache"
	"cleanops/internal/config"
	apperrors "cleanops/internal/errors"
	"cleanops/internal/model"
	"cleanops/internal/repository"
	"cleanops/internal/service"
	"cleanops/internal/session"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	profiles    repository.ProfileRepository
	cache       *cache.Client
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, profiles repository.ProfileRepository, cacheClient *cache.Client, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, profiles: profiles, cache: cacheClient, cfg: cfg}
}

// SignUpRequest represents a registration request.
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// SignInRequest represents a sign-in request.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// SignOutRequest represents a sign-out request.
type SignOutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ResetPasswordRequest asks for a reset token to be dispatched.
type ResetPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ConfirmResetRequest consumes a reset token.
type ConfirmResetRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// RestoreRequest optionally carries a device's cached token bundle.
type RestoreRequest struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponse represents an authentication response.
type AuthResponse struct {
	Session *session.Session `json:"session,omitempty"`
	Profile *model.Profile   `json:"profile,omitempty"`
}

// RestoreResponse is the settled state after session resolution.
type RestoreResponse struct {
	Authenticated bool             `json:"authenticated"`
	Session       *session.Session `json:"session,omitempty"`
	Profile       *model.Profile   `json:"profile,omitempty"`
}

const deviceHeader = "X-Device-ID"

// SignUp godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignUpRequest true "Registration data"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req SignUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	profile, pair, err := h.authService.SignUp(c.Request().Context(), service.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		return httpError(err)
	}

	sess := sessionFromPair(profile, pair)
	h.mirror(c, sess, profile)
	return c.JSON(http.StatusCreated, AuthResponse{Session: sess, Profile: profile})
}

// SignIn godoc
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignInRequest true "Credentials"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/signin [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req SignInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	profile, pair, err := h.authService.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}

	sess := sessionFromPair(profile, pair)
	h.mirror(c, sess, profile)
	return c.JSON(http.StatusOK, AuthResponse{Session: sess, Profile: profile})
}

// Refresh godoc
// @Summary Refresh access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} auth.TokenPair
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	pair, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pair)
}

// SignOut godoc
// @Summary Sign out
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignOutRequest true "Refresh token"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/signout [post]
func (h *AuthHandler) SignOut(c echo.Context) error {
	var req SignOutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	accessToken := tokenFromHeader(c)
	err := h.authService.SignOut(c.Request().Context(), accessToken, req.RefreshToken)

	// Device cache slots are cleared even when revocation fails.
	if store := h.deviceStore(c); store != nil {
		store.Clear(c.Request().Context())
	}
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "signed out successfully",
	})
}

// ResetPassword godoc
// @Summary Dispatch a password reset token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "Email"
// @Success 200 {object} map[string]string
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ResetPassword(c.Request().Context(), req.Email); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "reset token dispatched if the email is registered",
	})
}

// ConfirmReset godoc
// @Summary Confirm a password reset
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ConfirmResetRequest true "Token and new password"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/reset-password/confirm [post]
func (h *AuthHandler) ConfirmReset(c echo.Context) error {
	var req ConfirmResetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ConfirmResetPassword(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "password updated",
	})
}

// Restore godoc
// @Summary Resolve a device's session from its cached state
// @Description Runs the startup recovery protocol for the device identified
// @Description by X-Device-ID: cached session first, then a live lookup under
// @Description a bounded wait, degrading to cached or synthesized profiles.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RestoreRequest false "Optional cached token bundle"
// @Success 200 {object} RestoreResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /auth/restore [post]
func (h *AuthHandler) Restore(c echo.Context) error {
	deviceID := c.Request().Header.Get(deviceHeader)
	if deviceID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "missing " + deviceHeader + " header",
			Code:  "MISSING_DEVICE_ID",
		})
	}

	var req RestoreRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx := c.Request().Context()
	store := session.NewStore(h.cache, "device:"+deviceID, h.cfg.ProfileCacheTTL)
	if req.RefreshToken != "" {
		store.Save(ctx, &session.Session{
			AccessToken:  req.AccessToken,
			RefreshToken: req.RefreshToken,
			ExpiresAt:    req.ExpiresAt,
		})
	}

	client := backend.New(h.authService, h.profiles)
	loader := session.NewLoader(store, client, h.cfg.ProfileFetchTimeout)
	facade := session.NewFacade(client, store, loader)
	resolver := session.NewResolver(store, loader, client, facade, h.cfg.SessionRestoreTimeout)
	resolver.Resolve(ctx)

	return c.JSON(http.StatusOK, RestoreResponse{
		Authenticated: facade.IsAuthenticated(),
		Session:       facade.Session(),
		Profile:       facade.Profile(),
	})
}

// mirror saves the settled pair into the device's cache slots when the
// request identifies a device.
func (h *AuthHandler) mirror(c echo.Context, sess *session.Session, profile *model.Profile) {
	store := h.deviceStore(c)
	if store == nil {
		return
	}
	ctx := c.Request().Context()
	store.Save(ctx, sess)
	store.SaveProfile(ctx, profile)
}

func (h *AuthHandler) deviceStore(c echo.Context) *session.Store {
	deviceID := c.Request().Header.Get(deviceHeader)
	if deviceID == "" {
		return nil
	}
	return session.NewStore(h.cache, "device:"+deviceID, h.cfg.ProfileCacheTTL)
}

func sessionFromPair(profile *model.Profile, pair *auth.TokenPair) *session.Session {
	return &session.Session{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
		User: session.Identity{
			ID:    profile.ID,
			Email: profile.Email,
			Name:  profile.Name,
		},
	}
}

func tokenFromHeader(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}
