package router

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"cleanops/internal/backend"
	"cleanops/internal/cache"
	"cleanops/internal/config"
	apperrors "cleanops/internal/errors"
	"cleanops/internal/handler"
	"cleanops/internal/model"
	"cleanops/internal/repository"
	"cleanops/internal/service"
	"cleanops/internal/session"
)

// ProfileResolver resolves the caller's profile behind the JWT middleware.
// The canonical row is fetched under a bounded wait, degrading to the
// cached profile, then to a synthesized least-privileged one, so a slow
// database never blocks authenticated traffic and never grants admin by
// accident.
func ProfileResolver(authService service.AuthService, profiles repository.ProfileRepository, cacheClient *cache.Client, cfg *config.Config) echo.MiddlewareFunc {
	client := backend.New(authService, profiles)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c)
			if raw == "" {
				return unauthorized("missing bearer token")
			}

			ctx := c.Request().Context()
			claims, err := authService.ValidateAccess(ctx, raw)
			if err != nil {
				return unauthorized("invalid or revoked token")
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return unauthorized("malformed token subject")
			}

			hint := &session.Session{
				AccessToken: raw,
				ExpiresAt:   claims.ExpiresAt.Time,
				User: session.Identity{
					ID:    userID,
					Email: claims.Email,
					Name:  claims.Name,
				},
			}

			store := session.NewStore(cacheClient, session.UserScope(userID), cfg.ProfileCacheTTL)
			loader := session.NewLoader(store, client, cfg.ProfileFetchTimeout)
			profile := loader.Load(ctx, userID, hint)
			if !profile.Active {
				return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
					Error: apperrors.ErrProfileInactive.Error(),
					Code:  "PROFILE_INACTIVE",
				})
			}

			c.Set(handler.ProfileContextKey, profile)
			return next(c)
		}
	}
}

// RequirePermission gates a route on a capability from the static
// permission table. Unknown roles fall back to the user row.
func RequirePermission(capability session.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			profile, ok := c.Get(handler.ProfileContextKey).(*model.Profile)
			if !ok || profile == nil {
				return unauthorized("no resolved profile")
			}
			if !session.HasPermission(profile.Role, capability) {
				return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
					Error: apperrors.ErrForbidden.Error(),
					Code:  "FORBIDDEN",
				})
			}
			return next(c)
		}
	}
}

func unauthorized(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
		Error: msg,
		Code:  "UNAUTHORIZED",
	})
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}
