package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "cleanops/internal/errors"
	"cleanops/internal/model"
	"cleanops/internal/service"
)

// ProfileContextKey is where the resolved actor profile lives on the echo
// context. Set by the profile resolution middleware.
const ProfileContextKey = "profile"

// actor returns the resolved profile for the request.
func actor(c echo.Context) (*model.Profile, error) {
	p, ok := c.Get(ProfileContextKey).(*model.Profile)
	if !ok || p == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
			Error: "no resolved profile",
			Code:  "UNAUTHORIZED",
		})
	}
	return p, nil
}

// httpError maps service and domain errors to echo HTTP errors.
func httpError(err error) *echo.HTTPError {
	switch err {
	case service.ErrInvalidCredentials:
		return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{Error: err.Error(), Code: "INVALID_CREDENTIALS"})
	case service.ErrUserAlreadyExists:
		return echo.NewHTTPError(http.StatusConflict, apperrors.ErrorResponse{Error: err.Error(), Code: "USER_ALREADY_EXISTS"})
	case service.ErrInvalidRefreshToken:
		return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{Error: err.Error(), Code: "INVALID_REFRESH_TOKEN"})
	case service.ErrInvalidResetToken:
		return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{Error: err.Error(), Code: "INVALID_RESET_TOKEN"})
	case service.ErrInvalidPrice:
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{Error: err.Error(), Code: "INVALID_PRICE"})
	case service.ErrPastSchedule:
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{Error: err.Error(), Code: "PAST_SCHEDULE"})
	case service.ErrInvalidPercent:
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{Error: err.Error(), Code: "INVALID_PERCENT"})
	}
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
