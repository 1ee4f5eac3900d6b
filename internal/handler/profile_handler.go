package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"cleanops/internal/model"
	"cleanops/internal/service"
)

// ProfileHandler handles profile and user administration endpoints.
type ProfileHandler struct {
	profileService service.ProfileService
	authService    service.AuthService
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profileService service.ProfileService, authService service.AuthService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, authService: authService}
}

// UpdateProfileRequest carries editable profile fields.
type UpdateProfileRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// UpdatePasswordRequest changes the caller's password.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// UpdateRoleRequest changes a user's role; the privileged write path.
type UpdateRoleRequest struct {
	Role model.Role `json:"role" validate:"required,oneof=admin user"`
}

// Me godoc
// @Summary Current resolved profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Profile
// @Router /me [get]
func (h *ProfileHandler) Me(c echo.Context) error {
	p, err := actor(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// UpdateMe godoc
// @Summary Update own profile
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Profile
// @Router /me [put]
func (h *ProfileHandler) UpdateMe(c echo.Context) error {
	p, err := actor(c)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	updated, err := h.profileService.Update(c.Request().Context(), p, p.ID, service.ProfileUpdate{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

// UpdatePassword godoc
// @Summary Change own password
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Router /me/password [put]
func (h *ProfileHandler) UpdatePassword(c echo.Context) error {
	p, err := actor(c)
	if err != nil {
		return err
	}

	var req UpdatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.UpdatePassword(c.Request().Context(), p.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "password updated"})
}

// ListUsers godoc
// @Summary List all profiles
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Profile
// @Failure 403 {object} errors.ErrorResponse
// @Router /users [get]
func (h *ProfileHandler) ListUsers(c echo.Context) error {
	p, err := actor(c)
	if err != nil {
		return err
	}

	profiles, err := h.profileService.List(c.Request().Context(), p)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, profiles)
}

// GetUser godoc
// @Summary Get a profile by ID
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Profile
// @Router /users/{id} [get]
func (h *ProfileHandler) GetUser(c echo.Context) error {
	if _, err := actor(c); err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid profile id")
	}

	profile, err := h.profileService.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateUserRole godoc
// @Summary Change a user's role
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Profile
// @Failure 403 {object} errors.ErrorResponse
// @Router /users/{id}/role [put]
func (h *ProfileHandler) UpdateUserRole(c echo.Context) error {
	p, err := actor(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid profile id")
	}

	var req UpdateRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.profileService.UpdateRole(c.Request().Context(), p, id, req.Role)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

// DeactivateUser godoc
// @Summary Deactivate a profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Router /users/{id} [delete]
func (h *ProfileHandler) DeactivateUser(c echo.Context) error {
	p, err := actor(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid profile id")
	}

	if err := h.profileService.Deactivate(c.Request().Context(), p, id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "profile deactivated"})
}
