package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"cleanops/internal/service"
)

// LocationHandler handles saved address endpoints.
type LocationHandler struct {
	locations service.LocationService
}

// NewLocationHandler creates a new location handler.
func NewLocationHandler(locations service.LocationService) *LocationHandler {
	return &LocationHandler{locations: locations}
}

// LocationRequest carries a saved address payload.
type LocationRequest struct {
	Label   string `json:"label" validate:"required"`
	Address string `json:"address" validate:"required"`
	City    string `json:"city"`
}

// List returns the caller's saved addresses.
func (h *LocationHandler) List(c echo.Context) error {
	p, err := actor(c)
	if err != nil {
		return err
	}

	ls, err := h.locations.ListOwn(c.Request().Context(), p)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, ls)
}

// Create saves a new address for the caller.
func (h *LocationHandler) Create(c echo.Context) error {
	p, err := actor(c)
	if err != nil {
		return err
	}

	var req LocationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	l, err := h.locations.Create(c.Request().Context(), p, service.LocationInput{
		Label:   req.Label,
		Address: req.Address,
		City:    req.City,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, l)
}

// Update edits a saved address.
func (h *LocationHandler) Update(c echo.Context) error {
	p, err := actor(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid location id")
	}

	var req LocationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	l, err := h.locations.Update(c.Request().Context(), p, id, service.LocationInput{
		Label:   req.Label,
		Address: req.Address,
		City:    req.City,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, l)
}

// Delete removes a saved address.
func (h *LocationHandler) Delete(c echo.Context) error {
	p, err := actor(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid location id")
	}

	if err := h.locations.Delete(c.Request().Context(), p, id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "location deleted"})
}
