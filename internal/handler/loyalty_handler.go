package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"cleanops/internal/service"
)

// LoyaltyHandler exposes loyalty standing.
type LoyaltyHandler struct {
	loyalty service.LoyaltyService
}

// NewLoyaltyHandler creates a new loyalty handler.
func NewLoyaltyHandler(loyalty service.LoyaltyService) *LoyaltyHandler {
	return &LoyaltyHandler{loyalty: loyalty}
}

// Mine returns the caller's loyalty record.
func (h *LoyaltyHandler) Mine(c echo.Context) error {
	p, err := actor(c)
	if err != nil {
		return err
	}

	rec, err := h.loyalty.Get(c.Request().Context(), p, p.ID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rec)
}

// Get returns a client's loyalty record; owner or admin.
func (h *LoyaltyHandler) Get(c echo.Context) error {
	p, err := actor(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid profile id")
	}

	rec, err := h.loyalty.Get(c.Request().Context(), p, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rec)
}
