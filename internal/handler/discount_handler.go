package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"cleanops/internal/service"
)

// DiscountHandler handles discount tier administration endpoints.
type DiscountHandler struct {
	discounts service.DiscountService
}

// NewDiscountHandler creates a new discount handler.
func NewDiscountHandler(discounts service.DiscountService) *DiscountHandler {
	return &DiscountHandler{discounts: discounts}
}

// DiscountRequest carries a discount tier payload.
type DiscountRequest struct {
	Name        string          `json:"name" validate:"required"`
	Percent     decimal.Decimal `json:"percent" validate:"required"`
	MinServices int             `json:"min_services" validate:"gte=0"`
	Active      bool            `json:"active"`
}

// List godoc
// @Summary List discount tiers
// @Tags discounts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Discount
// @Router /discounts [get]
func (h *DiscountHandler) List(c echo.Context) error {
	if _, err := actor(c); err != nil {
		return err
	}

	ds, err := h.discounts.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, ds)
}

// Create godoc
// @Summary Create a discount tier
// @Tags discounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} model.Discount
// @Failure 403 {object} errors.ErrorResponse
// @Router /discounts [post]
func (h *DiscountHandler) Create(c echo.Context) error {
	p, err := actor(c)
	if err != nil {
		return err
	}

	var req DiscountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	d, err := h.discounts.Create(c.Request().Context(), p, service.DiscountInput{
		Name:        req.Name,
		Percent:     req.Percent,
		MinServices: req.MinServices,
		Active:      req.Active,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, d)
}

// Update godoc
// @Summary Update a discount tier
// @Tags discounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Discount
// @Failure 403 {object} errors.ErrorResponse
// @Router /discounts/{id} [put]
func (h *DiscountHandler) Update(c echo.Context) error {
	p, err := actor(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid discount id")
	}

	var req DiscountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	d, err := h.discounts.Update(c.Request().Context(), p, id, service.DiscountInput{
		Name:        req.Name,
		Percent:     req.Percent,
		MinServices: req.MinServices,
		Active:      req.Active,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, d)
}

// Delete godoc
// @Summary Delete a discount tier
// @Tags discounts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Router /discounts/{id} [delete]
func (h *DiscountHandler) Delete(c echo.Context) error {
	p, err := actor(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid discount id")
	}

	if err := h.discounts.Delete(c.Request().Context(), p, id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "discount deleted"})
}
