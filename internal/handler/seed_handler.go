package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"cleanops/internal/service"
)

// SeedHandler seeds default discount tiers for fresh installations.
type SeedHandler struct {
	discounts service.DiscountService
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(discounts service.DiscountService) *SeedHandler {
	return &SeedHandler{discounts: discounts}
}

var defaultTiers = []service.DiscountInput{
	{Name: "Frecuente", Percent: decimal.NewFromInt(5), MinServices: 5, Active: true},
	{Name: "Preferente", Percent: decimal.NewFromInt(10), MinServices: 15, Active: true},
	{Name: "VIP", Percent: decimal.NewFromInt(15), MinServices: 30, Active: true},
}

// SeedDiscounts godoc
// @Summary Seed the default discount tiers
// @Tags seed
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]int
// @Failure 403 {object} errors.ErrorResponse
// @Router /seed/discounts [post]
func (h *SeedHandler) SeedDiscounts(c echo.Context) error {
	p, err := actor(c)
	if err != nil {
		return err
	}

	count := 0
	for _, tier := range defaultTiers {
		if _, err := h.discounts.Create(c.Request().Context(), p, tier); err != nil {
			return httpError(err)
		}
		count++
	}
	return c.JSON(http.StatusOK, map[string]int{"seeded": count})
}
