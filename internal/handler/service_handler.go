package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"cleanops/internal/model"
	"cleanops/internal/repository"
	"cleanops/internal/service"
)

// ServiceHandler handles service request endpoints.
type ServiceHandler struct {
	services service.ServiceRequestService
}

// NewServiceHandler creates a new service request handler.
func NewServiceHandler(services service.ServiceRequestService) *ServiceHandler {
	return &ServiceHandler{services: services}
}

// CreateServiceRequest represents a new service request submission.
type CreateServiceRequest struct {
	Type        string          `json:"type" validate:"required"`
	Description string          `json:"description"`
	LocationID  *uuid.UUID      `json:"location_id"`
	ScheduledAt time.Time       `json:"scheduled_at" validate:"required"`
	Price       decimal.Decimal `json:"price" validate:"required"`
}

// Create godoc
// @Summary Create a service request
// @Tags services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateServiceRequest true "Service request"
// @Success 201 {object} model.ServiceRequest
// @Failure 400 {object} errors.ErrorResponse
// @Router /services [post]
func (h *ServiceHandler) Create(c echo.Context) error {
	p, err := actor(c)
	if err != nil {
		return err
	}

	var req CreateServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.services.Create(c.Request().Context(), p, service.CreateServiceInput{
		Type:        req.Type,
		Description: req.Description,
		LocationID:  req.LocationID,
		ScheduledAt: req.ScheduledAt,
		Price:       req.Price,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

// List godoc
// @Summary List service requests
// @Description Admins see everything and may filter; users see their own.
// @Tags services
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param client_id query string false "Filter by client (admin only)"
// @Success 200 {array} model.ServiceRequest
// @Router /services [get]
func (h *ServiceHandler) List(c echo.Context) error {
	p, err := actor(c)
	if err != nil {
		return err
	}

	filter := repository.ServiceRequestFilter{
		Status: model.ServiceStatus(c.QueryParam("status")),
	}
	if raw := c.QueryParam("client_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid client_id")
		}
		filter.ClientID = id
	}
	if raw := c.QueryParam("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid from timestamp")
		}
		filter.From = t
	}
	if raw := c.QueryParam("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid to timestamp")
		}
		filter.To = t
	}

	reqs, err := h.services.List(c.Request().Context(), p, filter)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, reqs)
}

// Get godoc
// @Summary Get a service request
// @Tags services
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.ServiceRequest
// @Router /services/{id} [get]
func (h *ServiceHandler) Get(c echo.Context) error {
	p, err := actor(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid service id")
	}

	req, err := h.services.Get(c.Request().Context(), p, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, req)
}

// Confirm godoc
// @Summary Confirm a pending service request
// @Tags services
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.ServiceRequest
// @Failure 403 {object} errors.ErrorResponse
// @Router /services/{id}/confirm [post]
func (h *ServiceHandler) Confirm(c echo.Context) error {
	return h.transition(c, h.services.Confirm)
}

// Complete godoc
// @Summary Complete a confirmed service request
// @Tags services
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.ServiceRequest
// @Failure 403 {object} errors.ErrorResponse
// @Router /services/{id}/complete [post]
func (h *ServiceHandler) Complete(c echo.Context) error {
	return h.transition(c, h.services.Complete)
}

// Cancel godoc
// @Summary Cancel a service request
// @Tags services
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.ServiceRequest
// @Router /services/{id}/cancel [post]
func (h *ServiceHandler) Cancel(c echo.Context) error {
	return h.transition(c, h.services.Cancel)
}

func (h *ServiceHandler) transition(c echo.Context, fn func(ctx context.Context, p *model.Profile, id uuid.UUID) (*model.ServiceRequest, error)) error {
	p, err := actor(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid service id")
	}

	req, err := fn(c.Request().Context(), p, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, req)
}
