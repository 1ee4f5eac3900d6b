package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "cleanops/internal/errors"
	"cleanops/internal/model"
	"cleanops/internal/repository"
	"cleanops/internal/session"
)

var (
	// ErrInvalidPrice is returned when a service price is missing or not positive.
	ErrInvalidPrice = errors.New("invalid price")
	// ErrPastSchedule is returned when a request is scheduled in the past.
	ErrPastSchedule = errors.New("scheduled time is in the past")
)

// pointsDivisor converts a final price into loyalty points.
var pointsDivisor = decimal.NewFromInt(10)

// CreateServiceInput carries the fields a client submits for a new request.
type CreateServiceInput struct {
	Type        string
	Description string
	LocationID  *uuid.UUID
	ScheduledAt time.Time
	Price       decimal.Decimal
}

// ServiceRequestService handles the service request lifecycle.
type ServiceRequestService interface {
	Create(ctx context.Context, client *model.Profile, in CreateServiceInput) (*model.ServiceRequest, error)
	Get(ctx context.Context, actor *model.Profile, id uuid.UUID) (*model.ServiceRequest, error)
	List(ctx context.Context, actor *model.Profile, filter repository.ServiceRequestFilter) ([]model.ServiceRequest, error)
	Confirm(ctx context.Context, actor *model.Profile, id uuid.UUID) (*model.ServiceRequest, error)
	Complete(ctx context.Context, actor *model.Profile, id uuid.UUID) (*model.ServiceRequest, error)
	Cancel(ctx context.Context, actor *model.Profile, id uuid.UUID) (*model.ServiceRequest, error)
}

type serviceRequestService struct {
	requests  repository.ServiceRequestRepository
	discounts repository.DiscountRepository
	loyalty   repository.LoyaltyRepository
	locations repository.LocationRepository
}

// NewServiceRequestService creates a new service request service.
func NewServiceRequestService(
	requests repository.ServiceRequestRepository,
	discounts repository.DiscountRepository,
	loyalty repository.LoyaltyRepository,
	locations repository.LocationRepository,
) ServiceRequestService {
	return &serviceRequestService{
		requests:  requests,
		discounts: discounts,
		loyalty:   loyalty,
		locations: locations,
	}
}

// Create registers a pending request owned by the calling client.
func (s *serviceRequestService) Create(ctx context.Context, client *model.Profile, in CreateServiceInput) (*model.ServiceRequest, error) {
	if !session.HasPermission(client.Role, session.CanCreateServices) {
		return nil, apperrors.ErrForbidden
	}
	if !in.Price.IsPositive() {
		return nil, ErrInvalidPrice
	}
	if in.ScheduledAt.Before(time.Now()) {
		return nil, ErrPastSchedule
	}

	if in.LocationID != nil {
		loc, err := s.locations.FindByID(ctx, *in.LocationID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, apperrors.ErrLocationNotFound
			}
			return nil, err
		}
		if loc.ProfileID != client.ID {
			return nil, apperrors.ErrForbidden
		}
	}

	req := &model.ServiceRequest{
		ID:          uuid.New(),
		ClientID:    client.ID,
		LocationID:  in.LocationID,
		Type:        in.Type,
		Description: in.Description,
		ScheduledAt: in.ScheduledAt,
		Status:      model.ServicePending,
		Price:       in.Price,
		FinalPrice:  in.Price,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("create service request: %w", err)
	}
	return req, nil
}

// Get returns a request; owners see their own, admins see all.
func (s *serviceRequestService) Get(ctx context.Context, actor *model.Profile, id uuid.UUID) (*model.ServiceRequest, error) {
	req, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ClientID != actor.ID && !session.HasPermission(actor.Role, session.CanConfirmServices) {
		return nil, apperrors.ErrForbidden
	}
	return req, nil
}

// List returns requests matching the filter. Non-admin callers are always
// restricted to their own requests no matter what the filter says.
func (s *serviceRequestService) List(ctx context.Context, actor *model.Profile, filter repository.ServiceRequestFilter) ([]model.ServiceRequest, error) {
	if !session.HasPermission(actor.Role, session.CanConfirmServices) {
		filter.ClientID = actor.ID
	}
	return s.requests.List(ctx, filter)
}

// Confirm moves a pending request to confirmed, applying the client's best
// active discount tier to the final price.
func (s *serviceRequestService) Confirm(ctx context.Context, actor *model.Profile, id uuid.UUID) (*model.ServiceRequest, error) {
	if !session.HasPermission(actor.Role, session.CanConfirmServices) {
		return nil, apperrors.ErrForbidden
	}

	req, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != model.ServicePending {
		return nil, apperrors.ErrInvalidTransition
	}

	percent, err := s.discountFor(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}

	req.Status = model.ServiceConfirmed
	req.DiscountPercent = percent
	req.FinalPrice = applyDiscount(req.Price, percent)

	if err := s.requests.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("confirm service request: %w", err)
	}
	return req, nil
}

// Complete moves a confirmed request to completed and credits loyalty.
func (s *serviceRequestService) Complete(ctx context.Context, actor *model.Profile, id uuid.UUID) (*model.ServiceRequest, error) {
	if !session.HasPermission(actor.Role, session.CanConfirmServices) {
		return nil, apperrors.ErrForbidden
	}

	req, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != model.ServiceConfirmed {
		return nil, apperrors.ErrInvalidTransition
	}

	req.Status = model.ServiceCompleted
	if err := s.requests.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("complete service request: %w", err)
	}

	points := req.FinalPrice.Div(pointsDivisor).Round(2)
	if _, err := s.loyalty.Increment(ctx, req.ClientID, points); err != nil {
		return nil, fmt.Errorf("credit loyalty: %w", err)
	}
	return req, nil
}

// Cancel aborts a pending or confirmed request. Clients cancel their own;
// admins cancel any.
func (s *serviceRequestService) Cancel(ctx context.Context, actor *model.Profile, id uuid.UUID) (*model.ServiceRequest, error) {
	req, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ClientID != actor.ID && !session.HasPermission(actor.Role, session.CanConfirmServices) {
		return nil, apperrors.ErrForbidden
	}
	if req.Status != model.ServicePending && req.Status != model.ServiceConfirmed {
		return nil, apperrors.ErrInvalidTransition
	}

	req.Status = model.ServiceCancelled
	if err := s.requests.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("cancel service request: %w", err)
	}
	return req, nil
}

func (s *serviceRequestService) find(ctx context.Context, id uuid.UUID) (*model.ServiceRequest, error) {
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrServiceNotFound
		}
		return nil, err
	}
	return req, nil
}

// discountFor picks the highest active tier the client qualifies for.
func (s *serviceRequestService) discountFor(ctx context.Context, clientID uuid.UUID) (decimal.Decimal, error) {
	completed := 0
	rec, err := s.loyalty.FindByProfile(ctx, clientID)
	if err == nil {
		completed = rec.ServicesCompleted
	} else if err != gorm.ErrRecordNotFound {
		return decimal.Zero, err
	}

	tiers, err := s.discounts.ListActive(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	percent := decimal.Zero
	for _, tier := range tiers {
		if completed >= tier.MinServices && tier.Percent.GreaterThan(percent) {
			percent = tier.Percent
		}
	}
	return percent, nil
}

func applyDiscount(price, percent decimal.Decimal) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	return price.Mul(hundred.Sub(percent)).Div(hundred).Round(2)
}
