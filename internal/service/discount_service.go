package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "cleanops/internal/errors"
	"cleanops/internal/model"
	"cleanops/internal/repository"
	"cleanops/internal/session"
)

// ErrInvalidPercent is returned when a discount percentage is out of range.
var ErrInvalidPercent = errors.New("percent must be between 0 and 100")

// DiscountInput carries the fields of a discount tier.
type DiscountInput struct {
	Name        string
	Percent     decimal.Decimal
	MinServices int
	Active      bool
}

// DiscountService handles discount tier administration.
type DiscountService interface {
	Create(ctx context.Context, actor *model.Profile, in DiscountInput) (*model.Discount, error)
	Update(ctx context.Context, actor *model.Profile, id uuid.UUID, in DiscountInput) (*model.Discount, error)
	Delete(ctx context.Context, actor *model.Profile, id uuid.UUID) error
	List(ctx context.Context) ([]model.Discount, error)
}

type discountService struct {
	repo repository.DiscountRepository
}

// NewDiscountService creates a new discount service.
func NewDiscountService(repo repository.DiscountRepository) DiscountService {
	return &discountService{repo: repo}
}

func (s *discountService) Create(ctx context.Context, actor *model.Profile, in DiscountInput) (*model.Discount, error) {
	if !session.HasPermission(actor.Role, session.CanManageDiscounts) {
		return nil, apperrors.ErrForbidden
	}
	if err := validatePercent(in.Percent); err != nil {
		return nil, err
	}

	d := &model.Discount{
		ID:          uuid.New(),
		Name:        in.Name,
		Percent:     in.Percent,
		MinServices: in.MinServices,
		Active:      in.Active,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create discount: %w", err)
	}
	return d, nil
}

func (s *discountService) Update(ctx context.Context, actor *model.Profile, id uuid.UUID, in DiscountInput) (*model.Discount, error) {
	if !session.HasPermission(actor.Role, session.CanManageDiscounts) {
		return nil, apperrors.ErrForbidden
	}
	if err := validatePercent(in.Percent); err != nil {
		return nil, err
	}

	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrDiscountNotFound
		}
		return nil, err
	}

	d.Name = in.Name
	d.Percent = in.Percent
	d.MinServices = in.MinServices
	d.Active = in.Active
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("update discount: %w", err)
	}
	return d, nil
}

func (s *discountService) Delete(ctx context.Context, actor *model.Profile, id uuid.UUID) error {
	if !session.HasPermission(actor.Role, session.CanManageDiscounts) {
		return apperrors.ErrForbidden
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrDiscountNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *discountService) List(ctx context.Context) ([]model.Discount, error) {
	return s.repo.List(ctx)
}

func validatePercent(p decimal.Decimal) error {
	if p.IsNegative() || p.GreaterThan(decimal.NewFromInt(100)) {
		return ErrInvalidPercent
	}
	return nil
}
