package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "cleanops/internal/errors"
	"cleanops/internal/model"
	"cleanops/internal/repository"
	"cleanops/internal/session"
)

// LocationInput carries the fields of a saved address.
type LocationInput struct {
	Label   string
	Address string
	City    string
}

// LocationService handles saved addresses scoped to their owner.
type LocationService interface {
	Create(ctx context.Context, owner *model.Profile, in LocationInput) (*model.Location, error)
	Update(ctx context.Context, actor *model.Profile, id uuid.UUID, in LocationInput) (*model.Location, error)
	Delete(ctx context.Context, actor *model.Profile, id uuid.UUID) error
	ListOwn(ctx context.Context, owner *model.Profile) ([]model.Location, error)
}

type locationService struct {
	repo repository.LocationRepository
}

// NewLocationService creates a new location service.
func NewLocationService(repo repository.LocationRepository) LocationService {
	return &locationService{repo: repo}
}

func (s *locationService) Create(ctx context.Context, owner *model.Profile, in LocationInput) (*model.Location, error) {
	l := &model.Location{
		ID:        uuid.New(),
		ProfileID: owner.ID,
		Label:     in.Label,
		Address:   in.Address,
		City:      in.City,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}
	return l, nil
}

func (s *locationService) Update(ctx context.Context, actor *model.Profile, id uuid.UUID, in LocationInput) (*model.Location, error) {
	l, err := s.findOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	l.Label = in.Label
	l.Address = in.Address
	l.City = in.City
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, fmt.Errorf("update location: %w", err)
	}
	return l, nil
}

func (s *locationService) Delete(ctx context.Context, actor *model.Profile, id uuid.UUID) error {
	if _, err := s.findOwned(ctx, actor, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *locationService) ListOwn(ctx context.Context, owner *model.Profile) ([]model.Location, error) {
	return s.repo.ListByProfile(ctx, owner.ID)
}

func (s *locationService) findOwned(ctx context.Context, actor *model.Profile, id uuid.UUID) (*model.Location, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrLocationNotFound
		}
		return nil, err
	}
	if l.ProfileID != actor.ID && !session.HasPermission(actor.Role, session.CanManageUsers) {
		return nil, apperrors.ErrForbidden
	}
	return l, nil
}
