package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "cleanops/internal/errors"
	"cleanops/internal/model"
	"cleanops/internal/repository"
	"cleanops/internal/session"
)

// LoyaltyService exposes loyalty standing. Writes happen only through
// service completion.
type LoyaltyService interface {
	Get(ctx context.Context, actor *model.Profile, profileID uuid.UUID) (*model.LoyaltyRecord, error)
}

type loyaltyService struct {
	repo repository.LoyaltyRepository
}

// NewLoyaltyService creates a new loyalty service.
func NewLoyaltyService(repo repository.LoyaltyRepository) LoyaltyService {
	return &loyaltyService{repo: repo}
}

// Get returns a client's loyalty record. Owners see their own; admins any.
// A client with no completed services gets a zero record, not an error.
func (s *loyaltyService) Get(ctx context.Context, actor *model.Profile, profileID uuid.UUID) (*model.LoyaltyRecord, error) {
	if actor.ID != profileID && !session.HasPermission(actor.Role, session.CanManageUsers) {
		return nil, apperrors.ErrForbidden
	}

	rec, err := s.repo.FindByProfile(ctx, profileID)
	if err == gorm.ErrRecordNotFound {
		return &model.LoyaltyRecord{ProfileID: profileID}, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}
