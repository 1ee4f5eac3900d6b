package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cleanops/internal/model"
)

// LocationRepository defines saved-address persistence operations.
type LocationRepository interface {
	Create(ctx context.Context, l *model.Location) error
	Update(ctx context.Context, l *model.Location) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Location, error)
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]model.Location, error)
}

type locationRepository struct {
	db *gorm.DB
}

// NewLocationRepository creates a new location repository.
func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) Create(ctx context.Context, l *model.Location) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *locationRepository) Update(ctx context.Context, l *model.Location) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *locationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Location{}).Error
}

func (r *locationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Location, error) {
	var l model.Location
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *locationRepository) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]model.Location, error) {
	var ls []model.Location
	if err := r.db.WithContext(ctx).Where("profile_id = ?", profileID).
		Order("created_at ASC").Find(&ls).Error; err != nil {
		return nil, err
	}
	return ls, nil
}
