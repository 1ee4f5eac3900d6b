package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cleanops/internal/model"
)

// ProfileRepository defines profile persistence operations.
type ProfileRepository interface {
	Create(ctx context.Context, profile *model.Profile) error
	Update(ctx context.Context, profile *model.Profile) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	FindByEmail(ctx context.Context, email string) (*model.Profile, error)
	List(ctx context.Context) ([]model.Profile, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *profileRepository) Update(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *profileRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) FindByEmail(ctx context.Context, email string) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) List(ctx context.Context) ([]model.Profile, error) {
	var profiles []model.Profile
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// UpdateRole is the privileged write path for role changes. Regular profile
// updates never touch the role column.
func (r *profileRepository) UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) error {
	return r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("id = ?", id).
		Update("role", role).Error
}

func (r *profileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Profile{}).Error
}
