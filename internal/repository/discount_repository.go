package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cleanops/internal/model"
)

// DiscountRepository defines discount tier persistence operations.
type DiscountRepository interface {
	Create(ctx context.Context, d *model.Discount) error
	Update(ctx context.Context, d *model.Discount) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Discount, error)
	List(ctx context.Context) ([]model.Discount, error)
	ListActive(ctx context.Context) ([]model.Discount, error)
}

type discountRepository struct {
	db *gorm.DB
}

// NewDiscountRepository creates a new discount repository.
func NewDiscountRepository(db *gorm.DB) DiscountRepository {
	return &discountRepository{db: db}
}

func (r *discountRepository) Create(ctx context.Context, d *model.Discount) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *discountRepository) Update(ctx context.Context, d *model.Discount) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *discountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Discount{}).Error
}

func (r *discountRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Discount, error) {
	var d model.Discount
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *discountRepository) List(ctx context.Context) ([]model.Discount, error) {
	var ds []model.Discount
	if err := r.db.WithContext(ctx).Order("min_services ASC").Find(&ds).Error; err != nil {
		return nil, err
	}
	return ds, nil
}

func (r *discountRepository) ListActive(ctx context.Context) ([]model.Discount, error) {
	var ds []model.Discount
	if err := r.db.WithContext(ctx).Where("active = ?", true).
		Order("min_services ASC").Find(&ds).Error; err != nil {
		return nil, err
	}
	return ds, nil
}
