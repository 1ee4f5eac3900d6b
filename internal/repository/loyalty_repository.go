package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"cleanops/internal/model"
)

// LoyaltyRepository defines loyalty record persistence operations.
type LoyaltyRepository interface {
	FindByProfile(ctx context.Context, profileID uuid.UUID) (*model.LoyaltyRecord, error)
	// Increment bumps the completed-services counter and adds points,
	// creating the record on first completion.
	Increment(ctx context.Context, profileID uuid.UUID, points decimal.Decimal) (*model.LoyaltyRecord, error)
}

type loyaltyRepository struct {
	db *gorm.DB
}

// NewLoyaltyRepository creates a new loyalty repository.
func NewLoyaltyRepository(db *gorm.DB) LoyaltyRepository {
	return &loyaltyRepository{db: db}
}

func (r *loyaltyRepository) FindByProfile(ctx context.Context, profileID uuid.UUID) (*model.LoyaltyRecord, error) {
	var rec model.LoyaltyRecord
	if err := r.db.WithContext(ctx).Where("profile_id = ?", profileID).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *loyaltyRepository) Increment(ctx context.Context, profileID uuid.UUID, points decimal.Decimal) (*model.LoyaltyRecord, error) {
	var rec model.LoyaltyRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("profile_id = ?", profileID).First(&rec).Error
		if err == gorm.ErrRecordNotFound {
			rec = model.LoyaltyRecord{ProfileID: profileID}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		rec.ServicesCompleted++
		rec.Points = rec.Points.Add(points)
		return tx.Save(&rec).Error
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
