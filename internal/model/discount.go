package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Discount is a loyalty tier: clients with at least MinServices completed
// services get Percent off at confirmation time. The highest matching
// active tier wins.
type Discount struct {
	ID          uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	Name        string          `json:"name" gorm:"size:255;not null"`
	Percent     decimal.Decimal `json:"percent" gorm:"type:decimal(5,2);not null"`
	MinServices int             `json:"min_services" gorm:"not null;index"`
	Active      bool            `json:"active" gorm:"default:true;index"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (d *Discount) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
