package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoyaltyRecord accumulates a client's completed services and points.
// One row per profile; updated when a service request completes.
type LoyaltyRecord struct {
	ProfileID         uuid.UUID       `json:"profile_id" gorm:"type:char(36);primaryKey"`
	ServicesCompleted int             `json:"services_completed" gorm:"default:0"`
	Points            decimal.Decimal `json:"points" gorm:"type:decimal(10,2);default:0"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
