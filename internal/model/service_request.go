package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ServiceStatus is the lifecycle state of a service request.
type ServiceStatus string

const (
	ServicePending   ServiceStatus = "pending"
	ServiceConfirmed ServiceStatus = "confirmed"
	ServiceCompleted ServiceStatus = "completed"
	ServiceCancelled ServiceStatus = "cancelled"
)

// ServiceRequest is a cleaning job requested by a client.
type ServiceRequest struct {
	ID              uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	ClientID        uuid.UUID       `json:"client_id" gorm:"type:char(36);not null;index"`
	Client          *Profile        `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	LocationID      *uuid.UUID      `json:"location_id,omitempty" gorm:"type:char(36);index"`
	Location        *Location       `json:"location,omitempty" gorm:"foreignKey:LocationID"`
	Type            string          `json:"type" gorm:"size:100;not null"`
	Description     string          `json:"description" gorm:"size:1024"`
	ScheduledAt     time.Time       `json:"scheduled_at" gorm:"not null;index"`
	Status          ServiceStatus   `json:"status" gorm:"size:20;default:'pending';index"`
	Price           decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	DiscountPercent decimal.Decimal `json:"discount_percent" gorm:"type:decimal(5,2);default:0"`
	FinalPrice      decimal.Decimal `json:"final_price" gorm:"type:decimal(10,2)"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `json:"-" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (s *ServiceRequest) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Status == "" {
		s.Status = ServicePending
	}
	return nil
}
