package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Location is a saved address a client can attach to service requests.
type Location struct {
	ID        uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	ProfileID uuid.UUID      `json:"profile_id" gorm:"type:char(36);not null;index"`
	Label     string         `json:"label" gorm:"size:100;not null"`
	Address   string         `json:"address" gorm:"size:255;not null"`
	City      string         `json:"city" gorm:"size:100"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (l *Location) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
