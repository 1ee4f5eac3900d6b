package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role gates feature visibility and permissions. The enumeration is closed:
// anything outside it is treated as RoleUser by permission lookups.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether the role belongs to the closed enumeration.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Profile is the application-level user record. Role is the sole
// authorization signal; it is never read from token claims, only from this
// record, so that client-controlled metadata cannot spoof privileges.
type Profile struct {
	ID           uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	Name         string         `json:"name" gorm:"size:255;not null;index"`
	Email        string         `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string         `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Phone        string         `json:"phone" gorm:"size:50"`
	Address      string         `json:"address" gorm:"size:255"`
	Role         Role           `json:"role" gorm:"size:50;default:'user';index"`
	Active       bool           `json:"active" gorm:"default:true;index"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if !p.Role.Valid() {
		p.Role = RoleUser
	}
	return nil
}
