package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LocationAdmin grants a user a role over a location. Revoked grants stay in
// the table with IsActive=false.
type LocationAdmin struct {
	ID                uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	LocationID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"location_id"`
	UserID            uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	UserEmail         *string           `gorm:"type:varchar(255)" json:"user_email,omitempty"`
	UserUsername      *string           `gorm:"type:varchar(60)" json:"user_username,omitempty"`
	Role              LocationAdminRole `gorm:"type:varchar(20);not null" json:"role"`
	GrantedBy         *uuid.UUID        `gorm:"type:uuid" json:"granted_by,omitempty"`
	GrantedByUsername *string           `gorm:"type:varchar(60)" json:"granted_by_username,omitempty"`
	IsActive          bool              `gorm:"not null;index" json:"is_active"`
	GrantedAt         time.Time         `gorm:"not null" json:"granted_at"`
}

func (LocationAdmin) TableName() string {
	return "location_admins"
}

func (a *LocationAdmin) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.GrantedAt.IsZero() {
		a.GrantedAt = time.Now()
	}
	return nil
}
