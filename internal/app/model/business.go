package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Business is the approved business materialized from a registration on its
// first approval. One per registration.
type Business struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RegistrationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"registration_id"`
	OwnerUserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_user_id"`
	BusinessName   string    `gorm:"type:varchar(120);not null" json:"business_name"`
	Category       string    `gorm:"type:varchar(120);not null" json:"category"`
	TaxID          *string   `gorm:"type:varchar(64)" json:"tax_id,omitempty"`
	Description    *string   `gorm:"type:text" json:"description,omitempty"`
	Website        *string   `gorm:"type:varchar(255)" json:"website,omitempty"`
	Phone          *string   `gorm:"type:varchar(40)" json:"phone,omitempty"`
	IsActive       bool      `gorm:"not null" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Business) TableName() string {
	return "businesses"
}

func (b *Business) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// NewBusinessFromRegistration copies the profile fields of an approved registration.
func NewBusinessFromRegistration(reg *BusinessRegistration) *Business {
	return &Business{
		RegistrationID: reg.ID,
		OwnerUserID:    reg.UserID,
		BusinessName:   reg.Name,
		Category:       reg.Category,
		TaxID:          reg.TaxID,
		Description:    reg.Description,
		Website:        reg.Website,
		Phone:          reg.Phone,
		IsActive:       true,
	}
}
