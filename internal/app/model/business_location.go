package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BusinessLocation is a physical location of a registration. At most one
// location per registration is primary.
type BusinessLocation struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	RegistrationID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"registration_id"`
	BusinessID       *uuid.UUID `gorm:"type:uuid;index" json:"business_id,omitempty"`
	Label            string     `gorm:"type:varchar(120);not null" json:"label"`
	FormattedAddress string     `gorm:"type:text;not null" json:"formatted_address"`
	Street           *string    `gorm:"type:varchar(255)" json:"street,omitempty"`
	City             *string    `gorm:"type:varchar(120)" json:"city,omitempty"`
	StateRegion      *string    `gorm:"type:varchar(120)" json:"state_region,omitempty"`
	PostalCode       *string    `gorm:"type:varchar(20)" json:"postal_code,omitempty"`
	Country          *string    `gorm:"type:varchar(120)" json:"country,omitempty"`
	Latitude         *float64   `json:"latitude,omitempty"`
	Longitude        *float64   `json:"longitude,omitempty"`
	GooglePlaceID    *string    `gorm:"type:varchar(255)" json:"google_place_id,omitempty"`
	Timezone         *string    `gorm:"type:varchar(64)" json:"timezone,omitempty"`
	Phone            *string    `gorm:"type:varchar(40)" json:"phone,omitempty"`
	IsPrimary        bool       `gorm:"not null;default:false" json:"is_primary"`
	Notes            *string    `gorm:"type:text" json:"notes,omitempty"`
	Metadata         JSONMap    `gorm:"type:text" json:"metadata"`
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (BusinessLocation) TableName() string {
	return "business_locations"
}

func (l *BusinessLocation) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
