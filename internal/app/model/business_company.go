package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BusinessCompany groups business units under one owner.
type BusinessCompany struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerUserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_user_id"`
	CompanyName     string    `gorm:"type:varchar(160);not null" json:"company_name"`
	TaxID           *string   `gorm:"type:varchar(64)" json:"tax_id,omitempty"`
	LegalEntityType *string   `gorm:"type:varchar(64)" json:"legal_entity_type,omitempty"`
	IsActive        bool      `gorm:"not null" json:"is_active"`
	Metadata        JSONMap   `gorm:"type:text" json:"metadata"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (BusinessCompany) TableName() string {
	return "business_companies"
}

func (c *BusinessCompany) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// BusinessUnit is one unit of a company, optionally mapped to a registration.
// At most one unit per company is primary.
type BusinessUnit struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"company_id"`
	RegistrationID *uuid.UUID `gorm:"type:uuid;index" json:"registration_id,omitempty"`
	BusinessID     *uuid.UUID `gorm:"type:uuid" json:"business_id,omitempty"`
	UnitName       string     `gorm:"type:varchar(160);not null" json:"unit_name"`
	Category       *string    `gorm:"type:varchar(120)" json:"category,omitempty"`
	IsPrimary      bool       `gorm:"not null;default:false" json:"is_primary"`
	IsActive       bool       `gorm:"not null" json:"is_active"`
	Metadata       JSONMap    `gorm:"type:text" json:"metadata"`
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (BusinessUnit) TableName() string {
	return "business_units"
}

func (u *BusinessUnit) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type CompanyWithUnits struct {
	Company BusinessCompany `json:"company"`
	Units   []BusinessUnit  `json:"units"`
}

// BusinessUnitDetail is a unit with everything reachable through its registration.
type BusinessUnitDetail struct {
	Unit         BusinessUnit          `json:"unit"`
	Registration *BusinessRegistration `json:"registration,omitempty"`
	Locations    []BusinessLocation    `json:"locations"`
	Promotions   []BusinessPromotion   `json:"promotions"`
}
