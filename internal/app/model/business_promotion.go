package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BusinessPromotion belongs to a registration. Location scoped promotions are
// bound to locations of that same registration through
// business_promotion_locations.
type BusinessPromotion struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	RegistrationID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"registration_id"`
	Title            string          `gorm:"type:varchar(120);not null" json:"title"`
	Subtitle         *string         `gorm:"type:varchar(160)" json:"subtitle,omitempty"`
	Description      *string         `gorm:"type:text" json:"description,omitempty"`
	PromotionType    PromotionType   `gorm:"type:varchar(20);not null" json:"promotion_type"`
	Scope            PromotionScope  `gorm:"type:varchar(20);not null;default:'business'" json:"scope"`
	Status           PromotionStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	ImageURL         *string         `gorm:"type:varchar(1024)" json:"image_url,omitempty"`
	Prize            *string         `gorm:"type:varchar(1024)" json:"prize,omitempty"`
	RewardPoints     int             `gorm:"not null;default:0" json:"reward_points"`
	DiscountPercent  *int            `json:"discount_percent,omitempty"`
	MaxClaims        *int            `json:"max_claims,omitempty"`
	PerUserLimit     *int            `json:"per_user_limit,omitempty"`
	TotalClaims      int             `gorm:"not null;default:0" json:"total_claims"`
	RequiresCheckIn  bool            `gorm:"not null;default:false" json:"requires_check_in"`
	RequiresPurchase bool            `gorm:"not null;default:false" json:"requires_purchase"`
	Terms            *string         `gorm:"type:text" json:"terms,omitempty"`
	Metadata         JSONMap         `gorm:"type:text" json:"metadata"`
	StartsAt         time.Time       `gorm:"not null;index" json:"starts_at"`
	EndsAt           time.Time       `gorm:"not null" json:"ends_at"`
	PublishedAt      *time.Time      `json:"published_at,omitempty"`
	CreatedBy        *uuid.UUID      `gorm:"type:uuid" json:"created_by,omitempty"`
	UpdatedBy        *uuid.UUID      `gorm:"type:uuid" json:"updated_by,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	LocationIDs []uuid.UUID `gorm:"-" json:"location_ids"`
}

func (BusinessPromotion) TableName() string {
	return "business_promotions"
}

func (p *BusinessPromotion) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// InitialPromotionStatus is evaluated once, when the promotion is created.
func InitialPromotionStatus(startsAt, now time.Time) PromotionStatus {
	if startsAt.After(now) {
		return PromotionStatusScheduled
	}
	return PromotionStatusActive
}

// BusinessPromotionLocation links a promotion to one location.
type BusinessPromotionLocation struct {
	PromotionID uuid.UUID `gorm:"type:uuid;primaryKey" json:"promotion_id"`
	LocationID  uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"location_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (BusinessPromotionLocation) TableName() string {
	return "business_promotion_locations"
}
