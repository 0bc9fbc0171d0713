package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BusinessRegistration is a business profile submitted for verification.
// Status only moves through recorded review events.
type BusinessRegistration struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	BusinessID *uuid.UUID `gorm:"type:uuid;index" json:"business_id,omitempty"`

	Name            string      `gorm:"type:varchar(120);not null" json:"name"`
	Category        string      `gorm:"type:varchar(120);not null" json:"category"`
	Address         string      `gorm:"type:text;not null" json:"address"`
	Description     *string     `gorm:"type:text" json:"description,omitempty"`
	Phone           *string     `gorm:"type:varchar(40)" json:"phone,omitempty"`
	Website         *string     `gorm:"type:varchar(255)" json:"website,omitempty"`
	TaxID           *string     `gorm:"type:varchar(64)" json:"tax_id,omitempty"`
	DocumentURLs    StringArray `gorm:"type:text;not null" json:"document_urls"`
	IsMultiUserTeam bool        `gorm:"not null;default:false" json:"is_multi_user_team"`

	Status        RegistrationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	OwnerEmail    string             `gorm:"type:varchar(255);not null" json:"owner_email"`
	OwnerUsername string             `gorm:"type:varchar(60);not null" json:"owner_username"`

	RejectionReason *string    `gorm:"type:text" json:"rejection_reason,omitempty"`
	ReviewerNotes   *string    `gorm:"type:text" json:"reviewer_notes,omitempty"`
	ReviewerID      *uuid.UUID `gorm:"type:uuid" json:"reviewer_id,omitempty"`
	ReviewerName    *string    `gorm:"type:varchar(120)" json:"reviewer_name,omitempty"`

	SubmittedAt time.Time `gorm:"not null;index" json:"submitted_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Locations []BusinessLocation `gorm:"foreignKey:RegistrationID;constraint:OnDelete:CASCADE" json:"locations,omitempty"`
}

func (BusinessRegistration) TableName() string {
	return "business_registration_requests"
}

func (r *BusinessRegistration) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.SubmittedAt.IsZero() {
		r.SubmittedAt = time.Now()
	}
	if r.Status == "" {
		r.Status = RegistrationStatusPending
	}
	return nil
}

// BusinessRegistrationSummary is the listing view of a registration.
type BusinessRegistrationSummary struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Category    string             `json:"category"`
	Status      RegistrationStatus `json:"status"`
	BusinessID  *uuid.UUID         `json:"business_id,omitempty"`
	SubmittedAt time.Time          `json:"submitted_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Locations   []BusinessLocation `json:"locations"`
}

// PendingBusinessReview is one row of the reviewer queue.
type PendingBusinessReview struct {
	ID              uuid.UUID          `json:"id"`
	UserID          uuid.UUID          `json:"user_id"`
	Name            string             `json:"name"`
	Category        string             `json:"category"`
	Address         string             `json:"address"`
	OwnerEmail      string             `json:"owner_email"`
	OwnerUsername   string             `json:"owner_username"`
	Status          RegistrationStatus `json:"status"`
	DocumentURLs    StringArray        `json:"document_urls"`
	IsMultiUserTeam bool               `json:"is_multi_user_team"`
	SubmittedAt     time.Time          `json:"submitted_at"`
}

// ReviewStats summarizes the reviewer queue.
type ReviewStats struct {
	Pending       int64 `json:"pending"`
	UnderReview   int64 `json:"under_review"`
	ApprovedToday int64 `json:"approved_today"`
	RejectedToday int64 `json:"rejected_today"`
}

// BusinessRegistrationDetail bundles a registration with its locations and review history.
type BusinessRegistrationDetail struct {
	Registration BusinessRegistration  `json:"registration"`
	Locations    []BusinessLocation    `json:"locations"`
	Events       []BusinessReviewEvent `json:"events"`
}
