package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrReviewEventImmutable is returned by the update/delete hooks.
var ErrReviewEventImmutable = errors.New("review events are append-only")

// BusinessReviewEvent is an immutable audit entry for one reviewer decision.
type BusinessReviewEvent struct {
	ID              uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	RegistrationID  uuid.UUID    `gorm:"type:uuid;not null;index;uniqueIndex:idx_business_review_events_sequence,priority:1" json:"registration_id"`
	Sequence        int64        `gorm:"not null;uniqueIndex:idx_business_review_events_sequence,priority:2" json:"sequence"`
	ReviewerID      uuid.UUID    `gorm:"type:uuid;not null" json:"reviewer_id"`
	ReviewerName    string       `gorm:"type:varchar(120);not null" json:"reviewer_name"`
	Action          ReviewAction `gorm:"type:varchar(32);not null" json:"action"`
	Notes           *string      `gorm:"type:text" json:"notes,omitempty"`
	RejectionReason *string      `gorm:"type:text" json:"rejection_reason,omitempty"`
	CreatedAt       time.Time    `gorm:"not null;index" json:"created_at"`
}

func (BusinessReviewEvent) TableName() string {
	return "business_review_events"
}

func (e *BusinessReviewEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (e *BusinessReviewEvent) BeforeUpdate(tx *gorm.DB) error {
	return ErrReviewEventImmutable
}

func (e *BusinessReviewEvent) BeforeDelete(tx *gorm.DB) error {
	return ErrReviewEventImmutable
}
