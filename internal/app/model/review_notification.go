package model

import (
	"time"

	"github.com/google/uuid"
)

// ReviewNotification is pushed to connected reviewers after a review action
// has been committed.
type ReviewNotification struct {
	EventID        uuid.UUID          `json:"event_id"`
	RegistrationID uuid.UUID          `json:"registration_id"`
	Action         ReviewAction       `json:"action"`
	PreviousStatus RegistrationStatus `json:"previous_status"`
	Status         RegistrationStatus `json:"status"`
	ReviewerID     uuid.UUID          `json:"reviewer_id"`
	ReviewerName   string             `json:"reviewer_name"`
	BusinessID     *uuid.UUID         `json:"business_id,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
}
