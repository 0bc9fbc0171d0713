package repository

import (
	"github.com/google/uuid"
	"github.com/ikkim/bizreview-backend/internal/app/model"
	"github.com/ikkim/bizreview-backend/pkg/logger"
	"gorm.io/gorm"
)

// ReviewEventRepository only appends and reads; events are never changed.
type ReviewEventRepository interface {
	WithTx(tx *gorm.DB) ReviewEventRepository
	Create(event *model.BusinessReviewEvent) error
	FindByRegistrationID(registrationID uuid.UUID) ([]model.BusinessReviewEvent, error)
	CountByRegistrationID(registrationID uuid.UUID) (int64, error)
}

type reviewEventRepository struct {
	db *gorm.DB
}

func NewReviewEventRepository(db *gorm.DB) ReviewEventRepository {
	return &reviewEventRepository{db: db}
}

func (r *reviewEventRepository) WithTx(tx *gorm.DB) ReviewEventRepository {
	return &reviewEventRepository{db: tx}
}

// Create numbers the event after the registration's latest one. Callers hold
// the registration row lock, so sequences never collide.
func (r *reviewEventRepository) Create(event *model.BusinessReviewEvent) error {
	var last int64
	if err := r.db.Model(&model.BusinessReviewEvent{}).
		Where("registration_id = ?", event.RegistrationID).
		Select("COALESCE(MAX(sequence), 0)").
		Scan(&last).Error; err != nil {
		logger.Error("Failed to read review event sequence", err, map[string]interface{}{
			"registration_id": event.RegistrationID,
		})
		return err
	}
	event.Sequence = last + 1

	if err := r.db.Create(event).Error; err != nil {
		logger.Error("Failed to append review event", err, map[string]interface{}{
			"registration_id": event.RegistrationID,
			"action":          event.Action,
		})
		return err
	}

	logger.Debug("Review event appended", map[string]interface{}{
		"event_id":        event.ID,
		"registration_id": event.RegistrationID,
		"sequence":        event.Sequence,
		"action":          event.Action,
	})
	return nil
}

// FindByRegistrationID returns the history oldest first. Events sharing a
// timestamp keep their append order.
func (r *reviewEventRepository) FindByRegistrationID(registrationID uuid.UUID) ([]model.BusinessReviewEvent, error) {
	var events []model.BusinessReviewEvent
	if err := r.db.
		Where("registration_id = ?", registrationID).
		Order("created_at ASC").
		Order("sequence ASC").
		Find(&events).Error; err != nil {
		logger.Error("Failed to list review events", err, map[string]interface{}{
			"registration_id": registrationID,
		})
		return nil, err
	}
	return events, nil
}

func (r *reviewEventRepository) CountByRegistrationID(registrationID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.BusinessReviewEvent{}).
		Where("registration_id = ?", registrationID).
		Count(&count).Error
	return count, err
}
