package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/bizreview-backend/internal/app/model"
	"github.com/ikkim/bizreview-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RegistrationRepository interface {
	WithTx(tx *gorm.DB) RegistrationRepository
	Create(registration *model.BusinessRegistration) error
	FindByID(id uuid.UUID) (*model.BusinessRegistration, error)
	FindByIDForUpdate(id uuid.UUID) (*model.BusinessRegistration, error)
	FindLatestByUserID(userID uuid.UUID) (*model.BusinessRegistration, error)
	FindByUserID(userID uuid.UUID) ([]model.BusinessRegistration, error)
	FindPending(limit, offset int) ([]model.BusinessRegistration, error)
	FindByStatus(status *model.RegistrationStatus) ([]model.BusinessRegistration, error)
	UpdateFields(id uuid.UUID, fields map[string]interface{}) error
	Touch(id uuid.UUID) error
	GetReviewStats(since time.Time) (*model.ReviewStats, error)
}

type registrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

func (r *registrationRepository) WithTx(tx *gorm.DB) RegistrationRepository {
	return &registrationRepository{db: tx}
}

func (r *registrationRepository) Create(registration *model.BusinessRegistration) error {
	logger.Debug("Creating registration in database", map[string]interface{}{
		"user_id": registration.UserID,
		"name":    registration.Name,
	})

	if err := r.db.Omit(clause.Associations).Create(registration).Error; err != nil {
		logger.Error("Failed to create registration in database", err, map[string]interface{}{
			"user_id": registration.UserID,
		})
		return err
	}

	logger.Debug("Registration created in database", map[string]interface{}{
		"registration_id": registration.ID,
		"status":          registration.Status,
	})
	return nil
}

func (r *registrationRepository) FindByID(id uuid.UUID) (*model.BusinessRegistration, error) {
	var registration model.BusinessRegistration
	if err := r.db.Where("id = ?", id).First(&registration).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find registration by ID in database", err, map[string]interface{}{
				"registration_id": id,
			})
		}
		return nil, err
	}
	return &registration, nil
}

// FindByIDForUpdate takes a row lock held until the surrounding transaction ends.
func (r *registrationRepository) FindByIDForUpdate(id uuid.UUID) (*model.BusinessRegistration, error) {
	logger.Debug("Locking registration row", map[string]interface{}{
		"registration_id": id,
	})

	var registration model.BusinessRegistration
	if err := r.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&registration).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to lock registration row", err, map[string]interface{}{
				"registration_id": id,
			})
		}
		return nil, err
	}
	return &registration, nil
}

func (r *registrationRepository) FindLatestByUserID(userID uuid.UUID) (*model.BusinessRegistration, error) {
	var registration model.BusinessRegistration
	if err := r.db.
		Where("user_id = ?", userID).
		Order("submitted_at DESC").
		First(&registration).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find latest registration for user", err, map[string]interface{}{
				"user_id": userID,
			})
		}
		return nil, err
	}
	return &registration, nil
}

func (r *registrationRepository) FindByUserID(userID uuid.UUID) ([]model.BusinessRegistration, error) {
	logger.Debug("Finding registrations by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var registrations []model.BusinessRegistration
	if err := r.db.
		Preload("Locations", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC").Order("created_at ASC")
		}).
		Where("user_id = ?", userID).
		Order("submitted_at DESC").
		Find(&registrations).Error; err != nil {
		logger.Error("Failed to find registrations by user ID", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Registrations found by user ID", map[string]interface{}{
		"user_id": userID,
		"count":   len(registrations),
	})
	return registrations, nil
}

// FindPending returns the reviewer queue, oldest submission first.
func (r *registrationRepository) FindPending(limit, offset int) ([]model.BusinessRegistration, error) {
	var registrations []model.BusinessRegistration
	if err := r.db.
		Where("status IN ?", []model.RegistrationStatus{
			model.RegistrationStatusPending,
			model.RegistrationStatusUnderReview,
		}).
		Order("submitted_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&registrations).Error; err != nil {
		logger.Error("Failed to list pending registrations", err, map[string]interface{}{
			"limit":  limit,
			"offset": offset,
		})
		return nil, err
	}
	return registrations, nil
}

func (r *registrationRepository) FindByStatus(status *model.RegistrationStatus) ([]model.BusinessRegistration, error) {
	query := r.db.
		Preload("Locations", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC, created_at ASC")
		}).
		Order("submitted_at ASC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var registrations []model.BusinessRegistration
	if err := query.Find(&registrations).Error; err != nil {
		logger.Error("Failed to list registrations by status", err, map[string]interface{}{
			"status": status,
		})
		return nil, err
	}
	return registrations, nil
}

func (r *registrationRepository) UpdateFields(id uuid.UUID, fields map[string]interface{}) error {
	logger.Debug("Updating registration in database", map[string]interface{}{
		"registration_id": id,
		"fields":          len(fields),
	})

	result := r.db.Model(&model.BusinessRegistration{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		logger.Error("Failed to update registration in database", result.Error, map[string]interface{}{
			"registration_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Touch bumps updated_at after a change to a child row.
func (r *registrationRepository) Touch(id uuid.UUID) error {
	return r.db.Model(&model.BusinessRegistration{}).
		Where("id = ?", id).
		Update("updated_at", time.Now()).Error
}

func (r *registrationRepository) GetReviewStats(since time.Time) (*model.ReviewStats, error) {
	var stats model.ReviewStats
	counts := []struct {
		dest   *int64
		status model.RegistrationStatus
		since  bool
	}{
		{&stats.Pending, model.RegistrationStatusPending, false},
		{&stats.UnderReview, model.RegistrationStatusUnderReview, false},
		{&stats.ApprovedToday, model.RegistrationStatusApproved, true},
		{&stats.RejectedToday, model.RegistrationStatusRejected, true},
	}

	for _, c := range counts {
		query := r.db.Model(&model.BusinessRegistration{}).Where("status = ?", c.status)
		if c.since {
			query = query.Where("updated_at >= ?", since)
		}
		if err := query.Count(c.dest).Error; err != nil {
			logger.Error("Failed to count registrations for review stats", err, map[string]interface{}{
				"status": c.status,
			})
			return nil, err
		}
	}
	return &stats, nil
}
