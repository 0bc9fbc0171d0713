package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/ikkim/bizreview-backend/internal/app/model"
	"github.com/ikkim/bizreview-backend/pkg/logger"
	"gorm.io/gorm"
)

type LocationRepository interface {
	WithTx(tx *gorm.DB) LocationRepository
	Create(location *model.BusinessLocation) error
	FindByID(id uuid.UUID) (*model.BusinessLocation, error)
	FindByRegistrationAndID(registrationID, locationID uuid.UUID) (*model.BusinessLocation, error)
	FindByRegistrationID(registrationID uuid.UUID) ([]model.BusinessLocation, error)
	Update(location *model.BusinessLocation) error
	Delete(location *model.BusinessLocation) error
	ClearPrimary(registrationID uuid.UUID, except *uuid.UUID) error
	SetPrimary(locationID uuid.UUID) error
	CountByRegistrationID(registrationID uuid.UUID) (int64, error)
	FindOldest(registrationID uuid.UUID) (*model.BusinessLocation, error)
	CountOwned(registrationID uuid.UUID, locationIDs []uuid.UUID) (int64, error)
	AssignBusiness(registrationID, businessID uuid.UUID) error
}

type locationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) WithTx(tx *gorm.DB) LocationRepository {
	return &locationRepository{db: tx}
}

func (r *locationRepository) Create(location *model.BusinessLocation) error {
	logger.Debug("Creating location in database", map[string]interface{}{
		"registration_id": location.RegistrationID,
		"label":           location.Label,
		"is_primary":      location.IsPrimary,
	})

	if err := r.db.Create(location).Error; err != nil {
		logger.Error("Failed to create location in database", err, map[string]interface{}{
			"registration_id": location.RegistrationID,
		})
		return err
	}
	return nil
}

func (r *locationRepository) FindByID(id uuid.UUID) (*model.BusinessLocation, error) {
	var location model.BusinessLocation
	if err := r.db.Where("id = ?", id).First(&location).Error; err != nil {
		return nil, err
	}
	return &location, nil
}

// FindByRegistrationAndID never returns a location owned by another registration.
func (r *locationRepository) FindByRegistrationAndID(registrationID, locationID uuid.UUID) (*model.BusinessLocation, error) {
	var location model.BusinessLocation
	if err := r.db.
		Where("id = ? AND registration_id = ?", locationID, registrationID).
		First(&location).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find location", err, map[string]interface{}{
				"registration_id": registrationID,
				"location_id":     locationID,
			})
		}
		return nil, err
	}
	return &location, nil
}

// FindByRegistrationID lists the primary location first, then by age.
func (r *locationRepository) FindByRegistrationID(registrationID uuid.UUID) ([]model.BusinessLocation, error) {
	var locations []model.BusinessLocation
	if err := r.db.
		Where("registration_id = ?", registrationID).
		Order("is_primary DESC").
		Order("created_at ASC").
		Find(&locations).Error; err != nil {
		logger.Error("Failed to list locations", err, map[string]interface{}{
			"registration_id": registrationID,
		})
		return nil, err
	}
	return locations, nil
}

func (r *locationRepository) Update(location *model.BusinessLocation) error {
	if err := r.db.Save(location).Error; err != nil {
		logger.Error("Failed to update location in database", err, map[string]interface{}{
			"location_id": location.ID,
		})
		return err
	}
	return nil
}

func (r *locationRepository) Delete(location *model.BusinessLocation) error {
	logger.Debug("Deleting location from database", map[string]interface{}{
		"location_id": location.ID,
	})

	if err := r.db.
		Where("location_id = ?", location.ID).
		Delete(&model.BusinessPromotionLocation{}).Error; err != nil {
		logger.Error("Failed to unlink promotions from location", err, map[string]interface{}{
			"location_id": location.ID,
		})
		return err
	}

	if err := r.db.Delete(location).Error; err != nil {
		logger.Error("Failed to delete location from database", err, map[string]interface{}{
			"location_id": location.ID,
		})
		return err
	}
	return nil
}

// ClearPrimary must run before SetPrimary so the partial unique index
// never sees two primaries.
func (r *locationRepository) ClearPrimary(registrationID uuid.UUID, except *uuid.UUID) error {
	query := r.db.Model(&model.BusinessLocation{}).
		Where("registration_id = ? AND is_primary = ?", registrationID, true)
	if except != nil {
		query = query.Where("id <> ?", *except)
	}
	if err := query.Update("is_primary", false).Error; err != nil {
		logger.Error("Failed to clear primary location", err, map[string]interface{}{
			"registration_id": registrationID,
		})
		return err
	}
	return nil
}

func (r *locationRepository) SetPrimary(locationID uuid.UUID) error {
	if err := r.db.Model(&model.BusinessLocation{}).
		Where("id = ?", locationID).
		Update("is_primary", true).Error; err != nil {
		logger.Error("Failed to set primary location", err, map[string]interface{}{
			"location_id": locationID,
		})
		return err
	}
	return nil
}

func (r *locationRepository) CountByRegistrationID(registrationID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.BusinessLocation{}).
		Where("registration_id = ?", registrationID).
		Count(&count).Error
	return count, err
}

func (r *locationRepository) FindOldest(registrationID uuid.UUID) (*model.BusinessLocation, error) {
	var location model.BusinessLocation
	if err := r.db.
		Where("registration_id = ?", registrationID).
		Order("created_at ASC").
		First(&location).Error; err != nil {
		return nil, err
	}
	return &location, nil
}

// CountOwned counts how many of locationIDs belong to the registration.
func (r *locationRepository) CountOwned(registrationID uuid.UUID, locationIDs []uuid.UUID) (int64, error) {
	if len(locationIDs) == 0 {
		return 0, nil
	}

	var count int64
	err := r.db.Model(&model.BusinessLocation{}).
		Where("registration_id = ? AND id IN ?", registrationID, locationIDs).
		Count(&count).Error
	return count, err
}

// AssignBusiness stamps the approved business onto all locations of a registration.
func (r *locationRepository) AssignBusiness(registrationID, businessID uuid.UUID) error {
	return r.db.Model(&model.BusinessLocation{}).
		Where("registration_id = ?", registrationID).
		Update("business_id", businessID).Error
}
