package repository

import (
	"github.com/google/uuid"
	"github.com/ikkim/bizreview-backend/internal/app/model"
	"github.com/ikkim/bizreview-backend/pkg/logger"
	"gorm.io/gorm"
)

type BusinessRepository interface {
	WithTx(tx *gorm.DB) BusinessRepository
	Create(business *model.Business) error
	FindByID(id uuid.UUID) (*model.Business, error)
	FindByOwnerUserID(ownerUserID uuid.UUID) ([]model.Business, error)
}

type businessRepository struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepository{db: db}
}

func (r *businessRepository) WithTx(tx *gorm.DB) BusinessRepository {
	return &businessRepository{db: tx}
}

func (r *businessRepository) Create(business *model.Business) error {
	logger.Debug("Creating business in database", map[string]interface{}{
		"registration_id": business.RegistrationID,
	})

	if err := r.db.Create(business).Error; err != nil {
		logger.Error("Failed to create business in database", err, map[string]interface{}{
			"registration_id": business.RegistrationID,
		})
		return err
	}
	return nil
}

func (r *businessRepository) FindByID(id uuid.UUID) (*model.Business, error) {
	var business model.Business
	if err := r.db.Where("id = ?", id).First(&business).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *businessRepository) FindByOwnerUserID(ownerUserID uuid.UUID) ([]model.Business, error) {
	var businesses []model.Business
	if err := r.db.
		Where("owner_user_id = ?", ownerUserID).
		Order("created_at DESC").
		Find(&businesses).Error; err != nil {
		logger.Error("Failed to list businesses for owner", err, map[string]interface{}{
			"owner_user_id": ownerUserID,
		})
		return nil, err
	}
	return businesses, nil
}
