package repository

import (
	"github.com/google/uuid"
	"github.com/ikkim/bizreview-backend/internal/app/model"
	"github.com/ikkim/bizreview-backend/pkg/logger"
	"gorm.io/gorm"
)

type LocationAdminRepository interface {
	WithTx(tx *gorm.DB) LocationAdminRepository
	Create(admin *model.LocationAdmin) error
	FindActive(locationID, userID uuid.UUID) (*model.LocationAdmin, error)
	FindActiveByLocation(locationID uuid.UUID) ([]model.LocationAdmin, error)
	UpdateRole(id uuid.UUID, role model.LocationAdminRole, grantedBy *uuid.UUID, grantedByUsername *string) error
	Deactivate(locationID, userID uuid.UUID) (int64, error)
}

type locationAdminRepository struct {
	db *gorm.DB
}

func NewLocationAdminRepository(db *gorm.DB) LocationAdminRepository {
	return &locationAdminRepository{db: db}
}

func (r *locationAdminRepository) WithTx(tx *gorm.DB) LocationAdminRepository {
	return &locationAdminRepository{db: tx}
}

func (r *locationAdminRepository) Create(admin *model.LocationAdmin) error {
	logger.Debug("Granting location admin", map[string]interface{}{
		"location_id": admin.LocationID,
		"user_id":     admin.UserID,
		"role":        admin.Role,
	})

	if err := r.db.Create(admin).Error; err != nil {
		logger.Error("Failed to grant location admin", err, map[string]interface{}{
			"location_id": admin.LocationID,
			"user_id":     admin.UserID,
		})
		return err
	}
	return nil
}

func (r *locationAdminRepository) FindActive(locationID, userID uuid.UUID) (*model.LocationAdmin, error) {
	var admin model.LocationAdmin
	if err := r.db.
		Where("location_id = ? AND user_id = ? AND is_active = ?", locationID, userID, true).
		First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *locationAdminRepository) FindActiveByLocation(locationID uuid.UUID) ([]model.LocationAdmin, error) {
	var admins []model.LocationAdmin
	if err := r.db.
		Where("location_id = ? AND is_active = ?", locationID, true).
		Order("granted_at DESC").
		Find(&admins).Error; err != nil {
		logger.Error("Failed to list location admins", err, map[string]interface{}{
			"location_id": locationID,
		})
		return nil, err
	}
	return admins, nil
}

func (r *locationAdminRepository) UpdateRole(id uuid.UUID, role model.LocationAdminRole, grantedBy *uuid.UUID, grantedByUsername *string) error {
	return r.db.Model(&model.LocationAdmin{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"role":                role,
			"granted_by":          grantedBy,
			"granted_by_username": grantedByUsername,
		}).Error
}

// Deactivate revokes the active grant and reports how many rows changed.
func (r *locationAdminRepository) Deactivate(locationID, userID uuid.UUID) (int64, error) {
	result := r.db.Model(&model.LocationAdmin{}).
		Where("location_id = ? AND user_id = ? AND is_active = ?", locationID, userID, true).
		Update("is_active", false)
	if result.Error != nil {
		logger.Error("Failed to revoke location admin", result.Error, map[string]interface{}{
			"location_id": locationID,
			"user_id":     userID,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
