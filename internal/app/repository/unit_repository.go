package repository

import (
	"github.com/google/uuid"
	"github.com/ikkim/bizreview-backend/internal/app/model"
	"github.com/ikkim/bizreview-backend/pkg/logger"
	"gorm.io/gorm"
)

type UnitRepository interface {
	WithTx(tx *gorm.DB) UnitRepository
	Create(unit *model.BusinessUnit) error
	FindByID(id uuid.UUID) (*model.BusinessUnit, error)
	FindByCompanyAndID(companyID, unitID uuid.UUID) (*model.BusinessUnit, error)
	FindByCompanyID(companyID uuid.UUID) ([]model.BusinessUnit, error)
	Update(unit *model.BusinessUnit) error
	Delete(unit *model.BusinessUnit) error
	ClearPrimary(companyID uuid.UUID, except *uuid.UUID) error
	SetPrimary(unitID uuid.UUID) error
	CountByCompanyID(companyID uuid.UUID) (int64, error)
	FindOldest(companyID uuid.UUID) (*model.BusinessUnit, error)
	AssignBusiness(registrationID, businessID uuid.UUID) error
}

type unitRepository struct {
	db *gorm.DB
}

func NewUnitRepository(db *gorm.DB) UnitRepository {
	return &unitRepository{db: db}
}

func (r *unitRepository) WithTx(tx *gorm.DB) UnitRepository {
	return &unitRepository{db: tx}
}

func (r *unitRepository) Create(unit *model.BusinessUnit) error {
	logger.Debug("Creating unit in database", map[string]interface{}{
		"company_id": unit.CompanyID,
		"unit_name":  unit.UnitName,
		"is_primary": unit.IsPrimary,
	})

	if err := r.db.Create(unit).Error; err != nil {
		logger.Error("Failed to create unit in database", err, map[string]interface{}{
			"company_id": unit.CompanyID,
		})
		return err
	}
	return nil
}

func (r *unitRepository) FindByID(id uuid.UUID) (*model.BusinessUnit, error) {
	var unit model.BusinessUnit
	if err := r.db.Where("id = ?", id).First(&unit).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *unitRepository) FindByCompanyAndID(companyID, unitID uuid.UUID) (*model.BusinessUnit, error) {
	var unit model.BusinessUnit
	if err := r.db.
		Where("id = ? AND company_id = ?", unitID, companyID).
		First(&unit).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *unitRepository) FindByCompanyID(companyID uuid.UUID) ([]model.BusinessUnit, error) {
	var units []model.BusinessUnit
	if err := r.db.
		Where("company_id = ?", companyID).
		Order("is_primary DESC").
		Order("created_at ASC").
		Find(&units).Error; err != nil {
		logger.Error("Failed to list units", err, map[string]interface{}{
			"company_id": companyID,
		})
		return nil, err
	}
	return units, nil
}

func (r *unitRepository) Update(unit *model.BusinessUnit) error {
	if err := r.db.Save(unit).Error; err != nil {
		logger.Error("Failed to update unit in database", err, map[string]interface{}{
			"unit_id": unit.ID,
		})
		return err
	}
	return nil
}

func (r *unitRepository) Delete(unit *model.BusinessUnit) error {
	if err := r.db.Delete(unit).Error; err != nil {
		logger.Error("Failed to delete unit from database", err, map[string]interface{}{
			"unit_id": unit.ID,
		})
		return err
	}
	return nil
}

func (r *unitRepository) ClearPrimary(companyID uuid.UUID, except *uuid.UUID) error {
	query := r.db.Model(&model.BusinessUnit{}).
		Where("company_id = ? AND is_primary = ?", companyID, true)
	if except != nil {
		query = query.Where("id <> ?", *except)
	}
	return query.Update("is_primary", false).Error
}

func (r *unitRepository) SetPrimary(unitID uuid.UUID) error {
	return r.db.Model(&model.BusinessUnit{}).
		Where("id = ?", unitID).
		Update("is_primary", true).Error
}

func (r *unitRepository) CountByCompanyID(companyID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.BusinessUnit{}).
		Where("company_id = ?", companyID).
		Count(&count).Error
	return count, err
}

func (r *unitRepository) FindOldest(companyID uuid.UUID) (*model.BusinessUnit, error) {
	var unit model.BusinessUnit
	if err := r.db.
		Where("company_id = ?", companyID).
		Order("created_at ASC").
		First(&unit).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

// AssignBusiness links every unit bound to the registration to its approved business.
func (r *unitRepository) AssignBusiness(registrationID, businessID uuid.UUID) error {
	return r.db.Model(&model.BusinessUnit{}).
		Where("registration_id = ?", registrationID).
		Update("business_id", businessID).Error
}
