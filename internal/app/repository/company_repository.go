package repository

import (
	"github.com/google/uuid"
	"github.com/ikkim/bizreview-backend/internal/app/model"
	"github.com/ikkim/bizreview-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CompanyRepository interface {
	WithTx(tx *gorm.DB) CompanyRepository
	Create(company *model.BusinessCompany) error
	FindByID(id uuid.UUID) (*model.BusinessCompany, error)
	FindByIDForUpdate(id uuid.UUID) (*model.BusinessCompany, error)
	FindActiveByOwner(ownerUserID uuid.UUID) ([]model.BusinessCompany, error)
	Update(company *model.BusinessCompany) error
	Delete(company *model.BusinessCompany) error
}

type companyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) WithTx(tx *gorm.DB) CompanyRepository {
	return &companyRepository{db: tx}
}

func (r *companyRepository) Create(company *model.BusinessCompany) error {
	logger.Debug("Creating company in database", map[string]interface{}{
		"owner_user_id": company.OwnerUserID,
		"company_name":  company.CompanyName,
	})

	if err := r.db.Create(company).Error; err != nil {
		logger.Error("Failed to create company in database", err, map[string]interface{}{
			"owner_user_id": company.OwnerUserID,
		})
		return err
	}
	return nil
}

func (r *companyRepository) FindByID(id uuid.UUID) (*model.BusinessCompany, error) {
	var company model.BusinessCompany
	if err := r.db.Where("id = ?", id).First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) FindByIDForUpdate(id uuid.UUID) (*model.BusinessCompany, error) {
	var company model.BusinessCompany
	if err := r.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) FindActiveByOwner(ownerUserID uuid.UUID) ([]model.BusinessCompany, error) {
	var companies []model.BusinessCompany
	if err := r.db.
		Where("owner_user_id = ? AND is_active = ?", ownerUserID, true).
		Order("created_at DESC").
		Find(&companies).Error; err != nil {
		logger.Error("Failed to list companies for owner", err, map[string]interface{}{
			"owner_user_id": ownerUserID,
		})
		return nil, err
	}
	return companies, nil
}

func (r *companyRepository) Update(company *model.BusinessCompany) error {
	if err := r.db.Save(company).Error; err != nil {
		logger.Error("Failed to update company in database", err, map[string]interface{}{
			"company_id": company.ID,
		})
		return err
	}
	return nil
}

// Delete removes the company together with its units.
func (r *companyRepository) Delete(company *model.BusinessCompany) error {
	if err := r.db.Where("company_id = ?", company.ID).Delete(&model.BusinessUnit{}).Error; err != nil {
		logger.Error("Failed to delete company units", err, map[string]interface{}{
			"company_id": company.ID,
		})
		return err
	}
	if err := r.db.Delete(company).Error; err != nil {
		logger.Error("Failed to delete company from database", err, map[string]interface{}{
			"company_id": company.ID,
		})
		return err
	}
	return nil
}
