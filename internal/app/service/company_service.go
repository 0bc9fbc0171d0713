package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/ikkim/bizreview-backend/internal/app/model"
	"github.com/ikkim/bizreview-backend/internal/app/repository"
	"github.com/ikkim/bizreview-backend/internal/validation"
	"github.com/ikkim/bizreview-backend/pkg/logger"
	"gorm.io/gorm"
)

type CompanyInput struct {
	OwnerUserID     uuid.UUID              `json:"-"`
	CompanyName     string                 `json:"company_name" binding:"required,notblank,min=2,max=160"`
	TaxID           *string                `json:"tax_id" binding:"omitempty,min=4,max=64"`
	LegalEntityType *string                `json:"legal_entity_type" binding:"omitempty,max=64"`
	IsActive        *bool                  `json:"is_active"`
	Metadata        map[string]interface{} `json:"metadata"`
}

type UnitInput struct {
	RegistrationID *uuid.UUID             `json:"registration_id"`
	UnitName       string                 `json:"unit_name" binding:"required,notblank,min=2,max=160"`
	Category       *string                `json:"category" binding:"omitempty,max=120"`
	IsPrimary      *bool                  `json:"is_primary"`
	IsActive       *bool                  `json:"is_active"`
	Metadata       map[string]interface{} `json:"metadata"`
}

type CompanyService interface {
	CreateCompany(input CompanyInput) (*model.BusinessCompany, error)
	GetCompany(companyID uuid.UUID) (*model.CompanyWithUnits, error)
	ListCompaniesForOwner(ownerUserID uuid.UUID) ([]model.BusinessCompany, error)
	UpdateCompany(companyID uuid.UUID, input CompanyInput) (*model.BusinessCompany, error)
	DeleteCompany(companyID uuid.UUID) error

	CreateUnit(companyID uuid.UUID, input UnitInput) (*model.BusinessUnit, error)
	ListUnits(companyID uuid.UUID) ([]model.BusinessUnit, error)
	GetUnit(unitID uuid.UUID) (*model.BusinessUnit, error)
	GetUnitDetail(unitID uuid.UUID) (*model.BusinessUnitDetail, error)
	UpdateUnit(unitID uuid.UUID, input UnitInput) (*model.BusinessUnit, error)
	SetPrimaryUnit(companyID, unitID uuid.UUID) (*model.BusinessUnit, error)
	DeleteUnit(unitID uuid.UUID) error
}

type companyService struct {
	companyRepo      repository.CompanyRepository
	unitRepo         repository.UnitRepository
	registrationRepo repository.RegistrationRepository
	locationRepo     repository.LocationRepository
	promotionRepo    repository.PromotionRepository
	db               *gorm.DB
}

func NewCompanyService(
	companyRepo repository.CompanyRepository,
	unitRepo repository.UnitRepository,
	registrationRepo repository.RegistrationRepository,
	locationRepo repository.LocationRepository,
	promotionRepo repository.PromotionRepository,
	db *gorm.DB,
) CompanyService {
	return &companyService{
		companyRepo:      companyRepo,
		unitRepo:         unitRepo,
		registrationRepo: registrationRepo,
		locationRepo:     locationRepo,
		promotionRepo:    promotionRepo,
		db:               db,
	}
}

func (s *companyService) CreateCompany(input CompanyInput) (*model.BusinessCompany, error) {
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}

	company := &model.BusinessCompany{
		OwnerUserID:     input.OwnerUserID,
		CompanyName:     strings.TrimSpace(input.CompanyName),
		TaxID:           input.TaxID,
		LegalEntityType: input.LegalEntityType,
		IsActive:        input.IsActive == nil || *input.IsActive,
		Metadata:        metadataOrEmpty(input.Metadata),
	}
	if err := s.companyRepo.Create(company); err != nil {
		return nil, persistence(err)
	}

	logger.Info("Company created", map[string]interface{}{
		"company_id":    company.ID,
		"owner_user_id": company.OwnerUserID,
	})
	return company, nil
}

func (s *companyService) GetCompany(companyID uuid.UUID) (*model.CompanyWithUnits, error) {
	company, err := s.companyRepo.FindByID(companyID)
	if err != nil {
		return nil, notFoundOr(err, ErrCompanyNotFound)
	}
	units, err := s.unitRepo.FindByCompanyID(companyID)
	if err != nil {
		return nil, persistence(err)
	}
	return &model.CompanyWithUnits{Company: *company, Units: units}, nil
}

func (s *companyService) ListCompaniesForOwner(ownerUserID uuid.UUID) ([]model.BusinessCompany, error) {
	companies, err := s.companyRepo.FindActiveByOwner(ownerUserID)
	if err != nil {
		return nil, persistence(err)
	}
	return companies, nil
}

func (s *companyService) UpdateCompany(companyID uuid.UUID, input CompanyInput) (*model.BusinessCompany, error) {
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}

	company, err := s.companyRepo.FindByID(companyID)
	if err != nil {
		return nil, notFoundOr(err, ErrCompanyNotFound)
	}

	company.CompanyName = strings.TrimSpace(input.CompanyName)
	company.TaxID = input.TaxID
	company.LegalEntityType = input.LegalEntityType
	if input.IsActive != nil {
		company.IsActive = *input.IsActive
	}
	if input.Metadata != nil {
		company.Metadata = model.JSONMap(input.Metadata)
	}

	if err := s.companyRepo.Update(company); err != nil {
		return nil, persistence(err)
	}
	return company, nil
}

func (s *companyService) DeleteCompany(companyID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		companies := s.companyRepo.WithTx(tx)
		company, err := companies.FindByIDForUpdate(companyID)
		if err != nil {
			return notFoundOr(err, ErrCompanyNotFound)
		}
		return persistence(companies.Delete(company))
	})
}

// CreateUnit adds a unit under the company lock. The first unit becomes primary.
func (s *companyService) CreateUnit(companyID uuid.UUID, input UnitInput) (*model.BusinessUnit, error) {
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}

	unit := &model.BusinessUnit{
		CompanyID: companyID,
		UnitName:  strings.TrimSpace(input.UnitName),
		Category:  input.Category,
		IsActive:  input.IsActive == nil || *input.IsActive,
		Metadata:  metadataOrEmpty(input.Metadata),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.companyRepo.WithTx(tx).FindByIDForUpdate(companyID); err != nil {
			return notFoundOr(err, ErrCompanyNotFound)
		}
		if err := s.bindRegistration(tx, unit, input.RegistrationID); err != nil {
			return err
		}

		units := s.unitRepo.WithTx(tx)
		count, err := units.CountByCompanyID(companyID)
		if err != nil {
			return persistence(err)
		}
		unit.IsPrimary = count == 0 || (input.IsPrimary != nil && *input.IsPrimary)
		if unit.IsPrimary {
			if err := units.ClearPrimary(companyID, nil); err != nil {
				return persistence(err)
			}
		}
		return persistence(units.Create(unit))
	})
	if err != nil {
		return nil, err
	}
	return unit, nil
}

func (s *companyService) ListUnits(companyID uuid.UUID) ([]model.BusinessUnit, error) {
	if _, err := s.companyRepo.FindByID(companyID); err != nil {
		return nil, notFoundOr(err, ErrCompanyNotFound)
	}
	units, err := s.unitRepo.FindByCompanyID(companyID)
	if err != nil {
		return nil, persistence(err)
	}
	return units, nil
}

func (s *companyService) GetUnit(unitID uuid.UUID) (*model.BusinessUnit, error) {
	unit, err := s.unitRepo.FindByID(unitID)
	if err != nil {
		return nil, notFoundOr(err, ErrUnitNotFound)
	}
	return unit, nil
}

// GetUnitDetail resolves the unit's registration with its locations and promotions.
func (s *companyService) GetUnitDetail(unitID uuid.UUID) (*model.BusinessUnitDetail, error) {
	unit, err := s.unitRepo.FindByID(unitID)
	if err != nil {
		return nil, notFoundOr(err, ErrUnitNotFound)
	}

	detail := &model.BusinessUnitDetail{
		Unit:       *unit,
		Locations:  []model.BusinessLocation{},
		Promotions: []model.BusinessPromotion{},
	}
	if unit.RegistrationID == nil {
		return detail, nil
	}

	registration, err := s.registrationRepo.FindByID(*unit.RegistrationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return detail, nil
		}
		return nil, persistence(err)
	}
	detail.Registration = registration

	if detail.Locations, err = s.locationRepo.FindByRegistrationID(registration.ID); err != nil {
		return nil, persistence(err)
	}
	if detail.Promotions, err = s.promotionRepo.FindByRegistrationID(registration.ID); err != nil {
		return nil, persistence(err)
	}
	return detail, nil
}

func (s *companyService) UpdateUnit(unitID uuid.UUID, input UnitInput) (*model.BusinessUnit, error) {
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}

	existing, err := s.unitRepo.FindByID(unitID)
	if err != nil {
		return nil, notFoundOr(err, ErrUnitNotFound)
	}

	var unit *model.BusinessUnit
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.companyRepo.WithTx(tx).FindByIDForUpdate(existing.CompanyID); err != nil {
			return notFoundOr(err, ErrCompanyNotFound)
		}

		units := s.unitRepo.WithTx(tx)
		found, err := units.FindByCompanyAndID(existing.CompanyID, unitID)
		if err != nil {
			return notFoundOr(err, ErrUnitNotFound)
		}
		if err := s.bindRegistration(tx, found, input.RegistrationID); err != nil {
			return err
		}

		found.UnitName = strings.TrimSpace(input.UnitName)
		found.Category = input.Category
		if input.IsActive != nil {
			found.IsActive = *input.IsActive
		}
		if input.Metadata != nil {
			found.Metadata = model.JSONMap(input.Metadata)
		}
		if input.IsPrimary != nil && *input.IsPrimary && !found.IsPrimary {
			if err := units.ClearPrimary(found.CompanyID, &found.ID); err != nil {
				return persistence(err)
			}
			found.IsPrimary = true
		}

		unit = found
		return persistence(units.Update(found))
	})
	if err != nil {
		return nil, err
	}
	return unit, nil
}

// SetPrimaryUnit moves the primary flag to unitID under the company row lock.
func (s *companyService) SetPrimaryUnit(companyID, unitID uuid.UUID) (*model.BusinessUnit, error) {
	var unit *model.BusinessUnit
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.companyRepo.WithTx(tx).FindByIDForUpdate(companyID); err != nil {
			return notFoundOr(err, ErrCompanyNotFound)
		}

		units := s.unitRepo.WithTx(tx)
		found, err := units.FindByCompanyAndID(companyID, unitID)
		if err != nil {
			return notFoundOr(err, ErrUnitNotFound)
		}
		if err := units.ClearPrimary(companyID, &found.ID); err != nil {
			return persistence(err)
		}
		if err := units.SetPrimary(found.ID); err != nil {
			return persistence(err)
		}
		found.IsPrimary = true
		unit = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return unit, nil
}

// DeleteUnit removes the unit. When it was primary the oldest remaining unit
// takes over.
func (s *companyService) DeleteUnit(unitID uuid.UUID) error {
	existing, err := s.unitRepo.FindByID(unitID)
	if err != nil {
		return notFoundOr(err, ErrUnitNotFound)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.companyRepo.WithTx(tx).FindByIDForUpdate(existing.CompanyID); err != nil {
			return notFoundOr(err, ErrCompanyNotFound)
		}

		units := s.unitRepo.WithTx(tx)
		unit, err := units.FindByCompanyAndID(existing.CompanyID, unitID)
		if err != nil {
			return notFoundOr(err, ErrUnitNotFound)
		}
		if err := units.Delete(unit); err != nil {
			return persistence(err)
		}
		if !unit.IsPrimary {
			return nil
		}

		next, err := units.FindOldest(unit.CompanyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return persistence(err)
		}
		return persistence(units.SetPrimary(next.ID))
	})
}

// bindRegistration points the unit at registrationID, which must exist.
func (s *companyService) bindRegistration(tx *gorm.DB, unit *model.BusinessUnit, registrationID *uuid.UUID) error {
	if registrationID == nil {
		unit.RegistrationID = nil
		unit.BusinessID = nil
		return nil
	}

	registration, err := s.registrationRepo.WithTx(tx).FindByID(*registrationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRegistrationNotFound.WithField("registration_id", "does not exist")
		}
		return persistence(err)
	}
	unit.RegistrationID = &registration.ID
	unit.BusinessID = registration.BusinessID
	return nil
}

func metadataOrEmpty(metadata map[string]interface{}) model.JSONMap {
	if metadata == nil {
		return model.JSONMap{}
	}
	return model.JSONMap(metadata)
}
