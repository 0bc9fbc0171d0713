package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/ikkim/bizreview-backend/internal/app/model"
	"github.com/ikkim/bizreview-backend/internal/app/repository"
	"github.com/ikkim/bizreview-backend/internal/validation"
	"github.com/ikkim/bizreview-backend/pkg/logger"
	"gorm.io/gorm"
)

type LocationAdminInput struct {
	UserID            uuid.UUID               `json:"user_id" binding:"required"`
	UserEmail         *string                 `json:"user_email" binding:"omitempty,email"`
	UserUsername      *string                 `json:"user_username" binding:"omitempty,max=60"`
	Role              model.LocationAdminRole `json:"role" binding:"required,oneof=owner manager staff"`
	GrantedBy         *uuid.UUID              `json:"-"`
	GrantedByUsername *string                 `json:"-"`
}

type LocationAdminService interface {
	AddAdmin(locationID uuid.UUID, input LocationAdminInput) (*model.LocationAdmin, error)
	ListAdmins(locationID uuid.UUID) ([]model.LocationAdmin, error)
	RemoveAdmin(locationID, userID uuid.UUID) error
}

type locationAdminService struct {
	locationRepo repository.LocationRepository
	adminRepo    repository.LocationAdminRepository
	db           *gorm.DB
}

func NewLocationAdminService(
	locationRepo repository.LocationRepository,
	adminRepo repository.LocationAdminRepository,
	db *gorm.DB,
) LocationAdminService {
	return &locationAdminService{
		locationRepo: locationRepo,
		adminRepo:    adminRepo,
		db:           db,
	}
}

// AddAdmin grants the role. An existing active grant for the same user is
// updated in place instead of duplicated.
func (s *locationAdminService) AddAdmin(locationID uuid.UUID, input LocationAdminInput) (*model.LocationAdmin, error) {
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}

	var admin *model.LocationAdmin
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.locationRepo.WithTx(tx).FindByID(locationID); err != nil {
			return notFoundOr(err, ErrLocationNotFound)
		}

		admins := s.adminRepo.WithTx(tx)
		existing, err := admins.FindActive(locationID, input.UserID)
		switch {
		case err == nil:
			if err := admins.UpdateRole(existing.ID, input.Role, input.GrantedBy, input.GrantedByUsername); err != nil {
				return persistence(err)
			}
			existing.Role = input.Role
			existing.GrantedBy = input.GrantedBy
			existing.GrantedByUsername = input.GrantedByUsername
			admin = existing
			return nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return persistence(err)
		}

		admin = &model.LocationAdmin{
			LocationID:        locationID,
			UserID:            input.UserID,
			UserEmail:         input.UserEmail,
			UserUsername:      input.UserUsername,
			Role:              input.Role,
			GrantedBy:         input.GrantedBy,
			GrantedByUsername: input.GrantedByUsername,
			IsActive:          true,
		}
		return persistence(admins.Create(admin))
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Location admin granted", map[string]interface{}{
		"location_id": locationID,
		"user_id":     input.UserID,
		"role":        input.Role,
	})
	return admin, nil
}

func (s *locationAdminService) ListAdmins(locationID uuid.UUID) ([]model.LocationAdmin, error) {
	if _, err := s.locationRepo.FindByID(locationID); err != nil {
		return nil, notFoundOr(err, ErrLocationNotFound)
	}

	admins, err := s.adminRepo.FindActiveByLocation(locationID)
	if err != nil {
		return nil, persistence(err)
	}
	return admins, nil
}

// RemoveAdmin revokes the grant. The row stays with is_active=false.
func (s *locationAdminService) RemoveAdmin(locationID, userID uuid.UUID) error {
	affected, err := s.adminRepo.Deactivate(locationID, userID)
	if err != nil {
		return persistence(err)
	}
	if affected == 0 {
		return ErrLocationAdminNotFound
	}

	logger.Info("Location admin revoked", map[string]interface{}{
		"location_id": locationID,
		"user_id":     userID,
	})
	return nil
}
