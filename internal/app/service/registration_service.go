package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/ikkim/bizreview-backend/internal/app/model"
	"github.com/ikkim/bizreview-backend/internal/app/repository"
	apperrors "github.com/ikkim/bizreview-backend/internal/errors"
	"github.com/ikkim/bizreview-backend/internal/validation"
	"github.com/ikkim/bizreview-backend/pkg/logger"
	"github.com/ikkim/bizreview-backend/pkg/metrics"
	"gorm.io/gorm"
)

// SubmitRegistrationInput is the payload of a new registration request.
type SubmitRegistrationInput struct {
	UserID          uuid.UUID       `json:"-"`
	Name            string          `json:"name" binding:"required,notblank,min=3,max=120"`
	Category        string          `json:"category" binding:"required,notblank,min=3,max=120"`
	Address         string          `json:"address" binding:"required,notblank,min=5"`
	Description     *string         `json:"description" binding:"omitempty,min=10,max=2000"`
	Phone           *string         `json:"phone" binding:"omitempty,notblank,max=40"`
	Website         *string         `json:"website" binding:"omitempty,url,max=255"`
	TaxID           *string         `json:"tax_id" binding:"omitempty,min=4,max=64"`
	DocumentURLs    []string        `json:"document_urls" binding:"required,min=1,dive,required,url"`
	IsMultiUserTeam bool            `json:"is_multi_user_team"`
	OwnerEmail      string          `json:"owner_email" binding:"required,email,max=255"`
	OwnerUsername   string          `json:"owner_username" binding:"required,notblank,min=3,max=60"`
	Locations       []LocationInput `json:"locations" binding:"required,min=1,dive"`
}

type RegistrationService interface {
	Submit(input SubmitRegistrationInput) (*model.BusinessRegistration, error)
	GetByID(id uuid.UUID) (*model.BusinessRegistration, error)
	GetLatestForUser(userID uuid.UUID) (*model.BusinessRegistration, error)
	ListForUser(userID uuid.UUID) ([]model.BusinessRegistrationSummary, error)
}

type registrationService struct {
	registrationRepo repository.RegistrationRepository
	locationRepo     repository.LocationRepository
	metrics          *metrics.ReviewMetrics
	db               *gorm.DB
}

func NewRegistrationService(
	registrationRepo repository.RegistrationRepository,
	locationRepo repository.LocationRepository,
	db *gorm.DB,
	reviewMetrics *metrics.ReviewMetrics,
) RegistrationService {
	return &registrationService{
		registrationRepo: registrationRepo,
		locationRepo:     locationRepo,
		metrics:          reviewMetrics,
		db:               db,
	}
}

func (s *registrationService) Submit(input SubmitRegistrationInput) (registration *model.BusinessRegistration, err error) {
	defer func() {
		s.metrics.IncSubmission(metrics.Result(err))
	}()

	logger.Info("Submitting business registration", map[string]interface{}{
		"user_id":   input.UserID,
		"name":      input.Name,
		"locations": len(input.Locations),
	})

	if input.UserID == uuid.Nil {
		return nil, apperrors.NewValidation(apperrors.ValidationRequired, "user_id is required").WithField("user_id", "is required")
	}
	if len(input.Locations) == 0 {
		return nil, ErrLocationRequired
	}
	if err := validation.Struct(&input); err != nil {
		logger.Warn("Registration rejected by validation", map[string]interface{}{
			"user_id": input.UserID,
		})
		return nil, err
	}

	registration = &model.BusinessRegistration{
		UserID:          input.UserID,
		Name:            strings.TrimSpace(input.Name),
		Category:        strings.TrimSpace(input.Category),
		Address:         strings.TrimSpace(input.Address),
		Description:     input.Description,
		Phone:           input.Phone,
		Website:         input.Website,
		TaxID:           input.TaxID,
		DocumentURLs:    model.StringArray(input.DocumentURLs),
		IsMultiUserTeam: input.IsMultiUserTeam,
		Status:          model.RegistrationStatusPending,
		OwnerEmail:      strings.TrimSpace(input.OwnerEmail),
		OwnerUsername:   strings.TrimSpace(input.OwnerUsername),
	}

	primary := primaryLocationIndex(input.Locations)

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during registration submission, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"user_id": input.UserID,
			})
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	if err := s.registrationRepo.WithTx(tx).Create(registration); err != nil {
		tx.Rollback()
		return nil, persistence(err)
	}

	locations := make([]model.BusinessLocation, 0, len(input.Locations))
	for i, locInput := range input.Locations {
		location := locInput.toModel(registration.ID)
		location.IsPrimary = i == primary
		if err := s.locationRepo.WithTx(tx).Create(&location); err != nil {
			tx.Rollback()
			return nil, persistence(err)
		}
		locations = append(locations, location)
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit registration submission", err, map[string]interface{}{
			"user_id": input.UserID,
		})
		return nil, persistence(err)
	}

	registration.Locations = sortLocations(locations)

	logger.Info("Business registration submitted", map[string]interface{}{
		"registration_id": registration.ID,
		"user_id":         registration.UserID,
	})
	return registration, nil
}

func (s *registrationService) GetByID(id uuid.UUID) (*model.BusinessRegistration, error) {
	registration, err := s.registrationRepo.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, ErrRegistrationNotFound)
	}

	locations, err := s.locationRepo.FindByRegistrationID(id)
	if err != nil {
		return nil, persistence(err)
	}
	registration.Locations = locations
	return registration, nil
}

func (s *registrationService) GetLatestForUser(userID uuid.UUID) (*model.BusinessRegistration, error) {
	registration, err := s.registrationRepo.FindLatestByUserID(userID)
	if err != nil {
		return nil, notFoundOr(err, ErrRegistrationNotFound)
	}

	locations, err := s.locationRepo.FindByRegistrationID(registration.ID)
	if err != nil {
		return nil, persistence(err)
	}
	registration.Locations = locations
	return registration, nil
}

func (s *registrationService) ListForUser(userID uuid.UUID) ([]model.BusinessRegistrationSummary, error) {
	registrations, err := s.registrationRepo.FindByUserID(userID)
	if err != nil {
		return nil, persistence(err)
	}

	summaries := make([]model.BusinessRegistrationSummary, len(registrations))
	for i, reg := range registrations {
		locations := reg.Locations
		if locations == nil {
			locations = []model.BusinessLocation{}
		}
		summaries[i] = model.BusinessRegistrationSummary{
			ID:          reg.ID,
			Name:        reg.Name,
			Category:    reg.Category,
			Status:      reg.Status,
			BusinessID:  reg.BusinessID,
			SubmittedAt: reg.SubmittedAt,
			UpdatedAt:   reg.UpdatedAt,
			Locations:   locations,
		}
	}
	return summaries, nil
}

// primaryLocationIndex picks the first location flagged primary, or the first
// location when none is flagged.
func primaryLocationIndex(locations []LocationInput) int {
	for i, loc := range locations {
		if loc.IsPrimary != nil && *loc.IsPrimary {
			return i
		}
	}
	return 0
}

// sortLocations orders primary first, keeping insertion order otherwise.
func sortLocations(locations []model.BusinessLocation) []model.BusinessLocation {
	sorted := make([]model.BusinessLocation, 0, len(locations))
	for _, loc := range locations {
		if loc.IsPrimary {
			sorted = append(sorted, loc)
		}
	}
	for _, loc := range locations {
		if !loc.IsPrimary {
			sorted = append(sorted, loc)
		}
	}
	return sorted
}
