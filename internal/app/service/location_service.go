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

// LocationInput is the payload for creating or replacing a location.
type LocationInput struct {
	Label            string                 `json:"label" binding:"required,notblank,min=2,max=120"`
	FormattedAddress string                 `json:"formatted_address" binding:"required,notblank,min=5"`
	Street           *string                `json:"street" binding:"omitempty,max=255"`
	City             *string                `json:"city" binding:"omitempty,max=120"`
	StateRegion      *string                `json:"state_region" binding:"omitempty,max=120"`
	PostalCode       *string                `json:"postal_code" binding:"omitempty,max=20"`
	Country          *string                `json:"country" binding:"omitempty,max=120"`
	Latitude         *float64               `json:"latitude" binding:"omitempty,latitude"`
	Longitude        *float64               `json:"longitude" binding:"omitempty,longitude"`
	GooglePlaceID    *string                `json:"google_place_id" binding:"omitempty,max=255"`
	Timezone         *string                `json:"timezone" binding:"omitempty,max=64"`
	Phone            *string                `json:"phone" binding:"omitempty,max=40"`
	IsPrimary        *bool                  `json:"is_primary"`
	Notes            *string                `json:"notes" binding:"omitempty,max=2000"`
	Metadata         map[string]interface{} `json:"metadata"`
}

func (in LocationInput) toModel(registrationID uuid.UUID) model.BusinessLocation {
	location := model.BusinessLocation{RegistrationID: registrationID}
	in.apply(&location)
	return location
}

func (in LocationInput) apply(location *model.BusinessLocation) {
	location.Label = strings.TrimSpace(in.Label)
	location.FormattedAddress = strings.TrimSpace(in.FormattedAddress)
	location.Street = in.Street
	location.City = in.City
	location.StateRegion = in.StateRegion
	location.PostalCode = in.PostalCode
	location.Country = in.Country
	location.Latitude = in.Latitude
	location.Longitude = in.Longitude
	location.GooglePlaceID = in.GooglePlaceID
	location.Timezone = in.Timezone
	location.Phone = in.Phone
	location.Notes = in.Notes
	location.Metadata = model.JSONMap(in.Metadata)
	if location.Metadata == nil {
		location.Metadata = model.JSONMap{}
	}
}

type LocationService interface {
	Create(registrationID uuid.UUID, input LocationInput) (*model.BusinessLocation, error)
	List(registrationID uuid.UUID) ([]model.BusinessLocation, error)
	Get(registrationID, locationID uuid.UUID) (*model.BusinessLocation, error)
	Update(registrationID, locationID uuid.UUID, input LocationInput) (*model.BusinessLocation, error)
	SetPrimary(registrationID, locationID uuid.UUID) (*model.BusinessLocation, error)
	Delete(registrationID, locationID uuid.UUID) error
}

type locationService struct {
	registrationRepo repository.RegistrationRepository
	locationRepo     repository.LocationRepository
	db               *gorm.DB
}

func NewLocationService(
	registrationRepo repository.RegistrationRepository,
	locationRepo repository.LocationRepository,
	db *gorm.DB,
) LocationService {
	return &locationService{
		registrationRepo: registrationRepo,
		locationRepo:     locationRepo,
		db:               db,
	}
}

// Create adds a location. The first location of a registration is always
// primary; a primary request demotes the current primary.
func (s *locationService) Create(registrationID uuid.UUID, input LocationInput) (*model.BusinessLocation, error) {
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}

	location := input.toModel(registrationID)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		registration, err := s.registrationRepo.WithTx(tx).FindByIDForUpdate(registrationID)
		if err != nil {
			return notFoundOr(err, ErrRegistrationNotFound)
		}
		location.BusinessID = registration.BusinessID

		locations := s.locationRepo.WithTx(tx)
		count, err := locations.CountByRegistrationID(registrationID)
		if err != nil {
			return persistence(err)
		}

		location.IsPrimary = count == 0 || (input.IsPrimary != nil && *input.IsPrimary)
		if location.IsPrimary {
			if err := locations.ClearPrimary(registrationID, nil); err != nil {
				return persistence(err)
			}
		}

		if err := locations.Create(&location); err != nil {
			return persistence(err)
		}
		return persistence(s.registrationRepo.WithTx(tx).Touch(registrationID))
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Location created", map[string]interface{}{
		"registration_id": registrationID,
		"location_id":     location.ID,
		"is_primary":      location.IsPrimary,
	})
	return &location, nil
}

func (s *locationService) List(registrationID uuid.UUID) ([]model.BusinessLocation, error) {
	if _, err := s.registrationRepo.FindByID(registrationID); err != nil {
		return nil, notFoundOr(err, ErrRegistrationNotFound)
	}

	locations, err := s.locationRepo.FindByRegistrationID(registrationID)
	if err != nil {
		return nil, persistence(err)
	}
	return locations, nil
}

func (s *locationService) Get(registrationID, locationID uuid.UUID) (*model.BusinessLocation, error) {
	location, err := s.locationRepo.FindByRegistrationAndID(registrationID, locationID)
	if err != nil {
		return nil, notFoundOr(err, ErrLocationNotFound)
	}
	return location, nil
}

// Update replaces the descriptive fields. is_primary=true moves the primary
// flag here; is_primary=false never demotes the current primary.
func (s *locationService) Update(registrationID, locationID uuid.UUID, input LocationInput) (*model.BusinessLocation, error) {
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}

	var location *model.BusinessLocation
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.registrationRepo.WithTx(tx).FindByIDForUpdate(registrationID); err != nil {
			return notFoundOr(err, ErrRegistrationNotFound)
		}

		locations := s.locationRepo.WithTx(tx)
		found, err := locations.FindByRegistrationAndID(registrationID, locationID)
		if err != nil {
			return notFoundOr(err, ErrLocationNotFound)
		}

		input.apply(found)
		if input.IsPrimary != nil && *input.IsPrimary && !found.IsPrimary {
			if err := locations.ClearPrimary(registrationID, &found.ID); err != nil {
				return persistence(err)
			}
			found.IsPrimary = true
		}

		if err := locations.Update(found); err != nil {
			return persistence(err)
		}
		location = found
		return persistence(s.registrationRepo.WithTx(tx).Touch(registrationID))
	})
	if err != nil {
		return nil, err
	}
	return location, nil
}

// SetPrimary clears the flag on every sibling and sets it on the target under
// the registration row lock.
func (s *locationService) SetPrimary(registrationID, locationID uuid.UUID) (*model.BusinessLocation, error) {
	var location *model.BusinessLocation
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.registrationRepo.WithTx(tx).FindByIDForUpdate(registrationID); err != nil {
			return notFoundOr(err, ErrRegistrationNotFound)
		}

		locations := s.locationRepo.WithTx(tx)
		found, err := locations.FindByRegistrationAndID(registrationID, locationID)
		if err != nil {
			return notFoundOr(err, ErrLocationNotFound)
		}

		if err := locations.ClearPrimary(registrationID, &found.ID); err != nil {
			return persistence(err)
		}
		if err := locations.SetPrimary(found.ID); err != nil {
			return persistence(err)
		}
		found.IsPrimary = true
		location = found
		return persistence(s.registrationRepo.WithTx(tx).Touch(registrationID))
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Primary location changed", map[string]interface{}{
		"registration_id": registrationID,
		"location_id":     locationID,
	})
	return location, nil
}

// Delete refuses to remove the last location. Removing the primary promotes
// the oldest remaining location.
func (s *locationService) Delete(registrationID, locationID uuid.UUID) error {
	var promoted *uuid.UUID
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.registrationRepo.WithTx(tx).FindByIDForUpdate(registrationID); err != nil {
			return notFoundOr(err, ErrRegistrationNotFound)
		}

		locations := s.locationRepo.WithTx(tx)
		location, err := locations.FindByRegistrationAndID(registrationID, locationID)
		if err != nil {
			return notFoundOr(err, ErrLocationNotFound)
		}

		count, err := locations.CountByRegistrationID(registrationID)
		if err != nil {
			return persistence(err)
		}
		if count <= 1 {
			return ErrLastLocation
		}

		if err := locations.Delete(location); err != nil {
			return persistence(err)
		}

		if location.IsPrimary {
			next, err := locations.FindOldest(registrationID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrLastLocation
				}
				return persistence(err)
			}
			if err := locations.SetPrimary(next.ID); err != nil {
				return persistence(err)
			}
			promoted = &next.ID
		}
		return persistence(s.registrationRepo.WithTx(tx).Touch(registrationID))
	})
	if err != nil {
		logger.Warn("Location deletion failed", map[string]interface{}{
			"registration_id": registrationID,
			"location_id":     locationID,
			"error":           err.Error(),
		})
		return err
	}

	logger.Info("Location deleted", map[string]interface{}{
		"registration_id": registrationID,
		"location_id":     locationID,
		"promoted":        promoted,
	})
	return nil
}
