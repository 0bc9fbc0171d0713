package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/bizreview-backend/internal/app/service"
	apperrors "github.com/ikkim/bizreview-backend/internal/errors"
	"github.com/ikkim/bizreview-backend/internal/middleware"
)

type LocationController struct {
	locationService service.LocationService
}

func NewLocationController(locationService service.LocationService) *LocationController {
	return &LocationController{locationService: locationService}
}

// CreateLocation POST /api/v1/registrations/:id/locations
func (ctrl *LocationController) CreateLocation(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	registrationID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var input service.LocationInput
	if !bindJSON(c, &input) {
		return
	}

	location, err := ctrl.locationService.Create(registrationID, input)
	if err != nil {
		log.Warn("Failed to create location", map[string]interface{}{
			"registration_id": registrationID,
			"error":           err.Error(),
		})
		apperrors.RespondWithAppError(c, err, "location")
		return
	}

	log.Info("Location created", map[string]interface{}{
		"registration_id": registrationID,
		"location_id":     location.ID,
		"is_primary":      location.IsPrimary,
	})

	c.JSON(http.StatusCreated, gin.H{
		"location": location,
	})
}

// ListLocations GET /api/v1/registrations/:id/locations
func (ctrl *LocationController) ListLocations(c *gin.Context) {
	registrationID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	locations, err := ctrl.locationService.List(registrationID)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "registration")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"locations": locations,
		"count":     len(locations),
	})
}

// GetLocation GET /api/v1/registrations/:id/locations/:lid
func (ctrl *LocationController) GetLocation(c *gin.Context) {
	registrationID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	locationID, ok := uuidParam(c, "lid")
	if !ok {
		return
	}

	location, err := ctrl.locationService.Get(registrationID, locationID)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "location")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"location": location,
	})
}

// UpdateLocation PUT /api/v1/registrations/:id/locations/:lid
func (ctrl *LocationController) UpdateLocation(c *gin.Context) {
	registrationID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	locationID, ok := uuidParam(c, "lid")
	if !ok {
		return
	}

	var input service.LocationInput
	if !bindJSON(c, &input) {
		return
	}

	location, err := ctrl.locationService.Update(registrationID, locationID, input)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "location")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"location": location,
	})
}

// SetPrimary POST /api/v1/registrations/:id/locations/:lid/primary
func (ctrl *LocationController) SetPrimary(c *gin.Context) {
	registrationID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	locationID, ok := uuidParam(c, "lid")
	if !ok {
		return
	}

	location, err := ctrl.locationService.SetPrimary(registrationID, locationID)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "location")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Primary location changed", map[string]interface{}{
		"registration_id": registrationID,
		"location_id":     locationID,
	})

	c.JSON(http.StatusOK, gin.H{
		"location": location,
	})
}

// DeleteLocation DELETE /api/v1/registrations/:id/locations/:lid
func (ctrl *LocationController) DeleteLocation(c *gin.Context) {
	registrationID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	locationID, ok := uuidParam(c, "lid")
	if !ok {
		return
	}

	if err := ctrl.locationService.Delete(registrationID, locationID); err != nil {
		apperrors.RespondWithAppError(c, err, "location")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "location deleted",
	})
}
