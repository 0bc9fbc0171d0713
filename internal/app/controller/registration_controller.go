package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ikkim/bizreview-backend/internal/app/service"
	apperrors "github.com/ikkim/bizreview-backend/internal/errors"
	"github.com/ikkim/bizreview-backend/internal/middleware"
)

type RegistrationController struct {
	registrationService service.RegistrationService
}

func NewRegistrationController(registrationService service.RegistrationService) *RegistrationController {
	return &RegistrationController{registrationService: registrationService}
}

// SubmitRegistration creates a pending registration with its locations.
// POST /api/v1/registrations
func (ctrl *RegistrationController) SubmitRegistration(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var input service.SubmitRegistrationInput
	if !bindJSON(c, &input) {
		return
	}
	input.UserID = userID

	registration, err := ctrl.registrationService.Submit(input)
	if err != nil {
		log.Warn("Registration submission failed", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.RespondWithAppError(c, err, "registration")
		return
	}

	log.Info("Registration submitted", map[string]interface{}{
		"registration_id": registration.ID,
		"locations":       len(registration.Locations),
	})

	c.JSON(http.StatusCreated, gin.H{
		"registration": registration,
	})
}

// GetRegistration GET /api/v1/registrations/:id
func (ctrl *RegistrationController) GetRegistration(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	registration, err := ctrl.registrationService.GetByID(id)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "registration")
		return
	}
	if !requireSelfOrAdmin(c, registration.UserID) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"registration": registration,
	})
}

// GetLatestForUser GET /api/v1/users/:user_id/registrations/latest
func (ctrl *RegistrationController) GetLatestForUser(c *gin.Context) {
	userID, ok := uuidParam(c, "user_id")
	if !ok || !requireSelfOrAdmin(c, userID) {
		return
	}

	registration, err := ctrl.registrationService.GetLatestForUser(userID)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "registration")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"registration": registration,
	})
}

// ListForUser GET /api/v1/users/:user_id/registrations
func (ctrl *RegistrationController) ListForUser(c *gin.Context) {
	userID, ok := uuidParam(c, "user_id")
	if !ok || !requireSelfOrAdmin(c, userID) {
		return
	}

	registrations, err := ctrl.registrationService.ListForUser(userID)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to list registrations", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.RespondWithAppError(c, err, "registration")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"registrations": registrations,
		"count":         len(registrations),
	})
}

// requireSelfOrAdmin lets admins through and otherwise requires the caller to
// be ownerID. It writes 403 on failure.
func requireSelfOrAdmin(c *gin.Context, ownerID uuid.UUID) bool {
	if role, _ := middleware.GetUserRole(c); role == middleware.RoleAdmin {
		return true
	}
	if userID, ok := middleware.GetUserID(c); ok && userID == ownerID {
		return true
	}
	apperrors.Forbidden(c, "")
	return false
}
