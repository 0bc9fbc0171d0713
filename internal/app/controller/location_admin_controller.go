package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/bizreview-backend/internal/app/service"
	apperrors "github.com/ikkim/bizreview-backend/internal/errors"
	"github.com/ikkim/bizreview-backend/internal/middleware"
)

type LocationAdminController struct {
	adminService service.LocationAdminService
}

func NewLocationAdminController(adminService service.LocationAdminService) *LocationAdminController {
	return &LocationAdminController{adminService: adminService}
}

// AddAdmin grants a role on a location, updating an existing active grant.
// POST /api/v1/locations/:lid/admins
func (ctrl *LocationAdminController) AddAdmin(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	locationID, ok := uuidParam(c, "lid")
	if !ok {
		return
	}

	var input service.LocationAdminInput
	if !bindJSON(c, &input) {
		return
	}
	if grantedBy, exists := middleware.GetUserID(c); exists {
		input.GrantedBy = &grantedBy
	}
	if username, exists := middleware.GetUsername(c); exists && username != "" {
		input.GrantedByUsername = &username
	}

	admin, err := ctrl.adminService.AddAdmin(locationID, input)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "location")
		return
	}

	log.Info("Location admin granted", map[string]interface{}{
		"location_id": locationID,
		"user_id":     admin.UserID,
		"role":        admin.Role,
	})

	c.JSON(http.StatusCreated, gin.H{
		"admin": admin,
	})
}

// ListAdmins GET /api/v1/locations/:lid/admins
func (ctrl *LocationAdminController) ListAdmins(c *gin.Context) {
	locationID, ok := uuidParam(c, "lid")
	if !ok {
		return
	}

	admins, err := ctrl.adminService.ListAdmins(locationID)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "location")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"admins": admins,
		"count":  len(admins),
	})
}

// RemoveAdmin DELETE /api/v1/locations/:lid/admins/:uid
func (ctrl *LocationAdminController) RemoveAdmin(c *gin.Context) {
	locationID, ok := uuidParam(c, "lid")
	if !ok {
		return
	}
	userID, ok := uuidParam(c, "uid")
	if !ok {
		return
	}

	if err := ctrl.adminService.RemoveAdmin(locationID, userID); err != nil {
		apperrors.RespondWithAppError(c, err, "location")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "location admin removed",
	})
}
