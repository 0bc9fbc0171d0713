package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/bizreview-backend/internal/app/service"
	apperrors "github.com/ikkim/bizreview-backend/internal/errors"
)

type BusinessController struct {
	businessService service.BusinessService
}

func NewBusinessController(businessService service.BusinessService) *BusinessController {
	return &BusinessController{businessService: businessService}
}

// GetBusiness GET /api/v1/businesses/:bid
func (ctrl *BusinessController) GetBusiness(c *gin.Context) {
	businessID, ok := uuidParam(c, "bid")
	if !ok {
		return
	}

	business, err := ctrl.businessService.GetByID(businessID)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "business")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"business": business,
	})
}

// ListForOwner GET /api/v1/users/:user_id/businesses
func (ctrl *BusinessController) ListForOwner(c *gin.Context) {
	ownerID, ok := uuidParam(c, "user_id")
	if !ok || !requireSelfOrAdmin(c, ownerID) {
		return
	}

	businesses, err := ctrl.businessService.ListForOwner(ownerID)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "business")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"businesses": businesses,
		"count":      len(businesses),
	})
}
