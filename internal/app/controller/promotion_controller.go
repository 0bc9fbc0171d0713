package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/bizreview-backend/internal/app/service"
	apperrors "github.com/ikkim/bizreview-backend/internal/errors"
	"github.com/ikkim/bizreview-backend/internal/middleware"
)

type PromotionController struct {
	promotionService service.PromotionService
}

func NewPromotionController(promotionService service.PromotionService) *PromotionController {
	return &PromotionController{promotionService: promotionService}
}

// CreatePromotion POST /api/v1/registrations/:id/promotions
func (ctrl *PromotionController) CreatePromotion(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	registrationID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var input service.PromotionInput
	if !bindJSON(c, &input) {
		return
	}
	if userID, exists := middleware.GetUserID(c); exists {
		input.ActorID = &userID
	}

	promotion, err := ctrl.promotionService.Create(registrationID, input)
	if err != nil {
		log.Warn("Failed to create promotion", map[string]interface{}{
			"registration_id": registrationID,
			"error":           err.Error(),
		})
		apperrors.RespondWithAppError(c, err, "promotion")
		return
	}

	log.Info("Promotion created", map[string]interface{}{
		"promotion_id": promotion.ID,
		"scope":        promotion.Scope,
		"status":       promotion.Status,
	})

	c.JSON(http.StatusCreated, gin.H{
		"promotion": promotion,
	})
}

// ListPromotions GET /api/v1/registrations/:id/promotions
func (ctrl *PromotionController) ListPromotions(c *gin.Context) {
	registrationID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	promotions, err := ctrl.promotionService.List(registrationID)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "registration")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"promotions": promotions,
		"count":      len(promotions),
	})
}

// ListLocationPromotions GET /api/v1/locations/:lid/promotions
func (ctrl *PromotionController) ListLocationPromotions(c *gin.Context) {
	locationID, ok := uuidParam(c, "lid")
	if !ok {
		return
	}

	promotions, err := ctrl.promotionService.ListForLocation(locationID)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "location")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"promotions": promotions,
		"count":      len(promotions),
	})
}

// GetPromotion GET /api/v1/registrations/:id/promotions/:pid
func (ctrl *PromotionController) GetPromotion(c *gin.Context) {
	registrationID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	promotionID, ok := uuidParam(c, "pid")
	if !ok {
		return
	}

	promotion, err := ctrl.promotionService.Get(registrationID, promotionID)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "promotion")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"promotion": promotion,
	})
}

// UpdatePromotion PUT /api/v1/registrations/:id/promotions/:pid
func (ctrl *PromotionController) UpdatePromotion(c *gin.Context) {
	registrationID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	promotionID, ok := uuidParam(c, "pid")
	if !ok {
		return
	}

	var input service.PromotionInput
	if !bindJSON(c, &input) {
		return
	}
	if userID, exists := middleware.GetUserID(c); exists {
		input.ActorID = &userID
	}

	promotion, err := ctrl.promotionService.Update(registrationID, promotionID, input)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "promotion")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"promotion": promotion,
	})
}

// DeletePromotion DELETE /api/v1/registrations/:id/promotions/:pid
func (ctrl *PromotionController) DeletePromotion(c *gin.Context) {
	registrationID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	promotionID, ok := uuidParam(c, "pid")
	if !ok {
		return
	}

	if err := ctrl.promotionService.Delete(registrationID, promotionID); err != nil {
		apperrors.RespondWithAppError(c, err, "promotion")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "promotion deleted",
	})
}

// SharePromotion publishes the promotion to the stories service.
// POST /api/v1/registrations/:id/promotions/:pid/share
func (ctrl *PromotionController) SharePromotion(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	registrationID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	promotionID, ok := uuidParam(c, "pid")
	if !ok {
		return
	}

	if err := ctrl.promotionService.Share(c.Request.Context(), registrationID, promotionID); err != nil {
		log.Warn("Promotion share failed", map[string]interface{}{
			"promotion_id": promotionID,
			"error":        err.Error(),
		})
		apperrors.RespondWithAppError(c, err, "promotion")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message":      "promotion shared",
		"promotion_id": promotionID,
	})
}
