package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/bizreview-backend/internal/app/model"
	"github.com/ikkim/bizreview-backend/internal/app/service"
	apperrors "github.com/ikkim/bizreview-backend/internal/errors"
	"github.com/ikkim/bizreview-backend/internal/middleware"
	"github.com/ikkim/bizreview-backend/internal/report"
)

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{reviewService: reviewService}
}

// ListPending GET /api/v1/reviews/pending?limit=&offset=
func (ctrl *ReviewController) ListPending(c *gin.Context) {
	limit, offset := pagination(c)

	reviews, err := ctrl.reviewService.ListPending(limit, offset)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to list pending reviews", err, nil)
		apperrors.RespondWithAppError(c, err, "registration")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"count":   len(reviews),
		"limit":   limit,
		"offset":  offset,
	})
}

// GetReview returns the registration with its locations and event history.
// GET /api/v1/reviews/:id
func (ctrl *ReviewController) GetReview(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	detail, err := ctrl.reviewService.GetReview(id)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "registration")
		return
	}

	c.JSON(http.StatusOK, detail)
}

// SubmitAction applies one reviewer action. Reviewer identity defaults to the
// authenticated caller.
// POST /api/v1/reviews/:id/action
func (ctrl *ReviewController) SubmitAction(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var input service.SubmitReviewInput
	if !bindJSON(c, &input) {
		return
	}
	if input.ReviewerID == nil {
		if userID, exists := middleware.GetUserID(c); exists {
			input.ReviewerID = &userID
		}
	}
	if input.ReviewerName == nil {
		if username, exists := middleware.GetUsername(c); exists && username != "" {
			input.ReviewerName = &username
		}
	}

	registration, err := ctrl.reviewService.SubmitReview(id, input)
	if err != nil {
		log.Warn("Review action rejected", map[string]interface{}{
			"registration_id": id,
			"action":          input.Action,
			"error":           err.Error(),
		})
		apperrors.RespondWithAppError(c, err, "registration")
		return
	}

	log.Info("Review action applied", map[string]interface{}{
		"registration_id": id,
		"action":          input.Action,
		"status":          registration.Status,
	})

	c.JSON(http.StatusOK, gin.H{
		"registration": registration,
	})
}

// ListEvents GET /api/v1/reviews/:id/events
func (ctrl *ReviewController) ListEvents(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	events, err := ctrl.reviewService.ListEvents(id)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "registration")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"count":  len(events),
	})
}

// GetStats GET /api/v1/reviews/stats
func (ctrl *ReviewController) GetStats(c *gin.Context) {
	stats, err := ctrl.reviewService.GetStats()
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to compute review stats", err, nil)
		apperrors.RespondWithAppError(c, err, "registration")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Export streams registrations as an xlsx workbook, optionally filtered by status.
// GET /api/v1/reviews/export?status=
func (ctrl *ReviewController) Export(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var status *model.RegistrationStatus
	if raw := c.Query("status"); raw != "" {
		parsed, err := model.ParseRegistrationStatus(raw)
		if err != nil {
			apperrors.RespondWithAppError(c,
				apperrors.NewValidation(apperrors.ValidationInvalidInput, "invalid status filter").WithField("status", err.Error()),
				"registration")
			return
		}
		status = &parsed
	}

	registrations, err := ctrl.reviewService.ListForExport(status)
	if err != nil {
		log.Error("Failed to load registrations for export", err, nil)
		apperrors.RespondWithAppError(c, err, "registration")
		return
	}

	filename := fmt.Sprintf("registrations-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", report.ContentType)
	c.Status(http.StatusOK)

	if err := report.WriteRegistrations(c.Writer, registrations); err != nil {
		log.Error("Failed to write export workbook", err, map[string]interface{}{
			"rows": len(registrations),
		})
		return
	}

	log.Info("Registrations exported", map[string]interface{}{
		"rows": len(registrations),
	})
}
