package service

import (
	"errors"

	apperrors "github.com/ikkim/bizreview-backend/internal/errors"
	"gorm.io/gorm"
)

var (
	ErrRegistrationNotFound = apperrors.NewNotFound(apperrors.RegistrationNotFound, "registration not found")
	ErrLocationRequired     = apperrors.NewValidation(apperrors.RegistrationLocationRequired, "at least one location is required")

	ErrInvalidReviewAction = apperrors.NewValidation(apperrors.ReviewInvalidAction, "invalid review action")
	ErrInvalidTransition   = apperrors.NewConflict(apperrors.ReviewInvalidTransition, "the action is not allowed in the current status")
	ErrRejectionReason     = apperrors.NewValidation(apperrors.ReviewReasonRequired, "rejection_reason is required when rejecting")
	ErrReviewerRequired    = apperrors.NewValidation(apperrors.ReviewReviewerRequired, "reviewer id and name are required")

	ErrLocationNotFound      = apperrors.NewNotFound(apperrors.LocationNotFound, "location not found")
	ErrLastLocation          = apperrors.NewConflict(apperrors.LocationLastRemaining, "at least one location required")
	ErrLocationAdminNotFound = apperrors.NewNotFound(apperrors.LocationAdminNotFound, "location admin not found")

	ErrPromotionNotFound         = apperrors.NewNotFound(apperrors.PromotionNotFound, "promotion not found")
	ErrPromotionSchedule         = apperrors.NewValidation(apperrors.PromotionInvalidSchedule, "ends_at must be after starts_at")
	ErrPromotionLocationRequired = apperrors.NewValidation(apperrors.PromotionLocationRequired, "location scoped promotions require location_ids")
	ErrPromotionDiscount         = apperrors.NewValidation(apperrors.PromotionInvalidDiscount, "discount_percent must be between 0 and 100 and is only allowed for discount promotions")
	ErrPromotionPrize            = apperrors.NewValidation(apperrors.PromotionPrizeRequired, "contest promotions require a prize")
	ErrPromotionShareFailed      = apperrors.NewExternal(apperrors.PromotionShareFailed, "failed to share promotion", nil)

	ErrCompanyNotFound  = apperrors.NewNotFound(apperrors.CompanyNotFound, "company not found")
	ErrUnitNotFound     = apperrors.NewNotFound(apperrors.UnitNotFound, "unit not found")
	ErrBusinessNotFound = apperrors.NewNotFound(apperrors.BusinessNotFound, "business not found")
)

// notFoundOr maps gorm.ErrRecordNotFound onto notFound and anything else onto
// a persistence error.
func notFoundOr(err error, notFound *apperrors.Error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return persistence(err)
}

// persistence classifies a storage error. Already typed errors pass through.
func persistence(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.As(err); ok {
		return err
	}
	return apperrors.ParseError(err, "")
}
