package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/bizreview-backend/internal/app/model"
	"github.com/ikkim/bizreview-backend/internal/app/repository"
	"github.com/ikkim/bizreview-backend/pkg/logger"
	"github.com/ikkim/bizreview-backend/pkg/metrics"
	"gorm.io/gorm"
)

// SubmitReviewInput is one reviewer decision on a registration.
type SubmitReviewInput struct {
	Action          model.ReviewAction `json:"action" binding:"required"`
	ReviewerID      *uuid.UUID         `json:"reviewer_id"`
	ReviewerName    *string            `json:"reviewer_name"`
	Notes           *string            `json:"notes" binding:"omitempty,max=4000"`
	RejectionReason *string            `json:"rejection_reason" binding:"omitempty,max=4000"`
}

// validate runs every input check that does not need the database.
func (in SubmitReviewInput) validate() error {
	if !in.Action.IsValid() {
		return ErrInvalidReviewAction.WithField("action", "must be one of approve, reject, request_more_info, suspend, resume, comment")
	}
	if in.Action.RequiresRejectionReason() && isBlank(in.RejectionReason) {
		return ErrRejectionReason.WithField("rejection_reason", "is required when rejecting")
	}
	if in.ReviewerID == nil || *in.ReviewerID == uuid.Nil {
		return ErrReviewerRequired.WithField("reviewer_id", "is required")
	}
	if isBlank(in.ReviewerName) {
		return ErrReviewerRequired.WithField("reviewer_name", "is required")
	}
	return nil
}

// ReviewNotifier receives committed review actions.
type ReviewNotifier interface {
	NotifyReview(notification model.ReviewNotification)
}

type ReviewService interface {
	SubmitReview(registrationID uuid.UUID, input SubmitReviewInput) (*model.BusinessRegistration, error)
	ListPending(limit, offset int) ([]model.PendingBusinessReview, error)
	GetReview(registrationID uuid.UUID) (*model.BusinessRegistrationDetail, error)
	ListEvents(registrationID uuid.UUID) ([]model.BusinessReviewEvent, error)
	GetStats() (*model.ReviewStats, error)
	ListForExport(status *model.RegistrationStatus) ([]model.BusinessRegistration, error)
}

type reviewService struct {
	registrationRepo repository.RegistrationRepository
	eventRepo        repository.ReviewEventRepository
	locationRepo     repository.LocationRepository
	unitRepo         repository.UnitRepository
	businessRepo     repository.BusinessRepository
	notifier         ReviewNotifier
	metrics          *metrics.ReviewMetrics
	db               *gorm.DB
	now              func() time.Time
}

func NewReviewService(
	registrationRepo repository.RegistrationRepository,
	eventRepo repository.ReviewEventRepository,
	locationRepo repository.LocationRepository,
	unitRepo repository.UnitRepository,
	businessRepo repository.BusinessRepository,
	db *gorm.DB,
	notifier ReviewNotifier,
	reviewMetrics *metrics.ReviewMetrics,
) ReviewService {
	return &reviewService{
		registrationRepo: registrationRepo,
		eventRepo:        eventRepo,
		locationRepo:     locationRepo,
		unitRepo:         unitRepo,
		businessRepo:     businessRepo,
		notifier:         notifier,
		metrics:          reviewMetrics,
		db:               db,
		now:              time.Now,
	}
}

// SubmitReview records the action as an event and applies the resulting
// status in the same transaction. Nothing is written when validation or the
// transition check fails.
func (s *reviewService) SubmitReview(registrationID uuid.UUID, input SubmitReviewInput) (result *model.BusinessRegistration, err error) {
	defer func() {
		s.metrics.IncReviewAction(input.Action.String(), metrics.Result(err))
	}()

	logger.Info("Submitting review action", map[string]interface{}{
		"registration_id": registrationID,
		"action":          input.Action,
	})

	if err := input.validate(); err != nil {
		logger.Warn("Review action rejected by validation", map[string]interface{}{
			"registration_id": registrationID,
			"action":          input.Action,
			"error":           err.Error(),
		})
		return nil, err
	}

	if _, err := s.registrationRepo.FindByID(registrationID); err != nil {
		return nil, notFoundOr(err, ErrRegistrationNotFound)
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during review action, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"registration_id": registrationID,
			})
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	registration, err := s.registrationRepo.WithTx(tx).FindByIDForUpdate(registrationID)
	if err != nil {
		tx.Rollback()
		return nil, notFoundOr(err, ErrRegistrationNotFound)
	}

	previous := registration.Status
	next, err := model.NextStatus(previous, input.Action)
	if err != nil {
		tx.Rollback()
		logger.Warn("Illegal review transition", map[string]interface{}{
			"registration_id": registrationID,
			"from":            previous,
			"action":          input.Action,
		})
		return nil, ErrInvalidTransition.
			WithField("action", fmt.Sprintf("%s is not allowed while %s", input.Action, previous)).
			Wrap(err)
	}

	reviewerName := strings.TrimSpace(*input.ReviewerName)
	event := &model.BusinessReviewEvent{
		RegistrationID:  registrationID,
		ReviewerID:      *input.ReviewerID,
		ReviewerName:    reviewerName,
		Action:          input.Action,
		Notes:           input.Notes,
		RejectionReason: input.RejectionReason,
		CreatedAt:       s.now(),
	}
	if err := s.eventRepo.WithTx(tx).Create(event); err != nil {
		tx.Rollback()
		return nil, persistence(err)
	}

	fields := map[string]interface{}{
		"status":        next,
		"reviewer_id":   *input.ReviewerID,
		"reviewer_name": reviewerName,
		"updated_at":    s.now(),
	}
	switch {
	case input.Action == model.ReviewActionReject:
		fields["rejection_reason"] = strings.TrimSpace(*input.RejectionReason)
	case next != previous:
		fields["rejection_reason"] = nil
	}
	if input.Notes != nil {
		fields["reviewer_notes"] = *input.Notes
	}

	// first approval materializes the business exactly once
	if next == model.RegistrationStatusApproved && registration.BusinessID == nil {
		business := model.NewBusinessFromRegistration(registration)
		if err := s.businessRepo.WithTx(tx).Create(business); err != nil {
			tx.Rollback()
			return nil, persistence(err)
		}
		if err := s.locationRepo.WithTx(tx).AssignBusiness(registrationID, business.ID); err != nil {
			tx.Rollback()
			return nil, persistence(err)
		}
		if err := s.unitRepo.WithTx(tx).AssignBusiness(registrationID, business.ID); err != nil {
			tx.Rollback()
			return nil, persistence(err)
		}
		fields["business_id"] = business.ID
		logger.Info("Business materialized from registration", map[string]interface{}{
			"registration_id": registrationID,
			"business_id":     business.ID,
		})
	}

	if err := s.registrationRepo.WithTx(tx).UpdateFields(registrationID, fields); err != nil {
		tx.Rollback()
		return nil, persistence(err)
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit review action", err, map[string]interface{}{
			"registration_id": registrationID,
		})
		return nil, persistence(err)
	}

	updated, err := s.registrationRepo.FindByID(registrationID)
	if err != nil {
		return nil, persistence(err)
	}

	logger.Info("Review action applied", map[string]interface{}{
		"registration_id": registrationID,
		"event_id":        event.ID,
		"action":          input.Action,
		"from":            previous,
		"to":              next,
	})

	if s.notifier != nil {
		s.notifier.NotifyReview(model.ReviewNotification{
			EventID:        event.ID,
			RegistrationID: registrationID,
			Action:         input.Action,
			PreviousStatus: previous,
			Status:         updated.Status,
			ReviewerID:     event.ReviewerID,
			ReviewerName:   event.ReviewerName,
			BusinessID:     updated.BusinessID,
			CreatedAt:      event.CreatedAt,
		})
	}
	return updated, nil
}

func (s *reviewService) ListPending(limit, offset int) ([]model.PendingBusinessReview, error) {
	registrations, err := s.registrationRepo.FindPending(limit, offset)
	if err != nil {
		return nil, persistence(err)
	}

	reviews := make([]model.PendingBusinessReview, len(registrations))
	for i, reg := range registrations {
		reviews[i] = model.PendingBusinessReview{
			ID:              reg.ID,
			UserID:          reg.UserID,
			Name:            reg.Name,
			Category:        reg.Category,
			Address:         reg.Address,
			OwnerEmail:      reg.OwnerEmail,
			OwnerUsername:   reg.OwnerUsername,
			Status:          reg.Status,
			DocumentURLs:    reg.DocumentURLs,
			IsMultiUserTeam: reg.IsMultiUserTeam,
			SubmittedAt:     reg.SubmittedAt,
		}
	}
	return reviews, nil
}

func (s *reviewService) GetReview(registrationID uuid.UUID) (*model.BusinessRegistrationDetail, error) {
	registration, err := s.registrationRepo.FindByID(registrationID)
	if err != nil {
		return nil, notFoundOr(err, ErrRegistrationNotFound)
	}

	locations, err := s.locationRepo.FindByRegistrationID(registrationID)
	if err != nil {
		return nil, persistence(err)
	}
	events, err := s.eventRepo.FindByRegistrationID(registrationID)
	if err != nil {
		return nil, persistence(err)
	}

	return &model.BusinessRegistrationDetail{
		Registration: *registration,
		Locations:    locations,
		Events:       events,
	}, nil
}

// ListEvents returns the audit trail oldest first.
func (s *reviewService) ListEvents(registrationID uuid.UUID) ([]model.BusinessReviewEvent, error) {
	if _, err := s.registrationRepo.FindByID(registrationID); err != nil {
		return nil, notFoundOr(err, ErrRegistrationNotFound)
	}

	events, err := s.eventRepo.FindByRegistrationID(registrationID)
	if err != nil {
		return nil, persistence(err)
	}
	return events, nil
}

// GetStats counts today's decisions over a rolling 24 hour window.
func (s *reviewService) GetStats() (*model.ReviewStats, error) {
	stats, err := s.registrationRepo.GetReviewStats(s.now().Add(-24 * time.Hour))
	if err != nil {
		return nil, persistence(err)
	}
	return stats, nil
}

func (s *reviewService) ListForExport(status *model.RegistrationStatus) ([]model.BusinessRegistration, error) {
	registrations, err := s.registrationRepo.FindByStatus(status)
	if err != nil {
		return nil, persistence(err)
	}
	return registrations, nil
}

func isBlank(value *string) bool {
	return value == nil || strings.TrimSpace(*value) == ""
}
