package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/bizreview-backend/internal/app/model"
	"github.com/ikkim/bizreview-backend/internal/app/repository"
	"github.com/ikkim/bizreview-backend/internal/validation"
	"github.com/ikkim/bizreview-backend/pkg/logger"
	"github.com/ikkim/bizreview-backend/pkg/stories"
	"gorm.io/gorm"
)

// PromotionInput is the payload for creating or replacing a promotion.
type PromotionInput struct {
	ActorID          *uuid.UUID             `json:"-"`
	Title            string                 `json:"title" binding:"required,notblank,min=3,max=120"`
	Subtitle         *string                `json:"subtitle" binding:"omitempty,max=160"`
	Description      *string                `json:"description" binding:"omitempty,max=4000"`
	PromotionType    model.PromotionType    `json:"promotion_type" binding:"required,oneof=discount contest event challenge"`
	Scope            model.PromotionScope   `json:"scope" binding:"omitempty,oneof=business location"`
	Status           *model.PromotionStatus `json:"status" binding:"omitempty,oneof=draft scheduled active expired cancelled"`
	ImageURL         *string                `json:"image_url" binding:"omitempty,max=1024"`
	Prize            *string                `json:"prize" binding:"omitempty,max=1024"`
	RewardPoints     int                    `json:"reward_points" binding:"gte=0,lte=10000"`
	DiscountPercent  *int                   `json:"discount_percent"`
	MaxClaims        *int                   `json:"max_claims" binding:"omitempty,gte=1,lte=1000000"`
	PerUserLimit     *int                   `json:"per_user_limit" binding:"omitempty,gte=1,lte=10000"`
	RequiresCheckIn  bool                   `json:"requires_check_in"`
	RequiresPurchase bool                   `json:"requires_purchase"`
	Terms            *string                `json:"terms" binding:"omitempty,max=4000"`
	Metadata         map[string]interface{} `json:"metadata"`
	StartsAt         time.Time              `json:"starts_at" binding:"required"`
	EndsAt           time.Time              `json:"ends_at" binding:"required"`
	PublishedAt      *time.Time             `json:"published_at"`
	LocationIDs      []string               `json:"location_ids" binding:"omitempty,uuid_list"`
}

func (in PromotionInput) scope() model.PromotionScope {
	if in.Scope == "" {
		return model.PromotionScopeBusiness
	}
	return in.Scope
}

// validateRules checks the cross-field rules. It runs before any write.
func (in PromotionInput) validateRules() error {
	if !in.EndsAt.After(in.StartsAt) {
		return ErrPromotionSchedule.WithField("ends_at", "must be after starts_at")
	}
	if in.scope() == model.PromotionScopeLocation && len(in.LocationIDs) == 0 {
		return ErrPromotionLocationRequired.WithField("location_ids", "is required for location scope")
	}
	if in.DiscountPercent != nil {
		if in.PromotionType != model.PromotionTypeDiscount {
			return ErrPromotionDiscount.WithField("discount_percent", "is only allowed for discount promotions")
		}
		if *in.DiscountPercent < 0 || *in.DiscountPercent > 100 {
			return ErrPromotionDiscount.WithField("discount_percent", "must be between 0 and 100")
		}
	}
	if in.PromotionType == model.PromotionTypeContest && (in.Prize == nil || strings.TrimSpace(*in.Prize) == "") {
		return ErrPromotionPrize.WithField("prize", "is required for contest promotions")
	}
	return nil
}

// locationIDs parses and deduplicates the ids, keeping first-seen order.
// Business scoped promotions never carry locations.
func (in PromotionInput) locationIDs() ([]uuid.UUID, error) {
	if in.scope() == model.PromotionScopeBusiness {
		return nil, nil
	}

	seen := make(map[uuid.UUID]struct{}, len(in.LocationIDs))
	ids := make([]uuid.UUID, 0, len(in.LocationIDs))
	for _, raw := range in.LocationIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, ErrPromotionLocationRequired.WithField("location_ids", "must contain only valid uuids")
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func (in PromotionInput) apply(promotion *model.BusinessPromotion) {
	promotion.Title = strings.TrimSpace(in.Title)
	promotion.Subtitle = in.Subtitle
	promotion.Description = in.Description
	promotion.PromotionType = in.PromotionType
	promotion.Scope = in.scope()
	promotion.ImageURL = in.ImageURL
	promotion.Prize = in.Prize
	promotion.RewardPoints = in.RewardPoints
	promotion.DiscountPercent = in.DiscountPercent
	promotion.MaxClaims = in.MaxClaims
	promotion.PerUserLimit = in.PerUserLimit
	promotion.RequiresCheckIn = in.RequiresCheckIn
	promotion.RequiresPurchase = in.RequiresPurchase
	promotion.Terms = in.Terms
	promotion.Metadata = model.JSONMap(in.Metadata)
	if promotion.Metadata == nil {
		promotion.Metadata = model.JSONMap{}
	}
	promotion.StartsAt = in.StartsAt
	promotion.EndsAt = in.EndsAt
	promotion.PublishedAt = in.PublishedAt
}

// StoryPublisher pushes a promotion to the stories feed.
type StoryPublisher interface {
	PublishPromotion(ctx context.Context, story stories.PromotionStory) error
}

type PromotionService interface {
	Create(registrationID uuid.UUID, input PromotionInput) (*model.BusinessPromotion, error)
	List(registrationID uuid.UUID) ([]model.BusinessPromotion, error)
	ListForLocation(locationID uuid.UUID) ([]model.BusinessPromotion, error)
	Get(registrationID, promotionID uuid.UUID) (*model.BusinessPromotion, error)
	Update(registrationID, promotionID uuid.UUID, input PromotionInput) (*model.BusinessPromotion, error)
	Delete(registrationID, promotionID uuid.UUID) error
	Share(ctx context.Context, registrationID, promotionID uuid.UUID) error
}

type promotionService struct {
	registrationRepo repository.RegistrationRepository
	locationRepo     repository.LocationRepository
	promotionRepo    repository.PromotionRepository
	publisher        StoryPublisher
	db               *gorm.DB
	now              func() time.Time
}

func NewPromotionService(
	registrationRepo repository.RegistrationRepository,
	locationRepo repository.LocationRepository,
	promotionRepo repository.PromotionRepository,
	publisher StoryPublisher,
	db *gorm.DB,
) PromotionService {
	return &promotionService{
		registrationRepo: registrationRepo,
		locationRepo:     locationRepo,
		promotionRepo:    promotionRepo,
		publisher:        publisher,
		db:               db,
		now:              time.Now,
	}
}

func (s *promotionService) Create(registrationID uuid.UUID, input PromotionInput) (*model.BusinessPromotion, error) {
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}
	if err := input.validateRules(); err != nil {
		logger.Warn("Promotion rejected by business rules", map[string]interface{}{
			"registration_id": registrationID,
			"error":           err.Error(),
		})
		return nil, err
	}
	locationIDs, err := input.locationIDs()
	if err != nil {
		return nil, err
	}

	promotion := &model.BusinessPromotion{
		RegistrationID: registrationID,
		CreatedBy:      input.ActorID,
		UpdatedBy:      input.ActorID,
	}
	input.apply(promotion)
	promotion.Status = model.InitialPromotionStatus(promotion.StartsAt, s.now())
	if input.Status != nil {
		promotion.Status = *input.Status
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.registrationRepo.WithTx(tx).FindByIDForUpdate(registrationID); err != nil {
			return notFoundOr(err, ErrRegistrationNotFound)
		}
		if err := s.checkLocationOwnership(tx, registrationID, locationIDs); err != nil {
			return err
		}

		promotions := s.promotionRepo.WithTx(tx)
		if err := promotions.Create(promotion); err != nil {
			return persistence(err)
		}
		if err := promotions.ReplaceLocations(promotion.ID, locationIDs); err != nil {
			return persistence(err)
		}
		return persistence(s.registrationRepo.WithTx(tx).Touch(registrationID))
	})
	if err != nil {
		return nil, err
	}

	promotion.LocationIDs = nonNilIDs(locationIDs)
	logger.Info("Promotion created", map[string]interface{}{
		"registration_id": registrationID,
		"promotion_id":    promotion.ID,
		"status":          promotion.Status,
		"locations":       len(locationIDs),
	})
	return promotion, nil
}

func (s *promotionService) List(registrationID uuid.UUID) ([]model.BusinessPromotion, error) {
	if _, err := s.registrationRepo.FindByID(registrationID); err != nil {
		return nil, notFoundOr(err, ErrRegistrationNotFound)
	}

	promotions, err := s.promotionRepo.FindByRegistrationID(registrationID)
	if err != nil {
		return nil, persistence(err)
	}
	return promotions, nil
}

// ListForLocation returns the promotions customers see at one location.
func (s *promotionService) ListForLocation(locationID uuid.UUID) ([]model.BusinessPromotion, error) {
	location, err := s.locationRepo.FindByID(locationID)
	if err != nil {
		return nil, notFoundOr(err, ErrLocationNotFound)
	}

	promotions, err := s.promotionRepo.FindForLocation(location.RegistrationID, location.ID)
	if err != nil {
		return nil, persistence(err)
	}
	return promotions, nil
}

func (s *promotionService) Get(registrationID, promotionID uuid.UUID) (*model.BusinessPromotion, error) {
	promotion, err := s.promotionRepo.FindByRegistrationAndID(registrationID, promotionID)
	if err != nil {
		return nil, notFoundOr(err, ErrPromotionNotFound)
	}
	return promotion, nil
}

// Update replaces the promotion and its location set. Status is kept unless
// the payload names one explicitly.
func (s *promotionService) Update(registrationID, promotionID uuid.UUID, input PromotionInput) (*model.BusinessPromotion, error) {
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}
	if err := input.validateRules(); err != nil {
		return nil, err
	}
	locationIDs, err := input.locationIDs()
	if err != nil {
		return nil, err
	}

	var promotion *model.BusinessPromotion
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.registrationRepo.WithTx(tx).FindByIDForUpdate(registrationID); err != nil {
			return notFoundOr(err, ErrRegistrationNotFound)
		}

		promotions := s.promotionRepo.WithTx(tx)
		found, err := promotions.FindByRegistrationAndID(registrationID, promotionID)
		if err != nil {
			return notFoundOr(err, ErrPromotionNotFound)
		}
		if err := s.checkLocationOwnership(tx, registrationID, locationIDs); err != nil {
			return err
		}

		input.apply(found)
		if input.Status != nil {
			found.Status = *input.Status
		}
		found.UpdatedBy = input.ActorID

		if err := promotions.Update(found); err != nil {
			return persistence(err)
		}
		if err := promotions.ReplaceLocations(found.ID, locationIDs); err != nil {
			return persistence(err)
		}
		found.LocationIDs = nonNilIDs(locationIDs)
		promotion = found
		return persistence(s.registrationRepo.WithTx(tx).Touch(registrationID))
	})
	if err != nil {
		return nil, err
	}
	return promotion, nil
}

func (s *promotionService) Delete(registrationID, promotionID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		promotions := s.promotionRepo.WithTx(tx)
		promotion, err := promotions.FindByRegistrationAndID(registrationID, promotionID)
		if err != nil {
			return notFoundOr(err, ErrPromotionNotFound)
		}
		if err := promotions.Delete(promotion); err != nil {
			return persistence(err)
		}
		return persistence(s.registrationRepo.WithTx(tx).Touch(registrationID))
	})
}

// Share sends a snapshot of the promotion to the stories service. The
// promotion itself is never modified.
func (s *promotionService) Share(ctx context.Context, registrationID, promotionID uuid.UUID) error {
	promotion, err := s.Get(registrationID, promotionID)
	if err != nil {
		return err
	}
	registration, err := s.registrationRepo.FindByID(registrationID)
	if err != nil {
		return notFoundOr(err, ErrRegistrationNotFound)
	}

	if s.publisher == nil {
		return ErrPromotionShareFailed.Wrap(errors.New("stories service is not configured"))
	}

	story := stories.PromotionStory{
		PromotionID:    promotion.ID.String(),
		RegistrationID: registration.ID.String(),
		BusinessName:   registration.Name,
		Title:          promotion.Title,
		Subtitle:       promotion.Subtitle,
		PromotionType:  promotion.PromotionType.String(),
		ImageURL:       promotion.ImageURL,
		StartsAt:       promotion.StartsAt,
		EndsAt:         promotion.EndsAt,
	}
	for _, id := range promotion.LocationIDs {
		story.LocationIDs = append(story.LocationIDs, id.String())
	}

	if err := s.publisher.PublishPromotion(ctx, story); err != nil {
		logger.Error("Failed to share promotion to stories", err, map[string]interface{}{
			"promotion_id": promotionID,
		})
		return ErrPromotionShareFailed.Wrap(err)
	}

	logger.Info("Promotion shared to stories", map[string]interface{}{
		"promotion_id": promotionID,
	})
	return nil
}

// checkLocationOwnership fails with not found unless every id belongs to the
// registration. It runs before any join row is written.
func (s *promotionService) checkLocationOwnership(tx *gorm.DB, registrationID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	owned, err := s.locationRepo.WithTx(tx).CountOwned(registrationID, ids)
	if err != nil {
		return persistence(err)
	}
	if owned != int64(len(ids)) {
		logger.Warn("Promotion references foreign locations", map[string]interface{}{
			"registration_id": registrationID,
			"requested":       len(ids),
			"owned":           owned,
		})
		return ErrLocationNotFound.WithField("location_ids", "must belong to the registration")
	}
	return nil
}

func nonNilIDs(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}
