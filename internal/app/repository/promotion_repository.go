package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/ikkim/bizreview-backend/internal/app/model"
	"github.com/ikkim/bizreview-backend/pkg/logger"
	"gorm.io/gorm"
)

type PromotionRepository interface {
	WithTx(tx *gorm.DB) PromotionRepository
	Create(promotion *model.BusinessPromotion) error
	FindByRegistrationAndID(registrationID, promotionID uuid.UUID) (*model.BusinessPromotion, error)
	FindByRegistrationID(registrationID uuid.UUID) ([]model.BusinessPromotion, error)
	FindForLocation(registrationID, locationID uuid.UUID) ([]model.BusinessPromotion, error)
	Update(promotion *model.BusinessPromotion) error
	Delete(promotion *model.BusinessPromotion) error
	ReplaceLocations(promotionID uuid.UUID, locationIDs []uuid.UUID) error
	DeleteLocations(promotionID uuid.UUID) error
	LocationIDs(promotionID uuid.UUID) ([]uuid.UUID, error)
}

type promotionRepository struct {
	db *gorm.DB
}

func NewPromotionRepository(db *gorm.DB) PromotionRepository {
	return &promotionRepository{db: db}
}

func (r *promotionRepository) WithTx(tx *gorm.DB) PromotionRepository {
	return &promotionRepository{db: tx}
}

func (r *promotionRepository) Create(promotion *model.BusinessPromotion) error {
	logger.Debug("Creating promotion in database", map[string]interface{}{
		"registration_id": promotion.RegistrationID,
		"type":            promotion.PromotionType,
		"scope":           promotion.Scope,
	})

	if err := r.db.Create(promotion).Error; err != nil {
		logger.Error("Failed to create promotion in database", err, map[string]interface{}{
			"registration_id": promotion.RegistrationID,
		})
		return err
	}
	return nil
}

func (r *promotionRepository) FindByRegistrationAndID(registrationID, promotionID uuid.UUID) (*model.BusinessPromotion, error) {
	var promotion model.BusinessPromotion
	if err := r.db.
		Where("id = ? AND registration_id = ?", promotionID, registrationID).
		First(&promotion).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find promotion", err, map[string]interface{}{
				"registration_id": registrationID,
				"promotion_id":    promotionID,
			})
		}
		return nil, err
	}

	ids, err := r.LocationIDs(promotion.ID)
	if err != nil {
		return nil, err
	}
	promotion.LocationIDs = ids
	return &promotion, nil
}

// FindByRegistrationID returns the newest schedule first.
func (r *promotionRepository) FindByRegistrationID(registrationID uuid.UUID) ([]model.BusinessPromotion, error) {
	var promotions []model.BusinessPromotion
	if err := r.db.
		Where("registration_id = ?", registrationID).
		Order("starts_at DESC").
		Order("created_at DESC").
		Find(&promotions).Error; err != nil {
		logger.Error("Failed to list promotions", err, map[string]interface{}{
			"registration_id": registrationID,
		})
		return nil, err
	}

	if err := r.attachLocationIDs(promotions); err != nil {
		return nil, err
	}
	return promotions, nil
}

// FindForLocation returns the promotions that apply at a location: every
// business scoped promotion of its registration plus those bound to it.
func (r *promotionRepository) FindForLocation(registrationID, locationID uuid.UUID) ([]model.BusinessPromotion, error) {
	bound := r.db.Model(&model.BusinessPromotionLocation{}).
		Select("promotion_id").
		Where("location_id = ?", locationID)

	var promotions []model.BusinessPromotion
	if err := r.db.
		Where("registration_id = ?", registrationID).
		Where("scope = ? OR id IN (?)", model.PromotionScopeBusiness, bound).
		Order("starts_at DESC").
		Order("created_at DESC").
		Find(&promotions).Error; err != nil {
		logger.Error("Failed to list location promotions", err, map[string]interface{}{
			"location_id": locationID,
		})
		return nil, err
	}

	if err := r.attachLocationIDs(promotions); err != nil {
		return nil, err
	}
	return promotions, nil
}

func (r *promotionRepository) attachLocationIDs(promotions []model.BusinessPromotion) error {
	if len(promotions) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(promotions))
	for i := range promotions {
		ids[i] = promotions[i].ID
	}

	var links []model.BusinessPromotionLocation
	if err := r.db.
		Where("promotion_id IN ?", ids).
		Order("created_at ASC").
		Find(&links).Error; err != nil {
		logger.Error("Failed to load promotion locations", err, map[string]interface{}{
			"promotions": len(ids),
		})
		return err
	}

	byPromotion := make(map[uuid.UUID][]uuid.UUID, len(promotions))
	for _, link := range links {
		byPromotion[link.PromotionID] = append(byPromotion[link.PromotionID], link.LocationID)
	}
	for i := range promotions {
		promotions[i].LocationIDs = byPromotion[promotions[i].ID]
		if promotions[i].LocationIDs == nil {
			promotions[i].LocationIDs = []uuid.UUID{}
		}
	}
	return nil
}

func (r *promotionRepository) Update(promotion *model.BusinessPromotion) error {
	if err := r.db.Save(promotion).Error; err != nil {
		logger.Error("Failed to update promotion in database", err, map[string]interface{}{
			"promotion_id": promotion.ID,
		})
		return err
	}
	return nil
}

func (r *promotionRepository) Delete(promotion *model.BusinessPromotion) error {
	if err := r.DeleteLocations(promotion.ID); err != nil {
		return err
	}
	if err := r.db.Delete(promotion).Error; err != nil {
		logger.Error("Failed to delete promotion from database", err, map[string]interface{}{
			"promotion_id": promotion.ID,
		})
		return err
	}
	return nil
}

// ReplaceLocations drops all links of the promotion and inserts locationIDs.
// Ownership of the ids is checked by the caller.
func (r *promotionRepository) ReplaceLocations(promotionID uuid.UUID, locationIDs []uuid.UUID) error {
	if err := r.DeleteLocations(promotionID); err != nil {
		return err
	}
	if len(locationIDs) == 0 {
		return nil
	}

	links := make([]model.BusinessPromotionLocation, len(locationIDs))
	for i, id := range locationIDs {
		links[i] = model.BusinessPromotionLocation{PromotionID: promotionID, LocationID: id}
	}
	if err := r.db.Create(&links).Error; err != nil {
		logger.Error("Failed to link promotion locations", err, map[string]interface{}{
			"promotion_id": promotionID,
			"count":        len(locationIDs),
		})
		return err
	}
	return nil
}

func (r *promotionRepository) DeleteLocations(promotionID uuid.UUID) error {
	if err := r.db.
		Where("promotion_id = ?", promotionID).
		Delete(&model.BusinessPromotionLocation{}).Error; err != nil {
		logger.Error("Failed to unlink promotion locations", err, map[string]interface{}{
			"promotion_id": promotionID,
		})
		return err
	}
	return nil
}

func (r *promotionRepository) LocationIDs(promotionID uuid.UUID) ([]uuid.UUID, error) {
	var links []model.BusinessPromotionLocation
	if err := r.db.
		Where("promotion_id = ?", promotionID).
		Order("created_at ASC").
		Find(&links).Error; err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(links))
	for i, link := range links {
		ids[i] = link.LocationID
	}
	return ids, nil
}
