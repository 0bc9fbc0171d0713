package service

import (
	"github.com/google/uuid"
	"github.com/ikkim/bizreview-backend/internal/app/model"
	"github.com/ikkim/bizreview-backend/internal/app/repository"
)

// BusinessService reads the businesses materialized by approvals.
type BusinessService interface {
	GetByID(id uuid.UUID) (*model.Business, error)
	ListForOwner(ownerUserID uuid.UUID) ([]model.Business, error)
}

type businessService struct {
	businessRepo repository.BusinessRepository
}

func NewBusinessService(businessRepo repository.BusinessRepository) BusinessService {
	return &businessService{businessRepo: businessRepo}
}

func (s *businessService) GetByID(id uuid.UUID) (*model.Business, error) {
	business, err := s.businessRepo.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, ErrBusinessNotFound)
	}
	return business, nil
}

func (s *businessService) ListForOwner(ownerUserID uuid.UUID) ([]model.Business, error) {
	businesses, err := s.businessRepo.FindByOwnerUserID(ownerUserID)
	if err != nil {
		return nil, persistence(err)
	}
	return businesses, nil
}
