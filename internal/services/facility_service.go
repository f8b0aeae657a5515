package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"iskort_backend/internal/models"
	"iskort_backend/internal/repositories"
	"iskort_backend/internal/services/dto"
	"iskort_backend/pkg/apperrors"
)

// FacilityService - удобства жилья
type FacilityService interface {
	Create(ctx context.Context, db *gorm.DB, ownerID uint, req *dto.CreateFacilityRequest) (*models.Facility, error)
	Get(ctx context.Context, db *gorm.DB, id uint) (*models.Facility, error)
	ListByHousing(ctx context.Context, db *gorm.DB, housingID uint) ([]models.Facility, error)
	Update(ctx context.Context, db *gorm.DB, ownerID, id uint, req *dto.UpdateFacilityRequest) (*models.Facility, error)
	Delete(ctx context.Context, db *gorm.DB, ownerID, id uint) error
}

type facilityService struct {
	facilityRepo repositories.FacilityRepository
	housingRepo  repositories.HousingRepository
}

func NewFacilityService(facilityRepo repositories.FacilityRepository, housingRepo repositories.HousingRepository) FacilityService {
	return &facilityService{facilityRepo: facilityRepo, housingRepo: housingRepo}
}

func (s *facilityService) Create(ctx context.Context, db *gorm.DB, ownerID uint, req *dto.CreateFacilityRequest) (*models.Facility, error) {
	db = db.WithContext(ctx)
	if err := s.checkHousingOwner(db, ownerID, req.HousingID); err != nil {
		return nil, err
	}

	facility := &models.Facility{
		HousingID:   req.HousingID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Photo:       req.Photo,
	}
	if err := s.facilityRepo.Create(db, facility); err != nil {
		return nil, apperrors.ErrDatabase(err, "facility")
	}
	return facility, nil
}

func (s *facilityService) Get(ctx context.Context, db *gorm.DB, id uint) (*models.Facility, error) {
	facility, err := s.facilityRepo.FindByID(db.WithContext(ctx), id)
	if err != nil {
		if errors.Is(err, repositories.ErrFacilityNotFound) {
			return nil, apperrors.ErrNotFound(err, "facility")
		}
		return nil, apperrors.ErrDatabase(err, "facility")
	}
	return facility, nil
}

func (s *facilityService) ListByHousing(ctx context.Context, db *gorm.DB, housingID uint) ([]models.Facility, error) {
	db = db.WithContext(ctx)
	if _, err := s.housingRepo.FindByID(db, housingID); err != nil {
		return nil, mapLoadError(err, "housing")
	}
	facilities, err := s.facilityRepo.FindByHousing(db, housingID)
	if err != nil {
		return nil, apperrors.ErrDatabase(err, "facility")
	}
	return facilities, nil
}

func (s *facilityService) Update(ctx context.Context, db *gorm.DB, ownerID, id uint, req *dto.UpdateFacilityRequest) (*models.Facility, error) {
	facility, err := s.Get(ctx, db, id)
	if err != nil {
		return nil, err
	}
	db = db.WithContext(ctx)
	if err := s.checkHousingOwner(db, ownerID, facility.HousingID); err != nil {
		return nil, err
	}

	if err := s.facilityRepo.Update(db, id, req.Fields()); err != nil {
		if errors.Is(err, repositories.ErrFacilityNotFound) {
			return nil, apperrors.ErrNotFound(err, "facility")
		}
		return nil, apperrors.ErrDatabase(err, "facility")
	}
	return s.Get(ctx, db, id)
}

func (s *facilityService) Delete(ctx context.Context, db *gorm.DB, ownerID, id uint) error {
	facility, err := s.Get(ctx, db, id)
	if err != nil {
		return err
	}
	db = db.WithContext(ctx)
	if err := s.checkHousingOwner(db, ownerID, facility.HousingID); err != nil {
		return err
	}

	if err := s.facilityRepo.Delete(db, id); err != nil {
		if errors.Is(err, repositories.ErrFacilityNotFound) {
			return apperrors.ErrNotFound(err, "facility")
		}
		return apperrors.ErrDatabase(err, "facility")
	}
	return nil
}

func (s *facilityService) checkHousingOwner(db *gorm.DB, ownerID, housingID uint) error {
	housing, err := s.housingRepo.FindByID(db, housingID)
	if err != nil {
		return mapLoadError(err, "housing")
	}
	if housing.OwnerID != ownerID {
		return apperrors.ErrNotOwner("housing")
	}
	return nil
}
