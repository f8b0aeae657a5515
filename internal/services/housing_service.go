package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"iskort_backend/internal/logger"
	"iskort_backend/internal/models"
	"iskort_backend/internal/repositories"
	"iskort_backend/internal/services/dto"
	"iskort_backend/pkg/apperrors"
)

type HousingService interface {
	Create(ctx context.Context, db *gorm.DB, ownerID uint, req *dto.CreateHousingRequest) (*models.Housing, error)
	Get(ctx context.Context, db *gorm.DB, id uint) (*models.Housing, error)
	List(ctx context.Context, db *gorm.DB, query dto.ListingQuery, page dto.Pagination) ([]models.Housing, int64, error)
	Update(ctx context.Context, db *gorm.DB, ownerID, id uint, req *dto.UpdateHousingRequest) (*models.Housing, error)
	Delete(ctx context.Context, db *gorm.DB, ownerID, id uint) error
}

type housingService struct {
	housingRepo repositories.HousingRepository
}

func NewHousingService(housingRepo repositories.HousingRepository) HousingService {
	return &housingService{housingRepo: housingRepo}
}

func (s *housingService) Create(ctx context.Context, db *gorm.DB, ownerID uint, req *dto.CreateHousingRequest) (*models.Housing, error) {
	housing := &models.Housing{
		OwnerID:       ownerID,
		Name:          strings.TrimSpace(req.Name),
		Address:       strings.TrimSpace(req.Address),
		RentPrice:     req.RentPrice,
		RoomCount:     req.RoomCount,
		ContactNumber: req.ContactNumber,
		Curfew:        req.Curfew,
		Description:   req.Description,
		Photo:         req.Photo,
		Verification: models.Verification{
			Status:     models.ListingStatusPending,
			IsVerified: false,
		},
	}

	db = db.WithContext(ctx)
	if err := s.housingRepo.Create(db, housing); err != nil {
		return nil, apperrors.ErrDatabase(err, "housing")
	}

	logger.CtxInfo(ctx, "Housing created", "housing_id", housing.ID, "owner_id", ownerID)
	return s.Get(ctx, db, housing.ID)
}

func (s *housingService) Get(ctx context.Context, db *gorm.DB, id uint) (*models.Housing, error) {
	housing, err := s.housingRepo.FindByID(db.WithContext(ctx), id)
	if err != nil {
		if errors.Is(err, repositories.ErrHousingNotFound) {
			return nil, apperrors.ErrNotFound(err, "housing")
		}
		return nil, apperrors.ErrDatabase(err, "housing")
	}
	return housing, nil
}

func (s *housingService) List(ctx context.Context, db *gorm.DB, query dto.ListingQuery, page dto.Pagination) ([]models.Housing, int64, error) {
	housings, total, err := s.housingRepo.List(db.WithContext(ctx), repositories.ListingFilter{
		OwnerID:  query.OwnerID,
		Verified: query.Verified,
		Search:   query.Search,
		Limit:    page.Limit,
		Offset:   page.Offset(),
	})
	if err != nil {
		return nil, 0, apperrors.ErrDatabase(err, "housing")
	}
	return housings, total, nil
}

func (s *housingService) Update(ctx context.Context, db *gorm.DB, ownerID, id uint, req *dto.UpdateHousingRequest) (*models.Housing, error) {
	housing, err := s.owned(ctx, db, ownerID, id)
	if err != nil {
		return nil, err
	}
	if !housing.IsVerified {
		return nil, apperrors.ErrListingNotVerified("housing")
	}

	if err := s.housingRepo.Update(db.WithContext(ctx), id, req.Fields()); err != nil {
		return nil, apperrors.ErrDatabase(err, "housing")
	}
	return s.Get(ctx, db, id)
}

func (s *housingService) Delete(ctx context.Context, db *gorm.DB, ownerID, id uint) error {
	if _, err := s.owned(ctx, db, ownerID, id); err != nil {
		return err
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted, err := s.housingRepo.Delete(tx, id)
		if err != nil {
			return apperrors.ErrDatabase(err, "housing")
		}
		if !deleted {
			return apperrors.ErrNotFound(nil, "housing")
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.CtxInfo(ctx, "Housing deleted", "housing_id", id, "owner_id", ownerID)
	return nil
}

func (s *housingService) owned(ctx context.Context, db *gorm.DB, ownerID, id uint) (*models.Housing, error) {
	housing, err := s.Get(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if housing.OwnerID != ownerID {
		return nil, apperrors.ErrNotOwner("housing")
	}
	return housing, nil
}
