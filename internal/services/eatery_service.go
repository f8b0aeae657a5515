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

type EateryService interface {
	Create(ctx context.Context, db *gorm.DB, ownerID uint, req *dto.CreateEateryRequest) (*models.Eatery, error)
	Get(ctx context.Context, db *gorm.DB, id uint) (*models.Eatery, error)
	List(ctx context.Context, db *gorm.DB, query dto.ListingQuery, page dto.Pagination) ([]models.Eatery, int64, error)
	Update(ctx context.Context, db *gorm.DB, ownerID, id uint, req *dto.UpdateEateryRequest) (*models.Eatery, error)
	Delete(ctx context.Context, db *gorm.DB, ownerID, id uint) error
}

type eateryService struct {
	eateryRepo repositories.EateryRepository
}

func NewEateryService(eateryRepo repositories.EateryRepository) EateryService {
	return &eateryService{eateryRepo: eateryRepo}
}

// Create - новое заведение всегда ждёт проверки
func (s *eateryService) Create(ctx context.Context, db *gorm.DB, ownerID uint, req *dto.CreateEateryRequest) (*models.Eatery, error) {
	eatery := &models.Eatery{
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(req.Name),
		Location:    strings.TrimSpace(req.Location),
		OpenTime:    req.OpenTime,
		EndTime:     req.EndTime,
		Description: req.Description,
		Photo:       req.Photo,
		Verification: models.Verification{
			Status:     models.ListingStatusPending,
			IsVerified: false,
		},
	}

	db = db.WithContext(ctx)
	if err := s.eateryRepo.Create(db, eatery); err != nil {
		return nil, apperrors.ErrDatabase(err, "eatery")
	}

	logger.CtxInfo(ctx, "Eatery created", "eatery_id", eatery.ID, "owner_id", ownerID)
	return s.Get(ctx, db, eatery.ID)
}

func (s *eateryService) Get(ctx context.Context, db *gorm.DB, id uint) (*models.Eatery, error) {
	eatery, err := s.eateryRepo.FindByID(db.WithContext(ctx), id)
	if err != nil {
		if errors.Is(err, repositories.ErrEateryNotFound) {
			return nil, apperrors.ErrNotFound(err, "eatery")
		}
		return nil, apperrors.ErrDatabase(err, "eatery")
	}
	return eatery, nil
}

func (s *eateryService) List(ctx context.Context, db *gorm.DB, query dto.ListingQuery, page dto.Pagination) ([]models.Eatery, int64, error) {
	eateries, total, err := s.eateryRepo.List(db.WithContext(ctx), repositories.ListingFilter{
		OwnerID:  query.OwnerID,
		Verified: query.Verified,
		Search:   query.Search,
		Limit:    page.Limit,
		Offset:   page.Offset(),
	})
	if err != nil {
		return nil, 0, apperrors.ErrDatabase(err, "eatery")
	}
	return eateries, total, nil
}

// Update - только владелец и только для подтверждённого заведения
func (s *eateryService) Update(ctx context.Context, db *gorm.DB, ownerID, id uint, req *dto.UpdateEateryRequest) (*models.Eatery, error) {
	eatery, err := s.owned(ctx, db, ownerID, id)
	if err != nil {
		return nil, err
	}
	if !eatery.IsVerified {
		return nil, apperrors.ErrListingNotVerified("eatery")
	}

	if err := s.eateryRepo.Update(db.WithContext(ctx), id, req.Fields()); err != nil {
		return nil, apperrors.ErrDatabase(err, "eatery")
	}
	return s.Get(ctx, db, id)
}

func (s *eateryService) Delete(ctx context.Context, db *gorm.DB, ownerID, id uint) error {
	if _, err := s.owned(ctx, db, ownerID, id); err != nil {
		return err
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted, err := s.eateryRepo.Delete(tx, id)
		if err != nil {
			return apperrors.ErrDatabase(err, "eatery")
		}
		if !deleted {
			return apperrors.ErrNotFound(nil, "eatery")
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.CtxInfo(ctx, "Eatery deleted", "eatery_id", id, "owner_id", ownerID)
	return nil
}

func (s *eateryService) owned(ctx context.Context, db *gorm.DB, ownerID, id uint) (*models.Eatery, error) {
	eatery, err := s.Get(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if eatery.OwnerID != ownerID {
		return nil, apperrors.ErrNotOwner("eatery")
	}
	return eatery, nil
}
