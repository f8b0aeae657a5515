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

// FoodService - блюда в меню заведения; менять может только владелец заведения
type FoodService interface {
	Create(ctx context.Context, db *gorm.DB, ownerID uint, req *dto.CreateFoodRequest) (*models.Food, error)
	Get(ctx context.Context, db *gorm.DB, id uint) (*models.Food, error)
	ListByEatery(ctx context.Context, db *gorm.DB, eateryID uint) ([]models.Food, error)
	Update(ctx context.Context, db *gorm.DB, ownerID, id uint, req *dto.UpdateFoodRequest) (*models.Food, error)
	Delete(ctx context.Context, db *gorm.DB, ownerID, id uint) error
}

type foodService struct {
	foodRepo   repositories.FoodRepository
	eateryRepo repositories.EateryRepository
}

func NewFoodService(foodRepo repositories.FoodRepository, eateryRepo repositories.EateryRepository) FoodService {
	return &foodService{foodRepo: foodRepo, eateryRepo: eateryRepo}
}

func (s *foodService) Create(ctx context.Context, db *gorm.DB, ownerID uint, req *dto.CreateFoodRequest) (*models.Food, error) {
	db = db.WithContext(ctx)
	if err := s.checkEateryOwner(db, ownerID, req.EateryID); err != nil {
		return nil, err
	}

	food := &models.Food{
		EateryID:       req.EateryID,
		Name:           strings.TrimSpace(req.Name),
		Classification: req.Classification,
		Price:          req.Price,
		Photo:          req.Photo,
	}
	if err := s.foodRepo.Create(db, food); err != nil {
		return nil, apperrors.ErrDatabase(err, "food")
	}
	return food, nil
}

func (s *foodService) Get(ctx context.Context, db *gorm.DB, id uint) (*models.Food, error) {
	food, err := s.foodRepo.FindByID(db.WithContext(ctx), id)
	if err != nil {
		if errors.Is(err, repositories.ErrFoodNotFound) {
			return nil, apperrors.ErrNotFound(err, "food")
		}
		return nil, apperrors.ErrDatabase(err, "food")
	}
	return food, nil
}

func (s *foodService) ListByEatery(ctx context.Context, db *gorm.DB, eateryID uint) ([]models.Food, error) {
	db = db.WithContext(ctx)
	if _, err := s.eateryRepo.FindByID(db, eateryID); err != nil {
		return nil, mapLoadError(err, "eatery")
	}
	foods, err := s.foodRepo.FindByEatery(db, eateryID)
	if err != nil {
		return nil, apperrors.ErrDatabase(err, "food")
	}
	return foods, nil
}

func (s *foodService) Update(ctx context.Context, db *gorm.DB, ownerID, id uint, req *dto.UpdateFoodRequest) (*models.Food, error) {
	food, err := s.Get(ctx, db, id)
	if err != nil {
		return nil, err
	}
	db = db.WithContext(ctx)
	if err := s.checkEateryOwner(db, ownerID, food.EateryID); err != nil {
		return nil, err
	}

	if err := s.foodRepo.Update(db, id, req.Fields()); err != nil {
		if errors.Is(err, repositories.ErrFoodNotFound) {
			return nil, apperrors.ErrNotFound(err, "food")
		}
		return nil, apperrors.ErrDatabase(err, "food")
	}
	return s.Get(ctx, db, id)
}

func (s *foodService) Delete(ctx context.Context, db *gorm.DB, ownerID, id uint) error {
	food, err := s.Get(ctx, db, id)
	if err != nil {
		return err
	}
	db = db.WithContext(ctx)
	if err := s.checkEateryOwner(db, ownerID, food.EateryID); err != nil {
		return err
	}

	if err := s.foodRepo.Delete(db, id); err != nil {
		if errors.Is(err, repositories.ErrFoodNotFound) {
			return apperrors.ErrNotFound(err, "food")
		}
		return apperrors.ErrDatabase(err, "food")
	}
	return nil
}

func (s *foodService) checkEateryOwner(db *gorm.DB, ownerID, eateryID uint) error {
	eatery, err := s.eateryRepo.FindByID(db, eateryID)
	if err != nil {
		return mapLoadError(err, "eatery")
	}
	if eatery.OwnerID != ownerID {
		return apperrors.ErrNotOwner("eatery")
	}
	return nil
}
