package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"iskort_backend/internal/logger"
	"iskort_backend/internal/models"
	"iskort_backend/internal/repositories"
	"iskort_backend/internal/services/dto"
	"iskort_backend/pkg/apperrors"
)

type ReviewService interface {
	// Eatery reviews
	CreateEateryReview(ctx context.Context, db *gorm.DB, userID uint, req *dto.CreateEateryReviewRequest) (*models.EateryReview, error)
	GetEateryReview(ctx context.Context, db *gorm.DB, id uint) (*models.EateryReview, error)
	ListEateryReviews(ctx context.Context, db *gorm.DB, eateryID *uint) ([]models.EateryReview, error)
	UpdateEateryReview(ctx context.Context, db *gorm.DB, userID, id uint, req *dto.UpdateReviewRequest) (*models.EateryReview, error)
	DeleteEateryReview(ctx context.Context, db *gorm.DB, userID, id uint) error

	// Housing reviews
	CreateHousingReview(ctx context.Context, db *gorm.DB, userID uint, req *dto.CreateHousingReviewRequest) (*models.HousingReview, error)
	GetHousingReview(ctx context.Context, db *gorm.DB, id uint) (*models.HousingReview, error)
	ListHousingReviews(ctx context.Context, db *gorm.DB, housingID *uint) ([]models.HousingReview, error)
	UpdateHousingReview(ctx context.Context, db *gorm.DB, userID, id uint, req *dto.UpdateReviewRequest) (*models.HousingReview, error)
	DeleteHousingReview(ctx context.Context, db *gorm.DB, userID, id uint) error

	ListByUser(ctx context.Context, db *gorm.DB, userID uint) ([]dto.UserReview, error)
}

type reviewService struct {
	reviewRepo  repositories.ReviewRepository
	eateryRepo  repositories.EateryRepository
	housingRepo repositories.HousingRepository
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	eateryRepo repositories.EateryRepository,
	housingRepo repositories.HousingRepository,
) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		eateryRepo:  eateryRepo,
		housingRepo: housingRepo,
	}
}

func checkRating(rating int) error {
	if rating < models.MinRating || rating > models.MaxRating {
		return apperrors.ErrInvalidRating(rating)
	}
	return nil
}

func checkUpdate(req *dto.UpdateReviewRequest) error {
	if req.Rating != nil {
		return checkRating(*req.Rating)
	}
	return nil
}

func mapReviewError(err error) error {
	if errors.Is(err, repositories.ErrReviewNotFound) {
		return apperrors.ErrNotFound(err, "review")
	}
	return apperrors.ErrDatabase(err, "review")
}

// ---------------- Eatery reviews ----------------

func (s *reviewService) CreateEateryReview(ctx context.Context, db *gorm.DB, userID uint, req *dto.CreateEateryReviewRequest) (*models.EateryReview, error) {
	if err := checkRating(req.Rating); err != nil {
		return nil, err
	}

	db = db.WithContext(ctx)
	if _, err := s.eateryRepo.FindByID(db, req.EateryID); err != nil {
		return nil, mapLoadError(err, "eatery")
	}

	review := &models.EateryReview{
		UserID:   userID,
		EateryID: req.EateryID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	}
	if err := s.reviewRepo.CreateEateryReview(db, review); err != nil {
		return nil, apperrors.ErrDatabase(err, "review")
	}

	logger.CtxInfo(ctx, "Eatery review created", "review_id", review.ID, "eatery_id", req.EateryID)
	return review, nil
}

func (s *reviewService) GetEateryReview(ctx context.Context, db *gorm.DB, id uint) (*models.EateryReview, error) {
	review, err := s.reviewRepo.FindEateryReview(db.WithContext(ctx), id)
	if err != nil {
		return nil, mapReviewError(err)
	}
	return review, nil
}

func (s *reviewService) ListEateryReviews(ctx context.Context, db *gorm.DB, eateryID *uint) ([]models.EateryReview, error) {
	reviews, err := s.reviewRepo.ListEateryReviews(db.WithContext(ctx), eateryID)
	if err != nil {
		return nil, apperrors.ErrDatabase(err, "review")
	}
	return reviews, nil
}

func (s *reviewService) UpdateEateryReview(ctx context.Context, db *gorm.DB, userID, id uint, req *dto.UpdateReviewRequest) (*models.EateryReview, error) {
	if err := checkUpdate(req); err != nil {
		return nil, err
	}

	review, err := s.GetEateryReview(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if review.UserID != userID {
		return nil, apperrors.ErrNotOwner("review")
	}

	if err := s.reviewRepo.UpdateEateryReview(db.WithContext(ctx), id, req.Fields()); err != nil {
		return nil, mapReviewError(err)
	}
	return s.GetEateryReview(ctx, db, id)
}

func (s *reviewService) DeleteEateryReview(ctx context.Context, db *gorm.DB, userID, id uint) error {
	review, err := s.GetEateryReview(ctx, db, id)
	if err != nil {
		return err
	}
	if review.UserID != userID {
		return apperrors.ErrNotOwner("review")
	}

	if err := s.reviewRepo.DeleteEateryReview(db.WithContext(ctx), id); err != nil {
		return mapReviewError(err)
	}
	return nil
}

// ---------------- Housing reviews ----------------

func (s *reviewService) CreateHousingReview(ctx context.Context, db *gorm.DB, userID uint, req *dto.CreateHousingReviewRequest) (*models.HousingReview, error) {
	if err := checkRating(req.Rating); err != nil {
		return nil, err
	}

	db = db.WithContext(ctx)
	if _, err := s.housingRepo.FindByID(db, req.HousingID); err != nil {
		return nil, mapLoadError(err, "housing")
	}

	review := &models.HousingReview{
		UserID:    userID,
		HousingID: req.HousingID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.reviewRepo.CreateHousingReview(db, review); err != nil {
		return nil, apperrors.ErrDatabase(err, "review")
	}

	logger.CtxInfo(ctx, "Housing review created", "review_id", review.ID, "housing_id", req.HousingID)
	return review, nil
}

func (s *reviewService) GetHousingReview(ctx context.Context, db *gorm.DB, id uint) (*models.HousingReview, error) {
	review, err := s.reviewRepo.FindHousingReview(db.WithContext(ctx), id)
	if err != nil {
		return nil, mapReviewError(err)
	}
	return review, nil
}

func (s *reviewService) ListHousingReviews(ctx context.Context, db *gorm.DB, housingID *uint) ([]models.HousingReview, error) {
	reviews, err := s.reviewRepo.ListHousingReviews(db.WithContext(ctx), housingID)
	if err != nil {
		return nil, apperrors.ErrDatabase(err, "review")
	}
	return reviews, nil
}

func (s *reviewService) UpdateHousingReview(ctx context.Context, db *gorm.DB, userID, id uint, req *dto.UpdateReviewRequest) (*models.HousingReview, error) {
	if err := checkUpdate(req); err != nil {
		return nil, err
	}

	review, err := s.GetHousingReview(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if review.UserID != userID {
		return nil, apperrors.ErrNotOwner("review")
	}

	if err := s.reviewRepo.UpdateHousingReview(db.WithContext(ctx), id, req.Fields()); err != nil {
		return nil, mapReviewError(err)
	}
	return s.GetHousingReview(ctx, db, id)
}

func (s *reviewService) DeleteHousingReview(ctx context.Context, db *gorm.DB, userID, id uint) error {
	review, err := s.GetHousingReview(ctx, db, id)
	if err != nil {
		return err
	}
	if review.UserID != userID {
		return apperrors.ErrNotOwner("review")
	}

	if err := s.reviewRepo.DeleteHousingReview(db.WithContext(ctx), id); err != nil {
		return mapReviewError(err)
	}
	return nil
}

// ListByUser - лента всех отзывов пользователя, новые сверху
func (s *reviewService) ListByUser(ctx context.Context, db *gorm.DB, userID uint) ([]dto.UserReview, error) {
	entries, err := s.reviewRepo.ListByUser(db.WithContext(ctx), userID)
	if err != nil {
		return nil, apperrors.ErrDatabase(err, "review")
	}

	reviews := make([]dto.UserReview, 0, len(entries))
	for _, e := range entries {
		reviews = append(reviews, dto.UserReview{
			ID:          e.ID,
			ListingKind: e.ListingKind,
			ListingID:   e.ListingID,
			UserID:      e.UserID,
			Rating:      e.Rating,
			Comment:     e.Comment,
			CreatedAt:   e.CreatedAt,
			UpdatedAt:   e.UpdatedAt,
		})
	}
	return reviews, nil
}
