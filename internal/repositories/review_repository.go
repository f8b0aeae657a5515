package repositories

import (
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"iskort_backend/internal/models"
)

var ErrReviewNotFound = errors.New("review not found")

// ReviewEntry - отзыв любого типа в общем виде (для ленты пользователя)
type ReviewEntry struct {
	ID          uint
	ListingKind models.SubjectKind
	ListingID   uint
	UserID      uint
	Rating      int
	Comment     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ReviewRepository interface {
	CreateEateryReview(db *gorm.DB, review *models.EateryReview) error
	FindEateryReview(db *gorm.DB, id uint) (*models.EateryReview, error)
	ListEateryReviews(db *gorm.DB, eateryID *uint) ([]models.EateryReview, error)
	UpdateEateryReview(db *gorm.DB, id uint, fields map[string]interface{}) error
	DeleteEateryReview(db *gorm.DB, id uint) error

	CreateHousingReview(db *gorm.DB, review *models.HousingReview) error
	FindHousingReview(db *gorm.DB, id uint) (*models.HousingReview, error)
	ListHousingReviews(db *gorm.DB, housingID *uint) ([]models.HousingReview, error)
	UpdateHousingReview(db *gorm.DB, id uint, fields map[string]interface{}) error
	DeleteHousingReview(db *gorm.DB, id uint) error

	ListByUser(db *gorm.DB, userID uint) ([]ReviewEntry, error)
}

type ReviewRepositoryImpl struct{}

func NewReviewRepository() ReviewRepository {
	return &ReviewRepositoryImpl{}
}

// --- Eatery reviews ---

func (r *ReviewRepositoryImpl) CreateEateryReview(db *gorm.DB, review *models.EateryReview) error {
	return db.Create(review).Error
}

func (r *ReviewRepositoryImpl) FindEateryReview(db *gorm.DB, id uint) (*models.EateryReview, error) {
	var review models.EateryReview
	if err := db.Take(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) ListEateryReviews(db *gorm.DB, eateryID *uint) ([]models.EateryReview, error) {
	q := db.Order("created_at DESC")
	if eateryID != nil {
		q = q.Where("eatery_id = ?", *eateryID)
	}
	var reviews []models.EateryReview
	err := q.Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepositoryImpl) UpdateEateryReview(db *gorm.DB, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return db.Model(&models.EateryReview{}).Where("id = ?", id).Updates(fields).Error
}

func (r *ReviewRepositoryImpl) DeleteEateryReview(db *gorm.DB, id uint) error {
	result := db.Delete(&models.EateryReview{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

// --- Housing reviews ---

func (r *ReviewRepositoryImpl) CreateHousingReview(db *gorm.DB, review *models.HousingReview) error {
	return db.Create(review).Error
}

func (r *ReviewRepositoryImpl) FindHousingReview(db *gorm.DB, id uint) (*models.HousingReview, error) {
	var review models.HousingReview
	if err := db.Take(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) ListHousingReviews(db *gorm.DB, housingID *uint) ([]models.HousingReview, error) {
	q := db.Order("created_at DESC")
	if housingID != nil {
		q = q.Where("housing_id = ?", *housingID)
	}
	var reviews []models.HousingReview
	err := q.Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepositoryImpl) UpdateHousingReview(db *gorm.DB, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return db.Model(&models.HousingReview{}).Where("id = ?", id).Updates(fields).Error
}

func (r *ReviewRepositoryImpl) DeleteHousingReview(db *gorm.DB, id uint) error {
	result := db.Delete(&models.HousingReview{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

// ListByUser объединяет отзывы о заведениях и жилье, новые сверху
func (r *ReviewRepositoryImpl) ListByUser(db *gorm.DB, userID uint) ([]ReviewEntry, error) {
	var eateryReviews []models.EateryReview
	if err := db.Where("user_id = ?", userID).Find(&eateryReviews).Error; err != nil {
		return nil, err
	}
	var housingReviews []models.HousingReview
	if err := db.Where("user_id = ?", userID).Find(&housingReviews).Error; err != nil {
		return nil, err
	}

	entries := make([]ReviewEntry, 0, len(eateryReviews)+len(housingReviews))
	for _, rv := range eateryReviews {
		entries = append(entries, ReviewEntry{
			ID: rv.ID, ListingKind: models.KindEatery, ListingID: rv.EateryID, UserID: rv.UserID,
			Rating: rv.Rating, Comment: rv.Comment, CreatedAt: rv.CreatedAt, UpdatedAt: rv.UpdatedAt,
		})
	}
	for _, rv := range housingReviews {
		entries = append(entries, ReviewEntry{
			ID: rv.ID, ListingKind: models.KindHousing, ListingID: rv.HousingID, UserID: rv.UserID,
			Rating: rv.Rating, Comment: rv.Comment, CreatedAt: rv.CreatedAt, UpdatedAt: rv.UpdatedAt,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}
