package dto

import (
	"time"

	"iskort_backend/internal/models"
)

// Рейтинг проверяется в сервисе, чтобы ответ был InvalidRating, а не общий validation error
type CreateEateryReviewRequest struct {
	EateryID uint   `json:"eatery_id" validate:"required"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment" validate:"omitempty,max=2000"`
}

type CreateHousingReviewRequest struct {
	HousingID uint   `json:"housing_id" validate:"required"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment" validate:"omitempty,max=2000"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

func (r *UpdateReviewRequest) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	setField(fields, "rating", r.Rating)
	setField(fields, "comment", r.Comment)
	return fields
}

// UserReview - элемент объединённой ленты отзывов пользователя
type UserReview struct {
	ID          uint               `json:"id"`
	ListingKind models.SubjectKind `json:"listing_kind"`
	ListingID   uint               `json:"listing_id"`
	UserID      uint               `json:"user_id"`
	Rating      int                `json:"rating"`
	Comment     string             `json:"comment"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}
