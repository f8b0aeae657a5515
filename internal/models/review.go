package models

const (
	MinRating = 1
	MaxRating = 5
)

type EateryReview struct {
	BaseModel
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	EateryID uint   `gorm:"not null;index" json:"eatery_id"`
	Rating   int    `gorm:"not null;check:chk_eatery_review_rating,rating >= 1 AND rating <= 5" json:"rating"`
	Comment  string `gorm:"type:text" json:"comment"`
}

type HousingReview struct {
	BaseModel
	UserID    uint   `gorm:"not null;index" json:"user_id"`
	HousingID uint   `gorm:"not null;index" json:"housing_id"`
	Rating    int    `gorm:"not null;check:chk_housing_review_rating,rating >= 1 AND rating <= 5" json:"rating"`
	Comment   string `gorm:"type:text" json:"comment"`
}
