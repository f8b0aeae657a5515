package dto

import (
	"time"

	"iskort_backend/internal/models"
)

// AccountListQuery - фильтры списка аккаунтов в админке
type AccountListQuery struct {
	Role   models.Role          `form:"role" validate:"omitempty,is-account-role"`
	Status models.AccountStatus `form:"status" validate:"omitempty,oneof=pending pending_email pending_admin verified"`
}

// AccountSummary - строка объединённого списка аккаунтов
type AccountSummary struct {
	ID              uint                   `json:"id"`
	Name            string                 `json:"name"`
	Email           string                 `json:"email"`
	Phone           string                 `json:"phone"`
	NotifPreference models.NotifPreference `json:"notif_preference"`
	Role            models.Role            `json:"role"`
	Status          models.AccountStatus   `json:"status"`
	IsVerified      bool                   `json:"is_verified"`
	CreatedAt       time.Time              `json:"created_at"`
	SourceTable     string                 `json:"source_table"`
}

// OwnerResponse - публичная карточка владельца
type OwnerResponse struct {
	ID        uint             `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	PhoneNum  string           `json:"phone_num"`
	CreatedAt time.Time        `json:"created_at"`
	Eateries  []models.Eatery  `json:"eateries,omitempty"`
	Housings  []models.Housing `json:"housings,omitempty"`
}

func OwnerFromModel(owner *models.Owner) OwnerResponse {
	return OwnerResponse{
		ID:        owner.ID,
		Name:      owner.Name,
		Email:     owner.Email,
		PhoneNum:  owner.PhoneNum,
		CreatedAt: owner.CreatedAt,
		Eateries:  owner.Eateries,
		Housings:  owner.Housings,
	}
}
