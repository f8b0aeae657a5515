package dto

import (
	"time"

	"iskort_backend/internal/models"
)

// RegisterRequest - регистрация в любой роли; роль берётся из пути
type RegisterRequest struct {
	Name            string                 `json:"name" validate:"required,min=2,max=120"`
	Email           string                 `json:"email" validate:"required,email"`
	Password        string                 `json:"password" validate:"required,min=6"`
	PhoneNum        string                 `json:"phone_num" validate:"omitempty,max=32"`
	NotifPreference models.NotifPreference `json:"notif_preference" validate:"omitempty,is-notif-preference"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AccountResponse - публичное представление аккаунта (без хеша пароля)
type AccountResponse struct {
	ID              uint                   `json:"id"`
	Name            string                 `json:"name"`
	Email           string                 `json:"email"`
	PhoneNum        string                 `json:"phone_num"`
	NotifPreference models.NotifPreference `json:"notif_preference"`
	Role            models.Role            `json:"role"`
	Status          models.AccountStatus   `json:"status"`
	IsVerified      bool                   `json:"is_verified"`
	CreatedAt       time.Time              `json:"created_at"`
}

type RegisterResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	User    AccountResponse `json:"user"`
}

type LoginResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	User    AccountResponse `json:"user"`
	Token   string          `json:"token"`
}

func AccountFromModel(acc *models.Account) AccountResponse {
	return AccountResponse{
		ID:              acc.ID,
		Name:            acc.Name,
		Email:           acc.Email,
		PhoneNum:        acc.PhoneNum,
		NotifPreference: acc.NotifPreference,
		Role:            acc.Role,
		Status:          acc.Status,
		IsVerified:      acc.IsVerified,
		CreatedAt:       acc.CreatedAt,
	}
}

func AccountFromRegistration(reg *models.Registration) AccountResponse {
	return AccountResponse{
		ID:              reg.ID,
		Name:            reg.Name,
		Email:           reg.Email,
		PhoneNum:        reg.PhoneNum,
		NotifPreference: reg.NotifPreference,
		Role:            reg.Role,
		Status:          reg.Status,
		IsVerified:      reg.IsVerified,
		CreatedAt:       reg.CreatedAt,
	}
}
