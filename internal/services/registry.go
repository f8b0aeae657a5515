package services

import "iskort_backend/internal/auth"

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService         AuthService
	AccountService      AccountService
	VerificationService VerificationService
	EateryService       EateryService
	HousingService      HousingService
	FoodService         FoodService
	FacilityService     FacilityService
	ReviewService       ReviewService
	NotificationService NotificationService
	UploadService       UploadService
	TokenManager        *auth.TokenManager
}
