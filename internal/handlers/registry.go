package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	SystemHandler   *SystemHandler
	AuthHandler     *AuthHandler
	AdminHandler    *AdminHandler
	OwnerHandler    *OwnerHandler
	EateryHandler   *EateryHandler
	HousingHandler  *HousingHandler
	FoodHandler     *FoodHandler
	FacilityHandler *FacilityHandler
	ReviewHandler   *ReviewHandler
	UploadHandler   *UploadHandler
}
