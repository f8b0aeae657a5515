package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "iskort_backend/docs"
	"iskort_backend/internal/handlers"
	"iskort_backend/internal/logger"
)

// StaticMount - каталог локального хранилища, раздаваемый как статика
type StaticMount struct {
	URLPath string
	Dir     string
}

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers, static *StaticMount) {
	appHandlers.SystemHandler.RegisterRoutes(ginRouter)

	api := ginRouter.Group("/api")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.AdminHandler.RegisterRoutes(api)
		appHandlers.OwnerHandler.RegisterRoutes(api)
		appHandlers.EateryHandler.RegisterRoutes(api)
		appHandlers.HousingHandler.RegisterRoutes(api)
		appHandlers.FoodHandler.RegisterRoutes(api)
		appHandlers.FacilityHandler.RegisterRoutes(api)
		appHandlers.ReviewHandler.RegisterRoutes(api)
		appHandlers.UploadHandler.RegisterRoutes(api)
	}

	if static != nil && static.Dir != "" {
		ginRouter.Static(static.URLPath, static.Dir)
		logger.Info("Static uploads mounted", "url", static.URLPath, "dir", static.Dir)
	}

	ginRouter.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
