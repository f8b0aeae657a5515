package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"iskort_backend/database"
	"iskort_backend/internal/auth"
	"iskort_backend/internal/config"
	"iskort_backend/internal/handlers"
	"iskort_backend/internal/imageprocessor"
	"iskort_backend/internal/logger"
	"iskort_backend/internal/middleware"
	"iskort_backend/internal/notify"
	"iskort_backend/internal/repositories"
	"iskort_backend/internal/routes"
	"iskort_backend/internal/services"
	"iskort_backend/internal/storage"
	"iskort_backend/internal/validator"
	"iskort_backend/pkg/apperrors"
)

const shutdownTimeout = 15 * time.Second

// Deps - всё, что создаётся один раз при старте и передаётся дальше
type Deps struct {
	Config     *config.Config
	DB         *gorm.DB
	Dispatcher notify.Dispatcher
	Storage    storage.Storage
}

func Run() {
	cfg, err := config.LoadConfig()
	if err != nil {
		// логгер ещё не настроен, пишем в дефолтный
		logger.Fatal("Failed to load config", "error", err)
	}

	logger.Init(cfg.Server.Env)
	apperrors.SetDebug(cfg.IsDevelopment())
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	db, err := database.Open(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}
	logger.Info("Database connected")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	notifier, err := buildNotifier(ctx, cfg, db)
	if err != nil {
		logger.Fatal("Failed to initialize notifications", "error", err)
	}

	store, err := storage.NewStorage(storageConfig(cfg))
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	deps := Deps{Config: cfg, DB: db, Dispatcher: notifier.dispatcher, Storage: store}
	container := BuildServices(deps)

	if err := seedFirstAdmin(ctx, db, cfg, container.AuthService); err != nil {
		logger.Fatal("Failed to seed first admin", "error", err)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           SetupRouter(deps, container),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	// доставки, начатые до остановки, успевают завершиться
	notifier.close()

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("Server stopped")
}

// BuildServices собирает репозитории и сервисы
func BuildServices(deps Deps) *services.ServiceContainer {
	cfg := deps.Config

	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWTTTL())

	accountRepo := repositories.NewAccountRepository()
	eateryRepo := repositories.NewEateryRepository()
	housingRepo := repositories.NewHousingRepository()
	foodRepo := repositories.NewFoodRepository()
	facilityRepo := repositories.NewFacilityRepository()
	reviewRepo := repositories.NewReviewRepository()
	notificationRepo := repositories.NewNotificationRepository()

	processor := imageprocessor.NewProcessor(cfg.Upload.MaxDimension, cfg.Upload.ImageQuality, cfg.Upload.MaxPixels)

	return &services.ServiceContainer{
		AuthService:         services.NewAuthService(accountRepo, tokenManager),
		AccountService:      services.NewAccountService(accountRepo, eateryRepo, housingRepo),
		VerificationService: services.NewVerificationService(accountRepo, eateryRepo, housingRepo, deps.Dispatcher),
		EateryService:       services.NewEateryService(eateryRepo),
		HousingService:      services.NewHousingService(housingRepo),
		FoodService:         services.NewFoodService(foodRepo, eateryRepo),
		FacilityService:     services.NewFacilityService(facilityRepo, housingRepo),
		ReviewService:       services.NewReviewService(reviewRepo, eateryRepo, housingRepo),
		NotificationService: services.NewNotificationService(notificationRepo),
		UploadService: services.NewUploadService(deps.Storage, processor, services.UploadConfig{
			MaxFileSize:  cfg.Upload.MaxSize,
			MaxPixels:    cfg.Upload.MaxPixels,
			AllowedTypes: cfg.Upload.AllowedTypes,
		}),
		TokenManager: tokenManager,
	}
}

// SetupRouter собирает gin.Engine со всеми маршрутами
func SetupRouter(deps Deps, container *services.ServiceContainer) *gin.Engine {
	appHandlers := initializeHandlers(deps, container)

	ginRouter := initializeGinRouter(deps)

	var static *routes.StaticMount
	if local, ok := deps.Storage.(*storage.LocalStorage); ok {
		static = &routes.StaticMount{URLPath: "/uploads", Dir: local.BasePath()}
	}
	routes.RegisterRoutes(ginRouter, appHandlers, static)

	return ginRouter
}

func initializeHandlers(deps Deps, container *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator, middleware.AuthMiddleware(container.TokenManager))

	return &handlers.AppHandlers{
		SystemHandler:   handlers.NewSystemHandler(baseHandler),
		AuthHandler:     handlers.NewAuthHandler(baseHandler, container.AuthService),
		AdminHandler:    handlers.NewAdminHandler(baseHandler, container.AccountService, container.VerificationService, container.NotificationService),
		OwnerHandler:    handlers.NewOwnerHandler(baseHandler, container.AccountService),
		EateryHandler:   handlers.NewEateryHandler(baseHandler, container.EateryService),
		HousingHandler:  handlers.NewHousingHandler(baseHandler, container.HousingService),
		FoodHandler:     handlers.NewFoodHandler(baseHandler, container.FoodService),
		FacilityHandler: handlers.NewFacilityHandler(baseHandler, container.FacilityService),
		ReviewHandler:   handlers.NewReviewHandler(baseHandler, container.ReviewService),
		UploadHandler:   handlers.NewUploadHandler(baseHandler, container.UploadService, deps.Config.Upload.MaxSize),
	}
}

func initializeGinRouter(deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(deps.Config.Server.CORSOrigins))
	router.Use(middleware.DBMiddleware(deps.DB))
	return router
}

func storageConfig(cfg *config.Config) storage.Config {
	return storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		BaseURL:   cfg.Storage.BaseURL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
	}
}

func seedFirstAdmin(ctx context.Context, db *gorm.DB, cfg *config.Config, authService services.AuthService) error {
	if cfg.FirstAdmin.Email == "" || cfg.FirstAdmin.Password == "" {
		logger.Warn("first_admin email or password is not set. Skipping admin seeding.")
		return nil
	}

	created, err := authService.SeedFirstAdmin(ctx, db, cfg.FirstAdmin.Name, cfg.FirstAdmin.Email, cfg.FirstAdmin.Password)
	if err != nil {
		return err
	}
	if created {
		logger.Info("Created first admin", "email", cfg.FirstAdmin.Email)
	} else {
		logger.Info("Admin already exists. Skipping creation.")
	}
	return nil
}
