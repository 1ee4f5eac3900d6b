package main

import (
	"log"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"cleanops/internal/auth"
	"cleanops/internal/cache"
	"cleanops/internal/config"
	"cleanops/internal/db"
	"cleanops/internal/handler"
	"cleanops/internal/model"
	"cleanops/internal/repository"
	"cleanops/internal/router"
	"cleanops/internal/service"
)

// @title Cleanops API
// @version 1.0
// @description Cleaning services management API with role-based access and resilient session resolution.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.ServiceRequest{},
			&model.LoyaltyRecord{},
			&model.Location{},
			&model.Discount{},
			&model.Profile{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.Profile{},
		&model.Location{},
		&model.Discount{},
		&model.LoyaltyRecord{},
		&model.ServiceRequest{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(gormDB)
	serviceRepo := repository.NewServiceRequestRepository(gormDB)
	discountRepo := repository.NewDiscountRepository(gormDB)
	loyaltyRepo := repository.NewLoyaltyRepository(gormDB)
	locationRepo := repository.NewLocationRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(profileRepo, jwtService, tokenStore)
	profileService := service.NewProfileService(profileRepo, cacheClient)
	serviceRequestService := service.NewServiceRequestService(serviceRepo, discountRepo, loyaltyRepo, locationRepo)
	discountService := service.NewDiscountService(discountRepo)
	locationService := service.NewLocationService(locationRepo)
	loyaltyService := service.NewLoyaltyService(loyaltyRepo)
	reportService := service.NewReportService(serviceRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, profileRepo, cacheClient, cfg)
	profileHandler := handler.NewProfileHandler(profileService, authService)
	serviceHandler := handler.NewServiceHandler(serviceRequestService)
	discountHandler := handler.NewDiscountHandler(discountService)
	locationHandler := handler.NewLocationHandler(locationService)
	loyaltyHandler := handler.NewLoyaltyHandler(loyaltyService)
	reportHandler := handler.NewReportHandler(reportService)
	seedHandler := handler.NewSeedHandler(discountService)

	profileResolver := router.ProfileResolver(authService, profileRepo, cacheClient, cfg)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		profileHandler,
		serviceHandler,
		discountHandler,
		locationHandler,
		loyaltyHandler,
		reportHandler,
		seedHandler,
		profileResolver,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
