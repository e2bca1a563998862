package main

import (
	"log"
	"net/http"

	_ "clarifyall/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"clarifyall/internal/auth"
	"clarifyall/internal/cache"
	"clarifyall/internal/config"
	"clarifyall/internal/db"
	"clarifyall/internal/handler"
	"clarifyall/internal/model"
	"clarifyall/internal/notify"
	"clarifyall/internal/repository"
	"clarifyall/internal/router"
	"clarifyall/internal/service"
	"clarifyall/internal/storage"
)

// @title Clarifyall API
// @version 1.0
// @description AI tool directory with submissions, moderation, and saved-tool bookmarks.
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

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.Category{},
		&model.Tool{},
		&model.User{},
		&model.SavedTool{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	blobs := storage.NewDiskStore(cfg.UploadDir)

	var notifier notify.Notifier = notify.Noop{}
	if cfg.AMQPURL != "" {
		notifier = notify.NewAMQPNotifier(cfg.AMQPURL, cfg.FrontendURL)
	}

	// Initialize repositories
	toolRepo := repository.NewToolRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	userRepo := repository.NewUserRepository(gormDB)
	savedRepo := repository.NewSavedToolRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore, notifier)
	toolService := service.NewToolService(toolRepo, categoryRepo, blobs, cacheClient, notifier, cfg.MaxUploadSize)
	categoryService := service.NewCategoryService(categoryRepo)
	userService := service.NewUserService(userRepo, toolRepo, savedRepo, blobs, cfg.MaxUploadSize)

	// Initialize handlers
	toolHandler := handler.NewToolHandler(toolService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	authHandler := handler.NewAuthHandler(authService, userService)
	userHandler := handler.NewUserHandler(userService)

	// Register routes
	router.Register(
		e,
		cfg,
		toolHandler,
		categoryHandler,
		authHandler,
		userHandler,
	)

	if cfg.SwaggerHost != "" {
		log.Printf("Swagger documentation available at: http://%s/swagger/index.html", cfg.SwaggerHost)
	} else {
		log.Printf("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.ServerPort)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server: %v", err)
	}
}
