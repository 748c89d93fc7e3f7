package main

import (
	"log"
	"net/http"

	_ "blogapi/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"blogapi/internal/auth"
	"blogapi/internal/cache"
	"blogapi/internal/config"
	"blogapi/internal/db"
	"blogapi/internal/handler"
	"blogapi/internal/model"
	"blogapi/internal/repository"
	"blogapi/internal/router"
	"blogapi/internal/service"
)

// @title Blog API
// @version 1.0
// @description Blogging API with JWT authentication, author-owned posts, and pagination.
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

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Post{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)

	// Initialize services
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)
	authService := service.NewAuthService(userRepo, jwtService)
	postService := service.NewPostService(postRepo, categoryRepo, cacheClient)
	categoryService := service.NewCategoryService(categoryRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	postHandler := handler.NewPostHandler(postService)
	categoryHandler := handler.NewCategoryHandler(categoryService)

	// Register routes
	router.Register(e, jwtService, authHandler, postHandler, categoryHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
