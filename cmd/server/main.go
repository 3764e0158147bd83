package main

import (
	"log"
	"net/http"

	_ "recipebox/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"recipebox/internal/auth"
	"recipebox/internal/cache"
	"recipebox/internal/config"
	"recipebox/internal/db"
	"recipebox/internal/handler"
	"recipebox/internal/model"
	"recipebox/internal/repository"
	"recipebox/internal/router"
	"recipebox/internal/service"
)

// @title Recipe Management API
// @version 1.0
// @description Multi-tenant recipe management API with tags, ingredients, image upload and token authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Tag{},
		&model.Ingredient{},
		&model.Recipe{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	tagRepo := repository.NewTagRepository(gormDB)
	ingredientRepo := repository.NewIngredientRepository(gormDB)
	recipeRepo := repository.NewRecipeRepository(gormDB)

	// Initialize auth components
	tokenStore := auth.NewTokenStore(cacheClient)
	tokenService := auth.NewTokenService(cfg.TokenSecret, tokenStore, userRepo)

	// Initialize services
	userService := service.NewUserService(userRepo)
	tagService := service.NewTagService(tagRepo)
	ingredientService := service.NewIngredientService(ingredientRepo)
	recipeService := service.NewRecipeService(recipeRepo, cfg.MediaDir)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userService, tokenService)
	recipeHandler := handler.NewRecipeHandler(recipeService)
	tagHandler := handler.NewTagHandler(tagService)
	ingredientHandler := handler.NewIngredientHandler(ingredientService)

	// Register routes
	router.Register(
		e,
		cfg,
		tokenService,
		userHandler,
		recipeHandler,
		tagHandler,
		ingredientHandler,
	)

	if cfg.SwaggerHost != "" {
		log.Printf("Swagger documentation available at: %s/swagger/index.html", cfg.SwaggerHost)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
