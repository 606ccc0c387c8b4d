package main

import (
	"fmt"
	"log"
	"net/http"

	"carpool/internal/config"
	"carpool/internal/handlers"
	"carpool/internal/middleware"
	"carpool/internal/repositories/mongodb"
	"carpool/internal/services"
	"carpool/pkg/cache"
	"carpool/pkg/database"
	"carpool/pkg/logger"
	"carpool/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:      logger.LogLevel(cfg.App.LogLevel),
		Format:     "json",
		Output:     "stdout",
		TimeFormat: "2006-01-02T15:04:05Z07:00",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Connect to MongoDB and run migrations
	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Close()

	if err := database.NewMigrator(db.Database).Up(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis is optional: a failed connection disables caching instead of
	// refusing to start.
	var cacheService services.CacheService
	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		appLogger.WithError(err).Warn("Redis unavailable, caching disabled")
	} else {
		defer redisCache.Close()
		cacheService = services.NewCacheService(redisCache, appLogger)
	}

	// Repositories
	userRepo := mongodb.NewUserRepository(db.Database)
	rideRepo := mongodb.NewRideRepository(db.Database, cacheService)
	bookingRepo := mongodb.NewBookingRepository(db.Database)
	reviewRepo := mongodb.NewReviewRepository(db.Database, cacheService)

	// Services
	authService := services.NewAuthService(userRepo, cfg.Security.JWTSecret, appLogger)
	userService := services.NewUserService(userRepo, appLogger)
	rideService := services.NewRideService(rideRepo, userRepo, appLogger)
	bookingService := services.NewBookingService(bookingRepo, rideRepo, userRepo, appLogger)
	reviewService := services.NewReviewService(reviewRepo, rideRepo, userRepo, appLogger)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	rideHandler := handlers.NewRideHandler(rideService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	reviewHandler := handlers.NewReviewHandler(reviewService)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(appLogger))

	// API routes
	api := router.Group("/api")
	{
		routes.SetupAuthRoutes(api, authHandler)
		routes.SetupUserRoutes(api, userHandler, cfg.Security.JWTSecret)
		routes.SetupRideRoutes(api, rideHandler, cfg.Security.JWTSecret)
		routes.SetupBookingRoutes(api, bookingHandler, cfg.Security.JWTSecret)
		routes.SetupReviewRoutes(api, reviewHandler, cfg.Security.JWTSecret)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": cfg.App.Version,
		})
	})

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	appLogger.WithField("addr", addr).Info("Starting server")
	log.Fatal(http.ListenAndServe(addr, router))
}
