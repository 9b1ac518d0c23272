// Package router assembles the HTTP surface from its collaborators.
package router

import (
	"context"
	"time"

	"task-tracker/internal/auth"
	"task-tracker/internal/cache"
	"task-tracker/internal/config"
	"task-tracker/internal/database"
	"task-tracker/internal/handlers"
	"task-tracker/internal/middleware"
	"task-tracker/internal/monitoring"
	"task-tracker/internal/repositories"
	"task-tracker/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Dependencies struct {
	Config        *config.Config
	TaskService   services.TaskService
	AuthService   services.AuthService
	Authenticator handlers.Authenticator
	Tokens        *auth.TokenManager
	Metrics       *monitoring.Metrics
	Health        *monitoring.HealthChecker
	// RateLimiter is optional.
	RateLimiter *middleware.RateLimiter
}

func Build(cfg *config.Config, pool *database.DatabasePool, userCache cache.Cache) *gin.Engine {
	hasher := auth.NewPasswordHasher(cfg.Auth.BCryptCost)
	tokens := auth.NewTokenManager(auth.TokenConfig{
		Secret: cfg.Auth.JWTSecret,
		Issuer: cfg.Auth.Issuer,
		TTL:    cfg.Auth.TokenTTL,
	})

	authService := services.NewAuthService(repositories.NewUserRepository(pool.DB), hasher, userCache, cfg.Cache.UserTTL)
	taskService := services.NewTaskService(repositories.NewTaskRepository(pool.DB))

	metrics := monitoring.NewMetrics()
	metrics.RegisterSource("user_cache", userCache.Stats)
	metrics.RegisterSource("database", pool.Stats)

	health := monitoring.NewHealthChecker(5 * time.Second)
	health.Register("database", true, pool.Health)
	health.Register("user_cache", false, func(ctx context.Context) error {
		return userCache.Health(ctx)
	})

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(middleware.RateLimitConfig{
			RequestsPerMin: cfg.RateLimit.RequestsPerMin,
			BurstSize:      cfg.RateLimit.BurstSize,
		})
	}

	return New(Dependencies{
		Config:        cfg,
		TaskService:   taskService,
		AuthService:   authService,
		Authenticator: auth.NewAuthenticator(authService, hasher),
		Tokens:        tokens,
		Metrics:       metrics,
		Health:        health,
		RateLimiter:   limiter,
	})
}

func New(deps Dependencies) *gin.Engine {
	if deps.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RecoveryWithLog())
	r.Use(middleware.RequestLogger())
	r.Use(corsMiddleware(deps.Config.Server.AllowedOrigins))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware())
	}

	if deps.Health != nil {
		r.GET("/health/live", deps.Health.LivenessHandler())
		r.GET("/health/ready", deps.Health.ReadinessHandler())
	}
	if deps.Metrics != nil {
		r.GET("/metrics", deps.Metrics.Handler())
	}

	api := r.Group("/api")
	if deps.RateLimiter != nil {
		api.Use(deps.RateLimiter.Middleware())
	}

	authHandler := handlers.NewAuthHandler(deps.AuthService, deps.Authenticator, deps.Tokens)
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	taskHandler := handlers.NewTaskHandler(deps.TaskService)
	tasks := api.Group("/tasks")
	tasks.Use(middleware.BearerAuth(deps.Tokens))
	{
		tasks.GET("", taskHandler.GetTasks)
		tasks.GET("/:id", taskHandler.GetTaskByID)
		tasks.POST("", taskHandler.CreateTask)
		tasks.PUT("/:id", taskHandler.UpdateTask)
		tasks.DELETE("/:id", taskHandler.DeleteTask)
	}

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}

	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cors.New(cfg)
		}
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cors.New(cfg)
}
