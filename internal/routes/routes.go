package routes

import (
	"github.com/damoang/angple-notes/internal/config"
	"github.com/damoang/angple-notes/internal/handler"
	"github.com/damoang/angple-notes/internal/middleware"
	"github.com/damoang/angple-notes/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Setup configures all routes. redisClient may be nil, which disables rate limiting.
func Setup(
	router *gin.Engine,
	noteHandler *handler.NoteHandler,
	authHandler *handler.AuthHandler,
	healthHandler *handler.HealthHandler,
	jwtManager *jwt.Manager,
	redisClient *redis.Client,
	cfg *config.Config,
) {
	// Service endpoints
	router.GET("/", healthHandler.Health)
	router.GET("/health", healthHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api",
		middleware.SecurityHeaders(),
		middleware.BodyLimit(cfg.Server.BodyLimit),
	)

	// Authentication endpoints, limited per client IP
	auth := api.Group("/auth", middleware.RateLimit(redisClient, middleware.RateLimitConfig{
		RequestsPerMinute: cfg.RateLimit.AuthRequestsPerMinute,
		KeyPrefix:         "notes:ratelimit:auth:",
	}))
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.GET("/profile", middleware.JWTAuth(jwtManager), authHandler.Profile)

	// Notes (auth required, limited per user)
	notes := api.Group("/notes",
		middleware.JWTAuth(jwtManager),
		middleware.RateLimitPerUser(redisClient, cfg.RateLimit.RequestsPerMinute),
	)
	notes.GET("", noteHandler.ListNotes)
	notes.POST("", noteHandler.CreateNote)
	notes.GET("/:id", noteHandler.GetNote)
	notes.PUT("/:id", noteHandler.UpdateNote)
	notes.PATCH("/:id", noteHandler.UpdateNote)
	notes.DELETE("/:id", noteHandler.DeleteNote)
}
