package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/damoang/angple-notes/docs"
	"github.com/damoang/angple-notes/internal/config"
	"github.com/damoang/angple-notes/internal/handler"
	"github.com/damoang/angple-notes/internal/middleware"
	"github.com/damoang/angple-notes/internal/migration"
	"github.com/damoang/angple-notes/internal/repository"
	"github.com/damoang/angple-notes/internal/routes"
	"github.com/damoang/angple-notes/internal/service"
	"github.com/damoang/angple-notes/pkg/jwt"
	pkglogger "github.com/damoang/angple-notes/pkg/logger"
	pkgredis "github.com/damoang/angple-notes/pkg/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// @title           Notes API
// @version         1.0
// @description     Personal notes with search, tags and archiving
//
// @host            localhost:3000
// @BasePath        /api
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

const serviceName = "angple-notes"

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv(".")

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pkglogger.InitStructured(cfg.Env, serviceName)
	pkglogger.SetLevel(cfg.Log.Level)
	pkglogger.Info("APP_ENV=%s, config=%s, loaded env files: %v", cfg.Env, configPath, dotenvFiles)
	if cfg.UsesDevSecret() {
		pkglogger.Warn("JWT_SECRET not set, using the insecure development secret")
	}

	// MySQL 연결
	db, err := initDB(cfg)
	if err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("failed to connect to database")
	}
	pkglogger.Info("Connected to MySQL %s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if err := migration.Run(db); err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("schema bootstrap failed")
	}

	// Redis 연결 (optional)
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = pkgredis.NewClient(context.Background(),
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Redis.PoolSize,
		)
		if err != nil {
			pkglogger.Warn("Failed to connect to Redis: %v (continuing without rate limiting)", err)
			redisClient = nil
		} else {
			pkglogger.Info("Connected to Redis")
		}
	}

	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn, cfg.JWT.RefreshIn)

	// Repositories → services → handlers
	noteService := service.NewNoteService(repository.NewNoteRepository(db))
	authService := service.NewAuthService(repository.NewUserRepository(db), jwtManager, cfg.Auth.BcryptCost)

	noteHandler := handler.NewNoteHandler(noteService)
	authHandler := handler.NewAuthHandler(authService)
	healthHandler := handler.NewHealthHandler(serviceName, db)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins(),
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics())

	routes.Setup(router, noteHandler, authHandler, healthHandler, jwtManager, redisClient, cfg)

	go reportPoolStats(db)

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		pkglogger.Info("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			pkglogger.GetLogger().Fatal().Err(err).Msg("server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	pkglogger.Info("Received %s, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		pkglogger.Error("Server forced to shutdown: %v", err)
	}

	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	pkglogger.Info("Server exited")
}

// initDB MySQL 연결 초기화
func initDB(cfg *config.Config) (*gorm.DB, error) {
	mysqlCfg, err := mysqldriver.ParseDSN(cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	logLevel := gormlogger.Warn
	if cfg.IsDevelopment() {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(mysqlCfg.FormatDSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}
	return db, nil
}

// reportPoolStats feeds the db_connections_open gauge
func reportPoolStats(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		middleware.SetDBConnectionsOpen(sqlDB.Stats().OpenConnections)
	}
}
