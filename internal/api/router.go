package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jobtrackr/job-trackr/internal/api/handler"
	"github.com/jobtrackr/job-trackr/internal/api/middleware"
	"github.com/jobtrackr/job-trackr/internal/core/service"
	"github.com/jobtrackr/job-trackr/internal/infrastructure/config"
	mongodb "github.com/jobtrackr/job-trackr/internal/infrastructure/db/mongo"
	redisdb "github.com/jobtrackr/job-trackr/internal/infrastructure/db/redis"
	"github.com/jobtrackr/job-trackr/internal/infrastructure/storage"
)

const sessionTTL = 30 * 24 * time.Hour

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("jobtrackr"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Dependencies ---
	applicationRepo := mongodb.NewApplicationRepository(db)
	userRepo := mongodb.NewUserRepository(db)
	uploads := storage.NewUploadStore(cfg.UploadDir)
	flasher := handler.NewFlasher(redisdb.NewFlashStore(rdb))

	applicationService := service.NewApplicationService(applicationRepo, log)
	authService := service.NewAuthService(userRepo, cfg.SessionSecret, sessionTTL)
	profileService := service.NewProfileService(userRepo, uploads, log)

	applicationHandler := handler.NewApplicationHandler(applicationService, flasher)
	authHandler := handler.NewAuthHandler(authService, flasher, sessionTTL)
	profileHandler := handler.NewProfileHandler(profileService, flasher)
	healthHandler := handler.NewHealthHandler(db, rdb)

	// --- Public routes ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	e.GET("/signup", authHandler.SignupForm)
	e.POST("/signup", authHandler.Signup)
	e.GET("/login", authHandler.LoginForm)
	e.POST("/login", authHandler.Login)
	e.GET("/logout", authHandler.Logout)
	e.POST("/logout", authHandler.Logout)

	// Uploaded profile photos are served from here.
	e.Static("/static/uploads", cfg.UploadDir)

	// --- Authenticated routes ---
	auth := e.Group("", middleware.Session(cfg.SessionSecret, authService))
	auth.GET("/", applicationHandler.Dashboard)
	auth.GET("/add", applicationHandler.NewForm)
	auth.POST("/add", applicationHandler.Create)
	auth.GET("/edit/:id", applicationHandler.EditForm)
	auth.POST("/edit/:id", applicationHandler.Update)
	auth.POST("/status/:id", applicationHandler.ChangeStatus)
	auth.POST("/delete/:id", applicationHandler.Delete)
	auth.GET("/profile", profileHandler.View)
	auth.POST("/profile", profileHandler.Update)
	auth.GET("/stats", applicationHandler.Stats)

	return e
}
