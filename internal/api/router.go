package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campusmarket/campus-market/internal/api/handler"
	"github.com/campusmarket/campus-market/internal/api/middleware"
	"github.com/campusmarket/campus-market/internal/core/service"
	"github.com/campusmarket/campus-market/internal/infrastructure/config"
	"github.com/campusmarket/campus-market/internal/infrastructure/db/kvstore"
	mongodb "github.com/campusmarket/campus-market/internal/infrastructure/db/mongo"
	redisdb "github.com/campusmarket/campus-market/internal/infrastructure/db/redis"
	"github.com/campusmarket/campus-market/pkg/logger"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config) *echo.Echo {
	log := logger.Get()

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("campus_market"))

	// --- Dependencies ---
	kv := redisdb.NewStore(rdb)
	idx := kvstore.NewIndexMaintainer(kv, log)

	listingRepo := kvstore.NewListingRepository(kv, idx, log)
	messageRepo := kvstore.NewMessageRepository(kv, idx, log)
	profileRepo := kvstore.NewProfileRepository(kv)
	accountRepo := mongodb.NewAccountRepository(db)

	listingService := service.NewListingService(listingRepo, log)
	messageService := service.NewMessageService(messageRepo, listingRepo, log)
	profileService := service.NewProfileService(profileRepo, log)
	authService := service.NewAuthService(accountRepo, profileRepo, cfg.EmailDomain, cfg.JWTSecret, cfg.TokenTTL, log)

	listingHandler := handler.NewListingHandler(listingService)
	messageHandler := handler.NewMessageHandler(messageService)
	profileHandler := handler.NewProfileHandler(profileService)
	authHandler := handler.NewAuthHandler(authService)

	authRequired := middleware.Auth(cfg.JWTSecret)

	// --- Auth routes ---
	e.POST("/signup", authHandler.Signup)
	e.POST("/login", authHandler.Login)

	// --- Listing routes ---
	e.GET("/listings", listingHandler.List)
	e.GET("/listings/:id", listingHandler.Get)
	e.POST("/listings", listingHandler.Create, authRequired)
	e.PUT("/listings/:id", listingHandler.Update, authRequired)
	e.DELETE("/listings/:id", listingHandler.Delete, authRequired)
	e.GET("/my-listings", listingHandler.Mine, authRequired)

	// --- Message routes ---
	e.POST("/messages", messageHandler.Send, authRequired)
	e.GET("/messages/:listingId/:otherUserId", messageHandler.Conversation, authRequired)

	// --- Profile routes ---
	e.GET("/profile", profileHandler.Get, authRequired)
	e.POST("/subscription", profileHandler.UpdateSubscription, authRequired)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(rdb, db)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
