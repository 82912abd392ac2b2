package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/launchbase/accounts-api/internal/api/handler"
	"github.com/launchbase/accounts-api/internal/api/middleware"
	"github.com/launchbase/accounts-api/internal/core/authz"
	"github.com/launchbase/accounts-api/internal/core/service"
	mongodb "github.com/launchbase/accounts-api/internal/infrastructure/db/mongo"
	redisdb "github.com/launchbase/accounts-api/internal/infrastructure/db/redis"
	"github.com/launchbase/accounts-api/pkg/logger"
)

// RouterConfig carries the runtime settings the router wires into services.
type RouterConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg RouterConfig, audit *logger.Audit) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("accounts"))

	// --- Dependencies ---
	identities := mongodb.NewIdentityRepository(db)
	profiles := mongodb.NewProfileRepository(db)
	avatars := mongodb.NewAvatarStorage(db)
	sessions := redisdb.NewRevocationStore(rdb)

	policy := authz.NewPolicy(audit)
	nav := authz.DefaultNavigation()

	authService := service.NewAuthService(identities, profiles, sessions, policy, audit, cfg.JWTSecret, cfg.TokenTTL)
	profileService := service.NewProfileService(profiles, avatars, audit)

	e.HTTPErrorHandler = NewHTTPErrorHandler(authService, audit)

	authHandler := handler.NewAuthHandler(authService, cfg.TokenTTL)
	profileHandler := handler.NewProfileHandler(profileService, policy)
	avatarHandler := handler.NewAvatarHandler(avatars)
	navHandler := handler.NewNavHandler(nav)
	adminHandler := handler.NewAdminHandler(profileService)

	// Every request resolves its session; gating happens per route group.
	e.Use(middleware.Session(authService))
	requireAuth := middleware.RequireAuth(policy)
	requireAdmin := middleware.RequireAdmin(policy)

	// --- Auth routes ---
	e.POST("/auth/signup", authHandler.SignUp)
	e.POST("/auth/signin", authHandler.SignIn)
	e.POST("/auth/signout", authHandler.SignOut)

	// --- Public routes ---
	e.GET("/navigation", navHandler.Links)
	e.GET("/avatars/:id", avatarHandler.Serve)

	// --- Authenticated routes ---
	profileGroup := e.Group("/profile", requireAuth)
	profileGroup.GET("", profileHandler.Get)
	profileGroup.PATCH("", profileHandler.Update)
	profileGroup.POST("/avatar", profileHandler.UploadAvatar)
	profileGroup.DELETE("/avatar", profileHandler.DeleteAvatar)

	// --- Admin routes (auth check always runs before the role check) ---
	adminGroup := e.Group("/admin", requireAuth, requireAdmin)
	adminGroup.GET("/users", adminHandler.ListUsers)

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
