package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/farmconnect/marketplace-api/docs"
	"github.com/farmconnect/marketplace-api/internal/api/handler"
	"github.com/farmconnect/marketplace-api/internal/api/middleware"
	"github.com/farmconnect/marketplace-api/internal/core/service"
	"github.com/farmconnect/marketplace-api/internal/infrastructure/config"
	mongodb "github.com/farmconnect/marketplace-api/internal/infrastructure/db/mongo"
	redisdb "github.com/farmconnect/marketplace-api/internal/infrastructure/db/redis"
	"github.com/farmconnect/marketplace-api/internal/infrastructure/queue"
)

// NewRouter builds the Echo instance with all routes registered and returns
// it together with the audit dispatcher, which the caller must Start.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) (*echo.Echo, *queue.Dispatcher) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("farmconnect"))

	// --- Dependencies ---
	accountRepo := mongodb.NewAccountRepository(db)
	contractRepo := mongodb.NewContractRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)
	incidents := redisdb.NewIncidentStore(rdb)

	auditService := service.NewAuditService(auditRepo, incidents, log)
	dispatcher := queue.NewDispatcher(0, auditService, log)

	authService := service.NewAuthService(accountRepo, service.TokenConfig{
		AccessSecret:  cfg.Auth.AccessSecret,
		AccessTTL:     cfg.Auth.AccessTTL,
		RefreshSecret: cfg.Auth.RefreshSecret,
		RefreshTTL:    cfg.Auth.RefreshTTL,
	}, dispatcher, log)
	contractService := service.NewContractService(contractRepo, log)

	authHandler := handler.NewAuthHandler(authService, handler.CookieConfig{
		Secure:     cfg.CookieSecureFlag(),
		Domain:     cfg.Auth.CookieDomain,
		AccessTTL:  cfg.Auth.AccessTTL,
		RefreshTTL: cfg.Auth.RefreshTTL,
	})
	accountHandler := handler.NewAccountHandler(accountRepo)
	auditHandler := handler.NewAuditHandler(auditRepo, incidents)
	contractHandler := handler.NewContractHandler(contractService)

	authn := middleware.Auth(authService)

	// --- Auth routes ---
	users := e.Group("/v1/users")
	users.POST("/register", authHandler.Register)
	users.POST("/login", authHandler.Login)
	users.POST("/refresh-token", authHandler.Refresh) // valid access token not required
	users.POST("/logout", authHandler.Logout, authn)

	// --- Admin routes ---
	accounts := e.Group("/v1/accounts", authn, middleware.RequireAdmin())
	accounts.GET("", accountHandler.List)
	accounts.PATCH("/:id/activate", accountHandler.Activate)

	audit := e.Group("/v1/audit", authn, middleware.RequireAdmin())
	audit.GET("/events", auditHandler.List)

	// --- Contract routes ---
	contracts := e.Group("/v1/contracts", authn)
	contracts.POST("", contractHandler.Create, middleware.RequireCompany())
	contracts.GET("", contractHandler.List)
	contracts.GET("/:id", contractHandler.Get)
	contracts.POST("/:id/accept", contractHandler.Accept, middleware.RequireFarmer())
	contracts.POST("/:id/status", contractHandler.Advance, middleware.RequireCompany())

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e, dispatcher
}
