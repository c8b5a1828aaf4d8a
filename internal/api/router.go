package api

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"

	_ "github.com/stepwise/stepwise-api/docs"
	"github.com/stepwise/stepwise-api/internal/api/handler"
	"github.com/stepwise/stepwise-api/internal/api/middleware"
	"github.com/stepwise/stepwise-api/internal/core/ports"
	"github.com/stepwise/stepwise-api/internal/core/service"
	"github.com/stepwise/stepwise-api/internal/infrastructure/db/postgres"
	"github.com/stepwise/stepwise-api/internal/infrastructure/db/redis"
)

// Dependencies carries everything the router needs to assemble the service
// graph.
type Dependencies struct {
	DB        *sqlx.DB
	Redis     *goredis.Client
	Storage   ports.ObjectStorage
	JWTSecret string
	TokenTTL  time.Duration
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("stepwise"))

	// Repositories and services.
	userRepo := postgres.NewUserRepository(deps.DB)
	demoRepo := postgres.NewDemoRepository(deps.DB)
	stepRepo := postgres.NewStepRepository(deps.DB)
	hotspotRepo := postgres.NewHotspotRepository(deps.DB)
	demoCache := redis.NewDemoCache(deps.Redis, deps.Logger)

	authService := service.NewAuthService(userRepo, deps.JWTSecret, deps.TokenTTL, deps.Logger)
	demoService := service.NewDemoService(demoRepo, stepRepo, hotspotRepo, deps.Storage, demoCache, deps.Logger)
	stepService := service.NewStepService(demoRepo, stepRepo, hotspotRepo, deps.Storage, deps.Logger)
	hotspotService := service.NewHotspotService(demoRepo, stepRepo, hotspotRepo, deps.Logger)

	authHandler := handler.NewAuthHandler(authService)
	demoHandler := handler.NewDemoHandler(demoService)
	stepHandler := handler.NewStepHandler(stepService)
	hotspotHandler := handler.NewHotspotHandler(hotspotService)
	uploadHandler := handler.NewUploadHandler(deps.Storage, deps.Logger)

	requireAuth := middleware.Auth(authService)
	optionalAuth := middleware.OptionalAuth(authService)

	// Health probes and operational endpoints (no auth required).
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.DB, deps.Redis)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// Accounts and sessions.
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	v1 := e.Group("/v1")
	v1.GET("/me", authHandler.Me, requireAuth)
	v1.PATCH("/me", authHandler.UpdateMe, requireAuth)

	// Demos.
	v1.POST("/demos", demoHandler.Create, requireAuth)
	v1.GET("/demos", demoHandler.ListOwn, requireAuth)
	v1.GET("/demos/public", demoHandler.ListPublic)
	v1.GET("/demos/:idOrSlug", demoHandler.Get, optionalAuth)
	v1.GET("/demos/:idOrSlug/steps-detail", demoHandler.GetWithSteps, optionalAuth)
	v1.GET("/demos/:idOrSlug/steps-count", demoHandler.GetWithStepsCount, optionalAuth)
	v1.PATCH("/demos/:id", demoHandler.Update, requireAuth)
	v1.DELETE("/demos/:id", demoHandler.Delete, requireAuth)
	v1.POST("/demos/:id/visibility", demoHandler.ToggleVisibility, requireAuth)
	v1.POST("/demos/:id/duplicate", demoHandler.Duplicate, requireAuth)

	// Steps.
	v1.POST("/demos/:id/steps", stepHandler.Create, requireAuth)
	v1.POST("/demos/:id/steps/with-hotspots", stepHandler.CreateWithHotspots, requireAuth)
	v1.GET("/demos/:id/steps", stepHandler.ListByDemo, optionalAuth)
	v1.PUT("/demos/:id/steps/order", stepHandler.Reorder, requireAuth)
	v1.GET("/steps/:id", stepHandler.Get)
	v1.PATCH("/steps/:id", stepHandler.Update, requireAuth)
	v1.DELETE("/steps/:id", stepHandler.Delete, requireAuth)

	// Hotspots.
	v1.GET("/steps/:id/hotspots", hotspotHandler.ListByStep)
	v1.DELETE("/steps/:id/hotspots", hotspotHandler.DeleteAllForStep, requireAuth)
	v1.POST("/hotspots", hotspotHandler.Create, requireAuth)
	v1.GET("/hotspots/:id", hotspotHandler.Get)
	v1.PATCH("/hotspots/:id", hotspotHandler.Update, requireAuth)
	v1.DELETE("/hotspots/:id", hotspotHandler.Delete, requireAuth)

	// Uploads.
	v1.POST("/uploads/images", uploadHandler.Upload, requireAuth)
	v1.DELETE("/uploads/images", uploadHandler.Delete, requireAuth)

	return e
}
