package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/workflowlive/request-tracker/docs"
	"github.com/workflowlive/request-tracker/internal/api/handler"
	"github.com/workflowlive/request-tracker/internal/api/middleware"
	"github.com/workflowlive/request-tracker/internal/core/service"
	mongodb "github.com/workflowlive/request-tracker/internal/infrastructure/db/mongo"
	"github.com/workflowlive/request-tracker/internal/ws"
)

// RouterDeps carries the externally-owned dependencies the router wires
// together. The broadcaster is the publish side of the fan-out channel; the
// hub is its session registry.
type RouterDeps struct {
	DB          *mongo.Database
	Redis       *redis.Client
	Hub         *ws.Hub
	Broadcaster service.Broadcaster
	Notifier    service.Notifier
	JWTSecret   string
	TokenTTL    time.Duration
	Logger      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("tracker"))

	// --- Dependencies ---
	authRepo := mongodb.NewAuthRepository(d.DB)
	authService := service.NewAuthService(authRepo, d.JWTSecret, d.TokenTTL)
	authHandler := handler.NewAuthHandler(authService)

	recordRepo := mongodb.NewRecordRepository(d.DB)
	recordService := service.NewRecordService(recordRepo, d.Broadcaster, d.Notifier, d.Logger)
	recordHandler := handler.NewRecordHandler(recordService)
	wsHandler := handler.NewWSHandler(recordService, d.Hub, d.JWTSecret, d.Logger)

	auth := middleware.Auth(d.JWTSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Record routes ---
	records := e.Group("/records", auth)
	records.GET("", recordHandler.List, middleware.RBAC(middleware.OpListRecords))
	records.POST("", recordHandler.Create, middleware.RBAC(middleware.OpCreateRecord))

	// --- Fan-out channel (token checked during handshake, not via middleware) ---
	e.GET("/ws", wsHandler.Serve)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.DB, d.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
