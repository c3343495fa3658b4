// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"plateyard/internal/domain/plate"
	"plateyard/internal/infrastructure/http/v1/handlers"
	"plateyard/internal/infrastructure/http/v1/middleware"
	"plateyard/internal/infrastructure/storage/postgres"
	"plateyard/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Service is the plate catalog engine.
	Service *plate.Service

	// Pool is the database pool for readiness checks; nil in in-memory mode.
	Pool *postgres.Pool

	// Logger for request logging.
	Logger *logger.Logger
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	base := handlers.NewBaseHandler()
	plateHandler := handlers.NewPlateHandler(base, cfg.Service)

	api := router.Group("/api/v1")
	{
		api.GET("/plates", plateHandler.List)
		api.POST("/plates/:id", plateHandler.Add)
		api.POST("/plates/:id/reserve", plateHandler.Reserve)
		api.POST("/plates/:id/release", plateHandler.Release)
	}

	return router
}
