package routes

import (
	"jobboard_backend/internal/config"
	"jobboard_backend/internal/handlers"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/middleware"
	"jobboard_backend/internal/repositories"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type routeRegistrar interface {
	RegisterRoutes(public, protected *gin.RouterGroup)
}

// RegisterRoutes mounts the API and the operational endpoints.
func RegisterRoutes(
	ginRouter *gin.Engine,
	cfg *config.Config,
	appHandlers *handlers.AppHandlers,
	userRepo repositories.UserRepository,
) {
	ginRouter.GET("/health", appHandlers.HealthHandler.Health)
	ginRouter.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if cfg.Metrics.Enabled {
		ginRouter.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
		logger.Info("Metrics endpoint registered", "path", cfg.Metrics.Path)
	}

	api := ginRouter.Group("/api/v1")
	public := api.Group("", middleware.OptionalAuth(cfg.JWT.Secret))
	protected := api.Group("", middleware.AuthMiddleware(cfg.JWT.Secret, userRepo), middleware.CompanyContextMiddleware())

	for _, h := range []routeRegistrar{
		appHandlers.TeamHandler,
		appHandlers.JobHandler,
		appHandlers.ApplicationHandler,
		appHandlers.LedgerHandler,
		appHandlers.WebhookHandler,
	} {
		h.RegisterRoutes(public, protected)
	}
}
