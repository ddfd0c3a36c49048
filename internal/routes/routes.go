package routes

import (
	"influmatch_backend/internal/handlers"
	"influmatch_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers) {
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.HealthHandler.RegisterRoutes(api)
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.SessionHandler.RegisterRoutes(api)
		appHandlers.ProfileHandler.RegisterRoutes(api)
	}
	logger.Info("HTTP routes registered", "prefix", "/api/v1")
}
