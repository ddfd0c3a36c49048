package handlers

import (
	"errors"
	"net/http"

	"influmatch_backend/internal/logger"
	"influmatch_backend/internal/services"
	"influmatch_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	*BaseHandler
	resolver services.ResolverService
}

func NewSessionHandler(base *BaseHandler, resolver services.ResolverService) *SessionHandler {
	return &SessionHandler{
		BaseHandler: base,
		resolver:    resolver,
	}
}

func (h *SessionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	session := rg.Group("/session")
	session.Use(h.OptionalAuth())
	{
		session.GET("/destination", h.GetDestination)
	}
}

// GetDestination - всегда 200, любой сбой дает needs_auth
func (h *SessionHandler) GetDestination(c *gin.Context) {
	dest, err := h.resolver.Resolve(c.Request.Context())
	if err != nil && errors.Is(err, c.Request.Context().Err()) {
		// клиент ушел, отвечать некому
		logger.CtxDebug(c.Request.Context(), "destination request cancelled")
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, dto.DestinationResponse{Destination: dest})
}
