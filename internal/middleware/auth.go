package middleware

import (
	"context"
	"strings"

	"influmatch_backend/internal/identity"
	"influmatch_backend/internal/logger"
	"influmatch_backend/internal/messages"
	"influmatch_backend/pkg/apperrors"
	"influmatch_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// TokenParser проверяет access-токен и то, что его сессия еще не отозвана
type TokenParser interface {
	ParseAccessToken(token string) (*identity.Claims, error)
	HasActiveSession(ctx context.Context) bool
}

// AuthMiddleware - обязательная авторизация по Bearer-токену
func AuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c)
		if !ok {
			lang := messages.LanguageFromContext(c.Request.Context())
			apperrors.HandleError(c, apperrors.NewUnauthorizedError(messages.Message(messages.KeyAuthRequired, lang)))
			return
		}

		claims, err := tokens.ParseAccessToken(tokenStr)
		if err != nil {
			ctx := c.Request.Context()
			logger.CtxWarn(ctx, "rejected access token", "error", err.Error(), "path", c.Request.URL.Path)
			base := apperrors.ErrInvalidToken
			if identity.CodeOf(err) == identity.ErrSessionExpired.Code {
				base = apperrors.ErrSessionExpired
			}
			apperrors.HandleError(c, base.WithMessage(messages.Translate(err, messages.LanguageFromContext(ctx))))
			return
		}

		attachClaims(c, claims)

		// подпись валидна, но сессия могла быть отозвана (sign-out, refresh)
		ctx := c.Request.Context()
		if !tokens.HasActiveSession(ctx) {
			logger.CtxWarn(ctx, "access token of inactive session", "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.ErrSessionExpired.
				WithMessage(messages.Translate(identity.ErrSessionExpired, messages.LanguageFromContext(ctx))))
			return
		}
		c.Next()
	}
}

// OptionalAuthMiddleware - невалидный или отсутствующий токен означает "нет сессии"
func OptionalAuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenStr, ok := bearerToken(c); ok {
			if claims, err := tokens.ParseAccessToken(tokenStr); err == nil {
				attachClaims(c, claims)
			} else {
				logger.CtxDebug(c.Request.Context(), "ignoring invalid optional token", "error", err.Error())
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return token, token != ""
}

func attachClaims(c *gin.Context, claims *identity.Claims) {
	ctx := identity.WithClaims(c.Request.Context(), claims)
	ctx = logger.WithUserID(ctx, claims.UserID)
	ctx = logger.WithSessionID(ctx, claims.SessionID())
	c.Request = c.Request.WithContext(ctx)

	c.Set(contextkeys.UserIDKey, claims.UserID)
	c.Set(contextkeys.SessionIDKey, claims.SessionID())
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get(contextkeys.UserIDKey)
	if !exists {
		return ""
	}

	id, ok := userID.(string)
	if !ok {
		return ""
	}

	return id
}
