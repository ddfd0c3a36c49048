package handlers

import (
	"influmatch_backend/internal/logger"
	"influmatch_backend/internal/messages"
	"influmatch_backend/internal/middleware"
	"influmatch_backend/internal/validator"
	"influmatch_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// ============================================================================
// 1. Базовая структура обработчика
// ============================================================================

type BaseHandler struct {
	validator    *validator.Validator
	requireAuth  gin.HandlerFunc
	optionalAuth gin.HandlerFunc
}

func NewBaseHandler(v *validator.Validator, tokens middleware.TokenParser) *BaseHandler {
	return &BaseHandler{
		validator:    v,
		requireAuth:  middleware.AuthMiddleware(tokens),
		optionalAuth: middleware.OptionalAuthMiddleware(tokens),
	}
}

// RequireAuth - middleware для защищенных маршрутов
func (h *BaseHandler) RequireAuth() gin.HandlerFunc {
	return h.requireAuth
}

// OptionalAuth - middleware для маршрутов, где сессия не обязательна
func (h *BaseHandler) OptionalAuth() gin.HandlerFunc {
	return h.optionalAuth
}

// ============================================================================
// 2. Привязка и валидация
// ============================================================================

func (h *BaseHandler) BindAndValidate_JSON(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()
	lang := messages.LanguageFromContext(ctx)

	if err := c.ShouldBindJSON(obj); err != nil {
		logger.CtxWithError(ctx, "Failed to bind JSON body", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError(messages.Message(messages.KeyValidationFailed, lang)).
			WithDetails(err.Error()))
		return false
	}

	if err := h.validator.Validate(obj); err != nil {
		var vErr *validator.ValidationError
		if apperrors.As(err, &vErr) {
			logger.CtxWarn(ctx, "Validation failed", "errors", vErr.Errors, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.ValidationError(vErr.Errors).
				WithMessage(messages.Message(messages.KeyValidationFailed, lang)))
		} else {
			logger.CtxWithError(ctx, "Internal validator error", err, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.InternalError(err))
		}
		return false
	}
	return true
}

// ============================================================================
// 3. Обработка ошибок сервисов
// ============================================================================

func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	appErr := toAppError(ctx, err)
	if appErr.HTTPCode >= 500 {
		logger.CtxWithError(ctx, "Internal server error", err, "path", c.Request.URL.Path)
	} else {
		logger.CtxWarn(ctx, "Service error",
			"code", appErr.Code,
			"error", err.Error(),
			"path", c.Request.URL.Path,
		)
	}
	apperrors.HandleError(c, appErr)
}

// ============================================================================
// 4. Вспомогательные функции
// ============================================================================

func (h *BaseHandler) GetAndAuthorizeUserID(c *gin.Context) (string, bool) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		ctx := c.Request.Context()
		logger.CtxWarn(ctx, "Unauthorized access: userID not found in context",
			"path", c.Request.URL.Path,
			"ip", c.ClientIP(),
		)
		lang := messages.LanguageFromContext(ctx)
		apperrors.HandleError(c, apperrors.NewUnauthorizedError(messages.Message(messages.KeyAuthRequired, lang)))
		return "", false
	}
	return userID, true
}
