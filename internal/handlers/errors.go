package handlers

import (
	"context"

	"influmatch_backend/internal/docstore"
	"influmatch_backend/internal/identity"
	"influmatch_backend/internal/messages"
	"influmatch_backend/internal/models"
	"influmatch_backend/internal/services"
	"influmatch_backend/pkg/apperrors"
)

var identityErrors = map[string]*apperrors.AppError{
	identity.ErrInvalidEmail.Code:      apperrors.ErrInvalidEmail,
	identity.ErrWeakPassword.Code:      apperrors.ErrWeakPassword,
	identity.ErrEmailAlreadyInUse.Code: apperrors.ErrEmailAlreadyInUse,
	identity.ErrUserNotFound.Code:      apperrors.ErrUserNotFound,
	identity.ErrWrongPassword.Code:     apperrors.ErrWrongPassword,
	identity.ErrInvalidToken.Code:      apperrors.ErrInvalidToken,
	identity.ErrSessionExpired.Code:    apperrors.ErrSessionExpired,
}

// toAppError переводит ошибку сервиса в AppError с сообщением на языке запроса
func toAppError(ctx context.Context, err error) *apperrors.AppError {
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}

	var base *apperrors.AppError
	msgErr := err
	switch {
	case identity.CodeOf(err) != "":
		base = identityErrors[identity.CodeOf(err)]
	case apperrors.Is(err, services.ErrProfileNotFound), apperrors.Is(err, docstore.ErrNotFound):
		base = apperrors.ErrProfileNotFound
		msgErr = services.ErrProfileNotFound
	case apperrors.Is(err, services.ErrInvalidRole):
		base = apperrors.ErrInvalidUserRole
	case apperrors.Is(err, services.ErrStoreUnavailable):
		base = apperrors.ErrStoreUnavailable
	case apperrors.Is(err, models.ErrMalformedProfile):
		base = apperrors.InternalError(err)
	}
	if base == nil {
		base = apperrors.InternalError(err)
	}

	return base.WithError(err).WithMessage(messages.Translate(msgErr, messages.LanguageFromContext(ctx)))
}
