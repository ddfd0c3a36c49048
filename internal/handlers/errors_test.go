package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"influmatch_backend/internal/docstore"
	"influmatch_backend/internal/identity"
	"influmatch_backend/internal/messages"
	"influmatch_backend/internal/models"
	"influmatch_backend/internal/services"
	"influmatch_backend/pkg/apperrors"
)

func TestToAppError(t *testing.T) {
	tr := messages.WithLanguage(context.Background(), language.Turkish)
	en := messages.WithLanguage(context.Background(), language.English)

	tests := []struct {
		name    string
		ctx     context.Context
		err     error
		code    apperrors.ErrorCode
		status  int
		message string
	}{
		{"wrong password tr", tr, identity.ErrWrongPassword, apperrors.CodeWrongPassword, http.StatusUnauthorized, "Yanlış şifre"},
		{"wrong password en", en, identity.ErrWrongPassword, apperrors.CodeWrongPassword, http.StatusUnauthorized, "Wrong password"},
		{"email in use", tr, identity.ErrEmailAlreadyInUse, apperrors.CodeEmailAlreadyInUse, http.StatusConflict, "Bu e-posta adresi zaten kullanımda"},
		{"user not found", en, identity.ErrUserNotFound, apperrors.CodeUserNotFound, http.StatusNotFound, "No user found with this email"},
		{"profile not found", en, services.ErrProfileNotFound, apperrors.CodeProfileNotFound, http.StatusNotFound, "Profile not found"},
		{"document not found", en, docstore.ErrNotFound, apperrors.CodeProfileNotFound, http.StatusNotFound, "Profile not found"},
		{"invalid role", tr, services.ErrInvalidRole, apperrors.CodeInvalidUserRole, http.StatusBadRequest, "Geçersiz kullanıcı rolü"},
		{"store down", en, fmt.Errorf("get: %w: %w", services.ErrStoreUnavailable, errors.New("network unreachable")),
			apperrors.ErrStoreUnavailable.Code, http.StatusServiceUnavailable, "Network error, please check your connection"},
		{"malformed", en, fmt.Errorf("get profile: %w", models.ErrMalformedProfile),
			apperrors.CodeInternalError, http.StatusInternalServerError, "Something went wrong, please try again"},
		{"unknown", tr, errors.New("boom"), apperrors.CodeInternalError, http.StatusInternalServerError, "Bir hata oluştu, lütfen tekrar deneyin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := toAppError(tt.ctx, tt.err)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.status, appErr.HTTPCode)
			assert.Equal(t, tt.message, appErr.Message)
		})
	}
}

func TestToAppError_PassesAppErrorThrough(t *testing.T) {
	orig := apperrors.NewBadRequestError("custom")
	assert.Same(t, orig, toAppError(context.Background(), orig))
}

func TestToAppError_DoesNotMutateSentinels(t *testing.T) {
	_ = toAppError(messages.WithLanguage(context.Background(), language.Turkish), identity.ErrWrongPassword)
	assert.Equal(t, "The password is invalid", apperrors.ErrWrongPassword.Message)
}
