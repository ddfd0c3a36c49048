// Package identity - учетные записи (email + пароль) и сессии.
//
// Сессия - строка в БД с ID = jti access-токена. Токен проверяется
// middleware, а HasActiveSession дополнительно сверяет, что сессия
// не отозвана и не истекла.
package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"influmatch_backend/internal/models"
)

// Service - то, что нужно резолверу и регистрации
type Service interface {
	// HasActiveSession - в ctx есть проверенный токен и его сессия активна
	HasActiveSession(ctx context.Context) bool
	// CurrentUserID - ID пользователя текущей сессии
	CurrentUserID(ctx context.Context) (string, bool)
	CreateAccount(ctx context.Context, email, password string) (string, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
	DeleteAccount(ctx context.Context, userID string) error
}

// SessionManager - выдача, ротация и отзыв сессий
type SessionManager interface {
	IssueSession(ctx context.Context, userID string) (*Tokens, error)
	RefreshSession(ctx context.Context, refreshToken string) (*Tokens, error)
	RevokeSession(ctx context.Context, sessionID string) error
	ParseAccessToken(token string) (*Claims, error)
}

// Tokens - результат выдачи сессии
type Tokens struct {
	UserID       string    `json:"-"`
	SessionID    string    `json:"-"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AccountStore - хранилище учетных записей
type AccountStore interface {
	FindByID(ctx context.Context, id string) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, id string) error
}

// SessionStore - хранилище сессий
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	FindByID(ctx context.Context, id string) (*models.Session, error)
	FindByRefreshToken(ctx context.Context, token string) (*models.Session, error)
	Revoke(ctx context.Context, id string, at time.Time) error
	RevokeByAccountID(ctx context.Context, accountID string, at time.Time) error
}

// ==========================
// Errors
// ==========================

// Error - ошибка identity со стабильным кодом.
// Код всегда виден в Error(): "identity: wrong-password".
type Error struct {
	Code string
}

func (e *Error) Error() string {
	return "identity: " + e.Code
}

var (
	ErrInvalidEmail      = &Error{Code: "invalid-email"}
	ErrWeakPassword      = &Error{Code: "weak-password"}
	ErrEmailAlreadyInUse = &Error{Code: "email-already-in-use"}
	ErrUserNotFound      = &Error{Code: "user-not-found"}
	ErrWrongPassword     = &Error{Code: "wrong-password"}
	ErrInvalidToken      = &Error{Code: "invalid-token"}
	ErrSessionExpired    = &Error{Code: "session-expired"}
)

// CodeOf возвращает код identity-ошибки или "" для прочих ошибок
func CodeOf(err error) string {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Code
	}
	return ""
}

// NormalizeEmail - trim + lower
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
