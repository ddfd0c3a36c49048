package apperrors

import (
	"net/http"
)

/*
Предопределенные ошибки домена. Сообщения здесь - английские значения
по умолчанию; обработчики подменяют их локализованным текстом
через WithMessage.
*/

// --- Auth ---

var ErrInvalidEmail = New(
	CodeInvalidEmail,
	"auth",
	"The email address is badly formatted",
	http.StatusBadRequest,
)

var ErrWeakPassword = New(
	CodeWeakPassword,
	"auth",
	"Password should be at least 6 characters",
	http.StatusBadRequest,
)

var ErrEmailAlreadyInUse = New(
	CodeEmailAlreadyInUse,
	"auth",
	"The email address is already in use",
	http.StatusConflict,
)

var ErrUserNotFound = New(
	CodeUserNotFound,
	"auth",
	"There is no user with this email",
	http.StatusNotFound,
)

var ErrWrongPassword = New(
	CodeWrongPassword,
	"auth",
	"The password is invalid",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrSessionExpired = New(
	CodeSessionExpired,
	"auth",
	"Session expired, please sign in again",
	http.StatusUnauthorized,
)

// --- Profile ---

var ErrProfileNotFound = New(
	CodeProfileNotFound,
	"profile",
	"Profile not found",
	http.StatusNotFound,
)

// ErrInvalidUserRole - операция не предусмотрена для роли пользователя
var ErrInvalidUserRole = New(
	CodeInvalidUserRole,
	"profile",
	"Invalid user role for this operation",
	http.StatusBadRequest,
)

// ErrStoreUnavailable - хранилище документов вернуло ошибку
var ErrStoreUnavailable = New(
	CodeExternalServiceError,
	"store",
	"Document store is unavailable",
	http.StatusServiceUnavailable,
)
