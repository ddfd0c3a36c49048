package apperrors

// ErrorCode - тип для кодов ошибок
type ErrorCode string

const (
	// Системные ошибки
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"

	// Общие ошибки бизнес-логики
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeInvalidOperation ErrorCode = "INVALID_OPERATION"

	// Аутентификация (коды совпадают с кодами identity-сервиса)
	CodeUnauthorized      ErrorCode = "UNAUTHORIZED"
	CodeInvalidEmail      ErrorCode = "INVALID_EMAIL"
	CodeWeakPassword      ErrorCode = "WEAK_PASSWORD"
	CodeEmailAlreadyInUse ErrorCode = "EMAIL_ALREADY_IN_USE"
	CodeUserNotFound      ErrorCode = "USER_NOT_FOUND"
	CodeWrongPassword     ErrorCode = "WRONG_PASSWORD"
	CodeInvalidToken      ErrorCode = "INVALID_TOKEN"
	CodeSessionExpired    ErrorCode = "SESSION_EXPIRED"

	// Профиль
	CodeProfileNotFound ErrorCode = "PROFILE_NOT_FOUND"
	CodeInvalidUserRole ErrorCode = "INVALID_USER_ROLE"
)
