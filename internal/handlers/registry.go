package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler    *AuthHandler
	SessionHandler *SessionHandler
	ProfileHandler *ProfileHandler
	HealthHandler  *HealthHandler
}
