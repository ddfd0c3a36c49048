package services

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	ResolverService ResolverService
	AuthService     AuthService
	ProfileService  ProfileService
}
