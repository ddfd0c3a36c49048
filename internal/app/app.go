package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"influmatch_backend/database"
	"influmatch_backend/internal/cache"
	"influmatch_backend/internal/config"
	"influmatch_backend/internal/docstore"
	"influmatch_backend/internal/handlers"
	"influmatch_backend/internal/identity"
	"influmatch_backend/internal/logger"
	"influmatch_backend/internal/messages"
	"influmatch_backend/internal/middleware"
	"influmatch_backend/internal/repositories"
	"influmatch_backend/internal/routes"
	"influmatch_backend/internal/services"
	"influmatch_backend/internal/validator"
	"influmatch_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

const sessionCacheTTL = 10 * time.Minute

// Dependencies - хранилища, поверх которых собирается приложение
type Dependencies struct {
	Accounts  repositories.AccountRepository
	Sessions  repositories.SessionRepository
	Documents docstore.Store
	// HealthChecks - дополнительные проверки для /health
	HealthChecks map[string]handlers.HealthCheck
}

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, cleanup, err := initializeDependencies(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize dependencies", "error", err)
	}
	defer cleanup()

	ginRouter, err := SetupRouter(cfg, deps)
	if err != nil {
		logger.Fatal("Failed to set up router", "error", err)
	}

	workers.NewSessionWorker(deps.Sessions, cfg.SessionCleanupInterval()).Start(ctx)

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           ginRouter,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info(fmt.Sprintf("🚀 Server starting on %s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	logger.Info("Server stopped")
}

// initializeDependencies подключает Postgres, хранилище документов и (опционально) Redis
func initializeDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{HealthChecks: map[string]handlers.HealthCheck{}}

	if cfg.DocumentStore.Type == config.StoreMemory && cfg.Database.DSN == "" {
		logger.Warn("Running with in-memory storage, data will be lost on restart")
		sessions := repositories.NewMemorySessionRepository()
		deps.Accounts = repositories.NewMemoryAccountRepository().WithSessions(sessions)
		deps.Sessions = sessions
		deps.Documents = docstore.NewMemoryStore()
		return deps, cleanup, nil
	}

	logger.Info("Connecting to database...")
	gormDB, err := database.Connect(cfg.Database.DSN)
	if err != nil {
		return nil, cleanup, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, cleanup, fmt.Errorf("failed to get *sql.DB from GORM: %w", err)
	}
	closers = append(closers, func() { _ = sqlDB.Close() })
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, cleanup, fmt.Errorf("database unavailable: %w", err)
	}
	logger.Info("Database connected")
	deps.HealthChecks["postgres"] = sqlDB.PingContext

	if err := database.AutoMigrate(gormDB, cfg.DocumentStore.Type == config.StorePostgres); err != nil {
		return nil, cleanup, err
	}

	deps.Accounts = repositories.NewAccountRepository(gormDB)
	deps.Sessions = repositories.NewSessionRepository(gormDB)

	store, closeStore, err := initializeDocumentStore(ctx, cfg, gormDB, deps.HealthChecks)
	if err != nil {
		return nil, cleanup, err
	}
	closers = append(closers, closeStore)
	deps.Documents = store

	if cfg.Redis.Enabled {
		redisCache := cache.NewCache(cache.Options{
			Addrs:    []string{cfg.Redis.Addr},
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		closers = append(closers, func() { _ = redisCache.Close() })
		if err := redisCache.Ping(ctx); err != nil {
			// кэш необязателен: работаем напрямую с Postgres
			logger.Warn("Redis unavailable, session cache disabled", "error", err)
		} else {
			deps.Sessions = cache.NewSessionRepository(deps.Sessions, redisCache, sessionCacheTTL)
			deps.HealthChecks["redis"] = redisCache.Ping
			logger.Info("Session cache enabled", "addr", cfg.Redis.Addr)
		}
	}

	return deps, cleanup, nil
}

func initializeDocumentStore(ctx context.Context, cfg *config.Config, gormDB *gorm.DB, checks map[string]handlers.HealthCheck) (docstore.Store, func(), error) {
	switch cfg.DocumentStore.Type {
	case config.StoreMongo:
		client, db, err := docstore.ConnectMongo(ctx, cfg.DocumentStore.MongoURI, cfg.DocumentStore.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		checks["mongo"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
		logger.Info("Document store initialized", "type", "mongo", "database", cfg.DocumentStore.MongoDatabase)
		return docstore.NewMongoStore(db), disconnectMongo(client), nil
	case config.StoreMemory:
		logger.Warn("Document store is in-memory, profiles will be lost on restart")
		return docstore.NewMemoryStore(), func() {}, nil
	default:
		logger.Info("Document store initialized", "type", "postgres")
		return docstore.NewGormStore(gormDB), func() {}, nil
	}
}

func disconnectMongo(client *mongo.Client) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			logger.Error("Failed to disconnect mongo", "error", err)
		}
	}
}

// SetupRouter собирает сервисы, хэндлеры и маршруты
func SetupRouter(cfg *config.Config, deps *Dependencies) (*gin.Engine, error) {
	defaultLang, err := messages.Parse(cfg.Locale.Default)
	if err != nil {
		return nil, fmt.Errorf("locale.default: %w", err)
	}

	provider := identity.NewProvider(deps.Accounts, deps.Sessions, identity.Config{
		JWTSecret:         cfg.JWT.Secret,
		Issuer:            cfg.JWT.Issuer,
		AccessTTL:         cfg.AccessTTL(),
		RefreshTTL:        cfg.RefreshTTL(),
		MinPasswordLength: cfg.Auth.MinPasswordLength,
	})

	// 1. Сервисы
	serviceContainer := initializeServices(provider, deps.Documents)

	// 2. Хэндлеры
	appHandlers := initializeHandlers(serviceContainer, provider, deps.HealthChecks)

	// 3. Gin
	ginRouter := initializeGinRouter(cfg, defaultLang)

	// 4. Маршруты
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter, nil
}

func initializeServices(provider *identity.Provider, store docstore.Store) *services.ServiceContainer {
	return &services.ServiceContainer{
		ResolverService: services.NewResolverService(provider, store),
		AuthService:     services.NewAuthService(provider, provider, store),
		ProfileService:  services.NewProfileService(store),
	}
}

func initializeHandlers(serviceContainer *services.ServiceContainer, tokens middleware.TokenParser, checks map[string]handlers.HealthCheck) *handlers.AppHandlers {
	base := handlers.NewBaseHandler(validator.New(), tokens)

	return &handlers.AppHandlers{
		AuthHandler:    handlers.NewAuthHandler(base, serviceContainer.AuthService),
		SessionHandler: handlers.NewSessionHandler(base, serviceContainer.ResolverService),
		ProfileHandler: handlers.NewProfileHandler(base, serviceContainer.ProfileService),
		HealthHandler:  handlers.NewHealthHandler(checks),
	}
}

func initializeGinRouter(cfg *config.Config, defaultLang language.Tag) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ginRouter := gin.New()
	ginRouter.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.LocaleMiddleware(defaultLang),
		middleware.CORSMiddleware(cfg.Server.CORSOrigins),
	)
	ginRouter.HandleMethodNotAllowed = true

	return ginRouter
}
