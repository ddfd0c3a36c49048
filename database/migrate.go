package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"influmatch_backend/internal/docstore"
	"influmatch_backend/internal/logger"
	"influmatch_backend/internal/models"
)

// Connect открывает gorm-подключение к Postgres.
// TranslateError нужен репозиториям, чтобы отличать gorm.ErrDuplicatedKey.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.NewGormLogger(200 * time.Millisecond),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// AutoMigrate мигрирует аккаунты и сессии, а при withDocuments - и таблицу документов
func AutoMigrate(db *gorm.DB, withDocuments bool) error {
	tables := []any{
		&models.Account{},
		&models.Session{},
	}
	if withDocuments {
		tables = append(tables, &docstore.Record{})
	}

	if err := db.AutoMigrate(tables...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	logger.Info("AutoMigrate completed", "tables", len(tables))
	return nil
}
