package repositories

import (
	"context"
	"errors"
	"time"

	"influmatch_backend/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена в БД
	ErrSessionNotFound = errors.New("session not found")
)

// SessionRepository определяет интерфейс для операций с сессиями
type SessionRepository interface {
	// Create сохраняет новую сессию
	Create(ctx context.Context, session *models.Session) error

	// FindByID находит сессию по ее ID (jti access-токена)
	FindByID(ctx context.Context, id string) (*models.Session, error)

	// FindByRefreshToken находит сессию по refresh-токену
	FindByRefreshToken(ctx context.Context, token string) (*models.Session, error)

	// Revoke помечает сессию отозванной
	Revoke(ctx context.Context, id string, at time.Time) error

	// RevokeByAccountID отзывает все сессии аккаунта
	RevokeByAccountID(ctx context.Context, accountID string, at time.Time) error

	// CleanExpired удаляет истекшие и давно отозванные сессии
	CleanExpired(ctx context.Context, before time.Time) (int64, error)
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository создает новый экземпляр SessionRepository
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) FindByID(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) FindByRefreshToken(ctx context.Context, token string) (*models.Session, error) {
	var session models.Session
	if err := r.db.WithContext(ctx).Where("refresh_token = ?", token).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Revoke(ctx context.Context, id string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Возвращаем ошибку, чтобы сервис мог ее обработать
		return ErrSessionNotFound
	}
	return nil
}

func (r *sessionRepository) RevokeByAccountID(ctx context.Context, accountID string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("account_id = ? AND revoked_at IS NULL", accountID).
		Update("revoked_at", at).Error
}

func (r *sessionRepository) CleanExpired(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ? OR (revoked_at IS NOT NULL AND revoked_at < ?)", before, before).
		Delete(&models.Session{})
	return result.RowsAffected, result.Error
}
