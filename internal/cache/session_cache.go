package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"influmatch_backend/internal/logger"
	"influmatch_backend/internal/models"
	"influmatch_backend/internal/repositories"
)

const (
	sessionNamespace        = "session"
	accountSessionNamespace = "account_sessions"
)

// KV - подмножество Cache, которое нужно кэшу сессий
type KV interface {
	Set(ctx context.Context, namespace, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, namespace, key string) ([]byte, error)
	Delete(ctx context.Context, namespace string, keys ...string) error
	AddMember(ctx context.Context, namespace, key, member string, ttl time.Duration) error
	Members(ctx context.Context, namespace, key string) ([]string, error)
}

// SessionRepository - write-through кэш поверх репозитория сессий.
// Кэшируется только FindByID: это горячий путь проверки access-токена.
// Ошибки Redis не ломают запрос, источником истины остается БД.
type SessionRepository struct {
	next repositories.SessionRepository
	kv   KV
	ttl  time.Duration
	now  func() time.Time
}

var _ repositories.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(next repositories.SessionRepository, kv KV, ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SessionRepository{next: next, kv: kv, ttl: ttl, now: time.Now}
}

func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	if err := r.next.Create(ctx, session); err != nil {
		return err
	}
	r.store(ctx, session)
	return nil
}

func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.Session, error) {
	raw, err := r.kv.Get(ctx, sessionNamespace, id)
	if err == nil {
		var session models.Session
		if jsonErr := json.Unmarshal(raw, &session); jsonErr == nil {
			return &session, nil
		}
	} else if !errors.Is(err, ErrMiss) {
		logger.CtxWarn(ctx, "session cache read failed", "session_id", id, "error", err.Error())
	}

	session, err := r.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(ctx, session)
	return session, nil
}

func (r *SessionRepository) FindByRefreshToken(ctx context.Context, token string) (*models.Session, error) {
	return r.next.FindByRefreshToken(ctx, token)
}

func (r *SessionRepository) Revoke(ctx context.Context, id string, at time.Time) error {
	err := r.next.Revoke(ctx, id, at)
	r.evict(ctx, id)
	return err
}

func (r *SessionRepository) RevokeByAccountID(ctx context.Context, accountID string, at time.Time) error {
	err := r.next.RevokeByAccountID(ctx, accountID, at)

	ids, mErr := r.kv.Members(ctx, accountSessionNamespace, accountID)
	if mErr != nil {
		logger.CtxWarn(ctx, "session cache index read failed", "account_id", accountID, "error", mErr.Error())
		return err
	}
	r.evict(ctx, ids...)
	if dErr := r.kv.Delete(ctx, accountSessionNamespace, accountID); dErr != nil {
		logger.CtxWarn(ctx, "session cache index delete failed", "account_id", accountID, "error", dErr.Error())
	}
	return err
}

// CleanExpired в кэш не ходит: истекшие записи выпадают по TTL
func (r *SessionRepository) CleanExpired(ctx context.Context, before time.Time) (int64, error) {
	return r.next.CleanExpired(ctx, before)
}

func (r *SessionRepository) store(ctx context.Context, session *models.Session) {
	ttl := r.ttl
	if left := session.ExpiresAt.Sub(r.now()); left < ttl {
		ttl = left
	}
	if ttl <= 0 || session.RevokedAt != nil {
		return
	}

	raw, err := json.Marshal(session)
	if err != nil {
		return
	}
	if err := r.kv.Set(ctx, sessionNamespace, session.ID, raw, ttl); err != nil {
		logger.CtxWarn(ctx, "session cache write failed", "session_id", session.ID, "error", err.Error())
		return
	}
	if err := r.kv.AddMember(ctx, accountSessionNamespace, session.AccountID, session.ID, r.ttl); err != nil {
		logger.CtxWarn(ctx, "session cache index write failed", "account_id", session.AccountID, "error", err.Error())
	}
}

func (r *SessionRepository) evict(ctx context.Context, ids ...string) {
	if len(ids) == 0 {
		return
	}
	if err := r.kv.Delete(ctx, sessionNamespace, ids...); err != nil {
		logger.CtxWarn(ctx, "session cache evict failed", "error", err.Error())
	}
}
