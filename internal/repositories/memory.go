package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"influmatch_backend/internal/models"
)

// In-memory реализации для тестов и запуска без Postgres.

type MemoryAccountRepository struct {
	mu       sync.Mutex
	accounts map[string]models.Account
	sessions *MemorySessionRepository
	err      error
}

func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{accounts: make(map[string]models.Account)}
}

// WithError - все последующие вызовы вернут err
func (r *MemoryAccountRepository) WithError(err error) *MemoryAccountRepository {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
	return r
}

// WithSessions - Delete будет удалять и сессии аккаунта, как каскад в Postgres
func (r *MemoryAccountRepository) WithSessions(sessions *MemorySessionRepository) *MemoryAccountRepository {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = sessions
	return r
}

func (r *MemoryAccountRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	a, ok := r.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return &a, nil
}

func (r *MemoryAccountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, a := range r.accounts {
		if a.Email == email {
			a := a
			return &a, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (r *MemoryAccountRepository) Create(ctx context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, a := range r.accounts {
		if a.Email == account.Email {
			return ErrAccountAlreadyExists
		}
	}
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	now := time.Now()
	account.CreatedAt, account.UpdatedAt = now, now
	r.accounts[account.ID] = *account
	return nil
}

func (r *MemoryAccountRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.accounts[id]; !ok {
		return ErrAccountNotFound
	}
	delete(r.accounts, id)
	if r.sessions != nil {
		r.sessions.deleteByAccountID(id)
	}
	return nil
}

// Count - число аккаунтов
func (r *MemoryAccountRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.accounts)
}

type MemorySessionRepository struct {
	mu       sync.Mutex
	sessions map[string]models.Session
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string]models.Session)}
}

func (r *MemorySessionRepository) Create(ctx context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	r.sessions[session.ID] = *session
	return nil
}

func (r *MemorySessionRepository) FindByID(ctx context.Context, id string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

func (r *MemorySessionRepository) FindByRefreshToken(ctx context.Context, token string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.RefreshToken == token {
			s := s
			return &s, nil
		}
	}
	return nil, ErrSessionNotFound
}

func (r *MemorySessionRepository) Revoke(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.RevokedAt != nil {
		return ErrSessionNotFound
	}
	s.RevokedAt = &at
	r.sessions[id] = s
	return nil
}

func (r *MemorySessionRepository) RevokeByAccountID(ctx context.Context, accountID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		if s.AccountID == accountID && s.RevokedAt == nil {
			revoked := at
			s.RevokedAt = &revoked
			r.sessions[id] = s
		}
	}
	return nil
}

func (r *MemorySessionRepository) CleanExpired(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, s := range r.sessions {
		if s.ExpiresAt.Before(before) || (s.RevokedAt != nil && s.RevokedAt.Before(before)) {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}

func (r *MemorySessionRepository) deleteByAccountID(accountID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		if s.AccountID == accountID {
			delete(r.sessions, id)
		}
	}
}
