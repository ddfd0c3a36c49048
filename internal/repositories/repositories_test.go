package repositories

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"influmatch_backend/internal/models"
)

// Общие сценарии гоняются и по in-memory, и по Postgres реализации.

func accountContract(t *testing.T, repo AccountRepository, sessions SessionRepository) {
	ctx := context.Background()
	email := uuid.NewString() + "@example.com"

	acc := &models.Account{Email: email, PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, acc))
	require.NotEmpty(t, acc.ID)

	assert.ErrorIs(t, repo.Create(ctx, &models.Account{Email: email, PasswordHash: "x"}), ErrAccountAlreadyExists)

	found, err := repo.FindByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, acc.ID, found.ID)

	_, err = repo.FindByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrAccountNotFound)

	require.NoError(t, sessions.Create(ctx, &models.Session{
		ID: "s-" + acc.ID[:8], AccountID: acc.ID, RefreshToken: uuid.NewString(), ExpiresAt: time.Now().Add(time.Hour),
	}))

	require.NoError(t, repo.Delete(ctx, acc.ID))
	assert.ErrorIs(t, repo.Delete(ctx, acc.ID), ErrAccountNotFound)

	_, err = sessions.FindByID(ctx, "s-"+acc.ID[:8])
	assert.ErrorIs(t, err, ErrSessionNotFound, "sessions go with the account")

	// email снова свободен
	require.NoError(t, repo.Create(ctx, &models.Account{Email: email, PasswordHash: "hash"}))
}

func sessionContract(t *testing.T, repo SessionRepository) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	accountID := uuid.NewString()
	refresh := uuid.NewString()
	id := uuid.NewString()[:26]

	require.NoError(t, repo.Create(ctx, &models.Session{ID: id, AccountID: accountID, RefreshToken: refresh, ExpiresAt: now.Add(time.Hour)}))

	byToken, err := repo.FindByRefreshToken(ctx, refresh)
	require.NoError(t, err)
	assert.Equal(t, id, byToken.ID)
	assert.True(t, byToken.IsActive(now))

	require.NoError(t, repo.Revoke(ctx, id, now))
	assert.ErrorIs(t, repo.Revoke(ctx, id, now), ErrSessionNotFound, "second revoke is a no-op")

	revoked, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, revoked.IsActive(now))

	deleted, err := repo.CleanExpired(ctx, now.Add(time.Minute))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, deleted, int64(1))

	_, err = repo.FindByID(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryRepositories(t *testing.T) {
	sessions := NewMemorySessionRepository()
	t.Run("accounts", func(t *testing.T) { accountContract(t, NewMemoryAccountRepository().WithSessions(sessions), sessions) })
	t.Run("sessions", func(t *testing.T) { sessionContract(t, NewMemorySessionRepository()) })
}

func TestMemoryAccountRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository()
	require.NoError(t, repo.Create(ctx, &models.Account{Email: "c@example.com", PasswordHash: "h"}))

	a, err := repo.FindByEmail(ctx, "c@example.com")
	require.NoError(t, err)
	a.PasswordHash = "mutated"

	b, err := repo.FindByEmail(ctx, "c@example.com")
	require.NoError(t, err)
	assert.Equal(t, "h", b.PasswordHash)
}

func TestMemoryAccountRepository_WithError(t *testing.T) {
	boom := errors.New("db down")
	repo := NewMemoryAccountRepository().WithError(boom)
	_, err := repo.FindByID(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
}

func TestPostgresRepositories(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Account{}, &models.Session{}))

	sessions := NewSessionRepository(db)
	t.Run("accounts", func(t *testing.T) { accountContract(t, NewAccountRepository(db), sessions) })
	t.Run("sessions", func(t *testing.T) { sessionContract(t, sessions) })
}
