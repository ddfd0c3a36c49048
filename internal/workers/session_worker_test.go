package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"influmatch_backend/internal/models"
	"influmatch_backend/internal/repositories"
)

type countingCleaner struct {
	calls atomic.Int32
	err   error
}

func (c *countingCleaner) CleanExpired(context.Context, time.Time) (int64, error) {
	c.calls.Add(1)
	return 1, c.err
}

func TestSessionWorker_CleanOnce(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	revokedLongAgo := now.Add(-48 * time.Hour)
	revokedRecently := now.Add(-time.Hour)

	repo := repositories.NewMemorySessionRepository()
	for _, s := range []*models.Session{
		{ID: "expired", AccountID: "a", RefreshToken: "r1", ExpiresAt: now.Add(-72 * time.Hour)},
		{ID: "active", AccountID: "a", RefreshToken: "r2", ExpiresAt: now.Add(time.Hour)},
		{ID: "revoked-old", AccountID: "a", RefreshToken: "r3", ExpiresAt: now.Add(time.Hour), RevokedAt: &revokedLongAgo},
		{ID: "revoked-new", AccountID: "a", RefreshToken: "r4", ExpiresAt: now.Add(time.Hour), RevokedAt: &revokedRecently},
	} {
		require.NoError(t, repo.Create(ctx, s))
	}

	w := NewSessionWorker(repo, time.Minute)
	w.now = func() time.Time { return now }

	assert.EqualValues(t, 2, w.cleanOnce(ctx))

	_, err := repo.FindByID(ctx, "active")
	assert.NoError(t, err)
	_, err = repo.FindByID(ctx, "revoked-new")
	assert.NoError(t, err)
	_, err = repo.FindByID(ctx, "expired")
	assert.ErrorIs(t, err, repositories.ErrSessionNotFound)
}

func TestSessionWorker_ErrorIsSwallowed(t *testing.T) {
	w := NewSessionWorker(&countingCleaner{err: errors.New("db down")}, time.Minute)
	assert.Zero(t, w.cleanOnce(context.Background()))
}

func TestSessionWorker_RunsOnTickAndStops(t *testing.T) {
	cleaner := &countingCleaner{}
	w := NewSessionWorker(cleaner, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return cleaner.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestNewSessionWorker_DefaultInterval(t *testing.T) {
	assert.Equal(t, time.Hour, NewSessionWorker(&countingCleaner{}, 0).interval)
}
