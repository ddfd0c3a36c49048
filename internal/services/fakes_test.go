package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"influmatch_backend/internal/docstore"
	"influmatch_backend/internal/identity"
)

// fakeIdentity - управляемая подмена identity.Service
type fakeIdentity struct {
	mu        sync.Mutex
	active    bool
	userID    string
	createID  string
	createErr error
	authID    string
	authErr   error
	deleted   []string
	deleteErr error
}

func (f *fakeIdentity) HasActiveSession(context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

func (f *fakeIdentity) CurrentUserID(context.Context) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.userID, f.userID != ""
}

func (f *fakeIdentity) CreateAccount(context.Context, string, string) (string, error) {
	return f.createID, f.createErr
}

func (f *fakeIdentity) Authenticate(context.Context, string, string) (string, error) {
	return f.authID, f.authErr
}

func (f *fakeIdentity) DeleteAccount(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, userID)
	return f.deleteErr
}

// fakeSessions - выдача сессий без JWT
type fakeSessions struct {
	issued  []string
	revoked []string
	err     error
}

func (f *fakeSessions) IssueSession(_ context.Context, userID string) (*identity.Tokens, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.issued = append(f.issued, userID)
	return &identity.Tokens{UserID: userID, SessionID: "s-" + userID, AccessToken: "at", RefreshToken: "rt"}, nil
}

func (f *fakeSessions) RefreshSession(_ context.Context, refreshToken string) (*identity.Tokens, error) {
	if refreshToken != "rt" {
		return nil, identity.ErrInvalidToken
	}
	return &identity.Tokens{UserID: "u1", SessionID: "s2", AccessToken: "at2", RefreshToken: "rt2"}, nil
}

func (f *fakeSessions) RevokeSession(_ context.Context, sessionID string) error {
	f.revoked = append(f.revoked, sessionID)
	return nil
}

func (f *fakeSessions) ParseAccessToken(string) (*identity.Claims, error) {
	return nil, identity.ErrInvalidToken
}

// blockingStore держит Get до закрытия release и считает вызовы
type blockingStore struct {
	*docstore.MemoryStore
	release chan struct{}
	gets    atomic.Int32
}

func (b *blockingStore) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	b.gets.Add(1)
	<-b.release
	return b.MemoryStore.Get(ctx, collection, id)
}

func timeZero() time.Time {
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
}
