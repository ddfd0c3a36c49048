package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/language"

	"influmatch_backend/internal/docstore"
	"influmatch_backend/internal/identity"
	"influmatch_backend/internal/messages"
	"influmatch_backend/internal/models"
	"influmatch_backend/internal/repositories"
)

func newRealProvider() *identity.Provider {
	return identity.NewProvider(
		repositories.NewMemoryAccountRepository(),
		repositories.NewMemorySessionRepository(),
		identity.Config{JWTSecret: "test", Issuer: "test", BcryptCost: bcrypt.MinCost},
	)
}

// Регистрация инфлюенсера, затем резолв через реальный провайдер
func TestSignUp_InfluencerThenResolve(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	provider := newRealProvider()
	auth := NewAuthService(provider, provider, store)

	res, err := auth.SignUp(ctx, "new@influ.com", "secret1", models.RoleInfluencer)
	require.NoError(t, err)
	assert.Equal(t, models.DestinationNeedsInfluencerSetup, res.Destination)
	require.NotNil(t, res.Tokens)

	doc, err := store.Get(ctx, models.ProfilesCollection, res.UserID)
	require.NoError(t, err)
	assert.Equal(t, res.UserID, doc["id"])
	assert.Equal(t, "new@influ.com", doc["email"])
	assert.Equal(t, "influencer", doc["role"])
	assert.Equal(t, false, doc["profileCompleted"])
	assert.Equal(t, map[string]any{}, doc["roleAttributes"])

	claims, err := provider.ParseAccessToken(res.Tokens.AccessToken)
	require.NoError(t, err)
	authed := identity.WithClaims(ctx, claims)

	resolver := NewResolverService(provider, store)
	assert.Equal(t, models.DestinationNeedsInfluencerSetup, resolver.ResolveDestination(authed))
}

func TestSignUp_InvalidRole(t *testing.T) {
	ids := &fakeIdentity{createID: "u1"}
	auth := NewAuthService(ids, &fakeSessions{}, docstore.NewMemoryStore())

	_, err := auth.SignUp(context.Background(), "a@b.com", "secret1", models.RoleUnknown)
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestSignUp_IdentityErrorReturnedUntranslated(t *testing.T) {
	store := docstore.NewMemoryStore()
	ids := &fakeIdentity{createErr: identity.ErrEmailAlreadyInUse}
	auth := NewAuthService(ids, &fakeSessions{}, store)

	_, err := auth.SignUp(context.Background(), "a@b.com", "secret1", models.RoleAdvertiser)
	assert.ErrorIs(t, err, identity.ErrEmailAlreadyInUse)
	assert.Contains(t, err.Error(), "email-already-in-use")
	assert.Empty(t, store.Calls(), "no document written when identity fails")
}

func TestSignUp_ProfileWriteFailureRollsBackAccount(t *testing.T) {
	store := docstore.NewMemoryStore().WithError(errors.New("network unreachable"))
	ids := &fakeIdentity{createID: "u1"}
	sessions := &fakeSessions{}
	auth := NewAuthService(ids, sessions, store)

	_, err := auth.SignUp(context.Background(), "a@b.com", "secret1", models.RoleInfluencer)
	require.Error(t, err)
	assert.Equal(t, []string{"u1"}, ids.deleted)
	assert.Empty(t, sessions.issued)
}

func TestSignUp_RollbackAllowsRetry(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore().WithError(errors.New("network unreachable"))
	provider := newRealProvider()
	auth := NewAuthService(provider, provider, store)

	_, err := auth.SignUp(ctx, "retry@x.com", "secret1", models.RoleAdvertiser)
	require.Error(t, err)

	store.WithError(nil)
	res, err := auth.SignUp(ctx, "retry@x.com", "secret1", models.RoleAdvertiser)
	require.NoError(t, err)
	assert.Equal(t, models.DestinationNeedsAdvertiserSetup, res.Destination)
}

func TestSignIn(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	provider := newRealProvider()
	auth := NewAuthService(provider, provider, store)

	up, err := auth.SignUp(ctx, "adv@x.com", "secret1", models.RoleAdvertiser)
	require.NoError(t, err)
	callsAfterSignUp := len(store.Calls())

	in, err := auth.SignIn(ctx, "adv@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, up.UserID, in.UserID)
	assert.Empty(t, in.Destination)
	assert.Len(t, store.Calls(), callsAfterSignUp, "sign-in must not touch the document store")
}

func TestSignIn_WrongPasswordTranslates(t *testing.T) {
	ctx := context.Background()
	provider := newRealProvider()
	auth := NewAuthService(provider, provider, docstore.NewMemoryStore())

	_, err := auth.SignUp(ctx, "w@x.com", "secret1", models.RoleInfluencer)
	require.NoError(t, err)

	_, err = auth.SignIn(ctx, "w@x.com", "nope-nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, identity.ErrWrongPassword)
	assert.Equal(t, "Yanlış şifre", messages.Translate(err, language.Turkish))
}

func TestSignOut(t *testing.T) {
	ctx := context.Background()
	provider := newRealProvider()
	store := docstore.NewMemoryStore()
	auth := NewAuthService(provider, provider, store)

	assert.ErrorIs(t, auth.SignOut(ctx), identity.ErrInvalidToken)

	res, err := auth.SignUp(ctx, "out@x.com", "secret1", models.RoleInfluencer)
	require.NoError(t, err)
	claims, err := provider.ParseAccessToken(res.Tokens.AccessToken)
	require.NoError(t, err)
	authed := identity.WithClaims(ctx, claims)

	require.NoError(t, auth.SignOut(authed))
	assert.Equal(t, models.DestinationNeedsAuth, NewResolverService(provider, store).ResolveDestination(authed))
}

func TestRefresh(t *testing.T) {
	auth := NewAuthService(&fakeIdentity{}, &fakeSessions{}, docstore.NewMemoryStore())

	res, err := auth.Refresh(context.Background(), "rt")
	require.NoError(t, err)
	assert.Equal(t, "u1", res.UserID)
	assert.Equal(t, "rt2", res.Tokens.RefreshToken)

	_, err = auth.Refresh(context.Background(), "bad")
	assert.ErrorIs(t, err, identity.ErrInvalidToken)
}

func TestSignUp_TimestampsStored(t *testing.T) {
	store := docstore.NewMemoryStore()
	auth := NewAuthService(&fakeIdentity{createID: "u9"}, &fakeSessions{}, store)
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	auth.now = func() time.Time { return fixed }

	_, err := auth.SignUp(context.Background(), "t@x.com", "secret1", models.RoleInfluencer)
	require.NoError(t, err)

	doc, err := store.Get(context.Background(), models.ProfilesCollection, "u9")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-02T03:04:05Z", doc["createdAt"])
}
