package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"influmatch_backend/internal/docstore"
	"influmatch_backend/internal/identity"
	"influmatch_backend/internal/logger"
	"influmatch_backend/internal/models"
)

var (
	ErrProfileNotFound = errors.New("profile: profile-not-found")
	ErrInvalidRole     = errors.New("profile: invalid-role")
)

// ErrStoreUnavailable оборачивает сбои хранилища документов
var ErrStoreUnavailable = errors.New("profile store unavailable")

// AuthResult - итог регистрации или входа
type AuthResult struct {
	UserID      string
	Tokens      *identity.Tokens
	Destination models.Destination
}

type AuthService interface {
	// SignUp создает аккаунт, документ профиля и сессию
	SignUp(ctx context.Context, email, password string, role models.Role) (*AuthResult, error)
	// SignIn не трогает хранилище документов
	SignIn(ctx context.Context, email, password string) (*AuthResult, error)
	SignOut(ctx context.Context) error
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
}

type AuthServiceImpl struct {
	identity identity.Service
	sessions identity.SessionManager
	store    docstore.Store
	now      func() time.Time
}

func NewAuthService(identitySvc identity.Service, sessions identity.SessionManager, store docstore.Store) *AuthServiceImpl {
	return &AuthServiceImpl{
		identity: identitySvc,
		sessions: sessions,
		store:    store,
		now:      time.Now,
	}
}

// SignUp - регистрация.
// Ошибки identity возвращаются как есть, без перевода.
// Если профиль не записался, аккаунт удаляется, чтобы можно было повторить регистрацию.
func (s *AuthServiceImpl) SignUp(ctx context.Context, email, password string, role models.Role) (*AuthResult, error) {
	if !role.IsKnown() {
		return nil, ErrInvalidRole
	}

	userID, err := s.identity.CreateAccount(ctx, email, password)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithUserID(ctx, userID)

	profile := models.NewUserProfile(userID, identity.NormalizeEmail(email), role, s.now())
	if err := s.store.Set(ctx, models.ProfilesCollection, userID, profile.ToDocument()); err != nil {
		logger.CtxWithError(ctx, "failed to create profile document, rolling back account", err)
		if delErr := s.identity.DeleteAccount(context.WithoutCancel(ctx), userID); delErr != nil {
			logger.CtxWithError(ctx, "failed to roll back account", delErr)
		}
		return nil, fmt.Errorf("sign up: create profile: %w: %w", ErrStoreUnavailable, err)
	}

	tokens, err := s.sessions.IssueSession(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("sign up: issue session: %w", err)
	}

	logger.CtxInfo(ctx, "user signed up", "role", role)
	return &AuthResult{
		UserID:      userID,
		Tokens:      tokens,
		Destination: models.SetupDestination(role),
	}, nil
}

func (s *AuthServiceImpl) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	userID, err := s.identity.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithUserID(ctx, userID)

	tokens, err := s.sessions.IssueSession(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("sign in: issue session: %w", err)
	}

	logger.CtxInfo(ctx, "user signed in")
	return &AuthResult{UserID: userID, Tokens: tokens}, nil
}

// SignOut отзывает сессию из ctx
func (s *AuthServiceImpl) SignOut(ctx context.Context) error {
	claims, ok := identity.ClaimsFromContext(ctx)
	if !ok {
		return identity.ErrInvalidToken
	}
	if err := s.sessions.RevokeSession(ctx, claims.SessionID()); err != nil {
		return err
	}
	logger.CtxInfo(logger.WithUserID(ctx, claims.UserID), "user signed out")
	return nil
}

func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	tokens, err := s.sessions.RefreshSession(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	return &AuthResult{UserID: tokens.UserID, Tokens: tokens}, nil
}
