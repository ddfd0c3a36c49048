package identity

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"influmatch_backend/internal/auth"
	"influmatch_backend/internal/logger"
	"influmatch_backend/internal/models"
	"influmatch_backend/internal/repositories"
)

const defaultMinPasswordLength = 6

// Config - параметры провайдера
type Config struct {
	JWTSecret         string
	Issuer            string
	AccessTTL         time.Duration
	RefreshTTL        time.Duration
	MinPasswordLength int
	BcryptCost        int
}

// Provider - Service и SessionManager поверх Postgres
type Provider struct {
	accounts   AccountStore
	sessions   SessionStore
	tokens     *TokenManager
	validate   *validator.Validate
	passwords  *auth.PasswordHasher
	refreshTTL time.Duration
	now        func() time.Time
}

var (
	_ Service        = (*Provider)(nil)
	_ SessionManager = (*Provider)(nil)
)

func NewProvider(accounts AccountStore, sessions SessionStore, cfg Config) *Provider {
	if cfg.MinPasswordLength <= 0 {
		cfg.MinPasswordLength = defaultMinPasswordLength
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 30 * 24 * time.Hour
	}

	return &Provider{
		accounts:   accounts,
		sessions:   sessions,
		tokens:     NewTokenManager(cfg.JWTSecret, cfg.Issuer, cfg.AccessTTL),
		validate:   validator.New(),
		passwords:  auth.NewPasswordHasher(cfg.BcryptCost, cfg.MinPasswordLength),
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
	}
}

// ==========================
// Session state
// ==========================

func (p *Provider) HasActiveSession(ctx context.Context) bool {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return false
	}

	session, err := p.sessions.FindByID(ctx, claims.SessionID())
	if err != nil {
		if !errors.Is(err, repositories.ErrSessionNotFound) {
			logger.CtxWarn(ctx, "session lookup failed", "session_id", claims.SessionID(), "error", err.Error())
		}
		return false
	}
	return session.AccountID == claims.UserID && session.IsActive(p.now())
}

func (p *Provider) CurrentUserID(ctx context.Context) (string, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return "", false
	}
	id := strings.TrimSpace(claims.UserID)
	return id, id != ""
}

// ==========================
// Accounts
// ==========================

func (p *Provider) CreateAccount(ctx context.Context, email, password string) (string, error) {
	email = NormalizeEmail(email)
	if err := p.validate.Var(email, "required,email"); err != nil {
		return "", ErrInvalidEmail
	}
	if err := p.passwords.ValidatePassword(password); err != nil {
		return "", ErrWeakPassword
	}

	hash, err := p.passwords.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("identity: hash password: %w", err)
	}

	account := &models.Account{
		BaseModel:    models.BaseModel{ID: uuid.NewString()},
		Email:        email,
		PasswordHash: hash,
	}
	if err := p.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repositories.ErrAccountAlreadyExists) {
			return "", ErrEmailAlreadyInUse
		}
		return "", fmt.Errorf("identity: create account: %w", err)
	}

	logger.CtxInfo(logger.WithUserID(ctx, account.ID), "account created")
	return account.ID, nil
}

func (p *Provider) Authenticate(ctx context.Context, email, password string) (string, error) {
	email = NormalizeEmail(email)
	if err := p.validate.Var(email, "required,email"); err != nil {
		return "", ErrInvalidEmail
	}

	account, err := p.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("identity: find account: %w", err)
	}

	if !p.passwords.CheckPasswordHash(password, account.PasswordHash) {
		return "", ErrWrongPassword
	}
	return account.ID, nil
}

// DeleteAccount отзывает сессии и удаляет аккаунт
func (p *Provider) DeleteAccount(ctx context.Context, userID string) error {
	if err := p.sessions.RevokeByAccountID(ctx, userID, p.now()); err != nil {
		logger.CtxWarn(logger.WithUserID(ctx, userID), "failed to revoke sessions before delete", "error", err.Error())
	}

	if err := p.accounts.Delete(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("identity: delete account: %w", err)
	}
	return nil
}

// ==========================
// Sessions
// ==========================

func (p *Provider) IssueSession(ctx context.Context, userID string) (*Tokens, error) {
	now := p.now()
	sessionID := ulid.Make().String()

	refresh, err := randomToken()
	if err != nil {
		return nil, fmt.Errorf("identity: refresh token: %w", err)
	}

	access, expiresAt, err := p.tokens.Generate(userID, sessionID, now)
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		ID:           sessionID,
		AccountID:    userID,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(p.refreshTTL),
	}
	if err := p.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("identity: store session: %w", err)
	}

	return &Tokens{
		UserID:       userID,
		SessionID:    sessionID,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	}, nil
}

// RefreshSession - ротация: старая сессия отзывается, выдается новая
func (p *Provider) RefreshSession(ctx context.Context, refreshToken string) (*Tokens, error) {
	if refreshToken == "" {
		return nil, ErrInvalidToken
	}

	session, err := p.sessions.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("identity: find session: %w", err)
	}
	if !session.IsActive(p.now()) {
		return nil, ErrSessionExpired
	}

	if _, err := p.accounts.FindByID(ctx, session.AccountID); err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("identity: find account: %w", err)
	}

	if err := p.sessions.Revoke(ctx, session.ID, p.now()); err != nil {
		// параллельный refresh тем же токеном уже отозвал сессию
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return nil, ErrSessionExpired
		}
		return nil, fmt.Errorf("identity: revoke session: %w", err)
	}

	return p.IssueSession(ctx, session.AccountID)
}

func (p *Provider) RevokeSession(ctx context.Context, sessionID string) error {
	if err := p.sessions.Revoke(ctx, sessionID, p.now()); err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return ErrSessionExpired
		}
		return fmt.Errorf("identity: revoke session: %w", err)
	}
	return nil
}

func (p *Provider) ParseAccessToken(token string) (*Claims, error) {
	return p.tokens.Parse(token)
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
