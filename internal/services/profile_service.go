package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"influmatch_backend/internal/docstore"
	"influmatch_backend/internal/logger"
	"influmatch_backend/internal/models"
)

// RoleAttributes - атрибуты онбординга одной из ролей
type RoleAttributes interface {
	Role() models.Role
	ToMap() map[string]any
}

type ProfileService interface {
	// CompleteSetup сохраняет атрибуты роли и отмечает профиль завершенным
	CompleteSetup(ctx context.Context, userID string, attrs RoleAttributes) (models.Destination, error)
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
}

type ProfileServiceImpl struct {
	store docstore.Store
	now   func() time.Time
}

func NewProfileService(store docstore.Store) *ProfileServiceImpl {
	return &ProfileServiceImpl{store: store, now: time.Now}
}

func (s *ProfileServiceImpl) CompleteSetup(ctx context.Context, userID string, attrs RoleAttributes) (models.Destination, error) {
	ctx = logger.WithUserID(ctx, userID)
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return models.DestinationNeedsAuth, err
	}

	// схема атрибутов определяется сохраненной ролью
	if !profile.Role.IsKnown() || profile.Role != attrs.Role() {
		logger.CtxWarn(ctx, "setup attributes do not match role",
			"stored_role", profile.Role, "attributes_role", attrs.Role())
		return models.DestinationNeedsAuth, ErrInvalidRole
	}

	merged := make(map[string]any, len(profile.RoleAttributes))
	for k, v := range profile.RoleAttributes {
		merged[k] = v
	}
	for k, v := range attrs.ToMap() {
		merged[k] = v
	}

	err = s.store.Update(ctx, models.ProfilesCollection, userID, docstore.Document{
		models.FieldRoleAttributes:   merged,
		models.FieldProfileCompleted: true,
		models.FieldUpdatedAt:        s.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return models.DestinationNeedsAuth, ErrProfileNotFound
		}
		return models.DestinationNeedsAuth, fmt.Errorf("complete setup: %w: %w", ErrStoreUnavailable, err)
	}

	logger.CtxInfo(ctx, "profile setup completed", "role", profile.Role)
	return models.HomeDestination(profile.Role), nil
}

func (s *ProfileServiceImpl) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	doc, err := s.store.Get(ctx, models.ProfilesCollection, userID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile: %w: %w", ErrStoreUnavailable, err)
	}

	profile, err := models.ProfileFromDocument(userID, doc)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}
