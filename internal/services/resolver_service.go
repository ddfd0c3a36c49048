package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/singleflight"

	"influmatch_backend/internal/docstore"
	"influmatch_backend/internal/identity"
	"influmatch_backend/internal/logger"
	"influmatch_backend/internal/models"
)

// ResolverService решает, куда направить пользователя после запуска
// или входа. Любой сбой сводится к NeedsAuth.
type ResolverService interface {
	// ResolveDestination никогда не возвращает ошибку
	ResolveDestination(ctx context.Context) models.Destination
	// Resolve - то же, но отдает ctx.Err(), если вызывающий отменил запрос
	Resolve(ctx context.Context) (models.Destination, error)
}

type ResolverServiceImpl struct {
	identity identity.Service
	store    docstore.Store

	// одновременные резолвы одного пользователя делят один запрос профиля
	sf singleflight.Group
}

func NewResolverService(identitySvc identity.Service, store docstore.Store) *ResolverServiceImpl {
	return &ResolverServiceImpl{
		identity: identitySvc,
		store:    store,
	}
}

func (s *ResolverServiceImpl) ResolveDestination(ctx context.Context) models.Destination {
	dest, _ := s.Resolve(ctx)
	return dest
}

func (s *ResolverServiceImpl) Resolve(ctx context.Context) (models.Destination, error) {
	if err := ctx.Err(); err != nil {
		return models.DestinationNeedsAuth, err
	}

	if !s.identity.HasActiveSession(ctx) {
		return models.DestinationNeedsAuth, ctx.Err()
	}

	userID, ok := s.identity.CurrentUserID(ctx)
	if !ok || strings.TrimSpace(userID) == "" {
		logger.CtxWarn(ctx, "active session without user id")
		return models.DestinationNeedsAuth, ctx.Err()
	}
	ctx = logger.WithUserID(ctx, userID)

	ch := s.sf.DoChan(userID, func() (interface{}, error) {
		// общий запрос не должен падать из-за отмены первого вызывающего
		return s.loadProfile(context.WithoutCancel(ctx), userID)
	})

	select {
	case <-ctx.Done():
		return models.DestinationNeedsAuth, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			logger.CtxWarn(ctx, "profile fetch failed, falling back to auth", "error", res.Err.Error())
			return models.DestinationNeedsAuth, nil
		}
		dest := Decide(res.Val.(*models.UserProfile))
		logger.CtxDebug(ctx, "destination resolved", "destination", dest, "shared", res.Shared)
		return dest, nil
	}
}

func (s *ResolverServiceImpl) loadProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	doc, err := s.store.Get(ctx, models.ProfilesCollection, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile %s: %w", userID, err)
	}
	return models.ProfileFromDocument(userID, doc)
}

// Decide - таблица решений по роли и флагу завершенности профиля.
// Неизвестная роль всегда ведет на NeedsAuth.
func Decide(profile *models.UserProfile) models.Destination {
	if profile == nil {
		return models.DestinationNeedsAuth
	}
	if profile.ProfileCompleted {
		return models.HomeDestination(profile.Role)
	}
	return models.SetupDestination(profile.Role)
}
