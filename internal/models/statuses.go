package models

import "strings"

// Role - категория аккаунта, задается один раз при регистрации
type Role string

const (
	RoleInfluencer Role = "influencer"
	RoleAdvertiser Role = "advertiser"
	// RoleUnknown - все, что не influencer/advertiser (включая "unset")
	RoleUnknown Role = "unset"
)

// ParseRole разбирает сохраненную строку роли без учета регистра.
// Неизвестные значения дают RoleUnknown, а не ошибку.
func ParseRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(RoleInfluencer):
		return RoleInfluencer
	case string(RoleAdvertiser):
		return RoleAdvertiser
	default:
		return RoleUnknown
	}
}

// IsKnown - true для influencer и advertiser
func (r Role) IsKnown() bool {
	return r == RoleInfluencer || r == RoleAdvertiser
}

// Destination - экран, на который попадает пользователь после резолвинга сессии
type Destination string

const (
	DestinationNeedsAuth            Destination = "needs_auth"
	DestinationNeedsInfluencerSetup Destination = "needs_influencer_setup"
	DestinationNeedsAdvertiserSetup Destination = "needs_advertiser_setup"
	DestinationInfluencerHome       Destination = "influencer_home"
	DestinationAdvertiserHome       Destination = "advertiser_home"
)

// SetupDestination возвращает экран онбординга для роли
func SetupDestination(role Role) Destination {
	switch role {
	case RoleInfluencer:
		return DestinationNeedsInfluencerSetup
	case RoleAdvertiser:
		return DestinationNeedsAdvertiserSetup
	default:
		return DestinationNeedsAuth
	}
}

// HomeDestination возвращает главный экран для роли
func HomeDestination(role Role) Destination {
	switch role {
	case RoleInfluencer:
		return DestinationInfluencerHome
	case RoleAdvertiser:
		return DestinationAdvertiserHome
	default:
		return DestinationNeedsAuth
	}
}
