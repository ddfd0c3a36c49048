package models

import (
	"errors"
	"fmt"
	"time"
)

// ProfilesCollection - коллекция документов профилей, ключ = ID пользователя
const ProfilesCollection = "users"

// Ключи полей документа профиля
const (
	FieldID               = "id"
	FieldEmail            = "email"
	FieldRole             = "role"
	FieldProfileCompleted = "profileCompleted"
	FieldRoleAttributes   = "roleAttributes"
	FieldCreatedAt        = "createdAt"
	FieldUpdatedAt        = "updatedAt"
)

// ErrMalformedProfile - документ есть, но поля имеют неверный тип
var ErrMalformedProfile = errors.New("malformed profile document")

// UserProfile - один документ на пользователя
type UserProfile struct {
	ID               string         `json:"id"`
	Email            string         `json:"email"`
	Role             Role           `json:"role"`
	ProfileCompleted bool           `json:"profile_completed"`
	RoleAttributes   map[string]any `json:"role_attributes,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// NewUserProfile - профиль сразу после создания аккаунта
func NewUserProfile(id, email string, role Role, now time.Time) *UserProfile {
	return &UserProfile{
		ID:               id,
		Email:            email,
		Role:             role,
		ProfileCompleted: false,
		RoleAttributes:   map[string]any{},
		CreatedAt:        now.UTC(),
		UpdatedAt:        now.UTC(),
	}
}

// ToDocument сериализует профиль в документ хранилища
func (p *UserProfile) ToDocument() map[string]any {
	attrs := p.RoleAttributes
	if attrs == nil {
		attrs = map[string]any{}
	}
	return map[string]any{
		FieldID:               p.ID,
		FieldEmail:            p.Email,
		FieldRole:             string(p.Role),
		FieldProfileCompleted: p.ProfileCompleted,
		FieldRoleAttributes:   attrs,
		FieldCreatedAt:        p.CreatedAt.UTC().Format(time.RFC3339),
		FieldUpdatedAt:        p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// ProfileFromDocument разбирает документ. Роль парсится один раз в
// закрытый enum; неизвестная роль не считается ошибкой формата.
func ProfileFromDocument(id string, doc map[string]any) (*UserProfile, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: empty document", ErrMalformedProfile)
	}

	rawRole, ok := doc[FieldRole].(string)
	if !ok {
		return nil, fmt.Errorf("%w: role is %T", ErrMalformedProfile, doc[FieldRole])
	}

	completed := false
	if v, present := doc[FieldProfileCompleted]; present && v != nil {
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: profileCompleted is %T", ErrMalformedProfile, v)
		}
		completed = b
	}

	profile := &UserProfile{
		ID:               id,
		Role:             ParseRole(rawRole),
		ProfileCompleted: completed,
	}
	if storedID, ok := doc[FieldID].(string); ok && storedID != "" {
		profile.ID = storedID
	}
	if email, ok := doc[FieldEmail].(string); ok {
		profile.Email = email
	}
	if attrs, ok := doc[FieldRoleAttributes].(map[string]any); ok {
		profile.RoleAttributes = attrs
	}
	profile.CreatedAt = parseDocTime(doc[FieldCreatedAt])
	profile.UpdatedAt = parseDocTime(doc[FieldUpdatedAt])

	return profile, nil
}

func parseDocTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t.UTC()
	case string:
		parsed, err := time.Parse(time.RFC3339, t)
		if err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}

// ==========================
// Role-specific attributes
// ==========================

// InfluencerAttributes - данные онбординга инфлюенсера
type InfluencerAttributes struct {
	Platforms     []string `json:"platforms"`
	Categories    []string `json:"categories"`
	Bio           string   `json:"bio"`
	FollowerCount int      `json:"followerCount"`
	City          string   `json:"city"`
}

func (InfluencerAttributes) Role() Role { return RoleInfluencer }

// ToMap - представление для roleAttributes
func (a InfluencerAttributes) ToMap() map[string]any {
	return map[string]any{
		"platforms":     stringsToAny(a.Platforms),
		"categories":    stringsToAny(a.Categories),
		"bio":           a.Bio,
		"followerCount": a.FollowerCount,
		"city":          a.City,
	}
}

// AdvertiserAttributes - данные онбординга рекламодателя
type AdvertiserAttributes struct {
	CompanyName string `json:"companyName"`
	Industry    string `json:"industry"`
	Website     string `json:"website"`
	Bio         string `json:"bio"`
	City        string `json:"city"`
}

func (AdvertiserAttributes) Role() Role { return RoleAdvertiser }

// ToMap - представление для roleAttributes
func (a AdvertiserAttributes) ToMap() map[string]any {
	return map[string]any{
		"companyName": a.CompanyName,
		"industry":    a.Industry,
		"website":     a.Website,
		"bio":         a.Bio,
		"city":        a.City,
	}
}

func stringsToAny(in []string) []any {
	out := make([]any, 0, len(in))
	for _, s := range in {
		out = append(out, s)
	}
	return out
}
