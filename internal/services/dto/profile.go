package dto

import (
	"time"

	"influmatch_backend/internal/models"
)

// InfluencerSetupRequest - онбординг инфлюенсера
type InfluencerSetupRequest struct {
	Platforms     []string `json:"platforms" validate:"required,min=1,dive,is-platform"`
	Categories    []string `json:"categories" validate:"required,min=1,dive,required,max=50"`
	Bio           string   `json:"bio" validate:"max=500"`
	FollowerCount int      `json:"followerCount" validate:"min=0"`
	City          string   `json:"city" validate:"required,max=100"`
}

func (r *InfluencerSetupRequest) ToAttributes() models.InfluencerAttributes {
	return models.InfluencerAttributes{
		Platforms:     r.Platforms,
		Categories:    r.Categories,
		Bio:           r.Bio,
		FollowerCount: r.FollowerCount,
		City:          r.City,
	}
}

// AdvertiserSetupRequest - онбординг рекламодателя
type AdvertiserSetupRequest struct {
	CompanyName string `json:"companyName" validate:"required,max=200"`
	Industry    string `json:"industry" validate:"required,max=100"`
	Website     string `json:"website" validate:"omitempty,url"`
	Bio         string `json:"bio" validate:"max=500"`
	City        string `json:"city" validate:"required,max=100"`
}

func (r *AdvertiserSetupRequest) ToAttributes() models.AdvertiserAttributes {
	return models.AdvertiserAttributes{
		CompanyName: r.CompanyName,
		Industry:    r.Industry,
		Website:     r.Website,
		Bio:         r.Bio,
		City:        r.City,
	}
}

// ProfileResponse - профиль текущего пользователя
type ProfileResponse struct {
	ID               string             `json:"id"`
	Email            string             `json:"email"`
	Role             models.Role        `json:"role"`
	ProfileCompleted bool               `json:"profileCompleted"`
	RoleAttributes   map[string]any     `json:"roleAttributes"`
	Destination      models.Destination `json:"destination"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}
