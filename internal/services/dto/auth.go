package dto

import (
	"time"

	"influmatch_backend/internal/models"
)

// SignUpRequest - запрос регистрации
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,is-user-role"`
}

// SignInRequest - запрос входа
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest - запрос обновления токена
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse - ответ с токенами. Destination заполняется только при регистрации.
type AuthResponse struct {
	UserID       string             `json:"user_id"`
	AccessToken  string             `json:"access_token"`
	RefreshToken string             `json:"refresh_token"`
	ExpiresAt    time.Time          `json:"expires_at"`
	Destination  models.Destination `json:"destination,omitempty"`
}

// DestinationResponse - куда направить пользователя
type DestinationResponse struct {
	Destination models.Destination `json:"destination"`
}
