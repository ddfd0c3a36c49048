package models

import "time"

// Account - учетная запись identity-сервиса (email + пароль)
type Account struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`

	// Relations
	Sessions []Session `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
}

// Session - выданная сессия. ID совпадает с jti access-токена.
type Session struct {
	ID           string    `gorm:"type:varchar(32);primaryKey"`
	AccountID    string    `gorm:"type:varchar(36);not null;index"`
	RefreshToken string    `gorm:"not null;uniqueIndex"`
	ExpiresAt    time.Time `gorm:"not null;index"`
	RevokedAt    *time.Time
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

// IsActive - сессия не отозвана и не истекла
func (s *Session) IsActive(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
