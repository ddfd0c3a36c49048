package auth

import (
	"errors"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

var ErrPasswordTooShort = errors.New("password too short")

// PasswordHasher хеширует и проверяет пароли через bcrypt
type PasswordHasher struct {
	cost      int
	minLength int
}

func NewPasswordHasher(cost, minLength int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost, minLength: minLength}
}

// HashPassword создает bcrypt хеш пароля
func (h *PasswordHasher) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	return string(bytes), err
}

// CheckPasswordHash проверяет пароль против хеша
func (h *PasswordHasher) CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePassword проверяет длину пароля в символах
func (h *PasswordHasher) ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < h.minLength {
		return ErrPasswordTooShort
	}
	return nil
}
