package validator

import (
	"log"
	"strings"

	"influmatch_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// Platforms - площадки, которые принимаются в профиле инфлюенсера
var Platforms = []string{"instagram", "tiktok", "youtube", "twitter", "twitch", "facebook"}

// registerCustomRules регистрирует кастомные правила в валидаторе.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// без правил приложение запускаться не должно
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'is-user-role': роль, которую можно выбрать при регистрации
	mustRegister("is-user-role", validateUserRole)

	// 'is-platform': площадка инфлюенсера, работает и на []string через dive
	mustRegister("is-platform", validatePlatform)
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // пустые значения - забота 'required'
	}
	return models.ParseRole(value).IsKnown()
}

func validatePlatform(fl validator.FieldLevel) bool {
	value := strings.ToLower(strings.TrimSpace(fl.Field().String()))
	if value == "" {
		return false
	}
	for _, p := range Platforms {
		if p == value {
			return true
		}
	}
	return false
}
