// Package messages переводит ошибки в сообщения для пользователя.
// Ошибки сопоставляются по подстроке в фиксированном порядке,
// поэтому ошибка с несколькими маркерами получает первый из списка.
package messages

import (
	"errors"
	"strings"

	"golang.org/x/text/language"
)

// Key - ключ сообщения
type Key string

const (
	KeyWrongPassword     Key = "wrong-password"
	KeyUserNotFound      Key = "user-not-found"
	KeyEmailAlreadyInUse Key = "email-already-in-use"
	KeyWeakPassword      Key = "weak-password"
	KeyInvalidEmail      Key = "invalid-email"
	KeyInvalidToken      Key = "invalid-token"
	KeySessionExpired    Key = "session-expired"
	KeyProfileNotFound   Key = "profile-not-found"
	KeyInvalidRole       Key = "invalid-role"
	KeyNetwork           Key = "network"
	KeyGeneric           Key = "generic"
	KeyValidationFailed  Key = "validation-failed"
	KeyAuthRequired      Key = "auth-required"
)

// порядок проверки важен
var order = []Key{
	KeyWrongPassword,
	KeyUserNotFound,
	KeyEmailAlreadyInUse,
	KeyWeakPassword,
	KeyInvalidEmail,
	KeyInvalidToken,
	KeySessionExpired,
	KeyProfileNotFound,
	KeyInvalidRole,
	KeyNetwork,
}

var supported = []language.Tag{
	language.Turkish, // первый - язык по умолчанию
	language.English,
}

var matcher = language.NewMatcher(supported)

var catalog = map[language.Base]map[Key]string{
	base(language.Turkish): {
		KeyWrongPassword:     "Yanlış şifre",
		KeyUserNotFound:      "Bu e-posta ile kayıtlı kullanıcı bulunamadı",
		KeyEmailAlreadyInUse: "Bu e-posta adresi zaten kullanımda",
		KeyWeakPassword:      "Şifre en az 6 karakter olmalıdır",
		KeyInvalidEmail:      "Geçersiz e-posta adresi",
		KeyInvalidToken:      "Oturum geçersiz, lütfen tekrar giriş yapın",
		KeySessionExpired:    "Oturumun süresi doldu, lütfen tekrar giriş yapın",
		KeyProfileNotFound:   "Profil bulunamadı",
		KeyInvalidRole:       "Geçersiz kullanıcı rolü",
		KeyNetwork:           "Bağlantı hatası, lütfen internet bağlantınızı kontrol edin",
		KeyGeneric:           "Bir hata oluştu, lütfen tekrar deneyin",
		KeyValidationFailed:  "Girilen bilgiler geçersiz",
		KeyAuthRequired:      "Bu işlem için giriş yapmalısınız",
	},
	base(language.English): {
		KeyWrongPassword:     "Wrong password",
		KeyUserNotFound:      "No user found with this email",
		KeyEmailAlreadyInUse: "This email address is already in use",
		KeyWeakPassword:      "Password must be at least 6 characters",
		KeyInvalidEmail:      "Invalid email address",
		KeyInvalidToken:      "Invalid session, please sign in again",
		KeySessionExpired:    "Your session has expired, please sign in again",
		KeyProfileNotFound:   "Profile not found",
		KeyInvalidRole:       "Invalid user role",
		KeyNetwork:           "Network error, please check your connection",
		KeyGeneric:           "Something went wrong, please try again",
		KeyValidationFailed:  "The submitted data is invalid",
		KeyAuthRequired:      "You need to sign in to do this",
	},
}

// Default - язык по умолчанию
var Default = language.Turkish

// Classify возвращает ключ первой найденной подстроки или KeyGeneric
func Classify(err error) Key {
	if err == nil {
		return KeyGeneric
	}
	text := err.Error()
	for _, k := range order {
		if strings.Contains(text, string(k)) {
			return k
		}
	}
	return KeyGeneric
}

// Translate - сообщение для ошибки на языке tag
func Translate(err error, tag language.Tag) string {
	return Message(Classify(err), tag)
}

// Message - сообщение по ключу; неизвестный язык падает на язык по умолчанию
func Message(key Key, tag language.Tag) string {
	table, ok := catalog[base(tag)]
	if !ok {
		table = catalog[base(Default)]
	}
	if msg, ok := table[key]; ok {
		return msg
	}
	return table[KeyGeneric]
}

// Match подбирает поддерживаемый язык по заголовку Accept-Language.
// Пустой или нераспознанный заголовок дает fallback.
func Match(acceptLanguage string, fallback language.Tag) language.Tag {
	if strings.TrimSpace(acceptLanguage) == "" {
		return fallback
	}
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return fallback
	}
	_, idx, conf := matcher.Match(prefs...)
	if conf == language.No {
		return fallback
	}
	return supported[idx]
}

// Parse - тег из конфигурации ("tr", "en"); ошибка для неподдерживаемых
func Parse(raw string) (language.Tag, error) {
	tag, err := language.Parse(raw)
	if err != nil {
		return Default, err
	}
	if _, ok := catalog[base(tag)]; !ok {
		return Default, errors.New("messages: unsupported language " + raw)
	}
	return tag, nil
}

func base(tag language.Tag) language.Base {
	b, _ := tag.Base()
	return b
}
