package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

// LanguageContextKey - ключ, по которому в context.Context хранится language.Tag запроса
const LanguageContextKey = contextKey("lang")

// Ключи gin.Context (c.Set / c.Get)
const (
	UserIDKey    = "userID"
	SessionIDKey = "sessionID"
	LanguageKey  = "lang"
)
