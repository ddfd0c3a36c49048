package messages

import (
	"context"

	"golang.org/x/text/language"

	"influmatch_backend/pkg/contextkeys"
)

// WithLanguage сохраняет язык запроса в context
func WithLanguage(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, contextkeys.LanguageContextKey, tag)
}

// LanguageFromContext - язык запроса или Default
func LanguageFromContext(ctx context.Context) language.Tag {
	if tag, ok := ctx.Value(contextkeys.LanguageContextKey).(language.Tag); ok {
		return tag
	}
	return Default
}
