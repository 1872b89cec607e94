package middleware

import (
	"context"

	"saraobi.com/web/internal/langpref"
)

// context keys are unexported to avoid collisions
type ctxKey string

const (
	ctxKeyIsHTMX    ctxKey = "is_htmx"
	ctxKeyLangStore ctxKey = "lang_store"
	ctxKeyCSRF      ctxKey = "csrf_token"
)

// WithHTMX marks the request as coming from htmx.
func WithHTMX(ctx context.Context, is bool) context.Context {
	return context.WithValue(ctx, ctxKeyIsHTMX, is)
}

// IsHTMX reports whether this is an htmx request.
func IsHTMX(ctx context.Context) bool {
	v, _ := ctx.Value(ctxKeyIsHTMX).(bool)
	return v
}

// WithLanguageStore stores the request's language preference.
func WithLanguageStore(ctx context.Context, s *langpref.Store) context.Context {
	return context.WithValue(ctx, ctxKeyLangStore, s)
}

// LanguageStore returns the request's store. Requests that bypassed the
// Language middleware get a memory-only store at the default language.
func LanguageStore(ctx context.Context) *langpref.Store {
	if s, ok := ctx.Value(ctxKeyLangStore).(*langpref.Store); ok && s != nil {
		return s
	}
	return langpref.New(nil)
}

// Lang returns the current language of the request.
func Lang(ctx context.Context) langpref.Language {
	return LanguageStore(ctx).Current()
}

func withCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxKeyCSRF, token)
}

// CSRFToken returns the token to embed in forms, or "".
func CSRFToken(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyCSRF).(string)
	return v
}
