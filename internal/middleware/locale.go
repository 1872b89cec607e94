package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"saraobi.com/web/internal/langpref"
	"saraobi.com/web/internal/requestctx"
)

// LanguageQueryParam overrides the stored preference for the request and persists it.
const LanguageQueryParam = "lang"

// LanguageOptions configures the Language middleware.
type LanguageOptions struct {
	Codec *langpref.CookieCodec
	// Negotiate picks the first-visit language from Accept-Language instead
	// of the default.
	Negotiate bool
}

// Language attaches a request-scoped preference store backed by the signed
// app-lang cookie, applies a ?lang= override, and surfaces Content-Language.
func Language(opts LanguageOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			storeOpts := []langpref.Option{langpref.WithLogger(requestctx.Logger(r.Context()))}
			if opts.Negotiate {
				storeOpts = append(storeOpts, langpref.WithFallback(langpref.Negotiate(r.Header.Get("Accept-Language"))))
			}
			var persister langpref.Persister
			if opts.Codec != nil {
				persister = opts.Codec.Persister(w, r)
			}
			store := langpref.New(persister, storeOpts...)
			store.Initialize()

			if q := r.URL.Query().Get(LanguageQueryParam); q != "" {
				if lang, ok := langpref.Parse(q); ok {
					store.Set(lang)
				} else {
					requestctx.Logger(r.Context()).Debug("ignoring unknown language override", zap.String("lang", q))
				}
			}

			h := w.Header()
			h.Add("Vary", "Cookie")
			if opts.Negotiate {
				h.Add("Vary", "Accept-Language")
			}
			// the header tracks toggles made later in the request
			store.Subscribe(func(l langpref.Language) {
				h.Set("Content-Language", l.Code())
			})
			h.Set("Content-Language", store.Current().Code())

			next.ServeHTTP(w, r.WithContext(WithLanguageStore(r.Context(), store)))
		})
	}
}
