package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"saraobi.com/web/internal/httpx"
	"saraobi.com/web/internal/langpref"
	"saraobi.com/web/internal/middleware"
)

// ToggleLanguage switches between EN and JP and sends the visitor back.
func (s *Site) ToggleLanguage(w http.ResponseWriter, r *http.Request) {
	middleware.LanguageStore(r.Context()).Toggle()
	backToReferer(w, r)
}

// SetLanguage selects the language named by the {code} path parameter.
func (s *Site) SetLanguage(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	lang, ok := langpref.Parse(code)
	if !ok {
		httpx.WriteError(r.Context(), w, r,
			httpx.NewError("unsupported_language", "unsupported language", http.StatusBadRequest).
				WithDetails(map[string]any{"lang": code}))
		return
	}
	middleware.LanguageStore(r.Context()).Set(lang)
	backToReferer(w, r)
}

// backToReferer reloads htmx pages in place and redirects everything else.
func backToReferer(w http.ResponseWriter, r *http.Request) {
	if middleware.IsHTMX(r.Context()) {
		w.Header().Set("HX-Refresh", "true")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, refererPath(r), http.StatusSeeOther)
}

// refererPath returns the same-host path of the Referer without any language
// override, or "/".
func refererPath(r *http.Request) string {
	ref := r.Referer()
	if ref == "" {
		return "/"
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "/"
	}
	if u.Host != "" && !strings.EqualFold(u.Host, r.Host) {
		return "/"
	}
	path := u.EscapedPath()
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		return "/"
	}
	q := u.Query()
	q.Del(middleware.LanguageQueryParam)
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}
	return path
}
