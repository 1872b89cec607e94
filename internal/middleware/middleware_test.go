package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saraobi.com/web/internal/langpref"
)

var testHashKey = []byte("0123456789abcdef0123456789abcdef")

func newCodec(t *testing.T) *langpref.CookieCodec {
	t.Helper()
	codec, err := langpref.NewCookieCodec(testHashKey, nil, false)
	require.NoError(t, err)
	return codec
}

func langEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(Lang(r.Context())))
	})
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLanguageDefaultsToEnglish(t *testing.T) {
	h := Language(LanguageOptions{Codec: newCodec(t)})(langEcho())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "ja-JP,ja;q=0.9")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "EN", rec.Body.String())
	assert.Equal(t, "en", rec.Header().Get("Content-Language"))
	assert.Nil(t, findCookie(rec, langpref.StorageKey), "reading the default does not persist it")
}

func TestLanguageNegotiatesWhenEnabled(t *testing.T) {
	h := Language(LanguageOptions{Codec: newCodec(t), Negotiate: true})(langEcho())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "ja-JP,ja;q=0.9,en;q=0.5")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "JP", rec.Body.String())
	assert.Contains(t, rec.Header().Values("Vary"), "Accept-Language")
}

func TestLanguageQueryOverridePersists(t *testing.T) {
	codec := newCodec(t)
	h := Language(LanguageOptions{Codec: codec})(langEcho())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/gallery?lang=ja", nil))
	assert.Equal(t, "JP", rec.Body.String())
	assert.Equal(t, "ja", rec.Header().Get("Content-Language"))

	cookie := findCookie(rec, langpref.StorageKey)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/about", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "JP", rec.Body.String(), "cookie carries the preference to the next request")
}

func TestLanguageIgnoresUnknownOverrideAndTamperedCookie(t *testing.T) {
	h := Language(LanguageOptions{Codec: newCodec(t)})(langEcho())
	req := httptest.NewRequest(http.MethodGet, "/?lang=fr", nil)
	req.AddCookie(&http.Cookie{Name: langpref.StorageKey, Value: "JP"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "EN", rec.Body.String())
}

func TestLangWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, langpref.EN, Lang(req.Context()))
}

func TestHTMXFlag(t *testing.T) {
	var seen bool
	h := HTMX(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = IsHTMX(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/gallery/grid", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.True(t, seen)
	assert.Contains(t, rec.Header().Values("Vary"), "HX-Request")
}

func TestCSRF(t *testing.T) {
	p, err := NewCSRF(testHashKey, false)
	require.NoError(t, err)
	var token string
	h := p.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token = CSRFToken(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contact", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotEmpty(t, token)
	cookie := findCookie(rec, csrfCookieName)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	post := func(value string, withCookie bool) *httptest.ResponseRecorder {
		form := url.Values{CSRFFormField: {value}, "name": {"Sara"}}
		req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if withCookie {
			req.AddCookie(cookie)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, post(token, true).Code)
	assert.Equal(t, http.StatusForbidden, post("wrong", true).Code)
	assert.Equal(t, http.StatusForbidden, post(token, false).Code)

	req := httptest.NewRequest(http.MethodPost, "/lang/toggle", nil)
	req.Header.Set(CSRFHeader, token)
	req.Header.Set("HX-Request", "true")
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	form := url.Values{CSRFFormField: {token}, "padding": {strings.Repeat("x", 4096)}}
	req = httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	req.Body = http.MaxBytesReader(rec, req.Body, 1024)
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	_, err = NewCSRF(nil, false)
	assert.Error(t, err)
}

func TestAssetsWithCache(t *testing.T) {
	fsys := fstest.MapFS{"css/site.css": {Data: []byte("body{}")}}
	h := AssetsWithCache(fsys)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/css/site.css", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "body{}", rec.Body.String())
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	assert.Contains(t, rec.Header().Get("Cache-Control"), "max-age=604800")

	req := httptest.NewRequest(http.MethodGet, "/css/site.css", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/css/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
