package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"go.uber.org/zap"

	"saraobi.com/web/internal/contact"
	"saraobi.com/web/internal/handlers"
	"saraobi.com/web/internal/httpserver"
	"saraobi.com/web/internal/i18n"
	"saraobi.com/web/internal/langpref"
	"saraobi.com/web/internal/middleware"
	"saraobi.com/web/internal/view"
)

// HashKey signs test cookies.
var HashKey = []byte("0123456789abcdef0123456789abcdef")

// Config is the in-process site configuration for tests.
type Config struct {
	Content   handlers.ContentSource
	Relay     contact.Relay
	Negotiate bool
	ShopURL   string
	Analytics handlers.Analytics
	Logger    *zap.Logger
}

// ServerOption customises the site configuration for tests.
type ServerOption func(*Config)

// WithContent wires a content source.
func WithContent(src handlers.ContentSource) ServerOption {
	return func(cfg *Config) {
		cfg.Content = src
	}
}

// WithRelay wires the contact relay.
func WithRelay(relay contact.Relay) ServerOption {
	return func(cfg *Config) {
		cfg.Relay = relay
	}
}

// WithNegotiation enables Accept-Language negotiation.
func WithNegotiation() ServerOption {
	return func(cfg *Config) {
		cfg.Negotiate = true
	}
}

// WithAnalytics sets the GA4 measurement id.
func WithAnalytics(id string) ServerOption {
	return func(cfg *Config) {
		cfg.Analytics = handlers.NewAnalytics(id)
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *zap.Logger) ServerOption {
	return func(cfg *Config) {
		cfg.Logger = logger
	}
}

// NewHandler constructs the full site stack with embedded templates.
func NewHandler(t testing.TB, opts ...ServerOption) http.Handler {
	t.Helper()

	cfg := Config{
		Content: &StaticContent{},
		Relay:   &RecordingRelay{},
		Logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	bundle, err := i18n.Load()
	if err != nil {
		t.Fatalf("load bundle: %v", err)
	}
	renderer, err := view.New(view.Options{Bundle: bundle, Logger: cfg.Logger})
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	site, err := handlers.New(handlers.Config{
		CMS:       cfg.Content,
		Relay:     cfg.Relay,
		Renderer:  renderer,
		Bundle:    bundle,
		ShopURL:   cfg.ShopURL,
		Analytics: cfg.Analytics,
	})
	if err != nil {
		t.Fatalf("new site: %v", err)
	}
	codec, err := langpref.NewCookieCodec(HashKey, nil, false)
	if err != nil {
		t.Fatalf("cookie codec: %v", err)
	}
	csrf, err := middleware.NewCSRF(HashKey, false)
	if err != nil {
		t.Fatalf("csrf: %v", err)
	}
	return httpserver.NewRouter(site,
		httpserver.WithLogger(cfg.Logger),
		httpserver.WithLanguage(middleware.LanguageOptions{Codec: codec, Negotiate: cfg.Negotiate}),
		httpserver.WithCSRF(csrf),
		httpserver.WithAssets(view.Assets()),
	)
}

// NewServer runs NewHandler behind an httptest server.
func NewServer(t testing.TB, opts ...ServerOption) *httptest.Server {
	t.Helper()

	ts := httptest.NewServer(NewHandler(t, opts...))
	t.Cleanup(ts.Close)
	return ts
}

// Client drives a handler in-process and carries cookies between requests
// the way a browser would.
type Client struct {
	t       testing.TB
	h       http.Handler
	cookies map[string]*http.Cookie
}

func NewClient(t testing.TB, h http.Handler) *Client {
	return &Client{t: t, h: h, cookies: map[string]*http.Cookie{}}
}

// Do serves req with the stored cookies and keeps any cookies set in reply.
func (c *Client) Do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	for _, ck := range c.cookies {
		req.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return rec
}

// Get issues a GET. header may be nil.
func (c *Client) Get(target string, header http.Header) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	copyHeader(req, header)
	return c.Do(req)
}

// PostForm issues a form POST carrying the CSRF token.
func (c *Client) PostForm(target string, values url.Values, header http.Header) *httptest.ResponseRecorder {
	c.t.Helper()
	if values == nil {
		values = url.Values{}
	}
	if values.Get(middleware.CSRFFormField) == "" {
		values.Set(middleware.CSRFFormField, c.CSRFToken())
	}
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	copyHeader(req, header)
	return c.Do(req)
}

// CSRFToken loads the contact page and returns the token it embeds.
func (c *Client) CSRFToken() string {
	c.t.Helper()
	rec := c.Get("/contact", nil)
	doc := ParseHTML(c.t, rec.Body.Bytes())
	token, ok := doc.Find(`meta[name="csrf-token"]`).Attr("content")
	if !ok || token == "" {
		c.t.Fatalf("csrf token not found in page")
	}
	return token
}

// Cookie returns the stored cookie called name, or nil.
func (c *Client) Cookie(name string) *http.Cookie {
	return c.cookies[name]
}

func copyHeader(req *http.Request, header http.Header) {
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
}
