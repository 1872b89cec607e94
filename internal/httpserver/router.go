// Package httpserver assembles the router and HTTP server.
package httpserver

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"saraobi.com/web/internal/handlers"
	"saraobi.com/web/internal/middleware"
	"saraobi.com/web/internal/observability"
)

const (
	defaultTimeout = 30 * time.Second
	compressLevel  = 5
	assetsPrefix   = "/assets/"

	// maxFormBody bounds page request bodies before any form parsing.
	maxFormBody = 64 << 10
)

type routerConfig struct {
	logger      *zap.Logger
	timeout     time.Duration
	language    middleware.LanguageOptions
	csrf        *middleware.CSRFProtector
	assets      fs.FS
	middlewares []func(http.Handler) http.Handler
}

// Option customises the router configuration before construction.
type Option func(*routerConfig)

// WithLogger sets the base logger injected into every request.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *routerConfig) {
		cfg.logger = logger
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(cfg *routerConfig) {
		if d > 0 {
			cfg.timeout = d
		}
	}
}

// WithLanguage configures the preference cookie and negotiation.
func WithLanguage(opts middleware.LanguageOptions) Option {
	return func(cfg *routerConfig) {
		cfg.language = opts
	}
}

// WithCSRF enables token checks on page routes.
func WithCSRF(p *middleware.CSRFProtector) Option {
	return func(cfg *routerConfig) {
		cfg.csrf = p
	}
}

// WithAssets serves fsys under /assets/.
func WithAssets(fsys fs.FS) Option {
	return func(cfg *routerConfig) {
		cfg.assets = fsys
	}
}

// WithMiddlewares appends additional global middleware to the router.
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(cfg *routerConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// NewRouter constructs the chi router with shared middleware and the site routes.
func NewRouter(site *handlers.Site, opts ...Option) chi.Router {
	cfg := routerConfig{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	// RealIP trusts X-Forwarded-For; deploy behind a proxy that overwrites it.
	r.Use(chimw.RealIP)
	r.Use(observability.InjectLoggerMiddleware(cfg.logger))
	r.Use(observability.TraceMiddleware)
	r.Use(observability.RequestLoggerMiddleware)
	r.Use(observability.RecoveryMiddleware(cfg.logger))
	r.Use(chimw.Compress(compressLevel))
	r.Use(chimw.Timeout(cfg.timeout))
	r.Use(middleware.HTMX)
	for _, mw := range cfg.middlewares {
		if mw != nil {
			r.Use(mw)
		}
	}

	r.Get("/healthz", handlers.Healthz)
	if cfg.assets != nil {
		r.Handle(assetsPrefix+"*", http.StripPrefix(assetsPrefix, middleware.AssetsWithCache(cfg.assets)))
	}

	r.Group(func(pages chi.Router) {
		pages.Use(chimw.RequestSize(maxFormBody))
		pages.Use(middleware.Language(cfg.language))
		if cfg.csrf != nil {
			pages.Use(cfg.csrf.Middleware)
		}
		pages.NotFound(site.NotFound)
		pages.MethodNotAllowed(site.MethodNotAllowed)

		pages.Get("/", site.Home)
		pages.Get("/about", site.About)
		pages.Get("/gallery", site.Gallery)
		pages.Get("/gallery/grid", site.GalleryGrid)
		pages.Get("/contact", site.Contact)
		pages.Get("/contact/form", site.ContactForm)
		pages.Post("/contact", site.SubmitContact)
		pages.Post("/lang/toggle", site.ToggleLanguage)
		pages.Post("/lang/{code}", site.SetLanguage)
	})

	return r
}
