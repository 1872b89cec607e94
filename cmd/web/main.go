package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/securecookie"
	"go.uber.org/zap"

	"saraobi.com/web/internal/cms"
	"saraobi.com/web/internal/config"
	"saraobi.com/web/internal/contact"
	"saraobi.com/web/internal/handlers"
	"saraobi.com/web/internal/httpserver"
	"saraobi.com/web/internal/i18n"
	"saraobi.com/web/internal/langpref"
	"saraobi.com/web/internal/middleware"
	"saraobi.com/web/internal/observability"
	"saraobi.com/web/internal/view"
)

func main() {
	var templatesDir string
	flag.StringVar(&templatesDir, "templates", view.DefaultDir, "templates directory read in dev mode")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, templatesDir); err != nil {
		fmt.Fprintf(os.Stderr, "web: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, templatesDir string, opts ...config.Option) error {
	cfg, err := config.Load(ctx, opts...)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Log.Level, cfg.Server.Dev)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	a, err := newApp(cfg, logger, templatesDir)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := httpserver.NewServer(httpserver.ServerConfig{
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}, a.handler)

	logger.Info("starting web",
		zap.String("env", cfg.Server.Environment),
		zap.Bool("dev", cfg.Server.Dev),
		zap.Bool("cms_configured", cfg.CMS.Configured()),
	)
	return httpserver.Run(ctx, srv, logger)
}

// app holds the wired handler and the clients it must release on exit.
type app struct {
	handler http.Handler
	closers []func() error
}

func (a *app) Close() {
	for _, c := range a.closers {
		_ = c()
	}
}

func newApp(cfg config.Config, logger *zap.Logger, templatesDir string) (*app, error) {
	hashKey, blockKey, err := cookieKeys(cfg, logger)
	if err != nil {
		return nil, err
	}
	codec, err := langpref.NewCookieCodec(hashKey, blockKey, cfg.Cookies.Secure)
	if err != nil {
		return nil, err
	}
	csrf, err := middleware.NewCSRF(hashKey, cfg.Cookies.Secure)
	if err != nil {
		return nil, err
	}

	bundle, err := i18n.Load()
	if err != nil {
		return nil, fmt.Errorf("load locales: %w", err)
	}
	renderer, err := view.New(view.Options{
		Bundle: bundle,
		Dev:    cfg.Server.Dev,
		Dir:    templatesDir,
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	a := &app{}
	cmsClient := cms.NewClient(cms.Config{
		ServiceDomain: cfg.CMS.ServiceDomain,
		APIKey:        cfg.CMS.APIKey,
		BaseURL:       cfg.CMS.BaseURL,
		Timeout:       cfg.CMS.Timeout,
		CacheTTL:      cfg.CMS.CacheTTL,
	}, logger)
	a.closers = append(a.closers, cmsClient.Close)
	if !cmsClient.Configured() {
		logger.Warn("content store not configured; pages render the diagnostic view")
	}

	relay := contact.NewRelayClient(contact.RelayConfig{
		URL:       cfg.Contact.RelayURL,
		Timeout:   cfg.Contact.Timeout,
		PerSecond: cfg.Contact.PerSecond,
	}, logger)
	if rc, ok := relay.(*contact.RelayClient); ok {
		a.closers = append(a.closers, rc.Close)
	}

	site, err := handlers.New(handlers.Config{
		CMS:       cmsClient,
		Relay:     relay,
		Renderer:  renderer,
		Bundle:    bundle,
		ShopURL:   cfg.Site.ShopURL,
		Analytics: handlers.NewAnalytics(cfg.Site.GAMeasurementID),
	})
	if err != nil {
		return nil, err
	}

	a.handler = httpserver.NewRouter(site,
		httpserver.WithLogger(logger),
		httpserver.WithLanguage(middleware.LanguageOptions{Codec: codec, Negotiate: cfg.Site.NegotiateLanguage}),
		httpserver.WithCSRF(csrf),
		httpserver.WithAssets(view.Assets()),
	)
	return a, nil
}

// cookieKeys returns the configured keys. Outside production a missing hash
// key is replaced by a random one, which invalidates cookies on restart.
func cookieKeys(cfg config.Config, logger *zap.Logger) (hashKey, blockKey []byte, err error) {
	hashKey = []byte(cfg.Cookies.HashKey)
	if len(hashKey) == 0 {
		if cfg.IsProduction() {
			return nil, nil, errors.New("cookie hash key is required in production")
		}
		logger.Warn("cookie hash key not set; using an ephemeral key")
		hashKey = securecookie.GenerateRandomKey(32)
	}
	if cfg.Cookies.BlockKey != "" {
		blockKey = []byte(cfg.Cookies.BlockKey)
	}
	return hashKey, blockKey, nil
}
