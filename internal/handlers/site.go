// Package handlers builds view models and serves the site's pages.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"saraobi.com/web/internal/cms"
	"saraobi.com/web/internal/contact"
	"saraobi.com/web/internal/content"
	"saraobi.com/web/internal/i18n"
	"saraobi.com/web/internal/middleware"
	"saraobi.com/web/internal/nav"
	"saraobi.com/web/internal/view"
)

// ContentSource reads content-store records. Failures surface as nil objects
// and empty lists.
type ContentSource interface {
	Configured() bool
	FetchObject(ctx context.Context, endpoint string) content.Record
	FetchList(ctx context.Context, endpoint string, opts cms.ListOptions) []content.Record
}

// Config wires a Site.
type Config struct {
	CMS       ContentSource
	Relay     contact.Relay
	Renderer  *view.Renderer
	Bundle    *i18n.Bundle
	ShopURL   string
	Analytics Analytics
}

// Site serves every page. It holds no per-request state.
type Site struct {
	cms       ContentSource
	relay     contact.Relay
	renderer  *view.Renderer
	bundle    *i18n.Bundle
	shopURL   string
	analytics Analytics
}

// New validates cfg. A nil relay is replaced by one that always fails.
func New(cfg Config) (*Site, error) {
	if cfg.CMS == nil {
		return nil, errors.New("handlers: content source is required")
	}
	if cfg.Renderer == nil {
		return nil, errors.New("handlers: renderer is required")
	}
	if cfg.Bundle == nil {
		return nil, errors.New("handlers: locale bundle is required")
	}
	relay := cfg.Relay
	if relay == nil {
		relay = contact.NoopRelay{}
	}
	return &Site{
		cms:       cfg.CMS,
		relay:     relay,
		renderer:  cfg.Renderer,
		bundle:    cfg.Bundle,
		shopURL:   content.FirstNonEmpty(strings.TrimSpace(cfg.ShopURL), content.DefaultShopURL),
		analytics: cfg.Analytics,
	}, nil
}

// layout builds the shared view model. titleKey names the page title in the
// locale bundle; blank uses the site name alone.
func (s *Site) layout(r *http.Request, page, titleKey, descKey string) Layout {
	ctx := r.Context()
	lang := middleware.Lang(ctx)
	path := r.URL.Path

	title := s.bundle.T(lang, "site.name")
	if titleKey != "" {
		title = s.bundle.T(lang, titleKey) + " | " + title
	}

	return Layout{
		Lang:        lang,
		Page:        page,
		Path:        path,
		Title:       title,
		Description: s.bundle.T(lang, content.FirstNonEmpty(descKey, "site.tagline")),
		Analytics:   s.analytics,
		Nav:         nav.Build(nav.Main, path, s.shopURL),
		Footer:      nav.Build(nav.Footer, path, s.shopURL),
		ShopURL:     s.shopURL,
		CSRFToken:   middleware.CSRFToken(ctx),
		CSRFField:   middleware.CSRFFormField,
	}
}

// diagnostic renders the content-store-not-configured notice in place of page.
func (s *Site) diagnostic(w http.ResponseWriter, r *http.Request, page string) {
	layout := s.layout(r, page, "diagnostic.title", "diagnostic.body")
	s.renderer.Page(w, r, http.StatusOK, "diagnostic", layout)
}
