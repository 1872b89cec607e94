// Package view renders html/template pages and htmx fragments.
//
// Templates live under templates/: layouts and partials are shared by every
// page, and each file in pages/ is parsed into its own set so pages can all
// define the "content" block. Production parses the embedded copy once; dev
// mode reparses from disk on each render.
package view

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"saraobi.com/web/internal/cms"
	"saraobi.com/web/internal/content"
	"saraobi.com/web/internal/format"
	"saraobi.com/web/internal/i18n"
	"saraobi.com/web/internal/langpref"
	"saraobi.com/web/internal/requestctx"
)

//go:embed templates
var templateFS embed.FS

//go:embed assets
var assetFS embed.FS

// DefaultDir is the on-disk template root read in dev mode, relative to the
// repository root.
const DefaultDir = "internal/view/templates"

// ErrUnknownTemplate is returned for a page or fragment that was never parsed.
var ErrUnknownTemplate = errors.New("view: unknown template")

// Assets returns the embedded static files rooted at assets/.
func Assets() fs.FS {
	sub, err := fs.Sub(assetFS, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}

// Options configures a Renderer.
type Options struct {
	Bundle *i18n.Bundle
	Dev    bool
	// Dir overrides DefaultDir in dev mode.
	Dir    string
	Logger *zap.Logger
}

// Renderer executes parsed template sets.
type Renderer struct {
	dev    bool
	dir    string
	funcs  template.FuncMap
	logger *zap.Logger

	mu  sync.Mutex
	set *templateSet
}

type templateSet struct {
	pages    map[string]*template.Template
	partials *template.Template
}

// New parses the embedded templates. In dev mode parsing is deferred to each
// render so edits show up without a restart.
func New(opts Options) (*Renderer, error) {
	if opts.Bundle == nil {
		return nil, errors.New("view: locale bundle is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	dir := opts.Dir
	if dir == "" {
		dir = DefaultDir
	}
	r := &Renderer{
		dev:    opts.Dev,
		dir:    dir,
		funcs:  funcMap(opts.Bundle),
		logger: logger.Named("view"),
	}
	if !r.dev {
		sub, err := fs.Sub(templateFS, "templates")
		if err != nil {
			return nil, err
		}
		set, err := parse(sub, r.funcs)
		if err != nil {
			return nil, err
		}
		r.set = set
	}
	return r, nil
}

func funcMap(bundle *i18n.Bundle) template.FuncMap {
	return template.FuncMap{
		"now": time.Now,
		"t":   bundle.T,
		"tf":  bundle.Tf,
		"loc": func(text content.LocalizedText, lang langpref.Language) string {
			return text.In(lang)
		},
		"img":        cms.OptimizeImage,
		"paragraphs": format.Paragraphs,
		"lines":      format.Lines,
		"richtext":   content.RichText,
		"hasPrefix":  strings.HasPrefix,
	}
}

func parse(fsys fs.FS, funcs template.FuncMap) (*templateSet, error) {
	var shared []string
	for _, pattern := range []string{"layouts/*.tmpl", "partials/*.tmpl"} {
		matches, err := fs.Glob(fsys, pattern)
		if err != nil {
			return nil, err
		}
		shared = append(shared, matches...)
	}
	if len(shared) == 0 {
		return nil, errors.New("view: no layouts or partials found")
	}
	root, err := template.New("_root").Funcs(funcs).ParseFS(fsys, shared...)
	if err != nil {
		return nil, fmt.Errorf("view: parse shared templates: %w", err)
	}

	pages, err := fs.Glob(fsys, "pages/*.tmpl")
	if err != nil {
		return nil, err
	}
	set := &templateSet{pages: make(map[string]*template.Template, len(pages)), partials: root}
	for _, p := range pages {
		clone, err := root.Clone()
		if err != nil {
			return nil, err
		}
		t, err := clone.ParseFS(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("view: parse %s: %w", p, err)
		}
		set.pages[strings.TrimSuffix(path.Base(p), ".tmpl")] = t
	}
	return set, nil
}

func (r *Renderer) load() (*templateSet, error) {
	if !r.dev {
		return r.set, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return parse(os.DirFS(r.dir), r.funcs)
}

// Page executes the base layout for page name.
func (r *Renderer) Page(w http.ResponseWriter, req *http.Request, status int, name string, data any) {
	r.execute(w, req, status, func(set *templateSet, buf *bytes.Buffer) error {
		t, ok := set.pages[name]
		if !ok {
			return fmt.Errorf("%w: page %q", ErrUnknownTemplate, name)
		}
		return t.ExecuteTemplate(buf, "base", data)
	})
}

// Fragment executes a single shared template, for htmx swaps.
func (r *Renderer) Fragment(w http.ResponseWriter, req *http.Request, status int, name string, data any) {
	r.execute(w, req, status, func(set *templateSet, buf *bytes.Buffer) error {
		if set.partials.Lookup(name) == nil {
			return fmt.Errorf("%w: fragment %q", ErrUnknownTemplate, name)
		}
		return set.partials.ExecuteTemplate(buf, name, data)
	})
}

// Has reports whether page name exists.
func (r *Renderer) Has(name string) bool {
	set, err := r.load()
	if err != nil {
		return false
	}
	_, ok := set.pages[name]
	return ok
}

// execute renders into a buffer first so a failing template never leaves a
// half-written 200 behind.
func (r *Renderer) execute(w http.ResponseWriter, req *http.Request, status int, run func(*templateSet, *bytes.Buffer) error) {
	log := requestctx.Logger(req.Context())
	if log == requestctx.NoopLogger() {
		log = r.logger
	}
	set, err := r.load()
	if err != nil {
		log.Error("template parse failed", zap.Error(err))
		http.Error(w, "template parse error", http.StatusInternalServerError)
		return
	}
	if set == nil {
		http.Error(w, "template not initialized", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := run(set, &buf); err != nil {
		log.Error("template exec failed", zap.Error(err))
		http.Error(w, "template exec error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
