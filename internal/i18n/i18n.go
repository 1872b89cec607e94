// Package i18n serves UI strings from the embedded locale bundles.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"saraobi.com/web/internal/langpref"
)

//go:embed locales/*.yaml
var localeFS embed.FS

var files = map[langpref.Language]string{
	langpref.EN: "locales/en.yaml",
	langpref.JP: "locales/ja.yaml",
}

// Bundle holds flattened translations per language. Nested YAML keys are
// joined with dots ("nav.gallery").
type Bundle struct {
	dict     map[langpref.Language]map[string]string
	fallback langpref.Language
}

// Load reads the embedded bundles.
func Load() (*Bundle, error) {
	return LoadFS(localeFS)
}

// LoadFS reads bundles from fsys. The default language bundle is required;
// others may be absent.
func LoadFS(fsys fs.FS) (*Bundle, error) {
	b := &Bundle{
		dict:     map[langpref.Language]map[string]string{},
		fallback: langpref.Default,
	}
	for lang, path := range files {
		raw, err := fs.ReadFile(fsys, path)
		if err != nil {
			if lang == b.fallback {
				return nil, fmt.Errorf("load locale %s: %w", lang.Code(), err)
			}
			continue
		}
		var tree map[string]any
		if err := yaml.Unmarshal(raw, &tree); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", path, err)
		}
		flat := map[string]string{}
		flatten("", tree, flat)
		b.dict[lang] = flat
	}
	return b, nil
}

// MustLoad is Load for package init paths; the bundles are compiled in.
func MustLoad() *Bundle {
	b, err := Load()
	if err != nil {
		panic(err)
	}
	return b
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch t := v.(type) {
		case map[string]any:
			flatten(key, t, out)
		case string:
			out[key] = strings.TrimRight(t, "\n")
		case nil:
			out[key] = ""
		default:
			out[key] = fmt.Sprint(t)
		}
	}
}

// T returns the translation for key in lang, falling back to the default
// language and finally to the key itself.
func (b *Bundle) T(lang langpref.Language, key string) string {
	if b == nil {
		return key
	}
	if m, ok := b.dict[lang]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if m, ok := b.dict[b.fallback]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return key
}

// Tf formats the translation of key with args.
func (b *Bundle) Tf(lang langpref.Language, key string, args ...any) string {
	return fmt.Sprintf(b.T(lang, key), args...)
}

// Keys lists every key known for lang, sorted.
func (b *Bundle) Keys(lang langpref.Language) []string {
	m := b.dict[lang]
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
