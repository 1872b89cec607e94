package content

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithUnsafe()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// RichText renders a content-store body as sanitised HTML. Bodies are treated
// as markdown; single newlines become line breaks, matching how the copy is
// authored. Raw HTML from the rich editor passes through the sanitiser.
func RichText(body string) template.HTML {
	body = strings.TrimSpace(body)
	if body == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(body), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(body))
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes()))
}
