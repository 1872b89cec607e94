package cms

import (
	"net/url"
	"strconv"
	"strings"
)

const assetHost = "images.microcms-assets.io"

// OptimizeImage rewrites an asset URL hosted by the content store so the image
// CDN serves a resized WebP. Other URLs are returned unchanged.
func OptimizeImage(raw string, width int) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || !strings.EqualFold(u.Hostname(), assetHost) {
		return raw
	}
	q := u.Query()
	if width > 0 {
		q.Set("w", strconv.Itoa(width))
	}
	q.Set("fm", "webp")
	q.Set("q", "85")
	u.RawQuery = q.Encode()
	return u.String()
}
