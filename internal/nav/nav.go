// Package nav defines the site navigation and marks the active entry.
package nav

import "strings"

// Item is a navigation entry. External entries open the shop in a new tab.
type Item struct {
	Path     string
	LabelKey string
	External bool
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href     string
	LabelKey string
	External bool
	Active   bool
}

// ShopPath marks the entry whose Href is replaced by the configured shop URL.
const ShopPath = "shop"

// Main is the header navigation, in display order.
var Main = []Item{
	{Path: "/about", LabelKey: "nav.about"},
	{Path: "/gallery", LabelKey: "nav.gallery"},
	{Path: ShopPath, LabelKey: "nav.shop", External: true},
	{Path: "/contact", LabelKey: "nav.contact"},
}

// Footer is the footer link list.
var Footer = []Item{
	{Path: ShopPath, LabelKey: "footer.shop", External: true},
	{Path: "/about", LabelKey: "footer.about"},
	{Path: "/gallery", LabelKey: "footer.gallery"},
	{Path: "/contact", LabelKey: "footer.contact"},
}

// Build renders items for currentPath, resolving the shop entry to shopURL.
func Build(items []Item, currentPath, shopURL string) []RenderedItem {
	if currentPath == "" {
		currentPath = "/"
	}
	out := make([]RenderedItem, 0, len(items))
	for _, it := range items {
		href := it.Path
		if it.Path == ShopPath {
			href = shopURL
		}
		out = append(out, RenderedItem{
			Href:     href,
			LabelKey: it.LabelKey,
			External: it.External,
			Active:   !it.External && isActive(it.Path, currentPath),
		})
	}
	return out
}

func isActive(itemPath, currentPath string) bool {
	if itemPath == "/" {
		return currentPath == "/"
	}
	return currentPath == itemPath || strings.HasPrefix(currentPath, itemPath+"/")
}
