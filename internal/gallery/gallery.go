// Package gallery derives filter categories from the catalog and applies a
// category selection to it.
package gallery

import (
	"strings"

	"saraobi.com/web/internal/content"
	"saraobi.com/web/internal/langpref"
)

// All is the sentinel selection that shows every item.
const All = "ALL"

// allLabelJP is the Japanese label of the All button; older links carry it as the selection.
const allLabelJP = "すべて"

// Item is one gallery artifact. Items are immutable once decoded.
type Item struct {
	ID          string
	Title       string
	TitleJP     string
	Image       content.Image
	Categories  []string
	Price       string
	PurchaseURL string
	Description string
}

// DisplayTitle returns the Japanese title for JP when one is set.
func (i Item) DisplayTitle(lang langpref.Language) string {
	if lang == langpref.JP {
		return content.FirstNonEmpty(i.TitleJP, i.Title)
	}
	return i.Title
}

// HasCategory reports whether the item carries category c.
func (i Item) HasCategory(c string) bool {
	for _, v := range i.Categories {
		if v == c {
			return true
		}
	}
	return false
}

// DeriveCategories returns All followed by every distinct category in
// first-occurrence order.
func DeriveCategories(items []Item) []string {
	out := []string{All}
	seen := map[string]struct{}{All: {}}
	for _, item := range items {
		for _, c := range item.Categories {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

// Filter returns items unchanged for All, otherwise the items carrying selected
// in their original order.
func Filter(items []Item, selected string) []Item {
	if selected == All {
		return items
	}
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if item.HasCategory(selected) {
			out = append(out, item)
		}
	}
	return out
}

// NormalizeSelection maps a requested selection onto a valid filter state:
// a derived category, or All for blank, unknown, or the Japanese All label.
func NormalizeSelection(items []Item, selected string) string {
	selected = strings.TrimSpace(selected)
	if selected == "" || selected == All || selected == allLabelJP {
		return All
	}
	for _, c := range DeriveCategories(items) {
		if c == selected {
			return c
		}
	}
	return All
}

// View is a selection applied to a catalog.
type View struct {
	Categories []string
	Selected   string
	Items      []Item
}

// Select normalises selected and applies it.
func Select(items []Item, selected string) View {
	sel := NormalizeSelection(items, selected)
	return View{
		Categories: DeriveCategories(items),
		Selected:   sel,
		Items:      Filter(items, sel),
	}
}

// ItemsFromRecords decodes gallery records.
func ItemsFromRecords(records []content.Record) []Item {
	items := make([]Item, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		items = append(items, Item{
			ID:          content.StringField(rec, "id"),
			Title:       content.StringField(rec, "title"),
			TitleJP:     content.StringField(rec, "title_jp"),
			Image:       content.ImageField(rec, "image"),
			Categories:  content.StringsField(rec, "category"),
			Price:       content.StringField(rec, "price"),
			PurchaseURL: strings.TrimSpace(content.StringField(rec, "etsy_link")),
			Description: content.StringField(rec, "description"),
		})
	}
	return items
}
