package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saraobi.com/web/internal/content"
	"saraobi.com/web/internal/langpref"
)

func scenarioItems() []Item {
	return []Item{
		{ID: "1", Categories: []string{"GOLD"}},
		{ID: "2", Categories: []string{"MODERN", "GOLD"}},
		{ID: "3", Categories: []string{}},
	}
}

func ids(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestDeriveCategoriesEmpty(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{All}, DeriveCategories(nil))
	require.Empty(t, Filter(nil, All))
	require.Empty(t, Filter([]Item{}, "GOLD"))
}

func TestScenario(t *testing.T) {
	t.Parallel()

	items := scenarioItems()
	assert.Equal(t, []string{"ALL", "GOLD", "MODERN"}, DeriveCategories(items))
	assert.Equal(t, []string{"1", "2"}, ids(Filter(items, "GOLD")))
	assert.Equal(t, []string{"2"}, ids(Filter(items, "MODERN")))
	assert.Equal(t, []string{"1", "2", "3"}, ids(Filter(items, All)))
}

func TestDeriveCategoriesDedupFirstSeen(t *testing.T) {
	t.Parallel()

	items := []Item{
		{ID: "a", Categories: []string{"CLASSIC", "GOLD", "CLASSIC"}},
		{ID: "b", Categories: []string{"MODERN", "CLASSIC"}},
		{ID: "c", Categories: []string{"ALL"}},
	}
	cats := DeriveCategories(items)
	assert.Equal(t, []string{"ALL", "CLASSIC", "GOLD", "MODERN"}, cats)

	seen := map[string]bool{}
	for _, c := range cats {
		assert.False(t, seen[c], "duplicate category %q", c)
		seen[c] = true
	}
}

func TestFilterAllIsIdentity(t *testing.T) {
	t.Parallel()

	items := scenarioItems()
	got := Filter(items, All)
	require.Len(t, got, len(items))
	assert.Same(t, &items[0], &got[0])
}

func TestFilterIsStable(t *testing.T) {
	t.Parallel()

	items := []Item{
		{ID: "1", Categories: []string{"X"}},
		{ID: "2", Categories: []string{"Y"}},
		{ID: "3", Categories: []string{"Y", "X"}},
		{ID: "4", Categories: []string{"X"}},
	}
	assert.Equal(t, []string{"1", "3", "4"}, ids(Filter(items, "X")))
	assert.Empty(t, Filter(items, "Z"))
}

func TestItemWithoutCategoriesOnlyVisibleUnderAll(t *testing.T) {
	t.Parallel()

	items := []Item{{ID: "bare"}}
	for _, c := range []string{"GOLD", "MODERN", ""} {
		assert.Empty(t, Filter(items, c))
	}
	assert.Len(t, Filter(items, All), 1)
}

func TestNormalizeSelection(t *testing.T) {
	t.Parallel()

	items := scenarioItems()
	assert.Equal(t, All, NormalizeSelection(items, ""))
	assert.Equal(t, All, NormalizeSelection(items, "すべて"))
	assert.Equal(t, All, NormalizeSelection(items, "VINTAGE"))
	assert.Equal(t, "MODERN", NormalizeSelection(items, " MODERN "))

	view := Select(items, "unknown")
	assert.Equal(t, All, view.Selected)
	assert.Len(t, view.Items, 3)
}

func TestItemsFromRecords(t *testing.T) {
	t.Parallel()

	records := []content.Record{
		{
			"id":        "abc",
			"title":     "Gold Crane",
			"title_jp":  "金鶴",
			"image":     map[string]any{"url": "https://images.microcms-assets.io/a.jpg", "width": 900.0, "height": 1200.0},
			"category":  []any{"GOLD", "CLASSIC"},
			"price":     "¥45,000",
			"etsy_link": " https://www.etsy.com/listing/1 ",
		},
		nil,
		{"id": "def", "title": "Plain"},
	}
	items := ItemsFromRecords(records)
	require.Len(t, items, 2)
	assert.Equal(t, "abc", items[0].ID)
	assert.Equal(t, []string{"GOLD", "CLASSIC"}, items[0].Categories)
	assert.Equal(t, 1200, items[0].Image.Height)
	assert.Equal(t, "https://www.etsy.com/listing/1", items[0].PurchaseURL)
	assert.Equal(t, "金鶴", items[0].DisplayTitle(langpref.JP))
	assert.Equal(t, "Plain", items[1].DisplayTitle(langpref.JP))
	assert.Empty(t, items[1].Categories)
}
