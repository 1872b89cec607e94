package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saraobi.com/web/internal/langpref"
)

func TestResolveReturnsMatchingField(t *testing.T) {
	t.Parallel()

	rec := Record{"title_en": "Obi Tapestry", "title_jp": "帯タペストリー"}
	assert.Equal(t, "Obi Tapestry", Resolve(rec, langpref.EN, "title"))
	assert.Equal(t, "帯タペストリー", Resolve(rec, langpref.JP, "title"))
}

func TestResolveNeverFails(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		rec  Record
	}{
		{"nil record", nil},
		{"empty record", Record{}},
		{"missing language", Record{"title_en": "only english"}},
		{"non string", Record{"title_jp": 42.5, "title_en": map[string]any{"x": 1}}},
		{"null value", Record{"title_jp": nil}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, "", Resolve(tc.rec, langpref.JP, "title"))
			assert.Equal(t, "", Resolve(tc.rec, langpref.JP, "body"))
		})
	}
}

func TestNormalizeCoversEverySlot(t *testing.T) {
	t.Parallel()

	slots := Normalize(Record{"title_en": "A", "body_jp": "本文"}, "title", "body", "caption")
	require.Len(t, slots, 3)
	assert.Equal(t, LocalizedText{EN: "A"}, slots.Get("title"))
	assert.Equal(t, LocalizedText{JP: "本文"}, slots.Get("body"))
	assert.True(t, slots.Get("caption").IsZero())
	assert.True(t, slots.Get("never-normalized").IsZero())
}

func TestFallbackPrecedence(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "b", FirstNonEmpty("", "  ", "b", "c"))
	assert.Equal(t, "", FirstNonEmpty())

	got := LocalizedText{EN: "cms"}.Or(LocalizedText{EN: "default", JP: "既定"})
	assert.Equal(t, LocalizedText{EN: "cms", JP: "既定"}, got)
}

func TestHomeFromNilRecordUsesDefaults(t *testing.T) {
	t.Parallel()

	home := HomeFromRecord(nil)
	assert.Equal(t, "", home.HeroImageURL)
	assert.Equal(t, "Online Shop", home.Shop.Title.In(langpref.EN))
	assert.Equal(t, "オンラインショップ", home.Shop.Label.In(langpref.JP))
	assert.Equal(t, "Etsyで見る", home.Shop.Button.In(langpref.JP))
	assert.Equal(t, DefaultShopURL, home.Shop.URL)
	assert.True(t, home.Concept.Title.IsZero())
}

func TestHomeFromRecord(t *testing.T) {
	t.Parallel()

	rec := Record{
		"hero_image":       map[string]any{"url": "https://images.microcms-assets.io/hero.jpg", "width": 2000.0, "height": 1200.0},
		"concept_title_en": "ABOUT",
		"concept_title_jp": "コンセプト",
		"gallery_image":    map[string]any{"url": "https://example.com/g.jpg"},
		"shop_title_en":    "Shop",
		"shop_label_jp":    "ショップ",
		"shop_url":         "https://example.com/shop",
	}
	home := HomeFromRecord(rec)
	assert.Equal(t, "https://images.microcms-assets.io/hero.jpg", home.HeroImageURL)
	assert.Equal(t, "コンセプト", home.Concept.Title.In(langpref.JP))
	assert.Equal(t, "https://example.com/g.jpg", home.Gallery.ImageURL)
	assert.Equal(t, "Shop", home.Shop.Label.In(langpref.EN), "label falls back to shop title")
	assert.Equal(t, "ショップ", home.Shop.Label.In(langpref.JP))
	assert.Equal(t, "https://example.com/shop", home.Shop.URL)
}

func TestImageFieldAndStrings(t *testing.T) {
	t.Parallel()

	rec := Record{
		"image":    map[string]any{"url": "u", "width": 300.0, "height": 400.0},
		"category": []any{"GOLD", 3.0, "MODERN"},
		"id":       12.0,
	}
	assert.Equal(t, Image{URL: "u", Width: 300, Height: 400}, ImageField(rec, "image"))
	assert.Equal(t, []string{"GOLD", "MODERN"}, StringsField(rec, "category"))
	assert.Equal(t, "12", StringField(rec, "id"))
	assert.Equal(t, Image{}, ImageField(rec, "missing"))
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	rec := Record{"image": map[string]any{"url": "a"}, "category": []any{"GOLD"}}
	cp := rec.Clone()
	cp["image"].(map[string]any)["url"] = "b"
	cp["category"].([]any)[0] = "MODERN"
	assert.Equal(t, "a", ImageField(rec, "image").URL)
	assert.Equal(t, []string{"GOLD"}, StringsField(rec, "category"))
}

func TestRichTextSanitises(t *testing.T) {
	t.Parallel()

	out := string(RichText("Line one\nLine two <script>alert(1)</script>"))
	assert.Contains(t, out, "<br")
	assert.NotContains(t, out, "<script>")
	assert.Equal(t, "", string(RichText("   ")))
	assert.True(t, strings.HasPrefix(out, "<p>"))
}

func TestAboutFromRecord(t *testing.T) {
	t.Parallel()

	defaults := AboutContent{
		Title:       LocalizedText{EN: "About Sara Obi", JP: "Sara Obi について"},
		StoryTitle:  LocalizedText{EN: "Default story", JP: "既定"},
		ProfileName: LocalizedText{EN: "Sara", JP: "サラ"},
	}

	got := AboutFromRecord(nil, defaults)
	assert.Equal(t, defaults.Title, got.Title)
	assert.Equal(t, "サラ", got.ProfileName.In(langpref.JP))

	rec := Record{
		"s1_title_en":     "Reviving Forgotten Beauty",
		"story_title_jp":  "忘れ去られた美を",
		"s2_body_en":      "Born in Tokyo.",
		"image":           map[string]any{"url": "https://images.microcms-assets.io/about.jpg"},
		"profile_name_jp": "",
	}
	got = AboutFromRecord(rec, defaults)
	assert.Equal(t, "Reviving Forgotten Beauty", got.StoryTitle.In(langpref.EN))
	assert.Equal(t, "忘れ去られた美を", got.StoryTitle.In(langpref.JP))
	assert.Equal(t, "Born in Tokyo.", got.ProfileBody.In(langpref.EN))
	assert.Equal(t, "サラ", got.ProfileName.In(langpref.JP))
	assert.Equal(t, "https://images.microcms-assets.io/about.jpg", got.ImageURL)
}
