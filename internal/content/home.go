package content

import "strings"

// Section is one text block on the home page, optionally with an image.
type Section struct {
	Title    LocalizedText
	Body     LocalizedText
	ImageURL string
}

// ShopSection is the text-only shop block. Label and Button override the
// defaults when the content store provides them.
type ShopSection struct {
	Section
	Label  LocalizedText
	Button LocalizedText
	URL    string
}

// HomeContent is the normalised home page.
type HomeContent struct {
	HeroImageURL string
	Concept      Section
	Gallery      Section
	Shop         ShopSection
	Contact      Section
}

// DefaultShopURL is used when the content store does not set shop_url.
const DefaultShopURL = "https://www.etsy.com/jp/shop/SARAOBIPRODUCTS"

var (
	defaultShopTitle = LocalizedText{EN: "Online Shop", JP: "オンラインショップ"}
	defaultShopBody  = LocalizedText{
		EN: "Purchase our collection via Etsy.\nPrice Range: $200 - $500",
		JP: "作品はEtsyにてご購入いただけます。\n価格帯: 30,000円〜",
	}
	defaultShopButton = LocalizedText{EN: "Visit Etsy Shop", JP: "Etsyで見る"}
)

// HomeFromRecord builds the home page from the "home" object. A nil record
// yields the defaults, so an unreachable store still renders a usable page.
func HomeFromRecord(record Record) HomeContent {
	slots := Normalize(record,
		"concept_title", "concept_body",
		"gallery_title", "gallery_body",
		"contact_title", "contact_body",
		"shop_title", "shop_body",
		"shop_label", "shop_button",
	)
	shopTitle := slots.Get("shop_title").Or(defaultShopTitle)
	return HomeContent{
		HeroImageURL: ImageField(record, "hero_image").URL,
		Concept: Section{
			Title: slots.Get("concept_title"),
			Body:  slots.Get("concept_body"),
		},
		Gallery: Section{
			Title:    slots.Get("gallery_title"),
			Body:     slots.Get("gallery_body"),
			ImageURL: ImageField(record, "gallery_image").URL,
		},
		Contact: Section{
			Title:    slots.Get("contact_title"),
			Body:     slots.Get("contact_body"),
			ImageURL: ImageField(record, "contact_image").URL,
		},
		Shop: ShopSection{
			Section: Section{
				Title: shopTitle,
				Body:  slots.Get("shop_body").Or(defaultShopBody),
			},
			// label precedence: shop_label_*, then shop_title_*, then built-in title
			Label:  slots.Get("shop_label").Or(shopTitle),
			Button: slots.Get("shop_button").Or(defaultShopButton),
			URL:    FirstNonEmpty(strings.TrimSpace(StringField(record, "shop_url")), DefaultShopURL),
		},
	}
}

// AboutContent is the normalised about page.
type AboutContent struct {
	Title        LocalizedText
	StoryTitle   LocalizedText
	StoryBody    LocalizedText
	ProfileTitle LocalizedText
	ProfileName  LocalizedText
	ProfileBody  LocalizedText
	ImageURL     string
}

// AboutFromRecord reads the "about" object, filling blanks from defaults.
// Older objects name the two sections s1 and s2; those are read when the
// story and profile slots are empty.
func AboutFromRecord(record Record, defaults AboutContent) AboutContent {
	slots := Normalize(record,
		"title",
		"story_title", "story_body", "s1_title", "s1_body",
		"profile_title", "profile_name", "profile_body", "s2_title", "s2_body",
	)
	return AboutContent{
		Title:        slots.Get("title").Or(defaults.Title),
		StoryTitle:   slots.Get("story_title").Or(slots.Get("s1_title")).Or(defaults.StoryTitle),
		StoryBody:    slots.Get("story_body").Or(slots.Get("s1_body")).Or(defaults.StoryBody),
		ProfileTitle: slots.Get("profile_title").Or(slots.Get("s2_title")).Or(defaults.ProfileTitle),
		ProfileName:  slots.Get("profile_name").Or(defaults.ProfileName),
		ProfileBody:  slots.Get("profile_body").Or(slots.Get("s2_body")).Or(defaults.ProfileBody),
		ImageURL:     FirstNonEmpty(ImageField(record, "image").URL, StringField(record, "image"), defaults.ImageURL),
	}
}
