package handlers

import (
	"saraobi.com/web/internal/contact"
	"saraobi.com/web/internal/content"
	"saraobi.com/web/internal/gallery"
	"saraobi.com/web/internal/langpref"
	"saraobi.com/web/internal/nav"
)

// Layout is shared by every page and fragment.
type Layout struct {
	Lang        langpref.Language
	Page        string
	Path        string
	Title       string
	Description string
	Analytics   Analytics

	Nav     []nav.RenderedItem
	Footer  []nav.RenderedItem
	ShopURL string

	CSRFToken string
	CSRFField string
}

type HomeData struct {
	Layout
	Home content.HomeContent
}

type AboutData struct {
	Layout
	About content.AboutContent
}

type GalleryData struct {
	Layout
	View gallery.View
}

// TypeOption is one entry of the inquiry type select.
type TypeOption struct {
	Value    string
	Label    string
	Selected bool
}

// ContactData renders the contact form in any of its states.
type ContactData struct {
	Layout
	Form      contact.Form
	Errors    contact.FieldErrors
	Notice    *contact.Notice
	State     string
	Submitted bool
	Types     []TypeOption
}

// ErrorData renders a localized error page.
type ErrorData struct {
	Layout
	Status   int
	TitleKey string
	BodyKey  string
}

func typeOptions(selected contact.InquiryType, lang langpref.Language) []TypeOption {
	types := contact.InquiryTypes()
	out := make([]TypeOption, 0, len(types))
	for _, t := range types {
		out = append(out, TypeOption{
			Value:    string(t),
			Label:    t.Label(lang),
			Selected: t == selected,
		})
	}
	return out
}

func newContactData(layout Layout, sub *contact.Submission) ContactData {
	data := ContactData{
		Layout:    layout,
		Form:      sub.Form,
		Errors:    sub.Errors,
		Notice:    sub.TakeNotice(),
		State:     sub.State().String(),
		Submitted: sub.State() == contact.Submitted,
	}
	data.Types = typeOptions(sub.Form.Type, layout.Lang)
	return data
}
