package handlers

import (
	"net/http"
	"strings"

	"saraobi.com/web/internal/content"
	"saraobi.com/web/internal/langpref"
)

const (
	homeEndpoint  = "home"
	aboutEndpoint = "about"
)

// Home renders the landing page from the "home" object.
func (s *Site) Home(w http.ResponseWriter, r *http.Request) {
	if !s.cms.Configured() {
		s.diagnostic(w, r, "home")
		return
	}
	rec := s.cms.FetchObject(r.Context(), homeEndpoint)
	home := content.HomeFromRecord(rec)
	if strings.TrimSpace(content.StringField(rec, "shop_url")) == "" {
		home.Shop.URL = s.shopURL
	}

	data := HomeData{Layout: s.layout(r, "home", "", ""), Home: home}
	s.renderer.Page(w, r, http.StatusOK, "home", data)
}

// About renders the about page. Blank slots fall back to the bundled copy, so
// the page renders without a content store.
func (s *Site) About(w http.ResponseWriter, r *http.Request) {
	var rec content.Record
	if s.cms.Configured() {
		rec = s.cms.FetchObject(r.Context(), aboutEndpoint)
	}
	about := content.AboutFromRecord(rec, s.aboutDefaults())

	data := AboutData{Layout: s.layout(r, "about", "about.title", ""), About: about}
	s.renderer.Page(w, r, http.StatusOK, "about", data)
}

func (s *Site) aboutDefaults() content.AboutContent {
	return content.AboutContent{
		Title:        s.localized("about.title"),
		StoryTitle:   s.localized("about.story_title"),
		StoryBody:    s.localized("about.story_body"),
		ProfileTitle: s.localized("about.profile_title"),
		ProfileName:  s.localized("about.profile_name"),
		ProfileBody:  s.localized("about.profile_body"),
	}
}

// localized reads key from both bundles.
func (s *Site) localized(key string) content.LocalizedText {
	return content.LocalizedText{
		EN: s.bundle.T(langpref.EN, key),
		JP: s.bundle.T(langpref.JP, key),
	}
}
