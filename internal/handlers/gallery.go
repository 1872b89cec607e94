package handlers

import (
	"net/http"
	"net/url"

	"saraobi.com/web/internal/cms"
	"saraobi.com/web/internal/gallery"
	"saraobi.com/web/internal/middleware"
)

const (
	galleryEndpoint = "gallery"
	galleryLimit    = 100
	// CategoryParam carries the gallery filter selection.
	CategoryParam = "category"
)

func (s *Site) galleryView(r *http.Request) gallery.View {
	records := s.cms.FetchList(r.Context(), galleryEndpoint, cms.ListOptions{Limit: galleryLimit})
	items := gallery.ItemsFromRecords(records)
	return gallery.Select(items, r.URL.Query().Get(CategoryParam))
}

// galleryURL is the shareable address of a selection.
func galleryURL(selected string) string {
	if selected == gallery.All {
		return "/gallery"
	}
	return "/gallery?" + url.Values{CategoryParam: {selected}}.Encode()
}

// Gallery renders the catalog with the ?category= selection applied.
func (s *Site) Gallery(w http.ResponseWriter, r *http.Request) {
	if !s.cms.Configured() {
		s.diagnostic(w, r, "gallery")
		return
	}
	v := s.galleryView(r)
	data := GalleryData{Layout: s.layout(r, "gallery", "gallery.title", "gallery.desc"), View: v}
	s.renderer.Page(w, r, http.StatusOK, "gallery", data)
}

// GalleryGrid renders only the filter bar and grid for htmx swaps and pushes
// the shareable page URL. Plain requests are redirected to that page.
func (s *Site) GalleryGrid(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsHTMX(r.Context()) {
		target := "/gallery"
		if q := r.URL.Query().Get(CategoryParam); q != "" {
			target += "?" + url.Values{CategoryParam: {q}}.Encode()
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}
	layout := s.layout(r, "gallery", "gallery.title", "")
	if !s.cms.Configured() {
		s.renderer.Fragment(w, r, http.StatusOK, "diagnostic_notice", layout)
		return
	}
	v := s.galleryView(r)
	w.Header().Set("HX-Push-Url", galleryURL(v.Selected))
	s.renderer.Fragment(w, r, http.StatusOK, "gallery_grid", GalleryData{Layout: layout, View: v})
}
