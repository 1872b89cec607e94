package handlers

import (
	"net/http"

	"saraobi.com/web/internal/httpx"
)

// NotFound renders the localized 404 page, or the error envelope for htmx
// and JSON clients.
func (s *Site) NotFound(w http.ResponseWriter, r *http.Request) {
	if httpx.WantsJSON(r) {
		httpx.WriteError(r.Context(), w, r, httpx.NewError("not_found", "page not found", http.StatusNotFound))
		return
	}
	data := ErrorData{
		Layout:   s.layout(r, "error", "errors.not_found", "errors.not_found_body"),
		Status:   http.StatusNotFound,
		TitleKey: "errors.not_found",
		BodyKey:  "errors.not_found_body",
	}
	s.renderer.Page(w, r, http.StatusNotFound, "error", data)
}

func (s *Site) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	httpx.WriteError(r.Context(), w, r, httpx.NewError("method_not_allowed", "method not allowed", http.StatusMethodNotAllowed))
}

// Healthz reports liveness.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
