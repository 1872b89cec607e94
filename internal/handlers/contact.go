package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"saraobi.com/web/internal/contact"
	"saraobi.com/web/internal/httpx"
	"saraobi.com/web/internal/middleware"
	"saraobi.com/web/internal/requestctx"
)

func (s *Site) contactLayout(r *http.Request) Layout {
	return s.layout(r, "contact", "contact.title", "contact.desc")
}

// freshSubmission starts an empty form, preselecting ?type= when it names a
// known inquiry.
func freshSubmission(r *http.Request) *contact.Submission {
	t, ok := contact.ParseInquiryType(r.URL.Query().Get("type"))
	if !ok {
		t = contact.InquiryCustomOrder
	}
	return contact.NewSubmission(contact.Form{Type: t, Lang: middleware.Lang(r.Context())})
}

// Contact renders the empty form.
func (s *Site) Contact(w http.ResponseWriter, r *http.Request) {
	data := newContactData(s.contactLayout(r), freshSubmission(r))
	s.renderer.Page(w, r, http.StatusOK, "contact", data)
}

// ContactForm returns a fresh form panel for the "send another" swap.
func (s *Site) ContactForm(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsHTMX(r.Context()) {
		http.Redirect(w, r, "/contact", http.StatusSeeOther)
		return
	}
	data := newContactData(s.contactLayout(r), freshSubmission(r))
	s.renderer.Fragment(w, r, http.StatusOK, "contact_form", data)
}

// SubmitContact validates and relays the form. Failures re-render the form
// with the visitor's values and a one-shot notice.
func (s *Site) SubmitContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		httpx.WriteError(ctx, w, r, httpx.NewError("invalid_form", "form body could not be read", http.StatusBadRequest))
		return
	}
	lang := middleware.Lang(ctx)
	sub := contact.NewSubmission(contact.FormFromValues(r.PostForm, lang))

	log := requestctx.Logger(ctx).With(zap.String("inquiry_type", string(sub.Form.Type)))
	status := http.StatusOK
	err := sub.Send(ctx, s.relay)
	switch {
	case err == nil:
		log.Info("contact submission relayed")
	case errors.Is(err, contact.ErrRelayFailed):
		log.Warn("contact relay failed", zap.Error(err))
	case contact.FieldErrorsFrom(err) != nil:
		log.Debug("contact submission invalid", zap.Error(err))
		status = http.StatusUnprocessableEntity
	default:
		log.Error("contact submission failed", zap.Error(err))
	}

	data := newContactData(s.contactLayout(r), sub)
	if middleware.IsHTMX(ctx) {
		// htmx only swaps 2xx responses
		s.renderer.Fragment(w, r, http.StatusOK, "contact_form", data)
		return
	}
	s.renderer.Page(w, r, status, "contact", data)
}
