package testutil

import (
	"context"
	"sync"

	"saraobi.com/web/internal/cms"
	"saraobi.com/web/internal/contact"
	"saraobi.com/web/internal/content"
)

// StaticContent serves fixed records by endpoint.
type StaticContent struct {
	Objects      map[string]content.Record
	Lists        map[string][]content.Record
	Unconfigured bool

	mu    sync.Mutex
	calls []string
}

func (s *StaticContent) Configured() bool { return !s.Unconfigured }

func (s *StaticContent) FetchObject(_ context.Context, endpoint string) content.Record {
	s.record(endpoint)
	if rec, ok := s.Objects[endpoint]; ok {
		return rec.Clone()
	}
	return nil
}

func (s *StaticContent) FetchList(_ context.Context, endpoint string, _ cms.ListOptions) []content.Record {
	s.record(endpoint)
	recs := s.Lists[endpoint]
	out := make([]content.Record, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.Clone())
	}
	return out
}

// Calls returns the endpoints fetched so far.
func (s *StaticContent) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *StaticContent) record(endpoint string) {
	s.mu.Lock()
	s.calls = append(s.calls, endpoint)
	s.mu.Unlock()
}

// RecordingRelay captures submitted forms and returns Err.
type RecordingRelay struct {
	Err error

	mu    sync.Mutex
	forms []contact.Form
}

func (r *RecordingRelay) Submit(_ context.Context, form contact.Form) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forms = append(r.forms, form)
	return r.Err
}

// Forms returns the submitted forms.
func (r *RecordingRelay) Forms() []contact.Form {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]contact.Form(nil), r.forms...)
}
