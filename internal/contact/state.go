package contact

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when a submission is moved out of order.
var ErrInvalidTransition = errors.New("contact: invalid state transition")

// State is the lifecycle position of one submission.
type State int

const (
	Editing State = iota
	Submitting
	Submitted
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Submitted:
		return "submitted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Notice is a one-shot message shown after a failed send.
type Notice struct {
	Kind string
	Err  error
}

// Notice kinds.
const (
	NoticeInvalid     = "invalid"
	NoticeRelayFailed = "relay_failed"
)

// Submission tracks a single form through Editing, Submitting, and Submitted.
// Field values survive a failed send so the visitor can retry.
type Submission struct {
	Form   Form
	Errors FieldErrors

	state  State
	notice *Notice
}

// NewSubmission starts in Editing.
func NewSubmission(form Form) *Submission {
	return &Submission{Form: form}
}

func (s *Submission) State() State { return s.state }

// Begin moves Editing to Submitting.
func (s *Submission) Begin() error {
	if s.state != Editing {
		return fmt.Errorf("%w: begin from %s", ErrInvalidTransition, s.state)
	}
	s.state = Submitting
	s.notice = nil
	s.Errors = nil
	return nil
}

// Succeed moves Submitting to Submitted.
func (s *Submission) Succeed() error {
	if s.state != Submitting {
		return fmt.Errorf("%w: succeed from %s", ErrInvalidTransition, s.state)
	}
	s.state = Submitted
	return nil
}

// Fail moves Submitting back to Editing and records a notice for err.
func (s *Submission) Fail(err error) error {
	if s.state != Submitting {
		return fmt.Errorf("%w: fail from %s", ErrInvalidTransition, s.state)
	}
	s.state = Editing
	kind := NoticeRelayFailed
	if fe := FieldErrorsFrom(err); fe != nil {
		kind = NoticeInvalid
		s.Errors = fe
	}
	s.notice = &Notice{Kind: kind, Err: err}
	return nil
}

// Reset moves Submitted back to an empty Editing form.
func (s *Submission) Reset() error {
	if s.state != Submitted {
		return fmt.Errorf("%w: reset from %s", ErrInvalidTransition, s.state)
	}
	s.state = Editing
	s.Form = Form{Type: InquiryCustomOrder, Lang: s.Form.Lang}
	s.Errors = nil
	s.notice = nil
	return nil
}

// TakeNotice returns the pending notice once.
func (s *Submission) TakeNotice() *Notice {
	n := s.notice
	s.notice = nil
	return n
}

// Send validates the form and relays it, driving the state machine. A nil
// return means the submission reached Submitted.
func (s *Submission) Send(ctx context.Context, relay Relay) error {
	if err := s.Begin(); err != nil {
		return err
	}
	if err := s.Form.Validate(); err != nil {
		_ = s.Fail(err)
		return err
	}
	if relay == nil {
		relay = NoopRelay{}
	}
	if err := relay.Submit(ctx, s.Form); err != nil {
		_ = s.Fail(err)
		return err
	}
	return s.Succeed()
}
