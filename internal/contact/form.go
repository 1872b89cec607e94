// Package contact validates inquiries and forwards them to the form relay.
package contact

import (
	"errors"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"saraobi.com/web/internal/content"
	"saraobi.com/web/internal/langpref"
)

const (
	maxNameLength    = 100
	maxEmailLength   = 254
	maxMessageLength = 5000
)

// InquiryType is the stable code of an inquiry category.
type InquiryType string

const (
	InquiryCustomOrder InquiryType = "custom"
	InquiryGeneral     InquiryType = "general"
	InquiryOther       InquiryType = "other"
)

var inquiryLabels = map[InquiryType]content.LocalizedText{
	InquiryCustomOrder: {EN: "Custom Order Inquiry", JP: "カスタムオーダーについて"},
	InquiryGeneral:     {EN: "General Enquiry", JP: "一般お問い合わせ"},
	InquiryOther:       {EN: "Other", JP: "その他"},
}

// InquiryTypes lists the selectable types in display order.
func InquiryTypes() []InquiryType {
	return []InquiryType{InquiryCustomOrder, InquiryGeneral, InquiryOther}
}

// Label returns the type's label in lang, or the raw code for unknown types.
func (t InquiryType) Label(lang langpref.Language) string {
	if l, ok := inquiryLabels[t]; ok {
		return l.In(lang)
	}
	return string(t)
}

// ParseInquiryType accepts a code or a label in either language. Blank input
// selects the first type, like an untouched select box.
func ParseInquiryType(v string) (InquiryType, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return InquiryCustomOrder, true
	}
	for _, t := range InquiryTypes() {
		l := inquiryLabels[t]
		if strings.EqualFold(v, string(t)) || v == l.EN || v == l.JP {
			return t, true
		}
	}
	return InquiryType(v), false
}

// Form is one inquiry as typed by the visitor.
type Form struct {
	Name    string      `json:"name"`
	Email   string      `json:"email"`
	Type    InquiryType `json:"type"`
	Message string      `json:"message"`

	// Lang is the page language the form was filled in.
	Lang langpref.Language `json:"-"`
}

// FormFromValues reads a submitted form body.
func FormFromValues(values url.Values, lang langpref.Language) Form {
	t, _ := ParseInquiryType(values.Get("type"))
	return Form{
		Name:    strings.TrimSpace(values.Get("name")),
		Email:   strings.TrimSpace(values.Get("email")),
		Type:    t,
		Message: strings.TrimSpace(values.Get("message")),
		Lang:    lang,
	}
}

// Validate checks required fields, email format, lengths, and the inquiry type.
func (f Form) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required, validation.RuneLength(1, maxNameLength)),
		validation.Field(&f.Email, validation.Required, validation.Length(3, maxEmailLength), is.EmailFormat),
		validation.Field(&f.Type, validation.Required, validation.In(InquiryCustomOrder, InquiryGeneral, InquiryOther)),
		validation.Field(&f.Message, validation.Required, validation.RuneLength(1, maxMessageLength)),
	)
}

// FieldErrors maps form fields to a short problem code: required, email,
// length, or choice.
type FieldErrors map[string]string

// Has reports whether field failed validation.
func (e FieldErrors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// FieldErrorsFrom flattens a validation error. Errors that are not field
// validation failures yield nil.
func FieldErrorsFrom(err error) FieldErrors {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(FieldErrors, len(verrs))
	for field, ferr := range verrs {
		out[field] = problemCode(ferr)
	}
	return out
}

func problemCode(err error) string {
	var verr validation.Error
	if !errors.As(err, &verr) {
		return "invalid"
	}
	switch verr.Code() {
	case validation.ErrRequired.Code():
		return "required"
	case is.ErrEmail.Code():
		return "email"
	case validation.ErrInInvalid.Code():
		return "choice"
	case validation.ErrLengthOutOfRange.Code(), validation.ErrLengthTooLong.Code(), validation.ErrLengthTooShort.Code():
		return "length"
	}
	return "invalid"
}
