package langpref

import (
	"strings"

	"golang.org/x/text/language"
)

// Language is one of the two UI languages the site supports.
type Language string

const (
	EN Language = "EN"
	JP Language = "JP"

	// Default is adopted when nothing valid has been persisted.
	Default = EN
)

// All lists the supported languages in display order.
var All = []Language{EN, JP}

// Parse accepts the wire form ("EN", "JP") as well as BCP 47 codes ("en", "ja")
// and the legacy "jp" spelling, case-insensitively.
func Parse(v string) (Language, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "en":
		return EN, true
	case "jp", "ja":
		return JP, true
	}
	return "", false
}

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	return l == EN || l == JP
}

// Other returns the language a toggle would switch to.
func (l Language) Other() Language {
	if l == JP {
		return EN
	}
	return JP
}

// Code returns the BCP 47 code used for html lang attributes and locale bundles.
func (l Language) Code() string {
	if l == JP {
		return "ja"
	}
	return "en"
}

// Suffix returns the field suffix the content store uses for this language.
func (l Language) Suffix() string {
	if l == JP {
		return "_jp"
	}
	return "_en"
}

func (l Language) String() string { return string(l) }

var matcher = language.NewMatcher([]language.Tag{language.English, language.Japanese})

// Negotiate picks the best supported language for an Accept-Language header.
func Negotiate(acceptLanguage string) Language {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	if idx == 1 {
		return JP
	}
	return EN
}
