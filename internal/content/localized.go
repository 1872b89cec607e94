// Package content normalises raw content-store records into language-resolved views.
//
// Records store one field per language for every text slot ("title_en",
// "title_jp"). Nothing downstream of this package sees a missing slot: absent
// or non-string fields become "".
package content

import (
	"strings"

	"saraobi.com/web/internal/langpref"
)

// Record is a decoded content-store object.
type Record map[string]any

// Resolve returns the field for slot in lang, or "" when the record or field is absent.
func Resolve(record Record, lang langpref.Language, slot string) string {
	if record == nil || slot == "" {
		return ""
	}
	if !lang.Valid() {
		lang = langpref.Default
	}
	v, _ := record[slot+lang.Suffix()].(string)
	return v
}

// LocalizedText holds one value per supported language.
type LocalizedText struct {
	EN string
	JP string
}

// In returns the value for lang. Unknown languages read as the default.
func (t LocalizedText) In(lang langpref.Language) string {
	if lang == langpref.JP {
		return t.JP
	}
	return t.EN
}

// Or fills each empty language from fallback independently.
func (t LocalizedText) Or(fallback LocalizedText) LocalizedText {
	return LocalizedText{
		EN: FirstNonEmpty(t.EN, fallback.EN),
		JP: FirstNonEmpty(t.JP, fallback.JP),
	}
}

// IsZero reports whether both languages are blank.
func (t LocalizedText) IsZero() bool {
	return strings.TrimSpace(t.EN) == "" && strings.TrimSpace(t.JP) == ""
}

// Text reads the parallel fields of slot from record.
func Text(record Record, slot string) LocalizedText {
	return LocalizedText{
		EN: Resolve(record, langpref.EN, slot),
		JP: Resolve(record, langpref.JP, slot),
	}
}

// Slots maps slot names to their localized values.
type Slots map[string]LocalizedText

// Normalize reads every named slot once. Slots missing from the record map to
// empty text so lookups never fail.
func Normalize(record Record, slots ...string) Slots {
	out := make(Slots, len(slots))
	for _, slot := range slots {
		out[slot] = Text(record, slot)
	}
	return out
}

// Get returns the slot, or empty text when it was never normalised.
func (s Slots) Get(slot string) LocalizedText {
	if s == nil {
		return LocalizedText{}
	}
	return s[slot]
}

// FirstNonEmpty returns the first source that is not blank. Sources are
// consulted left to right, so callers list them from most to least specific.
func FirstNonEmpty(sources ...string) string {
	for _, v := range sources {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
