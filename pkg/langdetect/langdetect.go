// Package langdetect tells English job postings from Vietnamese ones.
package langdetect

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// Unknown is reported for text that is empty or too ambiguous to call.
const Unknown = "unknown"

// Detector wraps a lingua detector restricted to the corpus languages.
// It is safe for concurrent use.
type Detector struct {
	lingua lingua.LanguageDetector
}

// New builds a detector for the given languages, English and Vietnamese
// when none are given.
func New(languages ...lingua.Language) *Detector {
	if len(languages) < 2 {
		languages = []lingua.Language{lingua.English, lingua.Vietnamese}
	}
	return &Detector{
		lingua: lingua.NewLanguageDetectorBuilder().
			FromLanguages(languages...).
			Build(),
	}
}

// Detect returns the lowercase ISO 639-1 code of the language of text.
// ok is false when no language could be determined.
func (d *Detector) Detect(text string) (code string, ok bool) {
	if strings.TrimSpace(text) == "" {
		return Unknown, false
	}
	lang, exists := d.lingua.DetectLanguageOf(text)
	if !exists {
		return Unknown, false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}
