// Package detector identifies the language of a piece of prose.
package detector

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"
	"golang.org/x/text/language"
)

// Candidates are the languages the detector distinguishes between: the
// supported targets plus the languages a model most often answers in by
// mistake.
var Candidates = []lingua.Language{
	lingua.English,
	lingua.German,
	lingua.French,
	lingua.Russian,
	lingua.Ukrainian,
	lingua.Spanish,
	lingua.Italian,
	lingua.Portuguese,
	lingua.Polish,
	lingua.Chinese,
	lingua.Japanese,
}

// Detector is expensive to build; reuse the instance.
type Detector struct {
	detector lingua.LanguageDetector
}

func New() *Detector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(Candidates...).
		Build()

	return &Detector{detector: detector}
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if strings.TrimSpace(text) == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// DetectTag reports the detected language as a BCP 47 tag.
func (d *Detector) DetectTag(text string) (language.Tag, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return language.Und, false
	}
	tag, err := language.Parse(strings.ToLower(lang.IsoCode639_1().String()))
	if err != nil {
		return language.Und, false
	}
	return tag, true
}
