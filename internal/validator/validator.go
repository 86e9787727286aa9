// Package validator checks that a translated chunk is in the expected target language.
package validator

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/valpere/booktran/internal/detector"
)

// minValidationLength is the minimum rune count required to attempt language detection.
// Shorter texts produce unreliable results and are accepted without validation.
const minValidationLength = 20

// ErrWrongLanguage is wrapped by IsValid when the detected language differs
// from the target.
var ErrWrongLanguage = errors.New("wrong language")

// Validator checks that a translation is written in the expected target language.
type Validator struct {
	det *detector.Detector
}

// New creates a Validator backed by the lingua-go language detector.
func New() *Validator {
	return &Validator{det: detector.New()}
}

// IsValid returns true when text appears to be written in target. Only the
// base language is compared, so "en-GB" accepts English.
//
// Short texts and texts whose language cannot be determined pass. An
// undetermined target accepts everything.
func (v *Validator) IsValid(text string, target language.Tag) (bool, error) {
	if target == language.Und {
		return true, nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return false, fmt.Errorf("translation is empty")
	}

	if len([]rune(text)) < minValidationLength {
		return true, nil
	}

	detected, ok := v.det.DetectTag(text)
	if !ok {
		return true, nil
	}

	want, _ := target.Base()
	got, _ := detected.Base()
	if want != got {
		return false, fmt.Errorf("%w: expected %s but detected %s", ErrWrongLanguage, want, got)
	}

	return true, nil
}
