package detector

import (
	"testing"

	"golang.org/x/text/language"
)

func TestDetector_Detect(t *testing.T) {
	d := New()

	tests := []struct {
		name     string
		text     string
		wantLang string
		wantOK   bool
	}{
		{
			name:   "empty text",
			text:   "",
			wantOK: false,
		},
		{
			name:   "whitespace only",
			text:   " \n\t",
			wantOK: false,
		},
		{
			name:     "english text",
			text:     "Hello, this is a test in English.",
			wantLang: "English",
			wantOK:   true,
		},
		{
			name:     "german text",
			text:     "Hallo, das ist ein Test auf Deutsch.",
			wantLang: "German",
			wantOK:   true,
		},
		{
			name:     "french text",
			text:     "Bonjour, ceci est un test en français.",
			wantLang: "French",
			wantOK:   true,
		},
		{
			name:     "russian text",
			text:     "Это тест на русском языке.",
			wantLang: "Russian",
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lang, ok := d.Detect(tt.text)
			if ok != tt.wantOK {
				t.Errorf("Detect(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
				return
			}
			if tt.wantOK && lang.String() != tt.wantLang {
				t.Errorf("Detect(%q) = %v, want %v", tt.text, lang, tt.wantLang)
			}
		})
	}
}

func TestDetector_DetectTag(t *testing.T) {
	d := New()

	tests := []struct {
		name    string
		text    string
		wantTag language.Tag
		wantOK  bool
	}{
		{
			name:    "empty text",
			text:    "",
			wantTag: language.Und,
			wantOK:  false,
		},
		{
			name:    "english text",
			text:    "The old lighthouse keeper climbed the stairs every evening.",
			wantTag: language.English,
			wantOK:  true,
		},
		{
			name:    "german text",
			text:    "Der alte Leuchtturmwärter stieg jeden Abend die Treppe hinauf.",
			wantTag: language.German,
			wantOK:  true,
		},
		{
			name:    "russian text",
			text:    "Старый смотритель маяка каждый вечер поднимался по лестнице.",
			wantTag: language.Russian,
			wantOK:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, ok := d.DetectTag(tt.text)
			if ok != tt.wantOK {
				t.Errorf("DetectTag(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
				return
			}
			if tag != tt.wantTag {
				t.Errorf("DetectTag(%q) = %v, want %v", tt.text, tag, tt.wantTag)
			}
		})
	}
}

func TestDetector_ShortText(t *testing.T) {
	d := New()

	// Short text may or may not be detected, just check it doesn't panic
	_, _ = d.DetectTag("Hi")
}
