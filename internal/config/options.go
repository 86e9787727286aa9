package config

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/valpere/booktran/internal/translator"
)

const (
	DefaultMaxChunkLen = 2000
	DefaultBaseURL     = translator.DefaultOpenRouterURL
	DefaultTimeout     = translator.DefaultTimeout
	DefaultDBPath      = "./data/booktran.db"

	// GoogleModel is the reserved model identifier routed to Google Cloud
	// Translation instead of the completion endpoint.
	GoogleModel = translator.GoogleModel
)

// DefaultModels is the fallback order used when no models are configured.
var DefaultModels = []string{
	"tngtech/deepseek-r1t-chimera:free",
	"openai/gpt-oss-120b:free",
	"google/gemma-3-27b-it:free",
	"z-ai/glm-4.5-air:free",
}

// Language is a supported translation target.
type Language struct {
	Name string
	Tag  language.Tag
}

// Code returns the ISO 639-1 code of the language.
func (l Language) Code() string {
	base, _ := l.Tag.Base()
	return base.String()
}

// NativeName returns the language's name in itself, e.g. "Deutsch".
func (l Language) NativeName() string {
	return display.Self.Name(l.Tag)
}

var Languages = []Language{
	{Name: "English", Tag: language.English},
	{Name: "German", Tag: language.German},
	{Name: "French", Tag: language.French},
	{Name: "Russian", Tag: language.Russian},
}

// LookupLanguage finds a supported language by English name or ISO code,
// case-insensitively.
func LookupLanguage(s string) (Language, bool) {
	s = strings.TrimSpace(s)
	for _, l := range Languages {
		if strings.EqualFold(l.Name, s) || strings.EqualFold(l.Code(), s) {
			return l, true
		}
	}
	return Language{}, false
}

var Genres = []string{
	"Fantasy",
	"Science Fiction (Sci-Fi)",
	"Mystery",
	"Thriller",
	"Romance",
	"Horror",
	"Historical Fiction",
	"Young Adult (YA)",
	"Dystopian",
	"Adventure",
	"Crime",
	"Drama",
	"Contemporary Fiction",
	"Nonfiction",
	"Biography",
	"Autobiography",
	"Self-Help",
	"Classic Literature",
	"Graphic Novels",
	"Paranormal",
	"Urban Fantasy",
	"Literary Fiction",
	"Psychological Thriller",
	"Epic Fantasy",
	"Dark Fantasy",
}

// LookupGenre returns the canonical spelling of a genre label.
func LookupGenre(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, g := range Genres {
		if strings.EqualFold(g, s) {
			return g, true
		}
	}
	return "", false
}
