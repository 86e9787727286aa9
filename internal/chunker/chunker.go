// Package chunker splits a document into translation units along paragraph
// boundaries. Paragraphs are packed greedily into chunks no longer than a
// configured number of unicode code points; a paragraph that is longer than
// the limit on its own is kept whole unless Options.HardLimit is set.
package chunker

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ParagraphSeparator joins paragraphs inside a chunk and chunks in the
// reassembled output.
const ParagraphSeparator = "\n\n"

// ErrInvalidMaxLen is returned when the chunk limit is not positive.
var ErrInvalidMaxLen = errors.New("max chunk length must be positive")

// blankLineRe matches a paragraph break: a newline, an optional line of
// horizontal whitespace, and another newline.
var blankLineRe = regexp.MustCompile(`\n[ \t\f\v\p{Zs}]*\n`)

// Chunk is one translation unit.
type Chunk struct {
	Index int
	Text  string
	// Sep is written after this chunk's translation when the output is
	// reassembled. It is ParagraphSeparator except between the pieces of a
	// hard-split paragraph.
	Sep string
}

// Options controls SplitChunks.
type Options struct {
	MaxLen int
	// HardLimit cuts paragraphs longer than MaxLen into pieces, preferring
	// the last whitespace before the limit.
	HardLimit bool
}

// Split packs the paragraphs of text into chunks of at most maxLen code
// points. A single paragraph longer than maxLen becomes its own chunk.
// An empty or blank document yields no chunks.
func Split(text string, maxLen int) ([]string, error) {
	chunks, err := SplitChunks(text, Options{MaxLen: maxLen})
	if err != nil {
		return nil, err
	}
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Text
	}
	return out, nil
}

// SplitChunks is Split with options and per-chunk separators.
func SplitChunks(text string, opts Options) ([]Chunk, error) {
	if opts.MaxLen <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMaxLen, opts.MaxLen)
	}

	var (
		chunks []Chunk
		buf    strings.Builder
		bufLen int
	)

	emit := func(text, sep string) {
		chunks = append(chunks, Chunk{Index: len(chunks), Text: text, Sep: sep})
	}
	flush := func() {
		if bufLen == 0 {
			return
		}
		emit(buf.String(), ParagraphSeparator)
		buf.Reset()
		bufLen = 0
	}

	sepLen := utf8.RuneCountInString(ParagraphSeparator)
	for _, p := range Paragraphs(text) {
		n := utf8.RuneCountInString(p)

		if opts.HardLimit && n > opts.MaxLen {
			flush()
			pieces := cutParagraph(p, opts.MaxLen)
			for i, pc := range pieces {
				sep := pc.sep
				if i == len(pieces)-1 {
					sep = ParagraphSeparator
				}
				emit(pc.text, sep)
			}
			continue
		}

		if bufLen > 0 && bufLen+sepLen+n <= opts.MaxLen {
			buf.WriteString(ParagraphSeparator)
			buf.WriteString(p)
			bufLen += sepLen + n
			continue
		}

		flush()
		buf.WriteString(p)
		bufLen = n
	}
	flush()

	return chunks, nil
}

// Paragraphs returns the trimmed, non-empty paragraphs of text in order.
func Paragraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	raw := blankLineRe.Split(text, -1)

	paragraphs := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

type piece struct {
	text string
	sep  string
}

// cutParagraph splits p into pieces of at most maxLen runes. A cut at
// whitespace consumes the whole whitespace run and records it as the
// separator, so line breaks inside the paragraph survive; a hard cut records "".
func cutParagraph(p string, maxLen int) []piece {
	var pieces []piece
	rest := []rune(p)

	for len(rest) > maxLen {
		cut := -1
		for i := maxLen; i > 0; i-- {
			if unicode.IsSpace(rest[i]) {
				cut = i
				break
			}
		}

		if cut > 0 {
			lo, hi := cut, cut
			for lo > 0 && unicode.IsSpace(rest[lo-1]) {
				lo--
			}
			for hi < len(rest) && unicode.IsSpace(rest[hi]) {
				hi++
			}
			pieces = append(pieces, piece{
				text: string(rest[:lo]),
				sep:  string(rest[lo:hi]),
			})
			rest = rest[hi:]
			continue
		}

		pieces = append(pieces, piece{text: string(rest[:maxLen]), sep: ""})
		rest = rest[maxLen:]
	}

	if len(rest) > 0 {
		pieces = append(pieces, piece{text: string(rest)})
	}
	return pieces
}
