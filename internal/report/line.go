package report

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// LineKind tells a presentation layer how to lay out a content line.
type LineKind string

const (
	LineParagraph  LineKind = "paragraph"
	LineBullet     LineKind = "bullet"
	LineSubheading LineKind = "subheading"
)

// Line is a content line prepared for display.
type Line struct {
	Kind  LineKind `json:"kind"`
	Text  string   `json:"text"`
	Spans []Span   `json:"spans"`
}

// RenderLine classifies a content line and renders its inline markup.
// "###" lines become subheadings. Lines starting with "- " or "* " become
// bullets with the marker removed, as do lines where "-" runs straight into
// a word ("-Apply"); "-5" stays text; numbered steps ("2. Spray…") are bullets
// that keep their number.
func RenderLine(line string) Line {
	text := strings.TrimSpace(line)

	if strings.HasPrefix(text, "###") {
		text = strings.TrimSpace(strings.TrimLeft(text, "#"))
		return Line{Kind: LineSubheading, Text: text, Spans: RenderInline(text)}
	}

	kind := LineParagraph
	if marker, ok := bulletMarker(text); ok {
		kind = LineBullet
		text = strings.TrimSpace(text[len(marker):])
	} else if isNumberedStep(text) {
		kind = LineBullet
	}
	return Line{Kind: kind, Text: text, Spans: RenderInline(text)}
}

func bulletMarker(s string) (string, bool) {
	for _, m := range []string{"- ", "* ", "-\t", "*\t"} {
		if strings.HasPrefix(s, m) {
			return m, true
		}
	}
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		if r, _ := utf8.DecodeRuneInString(rest); unicode.IsLetter(r) {
			return "-", true
		}
	}
	return "", false
}

func isNumberedStep(s string) bool {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i > 0 && i < len(s) && s[i] == '.'
}
