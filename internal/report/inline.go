package report

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SpanKind is the inline style of a run of text.
type SpanKind string

const (
	SpanPlain    SpanKind = "plain"
	SpanStrong   SpanKind = "strong"
	SpanEmphasis SpanKind = "emphasis"
)

// Span is a styled run of text with its delimiters removed.
type Span struct {
	Kind SpanKind `json:"kind"`
	Text string   `json:"text"`
}

// RenderInline splits line into plain, strong (**x**) and emphasis (*x*)
// spans. Strong spans are found first; emphasis is only looked for in the
// text between them, so nested markup is left as literal characters.
// Empty input yields a single empty plain span.
func RenderInline(line string) []Span {
	if line == "" {
		return []Span{{Kind: SpanPlain}}
	}

	var spans []Span
	var plain strings.Builder
	rest := line
	for {
		open := strings.Index(rest, "**")
		if open < 0 {
			break
		}
		end := strings.Index(rest[open+2:], "**")
		if end < 0 {
			break
		}
		inner := rest[open+2 : open+2+end]
		if inner == "" {
			// "****" carries no text; keep it literal.
			plain.WriteString(rest[:open+4])
			rest = rest[open+4:]
			continue
		}
		plain.WriteString(rest[:open])
		spans = appendPlain(spans, plain.String())
		plain.Reset()
		spans = append(spans, Span{Kind: SpanStrong, Text: inner})
		rest = rest[open+2+end+2:]
	}
	plain.WriteString(rest)
	return appendPlain(spans, plain.String())
}

// appendPlain appends s, splitting out *emphasis* runs. An emphasis run
// opens with '*' followed by a character that is neither space nor '*', and
// closes at the next '*'.
func appendPlain(spans []Span, s string) []Span {
	for s != "" {
		start, inner, next := findEmphasis(s)
		if start < 0 {
			break
		}
		if start > 0 {
			spans = append(spans, Span{Kind: SpanPlain, Text: s[:start]})
		}
		spans = append(spans, Span{Kind: SpanEmphasis, Text: inner})
		s = s[next:]
	}
	if s != "" {
		spans = append(spans, Span{Kind: SpanPlain, Text: s})
	}
	return spans
}

// findEmphasis returns the offset of the opening '*', the text between the
// delimiters and the offset just past the closing '*', or start = -1.
func findEmphasis(s string) (start int, inner string, next int) {
	for i := 0; i < len(s); i++ {
		if s[i] != '*' {
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i+1:])
		if size == 0 || r == '*' || unicode.IsSpace(r) {
			continue
		}
		closing := strings.IndexByte(s[i+1+size:], '*')
		if closing < 0 {
			// No later '*' can close any candidate either.
			return -1, "", 0
		}
		end := i + 1 + size + closing
		return i, s[i+1 : end], end + 1
	}
	return -1, "", 0
}
