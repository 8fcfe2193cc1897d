package report

import (
	"strings"
	"unicode/utf8"
)

// maxTitleRunes rejects emphasis that spans a whole sentence.
const maxTitleRunes = 50

// maxLabelWords bounds an unmarked "Label: text" header.
const maxLabelWords = 5

// maxHeadingLevel is the deepest "#" marker that opens a section. Deeper
// markers are sub-headings inside a section's content.
const maxHeadingLevel = 2

// header is a recognized section boundary.
type header struct {
	title     string
	remainder string
}

// matchHeader recognizes the header shapes models use for section titles:
//
//	**Title** remainder      __Title__: remainder     ## Title
//	1. **Title:** remainder  - **Title**              Severity: High
//
// The last form carries no markup and is only accepted when the label maps
// to a known category.
func (s *Segmenter) matchHeader(line string) (header, bool) {
	rest := strings.TrimLeft(line, " \t")
	token, rest := cutListToken(rest)

	h, found := matchDelimited(rest)
	if !found {
		if strings.Contains(token, "-") {
			return header{}, false
		}
		h, found = s.matchLabel(rest)
	}
	if !found || h.title == "" || utf8.RuneCountInString(h.title) >= maxTitleRunes {
		return header{}, false
	}
	return h, true
}

// cutListToken strips a leading list or numbering token such as "1.", "2)",
// "-" or "1.2." along with the whitespace after it.
func cutListToken(s string) (token, rest string) {
	i := 0
	for i < len(s) && isListTokenByte(s[i]) {
		i++
	}
	return s[:i], strings.TrimLeft(s[i:], " \t")
}

func isListTokenByte(b byte) bool {
	return (b >= '0' && b <= '9') || b == '-' || b == '.' || b == ')'
}

func matchDelimited(s string) (header, bool) {
	switch {
	case strings.HasPrefix(s, "**"):
		return matchEmphasis(s[2:], "**"), true
	case strings.HasPrefix(s, "__"):
		return matchEmphasis(s[2:], "__"), true
	case strings.HasPrefix(s, "#"):
		return matchHeading(s)
	}
	return header{}, false
}

// matchEmphasis splits the text after an opening delimiter. Without a closing
// delimiter the title runs to the first colon.
func matchEmphasis(body, delim string) header {
	if i := strings.Index(body, delim); i >= 0 {
		return newHeader(body[:i], body[i+len(delim):])
	}
	if i := strings.IndexByte(body, ':'); i >= 0 {
		return newHeader(body[:i], body[i+1:])
	}
	return newHeader(body, "")
}

func matchHeading(s string) (header, bool) {
	level := 0
	for level < len(s) && s[level] == '#' {
		level++
	}
	if level > maxHeadingLevel {
		return header{}, false
	}
	body := s[level:]
	if level == 1 && (body == "" || (body[0] != ' ' && body[0] != '\t')) {
		// "#hashtag" is text, not a heading.
		return header{}, false
	}
	body = strings.TrimSpace(body)
	if strings.HasPrefix(body, "**") {
		return matchEmphasis(body[2:], "**"), true
	}
	if strings.HasPrefix(body, "__") {
		return matchEmphasis(body[2:], "__"), true
	}

	title, remainder := body, ""
	if i := strings.IndexByte(body, ':'); i >= 0 {
		title, remainder = body[:i], body[i+1:]
	}
	title = strings.TrimRight(strings.TrimSpace(title), "#")
	return newHeader(title, remainder), true
}

// matchLabel accepts "Label: remainder" when the label is short, unmarked,
// and names a known category.
func (s *Segmenter) matchLabel(text string) (header, bool) {
	i := strings.IndexByte(text, ':')
	if i <= 0 {
		return header{}, false
	}
	label, after := text[:i], text[i+1:]
	if after != "" && after[0] != ' ' && after[0] != '\t' {
		return header{}, false
	}
	if strings.ContainsAny(label, "*_#`[]") {
		return header{}, false
	}
	if len(strings.Fields(label)) > maxLabelWords {
		return header{}, false
	}
	if s.classifier.Classify(label) == CategoryDefault {
		return header{}, false
	}
	return newHeader(label, after), true
}

func newHeader(title, remainder string) header {
	title = strings.TrimSpace(strings.Trim(title, "*_"))
	title = strings.TrimSpace(strings.TrimSuffix(title, ":"))
	remainder = strings.TrimSpace(remainder)
	remainder = strings.TrimSpace(strings.TrimPrefix(remainder, ":"))
	return header{title: title, remainder: remainder}
}

// isBareOrdinal reports whether s is only a list number like "3." or "3)".
func isBareOrdinal(s string) bool {
	if len(s) < 2 {
		return false
	}
	last := s[len(s)-1]
	if last != '.' && last != ')' {
		return false
	}
	for i := 0; i < len(s)-1; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
