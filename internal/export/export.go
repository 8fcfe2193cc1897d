// Package export renders a diagnosis view as Markdown or as an HTML fragment.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/agriguard/agriguard/internal/report"
)

// ErrHTMLConversion indicates HTML rendering failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// Format names an export format.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
)

// ParseFormat accepts "md", "markdown" or "html". Empty means Markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "md", "markdown":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Markdown writes the view as normalized Markdown: the result heading, one
// "##" heading per section, and the disclaimer as a closing quote. A
// fallback view reproduces the raw text under the heading.
func Markdown(v report.View) string {
	var sb strings.Builder
	if v.Heading != "" {
		sb.WriteString("# " + v.Heading + "\n\n")
	}

	if v.Fallback {
		sb.WriteString(strings.TrimSpace(v.Raw))
		sb.WriteString("\n")
	}
	for i, sec := range v.Sections {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("## " + sec.Title + "\n\n")
		writeLines(&sb, sec.Lines)
	}

	if v.Disclaimer != "" {
		sb.WriteString("\n> " + v.Disclaimer + "\n")
	}
	return sb.String()
}

func writeLines(sb *strings.Builder, lines []report.Line) {
	var prev report.LineKind
	for i, l := range lines {
		// A kind change needs a blank line, or a paragraph would continue
		// the list item before it.
		if i > 0 && l.Kind != prev {
			sb.WriteString("\n")
		}
		switch l.Kind {
		case report.LineSubheading:
			sb.WriteString("### " + l.Text + "\n")
		case report.LineBullet:
			if isNumbered(l.Text) {
				sb.WriteString(l.Text + "\n")
			} else {
				sb.WriteString("- " + l.Text + "\n")
			}
		default:
			sb.WriteString(l.Text + "\n")
		}
		prev = l.Kind
	}
}

func isNumbered(s string) bool {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i > 0 && i < len(s) && s[i] == '.'
}

// HTMLRenderer converts views to HTML fragments with goldmark. Raw HTML in
// the source text is omitted, never passed through.
type HTMLRenderer struct {
	md goldmark.Markdown
}

func NewHTMLRenderer() *HTMLRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)
	return &HTMLRenderer{md: md}
}

// Render converts the Markdown export of v to HTML.
func (r *HTMLRenderer) Render(v report.View) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(Markdown(v)), &buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}
	return buf.String(), nil
}

var defaultRenderer = NewHTMLRenderer()

// HTML renders v with the default renderer.
func HTML(v report.View) (string, error) {
	return defaultRenderer.Render(v)
}
