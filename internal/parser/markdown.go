package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownExtractor handles Markdown reports. Source lines are kept as
// written except setext headings ("Title" underlined with === or ---),
// which are rewritten to "## Title" so they read as section headers.
type MarkdownExtractor struct{}

func (e *MarkdownExtractor) Extract(r io.Reader) (string, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	src = bytes.ReplaceAll(src, []byte("\r\n"), []byte("\n"))

	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	lines := strings.Split(string(src), "\n")

	// Line index -> replacement; "" removes the line.
	rewrite := make(map[int]string)
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok || h.Lines().Len() == 0 {
			continue
		}
		first := h.Lines().At(0)
		last := h.Lines().At(h.Lines().Len() - 1)
		start := bytes.Count(src[:first.Start], []byte("\n"))
		end := bytes.Count(src[:last.Start], []byte("\n"))
		if strings.HasPrefix(strings.TrimSpace(lines[start]), "#") {
			continue
		}

		var title []string
		for i := 0; i < h.Lines().Len(); i++ {
			seg := h.Lines().At(i)
			title = append(title, strings.TrimSpace(string(seg.Value(src))))
		}
		rewrite[start] = strings.Repeat("#", h.Level) + " " + strings.Join(title, " ")
		for i := start + 1; i <= end+1 && i < len(lines); i++ {
			rewrite[i] = ""
		}
	}

	var out []string
	for i, line := range lines {
		if repl, ok := rewrite[i]; ok {
			if repl != "" {
				out = append(out, repl)
			}
			continue
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n")), nil
}
