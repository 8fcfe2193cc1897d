package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fumiama/go-docx"
)

// DOCXExtractor handles Word reports. Paragraphs styled as headings become
// "## Title" lines, and bold or italic runs keep their emphasis as markup.
type DOCXExtractor struct{}

func (e *DOCXExtractor) Extract(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}

	var blocks []string
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := paragraphMarkup(para)
		if text == "" {
			continue
		}
		if isHeadingStyle(para) {
			text = "## " + strings.Trim(text, "*")
		}
		blocks = append(blocks, text)
	}
	return joinBlocks(blocks), nil
}

func isHeadingStyle(para *docx.Paragraph) bool {
	if para.Properties == nil || para.Properties.Style == nil {
		return false
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	return style == "title" || (strings.HasPrefix(style, "heading") && len(style) == len("heading")+1)
}

func paragraphMarkup(para *docx.Paragraph) string {
	var sb strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		var rt strings.Builder
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				rt.WriteString(t.Text)
			}
		}
		text := rt.String()
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			sb.WriteString(text)
			continue
		}
		delim := runDelimiter(run)
		lead := text[:strings.Index(text, trimmed)]
		trail := text[len(lead)+len(trimmed):]
		sb.WriteString(lead + delim + trimmed + delim + trail)
	}
	// Adjacent runs with the same style produce "****" joints.
	out := strings.ReplaceAll(sb.String(), "****", "")
	return strings.TrimSpace(out)
}

func runDelimiter(run *docx.Run) string {
	p := run.RunProperties
	switch {
	case p == nil:
		return ""
	case p.Bold != nil:
		return "**"
	case p.Italic != nil:
		return "*"
	}
	return ""
}
