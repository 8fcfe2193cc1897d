package parser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// HTMLExtractor handles saved HTML reports. Headings become "## Title"
// lines, <strong>/<b> and <em>/<i> become **bold** and *italic*, and list
// items become "- " or numbered lines.
type HTMLExtractor struct{}

func (e *HTMLExtractor) Extract(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	root := findElement(doc, "body")
	if root == nil {
		root = doc
	}

	var blocks []string
	// Loose text and inline elements between blocks form one paragraph.
	var loose strings.Builder
	block := func(s string) {
		blocks = append(blocks, loose.String(), s)
		loose.Reset()
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			writeInline(&loose, n)
			return
		case html.ElementNode:
			switch {
			case skippedTags[n.Data]:
				return
			case headingLevel(n.Data) > 0:
				if t := inlineMarkup(n); t != "" {
					block("## " + strings.ReplaceAll(t, "\n", " "))
				}
				return
			case n.Data == "ul" || n.Data == "ol":
				block(listItems(n))
				return
			case inlineTags[n.Data] || n.Data == "br":
				writeInline(&loose, n)
				return
			case !hasBlockChild(n):
				block(inlineMarkup(n))
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	block("")

	for i, b := range blocks {
		lines := strings.Split(b, "\n")
		for j, l := range lines {
			lines[j] = strings.TrimSpace(l)
		}
		blocks[i] = strings.Join(lines, "\n")
	}
	return joinBlocks(blocks), nil
}

var skippedTags = map[string]bool{
	"script": true, "style": true, "nav": true, "footer": true,
	"header": true, "noscript": true, "template": true, "head": true,
}

var inlineTags = map[string]bool{
	"strong": true, "b": true, "em": true, "i": true, "span": true,
	"a": true, "u": true, "code": true, "small": true, "mark": true,
}

func hasBlockChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && !inlineTags[c.Data] && c.Data != "br" {
			return true
		}
	}
	return false
}

func listItems(list *html.Node) string {
	var lines []string
	n := 0
	for c := list.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			continue
		}
		t := strings.ReplaceAll(inlineMarkup(c), "\n", " ")
		if t == "" {
			continue
		}
		n++
		if list.Data == "ol" {
			lines = append(lines, strconv.Itoa(n)+". "+t)
		} else {
			lines = append(lines, "- "+t)
		}
	}
	return strings.Join(lines, "\n")
}

// inlineMarkup renders the children of n as one block of marked-up text.
// <br> starts a new line.
func inlineMarkup(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeInline(&sb, c)
	}
	lines := strings.Split(sb.String(), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func writeInline(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(collapseSpace(n.Data))
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style":
			return
		case "br":
			sb.WriteByte('\n')
			return
		case "strong", "b":
			if t := strings.TrimSpace(inlineMarkup(n)); t != "" {
				sb.WriteString("**" + t + "**")
			}
			return
		case "em", "i":
			if t := strings.TrimSpace(inlineMarkup(n)); t != "" {
				sb.WriteString("*" + t + "*")
			}
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeInline(sb, c)
	}
}

// collapseSpace folds runs of whitespace into single spaces, keeping one
// leading or trailing space so adjacent inline text stays separated.
func collapseSpace(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s != "" {
			return " "
		}
		return ""
	}
	out := strings.Join(fields, " ")
	if isSpace(s[0]) {
		out = " " + out
	}
	if isSpace(s[len(s)-1]) {
		out += " "
	}
	return out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}
