package report

import (
	"strings"

	"github.com/google/uuid"
)

// Segmenter splits diagnosis text into sections. It holds no per-call state,
// so one Segmenter may serve concurrent callers.
type Segmenter struct {
	classifier *Classifier
	newID      func() string
}

// Option configures a Segmenter.
type Option func(*Segmenter)

// WithIDFunc replaces the section identifier generator.
func WithIDFunc(fn func() string) Option {
	return func(s *Segmenter) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewSegmenter returns a Segmenter classifying titles with c. A nil c uses
// the default classifier.
func NewSegmenter(c *Classifier, opts ...Option) *Segmenter {
	if c == nil {
		c = DefaultClassifier()
	}
	s := &Segmenter{classifier: c, newID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var defaultSegmenter = NewSegmenter(nil)

// Segment splits text with the default classifier.
func Segment(text, fallbackTitle string) []Section {
	return defaultSegmenter.Segment(text, fallbackTitle)
}

// Classifier returns the classifier used for titles.
func (s *Segmenter) Classifier() *Classifier {
	return s.classifier
}

// Segment splits text into sections in a single pass over its lines.
//
// Content that appears before the first header is collected under
// fallbackTitle with CategoryDefault. Sections whose content is empty are
// dropped, so a header directly followed by another header produces nothing.
// Blank lines and bare list numbers ("1.", "2)") are discarded. Segment never
// fails: empty or blank input yields no sections.
func (s *Segmenter) Segment(text, fallbackTitle string) []Section {
	var sections []Section

	title := fallbackTitle
	category := CategoryDefault
	var content []string

	flush := func() {
		kept := make([]string, 0, len(content))
		for _, line := range content {
			if strings.TrimSpace(line) != "" {
				kept = append(kept, line)
			}
		}
		if len(kept) > 0 {
			sections = append(sections, Section{
				ID:       s.newID(),
				Title:    title,
				Content:  kept,
				Category: category,
			})
		}
		content = nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")

		if h, ok := s.matchHeader(line); ok {
			flush()
			title = h.title
			category = s.classifier.Classify(h.title)
			if h.remainder != "" {
				content = append(content, h.remainder)
			}
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isBareOrdinal(trimmed) {
			continue
		}
		content = append(content, line)
	}
	flush()

	return sections
}
