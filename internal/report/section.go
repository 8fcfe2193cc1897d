// Package report turns free-form diagnosis text produced by a language model
// into ordered, categorized sections ready for display.
//
// The entry point is Segmenter.Segment, which walks the text line by line,
// recognizes short emphasized or labeled headers, and attaches every other
// line to the section opened by the nearest header above it. Titles are
// mapped to a fixed set of categories by a Classifier.
package report

// Category is the semantic label of a section.
type Category string

const (
	CategoryIssue      Category = "issue"
	CategorySeverity   Category = "severity"
	CategoryPrevention Category = "prevention"
	CategoryTreatment  Category = "treatment"
	CategoryRecovery   Category = "recovery"
	CategoryDefault    Category = "default"
)

// Categories lists every category in classification priority order,
// ending with the default.
var Categories = []Category{
	CategoryIssue,
	CategorySeverity,
	CategoryPrevention,
	CategoryTreatment,
	CategoryRecovery,
	CategoryDefault,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Section is a titled run of contiguous content lines.
type Section struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Content  []string `json:"content"`
	Category Category `json:"category"`
}
