package report

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// Rule maps a family of same-meaning keywords to a category.
type Rule struct {
	Category Category `yaml:"category" json:"category"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// Classifier assigns a category to a section title by case-insensitive
// substring matching against an ordered rule table. The first rule with a
// matching keyword wins. A Classifier is immutable and safe for concurrent use.
type Classifier struct {
	rules []Rule
}

//go:embed rules.yaml
var defaultRulesYAML []byte

var defaultClassifier = NewClassifier(mustLoadDefaultRules())

func mustLoadDefaultRules() []Rule {
	rules, err := LoadRules(bytes.NewReader(defaultRulesYAML))
	if err != nil {
		panic(fmt.Sprintf("report: embedded rules: %v", err))
	}
	return rules
}

// DefaultClassifier returns the classifier built from the embedded rule table.
func DefaultClassifier() *Classifier {
	return defaultClassifier
}

// DefaultRules returns a copy of the embedded rule table.
func DefaultRules() []Rule {
	return copyRules(mustLoadDefaultRules())
}

// NewClassifier builds a classifier. Keywords are normalized once here so
// Classify only folds the title.
func NewClassifier(rules []Rule) *Classifier {
	c := &Classifier{rules: make([]Rule, 0, len(rules))}
	for _, r := range rules {
		keywords := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			if kw = fold(strings.TrimSpace(kw)); kw != "" {
				keywords = append(keywords, kw)
			}
		}
		c.rules = append(c.rules, Rule{Category: r.Category, Keywords: keywords})
	}
	return c
}

// Classify returns the category for title, or CategoryDefault when no rule
// matches.
func (c *Classifier) Classify(title string) Category {
	t := fold(title)
	if t == "" {
		return CategoryDefault
	}
	for _, r := range c.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(t, kw) {
				return r.Category
			}
		}
	}
	return CategoryDefault
}

// Rules returns a copy of the normalized rule table.
func (c *Classifier) Rules() []Rule {
	return copyRules(c.rules)
}

// LoadRules parses a YAML rule table: a list of {category, keywords}.
func LoadRules(r io.Reader) ([]Rule, error) {
	var rules []Rule
	if err := yaml.NewDecoder(r).Decode(&rules); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	for i, rule := range rules {
		if !rule.Category.Valid() || rule.Category == CategoryDefault {
			return nil, fmt.Errorf("rule %d: unknown category %q", i, rule.Category)
		}
	}
	return rules, nil
}

// ClassifierFromFile builds a classifier from the embedded rules extended
// with the YAML rule file at path. An empty path yields the default
// classifier.
func ClassifierFromFile(path string) (*Classifier, error) {
	if path == "" {
		return DefaultClassifier(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rules: %w", err)
	}
	defer f.Close()

	extra, err := LoadRules(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewClassifier(ExtendRules(DefaultRules(), extra)), nil
}

// ExtendRules appends the keywords of extra to the rule of the same category
// in base. Categories missing from base are appended as new, lowest-priority
// rules. base is not modified.
func ExtendRules(base, extra []Rule) []Rule {
	out := copyRules(base)
	for _, e := range extra {
		merged := false
		for i := range out {
			if out[i].Category == e.Category {
				out[i].Keywords = append(out[i].Keywords, e.Keywords...)
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, Rule{Category: e.Category, Keywords: append([]string(nil), e.Keywords...)})
		}
	}
	return out
}

func copyRules(rules []Rule) []Rule {
	out := make([]Rule, len(rules))
	for i, r := range rules {
		out[i] = Rule{Category: r.Category, Keywords: append([]string(nil), r.Keywords...)}
	}
	return out
}

// fold normalizes to NFC and applies Unicode case folding. A Caser is not
// safe for concurrent use, so one is created per call.
func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}
