package report

import (
	"strings"
	"testing"
)

func TestMatchHeader_Recognized(t *testing.T) {
	tests := []struct {
		line      string
		title     string
		remainder string
	}{
		{"**Detected Issue:** Leaf blight", "Detected Issue", "Leaf blight"},
		{"**Title** remainder", "Title", "remainder"},
		{"**Recommendations:**", "Recommendations", ""},
		{"1. **Severity:** High", "Severity", "High"},
		{"2) __Treatment__", "Treatment", ""},
		{"1.2. **Recovery**", "Recovery", ""},
		{"- **Prevention**: rotate crops", "Prevention", "rotate crops"},
		{"   **Severity** Moderate", "Severity", "Moderate"},
		{"__Expected Recovery Time__: 2 weeks", "Expected Recovery Time", "2 weeks"},
		{"## Prevention Tips", "Prevention Tips", ""},
		{"# Severity #", "Severity", ""},
		{"## **Severity:** High", "Severity", "High"},
		{"## Recovery Time: 2 weeks", "Recovery Time", "2 weeks"},
		{"**Unclosed title: rest", "Unclosed title", "rest"},
		{"**Whole line bold", "Whole line bold", ""},
		{"Severity: High", "Severity", "High"},
		{"\tRisk Level: low", "Risk Level", "low"},
		{"3. Treatment:", "Treatment", ""},
	}
	for _, tt := range tests {
		h, ok := defaultSegmenter.matchHeader(tt.line)
		if !ok {
			t.Errorf("%q: expected header", tt.line)
			continue
		}
		if h.title != tt.title {
			t.Errorf("%q: expected title %q, got %q", tt.line, tt.title, h.title)
		}
		if h.remainder != tt.remainder {
			t.Errorf("%q: expected remainder %q, got %q", tt.line, tt.remainder, h.remainder)
		}
	}
}

func TestMatchHeader_Rejected(t *testing.T) {
	lines := []string{
		"",
		"1.",
		"plain sentence",
		"#hashtag",
		"####### Too deep",
		"### Organic options",
		"###### Severity",
		"****",
		"***",
		"Note: water daily",
		"- Risk: high",
		"Severity:High",
		"The severity of this crop disease is rising fast: act now",
		"`severity`: high",
		"* Rotate crops",
	}
	for _, line := range lines {
		if h, ok := defaultSegmenter.matchHeader(line); ok {
			t.Errorf("%q: expected no header, got %+v", line, h)
		}
	}
}

func TestMatchHeader_TitleLength(t *testing.T) {
	short := strings.Repeat("a", maxTitleRunes-1)
	if _, ok := defaultSegmenter.matchHeader("**" + short + "**"); !ok {
		t.Errorf("expected %d-rune title to be accepted", maxTitleRunes-1)
	}
	long := strings.Repeat("a", maxTitleRunes)
	if _, ok := defaultSegmenter.matchHeader("**" + long + "**"); ok {
		t.Errorf("expected %d-rune title to be rejected", maxTitleRunes)
	}
	// Length is measured in characters, not bytes.
	devanagari := strings.Repeat("क", 40)
	if _, ok := defaultSegmenter.matchHeader("**" + devanagari + "**"); !ok {
		t.Error("expected 40-character Devanagari title to be accepted")
	}
}

func TestIsBareOrdinal(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"1.", true},
		{"12)", true},
		{"1", false},
		{".", false},
		{"a.", false},
		{"1.2.", false},
		{"1. Spray", false},
	}
	for _, tt := range tests {
		if got := isBareOrdinal(tt.in); got != tt.want {
			t.Errorf("isBareOrdinal(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestCutListToken(t *testing.T) {
	tests := []struct {
		in, token, rest string
	}{
		{"1. **A**", "1.", "**A**"},
		{"2)  text", "2)", "text"},
		{"- item", "-", "item"},
		{"no token", "", "no token"},
	}
	for _, tt := range tests {
		token, rest := cutListToken(tt.in)
		if token != tt.token || rest != tt.rest {
			t.Errorf("cutListToken(%q): expected (%q, %q), got (%q, %q)", tt.in, tt.token, tt.rest, token, rest)
		}
	}
}
