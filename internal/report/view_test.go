package report

import (
	"testing"

	"github.com/agriguard/agriguard/internal/locale"
)

func TestBuildView(t *testing.T) {
	text := "Intro line\n**Severity:** High\n- Spray **copper**\n### Organic"
	v := NewSegmenter(nil).BuildView(text, locale.English)

	if v.Fallback {
		t.Fatal("expected segmented view")
	}
	if v.Raw != "" {
		t.Errorf("expected empty raw text, got %q", v.Raw)
	}
	if v.Heading != "Diagnosis Result" {
		t.Errorf("expected English heading, got %q", v.Heading)
	}
	if v.Disclaimer == "" {
		t.Error("expected disclaimer")
	}
	if len(v.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(v.Sections))
	}
	if v.Sections[0].Title != "Overview" {
		t.Errorf("expected leading section titled Overview, got %q", v.Sections[0].Title)
	}

	sev := v.Sections[1]
	if len(sev.Lines) != len(sev.Content) {
		t.Fatalf("expected one line per content entry, got %d for %d", len(sev.Lines), len(sev.Content))
	}
	wantKinds := []LineKind{LineParagraph, LineBullet, LineSubheading}
	for i, k := range wantKinds {
		if sev.Lines[i].Kind != k {
			t.Errorf("line %d: expected %q, got %q", i, k, sev.Lines[i].Kind)
		}
	}
	if len(v.Groups.Severity) != 1 || len(v.Groups.Other) != 1 {
		t.Errorf("expected severity and other groups of one, got %+v", v.Groups)
	}
}

func TestBuildView_FallbackKeepsRawText(t *testing.T) {
	text := "1.\n\n2.\n"
	v := NewSegmenter(nil).BuildView(text, locale.Hindi)
	if !v.Fallback {
		t.Fatal("expected fallback view")
	}
	if v.Raw != text {
		t.Errorf("expected raw %q, got %q", text, v.Raw)
	}
	if len(v.Sections) != 0 {
		t.Errorf("expected no sections, got %d", len(v.Sections))
	}
	if v.Language != locale.Hindi {
		t.Errorf("expected language hi, got %q", v.Language)
	}
}

func TestBuildView_LocalizedOverview(t *testing.T) {
	v := NewSegmenter(nil).BuildView("कुछ पाठ", locale.Hindi)
	if len(v.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(v.Sections))
	}
	want := locale.LabelsFor(locale.Hindi).Overview
	if v.Sections[0].Title != want {
		t.Errorf("expected title %q, got %q", want, v.Sections[0].Title)
	}
}
