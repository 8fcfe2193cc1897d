package report

import "testing"

func TestRenderLine(t *testing.T) {
	tests := []struct {
		in   string
		kind LineKind
		text string
	}{
		{"Water the field daily.", LineParagraph, "Water the field daily."},
		{"- Apply fungicide", LineBullet, "Apply fungicide"},
		{"* Rotate crops", LineBullet, "Rotate crops"},
		{"  - indented bullet  ", LineBullet, "indented bullet"},
		{"-\ttabbed", LineBullet, "tabbed"},
		{"2. Spray at dusk", LineBullet, "2. Spray at dusk"},
		{"### Organic options", LineSubheading, "Organic options"},
		{"#### Deeper", LineSubheading, "Deeper"},
		{"-Apply neem oil", LineBullet, "Apply neem oil"},
		{"-छिड़काव करें", LineBullet, "छिड़काव करें"},
		{"-5 degrees overnight", LineParagraph, "-5 degrees overnight"},
		{"--- ", LineParagraph, "---"},
		{"*Alternaria* is common", LineParagraph, "*Alternaria* is common"},
		{"2020 was dry", LineParagraph, "2020 was dry"},
		{"", LineParagraph, ""},
	}
	for _, tt := range tests {
		got := RenderLine(tt.in)
		if got.Kind != tt.kind {
			t.Errorf("%q: expected kind %q, got %q", tt.in, tt.kind, got.Kind)
		}
		if got.Text != tt.text {
			t.Errorf("%q: expected text %q, got %q", tt.in, tt.text, got.Text)
		}
		if len(got.Spans) == 0 {
			t.Errorf("%q: expected at least one span", tt.in)
		}
	}
}

func TestRenderLine_SpansFollowText(t *testing.T) {
	got := RenderLine("- Spray **copper** weekly")
	if len(got.Spans) != 3 {
		t.Fatalf("expected 3 spans, got %d: %+v", len(got.Spans), got.Spans)
	}
	if got.Spans[1].Kind != SpanStrong || got.Spans[1].Text != "copper" {
		t.Errorf("expected strong copper span, got %+v", got.Spans[1])
	}
	if got.Spans[0].Text != "Spray " {
		t.Errorf("expected bullet marker stripped from spans, got %q", got.Spans[0].Text)
	}
}
