package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/agriguard/agriguard/internal/report"
)

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"report.txt", "*parser.TextExtractor"},
		{"REPORT.MD", "*parser.MarkdownExtractor"},
		{"notes.markdown", "*parser.MarkdownExtractor"},
		{"saved.html", "*parser.HTMLExtractor"},
		{"saved.htm", "*parser.HTMLExtractor"},
		{"scan.pdf", "*parser.PDFExtractor"},
		{"letter.docx", "*parser.DOCXExtractor"},
	}
	for _, tt := range tests {
		ex, err := ForFile(tt.filename, Options{})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.filename, err)
		}
		if got := typeName(ex); got != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.filename, tt.want, got)
		}
	}
}

func typeName(ex Extractor) string {
	switch ex.(type) {
	case *TextExtractor:
		return "*parser.TextExtractor"
	case *MarkdownExtractor:
		return "*parser.MarkdownExtractor"
	case *HTMLExtractor:
		return "*parser.HTMLExtractor"
	case *PDFExtractor:
		return "*parser.PDFExtractor"
	case *DOCXExtractor:
		return "*parser.DOCXExtractor"
	}
	return "unknown"
}

func TestForFile_Unsupported(t *testing.T) {
	for _, name := range []string{"photo.jpg", "data.csv", "noext"} {
		if _, err := ForFile(name, Options{}); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("%s: expected ErrUnsupportedFormat, got %v", name, err)
		}
		if IsSupportedExtension(name) {
			t.Errorf("%s: expected unsupported", name)
		}
	}
	if !IsSupportedExtension("A.DOCX") {
		t.Error("expected .DOCX to be supported")
	}
}

func TestForFile_PDFFallbackOption(t *testing.T) {
	ex, err := ForFile("scan.pdf", Options{PDFFallbackPdftotext: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ex.(*PDFExtractor).FallbackPdftotext {
		t.Error("expected fallback to be enabled")
	}
}

func TestTextExtractor(t *testing.T) {
	input := "**Detected Issue:** Rust  \r\n\r\n\r\n\r\nSeverity: High\r\n   \r\n- Spray sulfur\t\n"
	got, err := (&TextExtractor{}).Extract(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "**Detected Issue:** Rust\n\nSeverity: High\n\n- Spray sulfur"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestTextExtractor_Empty(t *testing.T) {
	got, err := (&TextExtractor{}).Extract(strings.NewReader("\n \n\t\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty text, got %q", got)
	}
}

func TestMarkdownExtractor_SetextHeadings(t *testing.T) {
	input := "Detected Issue\n==============\nLeaf blight\n\nSeverity\n--------\nHigh\r\n\n## Prevention Tips\n- Rotate crops\n"
	got, err := (&MarkdownExtractor{}).Extract(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "# Detected Issue\nLeaf blight\n\n## Severity\nHigh\n\n## Prevention Tips\n- Rotate crops"
	if got != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestMarkdownExtractor_FeedsSegmenter(t *testing.T) {
	input := "Intro\n\nTreatment\n---------\n- Neem oil\n"
	text, err := (&MarkdownExtractor{}).Extract(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sections := report.Segment(text, "Overview")
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d: %+v", len(sections), sections)
	}
	if sections[1].Title != "Treatment" || sections[1].Category != report.CategoryTreatment {
		t.Errorf("expected treatment section, got %+v", sections[1])
	}
}

func TestHTMLExtractor(t *testing.T) {
	input := `<html><head><title>Report</title><style>p { color: red }</style></head><body>
<h2>Detected Issue</h2>
<p>Leaf <em>blight</em> on
   lower leaves</p>
<h3>Recommendations</h3>
<ul><li>Remove <b>infected</b> leaves</li><li>Spray neem</li></ul>
<ol><li>Day one</li><li>Day two</li></ol>
<div><p><strong>Severity:</strong> High<br>Act quickly</p></div>
<script>alert("x")</script>
</body></html>`
	got, err := (&HTMLExtractor{}).Extract(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := strings.Join([]string{
		"## Detected Issue",
		"Leaf *blight* on lower leaves",
		"## Recommendations",
		"- Remove **infected** leaves\n- Spray neem",
		"1. Day one\n2. Day two",
		"**Severity:** High\nAct quickly",
	}, "\n\n")
	if got != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestHTMLExtractor_BareText(t *testing.T) {
	got, err := (&HTMLExtractor{}).Extract(strings.NewReader("just <b>some</b> words"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "just **some** words"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestPDFExtractor_InvalidInput(t *testing.T) {
	_, err := (&PDFExtractor{}).Extract(strings.NewReader("not a pdf"))
	if err == nil {
		t.Fatal("expected error for invalid pdf")
	}
}

func TestDOCXExtractor_InvalidInput(t *testing.T) {
	_, err := (&DOCXExtractor{}).Extract(strings.NewReader("not a zip archive"))
	if err == nil {
		t.Fatal("expected error for invalid docx")
	}
}
