package report

import (
	"github.com/agriguard/agriguard/internal/locale"
)

// SectionView is a section with its content lines rendered for display.
type SectionView struct {
	Section
	Lines []Line `json:"lines"`
}

// View is everything a presentation layer needs to show a diagnosis.
// When nothing could be segmented, Fallback is set and Raw carries the
// original text so it can be shown verbatim.
type View struct {
	Language   locale.Language `json:"language"`
	Heading    string          `json:"heading"`
	Sections   []SectionView   `json:"sections"`
	Groups     Groups          `json:"groups"`
	Fallback   bool            `json:"fallback"`
	Raw        string          `json:"raw,omitempty"`
	Disclaimer string          `json:"disclaimer"`
}

// BuildView segments text and prepares it for display in lang. Content
// before the first header is titled with the locale's overview label.
func (s *Segmenter) BuildView(text string, lang locale.Language) View {
	labels := locale.LabelsFor(lang)
	sections := s.Segment(text, labels.Overview)

	v := View{
		Language:   lang,
		Heading:    labels.DiagnosisResult,
		Sections:   make([]SectionView, 0, len(sections)),
		Groups:     GroupSections(sections),
		Disclaimer: labels.Disclaimer,
	}
	for _, sec := range sections {
		lines := make([]Line, 0, len(sec.Content))
		for _, c := range sec.Content {
			lines = append(lines, RenderLine(c))
		}
		v.Sections = append(v.Sections, SectionView{Section: sec, Lines: lines})
	}
	if len(sections) == 0 {
		v.Fallback = true
		v.Raw = text
	}
	return v
}
