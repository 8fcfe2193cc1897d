package report

// Groups partitions sections for layout. Every section lands in exactly one
// group and keeps its relative order.
type Groups struct {
	Issue     []Section `json:"issue"`
	Severity  []Section `json:"severity"`
	Treatment []Section `json:"treatment"`
	Other     []Section `json:"other"`
}

// GroupSections partitions sections by category. Prevention, recovery and
// default sections go to Other.
func GroupSections(sections []Section) Groups {
	g := Groups{
		Issue:     []Section{},
		Severity:  []Section{},
		Treatment: []Section{},
		Other:     []Section{},
	}
	for _, s := range sections {
		switch s.Category {
		case CategoryIssue:
			g.Issue = append(g.Issue, s)
		case CategorySeverity:
			g.Severity = append(g.Severity, s)
		case CategoryTreatment:
			g.Treatment = append(g.Treatment, s)
		default:
			g.Other = append(g.Other, s)
		}
	}
	return g
}
