package menu

// Entry is one renderable, selectable menu line. The union is closed: an
// entry is either a fuzzy match referencing a candidate by index, or the
// single inline-suggestion hint pinned to index 0.
type Entry interface {
	isEntry()
}

// MatchEntry references candidates[CandidateIndex]; Positions index the
// runes of Display that the query matched.
type MatchEntry struct {
	CandidateIndex int
	Score          float64
	Positions      []int
	Display        string
}

func (MatchEntry) isEntry() {}

// HintEntry advertises an inline AI suggestion inside the menu. At most one
// exists and it always occupies index 0.
type HintEntry struct {
	Provider string
	Preview  string
}

func (HintEntry) isEntry() {}
