// Package menu implements the candidate-ranking and selection engine behind
// an editor's completion and code-action popups: fuzzy filtering with stale
// result discarding, strong/weak ranking, stable keyboard navigation, and an
// at-most-once resolve-on-select protocol for expensive candidate detail.
package menu

import "context"

// BufferID identifies the text buffer a menu was opened in. The engine never
// reads buffer contents; the id is handed back to the candidate source.
type BufferID uint64

// Point is a display position, row and column in the visible editor.
type Point struct {
	Row    int
	Column int
}

// DocKind tags the shape of a candidate's documentation payload.
type DocKind int

const (
	DocNone DocKind = iota
	DocSingleLine
	DocMultiLinePlain
	DocMultiLineMarkdown
)

// Documentation is the optional detail attached to a candidate, usually
// filled in by a resolve call.
type Documentation struct {
	Kind DocKind
	Text string
}

// CompletionKind mirrors the provider-declared kind of a completion.
// Variables rank ahead of everything else when scores and sort hints tie.
type CompletionKind int

const (
	KindUnknown CompletionKind = iota
	KindVariable
	KindField
	KindFunction
	KindMethod
	KindClass
	KindModule
	KindKeyword
	KindSnippet
	KindText
)

// Completion is one candidate offered by a source. Candidates live in a
// shared slice; entries reference them by index so an in-place resolve is
// visible everywhere without re-filtering.
type Completion struct {
	Label         string
	FilterText    string  // text to match against; empty means Label
	SortText      *string // provider sort hint; nil sorts last
	Kind          CompletionKind
	NewText       string // edit applied on confirm
	Documentation Documentation
	Deprecated    bool
	Resolved      bool
}

func (c *Completion) filterText() string {
	if c.FilterText != "" {
		return c.FilterText
	}
	return c.Label
}

// sortKey is the deterministic last tie-break: variables first, then by
// filter text.
func (c *Completion) sortKey() (int, string) {
	rank := 1
	if c.Kind == KindVariable {
		rank = 0
	}
	return rank, c.filterText()
}

// CandidateSource resolves expensive per-candidate detail. Resolve fills the
// addressed completions in place and reports whether anything changed. It
// runs off the owner goroutine and must only write the slots named by
// indices, marking each one Resolved.
type CandidateSource interface {
	Resolve(ctx context.Context, buffer BufferID, indices []int, completions []*Completion) (bool, error)
}

// Renderer is how the engine reaches the host's view layer: Notify asks for
// a re-render, ScrollTo keeps the selected entry in view. Implementations
// are called on the owner goroutine.
type Renderer interface {
	Notify()
	ScrollTo(index int)
}
