package menu

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/menuserve/menuserve/internal/logger"
	"github.com/menuserve/menuserve/internal/utils"
	"github.com/menuserve/menuserve/pkg/fuzzy"
	"github.com/menuserve/menuserve/pkg/words"
)

// StrongMatchThreshold splits fuzzy scores into the Strong and Weak ranking
// buckets: an obviously good textual match surfaces ahead of provider order,
// everything else defers to the provider's sort hint.
const StrongMatchThreshold = 0.2

// Options configures a CompletionsMenu. Zero values get sensible defaults:
// a DefaultLimit matcher, an inline Sync dispatcher, no source, no renderer.
type Options struct {
	SortCompletions   bool
	ShowDocumentation bool
	StrongThreshold   float64
	Matcher           *fuzzy.Matcher
	Source            CandidateSource
	Dispatcher        Dispatcher
	Renderer          Renderer
}

// CompletionsMenu owns one completion request's candidates, the filtered
// entries derived from them, and the selection cursor. A menu is built once
// per request and replaced wholesale by the next one; only Dismiss outlives
// that.
type CompletionsMenu struct {
	id              uint64
	sortCompletions bool
	showDocs        bool
	resolveEnabled  bool
	anchor          Point
	buffer          BufferID

	// candidates is shared with in-flight resolves; matchCandidates and
	// ranks are immutable snapshots safe to read off the owner goroutine.
	candidates      []*Completion
	matchCandidates []fuzzy.Candidate
	ranks           []rankInfo

	entries  []Entry
	selected int

	matcher   *fuzzy.Matcher
	source    CandidateSource
	disp      Dispatcher
	renderer  Renderer
	threshold float64
	log       *log.Logger

	ctx    context.Context
	cancel context.CancelFunc

	filterSeq  uint64
	appliedSeq uint64
	resolving  map[int]struct{}
	dismissed  bool
}

type rankInfo struct {
	sortText *string
	kindRank int
	tieText  string
}

// New builds a menu over the given candidates. Match candidates are snapshot
// once from each completion's filter text; later in-place resolution never
// re-enters matching.
func New(id uint64, anchor Point, buffer BufferID, completions []*Completion, opts Options) *CompletionsMenu {
	m := newMenu(id, anchor, buffer, completions, opts)
	m.resolveEnabled = true
	return m
}

// NewSnippetChoices builds a menu straight from literal text choices, such
// as snippet tabstop alternatives. Every choice is pre-resolved with a fixed
// score of 1.0; resolution and documentation are disabled and no candidate
// source is consulted.
func NewSnippetChoices(id uint64, anchor Point, buffer BufferID, choices []string, opts Options) *CompletionsMenu {
	completions := make([]*Completion, len(choices))
	for i, choice := range choices {
		completions[i] = &Completion{
			Label:    choice,
			NewText:  choice,
			Resolved: true,
		}
	}

	opts.Source = nil
	opts.ShowDocumentation = false
	m := newMenu(id, anchor, buffer, completions, opts)
	m.resolveEnabled = false

	entries := make([]Entry, len(choices))
	for i, choice := range choices {
		entries[i] = MatchEntry{
			CandidateIndex: i,
			Score:          1.0,
			Display:        choice,
		}
	}
	m.entries = entries
	return m
}

func newMenu(id uint64, anchor Point, buffer BufferID, completions []*Completion, opts Options) *CompletionsMenu {
	if opts.Matcher == nil {
		opts.Matcher = fuzzy.NewMatcher(0)
	}
	if opts.Dispatcher == nil {
		opts.Dispatcher = Sync{}
	}
	if opts.StrongThreshold <= 0 {
		opts.StrongThreshold = StrongMatchThreshold
	}

	matchCandidates := make([]fuzzy.Candidate, len(completions))
	ranks := make([]rankInfo, len(completions))
	for i, c := range completions {
		matchCandidates[i] = fuzzy.Candidate{ID: i, Label: c.filterText()}
		kindRank, tieText := c.sortKey()
		ranks[i] = rankInfo{sortText: c.SortText, kindRank: kindRank, tieText: tieText}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &CompletionsMenu{
		id:              id,
		sortCompletions: opts.SortCompletions,
		showDocs:        opts.ShowDocumentation,
		anchor:          anchor,
		buffer:          buffer,
		candidates:      completions,
		matchCandidates: matchCandidates,
		ranks:           ranks,
		matcher:         opts.Matcher,
		source:          opts.Source,
		disp:            opts.Dispatcher,
		renderer:        opts.Renderer,
		threshold:       opts.StrongThreshold,
		log:             logger.Default("completions"),
		ctx:             ctx,
		cancel:          cancel,
		resolving:       make(map[int]struct{}),
	}
}

func (m *CompletionsMenu) ID() uint64           { return m.id }
func (m *CompletionsMenu) Anchor() Point        { return m.anchor }
func (m *CompletionsMenu) Buffer() BufferID     { return m.buffer }
func (m *CompletionsMenu) Entries() []Entry     { return m.entries }
func (m *CompletionsMenu) Selected() int        { return m.selected }
func (m *CompletionsMenu) Visible() bool        { return len(m.entries) > 0 }
func (m *CompletionsMenu) Candidates() []*Completion { return m.candidates }

// Origin anchors the completions popover at the text cursor.
func (m *CompletionsMenu) Origin(cursor Point) Origin {
	return CursorOrigin{Position: cursor}
}

func (m *CompletionsMenu) SelectedEntry() (Entry, bool) {
	if !m.Visible() {
		return nil, false
	}
	return m.entries[m.selected], true
}

// SelectedCompletion returns the candidate behind the selection, if the
// selection is a match entry.
func (m *CompletionsMenu) SelectedCompletion() (*Completion, bool) {
	entry, ok := m.SelectedEntry()
	if !ok {
		return nil, false
	}
	match, ok := entry.(MatchEntry)
	if !ok {
		return nil, false
	}
	return m.candidates[match.CandidateIndex], true
}

// SelectedDocumentation returns the documentation payload of the selected
// candidate, when documentation display is enabled and detail exists.
func (m *CompletionsMenu) SelectedDocumentation() (Documentation, bool) {
	if !m.showDocs {
		return Documentation{}, false
	}
	c, ok := m.SelectedCompletion()
	if !ok || c.Documentation.Kind == DocNone {
		return Documentation{}, false
	}
	return c.Documentation, true
}

// WidestEntry returns the index of the widest entry for popover sizing, or
// -1 when the menu is empty. Single-line docs count toward the width when
// documentation display is on.
func (m *CompletionsMenu) WidestEntry() int {
	widest, widestLen := -1, -1
	for i, entry := range m.entries {
		var n int
		switch e := entry.(type) {
		case MatchEntry:
			c := m.candidates[e.CandidateIndex]
			n = utf8.RuneCountInString(c.Label)
			if m.showDocs && c.Documentation.Kind == DocSingleLine {
				n += utf8.RuneCountInString(c.Documentation.Text)
			}
		case HintEntry:
			n = utf8.RuneCountInString(e.Provider)
		}
		if n > widestLen {
			widest, widestLen = i, n
		}
	}
	return widest
}

// Filter recomputes entries for query. Matching, the word-start post-filter,
// and ranking all run on the background dispatcher; the result is applied on
// the owner goroutine and discarded if a newer filter has landed first.
func (m *CompletionsMenu) Filter(query string) {
	if m.dismissed {
		return
	}
	m.filterSeq++
	seq := m.filterSeq

	ctx := m.ctx
	matcher := m.matcher
	cands := m.matchCandidates
	ranks := m.ranks
	sortEnabled := m.sortCompletions
	threshold := m.threshold

	m.disp.Background(func() {
		entries, err := computeEntries(ctx, matcher, cands, ranks, query, sortEnabled, threshold)
		if err != nil {
			// Cancelled by dismiss; nothing to apply.
			return
		}
		m.disp.Foreground(func() {
			m.applyFilter(seq, entries)
		})
	})
}

func (m *CompletionsMenu) applyFilter(seq uint64, entries []Entry) {
	if m.dismissed {
		return
	}
	if seq <= m.appliedSeq {
		m.log.Debug("discarding stale filter result", "seq", seq, "applied", m.appliedSeq)
		return
	}
	m.appliedSeq = seq

	if len(m.entries) > 0 {
		if hint, ok := m.entries[0].(HintEntry); ok {
			entries = append([]Entry{hint}, entries...)
		}
	}
	m.entries = entries
	m.selected = 0
	m.notify()
	m.resolveSelected()
}

// computeEntries is pure with respect to menu state; everything it reads is
// an immutable snapshot.
func computeEntries(ctx context.Context, matcher *fuzzy.Matcher, cands []fuzzy.Candidate, ranks []rankInfo, query string, sortEnabled bool, threshold float64) ([]Entry, error) {
	caseSensitive := utils.HasUpper(query)
	matches, err := matcher.Match(ctx, cands, query, caseSensitive)
	if err != nil {
		return nil, err
	}

	// Drop matches whose query start only lands mid-word: the first query
	// rune must open some word of the display string. Deliberately strict;
	// it also rejects acronym-style matches.
	if query != "" {
		first, _ := utf8.DecodeRuneInString(query)
		kept := matches[:0]
		for _, mt := range matches {
			if words.StartsAnyWord(mt.Label, first, caseSensitive) {
				kept = append(kept, mt)
			}
		}
		matches = kept
	}

	if sortEnabled {
		rankMatches(matches, ranks, threshold)
	}

	entries := make([]Entry, len(matches))
	for i, mt := range matches {
		entries[i] = MatchEntry{
			CandidateIndex: mt.CandidateID,
			Score:          mt.Score,
			Positions:      mt.Positions,
			Display:        mt.Label,
		}
	}
	return entries, nil
}

// rankMatches orders matches by the strong/weak bucket rule. Strong matches
// rank by fuzzy score first; weak matches defer to the provider's sort hint.
// Every comparison bottoms out at the candidate index, so the order is
// reproducible.
func rankMatches(matches []fuzzy.Match, ranks []rankInfo, threshold float64) {
	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		aStrong, bStrong := a.Score >= threshold, b.Score >= threshold
		if aStrong != bStrong {
			return aStrong
		}
		ra, rb := ranks[a.CandidateID], ranks[b.CandidateID]
		if aStrong {
			if a.Score != b.Score {
				return a.Score > b.Score
			}
			if c := compareSortText(ra.sortText, rb.sortText); c != 0 {
				return c < 0
			}
		} else {
			if c := compareSortText(ra.sortText, rb.sortText); c != 0 {
				return c < 0
			}
			if a.Score != b.Score {
				return a.Score > b.Score
			}
		}
		if ra.kindRank != rb.kindRank {
			return ra.kindRank < rb.kindRank
		}
		if ra.tieText != rb.tieText {
			return ra.tieText < rb.tieText
		}
		return a.CandidateID < b.CandidateID
	})
}

// compareSortText orders provider sort hints ascending with absent hints
// last.
func compareSortText(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return strings.Compare(*a, *b)
}

// SelectFirst moves the selection to the top entry. All selection moves are
// no-ops on an empty menu.
func (m *CompletionsMenu) SelectFirst() {
	if !m.Visible() {
		return
	}
	m.selected = 0
	m.afterSelect()
}

// SelectPrev moves the selection up, wrapping to the last entry.
func (m *CompletionsMenu) SelectPrev() {
	if !m.Visible() {
		return
	}
	if m.selected > 0 {
		m.selected--
	} else {
		m.selected = len(m.entries) - 1
	}
	m.afterSelect()
}

// SelectNext moves the selection down, wrapping to the first entry.
func (m *CompletionsMenu) SelectNext() {
	if !m.Visible() {
		return
	}
	if m.selected+1 < len(m.entries) {
		m.selected++
	} else {
		m.selected = 0
	}
	m.afterSelect()
}

// SelectLast moves the selection to the bottom entry.
func (m *CompletionsMenu) SelectLast() {
	if !m.Visible() {
		return
	}
	m.selected = len(m.entries) - 1
	m.afterSelect()
}

func (m *CompletionsMenu) afterSelect() {
	m.scrollTo(m.selected)
	m.resolveSelected()
	m.notify()
}

// ShowInlineHint inserts or replaces the single inline hint at index 0 and
// forces the selection onto it.
func (m *CompletionsMenu) ShowInlineHint(hint HintEntry) {
	if m.dismissed {
		return
	}
	if len(m.entries) > 0 {
		if _, ok := m.entries[0].(HintEntry); ok {
			m.entries[0] = hint
		} else {
			m.entries = append([]Entry{hint}, m.entries...)
		}
	} else {
		m.entries = []Entry{hint}
	}
	m.selected = 0
	m.notify()
}

// resolveSelected runs the resolve-on-select protocol: when the selection is
// a match entry whose candidate lacks detail, ask the source to fill that one
// slot. At most one resolve is in flight per candidate, and an already
// resolved candidate never issues another request. Failures leave the
// candidate usable with its unresolved edit.
func (m *CompletionsMenu) resolveSelected() {
	if !m.resolveEnabled || m.source == nil || m.dismissed {
		return
	}
	entry, ok := m.SelectedEntry()
	if !ok {
		return
	}
	match, ok := entry.(MatchEntry)
	if !ok {
		return
	}
	index := match.CandidateIndex
	if m.candidates[index].Resolved {
		return
	}
	if _, inFlight := m.resolving[index]; inFlight {
		return
	}
	m.resolving[index] = struct{}{}

	ctx := m.ctx
	source := m.source
	buffer := m.buffer
	candidates := m.candidates
	m.disp.Background(func() {
		changed, err := source.Resolve(ctx, buffer, []int{index}, candidates)
		m.disp.Foreground(func() {
			delete(m.resolving, index)
			if err != nil {
				m.log.Warn("completion resolve failed", "index", index, "err", err)
				return
			}
			if changed && !m.dismissed {
				m.notify()
			}
		})
	})
}

// Dismiss tears the menu down: in-flight work is cancelled, pending results
// are ignored, and the menu reports invisible from here on.
func (m *CompletionsMenu) Dismiss() {
	if m.dismissed {
		return
	}
	m.dismissed = true
	m.cancel()
	m.entries = nil
}

func (m *CompletionsMenu) notify() {
	if m.renderer != nil {
		m.renderer.Notify()
	}
}

func (m *CompletionsMenu) scrollTo(index int) {
	if m.renderer != nil {
		m.renderer.ScrollTo(index)
	}
}
