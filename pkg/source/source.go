// Package source ships a reference menu.CandidateSource backed by a patricia
// trie of identifiers with frequency ranking. It harvests candidates by
// prefix and resolves per-candidate documentation lazily, the way a language
// server defers completion detail until an item is selected.
package source

import (
	"context"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/menuserve/menuserve/pkg/menu"
)

// Word is one dictionary entry: an identifier, its frequency, and the
// documentation served on resolve.
type Word struct {
	Text string
	Freq int
	Doc  string
}

// DictSource serves completion candidates from an in-memory dictionary.
// Candidates come back unresolved; Resolve fills in documentation on demand.
type DictSource struct {
	trie *patricia.Trie
	docs map[string]string
	log  *log.Logger
}

func NewDictSource() *DictSource {
	return &DictSource{
		trie: patricia.NewTrie(),
		docs: make(map[string]string),
		log:  log.WithPrefix("dictsource"),
	}
}

// Add inserts or replaces a dictionary entry.
func (s *DictSource) Add(w Word) {
	s.trie.Insert(patricia.Prefix(w.Text), w.Freq)
	if w.Doc != "" {
		s.docs[w.Text] = w.Doc
	}
}

// Completions harvests up to limit candidates whose text starts with prefix,
// most frequent first. The provider sort hint encodes that frequency order,
// so the ranker's weak bucket follows it.
func (s *DictSource) Completions(prefix string, limit int) []*menu.Completion {
	type scored struct {
		text string
		freq int
	}
	var found []scored

	err := s.trie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, item patricia.Item) error {
		freq, _ := item.(int)
		found = append(found, scored{text: string(p), freq: freq})
		return nil
	})
	if err != nil {
		s.log.Errorf("visiting trie subtree: %v", err)
		return nil
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].freq != found[j].freq {
			return found[i].freq > found[j].freq
		}
		return found[i].text < found[j].text
	})
	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}

	completions := make([]*menu.Completion, len(found))
	for i, f := range found {
		hint := fmt.Sprintf("%04d", i)
		completions[i] = &menu.Completion{
			Label:    f.text,
			NewText:  f.text,
			SortText: &hint,
		}
	}
	return completions
}

// Resolve implements menu.CandidateSource: each addressed candidate gets its
// documentation looked up and its Resolved flag set. Reports whether any
// slot actually changed.
func (s *DictSource) Resolve(ctx context.Context, buffer menu.BufferID, indices []int, completions []*menu.Completion) (bool, error) {
	changed := false
	for _, ix := range indices {
		if err := ctx.Err(); err != nil {
			return changed, err
		}
		if ix < 0 || ix >= len(completions) {
			return changed, fmt.Errorf("resolve index %d out of range (%d candidates)", ix, len(completions))
		}
		c := completions[ix]
		if c.Resolved {
			continue
		}
		if doc, ok := s.docs[c.Label]; ok {
			c.Documentation = menu.Documentation{Kind: menu.DocSingleLine, Text: doc}
			changed = true
		}
		c.Resolved = true
	}
	return changed, nil
}
