// Package fuzzy scores candidate labels against a typed query and reports
// which label runes matched, so callers can highlight them. Scores land in
// [0,1]; the ranking layers above decide what counts as a strong match.
package fuzzy

import (
	"context"
	"sort"
	"unicode"

	fuzzysearch "github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/menuserve/menuserve/internal/utils"
)

// DefaultLimit caps how many matches a single pass may return.
const DefaultLimit = 100

// Candidate pairs a stable candidate id with the label text to match against.
type Candidate struct {
	ID    int
	Label string
}

// Match is one scored candidate. Positions index the runes of Label that the
// query matched, in ascending order.
type Match struct {
	CandidateID int
	Score       float64
	Positions   []int
	Label       string
}

// Scoring weights per matched rune. A rune earns the base score plus a bonus
// when it starts a word and another when it directly follows the previous
// matched rune.
const (
	baseMatchScore     = 1
	wordStartBonus     = 2
	adjacentMatchBonus = 1
	maxPerRuneScore    = baseMatchScore + wordStartBonus + adjacentMatchBonus
)

// Matcher runs fuzzy passes over candidate sets. The zero limit means
// DefaultLimit.
type Matcher struct {
	limit int
}

func NewMatcher(limit int) *Matcher {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Matcher{limit: limit}
}

// Match scores every candidate against query and returns the top matches
// ordered by descending score (candidate id breaks ties). An empty query
// returns every candidate unscored in source order, uncapped.
// The context is checked between candidates so a superseded pass can bail out.
func (m *Matcher) Match(ctx context.Context, candidates []Candidate, query string, caseSensitive bool) ([]Match, error) {
	if query == "" {
		all := make([]Match, len(candidates))
		for i, c := range candidates {
			all[i] = Match{CandidateID: c.ID, Label: c.Label}
		}
		return all, nil
	}

	queryRunes := []rune(query)
	var matches []Match
	for i, c := range candidates {
		if i%64 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if !prescreen(query, c.Label, caseSensitive) {
			continue
		}
		positions, ok := matchPositions(queryRunes, []rune(c.Label), caseSensitive)
		if !ok {
			continue
		}
		matches = append(matches, Match{
			CandidateID: c.ID,
			Score:       scoreMatch([]rune(c.Label), positions),
			Positions:   positions,
			Label:       c.Label,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].CandidateID < matches[j].CandidateID
	})
	if len(matches) > m.limit {
		matches = matches[:m.limit]
	}
	return matches, nil
}

// prescreen is a cheap subsequence test before the rune-level pass.
func prescreen(query, label string, caseSensitive bool) bool {
	if caseSensitive {
		return fuzzysearch.Match(query, label)
	}
	return fuzzysearch.MatchFold(query, label)
}

// matchPositions greedily assigns each query rune to the earliest label rune
// still available. Greedy assignment keeps positions deterministic.
func matchPositions(query, label []rune, caseSensitive bool) ([]int, bool) {
	positions := make([]int, 0, len(query))
	li := 0
	for _, qr := range query {
		found := -1
		for li < len(label) {
			if runesEqual(label[li], qr, caseSensitive) {
				found = li
				li++
				break
			}
			li++
		}
		if found < 0 {
			return nil, false
		}
		positions = append(positions, found)
	}
	return positions, true
}

// scoreMatch normalizes the per-rune bonuses into [0,1]. Gaps between matched
// runes and unmatched leading runes both dilute the score, so compact matches
// near the start of the label win.
func scoreMatch(label []rune, positions []int) float64 {
	raw := 0
	prev := -2
	for _, p := range positions {
		s := baseMatchScore
		if isWordStart(label, p) {
			s += wordStartBonus
		}
		if p == prev+1 {
			s += adjacentMatchBonus
		}
		raw += s
		prev = p
	}

	n := float64(len(positions))
	score := float64(raw) / (float64(maxPerRuneScore) * n)

	span := positions[len(positions)-1] - positions[0] + 1
	score *= n / float64(span)

	if lead := positions[0]; lead > 0 {
		score /= 1 + 0.02*float64(lead)
	}
	if score > 1 {
		score = 1
	}
	return score
}

func isWordStart(label []rune, i int) bool {
	if i == 0 {
		return true
	}
	prev := label[i-1]
	if utils.IsSeparator(prev) {
		return true
	}
	return unicode.IsLower(prev) && unicode.IsUpper(label[i])
}

func runesEqual(a, b rune, caseSensitive bool) bool {
	if caseSensitive {
		return a == b
	}
	return utils.EqualFold(a, b)
}
