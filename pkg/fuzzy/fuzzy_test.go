package fuzzy

import (
	"context"
	"fmt"
	"reflect"
	"testing"
)

func candidateSet(labels ...string) []Candidate {
	cands := make([]Candidate, len(labels))
	for i, l := range labels {
		cands[i] = Candidate{ID: i, Label: l}
	}
	return cands
}

func TestMatchEmptyQuery(t *testing.T) {
	matcher := NewMatcher(2)
	cands := candidateSet("gamma", "alpha", "beta")

	matches, err := matcher.Match(context.Background(), cands, "", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Empty query ignores the limit and keeps source order.
	if len(matches) != 3 {
		t.Fatalf("expected all 3 candidates, got %d", len(matches))
	}
	for i, m := range matches {
		if m.CandidateID != i {
			t.Errorf("source order broken at %d: got candidate %d", i, m.CandidateID)
		}
		if m.Score != 0 || m.Positions != nil {
			t.Errorf("candidate %d should be unscored, got score=%v positions=%v", i, m.Score, m.Positions)
		}
	}
}

func TestMatchCaseSensitivity(t *testing.T) {
	matcher := NewMatcher(0)
	cands := candidateSet("CreateComponent", "create_all")

	testCases := []struct {
		query         string
		caseSensitive bool
		expectedIDs   []int
		description   string
	}{
		{"Creat", true, []int{0}, "uppercase query only matches exact case"},
		{"creat", false, []int{0, 1}, "lowercase query folds both candidates"},
		{"zzz", false, nil, "no subsequence, no match"},
	}

	for _, tc := range testCases {
		matches, err := matcher.Match(context.Background(), cands, tc.query, tc.caseSensitive)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.description, err)
		}
		var ids []int
		for _, m := range matches {
			ids = append(ids, m.CandidateID)
		}
		if len(ids) != len(tc.expectedIDs) {
			t.Errorf("%s: got ids %v, want %v", tc.description, ids, tc.expectedIDs)
			continue
		}
		got := map[int]bool{}
		for _, id := range ids {
			got[id] = true
		}
		for _, id := range tc.expectedIDs {
			if !got[id] {
				t.Errorf("%s: missing candidate %d in %v", tc.description, id, ids)
			}
		}
	}
}

func TestMatchPositions(t *testing.T) {
	matcher := NewMatcher(0)

	testCases := []struct {
		label       string
		query       string
		expected    []int
		description string
	}{
		{"CreateComponent", "Creat", []int{0, 1, 2, 3, 4}, "prefix run"},
		{"for_each", "fe", []int{0, 4}, "second rune lands after the separator"},
		{"abcabc", "bc", []int{1, 2}, "greedy takes the earliest run"},
	}

	for _, tc := range testCases {
		matches, err := matcher.Match(context.Background(), candidateSet(tc.label), tc.query, false)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.description, err)
		}
		if len(matches) != 1 {
			t.Fatalf("%s: expected one match, got %d", tc.description, len(matches))
		}
		if !reflect.DeepEqual(matches[0].Positions, tc.expected) {
			t.Errorf("%s: positions = %v, want %v", tc.description, matches[0].Positions, tc.expected)
		}
	}
}

func TestMatchScoreBounds(t *testing.T) {
	matcher := NewMatcher(0)
	cands := candidateSet("CreateComponent", "concatenate_list", "documentation")

	matches, err := matcher.Match(context.Background(), cands, "cat", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) == 0 {
		t.Fatal("expected matches")
	}
	for _, m := range matches {
		if m.Score <= 0 || m.Score > 1 {
			t.Errorf("score out of range for %q: %v", m.Label, m.Score)
		}
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Errorf("matches not sorted by score: %v before %v", matches[i-1].Score, matches[i].Score)
		}
	}
}

func TestMatchCompactBeatsScattered(t *testing.T) {
	matcher := NewMatcher(0)
	cands := candidateSet("charting", "crt_display")

	matches, err := matcher.Match(context.Background(), cands, "crt", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	// "crt" is a compact prefix of crt_display and a scattered subsequence
	// of charting.
	if matches[0].Label != "crt_display" {
		t.Errorf("expected compact match first, got %q", matches[0].Label)
	}
}

func TestMatchLimit(t *testing.T) {
	matcher := NewMatcher(5)
	var cands []Candidate
	for i := 0; i < 50; i++ {
		cands = append(cands, Candidate{ID: i, Label: fmt.Sprintf("value_%02d", i)})
	}

	matches, err := matcher.Match(context.Background(), cands, "val", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 5 {
		t.Errorf("limit not applied: got %d matches", len(matches))
	}
	// Equal scores fall back to candidate id order.
	for i := 0; i < len(matches); i++ {
		if matches[i].CandidateID != i {
			t.Errorf("tie-break by id broken at %d: got %d", i, matches[i].CandidateID)
		}
	}
}

func TestMatchCancelled(t *testing.T) {
	matcher := NewMatcher(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	matches, err := matcher.Match(ctx, candidateSet("alpha", "beta"), "a", false)
	if err == nil {
		t.Fatalf("expected context error, got %d matches", len(matches))
	}
}
