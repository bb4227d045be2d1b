package menu

import "testing"

type staticProvider struct{ id string }

func (p staticProvider) ID() string { return p.id }

func sampleContents() CodeActionContents {
	tasks := &ResolvedTasks{
		Templates: []TaskEntry{
			{Kind: TaskSourceWorktree, Task: ResolvedTask{Label: "cargo test", Template: TaskTemplate{Command: "cargo", Args: []string{"test"}}}},
			{Kind: TaskSourceLanguage, Task: ResolvedTask{Label: "cargo run", Template: TaskTemplate{Command: "cargo", Args: []string{"run"}}}},
		},
	}
	actions := []AvailableCodeAction{
		{ExcerptID: 1, Action: CodeAction{Title: "Extract function"}, Provider: staticProvider{"rust-analyzer"}},
		{ExcerptID: 1, Action: CodeAction{Title: "Inline variable"}, Provider: staticProvider{"rust-analyzer"}},
		{ExcerptID: 2, Action: CodeAction{Title: "Organize imports"}, Provider: staticProvider{"lsp-extra"}},
	}
	return CodeActionContents{Tasks: tasks, Actions: actions}
}

func TestCodeActionContentsIndexing(t *testing.T) {
	contents := sampleContents()

	if contents.Len() != 5 {
		t.Fatalf("Len = %d, want 5", contents.Len())
	}
	if contents.IsEmpty() {
		t.Fatal("populated contents reported empty")
	}

	testCases := []struct {
		index       int
		wantLabel   string
		wantTask    bool
		description string
	}{
		{0, "cargo test", true, "first task"},
		{1, "cargo run", true, "second task"},
		{2, "Extract function", false, "first action after task offset"},
		{3, "Inline variable", false, "second action keeps provider order"},
		{4, "Organize imports", false, "action from the second provider"},
	}

	for _, tc := range testCases {
		item, ok := contents.Get(tc.index)
		if !ok {
			t.Errorf("%s: Get(%d) missing", tc.description, tc.index)
			continue
		}
		if item.Label() != tc.wantLabel {
			t.Errorf("%s: label %q, want %q", tc.description, item.Label(), tc.wantLabel)
		}
		_, isTask := item.(TaskItem)
		if isTask != tc.wantTask {
			t.Errorf("%s: task=%v, want %v", tc.description, isTask, tc.wantTask)
		}
	}

	if _, ok := contents.Get(5); ok {
		t.Error("Get past the end should report missing")
	}
	if _, ok := contents.Get(-1); ok {
		t.Error("Get(-1) should report missing")
	}
}

func TestCodeActionContentsWithoutTasks(t *testing.T) {
	contents := CodeActionContents{Actions: sampleContents().Actions}
	if contents.Len() != 3 {
		t.Fatalf("Len = %d, want 3", contents.Len())
	}
	item, ok := contents.Get(0)
	if !ok {
		t.Fatal("Get(0) missing")
	}
	if _, isAction := item.(CodeActionItem); !isAction {
		t.Error("with no tasks, index 0 should be the first action")
	}

	empty := CodeActionContents{}
	if !empty.IsEmpty() || empty.Len() != 0 {
		t.Error("zero-value contents should be empty")
	}
}

func TestCodeActionContentsAll(t *testing.T) {
	contents := sampleContents()
	seen := 0
	for i, item := range contents.All() {
		want, _ := contents.Get(i)
		if item.Label() != want.Label() {
			t.Errorf("All index %d label %q disagrees with Get %q", i, item.Label(), want.Label())
		}
		seen++
	}
	if seen != contents.Len() {
		t.Errorf("All yielded %d items, want %d", seen, contents.Len())
	}
}

func TestActionsItemLabelStripsNewlines(t *testing.T) {
	task := TaskItem{Task: ResolvedTask{Label: "build\nand test"}}
	if task.Label() != "buildand test" {
		t.Errorf("task label = %q", task.Label())
	}
	action := CodeActionItem{Action: CodeAction{Title: "wrap\nin block"}}
	if action.Label() != "wrapin block" {
		t.Errorf("action label = %q", action.Label())
	}
}

func TestCodeActionsMenuNavigation(t *testing.T) {
	m := NewCodeActionsMenu(sampleContents(), 7, nil)
	if !m.Visible() {
		t.Fatal("populated menu should be visible")
	}

	for i := 0; i < m.Contents().Len(); i++ {
		m.SelectNext()
	}
	if m.Selected() != 0 {
		t.Errorf("N advances should wrap to 0, got %d", m.Selected())
	}
	m.SelectPrev()
	if m.Selected() != 4 {
		t.Errorf("SelectPrev from 0 should wrap to 4, got %d", m.Selected())
	}
	m.SelectLast()
	item, ok := m.SelectedItem()
	if !ok || item.Label() != "Organize imports" {
		t.Errorf("SelectLast selected %v", item)
	}

	empty := NewCodeActionsMenu(CodeActionContents{}, 7, nil)
	empty.SelectNext()
	empty.SelectLast()
	if empty.Selected() != 0 {
		t.Errorf("selection moved on an empty menu: %d", empty.Selected())
	}
}

func TestCodeActionsMenuOrigin(t *testing.T) {
	cursor := Point{Row: 10, Column: 4}

	m := NewCodeActionsMenu(sampleContents(), 7, nil)
	if origin, ok := m.Origin(cursor).(CursorOrigin); !ok || origin.Position != cursor {
		t.Errorf("default origin = %v, want cursor origin at %v", m.Origin(cursor), cursor)
	}

	m.SetGutterOrigin(10)
	origin, ok := m.Origin(cursor).(GutterOrigin)
	if !ok || origin.Row != 10 {
		t.Errorf("gutter origin = %v, want row 10", m.Origin(cursor))
	}
	// Origin sticks regardless of later cursor positions.
	if origin, ok := m.Origin(Point{Row: 99}).(GutterOrigin); !ok || origin.Row != 10 {
		t.Errorf("gutter origin drifted: %v", origin)
	}
}

func TestCodeActionsMenuWidestItem(t *testing.T) {
	m := NewCodeActionsMenu(sampleContents(), 7, nil)
	if got := m.WidestItem(); got != 2 {
		t.Errorf("WidestItem = %d, want 2 (Extract function)", got)
	}
	empty := NewCodeActionsMenu(CodeActionContents{}, 7, nil)
	if got := empty.WidestItem(); got != -1 {
		t.Errorf("WidestItem on empty menu = %d, want -1", got)
	}
}
