package menu

import (
	"iter"
	"strings"
)

// TaskSourceKind tags where a runnable task came from.
type TaskSourceKind int

const (
	TaskSourceUnknown TaskSourceKind = iota
	TaskSourceUserInput
	TaskSourceWorktree
	TaskSourceLanguage
)

// TaskTemplate is the command metadata a task was resolved from.
type TaskTemplate struct {
	Command string
	Args    []string
}

// ResolvedTask is a runnable task with its display label already resolved.
type ResolvedTask struct {
	Label    string
	Template TaskTemplate
}

// TaskEntry pairs a resolved task with its source kind.
type TaskEntry struct {
	Kind TaskSourceKind
	Task ResolvedTask
}

// ResolvedTasks is the ordered task collection offered at a position.
type ResolvedTasks struct {
	Templates []TaskEntry
}

// ExcerptID identifies the buffer excerpt a code action applies to.
type ExcerptID uint64

// CodeAction is a provider-offered action; Data is the provider's payload,
// carried through untouched until confirm.
type CodeAction struct {
	Title string
	Data  any
}

// CodeActionProvider is the handle of the provider owning an action. The
// engine only carries it; confirm logic lives with the host.
type CodeActionProvider interface {
	ID() string
}

// AvailableCodeAction is one action with its owning provider and excerpt.
type AvailableCodeAction struct {
	ExcerptID ExcerptID
	Action    CodeAction
	Provider  CodeActionProvider
}

// ActionsItem is one line of the code-actions menu: a task or a code action.
type ActionsItem interface {
	isActionsItem()

	// Label is the single-line display text; embedded newlines are stripped.
	Label() string
}

type TaskItem struct {
	Kind TaskSourceKind
	Task ResolvedTask
}

func (TaskItem) isActionsItem() {}

func (t TaskItem) Label() string {
	return strings.ReplaceAll(t.Task.Label, "\n", "")
}

type CodeActionItem struct {
	ExcerptID ExcerptID
	Action    CodeAction
	Provider  CodeActionProvider
}

func (CodeActionItem) isActionsItem() {}

func (c CodeActionItem) Label() string {
	return strings.ReplaceAll(c.Action.Title, "\n", "")
}

// CodeActionContents is a virtual concatenation of two independently-owned
// collections: tasks first, then actions offset by the task count. Neither
// collection is copied or re-sorted; every accessor agrees on the same index
// mapping.
type CodeActionContents struct {
	Tasks   *ResolvedTasks
	Actions []AvailableCodeAction
}

func (c CodeActionContents) taskLen() int {
	if c.Tasks == nil {
		return 0
	}
	return len(c.Tasks.Templates)
}

func (c CodeActionContents) Len() int {
	return c.taskLen() + len(c.Actions)
}

func (c CodeActionContents) IsEmpty() bool {
	return c.Len() == 0
}

// Get translates index into whichever collection owns it.
func (c CodeActionContents) Get(index int) (ActionsItem, bool) {
	if index < 0 {
		return nil, false
	}
	if tl := c.taskLen(); index < tl {
		entry := c.Tasks.Templates[index]
		return TaskItem{Kind: entry.Kind, Task: entry.Task}, true
	} else {
		index -= tl
	}
	if index < len(c.Actions) {
		available := c.Actions[index]
		return CodeActionItem{
			ExcerptID: available.ExcerptID,
			Action:    available.Action,
			Provider:  available.Provider,
		}, true
	}
	return nil, false
}

// All iterates every item with its flat index, in the same order Get uses.
func (c CodeActionContents) All() iter.Seq2[int, ActionsItem] {
	return func(yield func(int, ActionsItem) bool) {
		for i := 0; i < c.Len(); i++ {
			item, _ := c.Get(i)
			if !yield(i, item) {
				return
			}
		}
	}
}

// CodeActionsMenu navigates a CodeActionContents. The candidate set is
// immutable after construction; only the selection and the gutter-origin
// marker ever change. There is no resolve step, items are fully materialized
// up front.
type CodeActionsMenu struct {
	contents  CodeActionContents
	buffer    BufferID
	selected  int
	gutterRow *int
	renderer  Renderer
}

func NewCodeActionsMenu(contents CodeActionContents, buffer BufferID, renderer Renderer) *CodeActionsMenu {
	return &CodeActionsMenu{
		contents: contents,
		buffer:   buffer,
		renderer: renderer,
	}
}

// SetGutterOrigin records that this menu was deployed from the gutter
// indicator at row; Origin anchors there instead of at the cursor.
func (m *CodeActionsMenu) SetGutterOrigin(row int) {
	r := row
	m.gutterRow = &r
}

func (m *CodeActionsMenu) Contents() CodeActionContents { return m.contents }
func (m *CodeActionsMenu) Buffer() BufferID             { return m.buffer }
func (m *CodeActionsMenu) Selected() int                { return m.selected }
func (m *CodeActionsMenu) Visible() bool                { return !m.contents.IsEmpty() }

func (m *CodeActionsMenu) SelectedItem() (ActionsItem, bool) {
	return m.contents.Get(m.selected)
}

// Origin is a pure function of stored state, independent of scroll position.
func (m *CodeActionsMenu) Origin(cursor Point) Origin {
	if m.gutterRow != nil {
		return GutterOrigin{Row: *m.gutterRow}
	}
	return CursorOrigin{Position: cursor}
}

func (m *CodeActionsMenu) SelectFirst() {
	if !m.Visible() {
		return
	}
	m.selected = 0
	m.afterSelect()
}

func (m *CodeActionsMenu) SelectPrev() {
	if !m.Visible() {
		return
	}
	if m.selected > 0 {
		m.selected--
	} else {
		m.selected = m.contents.Len() - 1
	}
	m.afterSelect()
}

func (m *CodeActionsMenu) SelectNext() {
	if !m.Visible() {
		return
	}
	if m.selected+1 < m.contents.Len() {
		m.selected++
	} else {
		m.selected = 0
	}
	m.afterSelect()
}

func (m *CodeActionsMenu) SelectLast() {
	if !m.Visible() {
		return
	}
	m.selected = m.contents.Len() - 1
	m.afterSelect()
}

func (m *CodeActionsMenu) afterSelect() {
	if m.renderer != nil {
		m.renderer.ScrollTo(m.selected)
		m.renderer.Notify()
	}
}

// WidestItem returns the index of the longest label for popover sizing, or
// -1 when empty.
func (m *CodeActionsMenu) WidestItem() int {
	widest, widestLen := -1, -1
	for i, item := range m.contents.All() {
		if n := len(item.Label()); n > widestLen {
			widest, widestLen = i, n
		}
	}
	return widest
}
