package menu

// Origin says where the host should anchor the popover. Closed union:
// CursorOrigin or GutterOrigin.
type Origin interface {
	isOrigin()
}

// CursorOrigin anchors the popover at the text cursor.
type CursorOrigin struct {
	Position Point
}

func (CursorOrigin) isOrigin() {}

// GutterOrigin anchors the popover at the gutter row that deployed the menu.
type GutterOrigin struct {
	Row int
}

func (GutterOrigin) isOrigin() {}

// ContextMenu dispatches to whichever concrete menu is active; exactly one
// of the two is non-nil. Navigation returns false when the menu is invisible
// so the host can fall back to its default key handling, and true otherwise,
// even when the move was internally a no-op.
type ContextMenu struct {
	completions *CompletionsMenu
	codeActions *CodeActionsMenu
}

func NewCompletionsContext(m *CompletionsMenu) ContextMenu {
	return ContextMenu{completions: m}
}

func NewCodeActionsContext(m *CodeActionsMenu) ContextMenu {
	return ContextMenu{codeActions: m}
}

// Completions returns the active completions menu, if that is what is shown.
func (c ContextMenu) Completions() (*CompletionsMenu, bool) {
	return c.completions, c.completions != nil
}

// CodeActions returns the active code-actions menu, if that is what is shown.
func (c ContextMenu) CodeActions() (*CodeActionsMenu, bool) {
	return c.codeActions, c.codeActions != nil
}

func (c ContextMenu) Visible() bool {
	switch {
	case c.completions != nil:
		return c.completions.Visible()
	case c.codeActions != nil:
		return c.codeActions.Visible()
	}
	return false
}

func (c ContextMenu) Origin(cursor Point) Origin {
	switch {
	case c.completions != nil:
		return c.completions.Origin(cursor)
	case c.codeActions != nil:
		return c.codeActions.Origin(cursor)
	}
	return CursorOrigin{Position: cursor}
}

func (c ContextMenu) SelectFirst() bool {
	if !c.Visible() {
		return false
	}
	switch {
	case c.completions != nil:
		c.completions.SelectFirst()
	case c.codeActions != nil:
		c.codeActions.SelectFirst()
	}
	return true
}

func (c ContextMenu) SelectPrev() bool {
	if !c.Visible() {
		return false
	}
	switch {
	case c.completions != nil:
		c.completions.SelectPrev()
	case c.codeActions != nil:
		c.codeActions.SelectPrev()
	}
	return true
}

func (c ContextMenu) SelectNext() bool {
	if !c.Visible() {
		return false
	}
	switch {
	case c.completions != nil:
		c.completions.SelectNext()
	case c.codeActions != nil:
		c.codeActions.SelectNext()
	}
	return true
}

func (c ContextMenu) SelectLast() bool {
	if !c.Visible() {
		return false
	}
	switch {
	case c.completions != nil:
		c.completions.SelectLast()
	case c.codeActions != nil:
		c.codeActions.SelectLast()
	}
	return true
}
