package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shift(k KeyCode) KeyEvent {
	return KeyEvent{Key: k, Modifiers: ModShift}
}

func TestSelectionRangeAndContains(t *testing.T) {
	s := Selection{Anchor: Position{Row: 1, Col: 3}, Head: Position{Row: 0, Col: 2}}

	start, end := s.Range()
	assert.Equal(t, Position{Row: 0, Col: 2}, start)
	assert.Equal(t, Position{Row: 1, Col: 3}, end)

	assert.False(t, s.Contains(0, 1))
	assert.True(t, s.Contains(0, 2))
	assert.True(t, s.Contains(0, 10), "rest of the first row")
	assert.True(t, s.Contains(1, 2))
	assert.False(t, s.Contains(1, 3), "end is exclusive")

	assert.False(t, Selection{}.Contains(0, 0))
	assert.True(t, Selection{}.IsEmpty())
}

func TestSelectionRows(t *testing.T) {
	first, last := Selection{Anchor: Position{Row: 0, Col: 1}, Head: Position{Row: 2, Col: 0}}.Rows()
	assert.Equal(t, 0, first)
	assert.Equal(t, 1, last)

	first, last = Selection{Anchor: Position{Row: 2, Col: 1}, Head: Position{Row: 2, Col: 0}}.Rows()
	assert.Equal(t, 2, first)
	assert.Equal(t, 2, last)
}

func TestEditorShiftArrowsSelect(t *testing.T) {
	e, _, clip := newTestEditor("hello world")

	for range 5 {
		require.NoError(t, e.HandleKey(shift(KeyRight)))
	}
	require.True(t, e.HasSelection())
	start, end := e.Selection().Range()
	assert.Equal(t, Position{}, start)
	assert.Equal(t, Position{Row: 0, Col: 5}, end)

	require.NoError(t, e.HandleKey(Ctrl('c')))
	assert.Equal(t, "hello", clip.text)

	require.NoError(t, e.HandleKey(KeyEvent{Key: KeyRight}))
	assert.False(t, e.HasSelection(), "plain movement drops the selection")
	assert.Equal(t, Position{Row: 0, Col: 6}, e.Cursor())
}

func TestEditorCtrlShiftArrowsSelectToLineEdges(t *testing.T) {
	e, _, _ := newTestEditor("abcd")
	e.SetCursor(Position{Row: 0, Col: 3})

	require.NoError(t, e.HandleKey(KeyEvent{Key: KeyLeft, Modifiers: ModCtrl | ModShift}))

	assert.Equal(t, Position{}, e.Cursor())
	assert.Equal(t, Selection{Anchor: Position{Row: 0, Col: 3}}, e.Selection())
}

func TestEditorShiftPageDownSelects(t *testing.T) {
	e, _, _ := newTestEditor(strings.Repeat("line\n", 30))
	e.SetCursor(Position{Row: 2, Col: 1})

	require.NoError(t, e.HandleKey(shift(KeyPageDown)))

	assert.Equal(t, Selection{Anchor: Position{Row: 2, Col: 1}, Head: Position{Row: 12, Col: 1}}, e.Selection())
}

func TestEditorTypingReplacesSelection(t *testing.T) {
	e, view, _ := newTestEditor("abc\ndef")
	e.SetCursor(Position{Row: 0, Col: 1})

	require.NoError(t, e.HandleKey(shift(KeyDown)))
	typeText(t, e, "X")

	assert.Equal(t, "aXef", e.GetBuffer().GetCurrentContent())
	assert.Equal(t, Position{Row: 0, Col: 2}, e.Cursor())
	assert.False(t, e.HasSelection())
	assert.Equal(t, EditEvent{0, EditLineDelete}, view.edits[0])
}

func TestEditorBackspaceDeletesSelection(t *testing.T) {
	e, _, _ := newTestEditor("ab\ncd")

	require.NoError(t, e.HandleKey(Ctrl('a')))
	assert.Equal(t, Position{Row: 1, Col: 2}, e.Cursor())
	require.NoError(t, e.HandleKey(KeyEvent{Key: KeyBackspace}))

	assert.Equal(t, "", e.GetBuffer().GetCurrentContent())
	assert.Equal(t, Position{}, e.Cursor())
}

func TestEditorDeleteKeyDeletesSelection(t *testing.T) {
	e, _, _ := newTestEditor("abcdef")
	e.SetCursor(Position{Row: 0, Col: 4})

	require.NoError(t, e.HandleKey(shift(KeyLeft)))
	require.NoError(t, e.HandleKey(shift(KeyLeft)))
	require.NoError(t, e.HandleKey(KeyEvent{Key: KeyDelete}))

	assert.Equal(t, "abef", e.GetBuffer().GetCurrentContent())
	assert.Equal(t, Position{Row: 0, Col: 2}, e.Cursor())
}

func TestEditorCut(t *testing.T) {
	e, _, clip := newTestEditor("one\ntwo\nthree")
	e.SetCursor(Position{Row: 1, Col: 0})

	require.NoError(t, e.HandleKey(shift(KeyEnd)))
	require.NoError(t, e.HandleKey(Ctrl('x')))
	assert.Equal(t, "two", clip.text)
	assert.Equal(t, "one\n\nthree", e.GetBuffer().GetCurrentContent())
	assert.Equal(t, Position{Row: 1, Col: 0}, e.Cursor())

	require.NoError(t, e.HandleKey(Ctrl('x')))
	assert.Equal(t, "\n", clip.text)
	assert.Equal(t, "one\nthree", e.GetBuffer().GetCurrentContent())

	e.SetCursor(Position{Row: 1, Col: 2})
	require.NoError(t, e.HandleKey(Ctrl('x')))
	assert.Equal(t, "three\n", clip.text)
	assert.Equal(t, "one", e.GetBuffer().GetCurrentContent())
	assert.Equal(t, Position{}, e.Cursor())
}

func TestEditorCutWithoutClipboardKeepsText(t *testing.T) {
	e := New(nil)
	e.SetContent([]byte("keep"))

	assert.ErrorIs(t, e.HandleKey(Ctrl('x')), ErrNoClipboard)
	assert.Equal(t, "keep", e.GetBuffer().GetCurrentContent())
}

func TestEditorIndentSelectedRows(t *testing.T) {
	e, _, _ := newTestEditor("a\nb\nc")

	require.NoError(t, e.HandleKey(shift(KeyDown)))
	require.NoError(t, e.HandleKey(shift(KeyDown)))
	require.NoError(t, e.HandleKey(KeyEvent{Key: KeyTab, Rune: '\t'}))

	assert.Equal(t, "    a\n    b\nc", e.GetBuffer().GetCurrentContent())
	assert.True(t, e.HasSelection())
	assert.Equal(t, Position{Row: 2, Col: 0}, e.Cursor())

	require.NoError(t, e.HandleKey(KeyEvent{Key: KeyTab, Modifiers: ModShift}))
	assert.Equal(t, "a\nb\nc", e.GetBuffer().GetCurrentContent())
}

func TestEditorIndentAtCursor(t *testing.T) {
	e, _, _ := newTestEditor("x")
	e.SetCursor(Position{Row: 0, Col: 1})

	require.NoError(t, e.HandleKey(KeyEvent{Key: KeyTab, Rune: '\t'}))
	assert.Equal(t, "x    ", e.GetBuffer().GetCurrentContent())
	assert.Equal(t, Position{Row: 0, Col: 5}, e.Cursor())

	require.NoError(t, e.HandleKey(KeyEvent{Key: KeyBackspace}))
	require.NoError(t, e.HandleKey(KeyEvent{Key: KeyTab, Modifiers: ModShift}))
	assert.Equal(t, "x", e.GetBuffer().GetCurrentContent())
	assert.Equal(t, Position{Row: 0, Col: 1}, e.Cursor())

	require.NoError(t, e.HandleKey(KeyEvent{Key: KeyTab, Modifiers: ModShift}))
	assert.Equal(t, "x", e.GetBuffer().GetCurrentContent(), "nothing to remove")
}

func TestEditorUnindentTabIndentedRow(t *testing.T) {
	e, _, _ := newTestEditor("\tx\n  y")

	require.NoError(t, e.HandleKey(Ctrl('a')))
	require.NoError(t, e.HandleKey(KeyEvent{Key: KeyTab, Modifiers: ModShift}))

	assert.Equal(t, "x\ny", e.GetBuffer().GetCurrentContent())
	assert.Equal(t, Position{Row: 1, Col: 1}, e.Cursor())
}

func TestEditorEscapeClearsSelection(t *testing.T) {
	e, _, _ := newTestEditor("abc")

	require.NoError(t, e.HandleKey(Ctrl('a')))
	require.True(t, e.HasSelection())

	require.NoError(t, e.HandleKey(KeyEvent{Key: KeyEscape}))
	assert.False(t, e.HasSelection())
	assert.Equal(t, Selection{}, e.Selection())
	assert.Equal(t, Position{Row: 0, Col: 3}, e.Cursor())
}
