package core

import (
	"fmt"
	"strings"
)

// Position represents a specific location in the text buffer
type Position struct {
	Row int // Zero-indexed row (line number)
	Col int // Zero-indexed column (rune position in the line)
}

// Clipboard is the system clipboard.
type Clipboard interface {
	Write(text string) error
	Read() (string, error)
}

// View is the rendering side the editor drives. Edits are reported before
// the next frame is drawn and every cursor move asks the view to keep the
// cursor visible. Jumps scroll the view before the cursor moves.
type View interface {
	ScrollIfNeeded(cursor Position)
	OnEdit(ev EditEvent)
	PageUp(row int) int
	PageDown(row int) int
	FileStart()
	FileEnd()
	GoTo(row int)
	ToggleHighlightMode() fmt.Stringer
	ToggleLineNumbers() bool
}

// Editor applies key events to a buffer and keeps its view informed.
type Editor struct {
	buffer        Buffer
	cursor        Cursor
	view          View
	clipboard     Clipboard
	commentPrefix string

	anchor    Position
	selecting bool

	modes       map[Mode]EditorMode
	currentMode EditorMode
	prompt      string

	updateSignal chan Signal
}

// New creates an editor over an empty buffer. clipboard may be nil.
func New(clipboard Clipboard) *Editor {
	e := &Editor{
		buffer:       NewBuffer(),
		view:         noView{},
		clipboard:    clipboard,
		modes:        make(map[Mode]EditorMode),
		updateSignal: make(chan Signal, 100), // Buffered channel for updates
	}

	e.modes[InsertMode] = NewInsertMode()
	e.modes[CommandMode] = NewCommandMode()
	e.currentMode = e.modes[InsertMode]
	e.currentMode.Enter(e)

	return e
}

// GetBuffer returns the buffer being edited.
func (e *Editor) GetBuffer() Buffer { return e.buffer }

// SetBuffer replaces the buffer and resets the cursor.
func (e *Editor) SetBuffer(b Buffer) {
	e.buffer = b
	e.cursor = Cursor{}
	e.selecting = false
}

// SetContent replaces the buffer content, marked as saved.
func (e *Editor) SetContent(content []byte) {
	e.SetBuffer(NewBufferFromBytes(content))
}

// SetView attaches the view the editor reports to.
func (e *Editor) SetView(v View) {
	if v == nil {
		v = noView{}
	}
	e.view = v
}

// SetCommentPrefix sets the line comment used by the toggle-comment command.
func (e *Editor) SetCommentPrefix(prefix string) {
	e.commentPrefix = prefix
}

// Cursor returns the cursor position.
func (e *Editor) Cursor() Position { return e.cursor.Position }

// SetCursor moves the cursor, clamped into the buffer, and scrolls to it.
func (e *Editor) SetCursor(pos Position) {
	e.cursor.MoveTo(e.buffer, pos)
	e.view.ScrollIfNeeded(e.cursor.Position)
}

// Mode returns the active mode.
func (e *Editor) Mode() Mode { return e.currentMode.Name() }

// SetMode switches modes.
func (e *Editor) SetMode(m Mode) {
	next, ok := e.modes[m]
	if !ok || next == e.currentMode {
		return
	}
	e.currentMode.Exit(e)
	e.currentMode = next
	e.currentMode.Enter(e)
}

// Prompt returns the text of the active prompt, empty when none.
func (e *Editor) Prompt() string { return e.prompt }

// UpdatePrompt sets the prompt line.
func (e *Editor) UpdatePrompt(s string) { e.prompt = s }

// HandleKey processes a key press in the active mode.
func (e *Editor) HandleKey(key KeyEvent) error {
	return e.currentMode.HandleKey(e, key)
}

// apply reports a mutation to the view before the cursor moves, so the
// next scroll and render see fresh layouts.
func (e *Editor) apply(ev EditEvent, err error) error {
	if err != nil {
		return err
	}
	e.view.OnEdit(ev)
	return nil
}

func (e *Editor) moved() {
	e.view.ScrollIfNeeded(e.cursor.Position)
}

// --- Editing commands ---

// insertRunes inserts at the cursor, replacing the selection if any.
func (e *Editor) insertRunes(runes []rune) error {
	if e.HasSelection() {
		if err := e.deleteSelection(); err != nil {
			return err
		}
	}
	e.ClearSelection()

	pos := e.cursor.Position
	if err := e.apply(e.buffer.InsertRunesAt(pos.Row, pos.Col, runes)); err != nil {
		return NewError(ErrInvalidPositionId, err)
	}

	lines := strings.Split(string(runes), "\n")
	if len(lines) == 1 {
		pos.Col += len(runes)
	} else {
		pos.Row += len(lines) - 1
		pos.Col = len([]rune(lines[len(lines)-1]))
	}
	e.cursor.MoveTo(e.buffer, pos)
	e.moved()
	return nil
}

func (e *Editor) backspace() error {
	if e.HasSelection() {
		return e.deleteSelection()
	}
	e.ClearSelection()

	pos := e.cursor.Position
	if pos.Col == 0 && pos.Row == 0 {
		return NewError(ErrStartOfBufferId, ErrStartOfBuffer)
	}

	if err := e.cursor.MoveLeft(e.buffer); err != nil {
		return NewError(ErrStartOfBufferId, err)
	}
	at := e.cursor.Position
	if err := e.apply(e.buffer.DeleteRunesAt(at.Row, at.Col, 1)); err != nil {
		return NewError(ErrEditFailedId, err)
	}
	e.moved()
	return nil
}

func (e *Editor) deleteForward() error {
	if e.HasSelection() {
		return e.deleteSelection()
	}
	e.ClearSelection()

	pos := e.cursor.Position
	if err := e.apply(e.buffer.DeleteRunesAt(pos.Row, pos.Col, 1)); err != nil {
		return NewError(ErrEndOfBufferId, err)
	}
	return nil
}

func (e *Editor) deleteLine() error {
	e.ClearSelection()
	row := e.cursor.Position.Row
	if err := e.apply(e.buffer.DeleteLine(row)); err != nil {
		return NewError(ErrEditFailedId, err)
	}
	e.cursor.MoveTo(e.buffer, Position{Row: row})
	e.moved()
	return nil
}

func (e *Editor) paste() error {
	if e.clipboard == nil {
		return NewError(ErrPasteFailedId, ErrNoClipboard)
	}
	text, err := e.clipboard.Read()
	if err != nil {
		return NewError(ErrPasteFailedId, fmt.Errorf("paste: %w", err))
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if text == "" {
		return nil
	}
	return e.insertRunes([]rune(text))
}

// toggleComment adds or removes the line comment prefix on the cursor line.
func (e *Editor) toggleComment() error {
	if e.commentPrefix == "" {
		return NewError(ErrCommentFailedId, ErrNoCommentSyntax)
	}
	e.ClearSelection()

	row := e.cursor.Position.Row
	runes := e.buffer.GetLineRunes(row)
	indent := 0
	for indent < len(runes) && (runes[indent] == ' ' || runes[indent] == '\t') {
		indent++
	}
	prefix := []rune(e.commentPrefix)
	rest := string(runes[indent:])

	if strings.HasPrefix(rest, e.commentPrefix) {
		n := len(prefix)
		if strings.HasPrefix(rest[len(e.commentPrefix):], " ") {
			n++
		}
		if err := e.apply(e.buffer.DeleteRunesAt(row, indent, n)); err != nil {
			return NewError(ErrCommentFailedId, err)
		}
		if e.cursor.Position.Col > indent {
			e.cursor.Position.Col = max(indent, e.cursor.Position.Col-n)
		}
		return nil
	}

	insert := append(prefix, ' ')
	if err := e.apply(e.buffer.InsertRunesAt(row, indent, insert)); err != nil {
		return NewError(ErrCommentFailedId, err)
	}
	if e.cursor.Position.Col >= indent {
		e.cursor.Position.Col += len(insert)
	}
	return nil
}

// GoToLine moves the cursor to a 1-based line number.
func (e *Editor) GoToLine(line int) error {
	if line < 1 || line > e.buffer.LineCount() {
		return NewError(ErrInvalidLineId, fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidLine, line, e.buffer.LineCount()))
	}
	e.ClearSelection()
	e.view.GoTo(line - 1)
	e.cursor.MoveTo(e.buffer, Position{Row: line - 1})
	e.moved()
	return nil
}

// Save marks the buffer saved and hands its content to the UI.
func (e *Editor) Save() {
	if !e.buffer.IsModified() {
		e.DispatchMessage(NotModifiedMessage)
		return
	}
	e.buffer.SaveContent()
	e.DispatchSignal(SaveSignal{content: e.buffer.GetCurrentContent()})
}

// Quit asks the UI to exit.
func (e *Editor) Quit() {
	e.DispatchSignal(QuitSignal{})
}

type noView struct{}

func (noView) ScrollIfNeeded(Position)           {}
func (noView) OnEdit(EditEvent)                  {}
func (noView) PageUp(row int) int                { return row }
func (noView) PageDown(row int) int              { return row }
func (noView) FileStart()                        {}
func (noView) FileEnd()                          {}
func (noView) GoTo(int)                          {}
func (noView) ToggleHighlightMode() fmt.Stringer { return Mode("off") }
func (noView) ToggleLineNumbers() bool           { return false }
