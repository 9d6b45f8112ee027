package core

type insertMode struct{}

func NewInsertMode() EditorMode { return &insertMode{} }

func (m *insertMode) Name() Mode { return InsertMode }

func (m *insertMode) Enter(editor *Editor) {
	editor.UpdatePrompt("")
}

func (m *insertMode) Exit(editor *Editor) {}

func (m *insertMode) HandleKey(editor *Editor, key KeyEvent) error {
	buffer := editor.buffer
	cursor := &editor.cursor

	cmd := CommandFor(key)
	if cmd.Moves() {
		if key.Has(ModShift) {
			editor.extendSelection()
		} else {
			editor.ClearSelection()
		}
	}

	switch cmd {
	case CmdInsert:
		r := key.Rune
		if key.Key == KeySpace {
			r = ' '
		}
		if r == 0 {
			return nil
		}
		return editor.insertRunes([]rune{r})

	case CmdNewline:
		return editor.insertRunes([]rune{'\n'})

	case CmdBackspace:
		return editor.backspace()

	case CmdDelete:
		return editor.deleteForward()

	case CmdDeleteLine:
		return editor.deleteLine()

	case CmdIndent:
		return editor.indent()
	case CmdUnindent:
		return editor.unindent()

	// Movement errors at the buffer edges are not worth reporting.
	case CmdMoveLeft:
		_ = cursor.MoveLeft(buffer)
	case CmdMoveRight:
		_ = cursor.MoveRight(buffer)
	case CmdMoveUp:
		_ = cursor.MoveUp(buffer, 1)
	case CmdMoveDown:
		_ = cursor.MoveDown(buffer, 1)
	case CmdMoveHome:
		cursor.MoveToLineStart()
	case CmdMoveEnd:
		cursor.MoveToLineEnd(buffer)
	case CmdFileStart:
		editor.view.FileStart()
		cursor.MoveToFileStart()
	case CmdFileEnd:
		editor.view.FileEnd()
		cursor.MoveToFileEnd(buffer)

	case CmdPageUp:
		cursor.MoveToRow(buffer, editor.view.PageUp(cursor.Position.Row))
	case CmdPageDown:
		cursor.MoveToRow(buffer, editor.view.PageDown(cursor.Position.Row))

	case CmdGoToLine:
		editor.SetMode(CommandMode)
		return nil

	case CmdToggleLineNumbers:
		if editor.view.ToggleLineNumbers() {
			editor.DispatchMessage(LineNumbersShownMessage)
		} else {
			editor.DispatchMessage(LineNumbersHiddenMessage)
		}

	case CmdToggleHighlight:
		editor.DispatchMessage(HighlightModeMessage(editor.view.ToggleHighlightMode()))

	case CmdToggleComment:
		if err := editor.toggleComment(); err != nil {
			return err
		}

	case CmdSelectAll:
		editor.SelectAll()
		return nil
	case CmdCopy:
		return editor.copySelection()
	case CmdCut:
		return editor.cut()
	case CmdCancel:
		editor.ClearSelection()
		return nil

	case CmdPaste:
		return editor.paste()

	case CmdSave:
		editor.Save()
		return nil

	case CmdQuit:
		editor.Quit()
		return nil

	default:
		return nil
	}

	editor.moved()
	return nil
}
