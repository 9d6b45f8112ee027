package core

// Command is an editing action bound to a key.
type Command int

const (
	CmdNone Command = iota
	CmdInsert
	CmdNewline
	CmdBackspace
	CmdDelete
	CmdDeleteLine

	CmdMoveUp
	CmdMoveDown
	CmdMoveLeft
	CmdMoveRight
	CmdMoveHome
	CmdMoveEnd
	CmdPageUp
	CmdPageDown
	CmdFileStart
	CmdFileEnd
	CmdGoToLine

	CmdSelectAll
	CmdCut
	CmdIndent
	CmdUnindent

	CmdToggleLineNumbers
	CmdToggleHighlight
	CmdToggleComment
	CmdCopy
	CmdPaste
	CmdSave
	CmdQuit
	CmdCancel
)

var ctrlBindings = map[rune]Command{
	'g': CmdGoToLine,
	'l': CmdToggleLineNumbers,
	'k': CmdDeleteLine,
	'a': CmdSelectAll,
	'c': CmdCopy,
	'x': CmdCut,
	'v': CmdPaste,
	's': CmdSave,
	'q': CmdQuit,
	'/': CmdToggleComment,
	'_': CmdToggleComment, // terminals send Ctrl+/ as Ctrl+_
}

var altBindings = map[rune]Command{
	'h': CmdToggleHighlight,
}

// Moves reports whether c only moves the cursor. Held with Shift, these
// extend the selection.
func (c Command) Moves() bool {
	return c >= CmdMoveUp && c <= CmdFileEnd
}

// CommandFor maps a key event to the command bound to it.
func CommandFor(key KeyEvent) Command {
	if key.Has(ModCtrl) {
		switch key.Key {
		case KeyHome, KeyUp:
			return CmdFileStart
		case KeyEnd, KeyDown:
			return CmdFileEnd
		case KeyLeft:
			return CmdMoveHome
		case KeyRight:
			return CmdMoveEnd
		}
		return ctrlBindings[key.Rune]
	}
	if key.Has(ModAlt) {
		return altBindings[key.Rune]
	}

	switch key.Key {
	case KeyEnter:
		return CmdNewline
	case KeyBackspace:
		return CmdBackspace
	case KeyDelete:
		return CmdDelete
	case KeyEscape:
		return CmdCancel
	case KeyUp:
		return CmdMoveUp
	case KeyDown:
		return CmdMoveDown
	case KeyLeft:
		return CmdMoveLeft
	case KeyRight:
		return CmdMoveRight
	case KeyHome:
		return CmdMoveHome
	case KeyEnd:
		return CmdMoveEnd
	case KeyPageUp:
		return CmdPageUp
	case KeyPageDown:
		return CmdPageDown
	case KeyTab:
		if key.Has(ModShift) {
			return CmdUnindent
		}
		return CmdIndent
	case KeySpace:
		return CmdInsert
	}

	if key.Rune != 0 {
		return CmdInsert
	}
	return CmdNone
}
