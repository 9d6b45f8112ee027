package core

import (
	"fmt"
	"strconv"
	"strings"
)

// GoToLinePrompt prefixes the go-to-line prompt.
const GoToLinePrompt = "Go to line: "

// commandMode reads a line number and jumps to it.
type commandMode struct {
	commandBuffer string
}

func NewCommandMode() EditorMode  { return &commandMode{} }
func (m *commandMode) Name() Mode { return CommandMode }

func (m *commandMode) Enter(editor *Editor) {
	m.commandBuffer = ""
	editor.UpdatePrompt(GoToLinePrompt)
}

func (m *commandMode) Exit(editor *Editor) {
	editor.UpdatePrompt("")
}

func (m *commandMode) HandleKey(editor *Editor, key KeyEvent) error {
	switch key.Key {
	case KeyEscape:
		editor.SetMode(InsertMode)
		return nil

	case KeyBackspace:
		if len(m.commandBuffer) == 0 {
			editor.SetMode(InsertMode)
			return nil
		}
		m.commandBuffer = m.commandBuffer[:len(m.commandBuffer)-1]
		editor.UpdatePrompt(GoToLinePrompt + m.commandBuffer)
		return nil

	case KeyEnter:
		input := strings.TrimSpace(m.commandBuffer)
		editor.SetMode(InsertMode)
		if input == "" {
			return nil
		}
		line, err := strconv.Atoi(input)
		if err != nil {
			return NewError(ErrInvalidLineId, fmt.Errorf("%w: %q", ErrInvalidLine, input))
		}
		return editor.GoToLine(line)
	}

	if key.Rune >= '0' && key.Rune <= '9' && key.Modifiers == ModNone {
		m.commandBuffer += string(key.Rune)
		editor.UpdatePrompt(GoToLinePrompt + m.commandBuffer)
	}
	return nil
}
