package adapter

import (
	"strings"
)

// updateViewport renders the visible rows of the buffer into the
// viewport. The session decides what is on screen, so the viewport never
// scrolls on its own.
func (m *Model) updateViewport() {
	frame := m.session.RenderSelection(m.editor.Cursor(), m.editor.Selection())

	if m.IsCommandMode() || !m.isFocused {
		frame.Cursor.Row = -1
	}
	rows := m.encoder.Frame(frame)

	m.viewport.SetContent(strings.Join(rows, "\n"))
	m.viewport.YOffset = 0
}
