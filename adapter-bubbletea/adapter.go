package adapter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/rivo/uniseg"

	"github.com/ionut-t/tedit/core"
)

const messageDuration = 3 * time.Second

func (m Model) Init() tea.Cmd {
	return m.listenForEditorUpdate()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.IsFocused() {
			break
		}

		if err := m.editor.HandleKey(convertBubbleKey(msg)); err != nil {
			var editorErr *core.Error
			if errors.As(err, &editorErr) && isBoundary(editorErr.Id()) {
				break
			}
			cmds = append(cmds, m.DispatchError(err, messageDuration))
		}

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)

	case messageMsg:
		cmds = append(cmds, m.DispatchMessage(string(msg), messageDuration), m.listenForEditorUpdate())

	case ErrorMsg:
		cmds = append(cmds, m.DispatchError(msg.Error, messageDuration), m.listenForEditorUpdate())

	case SaveMsg:
		cmds = append(cmds, m.listenForEditorUpdate())

	case signalMsg:
		cmds = append(cmds, m.listenForEditorUpdate())

	case clearMsg:
		m.message = ""
		m.err = nil
		m.clearMsgCancel = nil

	case QuitMsg:
		return m, tea.Quit
	}

	m.updateViewport()

	return m, tea.Batch(cmds...)
}

// isBoundary reports errors that only mean the cursor hit the edge of the
// buffer, which are not worth a message.
func isBoundary(id core.ErrorId) bool {
	return id == core.ErrStartOfBufferId || id == core.ErrEndOfBufferId
}

func (m Model) View() string {
	content := m.viewport.View()

	commandLine := m.commandLine()
	paddingWidth := m.width - lipgloss.Width(commandLine)
	if paddingWidth > 0 {
		commandLine += m.theme.CommandLineStyle.Render(strings.Repeat(" ", paddingWidth))
	}

	if !m.showStatusLine {
		return lipgloss.JoinVertical(lipgloss.Left, content, commandLine)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		content,
		m.getStatusLine(),
		commandLine,
	)
}

// commandLine shows the go-to-line prompt, else the latest error or
// message, cut to the screen width.
func (m *Model) commandLine() string {
	if prompt := m.editor.Prompt(); prompt != "" {
		return m.theme.CommandLineStyle.Render(ansi.Truncate(prompt, max(m.width-1, 0), "")) +
			m.theme.PromptCursor.Render(" ")
	}

	background := m.theme.CommandLineStyle.GetBackground()
	if m.err != nil {
		return m.theme.ErrorStyle.Background(background).Render(ansi.Truncate(m.err.Error(), m.width, "…"))
	}
	if m.message != "" {
		return m.theme.MessageStyle.Background(background).Render(ansi.Truncate(m.message, m.width, "…"))
	}
	return ""
}

func (m *Model) getStatusLine() string {
	if m.StatusLineFunc != nil {
		return m.StatusLineFunc()
	}

	var mode string
	switch m.editor.Mode() {
	case core.CommandMode:
		mode = m.theme.CommandModeStyle.Render(" GOTO ")
	default:
		mode = m.theme.InsertModeStyle.Render(" INSERT ")
	}

	name := m.fileName
	if name == "" {
		name = "[No Name]"
	}
	if m.HasChanges() {
		name += " [+]"
	}

	cursor := m.editor.Cursor()
	info := fmt.Sprintf("%s  %s  %d/%d ",
		m.session.Language(), m.session.HighlightMode(), cursor.Row+1, cursor.Col+1)

	// The name gives way when the screen is too narrow for everything.
	room := m.width - lipgloss.Width(mode) - uniseg.StringWidth(info) - 2
	if uniseg.StringWidth(name) > room {
		name = ansi.Truncate(name, max(room, 0), "…")
	}
	left := " " + name
	gap := max(0, m.width-lipgloss.Width(mode)-uniseg.StringWidth(left)-uniseg.StringWidth(info))

	return ansi.Truncate(mode+m.theme.StatusLineStyle.Render(left+strings.Repeat(" ", gap)+info), m.width, "")
}

func (m *Model) listenForEditorUpdate() tea.Cmd {
	signals := m.editor.GetUpdateSignalChan()
	return func() tea.Msg {
		return signalToMsg(<-signals)
	}
}

func signalToMsg(signal core.Signal) tea.Msg {
	switch signal := signal.(type) {
	case core.MessageSignal:
		_, message := signal.Value()
		return messageMsg(message)

	case core.ErrorSignal:
		id, err := signal.Value()
		return ErrorMsg{ID: id, Error: err}

	case core.SaveSignal:
		return SaveMsg{Content: signal.Value()}

	case core.QuitSignal:
		return QuitMsg{}
	}

	return signalMsg{}
}

// modifiedKeys maps the key types Bubble Tea folds modifiers into.
var modifiedKeys = map[tea.KeyType]core.KeyEvent{
	tea.KeyShiftTab:   {Key: core.KeyTab, Modifiers: core.ModShift},
	tea.KeyShiftUp:    {Key: core.KeyUp, Modifiers: core.ModShift},
	tea.KeyShiftDown:  {Key: core.KeyDown, Modifiers: core.ModShift},
	tea.KeyShiftLeft:  {Key: core.KeyLeft, Modifiers: core.ModShift},
	tea.KeyShiftRight: {Key: core.KeyRight, Modifiers: core.ModShift},
	tea.KeyShiftHome:  {Key: core.KeyHome, Modifiers: core.ModShift},
	tea.KeyShiftEnd:   {Key: core.KeyEnd, Modifiers: core.ModShift},

	tea.KeyCtrlHome:  {Key: core.KeyHome, Modifiers: core.ModCtrl},
	tea.KeyCtrlEnd:   {Key: core.KeyEnd, Modifiers: core.ModCtrl},
	tea.KeyCtrlUp:    {Key: core.KeyUp, Modifiers: core.ModCtrl},
	tea.KeyCtrlDown:  {Key: core.KeyDown, Modifiers: core.ModCtrl},
	tea.KeyCtrlLeft:  {Key: core.KeyLeft, Modifiers: core.ModCtrl},
	tea.KeyCtrlRight: {Key: core.KeyRight, Modifiers: core.ModCtrl},

	tea.KeyCtrlShiftHome:  {Key: core.KeyHome, Modifiers: core.ModCtrl | core.ModShift},
	tea.KeyCtrlShiftEnd:   {Key: core.KeyEnd, Modifiers: core.ModCtrl | core.ModShift},
	tea.KeyCtrlShiftUp:    {Key: core.KeyUp, Modifiers: core.ModCtrl | core.ModShift},
	tea.KeyCtrlShiftDown:  {Key: core.KeyDown, Modifiers: core.ModCtrl | core.ModShift},
	tea.KeyCtrlShiftLeft:  {Key: core.KeyLeft, Modifiers: core.ModCtrl | core.ModShift},
	tea.KeyCtrlShiftRight: {Key: core.KeyRight, Modifiers: core.ModCtrl | core.ModShift},
}

// convertBubbleKey converts a Bubble Tea key to an editor key event.
func convertBubbleKey(msg tea.KeyMsg) core.KeyEvent {
	key := core.KeyEvent{}

	if len(msg.Runes) > 0 {
		key.Rune = msg.Runes[0]
	}

	if msg.Alt {
		key.Modifiers |= core.ModAlt
	}

	if ev, ok := modifiedKeys[msg.Type]; ok {
		ev.Modifiers |= key.Modifiers
		return ev
	}

	switch msg.Type {
	case tea.KeyEnter:
		key.Key = core.KeyEnter
	case tea.KeySpace:
		key.Key = core.KeySpace
		key.Rune = ' '
	case tea.KeyEsc:
		key.Key = core.KeyEscape
	case tea.KeyBackspace, tea.KeyCtrlH:
		key.Key = core.KeyBackspace
	case tea.KeyTab:
		key.Key = core.KeyTab
		key.Rune = '\t'
	case tea.KeyUp:
		key.Key = core.KeyUp
	case tea.KeyDown:
		key.Key = core.KeyDown
	case tea.KeyLeft:
		key.Key = core.KeyLeft
	case tea.KeyRight:
		key.Key = core.KeyRight
	case tea.KeyHome:
		key.Key = core.KeyHome
	case tea.KeyEnd:
		key.Key = core.KeyEnd
	case tea.KeyDelete:
		key.Key = core.KeyDelete
	case tea.KeyPgUp:
		key.Key = core.KeyPageUp
	case tea.KeyPgDown:
		key.Key = core.KeyPageDown
	case tea.KeyCtrlUnderscore:
		key.Rune = '_'
		key.Modifiers |= core.ModCtrl

	default:
		if msg.Type >= tea.KeyCtrlA && msg.Type <= tea.KeyCtrlZ {
			key.Rune = 'a' + rune(msg.Type-tea.KeyCtrlA)
			key.Modifiers |= core.ModCtrl
		}
	}

	return key
}
