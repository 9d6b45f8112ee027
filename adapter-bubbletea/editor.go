// Package adapter runs an editor inside a Bubble Tea program.
package adapter

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"

	"github.com/ionut-t/tedit/core"
	"github.com/ionut-t/tedit/highlighter"
	"github.com/ionut-t/tedit/render"
)

// Theme styles the chrome around the text. Text colours come from the
// highlight theme.
type Theme struct {
	InsertModeStyle  lipgloss.Style
	CommandModeStyle lipgloss.Style
	StatusLineStyle  lipgloss.Style
	CommandLineStyle lipgloss.Style
	MessageStyle     lipgloss.Style
	ErrorStyle       lipgloss.Style
	PromptCursor     lipgloss.Style
}

var DefaultTheme = Theme{
	InsertModeStyle:  lipgloss.NewStyle().Background(lipgloss.Color("26")).Foreground(lipgloss.Color("255")),
	CommandModeStyle: lipgloss.NewStyle().Background(lipgloss.Color("208")).Foreground(lipgloss.Color("255")),
	StatusLineStyle:  lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("255")),
	CommandLineStyle: lipgloss.NewStyle().Background(lipgloss.Color("235")).Foreground(lipgloss.Color("255")),
	MessageStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	ErrorStyle:       lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	PromptCursor:     lipgloss.NewStyle().Reverse(true),
}

// chromeHeight is the status line plus the command line.
const chromeHeight = 2

type Model struct {
	editor   *core.Editor
	session  *render.Session
	encoder  *render.Encoder
	viewport viewport.Model
	opts     render.Options

	width          int
	height         int
	showStatusLine bool
	theme          Theme
	StatusLineFunc func() string
	fileName       string
	isFocused      bool

	err            error
	message        string
	clearMsgCancel context.CancelFunc
}

// SaveMsg carries the buffer content after a save command.
type SaveMsg struct {
	Content string
}

type QuitMsg struct{}

// ErrorMsg reports an error raised by the editor.
type ErrorMsg struct {
	ID    core.ErrorId
	Error error
}

type messageMsg string

type clearMsg struct{}

// signalMsg re-arms the signal listener after a signal the model ignores.
type signalMsg struct{}

func (m *Model) dispatchClearMsg(duration time.Duration) tea.Cmd {
	if m.clearMsgCancel != nil {
		m.clearMsgCancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), duration)
	m.clearMsgCancel = cancel

	return func() tea.Msg {
		defer cancel()
		<-ctx.Done()
		if ctx.Err() == context.DeadlineExceeded {
			return clearMsg{}
		}
		return nil
	}
}

type atottoClipboard struct{}

func (c *atottoClipboard) Write(text string) error {
	return clipboard.WriteAll(text)
}

func (c *atottoClipboard) Read() (string, error) {
	return clipboard.ReadAll()
}

// New creates an editor of width x height cells, status and command lines
// included, over an empty buffer. Text colours are written as profile
// allows.
func New(width, height int, opts render.Options, profile colorprofile.Profile) Model {
	m := Model{
		editor:         core.New(&atottoClipboard{}),
		encoder:        render.NewEncoder(profile),
		viewport:       viewport.New(width, max(height-chromeHeight, 1)),
		opts:           opts,
		width:          width,
		height:         height,
		showStatusLine: true,
		theme:          DefaultTheme,
	}
	m.viewport.MouseWheelEnabled = false
	m.attach(m.editor.GetBuffer())

	return m
}

// attach puts a buffer in the editor with a fresh session over it.
func (m *Model) attach(buf core.Buffer) {
	m.editor.SetBuffer(buf)
	m.session = render.NewSession(buf, m.viewport.Width, m.viewport.Height, m.opts)
	m.editor.SetView(m.session.EditorView())
	m.editor.SetCommentPrefix(m.session.CommentPrefix())
	m.updateViewport()
}

func (m *Model) textHeight() int {
	if !m.showStatusLine {
		return max(m.height-1, 1)
	}
	return max(m.height-chromeHeight, 1)
}

// SetSize resizes the editor, status and command lines included.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = m.textHeight()

	m.session.OnResize(m.viewport.Width, m.viewport.Height)
	m.editor.SetCursor(m.editor.Cursor())
	m.updateViewport()
}

// SetBytes replaces the content of the editor.
func (m *Model) SetBytes(content []byte) {
	m.attach(core.NewBufferFromBytes(content))
}

// SetContent replaces the content of the editor from a string.
func (m *Model) SetContent(content string) {
	m.SetBytes([]byte(content))
}

// SetFileName sets the name shown in the status line.
func (m *Model) SetFileName(name string) {
	m.fileName = name
}

// WithTheme sets the styles of the status and command lines.
func (m *Model) WithTheme(theme Theme) {
	m.theme = theme
}

// SetLanguage switches the lexer and the comment prefix.
func (m *Model) SetLanguage(language string) {
	m.opts.Language = language
	m.session.SetLanguage(language)
	m.editor.SetCommentPrefix(m.session.CommentPrefix())
	m.updateViewport()
}

// SetHighlightTheme switches the chroma style used for text.
func (m *Model) SetHighlightTheme(name string) {
	m.opts.Theme = name
	m.session.SetTheme(name)
	m.updateViewport()
}

// SetHighlightMode selects a highlight mode.
func (m *Model) SetHighlightMode(mode highlighter.Mode) {
	m.opts.Mode = mode
	m.session.SetHighlightMode(mode)
	m.updateViewport()
}

// HideStatusLine controls whether the status line is drawn.
func (m *Model) HideStatusLine(hide bool) {
	m.showStatusLine = !hide
	m.SetSize(m.width, m.height)
}

// DispatchMessage shows a message in the command line for a while.
func (m *Model) DispatchMessage(message string, duration time.Duration) tea.Cmd {
	m.message = message
	m.err = nil

	return m.dispatchClearMsg(duration)
}

// DispatchError shows an error in the command line for a while.
func (m *Model) DispatchError(err error, duration time.Duration) tea.Cmd {
	m.err = err
	m.message = ""

	return m.dispatchClearMsg(duration)
}

// GetSavedContent returns the content as of the last save.
func (m *Model) GetSavedContent() string {
	return m.editor.GetBuffer().GetSavedContent()
}

// GetCurrentContent returns the current content of the buffer.
func (m *Model) GetCurrentContent() string {
	return m.editor.GetBuffer().GetCurrentContent()
}

// HasChanges reports unsaved changes.
func (m *Model) HasChanges() bool {
	return m.editor.GetBuffer().IsModified()
}

// GetEditor returns the underlying editor.
func (m *Model) GetEditor() *core.Editor {
	return m.editor
}

// Session returns the render session of the current buffer.
func (m *Model) Session() *render.Session {
	return m.session
}

func (m *Model) Focus() {
	m.isFocused = true
}

func (m *Model) Blur() {
	m.isFocused = false
}

func (m *Model) IsFocused() bool {
	return m.isFocused
}

// IsCommandMode reports whether the go-to-line prompt is open.
func (m *Model) IsCommandMode() bool {
	return m.editor.Mode() == core.CommandMode
}

// SetCursorPosition moves the cursor and scrolls to it.
func (m *Model) SetCursorPosition(row, col int) {
	m.editor.SetCursor(core.Position{Row: row, Col: col})
	m.updateViewport()
}
