package adapter

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ionut-t/tedit/core"
	"github.com/ionut-t/tedit/highlighter"
	"github.com/ionut-t/tedit/render"
)

func newTestModel(t *testing.T, content string) Model {
	t.Helper()
	m := New(40, 8, render.Options{Language: "go", Mode: highlighter.ModeFullFile}, colorprofile.TrueColor)
	m.SetContent(content)
	m.Focus()
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model
}

func TestConvertBubbleKey(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want core.KeyEvent
	}{
		{"rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}, core.KeyEvent{Rune: 'x'}},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, core.KeyEvent{Key: core.KeyEnter}},
		{"tab", tea.KeyMsg{Type: tea.KeyTab}, core.KeyEvent{Key: core.KeyTab, Rune: '\t'}},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.KeyEvent{Key: core.KeySpace, Rune: ' '}},
		{"page down", tea.KeyMsg{Type: tea.KeyPgDown}, core.KeyEvent{Key: core.KeyPageDown}},
		{"ctrl+g", tea.KeyMsg{Type: tea.KeyCtrlG}, core.Ctrl('g')},
		{"ctrl+a", tea.KeyMsg{Type: tea.KeyCtrlA}, core.Ctrl('a')},
		{"ctrl+z", tea.KeyMsg{Type: tea.KeyCtrlZ}, core.Ctrl('z')},
		{"ctrl+_", tea.KeyMsg{Type: tea.KeyCtrlUnderscore}, core.Ctrl('_')},
		{"ctrl+h is backspace", tea.KeyMsg{Type: tea.KeyCtrlH}, core.KeyEvent{Key: core.KeyBackspace}},
		{"ctrl+end", tea.KeyMsg{Type: tea.KeyCtrlEnd}, core.KeyEvent{Key: core.KeyEnd, Modifiers: core.ModCtrl}},
		{"alt+h", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}, Alt: true}, core.Alt('h')},
		{"shift+right", tea.KeyMsg{Type: tea.KeyShiftRight}, core.KeyEvent{Key: core.KeyRight, Modifiers: core.ModShift}},
		{"shift+tab", tea.KeyMsg{Type: tea.KeyShiftTab}, core.KeyEvent{Key: core.KeyTab, Modifiers: core.ModShift}},
		{"ctrl+shift+left", tea.KeyMsg{Type: tea.KeyCtrlShiftLeft}, core.KeyEvent{Key: core.KeyLeft, Modifiers: core.ModCtrl | core.ModShift}},
		{"alt+shift+up", tea.KeyMsg{Type: tea.KeyShiftUp, Alt: true}, core.KeyEvent{Key: core.KeyUp, Modifiers: core.ModShift | core.ModAlt}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, convertBubbleKey(tt.msg))
		})
	}
}

func TestTypingRendersText(t *testing.T) {
	m := newTestModel(t, "package main\n")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})

	assert.Equal(t, "xpackage main\n", m.GetCurrentContent())
	assert.True(t, m.HasChanges())
	lines := strings.Split(ansi.Strip(m.View()), "\n")
	assert.Equal(t, "xpackage main", strings.TrimRight(lines[0], " "))
}

func TestBlurredModelIgnoresKeys(t *testing.T) {
	m := newTestModel(t, "abc")
	m.Blur()

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})

	assert.Equal(t, "abc", m.GetCurrentContent())
}

func TestViewLayout(t *testing.T) {
	m := newTestModel(t, "a\nb")
	m.SetFileName("main.go")

	lines := strings.Split(ansi.Strip(m.View()), "\n")

	require.Len(t, lines, 8)
	assert.Equal(t, "~", strings.TrimRight(lines[2], " "))
	assert.Contains(t, lines[6], "INSERT")
	assert.Contains(t, lines[6], "main.go")
	assert.Contains(t, lines[6], "Go  full  1/1")
}

func TestWindowResize(t *testing.T) {
	m := newTestModel(t, strings.Repeat("x", 30))

	m = update(t, m, tea.WindowSizeMsg{Width: 10, Height: 6})

	lines := strings.Split(ansi.Strip(m.View()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, strings.Repeat("x", 10), strings.TrimRight(lines[0], " "))
	assert.Equal(t, strings.Repeat("x", 10), strings.TrimRight(lines[2], " "))
	for _, line := range lines {
		assert.LessOrEqual(t, ansi.StringWidth(line), 10)
	}
	assert.Equal(t, "~", strings.TrimRight(lines[3], " "))
}

func TestGoToPrompt(t *testing.T) {
	m := newTestModel(t, "a\nb\nc")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlG})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})

	assert.True(t, m.IsCommandMode())
	lines := strings.Split(ansi.Strip(m.View()), "\n")
	assert.Contains(t, lines[len(lines)-1], core.GoToLinePrompt+"3")
	assert.Contains(t, lines[len(lines)-2], "GOTO")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.IsCommandMode())
	assert.Equal(t, 2, m.GetEditor().Cursor().Row)
}

func TestBoundaryErrorsAreSilent(t *testing.T) {
	m := newTestModel(t, "abc")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyBackspace})

	assert.Nil(t, m.err)
}

func TestEditorErrorsAreShown(t *testing.T) {
	m := newTestModel(t, "a\nb")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlG})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'9'}})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.Error(t, m.err)
	assert.ErrorIs(t, m.err, core.ErrInvalidLine)
	assert.Contains(t, ansi.Strip(m.View()), "invalid line number")
}

func TestMessagesAndClear(t *testing.T) {
	m := newTestModel(t, "a")

	m = update(t, m, messageMsg("line copied"))
	assert.Contains(t, ansi.Strip(m.View()), "line copied")

	m = update(t, m, clearMsg{})
	assert.NotContains(t, ansi.Strip(m.View()), "line copied")
}

func TestSignalToMsg(t *testing.T) {
	m := newTestModel(t, "a")
	ed := m.GetEditor()

	require.NoError(t, ed.HandleKey(core.KeyEvent{Rune: 'x'}))
	ed.Save()
	assert.Equal(t, SaveMsg{Content: "xa"}, signalToMsg(<-ed.GetUpdateSignalChan()))

	ed.Quit()
	assert.Equal(t, QuitMsg{}, signalToMsg(<-ed.GetUpdateSignalChan()))

	ed.DispatchError(core.ErrCopyFailedId, errors.New("boom"))
	msg := signalToMsg(<-ed.GetUpdateSignalChan())
	require.IsType(t, ErrorMsg{}, msg)
	assert.Equal(t, core.ErrCopyFailedId, msg.(ErrorMsg).ID)

	assert.Equal(t, signalMsg{}, signalToMsg("unknown"))
}

func TestQuitMsgQuits(t *testing.T) {
	m := newTestModel(t, "a")

	_, cmd := m.Update(QuitMsg{})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestToggleHighlightFromKeys(t *testing.T) {
	m := newTestModel(t, "package main")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}, Alt: true})

	assert.Equal(t, highlighter.ModeWindowed, m.Session().HighlightMode())
	assert.Contains(t, ansi.Strip(m.View()), "windowed")
}

func TestShiftArrowsShadeSelection(t *testing.T) {
	m := newTestModel(t, "package main\n")
	bg := m.Session().Theme().Selection().Bg
	shade := fmt.Sprintf("48;2;%d;%d;%d", bg.R, bg.G, bg.B)
	require.NotContains(t, m.View(), shade)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftRight})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftRight})

	assert.True(t, m.GetEditor().HasSelection())
	assert.Contains(t, m.View(), shade)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.NotContains(t, m.View(), shade)
}
