package main

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	editor "github.com/ionut-t/tedit/adapter-bubbletea"
	"github.com/ionut-t/tedit/config"
	"github.com/ionut-t/tedit/core"
	"github.com/ionut-t/tedit/highlighter"
	"github.com/ionut-t/tedit/render"
)

const messageDuration = 3 * time.Second

type Model struct {
	editor editor.Model
	file   string
}

func (m Model) Init() tea.Cmd {
	return m.editor.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.editor.SetSize(msg.Width-2, msg.Height-2)
		return m, nil

	case editor.SaveMsg:
		var cmds []tea.Cmd
		editorModel, cmd := m.editor.Update(msg)
		m.editor = editorModel.(editor.Model)
		cmds = append(cmds, cmd)

		if m.file == "" {
			return m, tea.Batch(append(cmds, m.editor.DispatchError(fmt.Errorf("no file name"), messageDuration))...)
		}
		if err := os.WriteFile(m.file, []byte(msg.Content), 0644); err != nil {
			return m, tea.Batch(append(cmds, m.editor.DispatchError(err, messageDuration))...)
		}
		return m, tea.Batch(append(cmds, m.editor.DispatchMessage(fmt.Sprintf("file saved to %s", m.file), messageDuration))...)

	case editor.QuitMsg:
		return m, tea.Quit
	}

	editorModel, cmd := m.editor.Update(msg)
	m.editor = editorModel.(editor.Model)

	return m, cmd
}

func (m Model) View() string {
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.editor.View())
}

// dump writes the first screen of the file to stdout, for pipes and
// redirects.
func dump(content []byte, opts render.Options, profile colorprofile.Profile) {
	buf := core.NewBufferFromBytes(content)
	session := render.NewSession(buf, 80, 24, opts)
	frame := session.Render(core.Position{})
	frame.Cursor.Row = -1

	for _, row := range render.NewEncoder(profile).Frame(frame) {
		fmt.Println(row)
	}
}

func main() {
	cfgPath := config.DefaultPath(os.Getenv)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		log.Printf("Ignoring environment: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Error in %s: %v", cfgPath, err)
	}

	if cfg.Debug {
		f, err := tea.LogToFile("debug.log", "tedit")
		if err != nil {
			log.Fatalf("Error opening debug log: %v", err)
		}
		defer f.Close()
		highlighter.SetDebug(true)
	}

	var (
		file    string
		content []byte
	)
	if len(os.Args) > 1 {
		file = os.Args[1]
		content, err = os.ReadFile(file)
		if err != nil && !os.IsNotExist(err) {
			log.Fatalf("Error reading %s: %v", file, err)
		}
	}

	language := highlighter.Detect(file, content)
	opts := cfg.RenderOptions(language, bytes.Count(content, []byte("\n"))+1)
	profile := cfg.ColorProfile(os.Stdout, os.Environ())

	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		dump(content, opts, profile)
		return
	}

	width, height, err := term.GetSize(fd)
	if err != nil {
		width, height = 80, 24
	}

	textEditor := editor.New(width-2, height-2, opts, profile)
	textEditor.SetBytes(content)
	textEditor.SetFileName(file)
	textEditor.Focus()

	m := Model{
		editor: textEditor,
		file:   file,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running Bubble Tea program: %v", err)
	}
}
