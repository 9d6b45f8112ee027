package render

import (
	"fmt"

	"github.com/ionut-t/tedit/core"
	"github.com/ionut-t/tedit/highlighter"
	"github.com/ionut-t/tedit/layout"
	"github.com/ionut-t/tedit/viewport"
)

// Options configures a Session. Zero values select the package defaults.
type Options struct {
	TabWidth    int
	Wrap        bool
	LineNumbers bool

	Theme    string
	Language string
	Mode     highlighter.Mode

	MaxLineLength      int
	HighlightCacheSize int
	WindowBuffer       int
	InvalidationRadius int
	LayoutCacheSize    int
}

// Session renders one buffer into one viewport. It owns the layout and
// highlight caches of the buffer, and every mutation of the buffer must be
// reported through OnEdit before the next Render.
type Session struct {
	buffer highlighter.Lines
	opts   Options

	layouts    *layout.Cache
	highlights *highlighter.Cache
	view       *viewport.Controller
	composer   *Composer
	src        lineSource
}

// NewSession creates a session for a screen of cols x rows cells.
func NewSession(buffer highlighter.Lines, cols, rows int, opts Options) *Session {
	if opts.TabWidth <= 0 {
		opts.TabWidth = layout.DefaultTabWidth
	}

	s := &Session{
		buffer:  buffer,
		opts:    opts,
		layouts: layout.NewCache(0, opts.TabWidth, opts.LayoutCacheSize),
		view:    viewport.New(cols, rows, opts.LineNumbers),
	}
	s.highlights = highlighter.NewCache(s.newEngine(), opts.Mode, highlighter.CacheOptions{
		MaxSize:            opts.HighlightCacheSize,
		WindowBuffer:       opts.WindowBuffer,
		InvalidationRadius: opts.InvalidationRadius,
	})
	s.src = lineSource{buffer: buffer, layouts: s.layouts}
	s.composer = NewComposer(buffer, s.layouts, s.highlights, s.view)
	s.syncGeometry()
	return s
}

func (s *Session) newEngine() *highlighter.Engine {
	e := highlighter.NewEngine(s.opts.Language, highlighter.NewTheme(s.opts.Theme))
	if s.opts.MaxLineLength != 0 {
		e.SetMaxLineLength(s.opts.MaxLineLength)
	}
	return e
}

// syncGeometry points the layout cache at the current text width, which
// depends on the screen width and on the gutter.
func (s *Session) syncGeometry() {
	width := 0
	if s.opts.Wrap {
		width = s.view.TextWidth(s.buffer.LineCount())
	}
	s.layouts.SetGeometry(width, s.opts.TabWidth)
}

// ScrollIfNeeded brings the cursor on screen. Without wrapping that may
// scroll sideways too.
func (s *Session) ScrollIfNeeded(cursor core.Position) {
	s.syncGeometry()
	s.view.ScrollIfNeeded(s.src, cursor)

	x := 0
	if !s.opts.Wrap && cursor.Row >= 0 && cursor.Row < s.buffer.LineCount() {
		_, x = s.src.Locate(cursor.Row, cursor.Col)
	}
	s.view.ScrollColumns(x, s.view.TextWidth(s.buffer.LineCount()))
}

// OnEdit invalidates what an edit of the given kind at line may have
// changed.
func (s *Session) OnEdit(line int, kind core.EditKind) {
	s.highlights.OnEdit(line, kind)
	if kind.LineLevel() {
		s.layouts.InvalidateFrom(line)
	} else {
		s.layouts.Invalidate(line)
	}
	s.view.Clamp(s.buffer.LineCount())
	s.syncGeometry()
}

// OnResize adapts to a new screen size. A new text width drops every layout.
func (s *Session) OnResize(cols, rows int) {
	s.view.Resize(cols, rows, s.buffer.LineCount())
	s.syncGeometry()
}

// ToggleHighlightMode switches to the next highlight mode and returns it.
func (s *Session) ToggleHighlightMode() highlighter.Mode {
	s.highlights.SetMode(s.highlights.Mode().Next())
	return s.highlights.Mode()
}

// HighlightMode returns the active highlight mode.
func (s *Session) HighlightMode() highlighter.Mode { return s.highlights.Mode() }

// SetHighlightMode selects a highlight mode.
func (s *Session) SetHighlightMode(m highlighter.Mode) { s.highlights.SetMode(m) }

// ToggleLineNumbers shows or hides the gutter and reports whether it is
// now shown.
func (s *Session) ToggleLineNumbers() bool {
	s.view.SetLineNumbers(!s.view.LineNumbers())
	s.syncGeometry()
	return s.view.LineNumbers()
}

// SetTheme switches to a chroma style, falling back to the default theme.
func (s *Session) SetTheme(name string) {
	s.opts.Theme = name
	s.highlights.SetEngine(s.newEngine())
}

// Theme returns the active theme.
func (s *Session) Theme() *highlighter.Theme { return s.highlights.Engine().Theme() }

// SetLanguage switches the lexer.
func (s *Session) SetLanguage(language string) {
	s.opts.Language = language
	s.highlights.SetEngine(s.newEngine())
}

// Language returns the name of the active lexer.
func (s *Session) Language() string { return s.highlights.Engine().Language() }

// CommentPrefix returns the line comment of the active language, or "".
func (s *Session) CommentPrefix() string { return s.highlights.Engine().Syntax().LineComment }

// PageUp scrolls up a screen and returns the new cursor line.
func (s *Session) PageUp(row int) int {
	s.syncGeometry()
	return s.view.PageUp(s.src, row)
}

// PageDown scrolls down a screen and returns the new cursor line.
func (s *Session) PageDown(row int) int {
	s.syncGeometry()
	return s.view.PageDown(s.src, row)
}

// FileStart shows the first page and returns the cursor line.
func (s *Session) FileStart() int { return s.view.FileStart() }

// FileEnd shows the last page and returns the cursor line.
func (s *Session) FileEnd() int {
	s.syncGeometry()
	return s.view.FileEnd(s.src)
}

// GoTo shows row near the top of the screen and returns it clamped.
func (s *Session) GoTo(row int) int {
	s.syncGeometry()
	return s.view.GoTo(s.src, row)
}

// Offset returns the first visible line.
func (s *Session) Offset() int { return s.view.Offset() }

// Left returns the first visible display column.
func (s *Session) Left() int { return s.view.Left() }

// Render composes the frame for the cursor.
func (s *Session) Render(cursor core.Position) Frame {
	return s.RenderSelection(cursor, core.Selection{})
}

// RenderSelection composes the frame for the cursor with sel shaded.
func (s *Session) RenderSelection(cursor core.Position, sel core.Selection) Frame {
	s.syncGeometry()
	return s.composer.Compose(cursor, sel)
}

// Stats reports the activity of every cache.
type Stats struct {
	Layout    layout.CacheStats
	Highlight highlighter.CacheStats
	Scroll    viewport.Stats
}

// Stats returns a snapshot of the session's counters.
func (s *Session) Stats() Stats {
	return Stats{
		Layout:    s.layouts.Stats(),
		Highlight: s.highlights.Stats(),
		Scroll:    s.view.Stats(),
	}
}

// EditorView returns the session as the view an editor drives.
func (s *Session) EditorView() core.View {
	return editorView{s}
}

type editorView struct{ s *Session }

func (v editorView) ScrollIfNeeded(cursor core.Position) { v.s.ScrollIfNeeded(cursor) }
func (v editorView) OnEdit(ev core.EditEvent)            { v.s.OnEdit(ev.Line, ev.Kind) }
func (v editorView) PageUp(row int) int                  { return v.s.PageUp(row) }
func (v editorView) PageDown(row int) int                { return v.s.PageDown(row) }
func (v editorView) FileStart()                          { v.s.FileStart() }
func (v editorView) FileEnd()                            { v.s.FileEnd() }
func (v editorView) GoTo(row int)                        { v.s.GoTo(row) }
func (v editorView) ToggleLineNumbers() bool             { return v.s.ToggleLineNumbers() }

func (v editorView) ToggleHighlightMode() fmt.Stringer {
	return v.s.ToggleHighlightMode()
}
