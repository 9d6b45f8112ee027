// Package render turns the visible part of a buffer into styled screen rows.
package render

import (
	"strings"

	"github.com/ionut-t/tedit/highlighter"
)

// Run is a stretch of a screen row drawn in one style.
type Run struct {
	Style highlighter.Style
	Text  string
	Width int // display columns
}

// Row is one screen row.
type Row struct {
	Line    int // logical line, -1 for filler rows past the end of the buffer
	Segment int // visual row within the logical line
	Gutter  Run // line number and separator, empty when numbers are hidden
	Runs    []Run
}

// Width returns the display width of the row's text, gutter excluded.
func (r Row) Width() int {
	w := 0
	for _, run := range r.Runs {
		w += run.Width
	}
	return w
}

// Text returns the row's text without styles, gutter excluded.
func (r Row) Text() string {
	if len(r.Runs) == 1 {
		return r.Runs[0].Text
	}
	var b strings.Builder
	for _, run := range r.Runs {
		b.WriteString(run.Text)
	}
	return b.String()
}

// ScreenPos is a cell on screen, counted from the top-left of the frame.
type ScreenPos struct {
	Row int
	Col int
}

// Frame is everything needed to draw one screen.
type Frame struct {
	Rows        []Row
	Cursor      ScreenPos // Col includes the gutter
	GutterWidth int
}
