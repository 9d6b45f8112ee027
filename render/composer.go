package render

import (
	"fmt"
	"strings"

	"github.com/ionut-t/tedit/core"
	"github.com/ionut-t/tedit/highlighter"
	"github.com/ionut-t/tedit/layout"
	"github.com/ionut-t/tedit/viewport"
)

// FillerText marks screen rows past the end of the buffer.
const FillerText = "~"

// lineSource answers the viewport's height questions from the layout cache.
type lineSource struct {
	buffer  highlighter.Lines
	layouts *layout.Cache
}

func (s lineSource) LineCount() int { return s.buffer.LineCount() }

func (s lineSource) layout(index int) layout.LineLayout {
	text, _ := s.buffer.Line(index)
	return s.layouts.Get(index, text)
}

func (s lineSource) Height(index int) int {
	return s.layout(index).Height()
}

func (s lineSource) Locate(index, col int) (int, int) {
	return s.layout(index).Locate(col)
}

// Composer merges layout rows with highlight tokens for the lines on screen.
type Composer struct {
	src        lineSource
	highlights *highlighter.Cache
	view       *viewport.Controller
}

// NewComposer creates a composer over the caches and viewport of a session.
func NewComposer(buffer highlighter.Lines, layouts *layout.Cache, highlights *highlighter.Cache, view *viewport.Controller) *Composer {
	return &Composer{
		src:        lineSource{buffer: buffer, layouts: layouts},
		highlights: highlights,
		view:       view,
	}
}

// Compose builds the frame for the current viewport offsets, drawing sel
// over the highlight colours.
func (c *Composer) Compose(cursor core.Position, sel core.Selection) Frame {
	n := c.src.LineCount()
	rows := c.view.Rows()
	gutter := c.view.GutterWidth(n)
	width := c.view.TextWidth(n)
	left := c.view.Left()
	theme := c.highlights.Engine().Theme()

	frame := Frame{
		Rows:        make([]Row, 0, rows),
		GutterWidth: gutter,
	}

	// Lines that reach the screen. Their layouts are cached by the walk.
	start := c.view.Offset()
	end, used := start, 0
	for end < n && used < rows {
		used += c.src.Height(end)
		if c.cursorBelow(end, cursor) {
			used++
		}
		end++
	}
	tokens := c.highlights.Window(c.src.buffer, start, end)

	for i := start; i < end && len(frame.Rows) < rows; i++ {
		var lineTokens []highlighter.Token
		if i-start < len(tokens) {
			lineTokens = tokens[i-start]
		}
		styles := runeStyles(lineTokens)
		shade := shading{sel: sel, line: i, style: theme.Selection()}

		lines := c.src.layout(i).Lines
		for seg, vl := range lines {
			if len(frame.Rows) == rows {
				break
			}
			rowRuns := runs(vl, styles, left, width, shade)
			if seg == len(lines)-1 && shade.lineBreak(vl.EndCol) && vl.Width >= left && vl.Width < left+width {
				rowRuns = append(rowRuns, Run{Style: shade.style, Text: " ", Width: 1})
			}
			frame.Rows = append(frame.Rows, Row{
				Line:    i,
				Segment: seg,
				Gutter:  gutterRun(theme, gutter, i, seg, i == cursor.Row),
				Runs:    rowRuns,
			})
		}

		// The cursor after a row that fills the width gets a row of its own.
		if c.cursorBelow(i, cursor) && len(frame.Rows) < rows {
			frame.Rows = append(frame.Rows, Row{
				Line:    i,
				Segment: len(lines),
				Gutter:  gutterRun(theme, gutter, i, len(lines), true),
			})
		}
	}

	for len(frame.Rows) < rows {
		frame.Rows = append(frame.Rows, Row{
			Line:   -1,
			Gutter: gutterRun(theme, gutter, -1, 0, false),
			Runs:   []Run{{Style: theme.Filler(), Text: FillerText, Width: 1}},
		})
	}

	row, x := c.view.CursorScreen(c.src, cursor)
	frame.Cursor = ScreenPos{Row: row, Col: gutter + min(max(x-left, 0), width-1)}
	return frame
}

// cursorBelow reports whether the cursor sits on the row below line i.
func (c *Composer) cursorBelow(i int, cursor core.Position) bool {
	if i != cursor.Row {
		return false
	}
	l := c.src.layout(i)
	row, _ := l.Locate(cursor.Col)
	return row == l.Height()
}

// shading is the selection overlay of one line.
type shading struct {
	sel   core.Selection
	line  int
	style highlighter.Style
}

func (s shading) apply(col int, style highlighter.Style) highlighter.Style {
	if s.sel.Contains(s.line, col) {
		style.Bg = s.style.Bg
	}
	return style
}

// lineBreak reports whether the break after the line, at rune column end,
// is selected.
func (s shading) lineBreak(end int) bool {
	return s.sel.Contains(s.line, end)
}

// runeStyles returns the style of each rune of a line.
func runeStyles(tokens []highlighter.Token) []highlighter.Style {
	var styles []highlighter.Style
	for _, t := range tokens {
		for range t.Text {
			styles = append(styles, t.Style)
		}
	}
	return styles
}

// runs converts the columns [left, left+width) of one visual line into
// styled runs, merging neighbours of equal style. A wide glyph cut by
// either edge shows as blanks.
func runs(vl layout.VisualLine, styles []highlighter.Style, left, width int, shade shading) []Run {
	var out []Run
	add := func(style highlighter.Style, text string, w int) {
		if last := len(out) - 1; last >= 0 && out[last].Style == style {
			out[last].Text += text
			out[last].Width += w
			return
		}
		out = append(out, Run{Style: style, Text: text, Width: w})
	}

	right := left + width
	x := 0
	for _, g := range vl.Glyphs {
		if g.Text == "" {
			continue
		}
		gx := x
		x += g.Width
		if x <= left {
			continue
		}
		if gx >= right {
			break
		}

		var style highlighter.Style
		if g.Col < len(styles) {
			style = styles[g.Col]
		}
		style = shade.apply(g.Col, style)

		if gx < left || x > right {
			blank := min(x, right) - max(gx, left)
			add(style, strings.Repeat(" ", blank), blank)
			continue
		}
		add(style, g.Text, g.Width)
	}
	return out
}

// gutterRun renders the line number of the first row of a line, right
// aligned, followed by a space.
func gutterRun(theme *highlighter.Theme, width, line, segment int, current bool) Run {
	if width == 0 {
		return Run{}
	}
	style := theme.Gutter()
	if current {
		style.Bold = true
	}
	label := ""
	if line >= 0 && segment == 0 {
		label = fmt.Sprint(line + 1)
	}
	if len(label) > width-1 {
		label = label[len(label)-(width-1):]
	}
	text := strings.Repeat(" ", width-1-len(label)) + label + " "
	return Run{Style: style, Text: text, Width: width}
}
