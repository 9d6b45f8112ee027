// Package viewport decides which logical lines are on screen.
package viewport

import (
	"strconv"

	"github.com/ionut-t/tedit/core"
)

// Lines is what the controller needs to know about the buffer: how many
// lines it has and how many screen rows each one takes.
type Lines interface {
	LineCount() int
	// Height returns the number of visual rows of a line, at least 1.
	Height(index int) int
	// Locate maps a rune column of a line to its visual row and display x.
	Locate(index, col int) (row, x int)
}

// Stats counts height lookups. Every scroll decision is bounded by the
// screen height, never by the file length, and tests assert that with it.
type Stats struct {
	Lookups uint64
}

// Controller owns the scroll offsets of one viewport.
type Controller struct {
	offset      int // first visible logical line
	left        int // first visible display column, without wrapping
	rows        int
	cols        int
	lineNumbers bool

	lookups uint64
}

// New creates a controller for a screen of cols x rows cells.
func New(cols, rows int, lineNumbers bool) *Controller {
	return &Controller{
		rows:        max(rows, 1),
		cols:        max(cols, 1),
		lineNumbers: lineNumbers,
	}
}

// Offset returns the first visible logical line.
func (c *Controller) Offset() int { return c.offset }

// Left returns the first visible display column of every row.
func (c *Controller) Left() int { return c.left }

// ScrollColumns moves the column offset the least amount that shows
// display column x in a text area width columns wide. It reports whether
// the offset changed.
func (c *Controller) ScrollColumns(x, width int) bool {
	width = max(width, 1)
	left := c.left
	if x < left {
		left = max(x, 0)
	}
	if x >= left+width {
		left = x - width + 1
	}
	if left == c.left {
		return false
	}
	c.left = left
	return true
}

// Rows returns the screen height.
func (c *Controller) Rows() int { return c.rows }

// Cols returns the screen width.
func (c *Controller) Cols() int { return c.cols }

// LineNumbers reports whether the line-number gutter is shown.
func (c *Controller) LineNumbers() bool { return c.lineNumbers }

// SetLineNumbers shows or hides the gutter.
func (c *Controller) SetLineNumbers(show bool) { c.lineNumbers = show }

// GutterWidth returns the columns taken by line numbers, including the
// separating space.
func (c *Controller) GutterWidth(lineCount int) int {
	if !c.lineNumbers {
		return 0
	}
	digits := len(strconv.Itoa(max(1, lineCount)))
	return min(max(4, digits)+1, 10)
}

// TextWidth returns the columns left for text, at least 1.
func (c *Controller) TextWidth(lineCount int) int {
	return max(1, c.cols-c.GutterWidth(lineCount))
}

// Resize sets the screen size and keeps the offset inside the buffer.
func (c *Controller) Resize(cols, rows, lineCount int) {
	c.cols = max(cols, 1)
	c.rows = max(rows, 1)
	c.Clamp(lineCount)
}

// Clamp keeps the offset inside a buffer of lineCount lines.
func (c *Controller) Clamp(lineCount int) {
	c.offset = min(c.offset, max(0, lineCount-1))
	c.offset = max(c.offset, 0)
}

func (c *Controller) height(src Lines, index int) int {
	c.lookups++
	return max(1, src.Height(index))
}

// Stats returns the lookup counters.
func (c *Controller) Stats() Stats {
	return Stats{Lookups: c.lookups}
}

// ResetStats zeroes the lookup counters.
func (c *Controller) ResetStats() {
	c.lookups = 0
}

// ScrollIfNeeded moves the offset the least amount that brings the cursor
// on screen. It reports whether the offset changed.
func (c *Controller) ScrollIfNeeded(src Lines, cursor core.Position) bool {
	n := src.LineCount()
	if n == 0 {
		return c.set(0)
	}
	row := min(max(cursor.Row, 0), n-1)

	if row < c.offset {
		return c.set(row)
	}

	// Rows used by the lines between the offset and the cursor line. The
	// walk stops as soon as the cursor line cannot be on screen any more.
	used := 0
	for i := c.offset; i < row; i++ {
		used += c.height(src, i)
		if used >= c.rows {
			return c.set(c.bottomAlign(src, row, cursor.Col))
		}
	}

	visual, _ := src.Locate(row, cursor.Col)
	total := used + visual + 1
	if total <= c.rows {
		return false
	}

	// Scroll past leading lines, taking each one's height off the running
	// total, until the cursor row fits.
	offset := c.offset
	for total > c.rows && offset < row {
		total -= c.height(src, offset)
		offset++
	}
	return c.set(offset)
}

// bottomAlign returns the offset that puts the cursor on the last screen
// row, walking back from the cursor line for at most one screen.
func (c *Controller) bottomAlign(src Lines, row, col int) int {
	visual, _ := src.Locate(row, col)
	total := visual + 1
	offset := row
	for offset > 0 {
		h := c.height(src, offset-1)
		if total+h > c.rows {
			break
		}
		total += h
		offset--
	}
	return offset
}

func (c *Controller) set(offset int) bool {
	if offset == c.offset {
		return false
	}
	c.offset = offset
	return true
}

// LastPageOffset returns the offset that shows the end of the buffer on the
// last screen row. With one-row lines it is max(0, lineCount-rows).
func (c *Controller) LastPageOffset(src Lines) int {
	n := src.LineCount()
	if n == 0 {
		return 0
	}
	offset := n - 1
	total := c.height(src, offset)
	for offset > 0 {
		h := c.height(src, offset-1)
		if total+h > c.rows {
			break
		}
		total += h
		offset--
	}
	return offset
}

// nextPage returns the first line below the current screen.
func (c *Controller) nextPage(src Lines) int {
	n := src.LineCount()
	used := 0
	i := c.offset
	for i < n {
		used += c.height(src, i)
		if used > c.rows {
			break
		}
		i++
	}
	return max(i, c.offset+1)
}

// prevPage returns the offset one screen above the current one.
func (c *Controller) prevPage(src Lines) int {
	used := 0
	i := c.offset
	for i > 0 {
		used += c.height(src, i-1)
		if used > c.rows {
			break
		}
		i--
	}
	return min(i, max(c.offset-1, 0))
}

// PageDown scrolls one screen down and returns the new cursor line, which
// keeps its distance from the top of the screen. Paging past the last page
// shows the last page and puts the cursor on the last line.
func (c *Controller) PageDown(src Lines, cursorRow int) int {
	n := src.LineCount()
	if n == 0 {
		return 0
	}
	last := c.LastPageOffset(src)
	if c.offset >= last {
		c.offset = last
		return n - 1
	}

	rel := max(cursorRow-c.offset, 0)
	c.offset = min(c.nextPage(src), last)
	return min(c.offset+rel, n-1)
}

// PageUp scrolls one screen up and returns the new cursor line. Paging
// before the first page puts the cursor on the first line.
func (c *Controller) PageUp(src Lines, cursorRow int) int {
	n := src.LineCount()
	if n == 0 || c.offset == 0 {
		c.offset = 0
		return 0
	}

	rel := max(cursorRow-c.offset, 0)
	c.offset = c.prevPage(src)
	return min(c.offset+rel, n-1)
}

// FileStart shows the first page and returns the cursor line.
func (c *Controller) FileStart() int {
	c.offset = 0
	return 0
}

// FileEnd shows the last page and returns the cursor line.
func (c *Controller) FileEnd(src Lines) int {
	c.offset = c.LastPageOffset(src)
	return max(src.LineCount()-1, 0)
}

// GoTo puts row at the top of the screen, or shows the last page when row
// is on it, and returns the clamped row.
func (c *Controller) GoTo(src Lines, row int) int {
	n := src.LineCount()
	if n == 0 {
		c.offset = 0
		return 0
	}
	row = min(max(row, 0), n-1)
	c.offset = min(row, c.LastPageOffset(src))
	return row
}

// CursorScreen returns the screen cell of the cursor, relative to the text
// area. Rows past the bottom of the screen are clamped to the last row.
func (c *Controller) CursorScreen(src Lines, cursor core.Position) (row, col int) {
	used := 0
	for i := c.offset; i < cursor.Row && used < c.rows; i++ {
		used += c.height(src, i)
	}
	visual, x := src.Locate(cursor.Row, cursor.Col)
	return min(used+visual, c.rows-1), x
}
