package layout

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// DefaultTabWidth is used when a non-positive tab width is requested.
const DefaultTabWidth = 4

var widths = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false // ambiguous runes are narrow
	return c
}()

// RuneWidth returns the number of terminal columns r occupies.
// Control runes are zero width.
func RuneWidth(r rune) int {
	if unicode.IsControl(r) {
		return 0
	}
	return widths.RuneWidth(r)
}

// Glyph is the display form of one source rune, or of a share of an
// expanded tab, on a visual line.
type Glyph struct {
	Col   int    // Source rune column
	Text  string // Display text, empty for stripped control runes
	Width int    // Display columns
}

// VisualLine is one wrapped row of a logical line.
type VisualLine struct {
	Text     string  // Display text, tabs expanded, control runes stripped
	Width    int     // Display width in columns
	StartCol int     // First source rune column owned by this row
	EndCol   int     // One past the last source rune column owned by this row
	Source   string  // Original text of [StartCol, EndCol)
	Glyphs   []Glyph // Display pieces in order
}

// LineLayout is the wrapped form of one logical line.
type LineLayout struct {
	Lines []VisualLine
	key   Key
}

// Key identifies the inputs a LineLayout was computed from.
type Key struct {
	Text      string
	WrapWidth int
	TabWidth  int
}

// Key returns the validity key of the layout.
func (l LineLayout) Key() Key {
	return l.key
}

// Height returns the number of screen rows the line occupies.
func (l LineLayout) Height() int {
	return len(l.Lines)
}

// Source joins the source text of every row. It always equals the text the
// layout was computed from.
func (l LineLayout) Source() string {
	if len(l.Lines) == 1 {
		return l.Lines[0].Source
	}
	var b strings.Builder
	for _, vl := range l.Lines {
		b.WriteString(vl.Source)
	}
	return b.String()
}

// Locate maps a source rune column to the visual row that displays it and
// the display column within that row. Columns past the end of the line land
// after the last glyph of the last row, or at the start of the row below it
// when the last row fills the wrap width. That row is Height().
func (l LineLayout) Locate(col int) (row, x int) {
	if col < 0 {
		col = 0
	}
	for i, vl := range l.Lines {
		if col >= vl.EndCol {
			continue
		}
		offset := 0
		for _, g := range vl.Glyphs {
			if g.Col >= col {
				return i, offset
			}
			offset += g.Width
		}
		return i, offset
	}

	last := len(l.Lines) - 1
	if l.key.WrapWidth > 0 && l.Lines[last].Width >= l.key.WrapWidth {
		return last + 1, 0
	}
	return last, l.Lines[last].Width
}

// Layout wraps text into visual lines at wrapWidth columns. Tabs expand to
// the next multiple of tabWidth measured from the start of the logical line.
// A wrapWidth of zero or less disables wrapping.
func Layout(text string, wrapWidth, tabWidth int) LineLayout {
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}

	runes := []rune(text)
	rows := make([]VisualLine, 1, 1+len(runes)/max(wrapWidth, 1))
	cur := &rows[0]
	lineCol := 0 // display column counted from the start of the logical line

	place := func(g Glyph) {
		if wrapWidth > 0 && g.Width > 0 && cur.Width > 0 && cur.Width+g.Width > wrapWidth {
			rows = append(rows, VisualLine{})
			cur = &rows[len(rows)-1]
		}
		cur.Glyphs = append(cur.Glyphs, g)
		cur.Width += g.Width
	}

	for i, r := range runes {
		switch {
		case r == '\t':
			n := tabWidth - lineCol%tabWidth
			for range n {
				place(Glyph{Col: i, Text: " ", Width: 1})
			}
			lineCol += n

		case unicode.IsControl(r):
			place(Glyph{Col: i})

		default:
			w := RuneWidth(r)
			place(Glyph{Col: i, Text: string(r), Width: w})
			lineCol += w
		}
	}

	end := 0
	for i := range rows {
		vl := &rows[i]
		vl.StartCol = end
		var b strings.Builder
		for _, g := range vl.Glyphs {
			b.WriteString(g.Text)
			if g.Col >= end {
				end = g.Col + 1
			}
		}
		vl.EndCol = end
		vl.Text = b.String()
		vl.Source = string(runes[vl.StartCol:vl.EndCol])
	}

	return LineLayout{
		Lines: rows,
		key:   Key{Text: text, WrapWidth: wrapWidth, TabWidth: tabWidth},
	}
}

// ExpandTabs returns text with every tab expanded and control runes stripped,
// without wrapping.
func ExpandTabs(text string, tabWidth int) string {
	return Layout(text, 0, tabWidth).Lines[0].Text
}

// StringWidth returns the display width of text after tab expansion.
func StringWidth(text string, tabWidth int) int {
	return Layout(text, 0, tabWidth).Lines[0].Width
}
