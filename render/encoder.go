package render

import (
	"image/color"
	"io"
	"strings"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/x/ansi"

	"github.com/ionut-t/tedit/highlighter"
	"github.com/ionut-t/tedit/layout"
)

// DetectProfile reports the colour support of output, a terminal or not,
// as described by environ.
func DetectProfile(output io.Writer, environ []string) colorprofile.Profile {
	return colorprofile.Detect(output, environ)
}

// pen is the drawing state of one cell.
type pen struct {
	style   highlighter.Style
	reverse bool
}

// Encoder turns rows into SGR-styled strings. A style sequence is written
// only where the style changes, and a row that ends styled gets a single
// reset.
type Encoder struct {
	profile colorprofile.Profile
	codes   map[pen]string
}

// NewEncoder creates an encoder writing colours the way profile allows.
// Colours are dropped below ANSI and attributes are kept.
func NewEncoder(profile colorprofile.Profile) *Encoder {
	return &Encoder{
		profile: profile,
		codes:   make(map[pen]string),
	}
}

func (e *Encoder) Profile() colorprofile.Profile { return e.profile }

// TrueColor reports whether colours are written as 24-bit values.
func (e *Encoder) TrueColor() bool { return e.profile == colorprofile.TrueColor }

// Row encodes one row. cursorX is the display column, gutter excluded, of
// the cursor cell drawn in reverse video, or -1 for none. A cursor past the
// end of the text is drawn on a space.
func (e *Encoder) Row(row Row, cursorX int) string {
	var b strings.Builder
	cur := ansi.ResetStyle

	write := func(p pen, text string) {
		if seq := e.sequence(p); seq != cur {
			b.WriteString(seq)
			cur = seq
		}
		b.WriteString(text)
	}

	if row.Gutter.Text != "" {
		write(pen{style: row.Gutter.Style}, row.Gutter.Text)
	}

	x := 0
	for _, run := range row.Runs {
		if cursorX < x || cursorX >= x+run.Width {
			write(pen{style: run.Style}, run.Text)
			x += run.Width
			continue
		}

		// Split the run around the cursor cell.
		before, at, after := splitAt(run.Text, cursorX-x)
		if before != "" {
			write(pen{style: run.Style}, before)
		}
		write(pen{style: run.Style, reverse: true}, at)
		if after != "" {
			write(pen{style: run.Style}, after)
		}
		x += run.Width
	}
	if cursorX >= x {
		write(pen{reverse: true}, " ")
	}

	if cur != ansi.ResetStyle {
		b.WriteString(ansi.ResetStyle)
	}
	return b.String()
}

// Frame encodes every row of a frame, drawing the cursor.
func (e *Encoder) Frame(f Frame) []string {
	out := make([]string, len(f.Rows))
	for i, row := range f.Rows {
		cursorX := -1
		if i == f.Cursor.Row {
			cursorX = f.Cursor.Col - f.GutterWidth
		}
		out[i] = e.Row(row, cursorX)
	}
	return out
}

// splitAt splits text around the glyph covering display column col.
func splitAt(text string, col int) (before, at, after string) {
	x := 0
	for i, r := range text {
		w := layout.RuneWidth(r)
		if col < x+w || (w == 0 && col == x) {
			n := i + len(string(r))
			return text[:i], text[i:n], text[n:]
		}
		x += w
	}
	return text, "", ""
}

// sequence returns the SGR sequence selecting p from any prior state.
func (e *Encoder) sequence(p pen) string {
	if p == (pen{}) {
		return ansi.ResetStyle
	}
	if s, ok := e.codes[p]; ok {
		return s
	}

	style := ansi.Style{}.Reset()
	if p.style.Bold {
		style = style.Bold()
	}
	if p.style.Italic {
		style = style.Italic()
	}
	if p.style.Underline {
		style = style.Underline()
	}
	if p.reverse {
		style = style.Reverse()
	}
	if fg := e.color(p.style.Fg); fg != nil {
		style = style.ForegroundColor(fg)
	}
	if bg := e.color(p.style.Bg); bg != nil {
		style = style.BackgroundColor(bg)
	}

	s := style.String()
	if len(style) == 1 {
		s = ansi.ResetStyle
	}
	e.codes[p] = s
	return s
}

// color converts c to what the profile can show, nil when unset or when
// the profile has no colours.
func (e *Encoder) color(c highlighter.Color) ansi.Color {
	if !c.Set {
		return nil
	}
	return e.profile.Convert(color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
}
