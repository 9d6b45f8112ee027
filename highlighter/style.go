package highlighter

import (
	"fmt"
	"slices"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultTheme is used when no theme, or an unknown one, is configured.
const DefaultTheme = "catppuccin-mocha"

// Color is an RGB colour. The zero value means "terminal default".
type Color struct {
	R, G, B uint8
	Set     bool
}

// RGB returns a set colour.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, Set: true}
}

func (c Color) String() string {
	if !c.Set {
		return "default"
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Style describes how a run of text is drawn, independent of any terminal
// encoding. Styles are comparable.
type Style struct {
	Fg        Color
	Bg        Color
	Bold      bool
	Italic    bool
	Underline bool
}

// IsZero reports whether s is the plain, unstyled style.
func (s Style) IsZero() bool {
	return s == Style{}
}

// Theme resolves chroma token types to Styles.
type Theme struct {
	name      string
	style     *chroma.Style
	bg        chroma.Colour
	cache     map[chroma.TokenType]Style
	selection Style
}

// ThemeExists reports whether name is a known chroma style.
func ThemeExists(name string) bool {
	return slices.Contains(styles.Names(), name)
}

// NewTheme loads a chroma style by name. Unknown names fall back to
// DefaultTheme.
func NewTheme(name string) *Theme {
	if !ThemeExists(name) {
		if name != "" {
			debugf("unknown theme %q, using %s", name, DefaultTheme)
		}
		name = DefaultTheme
	}
	style := styles.Get(name)

	t := &Theme{
		name:  name,
		style: style,
		bg:    style.Get(chroma.Background).Background,
		cache: make(map[chroma.TokenType]Style),
	}
	t.selection = Style{Bg: selectionBackground(t.bg, style.Get(chroma.Text).Colour)}
	return t
}

// selectionBackground mixes a quarter of the text colour into the
// background, in Lab space so the shade looks even across themes.
func selectionBackground(bg, fg chroma.Colour) Color {
	base := colorful.Color{}
	if bg.IsSet() {
		base = toColorful(bg)
	}
	ink := colorful.Color{R: 1, G: 1, B: 1}
	if fg.IsSet() {
		ink = toColorful(fg)
	}
	r, g, b := base.BlendLab(ink, 0.25).Clamped().RGB255()
	return RGB(r, g, b)
}

func toColorful(c chroma.Colour) colorful.Color {
	return colorful.Color{
		R: float64(c.Red()) / 255,
		G: float64(c.Green()) / 255,
		B: float64(c.Blue()) / 255,
	}
}

// Name returns the resolved theme name.
func (t *Theme) Name() string {
	return t.name
}

// Style returns the style of a token type, memoized per type.
func (t *Theme) Style(tt chroma.TokenType) Style {
	if s, ok := t.cache[tt]; ok {
		return s
	}

	entry := t.style.Get(tt)
	var s Style
	if entry.Colour.IsSet() {
		s.Fg = RGB(entry.Colour.Red(), entry.Colour.Green(), entry.Colour.Blue())
	}
	// The theme background is left to the terminal; only tokens that
	// paint their own background keep it.
	if entry.Background.IsSet() && entry.Background != t.bg {
		s.Bg = RGB(entry.Background.Red(), entry.Background.Green(), entry.Background.Blue())
	}
	s.Bold = entry.Bold == chroma.Yes
	s.Italic = entry.Italic == chroma.Yes
	s.Underline = entry.Underline == chroma.Yes

	t.cache[tt] = s
	return s
}

// Gutter returns the style of line numbers.
func (t *Theme) Gutter() Style {
	return t.Style(chroma.LineNumbers)
}

// Filler returns the style of the "~" rows past the end of the buffer.
func (t *Theme) Filler() Style {
	return t.Style(chroma.LineNumbers)
}

// Selection returns the overlay drawn under selected text. Only its
// background is set.
func (t *Theme) Selection() Style {
	return t.selection
}
