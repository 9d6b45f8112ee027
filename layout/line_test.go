package layout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func widthsOf(l LineLayout) []int {
	out := make([]int, len(l.Lines))
	for i, vl := range l.Lines {
		out[i] = vl.Width
	}
	return out
}

func TestLayoutEmptyLine(t *testing.T) {
	for _, w := range []int{0, 1, 7, 80} {
		l := Layout("", w, 4)
		require.Len(t, l.Lines, 1)
		assert.Equal(t, 0, l.Lines[0].Width)
		assert.Equal(t, "", l.Lines[0].Text)
		assert.Equal(t, 1, l.Height())
	}
}

func TestLayoutCJKWrap(t *testing.T) {
	text := strings.Repeat("漢", 50)

	l := Layout(text, 40, 4)

	require.Len(t, l.Lines, 3)
	assert.Equal(t, []int{40, 40, 20}, widthsOf(l))
	assert.Equal(t, 20, len([]rune(l.Lines[0].Text)))
	assert.Equal(t, 20, len([]rune(l.Lines[1].Text)))
	assert.Equal(t, 10, len([]rune(l.Lines[2].Text)))
	assert.Equal(t, 0, l.Lines[0].StartCol)
	assert.Equal(t, 20, l.Lines[1].StartCol)
	assert.Equal(t, 40, l.Lines[2].StartCol)
	assert.Equal(t, 50, l.Lines[2].EndCol)
}

func TestLayoutTabExpansion(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		tabWidth int
		want     string
	}{
		{"after one rune", "a\tb", 4, "a   b"},
		{"at column zero", "\tx", 4, "    x"},
		{"on a tab stop", "abcd\tx", 4, "abcd    x"},
		{"two tabs", "a\t\tb", 4, "a       b"},
		{"width eight", "ab\tc", 8, "ab      c"},
		{"after wide rune", "漢\tb", 4, "漢  b"},
		{"non-positive width uses default", "a\tb", 0, "a   b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandTabs(tt.text, tt.tabWidth))
		})
	}
}

func TestLayoutTabsMeasuredFromLineStart(t *testing.T) {
	// The tab sits at logical column 5 and stops at 8. A row-relative stop
	// would have given it 4 cells.
	l := Layout("abcde\tf", 5, 4)

	require.Len(t, l.Lines, 2)
	assert.Equal(t, "abcde", l.Lines[0].Text)
	assert.Equal(t, "   f", l.Lines[1].Text)
}

func TestLayoutTabSplitAcrossRows(t *testing.T) {
	l := Layout("abc\tz", 4, 8)

	require.Len(t, l.Lines, 3)
	assert.Equal(t, "abc ", l.Lines[0].Text)
	assert.Equal(t, "    ", l.Lines[1].Text)
	assert.Equal(t, "z", l.Lines[2].Text)

	// The tab belongs to the row its first cell landed on.
	assert.Equal(t, 0, l.Lines[0].StartCol)
	assert.Equal(t, 4, l.Lines[0].EndCol)
	assert.Equal(t, 4, l.Lines[1].StartCol)
	assert.Equal(t, 4, l.Lines[1].EndCol)
	assert.Equal(t, "z", l.Lines[2].Source)
}

func TestLayoutStripsControlRunes(t *testing.T) {
	l := Layout("a\x00b\x1bc\r", 80, 4)

	require.Len(t, l.Lines, 1)
	assert.Equal(t, "abc", l.Lines[0].Text)
	assert.Equal(t, 3, l.Lines[0].Width)
	assert.Equal(t, "a\x00b\x1bc\r", l.Source())
}

func TestLayoutOnlyControlRunes(t *testing.T) {
	l := Layout("\x01\x02", 3, 4)

	require.Len(t, l.Lines, 1)
	assert.Equal(t, 0, l.Lines[0].Width)
	assert.Equal(t, "", l.Lines[0].Text)
}

func TestLayoutWideRuneDoesNotSplit(t *testing.T) {
	l := Layout("abc漢", 4, 4)

	require.Len(t, l.Lines, 2)
	assert.Equal(t, "abc", l.Lines[0].Text)
	assert.Equal(t, "漢", l.Lines[1].Text)
}

func TestLayoutWideRuneWiderThanWrap(t *testing.T) {
	l := Layout("漢字", 1, 4)

	require.Len(t, l.Lines, 2)
	assert.Equal(t, []int{2, 2}, widthsOf(l))
}

func TestLayoutNoWrap(t *testing.T) {
	text := strings.Repeat("x", 500)
	l := Layout(text, 0, 4)

	require.Len(t, l.Lines, 1)
	assert.Equal(t, 500, l.Lines[0].Width)
}

func TestLayoutRoundTrip(t *testing.T) {
	texts := []string{
		"",
		"hello world",
		"a\tb\tc",
		"\t\t\tdeep",
		"漢字かなカナ mixed ascii",
		"emoji 👍 and tabs\there",
		"ctl\x00chars\x7f",
		strings.Repeat("ab\t", 30),
		strings.Repeat("漢", 33),
	}

	for _, text := range texts {
		for _, w := range []int{1, 2, 3, 5, 8, 13, 40, 200} {
			l := Layout(text, w, 4)
			require.NotEmpty(t, l.Lines)
			assert.Equal(t, text, l.Source(), "wrap %d: %q", w, text)

			for i, vl := range l.Lines {
				if vl.Width > w {
					// Only a single rune wider than the row may overflow.
					assert.Len(t, []rune(vl.Text), 1, "wrap %d row %d", w, i)
				}
			}
		}
	}
}

func TestLayoutCollapseTabsRoundTrip(t *testing.T) {
	text := "func\tmain()\t{\t// 漢字\tend"

	for _, w := range []int{1, 3, 7, 16, 80} {
		l := Layout(text, w, 4)

		var b strings.Builder
		last := -1
		for _, vl := range l.Lines {
			for _, g := range vl.Glyphs {
				if g.Col == last {
					continue // tab continuation cell
				}
				last = g.Col
				if g.Text == " " && []rune(text)[g.Col] == '\t' {
					b.WriteRune('\t')
					continue
				}
				b.WriteString(g.Text)
			}
		}
		assert.Equal(t, text, b.String(), "wrap %d", w)
	}
}

func TestLocate(t *testing.T) {
	l := Layout("ab\tcd漢e", 4, 4)
	// rows: "ab  " | "cd漢" | "e"
	require.Len(t, l.Lines, 3)

	tests := []struct {
		col, row, x int
	}{
		{0, 0, 0},
		{1, 0, 1},
		{2, 0, 2},
		{3, 1, 0},
		{4, 1, 1},
		{5, 1, 2},
		{6, 2, 0},
		{7, 2, 1},
		{99, 2, 1},
	}

	for _, tt := range tests {
		row, x := l.Locate(tt.col)
		assert.Equal(t, tt.row, row, "col %d", tt.col)
		assert.Equal(t, tt.x, x, "col %d", tt.col)
	}
}

func TestLocateAfterFullRow(t *testing.T) {
	l := Layout(strings.Repeat("a", 20), 20, 4)
	require.Len(t, l.Lines, 1)

	row, x := l.Locate(19)
	assert.Equal(t, 0, row)
	assert.Equal(t, 19, x)

	row, x = l.Locate(20)
	assert.Equal(t, l.Height(), row, "the row below the line")
	assert.Equal(t, 0, x)

	row, x = Layout(strings.Repeat("a", 19), 20, 4).Locate(19)
	assert.Equal(t, 0, row)
	assert.Equal(t, 19, x)

	row, x = Layout(strings.Repeat("a", 20), 0, 4).Locate(20)
	assert.Equal(t, 0, row, "no wrap, no row below")
	assert.Equal(t, 20, x)

	row, _ = Layout("", 20, 4).Locate(0)
	assert.Equal(t, 0, row)
}

func TestStringWidth(t *testing.T) {
	assert.Equal(t, 5, StringWidth("a\tb", 4))
	assert.Equal(t, 4, StringWidth("漢字", 4))
	assert.Equal(t, 0, StringWidth("", 4))
	assert.Equal(t, 0, RuneWidth('\x1b'))
}
