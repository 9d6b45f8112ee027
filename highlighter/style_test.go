package highlighter

import (
	"testing"

	"github.com/alecthomas/chroma/v2"
	"github.com/stretchr/testify/assert"
)

func TestSelectionBackgroundBlendsTowardText(t *testing.T) {
	black, white := chroma.MustParseColour("#000000"), chroma.MustParseColour("#ffffff")

	c := selectionBackground(black, white)

	assert.True(t, c.Set)
	assert.InDelta(t, c.R, c.G, 1, "grey")
	assert.InDelta(t, c.G, c.B, 1, "grey")
	assert.Greater(t, c.R, uint8(30))
	assert.Less(t, c.R, uint8(100))

	assert.Equal(t, c, selectionBackground(0, 0), "unset colours read as white text on black")
}

func TestThemeSelectionOnlySetsBackground(t *testing.T) {
	theme := NewTheme(DefaultTheme)

	sel := theme.Selection()

	assert.True(t, sel.Bg.Set)
	assert.False(t, sel.Fg.Set)
	assert.False(t, sel.Bold)
	bg := theme.style.Get(chroma.Background).Background
	assert.NotEqual(t, RGB(bg.Red(), bg.Green(), bg.Blue()), sel.Bg)
}
