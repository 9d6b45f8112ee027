package highlighter

import (
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/chroma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func joined(tokens []Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteString(t.Text)
	}
	return sb.String()
}

func TestHighlightLineCoversText(t *testing.T) {
	e := NewEngine("go", nil)

	lines := []string{
		"package main",
		"",
		"func main() {",
		"\tfmt.Println(\"héllo, 世界\") // greet",
		"}",
	}
	for _, line := range lines {
		tokens, out := e.HighlightLine(line, State{})
		assert.Equal(t, line, joined(tokens))
		assert.True(t, out.IsNormal(), "line %q", line)
	}
}

func TestHighlightLineMergesEqualStyles(t *testing.T) {
	e := NewEngine("go", nil)

	tokens, _ := e.HighlightLine("x := y + z // c", State{})
	for i := 1; i < len(tokens); i++ {
		assert.NotEqual(t, tokens[i-1].Style, tokens[i].Style)
	}
}

func TestHighlightLineBlockCommentState(t *testing.T) {
	e := NewEngine("go", nil)
	comment := e.Theme().Style(chroma.CommentMultiline)

	tokens, state := e.HighlightLine("x := 1 /* start", State{})
	require.False(t, state.IsNormal())
	assert.Equal(t, "block(*/)", state.String())
	last := tokens[len(tokens)-1]
	assert.Equal(t, comment, last.Style)
	assert.True(t, strings.HasSuffix(last.Text, "/* start"))

	tokens, next := e.HighlightLine("still inside", state)
	assert.Equal(t, []Token{{Style: comment, Text: "still inside"}}, tokens)
	assert.Equal(t, state, next)

	tokens, next = e.HighlightLine("end */ y := 2", state)
	assert.True(t, next.IsNormal())
	assert.Equal(t, "end */ y := 2", joined(tokens))
	assert.Equal(t, comment, tokens[0].Style)
	assert.True(t, strings.HasPrefix(tokens[0].Text, "end */"))
}

func TestHighlightLineClosedConstructsStayNormal(t *testing.T) {
	e := NewEngine("go", nil)

	for _, line := range []string{
		"x := 1 /* closed */ + 2",
		`s := "/*"`,
		`r := '"'`,
		"// /* not a block",
		"q := `raw`",
	} {
		_, out := e.HighlightLine(line, State{})
		assert.True(t, out.IsNormal(), "line %q", line)
	}
}

func TestHighlightLineRawStringSpansLines(t *testing.T) {
	e := NewEngine("go", nil)

	_, state := e.HighlightLine("s := `first", State{})
	require.Equal(t, "block(`)", state.String())

	_, state = e.HighlightLine("/* inside a raw string", state)
	require.Equal(t, "block(`)", state.String())

	_, state = e.HighlightLine("last`", state)
	assert.True(t, state.IsNormal())
}

func TestHighlightLinePythonDocstring(t *testing.T) {
	e := NewEngine("python", nil)
	doc := e.Theme().Style(chroma.LiteralStringDoc)

	_, state := e.HighlightLine(`    """Summary`, State{})
	require.False(t, state.IsNormal())

	tokens, state := e.HighlightLine("# not a comment here", state)
	assert.Equal(t, doc, tokens[0].Style)
	require.False(t, state.IsNormal())

	_, state = e.HighlightLine(`    """`, state)
	assert.True(t, state.IsNormal())
}

func TestHighlightLineHeredoc(t *testing.T) {
	e := NewEngine("bash", nil)
	heredoc := e.Theme().Style(chroma.LiteralStringHeredoc)

	_, state := e.HighlightLine("cat <<'EOF' > out.txt", State{})
	require.Equal(t, "heredoc(EOF)", state.String())

	tokens, next := e.HighlightLine("echo $HOME # body", state)
	assert.Equal(t, []Token{{Style: heredoc, Text: "echo $HOME # body"}}, tokens)
	assert.Equal(t, state, next)

	_, next = e.HighlightLine("EOF", state)
	assert.True(t, next.IsNormal())
}

func TestHighlightLineHereStringIsNotHeredoc(t *testing.T) {
	e := NewEngine("bash", nil)

	for _, line := range []string{"read x <<<word", `cat <<< "$var"`} {
		_, state := e.HighlightLine(line, State{})
		assert.True(t, state.IsNormal(), "line %q", line)
	}

	_, state := e.HighlightLine("echo done", State{})
	assert.True(t, state.IsNormal())
}

func TestHighlightLinePHPHeredocClosedBySemicolon(t *testing.T) {
	e := NewEngine("php", nil)
	heredoc := e.Theme().Style(chroma.LiteralStringHeredoc)

	_, state := e.HighlightLine("$a = <<<EOT", State{})
	require.Equal(t, "heredoc(EOT)", state.String())

	_, state = e.HighlightLine("body EOT; still body", state)
	require.Equal(t, "heredoc(EOT)", state.String())

	tokens, next := e.HighlightLine("EOT;", state)
	assert.True(t, next.IsNormal())
	assert.Equal(t, "EOT;", joined(tokens))
	assert.Equal(t, heredoc, tokens[0].Style)

	_, next = e.HighlightLine("echo 1;", next)
	assert.True(t, next.IsNormal())

	_, state = e.HighlightLine("f(<<<'NOW'", State{})
	require.Equal(t, "heredoc(NOW)", state.String())
	_, next = e.HighlightLine("  NOW);", state)
	assert.True(t, next.IsNormal())
}

func TestHighlightLineRustStringSpansLines(t *testing.T) {
	e := NewEngine("rust", nil)

	_, state := e.HighlightLine(`let s = "first`, State{})
	require.Equal(t, `block(")`, state.String())

	_, state = e.HighlightLine(`escaped \" quote`, state)
	require.Equal(t, `block(")`, state.String())

	_, state = e.HighlightLine(`last";`, state)
	assert.True(t, state.IsNormal())

	_, state = e.HighlightLine(`let r = r#"raw "quoted"`, State{})
	require.Equal(t, `block("#)`, state.String())

	_, state = e.HighlightLine(`end"#;`, state)
	assert.True(t, state.IsNormal())
}

func TestHighlightLineRustCharLiterals(t *testing.T) {
	e := NewEngine("rust", nil)

	for _, line := range []string{
		`let q = '"';`,
		`let e = '\'';`,
		`fn f<'a>(x: &'a str) -> &'a str { "ok" }`,
	} {
		_, out := e.HighlightLine(line, State{})
		assert.True(t, out.IsNormal(), "line %q", line)
	}
}

func TestHighlightLineMarkdownFence(t *testing.T) {
	e := NewEngine("markdown", nil)

	_, state := e.HighlightLine("```go", State{})
	require.Equal(t, "fence(```go)", state.String())

	tokens, next := e.HighlightLine("x := 1 /* not left open", state)
	assert.Equal(t, "x := 1 /* not left open", joined(tokens))
	assert.Equal(t, state, next)

	_, next = e.HighlightLine("```", state)
	assert.True(t, next.IsNormal())
}

func TestNewEngineUnknownLanguage(t *testing.T) {
	e := NewEngine("no-such-language", nil)

	assert.Equal(t, "fallback", e.Language())
	tokens, out := e.HighlightLine("anything /* goes", State{})
	assert.Equal(t, "anything /* goes", joined(tokens))
	assert.True(t, out.IsNormal())
}

type fakeLexer struct {
	tokens []chroma.Token
	err    error
	panics bool
}

func (f fakeLexer) Tokenise(*chroma.TokeniseOptions, string) (chroma.Iterator, error) {
	if f.panics {
		panic("lexer bug")
	}
	if f.err != nil {
		return nil, f.err
	}
	return chroma.Literator(f.tokens...), nil
}

func TestHighlightLineDegradesToPlain(t *testing.T) {
	in := State{kind: kindBlock, close: "*/"}
	line := "int x = 1;"

	tests := []struct {
		name  string
		lexer fakeLexer
	}{
		{"panic", fakeLexer{panics: true}},
		{"error", fakeLexer{err: errors.New("boom")}},
		{"short tokens", fakeLexer{tokens: []chroma.Token{{Type: chroma.Keyword, Value: "int"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine("fake", tt.lexer, cSyntax, nil)

			// Normal state so that the line reaches the lexer.
			tokens, out := e.HighlightLine(line, State{})
			assert.Equal(t, Plain(line), tokens)
			assert.True(t, out.IsNormal())

			// An unknown block index is an error too; the state passes through.
			bad := State{kind: kindBlock, open: 7, close: "*/"}
			tokens, out = e.HighlightLine(line, bad)
			assert.Equal(t, Plain(line), tokens)
			assert.Equal(t, bad, out)

			tokens, out = e.HighlightLine("*/ "+line, in)
			assert.Equal(t, Plain("*/ "+line), tokens)
			assert.Equal(t, in, out)
		})
	}
}

func TestHighlightLineTooLong(t *testing.T) {
	e := NewEngine("go", nil)
	e.SetMaxLineLength(8)
	in := State{kind: kindBlock, close: "*/"}

	tokens, out := e.HighlightLine("x := 123456789", in)
	assert.Equal(t, Plain("x := 123456789"), tokens)
	assert.Equal(t, in, out)

	tokens, _ = e.HighlightLine("x := 1", State{})
	assert.Greater(t, len(tokens), 1)
}

func TestPlainTokenIsUnstyled(t *testing.T) {
	tokens := Plain("text")

	require.Len(t, tokens, 1)
	assert.True(t, tokens[0].Style.IsZero())
}

func TestThemeFallback(t *testing.T) {
	assert.True(t, ThemeExists(DefaultTheme))
	assert.False(t, ThemeExists("no-such-theme"))

	theme := NewTheme("no-such-theme")
	assert.Equal(t, DefaultTheme, theme.Name())

	monokai := NewTheme("monokai")
	assert.Equal(t, "monokai", monokai.Name())
	assert.True(t, monokai.Style(chroma.Keyword).Fg.Set)
}

func TestModeCycle(t *testing.T) {
	assert.Equal(t, ModeFullFile, ModeDisabled.Next())
	assert.Equal(t, ModeWindowed, ModeFullFile.Next())
	assert.Equal(t, ModeDisabled, ModeWindowed.Next())

	assert.Equal(t, ModeFullFile, ModeFor(500, 0))
	assert.Equal(t, ModeWindowed, ModeFor(501, 0))
	assert.Equal(t, ModeWindowed, ModeFor(11, 10))

	for in, want := range map[string]Mode{"off": ModeDisabled, "Full": ModeFullFile, " windowed ": ModeWindowed} {
		m, err := ParseMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, m)
	}
	_, err := ParseMode("sometimes")
	assert.Error(t, err)
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		want     string
	}{
		{"go by extension", "main.go", "package main\n", "Go"},
		{"python by extension", "tool.py", "print(1)\n", "Python"},
		{"shebang", "run", "#!/usr/bin/env bash\necho hi\n", "Bash"},
		{"binary", "blob.bin", "\x00\x01\x02\x00", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.filename, []byte(tt.content)))
		})
	}
}
