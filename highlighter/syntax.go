package highlighter

import (
	"strings"
	"unicode"

	"github.com/alecthomas/chroma/v2"
)

type stateKind uint8

const (
	kindNormal stateKind = iota
	kindBlock            // block comment or multi-line string
	kindHeredoc
	kindFence
)

// State is carried from the end of one line to the start of the next. The
// zero value is the state at the top of a file. States are comparable.
type State struct {
	kind  stateKind
	open  int    // index into Syntax.Blocks for kindBlock
	close string // closing delimiter, heredoc tag or fence marker
	lang  string // fenced block language
}

// IsNormal reports whether no multi-line construct is open.
func (s State) IsNormal() bool {
	return s.kind == kindNormal
}

func (s State) String() string {
	switch s.kind {
	case kindBlock:
		return "block(" + s.close + ")"
	case kindHeredoc:
		return "heredoc(" + s.close + ")"
	case kindFence:
		return "fence(" + s.close + s.lang + ")"
	default:
		return "normal"
	}
}

// Delimited is a construct that may span lines, such as a block comment.
type Delimited struct {
	Open        string
	Close       string
	Type        chroma.TokenType
	AtLineStart bool // Open only counts as the first non-blank text of a line
	Escaped     bool // a backslash escapes the rune after it, Close included
}

// Syntax describes the cross-line constructs of a language. Everything
// else is left to the chroma lexer.
type Syntax struct {
	LineComment  string
	Blocks       []Delimited
	Quotes       string // single-line string quotes, backslash escaped
	CharLiterals bool   // 'x' is a character literal, not a quote
	HeredocOpen  string // "<<" in shells, "<<<" in PHP
	HeredocEnd   string // runes that may follow a closing heredoc tag
	Fences       bool
}

var (
	cBlock     = Delimited{Open: "/*", Close: "*/", Type: chroma.CommentMultiline}
	htmlBlock  = Delimited{Open: "<!--", Close: "-->", Type: chroma.CommentMultiline}
	backtick   = Delimited{Open: "`", Close: "`", Type: chroma.LiteralStringBacktick}
	tripleDbl  = Delimited{Open: `"""`, Close: `"""`, Type: chroma.LiteralStringDoc}
	tripleSgl  = Delimited{Open: `'''`, Close: `'''`, Type: chroma.LiteralStringDoc}
	rustHashed = Delimited{Open: `r#"`, Close: `"#`, Type: chroma.LiteralString}
	rustRaw    = Delimited{Open: `r"`, Close: `"`, Type: chroma.LiteralString}
	rustString = Delimited{Open: `"`, Close: `"`, Type: chroma.LiteralString, Escaped: true}
	cSyntax    = Syntax{LineComment: "//", Blocks: []Delimited{cBlock}, Quotes: `"'`}
	hashSyntax = Syntax{LineComment: "#", Quotes: `"'`}
)

var syntaxes = map[string]Syntax{
	"go":         {LineComment: "//", Blocks: []Delimited{cBlock, backtick}, Quotes: `"'`},
	"javascript": {LineComment: "//", Blocks: []Delimited{cBlock, backtick}, Quotes: `"'`},
	"typescript": {LineComment: "//", Blocks: []Delimited{cBlock, backtick}, Quotes: `"'`},
	"c":          cSyntax,
	"c++":        cSyntax,
	"c#":         cSyntax,
	"java":       cSyntax,
	"kotlin":     {LineComment: "//", Blocks: []Delimited{cBlock, tripleDbl}, Quotes: `"'`},
	"scala":      {LineComment: "//", Blocks: []Delimited{cBlock, tripleDbl}, Quotes: `"'`},
	"swift":      {LineComment: "//", Blocks: []Delimited{cBlock, tripleDbl}, Quotes: `"`},
	"rust": {
		LineComment:  "//",
		Blocks:       []Delimited{cBlock, rustHashed, rustRaw, rustString},
		CharLiterals: true,
	},
	"dart": {LineComment: "//", Blocks: []Delimited{cBlock, tripleDbl, tripleSgl}, Quotes: `"'`},
	"php": {
		LineComment: "//",
		Blocks:      []Delimited{cBlock},
		Quotes:      `"'`,
		HeredocOpen: "<<<",
		HeredocEnd:  ";,)",
	},
	"css":      {Blocks: []Delimited{cBlock}, Quotes: `"'`},
	"scss":     cSyntax,
	"sql":      {LineComment: "--", Blocks: []Delimited{cBlock}, Quotes: `'"`},
	"python":   {LineComment: "#", Blocks: []Delimited{tripleDbl, tripleSgl}, Quotes: `"'`},
	"python 2": {LineComment: "#", Blocks: []Delimited{tripleDbl, tripleSgl}, Quotes: `"'`},
	"toml":     {LineComment: "#", Blocks: []Delimited{tripleDbl, tripleSgl}, Quotes: `"'`},
	"bash":     {LineComment: "#", Quotes: `"'`, HeredocOpen: "<<"},
	"ruby": {
		LineComment: "#",
		Blocks:      []Delimited{{Open: "=begin", Close: "=end", Type: chroma.CommentMultiline, AtLineStart: true}},
		Quotes:      `"'`,
		HeredocOpen: "<<",
	},
	"perl": {LineComment: "#", Quotes: `"'`, HeredocOpen: "<<"},
	"lua": {
		LineComment: "--",
		Blocks: []Delimited{
			{Open: "--[[", Close: "]]", Type: chroma.CommentMultiline},
			{Open: "[[", Close: "]]", Type: chroma.LiteralString},
		},
		Quotes: `"'`,
	},
	"haskell":  {LineComment: "--", Blocks: []Delimited{{Open: "{-", Close: "-}", Type: chroma.CommentMultiline}}, Quotes: `"`},
	"html":     {Blocks: []Delimited{htmlBlock}},
	"xml":      {Blocks: []Delimited{htmlBlock}},
	"markdown": {Blocks: []Delimited{htmlBlock}, Fences: true},
	"yaml":     hashSyntax,
	"makefile": hashSyntax,
	"docker":   hashSyntax,
	"r":        hashSyntax,
}

// SyntaxFor returns the cross-line syntax of a chroma lexer name. Unknown
// languages have no cross-line constructs.
func SyntaxFor(language string) Syntax {
	return syntaxes[strings.ToLower(language)]
}

// hasPrefixAt reports whether runes[i:] starts with s.
func hasPrefixAt(runes []rune, i int, s string) bool {
	for _, r := range s {
		if i >= len(runes) || runes[i] != r {
			return false
		}
		i++
	}
	return true
}

// indexFrom returns the first index >= from where s occurs in runes, or -1.
func indexFrom(runes []rune, from int, s string) int {
	for i := from; i < len(runes); i++ {
		if hasPrefixAt(runes, i, s) {
			return i
		}
	}
	return -1
}

// scan walks runes[from:] in the normal state. It returns the index of the
// first construct left open at the end of the line (or -1) and the state the
// next line starts in.
func (s Syntax) scan(runes []rune, from int) (openAt int, next State) {
	var pending State // heredoc body starts on the next line

	for i := from; i < len(runes); {
		if s.CharLiterals && runes[i] == '\'' {
			if n := charLiteral(runes, i); n > 0 {
				i += n
				continue
			}
		}

		if bi, ok := s.blockAt(runes, i, from); ok {
			b := s.Blocks[bi]
			start := i + len([]rune(b.Open))
			end := b.closeIn(runes, start)
			if end < 0 {
				return i, State{kind: kindBlock, open: bi, close: b.Close}
			}
			i = end + len([]rune(b.Close))
			continue
		}

		if s.LineComment != "" && hasPrefixAt(runes, i, s.LineComment) {
			break
		}

		if strings.ContainsRune(s.Quotes, runes[i]) {
			i = skipQuoted(runes, i)
			continue
		}

		if s.HeredocOpen != "" && hasPrefixAt(runes, i, "<<") {
			// Count the whole run of '<' so that a shell here-string
			// (<<<) is not read as a heredoc.
			n := 2
			for i+n < len(runes) && runes[i+n] == '<' {
				n++
			}
			if n == len(s.HeredocOpen) {
				if tag, m := heredocTag(runes, i+n); tag != "" {
					pending = State{kind: kindHeredoc, close: tag}
					i += n + m
					continue
				}
			}
			i += n
			continue
		}

		i++
	}

	return -1, pending
}

func (s Syntax) blockAt(runes []rune, i, from int) (int, bool) {
	for bi, b := range s.Blocks {
		if !hasPrefixAt(runes, i, b.Open) {
			continue
		}
		if b.AtLineStart && strings.TrimSpace(string(runes[from:i])) != "" {
			continue
		}
		return bi, true
	}
	return 0, false
}

// closeIn returns the index of the first unescaped Close at or after from,
// or -1.
func (d Delimited) closeIn(runes []rune, from int) int {
	if !d.Escaped {
		return indexFrom(runes, from, d.Close)
	}
	for i := from; i < len(runes); i++ {
		if runes[i] == '\\' {
			i++
			continue
		}
		if hasPrefixAt(runes, i, d.Close) {
			return i
		}
	}
	return -1
}

// charLiteral returns the length of the character literal starting at
// runes[i], or 0 when the quote starts something else, such as a lifetime.
func charLiteral(runes []rune, i int) int {
	j := i + 1
	if j < len(runes) && runes[j] == '\\' {
		for k := j + 2; k < len(runes) && k <= j+10; k++ {
			if runes[k] == '\'' {
				return k - i + 1
			}
		}
		return 0
	}
	if j+1 < len(runes) && runes[j+1] == '\'' {
		return 3
	}
	return 0
}

// heredocEnd reports whether line closes the heredoc tagged tag and returns
// the byte offset just past the tag.
func (s Syntax) heredocEnd(line, tag string) (int, bool) {
	trimmed := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(trimmed, tag) {
		return 0, false
	}
	end := len(line) - len(trimmed) + len(tag)
	rest := strings.TrimRight(line[end:], " \t")
	if rest == "" || (s.HeredocEnd != "" && strings.ContainsRune(s.HeredocEnd, rune(rest[0]))) {
		return end, true
	}
	return 0, false
}

// skipQuoted returns the index just past the string starting at runes[i].
// An unterminated string ends at the end of the line.
func skipQuoted(runes []rune, i int) int {
	quote := runes[i]
	for j := i + 1; j < len(runes); j++ {
		switch runes[j] {
		case '\\':
			j++
		case quote:
			return j + 1
		}
	}
	return len(runes)
}

// heredocTag parses the tag after "<<", accepting <<-TAG, <<~TAG and quoted
// tags. It returns the tag and the number of runes consumed.
func heredocTag(runes []rune, i int) (string, int) {
	start := i
	if i < len(runes) && (runes[i] == '-' || runes[i] == '~') {
		i++
	}
	var quote rune
	if i < len(runes) && (runes[i] == '\'' || runes[i] == '"') {
		quote = runes[i]
		i++
	}
	tagStart := i
	for i < len(runes) && (runes[i] == '_' || unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i])) {
		i++
	}
	if i == tagStart || unicode.IsDigit(runes[tagStart]) {
		return "", 0
	}
	tag := string(runes[tagStart:i])
	if quote != 0 {
		if i >= len(runes) || runes[i] != quote {
			return "", 0
		}
		i++
	}
	return tag, i - start
}

// fenceMarker returns the fence marker and info string when line opens or
// closes a markdown code fence.
func fenceMarker(line string) (marker, info string, ok bool) {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return "", "", false
	}
	for _, m := range []string{"```", "~~~"} {
		if strings.HasPrefix(trimmed, m) {
			return m, strings.TrimSpace(strings.TrimLeft(trimmed, m[:1])), true
		}
	}
	return "", "", false
}
