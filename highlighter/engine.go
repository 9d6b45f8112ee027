package highlighter

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// DefaultMaxLineLength bounds the work spent on one line. Longer lines are
// shown as plain text.
const DefaultMaxLineLength = 10000

var (
	ErrLineTooLong   = errors.New("line too long")
	ErrTokenMismatch = errors.New("tokens do not cover the line")
)

// Token is a styled slice of a line.
type Token struct {
	Style Style
	Text  string
}

// tokeniser is the part of chroma.Lexer the engine needs.
type tokeniser interface {
	Tokenise(options *chroma.TokeniseOptions, text string) (chroma.Iterator, error)
}

// Engine highlights one line at a time, threading a State from each line
// into the next.
type Engine struct {
	language      string
	lexer         tokeniser
	syntax        Syntax
	theme         *Theme
	maxLineLength int
	fenceLexers   map[string]tokeniser
}

// NewEngine creates an engine for a chroma language name or alias. Unknown
// languages use chroma's fallback lexer.
func NewEngine(language string, theme *Theme) *Engine {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	name := lexer.Config().Name
	return newEngine(name, lexer, SyntaxFor(name), theme)
}

func newEngine(language string, lexer tokeniser, syntax Syntax, theme *Theme) *Engine {
	if theme == nil {
		theme = NewTheme(DefaultTheme)
	}
	return &Engine{
		language:      language,
		lexer:         lexer,
		syntax:        syntax,
		theme:         theme,
		maxLineLength: DefaultMaxLineLength,
		fenceLexers:   make(map[string]tokeniser),
	}
}

// Language returns the chroma name of the active lexer.
func (e *Engine) Language() string { return e.language }

// Theme returns the engine's theme.
func (e *Engine) Theme() *Theme { return e.theme }

// Syntax returns the cross-line syntax in use.
func (e *Engine) Syntax() Syntax { return e.syntax }

// SetMaxLineLength sets the rune count above which lines are not lexed.
// Zero or less removes the bound.
func (e *Engine) SetMaxLineLength(n int) {
	e.maxLineLength = n
}

// HighlightLine returns the tokens of one line and the state the next line
// starts in. It never fails: lines that cannot be highlighted come back as
// a single plain token with the incoming state passed through.
func (e *Engine) HighlightLine(text string, in State) (tokens []Token, out State) {
	defer func() {
		if r := recover(); r != nil {
			debugf("%s: recovered while highlighting %.40q: %v", e.language, text, r)
			tokens, out = Plain(text), in
		}
	}()

	if e.maxLineLength > 0 && utf8.RuneCountInString(text) > e.maxLineLength {
		debugf("%s: %v (%d runes), using plain text", e.language, ErrLineTooLong, utf8.RuneCountInString(text))
		return Plain(text), in
	}

	tokens, out, err := e.highlight(text, in)
	if err != nil {
		debugf("%s: %v, using plain text", e.language, err)
		return Plain(text), in
	}
	return tokens, out
}

// Plain returns text as one unstyled token.
func Plain(text string) []Token {
	return []Token{{Text: text}}
}

type lineBuilder struct {
	theme  *Theme
	tokens []Token
	n      int
}

func (b *lineBuilder) add(tt chroma.TokenType, text string) {
	if text == "" {
		return
	}
	b.n += len(text)
	style := b.theme.Style(tt)
	if last := len(b.tokens) - 1; last >= 0 && b.tokens[last].Style == style {
		b.tokens[last].Text += text
		return
	}
	b.tokens = append(b.tokens, Token{Style: style, Text: text})
}

func (e *Engine) highlight(text string, in State) ([]Token, State, error) {
	b := &lineBuilder{theme: e.theme}
	runes := []rune(text)
	pos := 0
	state := in

	switch in.kind {
	case kindBlock:
		if in.open >= len(e.syntax.Blocks) {
			return nil, in, fmt.Errorf("block state %d unknown to %s", in.open, e.language)
		}
		block := e.syntax.Blocks[in.open]
		tt := block.Type
		end := block.closeIn(runes, 0)
		if end < 0 {
			b.add(tt, text)
			return b.tokens, in, nil
		}
		pos = end + utf8.RuneCountInString(in.close)
		b.add(tt, string(runes[:pos]))
		state = State{}

	case kindHeredoc:
		end, ok := e.syntax.heredocEnd(text, in.close)
		if !ok {
			b.add(chroma.LiteralStringHeredoc, text)
			return b.tokens, in, nil
		}
		b.add(chroma.LiteralStringHeredoc, text[:end])
		if err := e.lex(b, e.lexer, text[end:]); err != nil {
			return nil, in, err
		}
		if b.n != len(text) {
			return nil, in, ErrTokenMismatch
		}
		return b.tokens, State{}, nil

	case kindFence:
		if marker, _, ok := fenceMarker(text); ok && marker == in.close {
			b.add(chroma.LiteralStringBacktick, text)
			return b.tokens, State{}, nil
		}
		if err := e.lexFenced(b, in.lang, text); err != nil {
			return nil, in, err
		}
		return b.tokens, in, nil
	}

	if e.syntax.Fences && pos == 0 {
		if marker, info, ok := fenceMarker(text); ok {
			b.add(chroma.LiteralStringBacktick, text)
			return b.tokens, State{kind: kindFence, close: marker, lang: info}, nil
		}
	}

	openAt, next := e.syntax.scan(runes, pos)
	if openAt >= 0 {
		if err := e.lex(b, e.lexer, string(runes[pos:openAt])); err != nil {
			return nil, in, err
		}
		b.add(e.syntax.Blocks[next.open].Type, string(runes[openAt:]))
	} else if err := e.lex(b, e.lexer, string(runes[pos:])); err != nil {
		return nil, in, err
	}
	if !next.IsNormal() {
		state = next
	}

	if b.n != len(text) {
		return nil, in, ErrTokenMismatch
	}
	return b.tokens, state, nil
}

// lex appends chroma's tokens for a single-line segment.
func (e *Engine) lex(b *lineBuilder, lexer tokeniser, segment string) error {
	if segment == "" {
		return nil
	}
	it, err := lexer.Tokenise(nil, segment)
	if err != nil {
		return err
	}
	for tok := it(); tok.Type != chroma.EOFType; tok = it() {
		// Lexers that require a trailing newline add one.
		b.add(tok.Type, strings.ReplaceAll(tok.Value, "\n", ""))
	}
	return nil
}

func (e *Engine) lexFenced(b *lineBuilder, lang, text string) error {
	lexer, ok := e.fenceLexers[lang]
	if !ok {
		if l := lexers.Get(lang); lang != "" && l != nil {
			lexer = chroma.Coalesce(l)
		}
		e.fenceLexers[lang] = lexer
	}
	if lexer == nil {
		b.add(chroma.LiteralStringBacktick, text)
		return nil
	}
	return e.lex(b, lexer, text)
}
