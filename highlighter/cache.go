package highlighter

import "github.com/ionut-t/tedit/core"

const (
	// DefaultCacheSize is the number of lines kept between walks.
	DefaultCacheSize = 1000
	// MinCacheSize is the smallest size worth configuring.
	MinCacheSize = 64
	// DefaultWindowBuffer is how far above the visible window windowed mode
	// starts looking for a known state.
	DefaultWindowBuffer = 100
)

// Lines is the read side of the text buffer.
type Lines interface {
	LineCount() int
	Line(index int) (string, bool)
}

// CachedLine is the highlight result of one logical line.
type CachedLine struct {
	Text   string // Text the tokens were computed from
	Tokens []Token
	In     State // State the line was entered with
	Out    State // State the next line starts in
}

// CacheOptions configures a Cache. Zero values select the defaults.
type CacheOptions struct {
	MaxSize      int
	WindowBuffer int
	// InvalidationRadius bounds how many lines after a character edit are
	// dropped in windowed mode. Zero drops everything to the end of file.
	InvalidationRadius int
}

// CacheStats reports cache activity.
type CacheStats struct {
	Size     int
	Computed uint64 // engine invocations
	Hits     uint64
	Clears   uint64 // trims after a walk overflowed the size
}

// Cache memoizes highlighted lines by index and walks cross-line state in
// increasing line order from an anchor chosen by the active Mode. The size
// bound is applied between walks, never during one, and the lines of the
// last window are always kept.
type Cache struct {
	engine *Engine
	mode   Mode
	lines  map[int]*CachedLine

	maxSize      int
	windowBuffer int
	radius       int

	computed uint64
	hits     uint64
	clears   uint64
}

// NewCache creates a highlight cache around engine.
func NewCache(engine *Engine, mode Mode, opts CacheOptions) *Cache {
	if opts.MaxSize <= 0 {
		opts.MaxSize = DefaultCacheSize
	}
	if opts.WindowBuffer <= 0 {
		opts.WindowBuffer = DefaultWindowBuffer
	}
	return &Cache{
		engine:       engine,
		mode:         mode,
		lines:        make(map[int]*CachedLine),
		maxSize:      opts.MaxSize,
		windowBuffer: opts.WindowBuffer,
		radius:       max(opts.InvalidationRadius, 0),
	}
}

// Mode returns the active mode.
func (c *Cache) Mode() Mode { return c.mode }

// SetMode switches modes. A change clears the cache.
func (c *Cache) SetMode(m Mode) {
	if m == c.mode {
		return
	}
	c.mode = m
	c.Clear()
}

// Engine returns the engine in use.
func (c *Cache) Engine() *Engine { return c.engine }

// SetEngine replaces the engine, for a language or theme change, and
// clears the cache.
func (c *Cache) SetEngine(e *Engine) {
	c.engine = e
	c.Clear()
}

// IsValid reports whether line index is cached for text.
func (c *Cache) IsValid(index int, text string) bool {
	e, ok := c.lines[index]
	return ok && e.Text == text
}

// Get returns the raw cache entry of a line.
func (c *Cache) Get(index int) (*CachedLine, bool) {
	e, ok := c.lines[index]
	return e, ok
}

// Line returns the tokens of one line.
func (c *Cache) Line(src Lines, index int) []Token {
	out := c.Window(src, index, index+1)
	if len(out) == 0 {
		return nil
	}
	return out[0]
}

// Window returns the tokens of lines [start, end), computing whatever is
// missing or stale. Lines between the anchor and start are processed but
// not returned.
func (c *Cache) Window(src Lines, start, end int) [][]Token {
	start = max(start, 0)
	end = min(end, src.LineCount())
	if start >= end {
		return nil
	}

	out := make([][]Token, 0, end-start)
	if c.mode == ModeDisabled {
		for i := start; i < end; i++ {
			text, _ := src.Line(i)
			out = append(out, Plain(text))
		}
		return out
	}

	i, state := c.anchor(src, start)
	for ; i < end; i++ {
		text, ok := src.Line(i)
		if !ok {
			break
		}
		e := c.resolve(i, text, state)
		state = e.Out
		if i >= start {
			out = append(out, e.Tokens)
		}
	}
	c.trim(start, end)
	return out
}

// anchor returns the first line to process for a window starting at start
// and the state that line is entered with.
func (c *Cache) anchor(src Lines, start int) (int, State) {
	floor := 0
	if c.mode == ModeWindowed {
		floor = max(0, start-c.windowBuffer)
	}

	for i := start - 1; i >= floor; i-- {
		if out, ok := c.validOut(src, i); ok {
			return i + 1, out
		}
	}

	// Windowed mode never walks further back than the buffer. The state just
	// above it is used when known, otherwise the walk assumes normal state.
	if floor > 0 {
		if out, ok := c.validOut(src, floor-1); ok {
			return floor, out
		}
	}
	return floor, State{}
}

func (c *Cache) validOut(src Lines, index int) (State, bool) {
	e, ok := c.lines[index]
	if !ok {
		return State{}, false
	}
	text, present := src.Line(index)
	if !present || e.Text != text {
		return State{}, false
	}
	return e.Out, true
}

// resolve returns the entry of line index entered with state in. A cached
// entry is reused only when both its text and its entry state match.
func (c *Cache) resolve(index int, text string, in State) *CachedLine {
	if e, ok := c.lines[index]; ok && e.Text == text && e.In == in {
		c.hits++
		return e
	}

	tokens, out := c.engine.HighlightLine(text, in)
	c.computed++

	e := &CachedLine{Text: text, Tokens: tokens, In: in, Out: out}
	c.store(index, e)
	return e
}

func (c *Cache) store(index int, e *CachedLine) {
	c.lines[index] = e
}

// trim keeps only the lines just above end once the cache holds more than
// its size. The window [start, end) and the line above it, which anchors
// the next walk, are kept even when they alone exceed the size.
func (c *Cache) trim(start, end int) {
	if len(c.lines) <= c.maxSize {
		return
	}
	first := min(start-1, end-c.maxSize)
	dropped := 0
	for i := range c.lines {
		if i < first || i >= end {
			delete(c.lines, i)
			dropped++
		}
	}
	if dropped > 0 {
		debugf("cache over %d lines, dropped %d outside [%d, %d)", c.maxSize, dropped, first, end)
		c.clears++
	}
}

// OnEdit applies the invalidation policy of an edit classification.
func (c *Cache) OnEdit(line int, kind core.EditKind) {
	switch kind {
	case core.EditCharInsert, core.EditCharDelete:
		if c.mode == ModeWindowed && c.radius > 0 {
			c.InvalidateRange(line, line+c.radius)
			return
		}
		c.InvalidateFrom(line)

	default: // line insert/delete and multi-line edits shift indices
		c.InvalidateFrom(line)
	}
}

// Invalidate drops one line.
func (c *Cache) Invalidate(index int) {
	delete(c.lines, index)
}

// InvalidateRange drops lines first through last, inclusive.
func (c *Cache) InvalidateRange(first, last int) {
	if last-first < len(c.lines) {
		for i := first; i <= last; i++ {
			delete(c.lines, i)
		}
		return
	}
	for i := range c.lines {
		if i >= first && i <= last {
			delete(c.lines, i)
		}
	}
}

// InvalidateFrom drops every line at or after index.
func (c *Cache) InvalidateFrom(index int) {
	for i := range c.lines {
		if i >= index {
			delete(c.lines, i)
		}
	}
}

// Clear drops every line.
func (c *Cache) Clear() {
	c.lines = make(map[int]*CachedLine)
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() CacheStats {
	return CacheStats{
		Size:     len(c.lines),
		Computed: c.computed,
		Hits:     c.hits,
		Clears:   c.clears,
	}
}
