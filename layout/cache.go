package layout

import "container/list"

// DefaultCacheSize is the number of line layouts kept by default.
const DefaultCacheSize = 4096

type cacheEntry struct {
	index  int
	layout LineLayout
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Size      int
	MaxSize   int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// HitRate returns hits / (hits + misses), or 0 before any lookup.
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Cache memoizes LineLayout per logical line index. An entry is served only
// while its text and the cache geometry still match.
type Cache struct {
	wrapWidth int
	tabWidth  int
	maxSize   int

	entries map[int]*list.Element
	lru     *list.List // front is most recently used

	hits      uint64
	misses    uint64
	evictions uint64
}

// NewCache creates a layout cache for the given geometry.
func NewCache(wrapWidth, tabWidth, maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}
	return &Cache{
		wrapWidth: wrapWidth,
		tabWidth:  tabWidth,
		maxSize:   maxSize,
		entries:   make(map[int]*list.Element),
		lru:       list.New(),
	}
}

// WrapWidth returns the active wrap width.
func (c *Cache) WrapWidth() int { return c.wrapWidth }

// TabWidth returns the active tab width.
func (c *Cache) TabWidth() int { return c.tabWidth }

// SetGeometry changes the wrap and tab width. Any change drops every entry.
func (c *Cache) SetGeometry(wrapWidth, tabWidth int) {
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}
	if wrapWidth == c.wrapWidth && tabWidth == c.tabWidth {
		return
	}
	c.wrapWidth = wrapWidth
	c.tabWidth = tabWidth
	c.Clear()
}

// Get returns the layout of line index, computing and storing it on a miss.
func (c *Cache) Get(index int, text string) LineLayout {
	if l, ok := c.Peek(index, text); ok {
		return l
	}
	c.misses++

	l := Layout(text, c.wrapWidth, c.tabWidth)
	c.put(index, l)
	return l
}

// Peek returns the cached layout of line index if it is still valid.
func (c *Cache) Peek(index int, text string) (LineLayout, bool) {
	elem, ok := c.entries[index]
	if !ok {
		return LineLayout{}, false
	}

	e := elem.Value.(*cacheEntry)
	if e.layout.key != (Key{Text: text, WrapWidth: c.wrapWidth, TabWidth: c.tabWidth}) {
		return LineLayout{}, false
	}

	c.hits++
	c.lru.MoveToFront(elem)
	return e.layout, true
}

// Height returns the number of rows line index occupies.
func (c *Cache) Height(index int, text string) int {
	return c.Get(index, text).Height()
}

func (c *Cache) put(index int, l LineLayout) {
	if elem, ok := c.entries[index]; ok {
		elem.Value.(*cacheEntry).layout = l
		c.lru.MoveToFront(elem)
		return
	}

	for c.lru.Len() >= c.maxSize {
		c.evict()
	}
	c.entries[index] = c.lru.PushFront(&cacheEntry{index: index, layout: l})
}

func (c *Cache) evict() {
	back := c.lru.Back()
	if back == nil {
		return
	}
	c.lru.Remove(back)
	delete(c.entries, back.Value.(*cacheEntry).index)
	c.evictions++
}

// Invalidate drops the entry of one line.
func (c *Cache) Invalidate(index int) {
	if elem, ok := c.entries[index]; ok {
		c.lru.Remove(elem)
		delete(c.entries, index)
	}
}

// InvalidateFrom drops every entry at or after index.
func (c *Cache) InvalidateFrom(index int) {
	for i, elem := range c.entries {
		if i >= index {
			c.lru.Remove(elem)
			delete(c.entries, i)
		}
	}
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.entries = make(map[int]*list.Element)
	c.lru.Init()
}

// Len returns the number of cached layouts.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() CacheStats {
	return CacheStats{
		Size:      len(c.entries),
		MaxSize:   c.maxSize,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

// ResetStats zeroes the hit, miss and eviction counters.
func (c *Cache) ResetStats() {
	c.hits, c.misses, c.evictions = 0, 0, 0
}
