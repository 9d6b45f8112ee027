package core

// Cursor represents the current position for editing operations
type Cursor struct {
	Position  Position // Current position (row, column)
	Preferred int      // Preferred column for vertical movement (sticky column)
}

// --- Cursor Movement ---

// clampCol ensures the column stays within the valid range for the given line.
// The column may sit one past the last rune, where insertions append.
func (c *Cursor) clampCol(buffer Buffer) {
	lineLen := buffer.LineRuneCount(c.Position.Row)
	if c.Position.Col > lineLen {
		c.Position.Col = lineLen
	}
	if c.Position.Col < 0 {
		c.Position.Col = 0
	}
}

// clampRow keeps the row inside the buffer.
func (c *Cursor) clampRow(buffer Buffer) {
	if c.Position.Row >= buffer.LineCount() {
		c.Position.Row = buffer.LineCount() - 1
	}
	if c.Position.Row < 0 {
		c.Position.Row = 0
	}
}

// MoveLeft moves the cursor one rune left, onto the end of the previous
// line when already at the start of a line.
func (c *Cursor) MoveLeft(buffer Buffer) error {
	switch {
	case c.Position.Col > 0:
		c.Position.Col--
	case c.Position.Row > 0:
		c.Position.Row--
		c.Position.Col = buffer.LineRuneCount(c.Position.Row)
	default:
		return ErrStartOfBuffer
	}
	c.Preferred = c.Position.Col
	return nil
}

// MoveRight moves the cursor one rune right, onto the start of the next
// line when already at the end of a line.
func (c *Cursor) MoveRight(buffer Buffer) error {
	switch {
	case c.Position.Col < buffer.LineRuneCount(c.Position.Row):
		c.Position.Col++
	case c.Position.Row < buffer.LineCount()-1:
		c.Position.Row++
		c.Position.Col = 0
	default:
		return ErrEndOfBuffer
	}
	c.Preferred = c.Position.Col
	return nil
}

// MoveUp moves the cursor up by count lines, keeping the preferred column.
func (c *Cursor) MoveUp(buffer Buffer, count int) error {
	if c.Position.Row <= 0 {
		return ErrStartOfBuffer
	}
	c.Position.Row = max(c.Position.Row-count, 0)
	c.Position.Col = c.Preferred
	c.clampCol(buffer)
	return nil
}

// MoveDown moves the cursor down by count lines, keeping the preferred column.
func (c *Cursor) MoveDown(buffer Buffer, count int) error {
	if c.Position.Row >= buffer.LineCount()-1 {
		return ErrEndOfBuffer
	}
	c.Position.Row = min(c.Position.Row+count, buffer.LineCount()-1)
	c.Position.Col = c.Preferred
	c.clampCol(buffer)
	return nil
}

// MoveToLineStart moves the cursor to column 0.
func (c *Cursor) MoveToLineStart() {
	c.Position.Col = 0
	c.Preferred = 0
}

// MoveToLineEnd moves the cursor past the last rune of the line.
func (c *Cursor) MoveToLineEnd(buffer Buffer) {
	c.Position.Col = buffer.LineRuneCount(c.Position.Row)
	c.Preferred = c.Position.Col
}

// MoveToFileStart moves the cursor to the first rune of the buffer.
func (c *Cursor) MoveToFileStart() {
	c.Position = Position{}
	c.Preferred = 0
}

// MoveToFileEnd moves the cursor past the last rune of the buffer.
func (c *Cursor) MoveToFileEnd(buffer Buffer) {
	c.Position.Row = buffer.LineCount() - 1
	c.MoveToLineEnd(buffer)
}

// MoveToRow moves to row, clamped into the buffer, keeping the preferred column.
func (c *Cursor) MoveToRow(buffer Buffer, row int) {
	c.Position.Row = row
	c.clampRow(buffer)
	c.Position.Col = c.Preferred
	c.clampCol(buffer)
}

// MoveTo places the cursor at an exact position, clamped into the buffer.
func (c *Cursor) MoveTo(buffer Buffer, pos Position) {
	c.Position = pos
	c.clampRow(buffer)
	c.clampCol(buffer)
	c.Preferred = c.Position.Col
}
