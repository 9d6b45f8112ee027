package core

import (
	"fmt"
	"strings"
)

// Buffer represents the text content being edited (Using Runes)
type Buffer interface {
	// Content access
	LineCount() int                  // Get number of lines
	Line(index int) (string, bool)   // Get a line, false when out of range
	GetLineRunes(lineNum int) []rune // Get specific line as runes (for editing)
	LineRuneCount(lineNum int) int   // Get rune count for a line
	GetCurrentContent() string       // Get entire buffer content as a string
	GetSavedContent() string         // Get saved buffer content as a string

	// Modification. Every mutation reports what it changed.
	InsertRunesAt(row, col int, runes []rune) (EditEvent, error) // Insert runes (handles newlines)
	DeleteRunesAt(row, col, count int) (EditEvent, error)        // Delete runes (handles newlines)
	DeleteLine(row int) (EditEvent, error)                       // Remove a whole line

	IsModified() bool          // Check if buffer has been modified
	SaveContent()              // Mark the current content as saved
	SetContent(content []byte) // Set content (from file or other source)
	IsEmpty() bool             // Check if buffer is empty
}

// textBuffer implementation using runes for better unicode handling
type textBuffer struct {
	lines        [][]rune // Store lines as slices of runes
	savedContent string
}

// NewBuffer creates a new empty buffer
func NewBuffer() Buffer {
	return &textBuffer{
		lines: [][]rune{{}}, // Start with one empty line
	}
}

// NewBufferFromBytes creates a buffer holding content, marked as saved.
func NewBufferFromBytes(content []byte) Buffer {
	b := &textBuffer{}
	b.SetContent(content)
	b.SaveContent()
	return b
}

// NewBufferFromLines creates a buffer holding the given lines.
func NewBufferFromLines(lines []string) Buffer {
	b := &textBuffer{lines: make([][]rune, len(lines))}
	for i, l := range lines {
		b.lines[i] = []rune(l)
	}
	if len(b.lines) == 0 {
		b.lines = [][]rune{{}}
	}
	b.SaveContent()
	return b
}

func (b *textBuffer) IsEmpty() bool {
	return len(b.lines) == 1 && len(b.lines[0]) == 0
}

// SetContent replaces the buffer. A trailing newline yields a final empty
// line so that saving round-trips the content.
func (b *textBuffer) SetContent(content []byte) {
	parts := strings.Split(string(content), "\n")
	b.lines = make([][]rune, len(parts))
	for i, p := range parts {
		b.lines[i] = []rune(p)
	}
}

func (b *textBuffer) LineCount() int {
	return len(b.lines)
}

func (b *textBuffer) Line(index int) (string, bool) {
	if index < 0 || index >= len(b.lines) {
		return "", false
	}
	return string(b.lines[index]), true
}

func (b *textBuffer) GetLineRunes(lineNum int) []rune {
	if lineNum < 0 || lineNum >= len(b.lines) {
		return nil
	}
	return b.lines[lineNum]
}

func (b *textBuffer) LineRuneCount(lineNum int) int {
	if lineNum < 0 || lineNum >= len(b.lines) {
		return 0
	}
	return len(b.lines[lineNum])
}

func (b *textBuffer) IsModified() bool {
	return b.savedContent != b.GetCurrentContent()
}

func (b *textBuffer) SaveContent() {
	b.savedContent = b.GetCurrentContent()
}

// GetCurrentContent returns the entire buffer content as a string
func (b *textBuffer) GetCurrentContent() string {
	var sb strings.Builder
	for i, r := range b.lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(string(r))
	}
	return sb.String()
}

// GetSavedContent returns the saved content as a string
func (b *textBuffer) GetSavedContent() string {
	return b.savedContent
}

// --- Buffer Modification ---

// InsertRunesAt inserts runes at the specified position. Handles newlines correctly.
func (b *textBuffer) InsertRunesAt(row, col int, runes []rune) (EditEvent, error) {
	if row < 0 || row >= len(b.lines) {
		return EditEvent{}, fmt.Errorf("InsertRunesAt: %w: row %d out of bounds [0, %d)", ErrInvalidPosition, row, len(b.lines))
	}

	line := b.lines[row]
	if col < 0 || col > len(line) { // Allow insertion at len(line)
		return EditEvent{}, fmt.Errorf("InsertRunesAt: %w: col %d out of bounds [0, %d]", ErrInvalidPosition, col, len(line))
	}

	parts := strings.Split(string(runes), "\n")
	if len(parts) == 1 {
		// Simple insertion within the line (no newlines)
		newLine := make([]rune, 0, len(line)+len(runes))
		newLine = append(newLine, line[:col]...)
		newLine = append(newLine, runes...)
		newLine = append(newLine, line[col:]...)
		b.lines[row] = newLine
		return EditEvent{Line: row, Kind: EditCharInsert}, nil
	}

	tail := make([]rune, len(line)-col)
	copy(tail, line[col:])

	newLines := make([][]rune, len(parts))
	newLines[0] = append(line[:col:col], []rune(parts[0])...)
	for i := 1; i < len(parts); i++ {
		newLines[i] = []rune(parts[i])
	}
	last := len(newLines) - 1
	newLines[last] = append(newLines[last], tail...)

	finalLines := make([][]rune, 0, len(b.lines)+last)
	finalLines = append(finalLines, b.lines[:row]...)
	finalLines = append(finalLines, newLines...)
	finalLines = append(finalLines, b.lines[row+1:]...)
	b.lines = finalLines

	kind := EditLineInsert
	if len(parts) > 2 || len(runes) > 1 {
		kind = EditMultiLine
	}
	return EditEvent{Line: row, Kind: kind}, nil
}

// DeleteRunesAt deletes count runes starting at the specified position.
// A newline counts as one rune, so deleting past the end of a line joins
// the following lines into it.
func (b *textBuffer) DeleteRunesAt(row, col, count int) (EditEvent, error) {
	if count <= 0 {
		return EditEvent{Line: row, Kind: EditCharDelete}, nil
	}

	if row < 0 || row >= len(b.lines) {
		return EditEvent{}, fmt.Errorf("DeleteRunesAt: %w: row %d out of bounds [0, %d)", ErrInvalidPosition, row, len(b.lines))
	}

	line := b.lines[row]
	if col < 0 || col > len(line) {
		return EditEvent{}, fmt.Errorf("DeleteRunesAt: %w: col %d out of bounds [0, %d]", ErrInvalidPosition, col, len(line))
	}

	// Deletion entirely within the current line
	if col+count <= len(line) {
		newLine := make([]rune, 0, len(line)-count)
		newLine = append(newLine, line[:col]...)
		newLine = append(newLine, line[col+count:]...)
		b.lines[row] = newLine
		return EditEvent{Line: row, Kind: EditCharDelete}, nil
	}

	if row == len(b.lines)-1 {
		return EditEvent{}, fmt.Errorf("DeleteRunesAt: %w", ErrEndOfBuffer)
	}

	// Consume the rest of this line, then whole lines plus their newlines.
	remaining := count - (len(line) - col)
	joined := 0
	next := row + 1
	restCol := 0
	for remaining > 0 && next < len(b.lines) {
		remaining-- // the newline
		joined++
		n := len(b.lines[next])
		if remaining <= n {
			restCol = remaining
			remaining = 0
			break
		}
		remaining -= n
		next++
	}
	if next >= len(b.lines) {
		next = len(b.lines) - 1
		restCol = len(b.lines[next])
	}

	merged := append(line[:col:col], b.lines[next][restCol:]...)
	b.lines = append(b.lines[:row+1], b.lines[next+1:]...)
	b.lines[row] = merged

	kind := EditLineDelete
	if joined > 1 {
		kind = EditMultiLine
	}
	return EditEvent{Line: row, Kind: kind}, nil
}

// DeleteLine removes a line. The last remaining line is emptied instead.
func (b *textBuffer) DeleteLine(row int) (EditEvent, error) {
	if row < 0 || row >= len(b.lines) {
		return EditEvent{}, fmt.Errorf("DeleteLine: %w: row %d out of bounds [0, %d)", ErrInvalidPosition, row, len(b.lines))
	}

	if len(b.lines) == 1 {
		b.lines[0] = []rune{}
		return EditEvent{Line: 0, Kind: EditCharDelete}, nil
	}

	b.lines = append(b.lines[:row], b.lines[row+1:]...)
	return EditEvent{Line: row, Kind: EditLineDelete}, nil
}
