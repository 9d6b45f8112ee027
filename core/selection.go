package core

import (
	"fmt"
	"strings"
)

// IndentUnit is inserted by Tab and removed by Shift+Tab.
const IndentUnit = "    "

// Selection is the text between the anchor, where selecting started, and
// the head, which follows the cursor. The end of its range is exclusive.
type Selection struct {
	Anchor Position
	Head   Position
}

// NormalizeSelection ensures start is before end, line by line, then column by column.
func NormalizeSelection(p1, p2 Position) (start, end Position) {
	if p1.Row < p2.Row || (p1.Row == p2.Row && p1.Col <= p2.Col) {
		return p1, p2
	}
	return p2, p1
}

// Range returns the selected span in buffer order.
func (s Selection) Range() (start, end Position) {
	return NormalizeSelection(s.Anchor, s.Head)
}

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool { return s.Anchor == s.Head }

// Contains reports whether the rune at row, col is selected. Col may be
// one past the last rune of a row, standing for its line break.
func (s Selection) Contains(row, col int) bool {
	if s.IsEmpty() {
		return false
	}
	start, end := s.Range()
	p := Position{Row: row, Col: col}
	return !before(p, start) && before(p, end)
}

// Rows returns the first and last row the selection touches. A selection
// ending at column 0 does not touch its last row.
func (s Selection) Rows() (first, last int) {
	start, end := s.Range()
	last = end.Row
	if end.Col == 0 && end.Row > start.Row {
		last--
	}
	return start.Row, last
}

func before(a, b Position) bool {
	return a.Row < b.Row || (a.Row == b.Row && a.Col < b.Col)
}

// Selection returns the active selection, empty when there is none.
func (e *Editor) Selection() Selection {
	if !e.selecting {
		return Selection{}
	}
	return Selection{Anchor: e.anchor, Head: e.cursor.Position}
}

// HasSelection reports whether some text is selected.
func (e *Editor) HasSelection() bool {
	return e.selecting && e.anchor != e.cursor.Position
}

// ClearSelection drops the selection, leaving the cursor where it is.
func (e *Editor) ClearSelection() {
	e.selecting = false
}

// SelectAll selects the whole buffer and puts the cursor at its end.
func (e *Editor) SelectAll() {
	e.anchor = Position{}
	e.selecting = true
	e.cursor.MoveToFileEnd(e.buffer)
	e.moved()
}

// extendSelection anchors a selection at the cursor unless one is active.
func (e *Editor) extendSelection() {
	if !e.selecting {
		e.anchor = e.cursor.Position
		e.selecting = true
	}
}

func (e *Editor) selectedText() string {
	start, end := e.Selection().Range()
	if start.Row == end.Row {
		return string(e.buffer.GetLineRunes(start.Row)[start.Col:end.Col])
	}

	var b strings.Builder
	b.WriteString(string(e.buffer.GetLineRunes(start.Row)[start.Col:]))
	for row := start.Row + 1; row < end.Row; row++ {
		b.WriteByte('\n')
		b.WriteString(string(e.buffer.GetLineRunes(row)))
	}
	b.WriteByte('\n')
	b.WriteString(string(e.buffer.GetLineRunes(end.Row)[:end.Col]))
	return b.String()
}

// deleteSelection removes the selected text and leaves the cursor where it
// started.
func (e *Editor) deleteSelection() error {
	start, end := e.Selection().Range()
	count := end.Col - start.Col
	if start.Row != end.Row {
		count = e.buffer.LineRuneCount(start.Row) - start.Col + 1
		for row := start.Row + 1; row < end.Row; row++ {
			count += e.buffer.LineRuneCount(row) + 1
		}
		count += end.Col
	}

	e.selecting = false
	if err := e.apply(e.buffer.DeleteRunesAt(start.Row, start.Col, count)); err != nil {
		return NewError(ErrEditFailedId, err)
	}
	e.cursor.MoveTo(e.buffer, start)
	e.moved()
	return nil
}

// copySelection puts the selection, or the cursor line with its line break,
// on the clipboard.
func (e *Editor) copySelection() error {
	if e.clipboard == nil {
		return NewError(ErrCopyFailedId, ErrNoClipboard)
	}
	text, message := e.selectedText(), SelectionCopiedMessage
	if !e.HasSelection() {
		line, _ := e.buffer.Line(e.cursor.Position.Row)
		text, message = line+"\n", LineCopiedMessage
	}
	if err := e.clipboard.Write(text); err != nil {
		return NewError(ErrCopyFailedId, fmt.Errorf("copy: %w", err))
	}
	e.DispatchMessage(message)
	return nil
}

// cut copies like copySelection, then deletes what was copied.
func (e *Editor) cut() error {
	hadSelection := e.HasSelection()
	if err := e.copySelection(); err != nil {
		return err
	}
	if hadSelection {
		return e.deleteSelection()
	}
	return e.deleteLine()
}

// indent inserts an indent unit at the start of every selected row, or at
// the cursor when nothing is selected.
func (e *Editor) indent() error {
	if !e.HasSelection() {
		e.ClearSelection()
		return e.insertRunes([]rune(IndentUnit))
	}

	unit := []rune(IndentUnit)
	first, last := e.Selection().Rows()
	for row := first; row <= last; row++ {
		if err := e.apply(e.buffer.InsertRunesAt(row, 0, unit)); err != nil {
			return NewError(ErrEditFailedId, err)
		}
	}
	shift := func(p Position) Position {
		if p.Row >= first && p.Row <= last && p.Col > 0 {
			p.Col += len(unit)
		}
		return p
	}
	e.anchor = shift(e.anchor)
	e.cursor.MoveTo(e.buffer, shift(e.cursor.Position))
	e.moved()
	return nil
}

// unindent removes up to one indent unit of leading blanks from every
// selected row, or of blanks before the cursor when nothing is selected.
func (e *Editor) unindent() error {
	if !e.HasSelection() {
		e.ClearSelection()
		pos := e.cursor.Position
		runes := e.buffer.GetLineRunes(pos.Row)
		n := 0
		for n < len(IndentUnit) && pos.Col-n > 0 && runes[pos.Col-n-1] == ' ' {
			n++
		}
		if n == 0 {
			return nil
		}
		if err := e.apply(e.buffer.DeleteRunesAt(pos.Row, pos.Col-n, n)); err != nil {
			return NewError(ErrEditFailedId, err)
		}
		e.cursor.MoveTo(e.buffer, Position{Row: pos.Row, Col: pos.Col - n})
		e.moved()
		return nil
	}

	first, last := e.Selection().Rows()
	removed := make(map[int]int)
	for row := first; row <= last; row++ {
		n := leadingIndent(e.buffer.GetLineRunes(row))
		if n == 0 {
			continue
		}
		if err := e.apply(e.buffer.DeleteRunesAt(row, 0, n)); err != nil {
			return NewError(ErrEditFailedId, err)
		}
		removed[row] = n
	}
	shift := func(p Position) Position {
		p.Col = max(0, p.Col-removed[p.Row])
		return p
	}
	e.anchor = shift(e.anchor)
	e.cursor.MoveTo(e.buffer, shift(e.cursor.Position))
	e.moved()
	return nil
}

// leadingIndent returns how many leading runes one unindent removes: a tab,
// or up to an indent unit of spaces.
func leadingIndent(runes []rune) int {
	if len(runes) > 0 && runes[0] == '\t' {
		return 1
	}
	n := 0
	for n < len(IndentUnit) && n < len(runes) && runes[n] == ' ' {
		n++
	}
	return n
}
