package core

import (
	"fmt"
	"strings"
)

// KeyCode represents non-character keys
type KeyCode int

const (
	KeyUnknown KeyCode = iota
	KeyEnter
	KeyTab
	KeyBackspace
	KeyEscape
	KeySpace

	// Arrow keys
	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	// Navigation keys
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	// Editing keys
	KeyDelete
)

var keyNames = map[KeyCode]string{
	KeyUnknown:   "Unknown",
	KeyEnter:     "Enter",
	KeyTab:       "Tab",
	KeyBackspace: "Backspace",
	KeyEscape:    "Escape",
	KeySpace:     "Space",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyPageUp:    "PageUp",
	KeyPageDown:  "PageDown",
	KeyDelete:    "Delete",
}

// KeyModifiers represents modifier keys held during a keystroke
type KeyModifiers uint8

const (
	ModNone KeyModifiers = 0
	ModCtrl KeyModifiers = 1 << iota
	ModAlt
	ModShift
)

// KeyEvent represents a keyboard input event
type KeyEvent struct {
	Rune      rune
	Key       KeyCode
	Modifiers KeyModifiers
}

// Ctrl returns the event of Ctrl held with a rune key.
func Ctrl(r rune) KeyEvent {
	return KeyEvent{Rune: r, Modifiers: ModCtrl}
}

// Alt returns the event of Alt held with a rune key.
func Alt(r rune) KeyEvent {
	return KeyEvent{Rune: r, Modifiers: ModAlt}
}

// Has reports whether every modifier in m is held.
func (k KeyEvent) Has(m KeyModifiers) bool {
	return k.Modifiers&m == m
}

// String renders the event as "Ctrl+Alt+x" or "Shift+Home".
func (k KeyEvent) String() string {
	var parts []string

	if k.Has(ModCtrl) {
		parts = append(parts, "Ctrl")
	}
	if k.Has(ModAlt) {
		parts = append(parts, "Alt")
	}
	if k.Has(ModShift) {
		parts = append(parts, "Shift")
	}

	switch name, ok := keyNames[k.Key]; {
	case k.Rune != 0:
		parts = append(parts, string(k.Rune))
	case ok:
		parts = append(parts, name)
	default:
		parts = append(parts, fmt.Sprintf("SpecialKey(%d)", k.Key))
	}

	return strings.Join(parts, "+")
}
