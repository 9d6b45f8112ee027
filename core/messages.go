package core

import (
	"fmt"
	"log"
)

var (
	LineNumbersShownMessage  = "line numbers shown"
	LineNumbersHiddenMessage = "line numbers hidden"
	LineCopiedMessage        = "line copied"
	SelectionCopiedMessage   = "selection copied"
	NotModifiedMessage       = "no changes to save"
)

// HighlightModeMessage reports the highlight mode after a toggle.
func HighlightModeMessage(mode fmt.Stringer) string {
	return "highlighting: " + mode.String()
}

// DispatchMessage sends a message signal. With one argument the id doubles
// as the message.
func (e *Editor) DispatchMessage(args ...string) {
	id := args[0]
	value := id
	if len(args) > 1 {
		value = args[1]
	}
	select {
	case e.updateSignal <- MessageSignal{id, value}:
	default:
		log.Println("Channel is full, unable to send message signal")
	}
}
