package core

import (
	"errors"
	"log"
)

var (
	ErrEndOfBuffer     = errors.New("end of buffer")
	ErrStartOfBuffer   = errors.New("start of buffer")
	ErrInvalidPosition = errors.New("invalid position")
	ErrInvalidLine     = errors.New("invalid line number")
	ErrNoClipboard     = errors.New("no clipboard available")
	ErrNoCommentSyntax = errors.New("language has no line comment")
)

type ErrorId int

const (
	ErrEndOfBufferId ErrorId = iota
	ErrStartOfBufferId
	ErrInvalidPositionId
	ErrInvalidLineId
	ErrCopyFailedId
	ErrPasteFailedId
	ErrCommentFailedId
	ErrEditFailedId
)

// Error pairs an error with the id the UI uses to classify it.
type Error struct {
	id  ErrorId
	err error
}

// NewError wraps err with an id.
func NewError(id ErrorId, err error) *Error {
	return &Error{id: id, err: err}
}

func (e *Error) Error() string {
	return e.err.Error()
}

func (e *Error) Unwrap() error {
	return e.err
}

// Id returns the error classification.
func (e *Error) Id() ErrorId {
	return e.id
}

// DispatchError sends an error signal to the UI without blocking.
func (e *Editor) DispatchError(id ErrorId, err error) {
	select {
	case e.updateSignal <- ErrorSignal{id, err}:
	default:
		log.Println("Channel is full, unable to send error signal")
	}
}
