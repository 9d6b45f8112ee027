package core

type Signal any

type MessageSignal struct {
	id    string
	value string
}

func (m MessageSignal) Value() (id, message string) {
	return m.id, m.value
}

type SaveSignal struct {
	content string
}

func (s SaveSignal) Value() string {
	return s.content
}

type QuitSignal struct{}

type ErrorSignal Error

func (e ErrorSignal) Value() (id ErrorId, err error) {
	return e.id, e.err
}

// DispatchSignal sends a signal to the UI without blocking.
func (e *Editor) DispatchSignal(signal Signal) {
	select {
	case e.updateSignal <- signal:
	default: // Ignore if the channel is full
	}
}

// GetUpdateSignalChan returns the channel the UI listens on.
func (e *Editor) GetUpdateSignalChan() <-chan Signal {
	return e.updateSignal
}
