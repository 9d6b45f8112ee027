package core

type Mode string

const (
	InsertMode  Mode = "insert"
	CommandMode Mode = "command"
)

func (m Mode) String() string {
	return string(m)
}

// EditorMode handles the keys of one input mode.
type EditorMode interface {
	Name() Mode
	// HandleKey processes a key press. Returned errors are for the UI to
	// show; they never leave the editor in a half-applied state.
	HandleKey(editor *Editor, key KeyEvent) error
	Enter(editor *Editor) // Called when entering the mode
	Exit(editor *Editor)  // Called when exiting the mode
}
