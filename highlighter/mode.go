package highlighter

import (
	"fmt"
	"strings"
)

// Mode selects how the cache anchors cross-line state.
type Mode int

const (
	ModeDisabled Mode = iota // no highlighting, every line is plain text
	ModeFullFile             // anchor at line 0, always correct
	ModeWindowed             // anchor near the visible window, bounded cost
)

// DefaultFullFileThreshold is the largest line count highlighted in
// full-file mode when the mode is chosen automatically.
const DefaultFullFileThreshold = 500

func (m Mode) String() string {
	switch m {
	case ModeDisabled:
		return "off"
	case ModeFullFile:
		return "full"
	case ModeWindowed:
		return "windowed"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Next returns the mode that follows m when toggling.
func (m Mode) Next() Mode {
	switch m {
	case ModeDisabled:
		return ModeFullFile
	case ModeFullFile:
		return ModeWindowed
	default:
		return ModeDisabled
	}
}

// ModeFor picks full-file mode for files of at most threshold lines and
// windowed mode for larger ones.
func ModeFor(lineCount, threshold int) Mode {
	if threshold <= 0 {
		threshold = DefaultFullFileThreshold
	}
	if lineCount <= threshold {
		return ModeFullFile
	}
	return ModeWindowed
}

// ParseMode parses "off", "full" or "windowed".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "disabled", "none":
		return ModeDisabled, nil
	case "full", "full-file", "fullfile":
		return ModeFullFile, nil
	case "windowed", "window":
		return ModeWindowed, nil
	}
	return ModeDisabled, fmt.Errorf("unknown highlight mode %q", s)
}
