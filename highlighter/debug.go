package highlighter

import "log"

var debug bool

// SetDebug turns debug log lines on or off.
func SetDebug(on bool) {
	debug = on
}

func debugf(format string, args ...any) {
	if debug {
		log.Printf("[highlight] "+format, args...)
	}
}
