package core

// EditKind classifies a buffer mutation for cache invalidation.
type EditKind int

const (
	EditCharInsert EditKind = iota // runes inserted inside one line
	EditCharDelete                 // runes deleted inside one line
	EditLineInsert                 // one line split in two
	EditLineDelete                 // one line removed or joined into the previous
	EditMultiLine                  // any edit spanning several lines
)

func (k EditKind) String() string {
	switch k {
	case EditCharInsert:
		return "char-insert"
	case EditCharDelete:
		return "char-delete"
	case EditLineInsert:
		return "line-insert"
	case EditLineDelete:
		return "line-delete"
	case EditMultiLine:
		return "multi-line"
	default:
		return "unknown"
	}
}

// LineLevel reports whether the edit shifts the indices of later lines.
func (k EditKind) LineLevel() bool {
	return k != EditCharInsert && k != EditCharDelete
}

// EditEvent is the dirty notification sent after every buffer mutation.
type EditEvent struct {
	Line int // first affected line
	Kind EditKind
}
