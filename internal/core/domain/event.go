package domain

// EventKind is the kind of change reported for a path.
type EventKind uint8

const (
	// EventCreated indicates a file or directory appeared, including the new name of a move.
	EventCreated EventKind = iota + 1
	// EventModified indicates a file's content was written.
	EventModified
	// EventDeleted indicates a file or directory disappeared, including the old name of a move.
	EventDeleted
)

// String returns the lowercase name of the kind.
func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "created"
	case EventModified:
		return "modified"
	case EventDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// FileEvent is a single filesystem change delivered by a watcher.
// It is only valid for the duration of the callback that receives it.
type FileEvent struct {
	Kind EventKind
	// Path is the absolute path of the file or directory that changed.
	Path string
}
