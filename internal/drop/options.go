package drop

import "go.uber.org/zap"

// ResolvedFile is one file of the resolved drop.
type ResolvedFile struct {
	Blob Blob
	// Path is relative to the drop and never starts with a separator.
	Path string
	// Handle is set when the file was reached through the handle capability.
	Handle FileHandle
	// Directory is the handle of the parent directory for files found while
	// expanding a directory handle. It is nil for files dropped directly.
	Directory DirectoryHandle
}

// Selected reports whether the file was itself a drop target reached through
// the handle capability.
func (f ResolvedFile) Selected() bool {
	return f.Handle != nil && f.Directory == nil
}

// Observer receives traversal progress. Calls arrive from concurrent
// goroutines.
type Observer interface {
	DirectoryEntered(path string)
	FileResolved(file ResolvedFile)
}

// Options configures one Collect call.
type Options struct {
	// Recursive enables directory descent. Without it a dropped directory
	// yields no files.
	Recursive bool
	// SkipDirectory prunes a directory before any of its children are read.
	// Calls are serialized, so the predicate may keep unguarded state.
	SkipDirectory func(dir Node) bool
	// Extensions restricts files to these name extensions (no leading dot).
	// Nil disables filtering; an empty non-nil list matches nothing.
	Extensions []string
	// MaxInFlight bounds concurrent host calls. Zero or less is unbounded.
	MaxInFlight int
	// Logger receives debug traces of the walk. Nil means a no-op logger.
	Logger *zap.Logger
	// Observer is notified of progress. Nil disables notifications.
	Observer Observer
}
