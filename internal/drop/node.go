// Package drop resolves dropped file-system references into a flat, ordered
// list of files with their paths relative to the drop.
//
// The host hands over one Item per dragged entity. An item exposes either the
// handle capability (child handles enumerated directly) or the legacy entry
// capability (directories read in pages until an empty page). Collect picks
// one capability for the whole call, expands directories concurrently and
// rebuilds the result order from the tree structure.
package drop

import (
	"context"
	"iter"
	"time"
)

// Node is the common view of a file or directory reached through either
// capability. A node never changes variant.
type Node interface {
	Name() string
	IsFile() bool
	IsDirectory() bool
}

// Blob is the opaque content handle of a resolved file. Contents are never
// read here.
type Blob interface {
	Name() string
	Size() int64
	ModTime() time.Time
}

// Entry is a node reached through the legacy entry capability.
type Entry = Node

// FileEntry is a legacy file entry.
type FileEntry interface {
	Entry
	File(ctx context.Context) (Blob, error)
}

// DirectoryEntry is a legacy directory entry.
type DirectoryEntry interface {
	Entry
	CreateReader() DirectoryReader
}

// DirectoryReader returns the children of a directory in batches. A single
// call is not guaranteed to return every child; an empty batch means the
// directory is exhausted.
type DirectoryReader interface {
	ReadEntries(ctx context.Context) ([]Entry, error)
}

// Handle is a node reached through the handle capability.
type Handle = Node

// FileHandle is a file reached through the handle capability.
type FileHandle interface {
	Handle
	GetFile(ctx context.Context) (Blob, error)
}

// DirectoryHandle is a directory reached through the handle capability. It
// can only be descended when it also implements Enumerator.
type DirectoryHandle interface {
	Handle
}

// Enumerator iterates the child handles of a directory handle.
type Enumerator interface {
	Values(ctx context.Context) iter.Seq2[Handle, error]
}
