// Package hostfs exposes an fs.FS as a drop host: every dropped path becomes
// an item offering the legacy entry capability, the handle capability, or
// both, the way a browser hands them over.
package hostfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"path"

	"dropwalk/internal/drop"
)

// DefaultBatchSize is the number of children a directory reader returns per
// call unless configured otherwise.
const DefaultBatchSize = 100

// Mode selects the capabilities exposed by the items.
type Mode string

const (
	ModeBoth   Mode = "auto"
	ModeHandle Mode = "handle"
	ModeEntry  Mode = "entry"
)

// ParseMode parses a mode name. The empty string means ModeBoth.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeBoth:
		return ModeBoth, nil
	case ModeHandle, ModeEntry:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown pathway %q (want auto, handle or entry)", s)
	}
}

// Item returns the drop item for name inside fsys. It fails when name does
// not exist.
func Item(fsys fs.FS, name string, mode Mode, batchSize int) (drop.Item, error) {
	info, err := fs.Stat(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to stat dropped path: %w", err)
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	n := &node{fsys: fsys, path: name, name: info.Name(), dir: info.IsDir(), batch: batchSize}
	switch mode {
	case ModeEntry:
		return entryItem{n}, nil
	case ModeHandle:
		return handleItem{n}, nil
	default:
		return bothItem{n}, nil
	}
}

// Items returns one item per name, in order.
func Items(fsys fs.FS, names []string, mode Mode, batchSize int) ([]drop.Item, error) {
	items := make([]drop.Item, 0, len(names))
	for _, name := range names {
		item, err := Item(fsys, name, mode, batchSize)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

type node struct {
	fsys  fs.FS
	path  string
	name  string
	dir   bool
	batch int
}

func (n *node) Name() string      { return n.name }
func (n *node) IsFile() bool      { return !n.dir }
func (n *node) IsDirectory() bool { return n.dir }

func (n *node) child(d fs.DirEntry) *node {
	return &node{
		fsys:  n.fsys,
		path:  path.Join(n.path, d.Name()),
		name:  d.Name(),
		dir:   d.IsDir(),
		batch: n.batch,
	}
}

func (n *node) stat() (drop.Blob, error) {
	info, err := fs.Stat(n.fsys, n.path)
	if err != nil {
		return nil, err
	}
	return info, nil
}

type entryItem struct{ n *node }

func (i entryItem) Kind() string      { return drop.KindFile }
func (i entryItem) Entry() drop.Entry { return &entry{i.n} }

type handleItem struct{ n *node }

func (i handleItem) Kind() string { return drop.KindFile }

func (i handleItem) Handle(ctx context.Context) (drop.Handle, error) {
	return &handle{i.n}, nil
}

// bothItem offers both capabilities, so negotiation settles on handles.
type bothItem struct{ n *node }

func (i bothItem) Kind() string      { return drop.KindFile }
func (i bothItem) Entry() drop.Entry { return &entry{i.n} }

func (i bothItem) Handle(ctx context.Context) (drop.Handle, error) {
	return &handle{i.n}, nil
}

// entry implements drop.FileEntry and drop.DirectoryEntry.
type entry struct{ *node }

func (e *entry) File(ctx context.Context) (drop.Blob, error) {
	return e.stat()
}

func (e *entry) CreateReader() drop.DirectoryReader {
	return &reader{n: e.node}
}

// reader pages through a directory with fs.ReadDirFile.ReadDir.
type reader struct {
	n    *node
	f    fs.ReadDirFile
	done bool
}

func (r *reader) ReadEntries(ctx context.Context) ([]drop.Entry, error) {
	if r.done {
		return nil, nil
	}
	if r.f == nil {
		f, err := r.n.fsys.Open(r.n.path)
		if err != nil {
			return nil, err
		}
		rdf, ok := f.(fs.ReadDirFile)
		if !ok {
			f.Close()
			return nil, fmt.Errorf("%s: %w", r.n.path, errors.ErrUnsupported)
		}
		r.f = rdf
	}

	dirents, err := r.f.ReadDir(r.n.batch)
	if err != nil && !errors.Is(err, io.EOF) {
		r.close()
		return nil, err
	}
	if len(dirents) == 0 {
		r.close()
		return nil, nil
	}

	batch := make([]drop.Entry, 0, len(dirents))
	for _, d := range dirents {
		batch = append(batch, &entry{r.n.child(d)})
	}
	return batch, nil
}

// Close releases the open directory. It is safe to call more than once.
func (r *reader) Close() error {
	r.close()
	return nil
}

func (r *reader) close() {
	r.done = true
	if r.f != nil {
		r.f.Close()
		r.f = nil
	}
}

// handle implements drop.FileHandle and drop.Enumerator.
type handle struct{ *node }

func (h *handle) GetFile(ctx context.Context) (drop.Blob, error) {
	return h.stat()
}

func (h *handle) Values(ctx context.Context) iter.Seq2[drop.Handle, error] {
	return func(yield func(drop.Handle, error) bool) {
		dirents, err := fs.ReadDir(h.fsys, h.path)
		if err != nil {
			yield(nil, err)
			return
		}
		for _, d := range dirents {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			if !yield(&handle{h.child(d)}, nil) {
				return
			}
		}
	}
}
