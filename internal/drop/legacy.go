package drop

import (
	"context"
	"io"

	"go.uber.org/zap"
)

// entryNode walks the legacy entry capability.
type entryNode struct {
	Entry
}

func (n entryNode) source() Node { return n.Entry }

func (n entryNode) resolve(ctx context.Context, t *traversal, path string) (ResolvedFile, error) {
	fe, ok := n.Entry.(FileEntry)
	if !ok {
		return ResolvedFile{}, unavailable("file entry", path)
	}

	var blob Blob
	err := t.call(ctx, "file", path, func() error {
		var err error
		blob, err = fe.File(ctx)
		return err
	})
	if err != nil {
		return ResolvedFile{}, err
	}

	return ResolvedFile{Blob: blob, Path: path}, nil
}

// children drains the directory reader. One ReadEntries call may return only
// part of the directory, so batches are read until an empty one. Readers that
// hold resources may implement io.Closer; they are closed when children
// returns.
func (n entryNode) children(ctx context.Context, t *traversal, path string) ([]node, error) {
	de, ok := n.Entry.(DirectoryEntry)
	if !ok {
		return nil, unavailable("directory entry", path)
	}

	reader := de.CreateReader()
	if reader == nil {
		return nil, unavailable("directory reader", path)
	}
	// A walk canceled mid-directory never reaches the empty batch.
	if c, ok := reader.(io.Closer); ok {
		defer c.Close()
	}

	var entries []Entry
	batches := 0
	for {
		var batch []Entry
		err := t.call(ctx, "readEntries", path, func() error {
			var err error
			batch, err = reader.ReadEntries(ctx)
			return err
		})
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}
		batches++
		entries = append(entries, batch...)
	}

	t.log.Debug("read directory entries",
		zap.String("path", path),
		zap.Int("entries", len(entries)),
		zap.Int("batches", batches))

	nodes := make([]node, 0, len(entries))
	for _, e := range entries {
		if e == nil {
			continue
		}
		nodes = append(nodes, entryNode{e})
	}
	return nodes, nil
}
