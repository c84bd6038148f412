package drop

import (
	"context"

	"go.uber.org/zap"
)

// handleNode walks the handle capability. parent is the directory handle the
// node was enumerated from, nil for handles dropped directly.
type handleNode struct {
	Handle
	parent DirectoryHandle
}

func (n handleNode) source() Node { return n.Handle }

func (n handleNode) resolve(ctx context.Context, t *traversal, path string) (ResolvedFile, error) {
	fh, ok := n.Handle.(FileHandle)
	if !ok {
		return ResolvedFile{}, unavailable("file handle", path)
	}

	var blob Blob
	err := t.call(ctx, "getFile", path, func() error {
		var err error
		blob, err = fh.GetFile(ctx)
		return err
	})
	if err != nil {
		return ResolvedFile{}, err
	}

	return ResolvedFile{
		Blob:      blob,
		Path:      path,
		Handle:    fh,
		Directory: n.parent,
	}, nil
}

// children runs the enumerator to completion. Enumeration ending is the only
// exhaustion signal; an empty directory is not an error.
func (n handleNode) children(ctx context.Context, t *traversal, path string) ([]node, error) {
	en, ok := n.Handle.(Enumerator)
	if !ok {
		return nil, unavailable("directory handle enumeration", path)
	}

	var nodes []node
	err := t.call(ctx, "values", path, func() error {
		for child, err := range en.Values(ctx) {
			if err != nil {
				return err
			}
			if child == nil {
				continue
			}
			nodes = append(nodes, handleNode{Handle: child, parent: n.Handle})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	t.log.Debug("enumerated directory handle",
		zap.String("path", path),
		zap.Int("entries", len(nodes)))

	return nodes, nil
}
