package drop

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// node is implemented by both capability variants. The walker only ever
// talks to this interface.
type node interface {
	Node
	source() Node
	resolve(ctx context.Context, t *traversal, path string) (ResolvedFile, error)
	children(ctx context.Context, t *traversal, path string) ([]node, error)
}

// traversal is the state shared by every branch of one Collect call. It is
// read-only once created, apart from skipMu.
type traversal struct {
	opts    Options
	pathway Pathway
	log     *zap.Logger
	sem     *semaphore.Weighted

	// skipMu serializes calls to opts.SkipDirectory.
	skipMu sync.Mutex
}

func newTraversal(opts Options, pathway Pathway) *traversal {
	t := &traversal{
		opts:    opts,
		pathway: pathway,
		log:     opts.Logger,
	}
	if t.log == nil {
		t.log = zap.NewNop()
	}
	t.log = t.log.With(zap.Stringer("pathway", pathway))
	if opts.MaxInFlight > 0 {
		t.sem = semaphore.NewWeighted(int64(opts.MaxInFlight))
	}
	return t
}

// call runs one host primitive, holding an in-flight slot when bounded.
// Slots are never held across a join. Failures of the primitive itself are
// reported as a ReadError for op on path.
func (t *traversal) call(ctx context.Context, op, path string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.sem != nil {
		if err := t.sem.Acquire(ctx, 1); err != nil {
			return err
		}
		defer t.sem.Release(1)
	}
	if err := fn(); err != nil {
		return readError(op, path, err)
	}
	return nil
}

func (t *traversal) skip(dir Node) bool {
	if t.opts.SkipDirectory == nil {
		return false
	}
	t.skipMu.Lock()
	defer t.skipMu.Unlock()
	return t.opts.SkipDirectory(dir)
}

// level gathers the pending work of one directory. Every task writes into
// its own slot so the result order follows enumeration order, not
// completion order.
type level struct {
	g     *errgroup.Group
	ctx   context.Context
	dirs  []*[]ResolvedFile
	files []*ResolvedFile
}

func newLevel(ctx context.Context) *level {
	g, gctx := errgroup.WithContext(ctx)
	return &level{g: g, ctx: gctx}
}

// wait joins the level: every subtree in order, then every direct file.
func (lv *level) wait() ([]ResolvedFile, error) {
	if err := lv.g.Wait(); err != nil {
		return nil, err
	}

	n := len(lv.files)
	for _, d := range lv.dirs {
		n += len(*d)
	}
	out := make([]ResolvedFile, 0, n)
	for _, d := range lv.dirs {
		out = append(out, *d...)
	}
	for _, f := range lv.files {
		out = append(out, *f)
	}
	return out, nil
}

// dispatch starts the work for n at path on lv. Nodes filtered out here are
// dropped without error.
func (t *traversal) dispatch(lv *level, n node, path string) {
	switch {
	case n.IsFile():
		if !MatchesExtension(n.Name(), t.opts.Extensions) {
			t.log.Debug("file filtered by extension", zap.String("path", path))
			return
		}
		slot := new(ResolvedFile)
		lv.files = append(lv.files, slot)
		lv.g.Go(func() error {
			f, err := n.resolve(lv.ctx, t, path)
			if err != nil {
				return err
			}
			*slot = f
			if t.opts.Observer != nil {
				t.opts.Observer.FileResolved(f)
			}
			return nil
		})

	case n.IsDirectory():
		if !t.opts.Recursive {
			t.log.Debug("directory ignored, not recursive", zap.String("path", path))
			return
		}
		if t.skip(n.source()) {
			t.log.Debug("directory skipped", zap.String("path", path))
			return
		}
		slot := new([]ResolvedFile)
		lv.dirs = append(lv.dirs, slot)
		lv.g.Go(func() error {
			files, err := t.walk(lv.ctx, n, path)
			if err != nil {
				return err
			}
			*slot = files
			return nil
		})
	}
}

// walk expands the directory dir whose relative path is path.
func (t *traversal) walk(ctx context.Context, dir node, path string) ([]ResolvedFile, error) {
	if t.opts.Observer != nil {
		t.opts.Observer.DirectoryEntered(path)
	}

	children, err := dir.children(ctx, t, path)
	if err != nil {
		return nil, err
	}

	lv := newLevel(ctx)
	for _, child := range children {
		t.dispatch(lv, child, JoinPath(path, child.Name()))
	}
	return lv.wait()
}

// Collect resolves items into a flat list of files. The capability is
// negotiated once for the whole call. Files dropped directly have their own
// name as path; directories are expanded only when opts.Recursive is set.
// The result lists every directory's files in item order, followed by the
// directly dropped files in item order.
//
// The first failing branch cancels its siblings and fails the call; no
// partial result is returned.
func Collect(ctx context.Context, items []Item, opts Options) ([]ResolvedFile, error) {
	pathway := Negotiate(items)
	t := newTraversal(opts, pathway)

	roots, err := t.roots(ctx, items)
	if err != nil {
		return nil, err
	}

	lv := newLevel(ctx)
	for _, root := range roots {
		t.dispatch(lv, root, JoinPath("", root.Name()))
	}

	files, err := lv.wait()
	if err != nil {
		return nil, fmt.Errorf("failed to collect dropped files: %w", err)
	}

	t.log.Debug("collected dropped files",
		zap.Int("items", len(items)),
		zap.Int("roots", len(roots)),
		zap.Int("files", len(files)))

	return files, nil
}

// roots resolves the top-level node of every item on the negotiated
// pathway, in item order.
func (t *traversal) roots(ctx context.Context, items []Item) ([]node, error) {
	if t.pathway == PathwayEntry {
		roots := make([]node, 0, len(items))
		for _, item := range items {
			if Classify(item) != CapabilityEntry {
				continue
			}
			if e := entryOf(item); e != nil {
				roots = append(roots, entryNode{e})
			}
		}
		return roots, nil
	}

	// Handle getters are asynchronous; resolve them together. The getters
	// receive ctx, not the group context, since their handles outlive g.
	handles := make([]Handle, len(items))
	g, gctx := errgroup.WithContext(ctx)
	for i, item := range items {
		if Classify(item) != CapabilityHandle {
			continue
		}
		getter := item.(HandleGetter)
		g.Go(func() error {
			return t.call(gctx, "handle", "", func() error {
				h, err := getter.Handle(ctx)
				handles[i] = h
				return err
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to resolve dropped handles: %w", err)
	}

	roots := make([]node, 0, len(items))
	for _, h := range handles {
		if h != nil {
			roots = append(roots, handleNode{Handle: h})
		}
	}
	return roots, nil
}
