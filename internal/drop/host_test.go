package drop

import (
	"context"
	"iter"
	"math/rand/v2"
	"sync/atomic"
	"time"
)

// memHost records how the traversal uses an in-memory tree.
type memHost struct {
	inflight atomic.Int64
	peak     atomic.Int64
	reads    atomic.Int64
}

// enter marks the start of a host call and sleeps a random while so that
// sibling calls complete out of order.
func (h *memHost) enter() func() {
	if h == nil {
		jitter()
		return func() {}
	}
	n := h.inflight.Add(1)
	for {
		p := h.peak.Load()
		if n <= p || h.peak.CompareAndSwap(p, n) {
			break
		}
	}
	jitter()
	return func() { h.inflight.Add(-1) }
}

func jitter() {
	time.Sleep(time.Duration(rand.IntN(500)) * time.Microsecond)
}

type memNode struct {
	name     string
	dir      bool
	size     int64
	children []*memNode
	err      error // returned by every host call on this node
	noEnum   bool  // directory handle without enumeration
	pageSize int
	host     *memHost
}

func file(name string) *memNode {
	return &memNode{name: name, size: int64(len(name))}
}

func dir(name string, children ...*memNode) *memNode {
	return &memNode{name: name, dir: true, children: children}
}

// attach wires h into every node below nodes.
func attach(h *memHost, nodes ...*memNode) {
	for _, n := range nodes {
		n.host = h
		attach(h, n.children...)
	}
}

func (n *memNode) Name() string       { return n.name }
func (n *memNode) IsFile() bool       { return !n.dir }
func (n *memNode) IsDirectory() bool  { return n.dir }
func (n *memNode) Size() int64        { return n.size }
func (n *memNode) ModTime() time.Time { return time.Unix(0, 0) }

// memEntry exposes a memNode through the legacy entry capability.
type memEntry struct {
	*memNode
}

func (e memEntry) File(ctx context.Context) (Blob, error) {
	defer e.host.enter()()
	if e.err != nil {
		return nil, e.err
	}
	return e.memNode, nil
}

func (e memEntry) CreateReader() DirectoryReader {
	return &memReader{node: e.memNode}
}

type memReader struct {
	node *memNode
	pos  int
}

func (r *memReader) ReadEntries(ctx context.Context) ([]Entry, error) {
	defer r.node.host.enter()()
	if r.node.host != nil {
		r.node.host.reads.Add(1)
	}
	if r.node.err != nil {
		return nil, r.node.err
	}
	size := r.node.pageSize
	if size <= 0 {
		size = 2
	}
	end := min(r.pos+size, len(r.node.children))
	batch := make([]Entry, 0, end-r.pos)
	for _, c := range r.node.children[r.pos:end] {
		batch = append(batch, memEntry{c})
	}
	r.pos = end
	return batch, nil
}

// memHandle exposes a memNode through the handle capability.
type memHandle struct {
	*memNode
}

// bareDirHandle is a directory handle that cannot be enumerated.
type bareDirHandle struct {
	*memNode
}

func handleFor(n *memNode) Handle {
	if n.dir && n.noEnum {
		return bareDirHandle{n}
	}
	return memHandle{n}
}

func (h memHandle) GetFile(ctx context.Context) (Blob, error) {
	defer h.host.enter()()
	if h.err != nil {
		return nil, h.err
	}
	return h.memNode, nil
}

func (h memHandle) Values(ctx context.Context) iter.Seq2[Handle, error] {
	return func(yield func(Handle, error) bool) {
		defer h.host.enter()()
		if h.err != nil {
			yield(nil, h.err)
			return
		}
		for _, c := range h.children {
			if !yield(handleFor(c), nil) {
				return
			}
		}
	}
}

type entryItem struct {
	kind  string
	entry Entry
}

func (i entryItem) Kind() string { return i.kind }
func (i entryItem) Entry() Entry { return i.entry }

type webkitItem struct {
	entry Entry
}

func (i webkitItem) Kind() string       { return KindFile }
func (i webkitItem) WebkitEntry() Entry { return i.entry }

type bothEntryItem struct {
	entry, webkit Entry
}

func (i bothEntryItem) Kind() string       { return KindFile }
func (i bothEntryItem) Entry() Entry       { return i.entry }
func (i bothEntryItem) WebkitEntry() Entry { return i.webkit }

type handleItem struct {
	node *memNode
	err  error
}

func (i handleItem) Kind() string { return KindFile }

func (i handleItem) Handle(ctx context.Context) (Handle, error) {
	if i.node != nil {
		defer i.node.host.enter()()
	}
	if i.err != nil {
		return nil, i.err
	}
	if i.node == nil {
		return nil, nil
	}
	return handleFor(i.node), nil
}

// boundItem returns file handles that only work while the context given to
// Handle is alive.
type boundItem struct{ node *memNode }

func (i boundItem) Kind() string { return KindFile }

func (i boundItem) Handle(ctx context.Context) (Handle, error) {
	return boundHandle{memHandle{i.node}, ctx}, nil
}

type boundHandle struct {
	memHandle
	ctx context.Context
}

func (h boundHandle) GetFile(ctx context.Context) (Blob, error) {
	if err := h.ctx.Err(); err != nil {
		return nil, err
	}
	return h.memHandle.GetFile(ctx)
}

type textItem struct{}

func (textItem) Kind() string { return "string" }

// dropAs builds one item per node exposing the capability of pathway.
func dropAs(pathway Pathway, nodes ...*memNode) []Item {
	items := make([]Item, 0, len(nodes))
	for _, n := range nodes {
		if pathway == PathwayHandle {
			items = append(items, handleItem{node: n})
		} else {
			items = append(items, entryItem{kind: KindFile, entry: memEntry{n}})
		}
	}
	return items
}

var pathways = []Pathway{PathwayEntry, PathwayHandle}

func paths(files []ResolvedFile) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Path)
	}
	return out
}

type recordingObserver struct {
	dirs  atomic.Int64
	files atomic.Int64
}

func (o *recordingObserver) DirectoryEntered(string)   { o.dirs.Add(1) }
func (o *recordingObserver) FileResolved(ResolvedFile) { o.files.Add(1) }
