package manifest

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	mt "github.com/txaty/go-merkletree"

	"dropwalk/internal/drop"
	"dropwalk/internal/hash"
)

// leaf serializes one entry as a merkle tree data block.
type leaf struct {
	entry Entry
}

func (l leaf) Serialize() ([]byte, error) {
	b := make([]byte, 0, len(l.entry.Path)+32)
	b = append(b, l.entry.Path...)
	b = append(b, 0)
	b = strconv.AppendInt(b, l.entry.Size, 10)
	b = append(b, 0)
	b = strconv.AppendInt(b, l.entry.MTime, 10)
	return b, nil
}

// Build creates a manifest from a resolved drop, keeping drop order.
// The fingerprint hashes the ordered path list; the merkle root covers path,
// size and modification time of every entry, also in drop order.
func Build(files []drop.ResolvedFile, pathway string) (*Manifest, error) {
	m := &Manifest{
		Generator: "dropwalk",
		Created:   time.Now(),
		Pathway:   pathway,
		Files:     make([]Entry, 0, len(files)),
	}

	for _, f := range files {
		e := Entry{Path: f.Path, Selected: f.Selected()}
		if f.Blob != nil {
			e.Size = f.Blob.Size()
			if mod := f.Blob.ModTime(); !mod.IsZero() {
				e.MTime = mod.Unix()
			}
		}
		m.TotalSize += e.Size
		m.Files = append(m.Files, e)
	}

	m.Size = formatSize(m.TotalSize)
	m.Fingerprint = hash.Listing(m.Paths())

	root, err := merkleRoot(m.Files)
	if err != nil {
		return nil, fmt.Errorf("failed to build merkle tree: %w", err)
	}
	m.MerkleRoot = hex.EncodeToString(root)

	return m, nil
}

func merkleRoot(entries []Entry) ([]byte, error) {
	// go-merkletree needs at least two blocks
	switch len(entries) {
	case 0:
		return hash.XXHashFunc([]byte("empty-drop"))
	case 1:
		data, err := leaf{entries[0]}.Serialize()
		if err != nil {
			return nil, err
		}
		return hash.XXHashFunc(data)
	}

	blocks := make([]mt.DataBlock, 0, len(entries))
	for _, e := range entries {
		blocks = append(blocks, leaf{e})
	}

	tree, err := mt.New(&mt.Config{
		HashFunc: hash.XXHashFunc,
		Mode:     mt.ModeTreeBuild,
	}, blocks)
	if err != nil {
		return nil, err
	}
	return tree.Root, nil
}
