// Package manifest records a resolved drop: the ordered file list plus hashes
// that identify it.
package manifest

import "time"

// Entry is one resolved file of a drop.
type Entry struct {
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	MTime    int64  `json:"mtime,omitempty"`
	Selected bool   `json:"selected,omitempty"`
}

type Manifest struct {
	Generator   string    `json:"generator"`
	Created     time.Time `json:"created"`
	Pathway     string    `json:"pathway,omitempty"`
	Fingerprint string    `json:"fingerprint"`
	MerkleRoot  string    `json:"merkle_root"`
	Size        string    `json:"size"`
	TotalSize   int64     `json:"total_size"`
	Files       []Entry   `json:"files"`
}

// Paths returns the relative paths in drop order.
func (m *Manifest) Paths() []string {
	paths := make([]string, 0, len(m.Files))
	for _, f := range m.Files {
		paths = append(paths, f.Path)
	}
	return paths
}
