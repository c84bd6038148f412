package hash

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

// Listing computes the xxHash of an ordered list of relative paths. The
// order is part of the hash.
func Listing(paths []string) string {
	h := xxhash.New()
	for _, p := range paths {
		h.WriteString(p)
		// NUL cannot appear in a file name, so listings never collide by concatenation
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// XXHashFunc is a custom hash function adapter for go-merkletree
// It converts []byte input to xxHash []byte output
func XXHashFunc(data []byte) ([]byte, error) {
	sum := xxhash.Sum64(data)

	// Convert uint64 to []byte in big-endian format
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, sum)
	return buf, nil
}
