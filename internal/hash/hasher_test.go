package hash

import (
	"encoding/hex"
	"testing"

	"github.com/cespare/xxhash/v2"
)

func TestListing_MatchesXXHash(t *testing.T) {
	paths := []string{"a/test.txt", "b.txt"}

	// Compute expected hash
	h := xxhash.New()
	h.Write([]byte("a/test.txt\x00b.txt\x00"))
	expected := hex.EncodeToString(h.Sum(nil))

	if got := Listing(paths); got != expected {
		t.Errorf("Hash mismatch: expected %s, got %s", expected, got)
	}
}

func TestListing_OrderMatters(t *testing.T) {
	a := Listing([]string{"a.txt", "b.txt"})
	b := Listing([]string{"b.txt", "a.txt"})

	if a == b {
		t.Error("Listings in different order should hash differently")
	}
}

func TestListing_NoConcatenationCollision(t *testing.T) {
	a := Listing([]string{"ab", "c"})
	b := Listing([]string{"a", "bc"})

	if a == b {
		t.Error("Listings splitting names differently should hash differently")
	}
}

func TestListing_Empty(t *testing.T) {
	// Empty listing should still produce a valid hash
	if Listing(nil) == "" {
		t.Error("Hash should not be empty string")
	}
}

func TestXXHashFunc(t *testing.T) {
	data := []byte("test data")

	hashBytes, err := XXHashFunc(data)
	if err != nil {
		t.Fatalf("XXHashFunc failed: %v", err)
	}

	if len(hashBytes) != 8 {
		t.Errorf("Expected 8 bytes, got %d", len(hashBytes))
	}

	// Test consistency - same input should produce same output
	hashBytes2, err := XXHashFunc(data)
	if err != nil {
		t.Fatalf("XXHashFunc failed on second call: %v", err)
	}

	if hex.EncodeToString(hashBytes) != hex.EncodeToString(hashBytes2) {
		t.Error("XXHashFunc should be deterministic")
	}
}

func TestXXHashFunc_EmptyData(t *testing.T) {
	hashBytes, err := XXHashFunc([]byte{})
	if err != nil {
		t.Fatalf("XXHashFunc failed: %v", err)
	}

	if len(hashBytes) != 8 {
		t.Errorf("Expected 8 bytes, got %d", len(hashBytes))
	}
}
