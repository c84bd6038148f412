package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dropwalk/internal/manifest"
)

func init() {
	color.NoColor = true
}

// layout creates b/a/test.txt, b/node_modules/x.js and b.txt under a temp dir.
func layout(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	for _, f := range []string{"b/a/test.txt", "b/node_modules/x.js", "b.txt"} {
		full := filepath.Join(tmpDir, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte("content"), 0644))
	}
	return tmpDir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestResolve_RecursiveDrop(t *testing.T) {
	dir := layout(t)

	out, err := run(t, "-r", filepath.Join(dir, "b"), filepath.Join(dir, "b.txt"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	// node_modules is pruned by the default skip list
	assert.Equal(t, "  b/a/test.txt", lines[0])
	assert.Equal(t, "* b.txt", lines[1])
	assert.Contains(t, out, "2 files, 14 bytes")
}

func TestResolve_NotRecursive(t *testing.T) {
	dir := layout(t)

	out, err := run(t, filepath.Join(dir, "b"), filepath.Join(dir, "b.txt"))
	require.NoError(t, err)
	assert.Contains(t, out, "* b.txt")
	assert.NotContains(t, out, "test.txt")
}

func TestResolve_EntryPathwayAndFilters(t *testing.T) {
	dir := layout(t)

	out, err := run(t, "-r", "--pathway", "entry", "--skip", "", "-e", ".js", filepath.Join(dir, "b"))
	require.NoError(t, err)
	assert.Contains(t, out, "  b/node_modules/x.js")
	assert.NotContains(t, out, "test.txt")
	assert.NotContains(t, out, "*")
}

func TestResolve_MissingPath(t *testing.T) {
	_, err := run(t, filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestResolve_InvalidPathway(t *testing.T) {
	dir := layout(t)

	_, err := run(t, "--pathway", "webkit", filepath.Join(dir, "b.txt"))
	assert.Error(t, err)
}

func TestResolveAndCompare(t *testing.T) {
	dir := layout(t)
	first := filepath.Join(t.TempDir(), "first.json")
	second := filepath.Join(t.TempDir(), "second.json")

	_, err := run(t, "-r", "-o", first, filepath.Join(dir, "b"), filepath.Join(dir, "b.txt"))
	require.NoError(t, err)

	m, err := manifest.Load(first)
	require.NoError(t, err)
	assert.Equal(t, []string{"b/a/test.txt", "b.txt"}, m.Paths())
	assert.Equal(t, "handle", m.Pathway)

	_, err = run(t, "-r", "-o", second, filepath.Join(dir, "b"), filepath.Join(dir, "b.txt"))
	require.NoError(t, err)

	out, err := run(t, "compare", first, second)
	require.NoError(t, err)
	assert.Contains(t, out, "No changes detected.")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b", "a", "new.txt"), []byte("x"), 0644))
	_, err = run(t, "-r", "-o", second, filepath.Join(dir, "b"), filepath.Join(dir, "b.txt"))
	require.NoError(t, err)

	out, err = run(t, "compare", first, second)
	assert.ErrorIs(t, err, errChanges)
	assert.Contains(t, out, "+ b/a/new.txt")
}
