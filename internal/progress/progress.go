package progress

import (
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"

	"dropwalk/internal/drop"
)

var spinner = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Bar shows traversal progress on a terminal. The number of files in a drop
// is unknown until traversal ends, so it counts up instead of filling.
type Bar struct {
	dirs       int64
	files      int64
	frame      int
	writer     io.Writer
	mu         sync.Mutex
	recentDirs []string
	enabled    bool
	lastUpdate time.Time
}

var _ drop.Observer = (*Bar)(nil)

// New returns a bar writing to stdout, enabled only when stdout is a
// terminal.
func New() *Bar {
	return NewWriter(os.Stdout, isTerminal(os.Stdout))
}

// NewWriter returns a bar writing to w.
func NewWriter(w io.Writer, enabled bool) *Bar {
	return &Bar{
		writer:  w,
		enabled: enabled,
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// DirectoryEntered implements drop.Observer.
func (b *Bar) DirectoryEntered(dir string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.dirs++
	// Keep the last three directories for display
	b.recentDirs = append(b.recentDirs, dir)
	if len(b.recentDirs) > 3 {
		b.recentDirs = b.recentDirs[len(b.recentDirs)-3:]
	}
	b.maybeRender()
}

// FileResolved implements drop.Observer.
func (b *Bar) FileResolved(drop.ResolvedFile) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.files++
	b.maybeRender()
}

// Counts returns the directories entered and files resolved so far.
func (b *Bar) Counts() (dirs, files int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dirs, b.files
}

// maybeRender must be called with mu already locked
func (b *Bar) maybeRender() {
	if !b.enabled {
		return
	}

	// Update at most every 100ms to reduce flickering
	now := time.Now()
	if now.Sub(b.lastUpdate) > 100*time.Millisecond {
		b.lastUpdate = now
		b.render()
	}
}

// render must be called with mu already locked
func (b *Bar) render() {
	b.frame = (b.frame + 1) % len(spinner)

	var dirDisplay string
	if len(b.recentDirs) > 0 {
		names := make([]string, 0, len(b.recentDirs))
		for _, d := range b.recentDirs {
			names = append(names, path.Base(d))
		}
		dirDisplay = " | " + strings.Join(names, ", ")
	}

	// Clear the line and write progress
	fmt.Fprintf(b.writer, "\r\033[K%s %d files in %d directories%s",
		spinner[b.frame], b.files, b.dirs, dirDisplay)
}

// Finish clears the progress line.
func (b *Bar) Finish() {
	if !b.enabled {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	fmt.Fprintf(b.writer, "\r\033[K")
}
