package compare

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"dropwalk/internal/manifest"
)

type ChangeType string

const (
	Added    ChangeType = "ADDED"
	Modified ChangeType = "MODIFIED"
	Removed  ChangeType = "REMOVED"
)

type Change struct {
	Type     ChangeType
	Path     string
	OldEntry *manifest.Entry
	NewEntry *manifest.Entry
}

type CompareResult struct {
	Added    []Change
	Modified []Change
	Removed  []Change
	// Reordered is set when both drops hold the same paths in a different order
	Reordered bool
}

func (r *CompareResult) HasChanges() bool {
	return len(r.Added) > 0 || len(r.Modified) > 0 || len(r.Removed) > 0 || r.Reordered
}

// index keys entries by path. Duplicate paths keep the first occurrence.
func index(m *manifest.Manifest) map[string]manifest.Entry {
	entries := make(map[string]manifest.Entry, len(m.Files))
	for _, e := range m.Files {
		if _, seen := entries[e.Path]; !seen {
			entries[e.Path] = e
		}
	}
	return entries
}

func Compare(oldDrop, newDrop *manifest.Manifest) *CompareResult {
	result := &CompareResult{
		Added:    make([]Change, 0),
		Modified: make([]Change, 0),
		Removed:  make([]Change, 0),
	}

	oldEntries := index(oldDrop)
	newEntries := index(newDrop)

	// Check for added and modified files
	for path, newEntry := range newEntries {
		if oldEntry, exists := oldEntries[path]; exists {
			// File in both drops - check if modified
			if oldEntry.Size != newEntry.Size || oldEntry.MTime != newEntry.MTime {
				oldCopy := oldEntry
				newCopy := newEntry
				result.Modified = append(result.Modified, Change{
					Type:     Modified,
					Path:     path,
					OldEntry: &oldCopy,
					NewEntry: &newCopy,
				})
			}
		} else {
			// File only in new drop - added
			newCopy := newEntry
			result.Added = append(result.Added, Change{
				Type:     Added,
				Path:     path,
				NewEntry: &newCopy,
			})
		}
	}

	// Check for removed files
	for path, oldEntry := range oldEntries {
		if _, exists := newEntries[path]; !exists {
			oldCopy := oldEntry
			result.Removed = append(result.Removed, Change{
				Type:     Removed,
				Path:     path,
				OldEntry: &oldCopy,
			})
		}
	}

	// Sort for deterministic output
	sort.Slice(result.Added, func(i, j int) bool {
		return result.Added[i].Path < result.Added[j].Path
	})
	sort.Slice(result.Modified, func(i, j int) bool {
		return result.Modified[i].Path < result.Modified[j].Path
	})
	sort.Slice(result.Removed, func(i, j int) bool {
		return result.Removed[i].Path < result.Removed[j].Path
	})

	if len(result.Added) == 0 && len(result.Removed) == 0 {
		result.Reordered = oldDrop.Fingerprint != newDrop.Fingerprint
	}

	return result
}

func formatTime(unix int64) string {
	if unix == 0 {
		return "unknown"
	}
	return time.Unix(unix, 0).Format("2006-01-02")
}

func FormatReport(result *CompareResult) string {
	if !result.HasChanges() {
		return "No changes detected."
	}

	var report strings.Builder
	report.WriteString("Changes detected:\n\n")

	added := color.New(color.FgGreen)
	modified := color.New(color.FgYellow)
	removed := color.New(color.FgRed)

	if len(result.Added) > 0 {
		report.WriteString(added.Sprintf("ADDED (%d files):", len(result.Added)) + "\n")
		for _, change := range result.Added {
			fmt.Fprintf(&report, "  + %s (size: %d bytes)\n", change.Path, change.NewEntry.Size)
		}
		report.WriteString("\n")
	}

	if len(result.Modified) > 0 {
		report.WriteString(modified.Sprintf("MODIFIED (%d files):", len(result.Modified)) + "\n")
		for _, change := range result.Modified {
			fmt.Fprintf(&report, "  ~ %s\n", change.Path)
			fmt.Fprintf(&report, "    Old: size=%d bytes, modified=%s\n",
				change.OldEntry.Size, formatTime(change.OldEntry.MTime))
			fmt.Fprintf(&report, "    New: size=%d bytes, modified=%s\n",
				change.NewEntry.Size, formatTime(change.NewEntry.MTime))
		}
		report.WriteString("\n")
	}

	if len(result.Removed) > 0 {
		report.WriteString(removed.Sprintf("REMOVED (%d files):", len(result.Removed)) + "\n")
		for _, change := range result.Removed {
			fmt.Fprintf(&report, "  - %s (size: %d bytes)\n", change.Path, change.OldEntry.Size)
		}
		report.WriteString("\n")
	}

	if result.Reordered {
		report.WriteString("Order changed: the same files resolve in a different order.\n\n")
	}

	fmt.Fprintf(&report, "Summary: %d added, %d modified, %d removed\n",
		len(result.Added), len(result.Modified), len(result.Removed))

	return report.String()
}
