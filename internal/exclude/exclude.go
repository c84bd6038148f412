// Package exclude turns directory exclusion patterns into a skip predicate
// for drop traversal.
package exclude

import (
	"fmt"
	"path"
	"strings"

	"dropwalk/internal/drop"
)

// Matcher matches directory names against glob patterns. A trailing "/" on a
// pattern is accepted and ignored ("node_modules/" and "node_modules" are the
// same pattern).
type Matcher struct {
	patterns []string
}

// New compiles patterns. It fails on malformed globs.
func New(patterns []string) (*Matcher, error) {
	m := &Matcher{patterns: make([]string, 0, len(patterns))}
	for _, p := range patterns {
		p = strings.TrimSuffix(strings.TrimSpace(p), "/")
		if p == "" {
			continue
		}
		if strings.Contains(p, "/") {
			return nil, fmt.Errorf("exclude pattern %q: patterns match a single directory name", p)
		}
		if _, err := path.Match(p, ""); err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", p, err)
		}
		m.patterns = append(m.patterns, p)
	}
	return m, nil
}

// Match reports whether a directory called name is excluded.
func (m *Matcher) Match(name string) bool {
	for _, pattern := range m.patterns {
		// Exact match first, globs second
		if name == pattern {
			return true
		}
		if matched, _ := path.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

// SkipDirectory is usable as drop.Options.SkipDirectory.
func (m *Matcher) SkipDirectory(dir drop.Node) bool {
	return m.Match(dir.Name())
}

// Empty reports whether the matcher has no patterns.
func (m *Matcher) Empty() bool {
	return len(m.patterns) == 0
}
