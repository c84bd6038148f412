package drop

import "strings"

// Separator joins the names of a relative path.
const Separator = "/"

// JoinPath returns the relative path of name below parent. An empty parent
// means name has no ancestor in the drop, so the result is name alone. Names
// are host-supplied and never cleaned.
func JoinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + Separator + name
}

// Extension returns the token after the last dot of name. Names without a
// dot, or whose only leading dot is at the start, have no extension.
func Extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return ""
	}
	return name[i+1:]
}

// MatchesExtension reports whether name passes the extensions allow-list.
// A nil list matches every name; comparison is case-sensitive and without
// the leading dot.
func MatchesExtension(name string, extensions []string) bool {
	if extensions == nil {
		return true
	}
	ext := Extension(name)
	for _, allowed := range extensions {
		if allowed == ext {
			return true
		}
	}
	return false
}
