package namespace

import (
	"sort"
	"strings"
)

// Path represents a hierarchical event namespace using dot notation.
// Examples: "system.io.file", "app.user.login", "system.io.*"
type Path string

// Constants for path construction and matching.
const (
	// Wildcard is the subtree wildcard segment. Valid only as the final
	// segment of a pattern; it matches everything strictly below the
	// registration point.
	Wildcard = "*"

	// Separator is the character used to separate path segments.
	Separator = "."
)

// String returns the path as a string.
func (p Path) String() string {
	return string(p)
}

// Segments returns the path split by the separator.
func (p Path) Segments() []string {
	if p == "" {
		return nil
	}
	return strings.Split(string(p), Separator)
}

// SegmentCount returns the number of segments in the path.
func (p Path) SegmentCount() int {
	if p == "" {
		return 0
	}
	return strings.Count(string(p), Separator) + 1
}

// Parent returns the parent path by removing the last segment.
// Returns an empty path if there is no parent.
//
// Example: "system.io.file" -> "system.io"
func (p Path) Parent() Path {
	s := string(p)
	idx := strings.LastIndex(s, Separator)
	if idx < 0 {
		return ""
	}
	return Path(s[:idx])
}

// Child returns a child path by appending a segment.
//
// Example: Path("system").Child("io") -> "system.io"
func (p Path) Child(segment string) Path {
	if p == "" {
		return Path(segment)
	}
	return Path(string(p) + Separator + segment)
}

// Base returns the last segment of the path.
//
// Example: "system.io.file" -> "file"
func (p Path) Base() string {
	s := string(p)
	idx := strings.LastIndex(s, Separator)
	if idx < 0 {
		return s
	}
	return s[idx+1:]
}

// HasPrefix returns true if the path starts with the given prefix on a
// whole-segment boundary.
func (p Path) HasPrefix(prefix Path) bool {
	if prefix == "" {
		return true
	}
	s, pre := string(p), string(prefix)
	if !strings.HasPrefix(s, pre) {
		return false
	}
	if len(s) == len(pre) {
		return true
	}
	return s[len(pre)] == '.'
}

// IsWildcard returns true if the path is a wildcard pattern ("*" or
// ending in ".*").
func (p Path) IsWildcard() bool {
	return p == Wildcard || strings.HasSuffix(string(p), Separator+Wildcard)
}

// Prefix returns the portion of a wildcard pattern before the wildcard
// segment. For the bare root wildcard "*" it returns the empty path.
// For a non-wildcard path it returns the path unchanged.
func (p Path) Prefix() Path {
	if p == Wildcard {
		return ""
	}
	if p.IsWildcard() {
		return Path(strings.TrimSuffix(string(p), Separator+Wildcard))
	}
	return p
}

// IsValid returns true if the path is a well-formed concrete namespace.
// A valid path:
//   - Is not empty
//   - Does not start or end with a separator
//   - Does not contain consecutive separators
//   - Does not contain wildcard segments
func (p Path) IsValid() bool {
	if !wellFormed(string(p)) {
		return false
	}
	for _, seg := range p.Segments() {
		if seg == Wildcard {
			return false
		}
	}
	return true
}

// IsValidPattern returns true if the path is a well-formed registration
// pattern: a valid concrete path, the bare wildcard "*", or a valid
// concrete path followed by a ".*" suffix. A wildcard anywhere but the
// final segment is invalid.
func (p Path) IsValidPattern() bool {
	if p == Wildcard {
		return true
	}
	if !wellFormed(string(p)) {
		return false
	}
	segs := p.Segments()
	for i, seg := range segs {
		if seg == Wildcard && i != len(segs)-1 {
			return false
		}
	}
	return true
}

// Matches returns true if this concrete path is covered by the given
// pattern. A literal pattern matches only itself. A wildcard pattern
// matches everything strictly below its prefix; it does not match the
// prefix itself.
func (p Path) Matches(pattern Path) bool {
	if p == pattern {
		return !pattern.IsWildcard()
	}
	if !pattern.IsWildcard() {
		return false
	}
	if pattern == Wildcard {
		return p != ""
	}
	return p.HasPrefix(pattern.Prefix()) && len(p) > len(pattern.Prefix())
}

// wellFormed checks basic dot-notation shape without wildcard rules.
func wellFormed(s string) bool {
	if s == "" {
		return false
	}
	if strings.HasPrefix(s, Separator) || strings.HasSuffix(s, Separator) {
		return false
	}
	return !strings.Contains(s, Separator+Separator)
}

// Sort orders paths lexicographically in place.
func Sort(paths []Path) {
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })
}

// Join joins multiple segments into a path.
func Join(segments ...string) Path {
	return Path(strings.Join(segments, Separator))
}

// Split splits a path string into segments without creating a Path first.
func Split(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, Separator)
}
