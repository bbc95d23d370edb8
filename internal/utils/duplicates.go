package utils

import (
	"strings"
)

// KeyFilter remembers lowercase keys it has already seen.
// Not safe for concurrent use.
type KeyFilter struct {
	seen map[string]bool
}

// NewKeyFilter creates an empty filter.
func NewKeyFilter() *KeyFilter {
	return &KeyFilter{seen: make(map[string]bool)}
}

// Key joins the lowercase forms of parts with a single space.
func Key(parts ...string) string {
	lowered := make([]string, len(parts))
	for i, p := range parts {
		lowered[i] = Lower(p)
	}
	return strings.Join(lowered, " ")
}

// ShouldInclude reports whether the key built from parts is new, and marks
// it as seen. Returns false for duplicates.
func (f *KeyFilter) ShouldInclude(parts ...string) bool {
	key := Key(parts...)
	if f.seen[key] {
		return false
	}
	f.seen[key] = true
	return true
}

// Len returns the number of distinct keys seen so far.
func (f *KeyFilter) Len() int {
	return len(f.seen)
}
