package ring

import (
	"sort"
	"strings"
)

// Bigram is an ordered pair of letters that are positional neighbors.
type Bigram struct {
	First  rune
	Second rune
}

func (b Bigram) String() string {
	return string([]rune{b.First, b.Second})
}

// Reverse swaps the two letters.
func (b Bigram) Reverse() Bigram {
	return Bigram{First: b.Second, Second: b.First}
}

// AdjacencySet is a set of ordered letter pairs.
type AdjacencySet map[Bigram]struct{}

// Bigrams returns the consecutive pairs of letters. With wrap set the pair
// (last, first) is added, treating letters as a ring.
func Bigrams(letters []rune, wrap bool) AdjacencySet {
	set := make(AdjacencySet, len(letters))
	if len(letters) == 0 {
		return set
	}
	if wrap {
		set[Bigram{letters[len(letters)-1], letters[0]}] = struct{}{}
	}
	for i := 0; i < len(letters)-1; i++ {
		set[Bigram{letters[i], letters[i+1]}] = struct{}{}
	}
	return set
}

// Has reports whether b is in the set.
func (s AdjacencySet) Has(b Bigram) bool {
	_, ok := s[b]
	return ok
}

// Intersects reports whether any pair of other is also in s.
func (s AdjacencySet) Intersects(other AdjacencySet) bool {
	small, large := s, other
	if len(small) > len(large) {
		small, large = large, small
	}
	for b := range small {
		if large.Has(b) {
			return true
		}
	}
	return false
}

// Equal reports whether both sets hold the same pairs.
func (s AdjacencySet) Equal(other AdjacencySet) bool {
	if len(s) != len(other) {
		return false
	}
	for b := range s {
		if !other.Has(b) {
			return false
		}
	}
	return true
}

// Sorted returns the pairs as strings in lexical order.
func (s AdjacencySet) Sorted() []string {
	out := make([]string, 0, len(s))
	for b := range s {
		out = append(out, b.String())
	}
	sort.Strings(out)
	return out
}

func (s AdjacencySet) String() string {
	return "{" + strings.Join(s.Sorted(), " ") + "}"
}

// LetterSet is a set of letters.
type LetterSet map[rune]struct{}

// NewLetterSet collects the distinct letters.
func NewLetterSet(letters []rune) LetterSet {
	set := make(LetterSet, len(letters))
	for _, l := range letters {
		set[l] = struct{}{}
	}
	return set
}

// Has reports whether l is in the set.
func (s LetterSet) Has(l rune) bool {
	_, ok := s[l]
	return ok
}

// SubsetOf reports whether every letter of s is in other.
func (s LetterSet) SubsetOf(other LetterSet) bool {
	for l := range s {
		if !other.Has(l) {
			return false
		}
	}
	return true
}

// Equal reports whether both sets hold the same letters.
func (s LetterSet) Equal(other LetterSet) bool {
	return len(s) == len(other) && s.SubsetOf(other)
}
