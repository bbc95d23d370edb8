/*
Package ring models the letter ring of a puzzle and the neighbor relation its
letters induce.

A ring is a cyclic sequence of distinct letters. Two letters are neighbors
when they sit next to each other on the ring, including the last and first
letter. Words built from the ring must never place two neighbors next to each
other, in either reading direction, so the package derives the full set of
forbidden ordered pairs:

	r, _ := ring.Parse("arbeits")
	adj := r.Adjacency()        // 14 ordered pairs
	adj.Has(ring.Bigram{'s', 'a'}) // true, wrap-around pair

All comparisons use the lowercase form produced by utils.Lower.
*/
package ring

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/bastiangx/ringserve/internal/utils"
)

var (
	ErrEmptyRing       = errors.New("empty ring")
	ErrDuplicateLetter = errors.New("duplicate letter in ring")
	ErrInvalidLetter   = errors.New("ring contains a non-letter")
)

// Ring is an immutable cyclic sequence of distinct lowercase letters.
type Ring struct {
	letters []rune
	set     LetterSet
}

// Parse lowercases s and validates it as a ring.
// Surrounding whitespace is ignored.
func Parse(s string) (*Ring, error) {
	letters := utils.LowerRunes(strings.TrimSpace(s))
	if len(letters) == 0 {
		return nil, ErrEmptyRing
	}

	set := make(LetterSet, len(letters))
	for i, r := range letters {
		if !unicode.IsLetter(r) {
			return nil, fmt.Errorf("%w: %q at position %d", ErrInvalidLetter, r, i)
		}
		if set.Has(r) {
			return nil, fmt.Errorf("%w: %q at position %d", ErrDuplicateLetter, r, i)
		}
		set[r] = struct{}{}
	}
	return &Ring{letters: letters, set: set}, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) *Ring {
	r, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return r
}

// String returns the ring letters in order.
func (r *Ring) String() string {
	return string(r.letters)
}

// Len returns the number of letters.
func (r *Ring) Len() int {
	return len(r.letters)
}

// Letters returns a copy of the letters in ring order.
func (r *Ring) Letters() []rune {
	out := make([]rune, len(r.letters))
	copy(out, r.letters)
	return out
}

// LetterSet returns the set of ring letters. Callers must not modify it.
func (r *Ring) LetterSet() LetterSet {
	return r.set
}

// Reversed returns the same ring walked in the opposite direction.
func (r *Ring) Reversed() *Ring {
	n := len(r.letters)
	rev := make([]rune, n)
	for i, l := range r.letters {
		rev[n-1-i] = l
	}
	return &Ring{letters: rev, set: r.set}
}

// Adjacency returns every ordered pair of ring neighbors: the pairs of the
// ring walked forward, including the wrap pair, united with those of the
// ring walked backward.
//
// A ring of one letter yields only the degenerate pair (l, l), which the
// doubled-letter rule already rejects, so it adds no constraint.
func (r *Ring) Adjacency() AdjacencySet {
	adj := Bigrams(r.letters, true)
	for b := range Bigrams(r.Reversed().letters, true) {
		adj[b] = struct{}{}
	}
	return adj
}
