package solver

import (
	"sort"

	"github.com/bastiangx/ringserve/internal/utils"
	"github.com/bastiangx/ringserve/pkg/ring"
)

// DefaultMinWordLen is the shortest word the filter accepts.
const DefaultMinWordLen = 4

// Candidate is a word with its comparison form precomputed.
type Candidate struct {
	Word  string
	Lower string

	runes   []rune
	letters ring.LetterSet
	bigrams ring.AdjacencySet
}

// NewCandidate prepares word for filtering and matching.
func NewCandidate(word string) Candidate {
	runes := utils.LowerRunes(word)
	return Candidate{
		Word:    word,
		Lower:   string(runes),
		runes:   runes,
		letters: ring.NewLetterSet(runes),
		bigrams: ring.Bigrams(runes, false),
	}
}

// Len returns the number of letters.
func (c Candidate) Len() int {
	return len(c.runes)
}

// First returns the lowercase first letter. Panics on an empty word.
func (c Candidate) First() rune {
	return c.runes[0]
}

// Last returns the lowercase last letter. Panics on an empty word.
func (c Candidate) Last() rune {
	return c.runes[len(c.runes)-1]
}

// hasDoubledLetter reports two identical consecutive letters.
func (c Candidate) hasDoubledLetter() bool {
	for i := 1; i < len(c.runes); i++ {
		if c.runes[i] == c.runes[i-1] {
			return true
		}
	}
	return false
}

// Filter decides which words may appear in a pair for one ring.
type Filter struct {
	letters   ring.LetterSet
	adjacency ring.AdjacencySet
	lemmas    Lemmatizer
	minLen    int
}

// NewFilter builds a filter for r. lemmas may be nil, which skips the base
// form check. minLen below 1 is raised to 1.
func NewFilter(r *ring.Ring, lemmas Lemmatizer, minLen int) *Filter {
	if minLen < 1 {
		minLen = 1
	}
	return &Filter{
		letters:   r.LetterSet(),
		adjacency: r.Adjacency(),
		lemmas:    lemmas,
		minLen:    minLen,
	}
}

// Bigrams returns the number of forbidden letter pairs.
func (f *Filter) Bigrams() int {
	return len(f.adjacency)
}

// Accept runs the filter on one word.
func (f *Filter) Accept(word string) (Candidate, bool) {
	c := NewCandidate(word)
	if c.Len() < f.minLen {
		return c, false
	}
	if c.hasDoubledLetter() {
		return c, false
	}
	if !c.letters.SubsetOf(f.letters) {
		return c, false
	}
	if c.bigrams.Intersects(f.adjacency) {
		return c, false
	}
	if f.lemmas != nil {
		// no analysis leaves the word in
		if lemma, ok := f.lemmas.Lemma(word); ok && lemma != word {
			return c, false
		}
	}
	return c, true
}

// Candidates returns the distinct accepted words, sorted by lowercase form
// and then by original spelling, so the result is independent of the order
// of words.
func (f *Filter) Candidates(words []string) []Candidate {
	seen := make(map[string]struct{})
	var out []Candidate
	for _, w := range words {
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		if c, ok := f.Accept(w); ok {
			out = append(out, c)
		}
	}
	sortCandidates(out)
	return out
}

func sortCandidates(cands []Candidate) {
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].Lower != cands[j].Lower {
			return cands[i].Lower < cands[j].Lower
		}
		return cands[i].Word < cands[j].Word
	})
}
