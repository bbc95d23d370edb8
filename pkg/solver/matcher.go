package solver

import (
	"github.com/bastiangx/ringserve/internal/utils"
	"github.com/bastiangx/ringserve/pkg/ring"
)

// Pair is two words chained head to tail: First ends with the letter Second
// starts with.
type Pair struct {
	Score  int    `msgpack:"sc"`
	First  string `msgpack:"a"`
	Second string `msgpack:"b"`
}

// Key identifies the pair regardless of casing, in chaining order.
func (p Pair) Key() string {
	return utils.Key(p.First, p.Second)
}

// MatchPairs tests every unordered combination of two candidates and returns
// the chained pairs whose letters are exactly letters. Only the junction
// from the first word into the second is checked; the closing junction from
// the second word back into the first is not required.
//
// Candidates are put in canonical order first, so the orientation chosen for
// a pair that chains both ways does not depend on the caller's ordering.
// scorer may be nil, which scores every pair 0.
func MatchPairs(cands []Candidate, letters ring.LetterSet, scorer Scorer) []Pair {
	sorted := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if c.Len() > 0 {
			sorted = append(sorted, c)
		}
	}
	sortCandidates(sorted)

	var pairs []Pair
	for i := 0; i < len(sorted)-1; i++ {
		for j := i + 1; j < len(sorted); j++ {
			first, second := sorted[i], sorted[j]
			if second.Last() == first.First() {
				first, second = second, first
			}
			if first.Last() != second.First() || !covers(first, second, letters) {
				continue
			}

			score := 0
			if scorer != nil {
				score = scorer.Score(first.Word, second.Word)
			}
			pairs = append(pairs, Pair{Score: score, First: first.Word, Second: second.Word})
		}
	}
	return pairs
}

// covers reports whether the letters of a and b together equal letters.
func covers(a, b Candidate, letters ring.LetterSet) bool {
	if !a.letters.SubsetOf(letters) || !b.letters.SubsetOf(letters) {
		return false
	}
	union := len(a.letters)
	for l := range b.letters {
		if !a.letters.Has(l) {
			union++
		}
	}
	return union == len(letters)
}
