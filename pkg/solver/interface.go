/*
Package solver finds pairs of words that solve a letter ring.

A pair solves the ring when the first word ends with the letter the second
word starts with, the two words together use exactly the ring's letters, and
neither word places two ring neighbors next to each other. Solving runs four
stages:

	adjacency   ring.Ring.Adjacency builds the forbidden letter pairs
	filter      Filter keeps vocabulary words usable for this ring
	match       MatchPairs tests every candidate pair for chaining and coverage
	rank        Rank sorts by score, drops duplicate pairs and limits the list

Solver wires the stages together against a Vocabulary and an optional
Lemmatizer:

	s := solver.New(vocabulary, solver.WithLemmatizer(table))
	res := s.Solve("arbeits", 10)
	if res.Status != solver.StatusOK {
		// res.Status says why nothing was found
	}

Every stage is a pure in-memory computation; a Solver can be shared between
goroutines and SolveAll uses that to work on several rings at once.
*/
package solver

// Vocabulary is the word source a Solver filters.
type Vocabulary interface {
	// Words returns every word. The order does not affect results.
	Words() []string

	// Score sums the known frequencies of words; unknown words count 0.
	Score(words ...string) int
}

// Lemmatizer reports the base form of a word.
type Lemmatizer interface {
	// Lemma returns the base form of word, or false when there is no analysis.
	Lemma(word string) (string, bool)
}

// Scorer is the part of Vocabulary that MatchPairs needs.
type Scorer interface {
	Score(words ...string) int
}
