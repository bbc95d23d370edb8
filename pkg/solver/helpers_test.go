package solver

import (
	"sort"
)

// mapVocab is a Vocabulary backed by a map of word frequencies.
type mapVocab map[string]int

func (v mapVocab) Words() []string {
	words := make([]string, 0, len(v))
	for w := range v {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

func (v mapVocab) Score(words ...string) int {
	total := 0
	for _, w := range words {
		total += v[w]
	}
	return total
}

// reversedVocab serves the same words as its base in reverse order.
type reversedVocab struct {
	mapVocab
}

func (v reversedVocab) Words() []string {
	words := v.mapVocab.Words()
	for i, j := 0, len(words)-1; i < j; i, j = i+1, j-1 {
		words[i], words[j] = words[j], words[i]
	}
	return words
}

// lemmaFunc adapts a function to Lemmatizer.
type lemmaFunc func(string) (string, bool)

func (f lemmaFunc) Lemma(word string) (string, bool) {
	return f(word)
}

// hexVocab is built for the ring "abcdef" (neighbors ab bc cd de ef fa).
// Chained pairs covering the ring, with summed frequency:
//
//	bdfc cace   105
//	aceb bdfc    15
//	adfbe ecad   10
//	ecad dbfb     4
//
// "dbfb bdfc" chains but misses a and e, "cace ecad" chains but misses b
// and f, and the remaining words are rejected by the filter.
func hexVocab() mapVocab {
	return mapVocab{
		"aceb":  10,
		"bdfc":  5,
		"adfbe": 7,
		"ecad":  3,
		"cace":  100,
		"dbfb":  1,
		"abce":  50, // ab are neighbors
		"acex":  50, // x is not on the ring
		"acca":  50, // doubled letter
		"ace":   50, // too short
	}
}

func pairWords(pairs []Pair) [][2]string {
	out := make([][2]string, len(pairs))
	for i, p := range pairs {
		out[i] = [2]string{p.First, p.Second}
	}
	return out
}
