/*
Package vocab loads word frequency lists used as the vocabulary for ring
solving.

Three on-disk formats are understood:

	text    one "word count" entry per line; the word must match a pattern
	        and counts below a cutoff are dropped
	list    one word per line, every word has frequency 0
	bin     binary chunks (dict_0001.bin, ...): int32 entry count, then per
	        entry a uint16 byte length, the word and a uint16 rank

Words are kept in a patricia trie keyed by their NFC form. Iteration runs by
descending frequency, so the most common words come first:

	v, err := vocab.Load("de_50k.txt", vocab.DefaultOptions())
	for _, w := range v.Words() {
		...
	}
	score := v.Score("Rand", "Dose")

A loaded Vocab is read-only and safe for concurrent readers.
*/
package vocab

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/bastiangx/ringserve/internal/utils"
	"github.com/tchap/go-patricia/v2/patricia"
)

// LoadStats describes what a load did.
type LoadStats struct {
	Source       string
	Format       Format
	Lines        int
	Loaded       int
	Skipped      int
	BelowCutoff  int
	MaxFrequency int
}

// Vocab maps words to frequencies.
type Vocab struct {
	trie  *patricia.Trie
	size  int
	stats LoadStats
}

// New creates an empty vocabulary.
func New() *Vocab {
	return &Vocab{trie: patricia.NewTrie()}
}

// Add inserts word or raises its frequency by count. Empty words and
// negative counts are ignored.
func (v *Vocab) Add(word string, count int) {
	if word == "" || count < 0 {
		return
	}
	key := patricia.Prefix(utils.NFC(word))
	total := count
	if item := v.trie.Get(key); item != nil {
		total += item.(int)
	} else {
		v.size++
	}
	v.trie.Set(key, total)
	if total > v.stats.MaxFrequency {
		v.stats.MaxFrequency = total
	}
}

// Len returns the number of distinct words.
func (v *Vocab) Len() int {
	return v.size
}

// Frequency returns the count of word and whether it is known.
func (v *Vocab) Frequency(word string) (int, bool) {
	item := v.trie.Get(patricia.Prefix(utils.NFC(word)))
	if item == nil {
		return 0, false
	}
	return item.(int), true
}

// Score sums the frequencies of words; unknown words add 0.
func (v *Vocab) Score(words ...string) int {
	total := 0
	for _, w := range words {
		if freq, ok := v.Frequency(w); ok {
			total += freq
		}
	}
	return total
}

// Entry is a word with its frequency.
type Entry struct {
	Word      string
	Frequency int
}

// Entries returns all words, highest frequency first, ties by word.
func (v *Vocab) Entries() []Entry {
	entries := make([]Entry, 0, v.size)
	v.trie.Visit(func(prefix patricia.Prefix, item patricia.Item) error {
		entries = append(entries, Entry{Word: string(prefix), Frequency: item.(int)})
		return nil
	})
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Frequency != entries[j].Frequency {
			return entries[i].Frequency > entries[j].Frequency
		}
		return entries[i].Word < entries[j].Word
	})
	return entries
}

// Words returns all words in Entries order.
func (v *Vocab) Words() []string {
	entries := v.Entries()
	words := make([]string, len(entries))
	for i, e := range entries {
		words[i] = e.Word
	}
	return words
}

// Stats returns the statistics of the load that built v.
func (v *Vocab) Stats() LoadStats {
	s := v.stats
	s.Loaded = v.size
	return s
}

// Fingerprint identifies the content of v: two vocabularies with the same
// words and frequencies share a fingerprint.
func (v *Vocab) Fingerprint() string {
	h := sha256.New()
	var buf [8]byte
	for _, e := range v.Entries() {
		h.Write([]byte(e.Word))
		binary.LittleEndian.PutUint64(buf[:], uint64(e.Frequency))
		h.Write(buf[:])
	}
	return fmt.Sprintf("%x", h.Sum(nil)[:16])
}
