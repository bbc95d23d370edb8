package solver

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/bastiangx/ringserve/pkg/ring"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// Status tells why a solve ended the way it did.
type Status int

const (
	StatusOK Status = iota
	StatusInvalidRing
	StatusEmptyVocabulary
	StatusNoCandidates
	StatusNoPairs
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusInvalidRing:
		return "invalid_ring"
	case StatusEmptyVocabulary:
		return "empty_vocabulary"
	case StatusNoCandidates:
		return "no_candidates"
	case StatusNoPairs:
		return "no_pairs"
	default:
		return "unknown"
	}
}

// Result is the outcome of one solve request.
type Result struct {
	Ring   string `msgpack:"ring"`
	Status Status `msgpack:"status"`
	// Err explains StatusInvalidRing.
	Err error `msgpack:"-"`

	Bigrams    int `msgpack:"bigrams"`
	Candidates int `msgpack:"candidates"`
	RawPairs   int `msgpack:"raw_pairs"`

	Pairs []Pair `msgpack:"pairs"`
	// CandidateWords lists the candidates, sorted, when no pair matched.
	CandidateWords []string `msgpack:"candidate_words,omitempty"`

	Elapsed time.Duration `msgpack:"elapsed"`
}

// OK reports whether at least one pair was found.
func (r Result) OK() bool {
	return r.Status == StatusOK
}

// Solver solves rings against one immutable vocabulary.
type Solver struct {
	vocab   Vocabulary
	lemmas  Lemmatizer
	minLen  int
	workers int

	once  sync.Once
	words []string
}

// Option configures a Solver.
type Option func(*Solver)

// WithLemmatizer enables the base form check.
func WithLemmatizer(l Lemmatizer) Option {
	return func(s *Solver) {
		s.lemmas = l
	}
}

// WithMinWordLen overrides DefaultMinWordLen.
func WithMinWordLen(n int) Option {
	return func(s *Solver) {
		if n > 0 {
			s.minLen = n
		}
	}
}

// WithWorkers bounds how many rings SolveAll works on at once.
func WithWorkers(n int) Option {
	return func(s *Solver) {
		if n > 0 {
			s.workers = n
		}
	}
}

// New creates a solver. vocab may be nil, which behaves as an empty vocabulary.
func New(vocab Vocabulary, opts ...Option) *Solver {
	s := &Solver{
		vocab:   vocab,
		minLen:  DefaultMinWordLen,
		workers: 4,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Solver) vocabWords() []string {
	s.once.Do(func() {
		if s.vocab != nil {
			s.words = s.vocab.Words()
		}
	})
	return s.words
}

// Solve finds up to limit ranked pairs for the ring given as letters.
// limit <= 0 returns every distinct pair.
func (s *Solver) Solve(letters string, limit int) Result {
	start := time.Now()
	res := Result{Ring: letters}
	defer func() {
		log.Debug("solved", "ring", res.Ring, "status", res.Status,
			"bigrams", res.Bigrams, "candidates", res.Candidates,
			"pairs", res.RawPairs, "took", res.Elapsed)
	}()

	r, err := ring.Parse(letters)
	if err != nil {
		res.Status = StatusInvalidRing
		res.Err = err
		res.Elapsed = time.Since(start)
		return res
	}
	res.Ring = r.String()

	filter := NewFilter(r, s.lemmas, s.minLen)
	res.Bigrams = filter.Bigrams()

	words := s.vocabWords()
	if len(words) == 0 {
		res.Status = StatusEmptyVocabulary
		res.Elapsed = time.Since(start)
		return res
	}

	cands := filter.Candidates(words)
	res.Candidates = len(cands)
	if len(cands) == 0 {
		res.Status = StatusNoCandidates
		res.Elapsed = time.Since(start)
		return res
	}

	raw := MatchPairs(cands, r.LetterSet(), s.vocab)
	res.RawPairs = len(raw)

	ranked, err := Rank(raw, limit)
	if errors.Is(err, ErrNoResults) {
		res.Status = StatusNoPairs
		res.CandidateWords = candidateWords(cands)
		res.Elapsed = time.Since(start)
		return res
	}
	res.Pairs = ranked
	res.Status = StatusOK
	res.Elapsed = time.Since(start)
	return res
}

// SolveAll solves independent rings concurrently and returns the results in
// the order of rings. It stops early only when ctx is cancelled.
func (s *Solver) SolveAll(ctx context.Context, rings []string, limit int) ([]Result, error) {
	s.vocabWords()

	results := make([]Result, len(rings))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, letters := range rings {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = s.Solve(letters, limit)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func candidateWords(cands []Candidate) []string {
	words := make([]string, len(cands))
	for i, c := range cands {
		words[i] = c.Word
	}
	sort.Strings(words)
	return words
}
