package solver

import (
	"errors"
	"sort"

	"github.com/bastiangx/ringserve/internal/utils"
)

// ErrNoResults is returned by Rank when there was nothing to rank.
var ErrNoResults = errors.New("no results")

// Rank orders pairs by score, highest first, keeps only the best pair for
// each case-insensitive key and stops after limit pairs. limit <= 0 means no
// bound. Ties are ordered by First, then Second.
//
// An empty input returns ErrNoResults so "nothing matched" stays distinct
// from a ranked list.
func Rank(pairs []Pair, limit int) ([]Pair, error) {
	if len(pairs) == 0 {
		return nil, ErrNoResults
	}

	sorted := make([]Pair, len(pairs))
	copy(sorted, pairs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		if sorted[i].First != sorted[j].First {
			return sorted[i].First < sorted[j].First
		}
		return sorted[i].Second < sorted[j].Second
	})

	filter := utils.NewKeyFilter()
	ranked := make([]Pair, 0, min(len(sorted), capHint(limit)))
	for _, p := range sorted {
		if !filter.ShouldInclude(p.First, p.Second) {
			continue
		}
		ranked = append(ranked, p)
		if limit > 0 && len(ranked) >= limit {
			break
		}
	}
	return ranked, nil
}

func capHint(limit int) int {
	if limit <= 0 {
		return 64
	}
	return limit
}
