package cache

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bastiangx/ringserve/internal/utils"
	"github.com/bastiangx/ringserve/pkg/solver"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "ring:"

// SolveFunc computes a result on a cache miss.
type SolveFunc func(letters string, limit int) solver.Result

// SolutionCache puts a Store in front of a solver. Keys include the
// vocabulary fingerprint, so a reloaded word list never sees stale entries.
// Concurrent misses for the same key run the solver once.
type SolutionCache struct {
	store       Store
	fingerprint string
	group       singleflight.Group
	hits        atomic.Int64
	misses      atomic.Int64
}

// New creates a cache over store for the vocabulary identified by fingerprint.
func New(store Store, fingerprint string) *SolutionCache {
	return &SolutionCache{
		store:       store,
		fingerprint: fingerprint,
	}
}

// Solve returns the cached result for letters and limit, or runs solve and
// stores what it returns. The bool reports a cache hit. A result read from
// the store reports the time of the lookup as Elapsed, not that of the solve
// that stored it. Store failures are logged and fall back to solve.
func (c *SolutionCache) Solve(ctx context.Context, letters string, limit int, solve SolveFunc) (solver.Result, bool) {
	start := time.Now()
	key := c.Key(letters, limit)
	if res, ok := c.get(ctx, key); ok {
		c.hits.Add(1)
		res.Elapsed = time.Since(start)
		return res, true
	}
	c.misses.Add(1)

	val, _, _ := c.group.Do(key, func() (interface{}, error) {
		if res, ok := c.get(ctx, key); ok {
			res.Elapsed = time.Since(start)
			return res, nil
		}
		res := solve(letters, limit)
		c.set(ctx, key, res)
		return res, nil
	})
	return val.(solver.Result), false
}

// Stats returns the hit and miss counters.
func (c *SolutionCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Close closes the underlying store.
func (c *SolutionCache) Close() error {
	return c.store.Close()
}

// Key builds the store key. Rings that differ only in case or surrounding
// whitespace share a key.
func (c *SolutionCache) Key(letters string, limit int) string {
	if limit < 0 {
		limit = 0
	}
	raw := fmt.Sprintf("%s|%s|limit=%d", c.fingerprint, utils.Lower(strings.TrimSpace(letters)), limit)
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}

func (c *SolutionCache) get(ctx context.Context, key string) (solver.Result, bool) {
	var res solver.Result
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			log.Warn("cache get failed", "key", key, "err", err)
		}
		return res, false
	}
	if err := msgpack.Unmarshal(data, &res); err != nil {
		log.Warn("cache unmarshal failed", "key", key, "err", err)
		return res, false
	}
	return res, true
}

func (c *SolutionCache) set(ctx context.Context, key string, res solver.Result) {
	// the parse error does not survive encoding
	if res.Status == solver.StatusInvalidRing {
		return
	}
	data, err := msgpack.Marshal(&res)
	if err != nil {
		log.Warn("cache marshal failed", "key", key, "err", err)
		return
	}
	if err := c.store.Set(ctx, key, data); err != nil {
		log.Warn("cache set failed", "key", key, "err", err)
	}
}
