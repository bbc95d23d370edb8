// Package cache keeps solved rings so repeated requests skip the solver.
//
// Results are stored as msgpack in a Store. MemoryStore keeps them in the
// process with LRU eviction; RedisStore shares them between processes.
package cache

import (
	"context"
	"errors"
)

// ErrMiss is returned by a Store for unknown or expired keys.
var ErrMiss = errors.New("cache miss")

// Store is a byte-oriented key value store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}
