package cache

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

type memoryEntry struct {
	value   []byte
	access  int64
	expires time.Time
}

// MemoryStore is an in-process Store bounded to maxEntries keys. The least
// recently used key is evicted first.
type MemoryStore struct {
	entries     map[string]*memoryEntry
	accessCount int64
	maxEntries  int
	ttl         time.Duration
	now         func() time.Time
	mu          sync.Mutex
}

// NewMemoryStore creates a store holding at most maxEntries keys. A ttl of
// zero keeps entries until they are evicted.
func NewMemoryStore(maxEntries int, ttl time.Duration) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &MemoryStore{
		entries:    make(map[string]*memoryEntry, maxEntries),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, ErrMiss
	}
	if !e.expires.IsZero() && m.now().After(e.expires) {
		delete(m.entries, key)
		return nil, ErrMiss
	}
	e.access = m.nextAccess()
	return e.value, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[key]; !ok && len(m.entries) >= m.maxEntries {
		m.evictLRU()
	}

	e := &memoryEntry{value: value, access: m.nextAccess()}
	if m.ttl > 0 {
		e.expires = m.now().Add(m.ttl)
	}
	m.entries[key] = e
	return nil
}

// Len returns the number of stored keys, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *MemoryStore) Close() error {
	return nil
}

func (m *MemoryStore) nextAccess() int64 {
	m.accessCount++
	return m.accessCount
}

func (m *MemoryStore) evictLRU() {
	var oldestKey string
	var oldestTime int64 = math.MaxInt64

	for key, e := range m.entries {
		if e.access < oldestTime {
			oldestTime = e.access
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(m.entries, oldestKey)
		log.Debugf("Evicted '%s' from solution cache", oldestKey)
	}
}
