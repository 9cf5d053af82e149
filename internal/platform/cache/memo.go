package cache

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/riskibarqy/pitchsync/internal/platform/resilience"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Memo is an in-process keyed memo with optional TTL. Concurrent loads for the
// same key share one call. Failed loads are not stored.
type Memo[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]entry[V]
	ttl     time.Duration
	flight  resilience.Group[K, V]
	now     func() time.Time
}

// NewMemo returns a memo; ttl <= 0 keeps entries for the process lifetime.
func NewMemo[K comparable, V any](ttl time.Duration) *Memo[K, V] {
	return &Memo[K, V]{
		entries: make(map[K]entry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *Memo[K, V]) Get(key K) (V, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		var zero V
		return zero, false
	}
	if m.ttl > 0 && !e.expiresAt.After(m.now()) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		var zero V
		return zero, false
	}
	return e.value, true
}

func (m *Memo[K, V]) Set(key K, value V) {
	var expiresAt time.Time
	if m.ttl > 0 {
		expiresAt = m.now().Add(m.ttl)
	}
	m.mu.Lock()
	m.entries[key] = entry[V]{value: value, expiresAt: expiresAt}
	m.mu.Unlock()
}

func (m *Memo[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Memo[K, V]) GetOrLoad(ctx context.Context, key K, loader func(context.Context) (V, error)) (V, error) {
	if loader == nil {
		var zero V
		return zero, errors.New("loader is required")
	}
	if value, ok := m.Get(key); ok {
		return value, nil
	}

	value, err, _ := m.flight.Do(key, func() (V, error) {
		if cached, ok := m.Get(key); ok {
			return cached, nil
		}
		loaded, err := loader(ctx)
		if err != nil {
			return loaded, err
		}
		m.Set(key, loaded)
		return loaded, nil
	})
	return value, err
}
