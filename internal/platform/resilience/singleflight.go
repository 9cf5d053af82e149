package resilience

import (
	"context"
	"sync"
)

// Group collapses concurrent calls that share a key into one execution.
// The zero value is ready to use.
type Group[K comparable, V any] struct {
	mu       sync.Mutex
	inflight map[K]*flight[V]
}

type flight[V any] struct {
	done    chan struct{}
	val     V
	err     error
	waiters int
}

// Do runs fn once per key among concurrent callers. shared reports whether
// the result came from another caller's execution.
func (g *Group[K, V]) Do(key K, fn func() (V, error)) (V, error, bool) {
	return g.DoContext(context.Background(), key, fn)
}

// DoContext is Do where a follower stops waiting once its own ctx is done.
// The leader always runs fn to completion so later followers still share it.
func (g *Group[K, V]) DoContext(ctx context.Context, key K, fn func() (V, error)) (V, error, bool) {
	g.mu.Lock()
	if g.inflight == nil {
		g.inflight = make(map[K]*flight[V])
	}
	if f, ok := g.inflight[key]; ok {
		f.waiters++
		g.mu.Unlock()
		select {
		case <-f.done:
			return f.val, f.err, true
		case <-ctx.Done():
			var zero V
			return zero, ctx.Err(), true
		}
	}

	f := &flight[V]{done: make(chan struct{})}
	g.inflight[key] = f
	g.mu.Unlock()

	f.val, f.err = fn()

	g.mu.Lock()
	delete(g.inflight, key)
	g.mu.Unlock()
	close(f.done)

	return f.val, f.err, f.waiters > 0
}
