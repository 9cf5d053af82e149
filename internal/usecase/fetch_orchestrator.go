package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
)

const (
	defaultFetchWorkers     = 8
	defaultFetchItemTimeout = 30 * time.Second
)

// KeySet is an unordered set of entity keys.
type KeySet[K comparable] map[K]struct{}

func NewKeySet[K comparable](keys ...K) KeySet[K] {
	out := make(KeySet[K], len(keys))
	for _, key := range keys {
		out[key] = struct{}{}
	}
	return out
}

func (s KeySet[K]) Add(key K) {
	s[key] = struct{}{}
}

func (s KeySet[K]) Has(key K) bool {
	_, ok := s[key]
	return ok
}

// Difference returns the keys of s missing from other.
func (s KeySet[K]) Difference(other KeySet[K]) KeySet[K] {
	out := make(KeySet[K], len(s))
	for key := range s {
		if !other.Has(key) {
			out[key] = struct{}{}
		}
	}
	return out
}

func (s KeySet[K]) Keys() []K {
	out := make([]K, 0, len(s))
	for key := range s {
		out = append(out, key)
	}
	return out
}

// FetchFunc loads one entity. It must be idempotent.
type FetchFunc[K comparable, T any] func(ctx context.Context, key K) (T, error)

type FetchOptions struct {
	MaxWorkers  int
	ItemTimeout time.Duration
}

func (o FetchOptions) normalize(items int) FetchOptions {
	if o.MaxWorkers <= 0 {
		o.MaxWorkers = defaultFetchWorkers
	}
	if items > 0 && o.MaxWorkers > items {
		o.MaxWorkers = items
	}
	if o.ItemTimeout <= 0 {
		o.ItemTimeout = defaultFetchItemTimeout
	}
	return o
}

// FetchResult holds the outcome of one differential fetch. Succeeded carries
// values in no particular order.
type FetchResult[K comparable, T any] struct {
	Requested int
	Succeeded []T
	Failed    KeySet[K]
	Errors    map[K]error
	Duration  time.Duration
}

// DiffFetch fetches needed minus cached on a bounded worker pool. A failing
// item never stops the others; results are gathered only after every task
// has finished. The returned error is reserved for pool setup failures.
func DiffFetch[K comparable, T any](
	ctx context.Context,
	needed KeySet[K],
	cached KeySet[K],
	fetch FetchFunc[K, T],
	opts FetchOptions,
) (FetchResult[K, T], error) {
	start := time.Now()
	delta := needed.Difference(cached).Keys()
	result := FetchResult[K, T]{
		Requested: len(delta),
		Failed:    make(KeySet[K]),
		Errors:    make(map[K]error),
	}
	if len(delta) == 0 {
		return result, nil
	}
	if fetch == nil {
		return result, errors.Wrap(ErrInvalidInput, "fetch function is required")
	}
	opts = opts.normalize(len(delta))

	type outcome struct {
		key   K
		value T
		err   error
	}
	outcomes := make([]outcome, len(delta))

	pool, err := ants.NewPool(opts.MaxWorkers)
	if err != nil {
		return result, errors.Wrap(err, "create fetch worker pool")
	}
	defer pool.Release()

	var workers sync.WaitGroup
	var failed atomic.Int32
	for i, key := range delta {
		i, key := i, key
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			value, fetchErr := fetchWithTimeout(ctx, key, fetch, opts.ItemTimeout)
			if fetchErr != nil {
				failed.Add(1)
			}
			outcomes[i] = outcome{key: key, value: value, err: fetchErr}
		}); err != nil {
			workers.Done()
			outcomes[i] = outcome{key: key, err: errors.Wrap(err, "submit fetch task")}
			failed.Add(1)
		}
	}
	workers.Wait()

	result.Succeeded = make([]T, 0, len(delta)-int(failed.Load()))
	for _, item := range outcomes {
		if item.err != nil {
			result.Failed.Add(item.key)
			result.Errors[item.key] = item.err
			continue
		}
		result.Succeeded = append(result.Succeeded, item.value)
	}
	result.Duration = time.Since(start)
	return result, nil
}

// fetchWithTimeout abandons the item once its deadline passes even if fetch
// ignores the context.
func fetchWithTimeout[K comparable, T any](ctx context.Context, key K, fetch FetchFunc[K, T], timeout time.Duration) (T, error) {
	itemCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type reply struct {
		value T
		err   error
	}
	done := make(chan reply, 1)
	go func() {
		value, err := fetch(itemCtx, key)
		done <- reply{value: value, err: err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-itemCtx.Done():
		var zero T
		return zero, errors.Mark(errors.Wrapf(itemCtx.Err(), "fetch %v abandoned", key), ErrNetwork)
	}
}

// WithFallback tries fallback when primary fails. The key only counts as
// failed when both attempts fail.
func WithFallback[K comparable, T any](primary, fallback FetchFunc[K, T]) FetchFunc[K, T] {
	return func(ctx context.Context, key K) (T, error) {
		value, err := primary(ctx, key)
		if err == nil {
			return value, nil
		}
		if ctx.Err() != nil {
			return value, err
		}
		fallbackValue, fallbackErr := fallback(ctx, key)
		if fallbackErr != nil {
			var zero T
			return zero, errors.CombineErrors(err, fallbackErr)
		}
		return fallbackValue, nil
	}
}
