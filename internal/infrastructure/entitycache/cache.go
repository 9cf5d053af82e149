package entitycache

import (
	"context"
	"encoding/json"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
)

// Collection names for the persisted entity types.
const (
	CollectionSchedule = "schedule"
	CollectionBoxScore = "boxscore"
	CollectionCoach    = "coach"
	CollectionVenue    = "venue"
	CollectionTeam     = "team"
	CollectionPlayer   = "player"
	CollectionLedger   = "sync_ledger"
)

// Keyed is implemented by every cached record; the key is its natural identity.
type Keyed[K comparable] interface {
	Key() K
}

// Store persists encoded collections. Save replaces the whole collection
// atomically; Load on a collection that was never saved returns no payloads.
type Store interface {
	Load(ctx context.Context, collection string) ([]json.RawMessage, error)
	Save(ctx context.Context, collection string, payloads []json.RawMessage) error
	Close() error
}

// Cache is a typed view over one collection of a Store.
type Cache[K comparable, T Keyed[K]] struct {
	store      Store
	collection string
}

func New[K comparable, T Keyed[K]](store Store, collection string) *Cache[K, T] {
	return &Cache[K, T]{store: store, collection: collection}
}

func (c *Cache[K, T]) Collection() string {
	return c.collection
}

// Load returns the last persisted collection, or an empty one if none exists.
func (c *Cache[K, T]) Load(ctx context.Context) ([]T, error) {
	payloads, err := c.store.Load(ctx, c.collection)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s cache", c.collection)
	}

	out := make([]T, 0, len(payloads))
	for i, payload := range payloads {
		var item T
		if err := sonic.Unmarshal(payload, &item); err != nil {
			return nil, errors.Wrapf(err, "decode %s cache entry %d", c.collection, i)
		}
		out = append(out, item)
	}
	return out, nil
}

// Save overwrites the persisted collection.
func (c *Cache[K, T]) Save(ctx context.Context, items []T) error {
	payloads := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		payload, err := sonic.Marshal(item)
		if err != nil {
			return errors.Wrapf(err, "encode %s cache entry %v", c.collection, item.Key())
		}
		payloads = append(payloads, payload)
	}
	if err := c.store.Save(ctx, c.collection, payloads); err != nil {
		return errors.Wrapf(err, "save %s cache", c.collection)
	}
	return nil
}

// Extend loads, merges incoming over the persisted state and saves the result.
func (c *Cache[K, T]) Extend(ctx context.Context, incoming []T) ([]T, error) {
	existing, err := c.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(incoming) == 0 {
		return existing, nil
	}
	merged := Merge(existing, incoming)
	if err := c.Save(ctx, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// Merge deduplicates by key with incoming entries winning. A replaced entry
// keeps its original position; new keys are appended in incoming order.
func Merge[K comparable, T Keyed[K]](existing, incoming []T) []T {
	out := make([]T, 0, len(existing)+len(incoming))
	index := make(map[K]int, len(existing)+len(incoming))

	for _, item := range existing {
		key := item.Key()
		if pos, ok := index[key]; ok {
			out[pos] = item
			continue
		}
		index[key] = len(out)
		out = append(out, item)
	}
	for _, item := range incoming {
		key := item.Key()
		if pos, ok := index[key]; ok {
			out[pos] = item
			continue
		}
		index[key] = len(out)
		out = append(out, item)
	}
	return out
}

// Keys returns the key set of a collection.
func Keys[K comparable, T Keyed[K]](items []T) map[K]struct{} {
	out := make(map[K]struct{}, len(items))
	for _, item := range items {
		out[item.Key()] = struct{}{}
	}
	return out
}
