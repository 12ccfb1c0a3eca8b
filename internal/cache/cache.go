// Package cache keeps the backend collections between reads. Entries are dropped explicitly after a
// successful action so the next read refetches.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"canna-backoffice-requests/internal/logger"

	"golang.org/x/sync/singleflight"
)

// SharedFetchTimeout bounds a fetch that concurrent callers wait on together.
const SharedFetchTimeout = 30 * time.Second

const (
	KeyOrganizations      = "organizations"
	KeyPlanChangeRequests = "plan-change-requests"
)

// Store holds serialized collections.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Loader reads through a Store. Concurrent misses on the same key share one fetch, and a fetch
// that started before an Invalidate never repopulates the store.
type Loader struct {
	store Store
	ttl   time.Duration
	group singleflight.Group

	mu   sync.Mutex
	gens map[string]uint64
}

func NewLoader(store Store, ttl time.Duration) *Loader {
	return &Loader{
		store: store,
		ttl:   ttl,
		gens:  make(map[string]uint64),
	}
}

func (l *Loader) generation(key string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gens[key]
}

// Invalidate drops the given keys. It is serialized with stores made by Load.
func (l *Loader) Invalidate(ctx context.Context, keys ...string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, k := range keys {
		l.gens[k]++
	}

	if err := l.store.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("failed to invalidate %v: %w", keys, err)
	}
	logger.Debug("Cache invalidated", "keys", keys)
	return nil
}

// storeIfCurrent writes value unless key was invalidated after gen was read.
func (l *Loader) storeIfCurrent(ctx context.Context, key string, gen uint64, value []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gens[key] != gen {
		logger.Debug("Discarding fetch started before invalidation", "key", key)
		return
	}
	if err := l.store.Set(ctx, key, value, l.ttl); err != nil {
		logger.Warn("Cache write failed", "key", key, "error", err)
	}
}

// Load returns the cached value for key or fetches, stores and returns it. Every caller gets its
// own decoded copy.
func Load[T any](ctx context.Context, l *Loader, key string, fetch func(context.Context) (T, error)) (T, error) {
	var out T

	data, ok, err := l.store.Get(ctx, key)
	switch {
	case err != nil:
		logger.Warn("Cache read failed, fetching", "key", key, "error", err)
	case ok:
		if err := json.Unmarshal(data, &out); err == nil {
			return out, nil
		}
		logger.Warn("Cache entry undecodable, fetching", "key", key)
	}

	gen := l.generation(key)
	ch := l.group.DoChan(fmt.Sprintf("%s#%d", key, gen), func() (any, error) {
		// Shared by every caller on this key, so no single caller's cancellation applies.
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), SharedFetchTimeout)
		defer cancel()

		val, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		encoded, err := json.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", key, err)
		}
		l.storeIfCurrent(fetchCtx, key, gen, encoded)
		return encoded, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return out, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return out, res.Err
	}
	v := res.Val

	if err := json.Unmarshal(v.([]byte), &out); err != nil {
		return out, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return out, nil
}
