package httputil

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/evdash/pkg/cache"
)

// JSONCache stores JSON-marshalable values in a byte cache.
//
// Use [JSONCache.Namespace] to create scoped views that prefix keys:
//
//	nrel := jc.Namespace("nrel:")
//	local := jc.Namespace("file:")
type JSONCache struct {
	store  cache.Cache
	ttl    time.Duration
	prefix string
}

// NewJSONCache wraps store. A nil store disables caching.
func NewJSONCache(store cache.Cache, ttl time.Duration) *JSONCache {
	if store == nil {
		store = cache.NewNullCache()
	}
	return &JSONCache{store: store, ttl: ttl}
}

// TTL returns the time-to-live applied by [JSONCache.Set].
func (c *JSONCache) TTL() time.Duration { return c.ttl }

// Get unmarshals the value stored under key into v.
// It returns false without error on a miss.
func (c *JSONCache) Get(ctx context.Context, key string, v any) (bool, error) {
	data, ok, err := c.store.Get(ctx, c.prefix+key)
	if err != nil || !ok {
		return false, err
	}
	return true, json.Unmarshal(data, v)
}

// Set marshals v and stores it under key.
func (c *JSONCache) Set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, c.prefix+key, data, c.ttl)
}

// Namespace returns a view that prefixes all keys with prefix. Calls can be
// chained.
func (c *JSONCache) Namespace(prefix string) *JSONCache {
	return &JSONCache{store: c.store, ttl: c.ttl, prefix: c.prefix + prefix}
}
