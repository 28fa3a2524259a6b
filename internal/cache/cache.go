// Package cache memoizes frequency tables for the lifetime of the process.
//
// A table is keyed by the dataset ID and the filter fingerprint. Since the
// dataset never changes while the process runs, entries are only dropped by
// Clear or a restart. An optional shared Storage (Redis in production) lets
// several replicas reuse one computation.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"sentidash/internal/analysis"
	"sentidash/internal/metrics"
)

const keyPrefix = "sentidash:freq:"

// Storage is the subset of fiber.Storage used for the shared tier.
type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte, exp time.Duration) error
	Delete(key string) error
}

// FrequencyCache memoizes frequency tables in memory and, optionally, in a
// shared Storage.
type FrequencyCache struct {
	storage Storage
	ttl     time.Duration
	group   singleflight.Group

	mu    sync.RWMutex
	local map[string]analysis.FrequencyTable
}

// NewFrequencyCache creates a cache. storage may be nil; ttl applies only
// to the shared tier, zero meaning no expiry.
func NewFrequencyCache(storage Storage, ttl time.Duration) *FrequencyCache {
	return &FrequencyCache{
		storage: storage,
		ttl:     ttl,
		local:   make(map[string]analysis.FrequencyTable),
	}
}

// Key builds the cache key for a dataset and filter.
func Key(datasetID, filterFingerprint string) string {
	return keyPrefix + datasetID + ":" + filterFingerprint
}

// Get returns the table stored under key, computing it at most once across
// concurrent callers when absent. The returned table must not be modified.
func (c *FrequencyCache) Get(ctx context.Context, key string, compute func() analysis.FrequencyTable) (analysis.FrequencyTable, error) {
	if t, ok := c.lookupLocal(key); ok {
		metrics.FrequencyCacheTotal.WithLabelValues("hit_local").Inc()
		return t, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if t, ok := c.lookupLocal(key); ok {
			return t, nil
		}

		if t, ok := c.lookupShared(key); ok {
			metrics.FrequencyCacheTotal.WithLabelValues("hit_shared").Inc()
			c.storeLocal(key, t)
			return t, nil
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		metrics.FrequencyCacheTotal.WithLabelValues("miss").Inc()
		start := time.Now()
		t := compute()
		metrics.FrequencyBuildSeconds.Observe(time.Since(start).Seconds())

		c.storeLocal(key, t)
		c.storeShared(key, t)
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(analysis.FrequencyTable), nil
}

// Clear drops every entry this process knows about, locally and in the
// shared tier.
func (c *FrequencyCache) Clear() error {
	c.mu.Lock()
	keys := make([]string, 0, len(c.local))
	for k := range c.local {
		keys = append(keys, k)
	}
	c.local = make(map[string]analysis.FrequencyTable)
	c.mu.Unlock()

	if c.storage == nil {
		return nil
	}
	for _, k := range keys {
		if err := c.storage.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of tables held in memory.
func (c *FrequencyCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.local)
}

func (c *FrequencyCache) lookupLocal(key string) (analysis.FrequencyTable, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.local[key]
	return t, ok
}

func (c *FrequencyCache) storeLocal(key string, t analysis.FrequencyTable) {
	c.mu.Lock()
	c.local[key] = t
	c.mu.Unlock()
}

func (c *FrequencyCache) lookupShared(key string) (analysis.FrequencyTable, bool) {
	if c.storage == nil {
		return nil, false
	}
	data, err := c.storage.Get(key)
	if err != nil {
		slog.Warn("frequency cache read failed", "key", key, "error", err)
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}
	var t analysis.FrequencyTable
	if err := json.Unmarshal(data, &t); err != nil {
		slog.Warn("frequency cache entry corrupt", "key", key, "error", err)
		return nil, false
	}
	return t, true
}

func (c *FrequencyCache) storeShared(key string, t analysis.FrequencyTable) {
	if c.storage == nil {
		return
	}
	data, err := json.Marshal(t)
	if err != nil {
		slog.Warn("frequency cache encode failed", "key", key, "error", err)
		return
	}
	if err := c.storage.Set(key, data, c.ttl); err != nil {
		slog.Warn("frequency cache write failed", "key", key, "error", err)
	}
}
