// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryCache keeps resolved content in process. It is the default backend
// when no Redis URL is configured.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	bytes   int64

	defaultTTL time.Duration
	maxItems   int
	stop       chan struct{}
	closed     atomic.Bool

	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// MemoryCacheOptions configures the memory cache.
type MemoryCacheOptions struct {
	DefaultTTL time.Duration
	// MaxSize bounds the number of entries; 0 means unbounded.
	MaxSize int
	// CleanupInterval is how often expired entries are swept; 0 disables sweeping.
	CleanupInterval time.Duration
}

// NewMemoryCache creates a memory cache and starts its sweeper.
func NewMemoryCache(opts MemoryCacheOptions) *MemoryCache {
	c := &MemoryCache{
		entries:    make(map[string]memoryEntry),
		defaultTTL: opts.DefaultTTL,
		maxItems:   opts.MaxSize,
		stop:       make(chan struct{}),
	}
	if opts.CleanupInterval > 0 {
		go c.sweepLoop(opts.CleanupInterval)
	}
	return c
}

// NewSimpleMemoryCache creates an unbounded memory cache with a TTL.
func NewSimpleMemoryCache(ttl time.Duration) *MemoryCache {
	return NewMemoryCache(MemoryCacheOptions{DefaultTTL: ttl, CleanupInterval: time.Minute})
}

// Get returns a copy of the stored value.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || e.expired(time.Now()) {
		c.misses.Add(1)
		return nil, ErrCacheMiss
	}
	c.hits.Add(1)
	return append([]byte(nil), e.value...), nil
}

// Set stores a copy of value. When the cache is full the entry closest to
// expiry makes room.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	now := time.Now()
	e := memoryEntry{value: append([]byte(nil), value...), expiresAt: now.Add(ttl)}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, replacing := c.entries[key]; !replacing && c.maxItems > 0 && len(c.entries) >= c.maxItems {
		c.sweepLocked(now)
		if len(c.entries) >= c.maxItems {
			c.evictLocked()
		}
	}
	c.putLocked(key, e)
	c.sets.Add(1)
	return nil
}

// DeleteNamespace removes every key of ns.
func (c *MemoryCache) DeleteNamespace(_ context.Context, ns Namespace) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	prefix := ns.prefix()

	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			c.removeLocked(key)
		}
	}
	return nil
}

// Close stops the sweeper. Later calls fail with ErrCacheClosed.
func (c *MemoryCache) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		close(c.stop)
	}
	return nil
}

// Stats returns current cache statistics.
func (c *MemoryCache) Stats() Stats {
	c.mu.RLock()
	items, size := len(c.entries), c.bytes
	c.mu.RUnlock()

	hits, misses := c.hits.Load(), c.misses.Load()
	return Stats{
		Hits:    hits,
		Misses:  misses,
		Sets:    c.sets.Load(),
		Items:   items,
		HitRate: hitRate(hits, misses),
		Size:    size,
	}
}

func (c *MemoryCache) putLocked(key string, e memoryEntry) {
	c.removeLocked(key)
	c.entries[key] = e
	c.bytes += int64(len(e.value))
}

func (c *MemoryCache) removeLocked(key string) {
	if old, ok := c.entries[key]; ok {
		delete(c.entries, key)
		c.bytes -= int64(len(old.value))
	}
}

func (c *MemoryCache) sweepLocked(now time.Time) {
	for key, e := range c.entries {
		if e.expired(now) {
			c.removeLocked(key)
		}
	}
}

func (c *MemoryCache) evictLocked() {
	var (
		victim string
		soon   time.Time
		found  bool
	)
	for key, e := range c.entries {
		if !found || e.expiresAt.Before(soon) {
			victim, soon, found = key, e.expiresAt, true
		}
	}
	if found {
		c.removeLocked(victim)
	}
}

func (c *MemoryCache) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			c.mu.Lock()
			c.sweepLocked(now)
			c.mu.Unlock()
		case <-c.stop:
			return
		}
	}
}

var (
	_ Cacher        = (*MemoryCache)(nil)
	_ StatsProvider = (*MemoryCache)(nil)
)
