// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"time"
)

// TypedCache stores JSON-encoded values of T inside one namespace.
type TypedCache[T any] struct {
	cache Cacher
	ns    Namespace
	ttl   time.Duration
}

// NewTypedCache creates a TypedCache storing keys in ns.
func NewTypedCache[T any](cache Cacher, ns Namespace, ttl time.Duration) *TypedCache[T] {
	return &TypedCache[T]{cache: cache, ns: ns, ttl: ttl}
}

// Get returns the value of key, or false on a miss or an undecodable entry.
func (c *TypedCache[T]) Get(ctx context.Context, key string) (*T, bool) {
	data, err := c.cache.Get(ctx, c.ns.Key(key))
	if err != nil {
		return nil, false
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, false
	}
	return &value, true
}

// Set stores value under key.
func (c *TypedCache[T]) Set(ctx context.Context, key string, value *T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.cache.Set(ctx, c.ns.Key(key), data, c.ttl)
}

// Invalidate removes every key of the namespace, including keys written by
// caches of other types sharing it.
func (c *TypedCache[T]) Invalidate(ctx context.Context) error {
	return c.cache.DeleteNamespace(ctx, c.ns)
}

// GetOrSet retrieves a value from cache, or calls fn to compute and store it.
// Errors from fn are returned and nothing is cached.
func (c *TypedCache[T]) GetOrSet(ctx context.Context, key string, fn func() (*T, error)) (*T, error) {
	if value, ok := c.Get(ctx, key); ok {
		return value, nil
	}

	value, err := fn()
	if err != nil {
		return nil, err
	}

	// A failed write leaves the computed value valid.
	_ = c.Set(ctx, key, value)

	return value, nil
}
