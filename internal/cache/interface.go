// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache provides the response cache for resolved public content.
//
// Keys are grouped in namespaces. A namespace is dropped as a whole when the
// content behind it changes, so backends only need get, set and a namespace
// purge.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Cacher stores raw bytes so memory and Redis backends are interchangeable.
// Implementations are safe for concurrent use.
type Cacher interface {
	// Get returns ErrCacheMiss if the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value; a zero TTL means the backend default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// DeleteNamespace removes every key built by ns.Key.
	DeleteNamespace(ctx context.Context, ns Namespace) error
	Close() error
}

// Pinger is implemented by caches with a remote backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatsProvider is implemented by caches that count their traffic.
type StatsProvider interface {
	Stats() Stats
}

// Stats holds cache statistics. Items and Size are only known in-process.
type Stats struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	Sets    int64   `json:"sets"`
	Items   int     `json:"items"`
	HitRate float64 `json:"hit_rate"`
	Size    int64   `json:"size"`
}

func hitRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

// Namespace is a group of keys invalidated together, e.g. "content".
type Namespace string

// Key returns the key of parts inside the namespace.
func (n Namespace) Key(parts ...any) string {
	return n.prefix() + Key(parts...)
}

func (n Namespace) prefix() string {
	return string(n) + ":"
}

// Key joins parts with ':', so Key("product", "en", "x") is "product:en:x".
func Key(parts ...any) string {
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			b.WriteByte(':')
		}
		_, _ = fmt.Fprint(&b, p)
	}
	return b.String()
}

// Error represents an error type for cache operations.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrCacheMiss indicates the key was not found in cache or has expired.
	ErrCacheMiss Error = "cache miss"

	// ErrCacheClosed indicates the cache has been closed.
	ErrCacheClosed Error = "cache closed"
)
