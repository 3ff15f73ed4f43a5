// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Backend types.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// CacheConfig holds configuration for cache creation.
type CacheConfig struct {
	// RedisURL selects the Redis backend when set.
	RedisURL string
	Prefix   string
	// FallbackToMemory uses the memory backend when Redis is unreachable.
	FallbackToMemory bool
	DefaultTTL       time.Duration
	MaxSize          int // memory backend only
	CleanupInterval  time.Duration
}

// CacheResult reports which backend NewCache produced.
type CacheResult struct {
	Cache       Cacher
	BackendType string
	IsFallback  bool
}

// NewCache creates the configured cache backend.
func NewCache(cfg CacheConfig) (CacheResult, error) {
	if cfg.RedisURL != "" {
		rc, err := NewRedisCache(RedisCacheOptions{URL: cfg.RedisURL, Prefix: cfg.Prefix, DefaultTTL: cfg.DefaultTTL})
		if err == nil {
			slog.Info("using redis cache", "url", maskRedisURL(cfg.RedisURL))
			return CacheResult{Cache: rc, BackendType: CacheBackendRedis}, nil
		}
		if !cfg.FallbackToMemory {
			return CacheResult{}, fmt.Errorf("connecting to redis: %w", err)
		}
		slog.Warn("redis unavailable, falling back to memory cache",
			"category", "cache",
			"url", maskRedisURL(cfg.RedisURL),
			"error", err)
		return CacheResult{Cache: newMemory(cfg), BackendType: CacheBackendMemory, IsFallback: true}, nil
	}

	return CacheResult{Cache: newMemory(cfg), BackendType: CacheBackendMemory}, nil
}

func newMemory(cfg CacheConfig) *MemoryCache {
	cleanup := cfg.CleanupInterval
	if cleanup == 0 {
		cleanup = time.Minute
	}
	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxSize:         cfg.MaxSize,
		CleanupInterval: cleanup,
	})
}

// maskRedisURL hides credentials in a Redis URL for logging.
func maskRedisURL(url string) string {
	scheme, rest, ok := strings.Cut(url, "://")
	if !ok {
		return url
	}
	at := strings.LastIndex(rest, "@")
	if at < 0 {
		return url
	}
	return scheme + "://***@" + rest[at+1:]
}
