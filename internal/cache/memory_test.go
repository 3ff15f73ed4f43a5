// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

const testContent Namespace = "content"

func newTestMemoryCache(maxSize int) *MemoryCache {
	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL: time.Hour,
		MaxSize:    maxSize,
	})
}

func cached(c Cacher, key string) bool {
	_, err := c.Get(context.Background(), key)
	return err == nil
}

func TestNamespaceKey(t *testing.T) {
	tests := []struct {
		parts []any
		want  string
	}{
		{[]any{"product", "en", "wax-ribbon"}, "content:product:en:wax-ribbon"},
		{[]any{"products", "tr", "", false, 20, 0}, "content:products:tr::false:20:0"},
		{[]any{"sitemap"}, "content:sitemap"},
	}
	for _, tt := range tests {
		if got := testContent.Key(tt.parts...); got != tt.want {
			t.Errorf("Key(%v) = %q, want %q", tt.parts, got, tt.want)
		}
	}
}

func TestMemoryCache_GetSet(t *testing.T) {
	cache := newTestMemoryCache(100)
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	if _, err := cache.Get(ctx, "missing"); err != ErrCacheMiss {
		t.Errorf("Get(missing) error = %v, want ErrCacheMiss", err)
	}

	key := testContent.Key("product", "en", "wax-ribbon")
	if err := cache.Set(ctx, key, []byte("v1"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	_ = cache.Set(ctx, key, []byte("v2"), 0)

	val, err := cache.Get(ctx, key)
	if err != nil || string(val) != "v2" {
		t.Errorf("Get = (%q, %v), want (v2, nil)", val, err)
	}
	if s := cache.Stats(); s.Items != 1 || s.Size != 2 {
		t.Errorf("overwrite stats = %+v, want 1 item of 2 bytes", s)
	}
}

func TestMemoryCache_Expiration(t *testing.T) {
	cache := newTestMemoryCache(0)
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	_ = cache.Set(ctx, "short", []byte("v"), 20*time.Millisecond)
	time.Sleep(40 * time.Millisecond)

	if _, err := cache.Get(ctx, "short"); err != ErrCacheMiss {
		t.Errorf("expected ErrCacheMiss after expiry, got %v", err)
	}
}

func TestMemoryCache_DeleteNamespace(t *testing.T) {
	cache := newTestMemoryCache(0)
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	_ = cache.Set(ctx, testContent.Key("products", "tr"), []byte("1"), 0)
	_ = cache.Set(ctx, testContent.Key("products", "en"), []byte("2"), 0)
	_ = cache.Set(ctx, "contentious", []byte("3"), 0)
	_ = cache.Set(ctx, Namespace("limits").Key("1.2.3.4"), []byte("4"), 0)

	if err := cache.DeleteNamespace(ctx, testContent); err != nil {
		t.Fatalf("DeleteNamespace failed: %v", err)
	}

	if cached(cache, testContent.Key("products", "tr")) || cached(cache, testContent.Key("products", "en")) {
		t.Error("content key survived DeleteNamespace")
	}
	if !cached(cache, "contentious") {
		t.Error("key sharing only a name prefix was removed")
	}
	if !cached(cache, Namespace("limits").Key("1.2.3.4")) {
		t.Error("other namespace removed")
	}
	if s := cache.Stats(); s.Items != 2 || s.Size != 2 {
		t.Errorf("stats after purge = %+v", s)
	}
}

func TestMemoryCache_MaxSizeEvicts(t *testing.T) {
	cache := newTestMemoryCache(2)
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	_ = cache.Set(ctx, "first", []byte("1"), time.Minute)
	_ = cache.Set(ctx, "second", []byte("2"), time.Hour)
	_ = cache.Set(ctx, "third", []byte("3"), time.Hour)

	if n := cache.Stats().Items; n != 2 {
		t.Errorf("Items = %d, want 2", n)
	}
	if cached(cache, "first") {
		t.Error("entry closest to expiry should have been evicted")
	}

	// Overwriting an existing key never evicts.
	_ = cache.Set(ctx, "second", []byte("2b"), time.Hour)
	if !cached(cache, "third") {
		t.Error("overwrite evicted another entry")
	}
}

func TestMemoryCache_Stats(t *testing.T) {
	cache := newTestMemoryCache(0)
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	_ = cache.Set(ctx, "k", []byte("v"), 0)
	_, _ = cache.Get(ctx, "k")
	_, _ = cache.Get(ctx, "missing")

	stats := cache.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Sets != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.HitRate != 50 {
		t.Errorf("HitRate = %v, want 50", stats.HitRate)
	}
}

func TestMemoryCache_ValueCopy(t *testing.T) {
	cache := newTestMemoryCache(0)
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	original := []byte("value")
	_ = cache.Set(ctx, "k", original, 0)
	original[0] = 'X'

	got, _ := cache.Get(ctx, "k")
	if string(got) != "value" {
		t.Errorf("stored value mutated: %s", got)
	}
	got[0] = 'Y'
	again, _ := cache.Get(ctx, "k")
	if string(again) != "value" {
		t.Errorf("returned value aliases storage: %s", again)
	}
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	cache := newTestMemoryCache(3)
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := testContent.Key("product", n%5)
			_ = cache.Set(ctx, key, []byte("v"), 0)
			_, _ = cache.Get(ctx, key)
			_ = cache.DeleteNamespace(ctx, testContent)
			_ = cache.Stats()
		}(i)
	}
	wg.Wait()
}

func TestMemoryCache_Close(t *testing.T) {
	cache := NewSimpleMemoryCache(time.Minute)
	_ = cache.Close()
	_ = cache.Close()

	ctx := context.Background()
	if _, err := cache.Get(ctx, "k"); err != ErrCacheClosed {
		t.Errorf("Get after Close = %v, want ErrCacheClosed", err)
	}
	if err := cache.Set(ctx, "k", nil, 0); err != ErrCacheClosed {
		t.Errorf("Set after Close = %v, want ErrCacheClosed", err)
	}
	if err := cache.DeleteNamespace(ctx, testContent); err != ErrCacheClosed {
		t.Errorf("DeleteNamespace after Close = %v, want ErrCacheClosed", err)
	}
}

func BenchmarkMemoryCache_Get(b *testing.B) {
	cache := newTestMemoryCache(0)
	defer func() { _ = cache.Close() }()
	ctx := context.Background()
	for i := 0; i < 100; i++ {
		_ = cache.Set(ctx, testContent.Key("product", i), []byte("v"), 0)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = cache.Get(ctx, testContent.Key("product", i%100))
	}
}

func ExampleNamespace_Key() {
	fmt.Println(Namespace("content").Key("category", "de", "thermoetiketten"))
	// Output: content:category:de:thermoetiketten
}
