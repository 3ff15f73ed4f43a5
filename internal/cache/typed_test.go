// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type listing struct {
	Locale string   `json:"locale"`
	Titles []string `json:"titles"`
}

func TestTypedCache_GetSet(t *testing.T) {
	mem := newTestMemoryCache(0)
	defer func() { _ = mem.Close() }()
	tc := NewTypedCache[listing](mem, testContent, time.Minute)
	ctx := context.Background()

	if _, ok := tc.Get(ctx, "categories:en"); ok {
		t.Error("expected miss before Set")
	}

	in := &listing{Locale: "en", Titles: []string{"Labels", "Ribbons"}}
	if err := tc.Set(ctx, "categories:en", in); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok := tc.Get(ctx, "categories:en")
	if !ok {
		t.Fatal("expected hit")
	}
	if got.Locale != "en" || len(got.Titles) != 2 || got.Titles[0] != "Labels" {
		t.Errorf("got %+v", got)
	}

	if !cached(mem, "content:categories:en") {
		t.Error("key not stored inside the namespace")
	}
}

func TestTypedCache_InvalidateSharedNamespace(t *testing.T) {
	mem := newTestMemoryCache(0)
	defer func() { _ = mem.Close() }()
	lists := NewTypedCache[listing](mem, testContent, time.Minute)
	pages := NewTypedCache[string](mem, testContent, time.Minute)
	other := NewTypedCache[listing](mem, Namespace("limits"), time.Minute)
	ctx := context.Background()

	xml := "<urlset/>"
	_ = lists.Set(ctx, "a", &listing{})
	_ = pages.Set(ctx, "sitemap", &xml)
	_ = other.Set(ctx, "a", &listing{})

	if err := lists.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	if _, ok := lists.Get(ctx, "a"); ok {
		t.Error("entry survived Invalidate")
	}
	if _, ok := pages.Get(ctx, "sitemap"); ok {
		t.Error("entry of another type in the same namespace survived Invalidate")
	}
	if _, ok := other.Get(ctx, "a"); !ok {
		t.Error("Invalidate removed another namespace")
	}
}

func TestTypedCache_GetOrSet(t *testing.T) {
	mem := newTestMemoryCache(0)
	defer func() { _ = mem.Close() }()
	tc := NewTypedCache[listing](mem, testContent, time.Minute)
	ctx := context.Background()

	calls := 0
	fn := func() (*listing, error) {
		calls++
		return &listing{Locale: "tr"}, nil
	}

	for i := 0; i < 3; i++ {
		v, err := tc.GetOrSet(ctx, "k", fn)
		if err != nil || v.Locale != "tr" {
			t.Fatalf("GetOrSet = (%+v, %v)", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}

func TestTypedCache_GetOrSetError(t *testing.T) {
	mem := newTestMemoryCache(0)
	defer func() { _ = mem.Close() }()
	tc := NewTypedCache[listing](mem, testContent, time.Minute)
	ctx := context.Background()

	boom := errors.New("store down")
	if _, err := tc.GetOrSet(ctx, "k", func() (*listing, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if cached(mem, testContent.Key("k")) {
		t.Error("failed computation must not be cached")
	}
}

func TestTypedCache_CorruptEntryIsMiss(t *testing.T) {
	mem := newTestMemoryCache(0)
	defer func() { _ = mem.Close() }()
	tc := NewTypedCache[listing](mem, testContent, time.Minute)
	ctx := context.Background()

	_ = mem.Set(ctx, testContent.Key("bad"), []byte("{not json"), 0)
	if _, ok := tc.Get(ctx, "bad"); ok {
		t.Error("corrupt entry should be a miss")
	}
}
