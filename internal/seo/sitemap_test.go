// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"context"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/muratkanik/rotabiletiket/internal/cache"
	"github.com/muratkanik/rotabiletiket/internal/locale"
	"github.com/muratkanik/rotabiletiket/internal/service"
	"github.com/muratkanik/rotabiletiket/internal/testutil"
)

func TestSitemapBuilderAddHomepage(t *testing.T) {
	builder := NewSitemapBuilder("https://example.com")
	builder.AddHomepage()

	if builder.Len() != len(locale.Codes()) {
		t.Fatalf("urls length = %d, want %d", builder.Len(), len(locale.Codes()))
	}

	home := builder.urls[0]
	if home.Loc != "https://example.com/" {
		t.Errorf("Loc = %q, want %q", home.Loc, "https://example.com/")
	}
	if builder.urls[1].Loc != "https://example.com/en" {
		t.Errorf("Loc = %q, want %q", builder.urls[1].Loc, "https://example.com/en")
	}
	if home.Priority != "1.0" {
		t.Errorf("Priority = %q, want %q", home.Priority, "1.0")
	}
	// Every locale plus x-default.
	if len(home.Alternates) != len(locale.Codes())+1 {
		t.Errorf("alternates = %d, want %d", len(home.Alternates), len(locale.Codes())+1)
	}
}

func TestSitemapBuilderAddEntry(t *testing.T) {
	builder := NewSitemapBuilder("https://example.com")
	updatedAt := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	builder.AddEntry(Entry{
		Paths: map[locale.Code]string{
			locale.TR: "/products/wax-ribon",
			locale.EN: "/en/products/wax-ribbon",
		},
		LastMod:    updatedAt,
		ChangeFreq: ChangeFreqWeekly,
		Priority:   "0.8",
	})

	if builder.Len() != 2 {
		t.Fatalf("urls length = %d, want 2", builder.Len())
	}
	en := builder.urls[1]
	if en.Loc != "https://example.com/en/products/wax-ribbon" {
		t.Errorf("Loc = %q", en.Loc)
	}
	if !strings.Contains(en.LastMod, "2025-01-15") {
		t.Errorf("LastMod = %q, should contain 2025-01-15", en.LastMod)
	}

	want := []AlternateLink{
		{Rel: "alternate", Hreflang: "tr", Href: "https://example.com/products/wax-ribon"},
		{Rel: "alternate", Hreflang: "en", Href: "https://example.com/en/products/wax-ribbon"},
		{Rel: "alternate", Hreflang: XDefault, Href: "https://example.com/products/wax-ribon"},
	}
	if len(en.Alternates) != len(want) {
		t.Fatalf("alternates = %v", en.Alternates)
	}
	for i := range want {
		if en.Alternates[i] != want[i] {
			t.Errorf("alternate[%d] = %+v, want %+v", i, en.Alternates[i], want[i])
		}
	}
}

func TestSitemapBuild(t *testing.T) {
	builder := NewSitemapBuilder("https://example.com")
	builder.AddEntry(Entry{Paths: map[locale.Code]string{locale.TR: "/pages/kvkk"}})

	data, err := builder.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	out := string(data)

	for _, want := range []string{
		xml.Header,
		`xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`,
		`xmlns:xhtml="http://www.w3.org/1999/xhtml"`,
		"<loc>https://example.com/pages/kvkk</loc>",
		`<xhtml:link rel="alternate" hreflang="tr" href="https://example.com/pages/kvkk"></xhtml:link>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("sitemap missing %q\n%s", want, out)
		}
	}
}

func TestSitemapGenerator(t *testing.T) {
	st := testutil.SeededStore(t)
	mem := cache.NewSimpleMemoryCache(time.Minute)
	t.Cleanup(func() { _ = mem.Close() })

	content := service.NewContentService(st, mem, time.Minute)
	gen := NewSitemapGenerator(content, "https://rotabiletiket.com", mem, time.Minute)
	ctx := context.Background()

	data, err := gen.Generate(ctx)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	out := string(data)

	for _, want := range []string{
		"<loc>https://rotabiletiket.com/</loc>",
		"<loc>https://rotabiletiket.com/ar/products/direct-thermal-ar</loc>",
		"<loc>https://rotabiletiket.com/de/categories/thermoetiketten</loc>",
		"<loc>https://rotabiletiket.com/fr/sectors/gida</loc>",
		"<loc>https://rotabiletiket.com/en/blog/how-to-choose-thermal-labels</loc>",
		"<loc>https://rotabiletiket.com/en/pages/privacy-policy</loc>",
		`hreflang="x-default" href="https://rotabiletiket.com/products/direkt-termal-etiket"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("sitemap missing %q", want)
		}
	}

	// 1 home + 2 products + 3 categories + 2 sectors + 1 article + 1 page, each in 5 locales.
	if got, want := strings.Count(out, "<url>"), 10*len(locale.Codes()); got != want {
		t.Errorf("url count = %d, want %d", got, want)
	}

	key := service.CacheNamespace.Key(sitemapCacheKey)
	if _, err := mem.Get(ctx, key); err != nil {
		t.Errorf("sitemap not cached: %v", err)
	}
	if err := content.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}
	if _, err := mem.Get(ctx, key); err != cache.ErrCacheMiss {
		t.Errorf("sitemap survived invalidation: %v", err)
	}
}
