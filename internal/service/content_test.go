// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muratkanik/rotabiletiket/internal/cache"
	"github.com/muratkanik/rotabiletiket/internal/locale"
	"github.com/muratkanik/rotabiletiket/internal/model"
	"github.com/muratkanik/rotabiletiket/internal/resolver"
	"github.com/muratkanik/rotabiletiket/internal/store"
	"github.com/muratkanik/rotabiletiket/internal/testutil"
)

func newService(t *testing.T) (*ContentService, *store.Store) {
	t.Helper()
	st := testutil.SeededStore(t)
	return NewContentService(st, nil, 0), st
}

func alternatePath(alts []Alternate, code locale.Code) string {
	for _, a := range alts {
		if a.Locale == code {
			return a.Path
		}
	}
	return ""
}

func TestProduct_Localized(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	p, err := svc.Product(ctx, "direct-thermal-label", locale.EN)
	require.NoError(t, err)

	assert.Equal(t, "Direct Thermal Label", p.Record.Title)
	assert.Equal(t, "Economical label that needs no ribbon.", p.Record.Summary)
	// Untranslated fields fall back to Turkish.
	assert.Equal(t, "Kargo ve lojistik uygulamaları için uygundur.", p.Record.Description)
	assert.Equal(t, "/en/products/direct-thermal-label", p.Path)
	assert.True(t, p.Translated)

	require.Len(t, p.Images, 1)
	assert.Equal(t, "/uploads/products/direkt-termal-2.jpg", p.Images[0].URL)
	assert.Equal(t, "100 mm", p.Record.Specs["width"])

	require.NotNil(t, p.Category)
	assert.Equal(t, "Thermal Labels", p.Category.Record.Title)
	assert.Equal(t, "/en/categories/thermal-labels", p.Category.Path)

	assert.Len(t, p.Alternates, len(locale.Codes()))
	assert.Equal(t, "/products/direkt-termal-etiket", alternatePath(p.Alternates, locale.TR))
	assert.Equal(t, "/ar/products/direct-thermal-ar", alternatePath(p.Alternates, locale.AR))
	assert.Equal(t, "/de/products/direkt-termal-etiket", alternatePath(p.Alternates, locale.DE))
}

func TestProduct_BaseSlugInOtherLocale(t *testing.T) {
	svc, _ := newService(t)

	p, err := svc.Product(context.Background(), "direkt-termal-etiket", locale.EN)
	require.NoError(t, err)
	assert.Equal(t, "Direct Thermal Label", p.Record.Title)
	assert.Equal(t, "direct-thermal-label", p.Slug)
}

func TestProduct_InactiveIsNotFound(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()

	p, err := st.Products.GetBySlug(ctx, "wax-ribon")
	require.NoError(t, err)
	p.IsActive = false
	require.NoError(t, st.Products.Update(ctx, &p))

	_, err = svc.Product(ctx, "wax-ribon", locale.TR)
	assert.ErrorIs(t, err, resolver.ErrNotFound)
}

func TestProduct_NotFound(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Product(context.Background(), "labels", locale.TR)
	assert.ErrorIs(t, err, resolver.ErrNotFound)
}

func TestProducts_ByCategory(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	items, err := svc.Products(ctx, locale.EN, ProductQuery{Category: "ribbons"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Wax Ribbon", items[0].Record.Title)
	assert.Equal(t, "/en/products/wax-ribbon", items[0].Path)

	featured, err := svc.Products(ctx, locale.TR, ProductQuery{FeaturedOnly: true})
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, "direkt-termal-etiket", featured[0].Slug)

	_, err = svc.Products(ctx, locale.EN, ProductQuery{Category: "nope"})
	assert.ErrorIs(t, err, resolver.ErrNotFound)
}

func TestCategory_Detail(t *testing.T) {
	svc, _ := newService(t)

	c, err := svc.Category(context.Background(), "thermoetiketten", locale.DE)
	require.NoError(t, err)

	assert.Equal(t, "Thermoetiketten", c.Record.Title)
	require.Len(t, c.Breadcrumbs, 1)
	assert.Equal(t, "Etiketten", c.Breadcrumbs[0].Record.Title)
	assert.Equal(t, "/de/categories/etiketten", c.Breadcrumbs[0].Path)
	assert.Empty(t, c.Children)
	require.Len(t, c.Products, 1)
	// No German product translation: Turkish title, base slug.
	assert.Equal(t, "Direkt Termal Etiket", c.Products[0].Record.Title)
	assert.Equal(t, "/de/products/direkt-termal-etiket", c.Products[0].Path)
	assert.Equal(t, "/fr/categories/termal-etiketler", alternatePath(c.Alternates, locale.FR))
}

func TestCategory_RootHasChildren(t *testing.T) {
	svc, _ := newService(t)

	c, err := svc.Category(context.Background(), "etiketler", locale.TR)
	require.NoError(t, err)
	assert.Empty(t, c.Breadcrumbs)
	require.Len(t, c.Children, 1)
	assert.Equal(t, "termal-etiketler", c.Children[0].Slug)
	assert.False(t, c.Translated)
}

func TestCategories_AndTree(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	roots, err := svc.Categories(ctx, locale.EN)
	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.Equal(t, "Labels", roots[0].Record.Title)
	assert.Equal(t, "Ribbons", roots[1].Record.Title)

	tree, err := svc.CategoryTree(ctx, locale.EN)
	require.NoError(t, err)
	require.Len(t, tree, 2)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "Thermal Labels", tree[0].Children[0].Record.Title)
	assert.Empty(t, tree[1].Children)
}

func TestBuildCategoryTree_DropsOrphans(t *testing.T) {
	parent := int64(99)
	items := []Item[model.Category]{
		{View: resolver.View[model.Category]{Record: model.Category{RecordBase: model.RecordBase{ID: 1}}}},
		{View: resolver.View[model.Category]{Record: model.Category{RecordBase: model.RecordBase{ID: 2}, ParentID: &parent}}},
	}
	tree := buildCategoryTree(items)
	require.Len(t, tree, 1)
	assert.Empty(t, tree[0].Children)
}

func TestSector_FallbackLocale(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	s, err := svc.Sector(ctx, "lebensmittel", locale.DE)
	require.NoError(t, err)
	assert.Equal(t, "Lebensmittel", s.Record.Title)
	assert.Equal(t, "Gıda ürünleri için etiketleme.", s.Record.Summary)

	// Unknown locales serve default content.
	s, err = svc.Sector(ctx, "lojistik", locale.Code("xx"))
	require.NoError(t, err)
	assert.Equal(t, "Lojistik", s.Record.Title)

	list, err := svc.Sectors(ctx, locale.EN)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Logistics", list[0].Record.Title)
	assert.Equal(t, "Gıda", list[1].Record.Title)
}

func TestArticle_PublishedOnly(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()

	a, err := svc.Article(ctx, "how-to-choose-thermal-labels", locale.EN)
	require.NoError(t, err)
	assert.Equal(t, "How to Choose Thermal Labels", a.Record.Title)
	assert.Equal(t, "/en/blog/how-to-choose-thermal-labels", a.Path)

	draft := model.Article{Slug: "taslak", Title: "Taslak"}
	require.NoError(t, st.Articles.Create(ctx, &draft))

	_, err = svc.Article(ctx, "taslak", locale.TR)
	assert.ErrorIs(t, err, resolver.ErrNotFound)

	list, err := svc.Articles(ctx, locale.TR, 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestHeroSlides(t *testing.T) {
	svc, _ := newService(t)

	slides, err := svc.HeroSlides(context.Background(), locale.EN)
	require.NoError(t, err)
	require.Len(t, slides, 1)
	assert.Equal(t, "Labels for Every Industry", slides[0].Record.Title)
	assert.Equal(t, "20 yılı aşkın üretim tecrübesi", slides[0].Record.Subtitle)
	assert.Equal(t, "Browse Products", slides[0].Record.ButtonText)
}

func TestPage_RendersMarkdown(t *testing.T) {
	svc, _ := newService(t)

	p, err := svc.Page(context.Background(), "privacy-policy", locale.EN)
	require.NoError(t, err)
	assert.Contains(t, p.HTML, "<strong>KVKK</strong>")
	assert.Contains(t, p.HTML, "Privacy Policy</h1>")
	assert.Equal(t, "/pages/gizlilik-politikasi", alternatePath(p.Alternates, locale.TR))
}

func TestRenderer_Sanitizes(t *testing.T) {
	r := NewRenderer()

	html, err := r.Render("Hello <script>alert(1)</script> [x](javascript:alert(1))")
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, "javascript:")

	assert.Equal(t, "<p>ok</p>", r.SanitizeHTML(`<p onclick="x()">ok</p>`))
}

func TestHome(t *testing.T) {
	svc, _ := newService(t)

	home, err := svc.Home(context.Background(), locale.AR)
	require.NoError(t, err)
	assert.Equal(t, locale.AR, home.Locale)
	require.Len(t, home.Slides, 1)
	assert.Equal(t, "ملصقات لكل صناعة", home.Slides[0].Record.Title)
	require.Len(t, home.Featured, 1)
	assert.Equal(t, "/ar/products/direct-thermal-ar", home.Featured[0].Path)
	assert.Len(t, home.Categories, 2)
	assert.Len(t, home.Sectors, 2)
	assert.Len(t, home.Articles, 1)
}

func TestContentService_Cache(t *testing.T) {
	st := testutil.SeededStore(t)
	mem := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = mem.Close() })
	svc := NewContentService(st, mem, time.Minute)
	ctx := context.Background()

	first, err := svc.Product(ctx, "wax-ribbon", locale.EN)
	require.NoError(t, err)
	assert.Equal(t, "Wax Ribbon", first.Record.Title)

	// A write behind the cache stays invisible until invalidation.
	tr := model.ProductTranslation{Title: ptr("Wax Ribbon Pro")}
	tr.SetSlug("wax-ribbon")
	require.NoError(t, st.Products.UpsertTranslation(ctx, first.Record.ID, locale.EN, &tr))

	cached, err := svc.Product(ctx, "wax-ribbon", locale.EN)
	require.NoError(t, err)
	assert.Equal(t, "Wax Ribbon", cached.Record.Title)
	assert.Equal(t, first.Path, cached.Path)

	require.NoError(t, svc.Invalidate(ctx))
	fresh, err := svc.Product(ctx, "wax-ribbon", locale.EN)
	require.NoError(t, err)
	assert.Equal(t, "Wax Ribbon Pro", fresh.Record.Title)

	// Misses are not cached.
	_, err = svc.Product(ctx, "missing", locale.EN)
	require.True(t, errors.Is(err, resolver.ErrNotFound))
	_, err = mem.Get(ctx, CacheNamespace.Key("product", locale.EN, "missing"))
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestStoreFailureIsUnavailable(t *testing.T) {
	st := testutil.TestStore(t)
	svc := NewContentService(st, nil, 0)
	require.NoError(t, st.DB().Close())

	_, err := svc.Product(context.Background(), "anything", locale.EN)
	assert.ErrorIs(t, err, resolver.ErrStoreUnavailable)
	assert.False(t, strings.Contains(err.Error(), "not found"))
}

func ptr(s string) *string { return &s }
