// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds sitemaps, robots.txt and meta tags for localized content.
package seo

import (
	"context"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/muratkanik/rotabiletiket/internal/cache"
	"github.com/muratkanik/rotabiletiket/internal/locale"
	"github.com/muratkanik/rotabiletiket/internal/model"
	"github.com/muratkanik/rotabiletiket/internal/resolver"
	"github.com/muratkanik/rotabiletiket/internal/service"
)

// Sitemap XML namespaces.
const (
	XMLNamespace   = "http://www.sitemaps.org/schemas/sitemap/0.9"
	XHTMLNamespace = "http://www.w3.org/1999/xhtml"
)

// XDefault is the hreflang value pointing at the default-locale URL.
const XDefault = "x-default"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Valid change frequency values.
const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
	ChangeFreqYearly  ChangeFreq = "yearly"
)

// AlternateLink is an xhtml:link hreflang alternate of a sitemap URL.
type AlternateLink struct {
	Rel      string `xml:"rel,attr" json:"rel"`
	Hreflang string `xml:"hreflang,attr" json:"hreflang"`
	Href     string `xml:"href,attr" json:"href"`
}

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string          `xml:"loc"`
	LastMod    string          `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq      `xml:"changefreq,omitempty"`
	Priority   string          `xml:"priority,omitempty"`
	Alternates []AlternateLink `xml:"xhtml:link"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	XHTML   string       `xml:"xmlns:xhtml,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// Entry is one record with its path in each locale. Locales missing from
// Paths are not listed.
type Entry struct {
	Paths      map[locale.Code]string
	LastMod    time.Time
	ChangeFreq ChangeFreq
	Priority   string
}

// SitemapBuilder builds sitemap XML from localized entries.
type SitemapBuilder struct {
	siteURL string
	urls    []SitemapURL
}

// NewSitemapBuilder creates a new sitemap builder.
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{
		siteURL: siteURL,
		urls:    make([]SitemapURL, 0),
	}
}

// AddHomepage adds the homepage in every locale.
func (b *SitemapBuilder) AddHomepage() {
	paths := make(map[locale.Code]string, len(locale.Codes()))
	for _, code := range locale.Codes() {
		paths[code] = resolver.Path(resolver.SectionHome, code, "")
	}
	b.AddEntry(Entry{Paths: paths, ChangeFreq: ChangeFreqDaily, Priority: "1.0"})
}

// AddEntry adds one URL per locale of e, each listing every locale as an alternate.
func (b *SitemapBuilder) AddEntry(e Entry) {
	alts := make([]AlternateLink, 0, len(e.Paths)+1)
	for _, code := range locale.Codes() {
		if p, ok := e.Paths[code]; ok {
			alts = append(alts, AlternateLink{Rel: "alternate", Hreflang: string(code), Href: b.siteURL + p})
		}
	}
	if p, ok := e.Paths[locale.Default]; ok {
		alts = append(alts, AlternateLink{Rel: "alternate", Hreflang: XDefault, Href: b.siteURL + p})
	}

	var lastMod string
	if !e.LastMod.IsZero() {
		lastMod = e.LastMod.UTC().Format(time.RFC3339)
	}

	for _, code := range locale.Codes() {
		p, ok := e.Paths[code]
		if !ok {
			continue
		}
		b.urls = append(b.urls, SitemapURL{
			Loc:        b.siteURL + p,
			LastMod:    lastMod,
			ChangeFreq: e.ChangeFreq,
			Priority:   e.Priority,
			Alternates: alts,
		})
	}
}

// Len returns the number of URLs added so far.
func (b *SitemapBuilder) Len() int {
	return len(b.urls)
}

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		XHTML: XHTMLNamespace,
		URLs:  b.urls,
	}

	output := []byte(xml.Header)
	xmlBytes, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(output, xmlBytes...), nil
}

// sitemapCacheKey lives in the content namespace so content writes drop it.
const sitemapCacheKey = "sitemap"

// SitemapGenerator builds the site's sitemap from the content service.
type SitemapGenerator struct {
	content *service.ContentService
	siteURL string
	cache   *cache.TypedCache[string]
}

// NewSitemapGenerator creates a generator. c may be nil to disable caching.
func NewSitemapGenerator(content *service.ContentService, siteURL string, c cache.Cacher, ttl time.Duration) *SitemapGenerator {
	g := &SitemapGenerator{content: content, siteURL: siteURL}
	if c != nil {
		g.cache = cache.NewTypedCache[string](c, service.CacheNamespace, ttl)
	}
	return g
}

// Generate returns the sitemap XML.
func (g *SitemapGenerator) Generate(ctx context.Context) ([]byte, error) {
	if g.cache == nil {
		return g.build(ctx)
	}
	out, err := g.cache.GetOrSet(ctx, sitemapCacheKey, func() (*string, error) {
		data, err := g.build(ctx)
		if err != nil {
			return nil, err
		}
		s := string(data)
		return &s, nil
	})
	if err != nil {
		return nil, err
	}
	return []byte(*out), nil
}

// entrySet groups per-locale paths by record.
type entrySet struct {
	order   []int64
	entries map[int64]*Entry
}

func newEntrySet() *entrySet {
	return &entrySet{entries: make(map[int64]*Entry)}
}

func (s *entrySet) add(id int64, code locale.Code, path string, lastMod time.Time, freq ChangeFreq, priority string) {
	e, ok := s.entries[id]
	if !ok {
		e = &Entry{Paths: make(map[locale.Code]string), LastMod: lastMod, ChangeFreq: freq, Priority: priority}
		s.entries[id] = e
		s.order = append(s.order, id)
	}
	e.Paths[code] = path
}

func (s *entrySet) addTo(b *SitemapBuilder) {
	for _, id := range s.order {
		b.AddEntry(*s.entries[id])
	}
}

func (g *SitemapGenerator) build(ctx context.Context) ([]byte, error) {
	products := newEntrySet()
	categories := newEntrySet()
	sectors := newEntrySet()
	articles := newEntrySet()
	pages := newEntrySet()

	for _, code := range locale.Codes() {
		ps, err := g.content.Products(ctx, code, service.ProductQuery{})
		if err != nil {
			return nil, fmt.Errorf("sitemap products: %w", err)
		}
		for _, p := range ps {
			products.add(p.Record.ID, code, p.Path, p.Record.UpdatedAt, ChangeFreqWeekly, "0.8")
		}

		tree, err := g.content.CategoryTree(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("sitemap categories: %w", err)
		}
		walkCategories(tree, func(c service.Item[model.Category]) {
			categories.add(c.Record.ID, code, c.Path, c.Record.UpdatedAt, ChangeFreqWeekly, "0.7")
		})

		ss, err := g.content.Sectors(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("sitemap sectors: %w", err)
		}
		for _, s := range ss {
			sectors.add(s.Record.ID, code, s.Path, s.Record.UpdatedAt, ChangeFreqMonthly, "0.6")
		}

		as, err := g.content.Articles(ctx, code, 0, 0)
		if err != nil {
			return nil, fmt.Errorf("sitemap articles: %w", err)
		}
		for _, a := range as {
			articles.add(a.Record.ID, code, a.Path, a.Record.UpdatedAt, ChangeFreqMonthly, "0.6")
		}

		pgs, err := g.content.Pages(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("sitemap pages: %w", err)
		}
		for _, p := range pgs {
			pages.add(p.Record.ID, code, p.Path, p.Record.UpdatedAt, ChangeFreqYearly, "0.3")
		}
	}

	b := NewSitemapBuilder(g.siteURL)
	b.AddHomepage()
	for _, set := range []*entrySet{products, categories, sectors, articles, pages} {
		set.addTo(b)
	}
	return b.Build()
}

func walkCategories(nodes []service.CategoryNode, fn func(service.Item[model.Category])) {
	for _, n := range nodes {
		fn(n.Item)
		walkCategories(n.Children, fn)
	}
}
