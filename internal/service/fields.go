// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"github.com/muratkanik/rotabiletiket/internal/model"
	"github.com/muratkanik/rotabiletiket/internal/resolver"
)

// Localized content fields per collection. Everything not listed here
// (ids, flags, positions, images, specs) always comes from the base record.

var productFields = []resolver.Field[model.Product, model.ProductTranslation]{
	{Name: "title", Base: func(p *model.Product) *string { return &p.Title }, Translated: func(t *model.ProductTranslation) *string { return t.Title }},
	{Name: "summary", Base: func(p *model.Product) *string { return &p.Summary }, Translated: func(t *model.ProductTranslation) *string { return t.Summary }},
	{Name: "description", Base: func(p *model.Product) *string { return &p.Description }, Translated: func(t *model.ProductTranslation) *string { return t.Description }},
	{Name: "content_html", Base: func(p *model.Product) *string { return &p.ContentHTML }, Translated: func(t *model.ProductTranslation) *string { return t.ContentHTML }},
	{Name: "seo_title", Base: func(p *model.Product) *string { return &p.SEOTitle }, Translated: func(t *model.ProductTranslation) *string { return t.SEOTitle }},
	{Name: "seo_description", Base: func(p *model.Product) *string { return &p.SEODescription }, Translated: func(t *model.ProductTranslation) *string { return t.SEODescription }},
	{Name: "keywords", Base: func(p *model.Product) *string { return &p.Keywords }, Translated: func(t *model.ProductTranslation) *string { return t.Keywords }},
}

var categoryFields = []resolver.Field[model.Category, model.CategoryTranslation]{
	{Name: "title", Base: func(c *model.Category) *string { return &c.Title }, Translated: func(t *model.CategoryTranslation) *string { return t.Title }},
	{Name: "description", Base: func(c *model.Category) *string { return &c.Description }, Translated: func(t *model.CategoryTranslation) *string { return t.Description }},
	{Name: "seo_title", Base: func(c *model.Category) *string { return &c.SEOTitle }, Translated: func(t *model.CategoryTranslation) *string { return t.SEOTitle }},
	{Name: "seo_description", Base: func(c *model.Category) *string { return &c.SEODescription }, Translated: func(t *model.CategoryTranslation) *string { return t.SEODescription }},
}

var sectorFields = []resolver.Field[model.Sector, model.SectorTranslation]{
	{Name: "title", Base: func(s *model.Sector) *string { return &s.Title }, Translated: func(t *model.SectorTranslation) *string { return t.Title }},
	{Name: "summary", Base: func(s *model.Sector) *string { return &s.Summary }, Translated: func(t *model.SectorTranslation) *string { return t.Summary }},
	{Name: "content_html", Base: func(s *model.Sector) *string { return &s.ContentHTML }, Translated: func(t *model.SectorTranslation) *string { return t.ContentHTML }},
	{Name: "seo_title", Base: func(s *model.Sector) *string { return &s.SEOTitle }, Translated: func(t *model.SectorTranslation) *string { return t.SEOTitle }},
	{Name: "seo_description", Base: func(s *model.Sector) *string { return &s.SEODescription }, Translated: func(t *model.SectorTranslation) *string { return t.SEODescription }},
}

var articleFields = []resolver.Field[model.Article, model.ArticleTranslation]{
	{Name: "title", Base: func(a *model.Article) *string { return &a.Title }, Translated: func(t *model.ArticleTranslation) *string { return t.Title }},
	{Name: "summary", Base: func(a *model.Article) *string { return &a.Summary }, Translated: func(t *model.ArticleTranslation) *string { return t.Summary }},
	{Name: "content_html", Base: func(a *model.Article) *string { return &a.ContentHTML }, Translated: func(t *model.ArticleTranslation) *string { return t.ContentHTML }},
	{Name: "seo_title", Base: func(a *model.Article) *string { return &a.SEOTitle }, Translated: func(t *model.ArticleTranslation) *string { return t.SEOTitle }},
	{Name: "seo_description", Base: func(a *model.Article) *string { return &a.SEODescription }, Translated: func(t *model.ArticleTranslation) *string { return t.SEODescription }},
	{Name: "keywords", Base: func(a *model.Article) *string { return &a.Keywords }, Translated: func(t *model.ArticleTranslation) *string { return t.Keywords }},
}

var heroSlideFields = []resolver.Field[model.HeroSlide, model.HeroSlideTranslation]{
	{Name: "title", Base: func(h *model.HeroSlide) *string { return &h.Title }, Translated: func(t *model.HeroSlideTranslation) *string { return t.Title }},
	{Name: "subtitle", Base: func(h *model.HeroSlide) *string { return &h.Subtitle }, Translated: func(t *model.HeroSlideTranslation) *string { return t.Subtitle }},
	{Name: "button_text", Base: func(h *model.HeroSlide) *string { return &h.ButtonText }, Translated: func(t *model.HeroSlideTranslation) *string { return t.ButtonText }},
}

var pageFields = []resolver.Field[model.Page, model.PageTranslation]{
	{Name: "title", Base: func(p *model.Page) *string { return &p.Title }, Translated: func(t *model.PageTranslation) *string { return t.Title }},
	{Name: "content_md", Base: func(p *model.Page) *string { return &p.ContentMD }, Translated: func(t *model.PageTranslation) *string { return t.ContentMD }},
	{Name: "seo_title", Base: func(p *model.Page) *string { return &p.SEOTitle }, Translated: func(t *model.PageTranslation) *string { return t.SEOTitle }},
	{Name: "seo_description", Base: func(p *model.Page) *string { return &p.SEODescription }, Translated: func(t *model.PageTranslation) *string { return t.SEODescription }},
}
