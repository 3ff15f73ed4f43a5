// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/muratkanik/rotabiletiket/internal/handler"
	"github.com/muratkanik/rotabiletiket/internal/locale"
	"github.com/muratkanik/rotabiletiket/internal/middleware"
	"github.com/muratkanik/rotabiletiket/internal/model"
	"github.com/muratkanik/rotabiletiket/internal/resolver"
	"github.com/muratkanik/rotabiletiket/internal/seo"
	"github.com/muratkanik/rotabiletiket/internal/service"
)

// DetailResponse is a resolved record with its SEO metadata.
type DetailResponse[T any] struct {
	Content T         `json:"content"`
	SEO     *seo.Meta `json:"seo"`
}

// LocalesResponse lists the supported locales.
type LocalesResponse struct {
	Default   locale.Code   `json:"default"`
	Preferred locale.Code   `json:"preferred"`
	Locales   []LocaleEntry `json:"locales"`
}

// LocaleEntry is one supported locale and its homepage path.
type LocaleEntry struct {
	locale.Info
	Home string `json:"home"`
}

// requestLocale returns the locale set by the routing middleware and
// announces it in Content-Language.
func requestLocale(w http.ResponseWriter, r *http.Request) locale.Code {
	code := middleware.LocaleFromContext(r.Context())
	w.Header().Set("Content-Language", string(code))
	return code
}

// pageParams returns the page meta and the limit/offset of a listing.
func pageParams(r *http.Request) (*Meta, int, int) {
	page := handler.ParsePageParam(r)
	perPage := handler.ParsePerPageParam(r)
	return &Meta{Page: page, PerPage: perPage}, perPage, (page - 1) * perPage
}

// Locales handles GET /api/v1/locales.
func (h *Handler) Locales(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Vary", "Accept-Language")

	infos := locale.All()
	entries := make([]LocaleEntry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, LocaleEntry{
			Info: info,
			Home: resolver.Path(resolver.SectionHome, info.Code, ""),
		})
	}

	WriteSuccess(w, LocalesResponse{
		Default:   locale.Default,
		Preferred: locale.MatchAcceptLanguage(r.Header.Get("Accept-Language")),
		Locales:   entries,
	}, nil)
}

// Home handles GET /api/v1/ and /api/v1/{lang}.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	code := requestLocale(w, r)

	home, err := h.content.Home(r.Context(), code)
	if err != nil {
		writeError(w, r, err, "Home")
		return
	}
	WriteSuccess(w, DetailResponse[*service.Home]{Content: home, SEO: seo.HomeMeta(code, h.site)}, nil)
}

// ListProducts handles GET /products?category=&featured=&page=&per_page=.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	code := requestLocale(w, r)
	meta, limit, offset := pageParams(r)

	items, err := h.content.Products(r.Context(), code, service.ProductQuery{
		Category:     r.URL.Query().Get("category"),
		FeaturedOnly: handler.ParseBoolParam(r, "featured"),
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		writeError(w, r, err, "Category")
		return
	}
	WriteSuccess(w, items, meta)
}

// GetProduct handles GET /products/{slug}.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	code := requestLocale(w, r)

	p, err := h.content.Product(r.Context(), chi.URLParam(r, "slug"), code)
	if err != nil {
		writeError(w, r, err, "Product")
		return
	}
	WriteSuccess(w, DetailResponse[*service.ProductDetail]{Content: p, SEO: seo.ProductMeta(p, h.site)}, nil)
}

// ListCategories handles GET /categories; ?tree=true nests subcategories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	code := requestLocale(w, r)

	if handler.ParseBoolParam(r, "tree") {
		tree, err := h.content.CategoryTree(r.Context(), code)
		if err != nil {
			writeError(w, r, err, "Category")
			return
		}
		WriteSuccess(w, tree, nil)
		return
	}

	items, err := h.content.Categories(r.Context(), code)
	if err != nil {
		writeError(w, r, err, "Category")
		return
	}
	WriteSuccess(w, items, nil)
}

// GetCategory handles GET /categories/{slug}.
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	code := requestLocale(w, r)

	c, err := h.content.Category(r.Context(), chi.URLParam(r, "slug"), code)
	if err != nil {
		writeError(w, r, err, "Category")
		return
	}
	WriteSuccess(w, DetailResponse[*service.CategoryDetail]{Content: c, SEO: seo.CategoryMeta(c, h.site)}, nil)
}

// ListSectors handles GET /sectors.
func (h *Handler) ListSectors(w http.ResponseWriter, r *http.Request) {
	code := requestLocale(w, r)

	items, err := h.content.Sectors(r.Context(), code)
	if err != nil {
		writeError(w, r, err, "Sector")
		return
	}
	WriteSuccess(w, items, nil)
}

// GetSector handles GET /sectors/{slug}.
func (h *Handler) GetSector(w http.ResponseWriter, r *http.Request) {
	code := requestLocale(w, r)

	s, err := h.content.Sector(r.Context(), chi.URLParam(r, "slug"), code)
	if err != nil {
		writeError(w, r, err, "Sector")
		return
	}
	WriteSuccess(w, DetailResponse[*service.Detail[model.Sector]]{Content: s, SEO: seo.SectorMeta(s, h.site)}, nil)
}

// ListArticles handles GET /blog?page=&per_page=.
func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	code := requestLocale(w, r)
	meta, limit, offset := pageParams(r)

	items, err := h.content.Articles(r.Context(), code, limit, offset)
	if err != nil {
		writeError(w, r, err, "Article")
		return
	}
	WriteSuccess(w, items, meta)
}

// GetArticle handles GET /blog/{slug}.
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	code := requestLocale(w, r)

	a, err := h.content.Article(r.Context(), chi.URLParam(r, "slug"), code)
	if err != nil {
		writeError(w, r, err, "Article")
		return
	}
	WriteSuccess(w, DetailResponse[*service.Detail[model.Article]]{Content: a, SEO: seo.ArticleMeta(a, h.site)}, nil)
}

// ListPages handles GET /pages.
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	code := requestLocale(w, r)

	items, err := h.content.Pages(r.Context(), code)
	if err != nil {
		writeError(w, r, err, "Page")
		return
	}
	WriteSuccess(w, items, nil)
}

// GetPage handles GET /pages/{slug}.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	code := requestLocale(w, r)

	p, err := h.content.Page(r.Context(), chi.URLParam(r, "slug"), code)
	if err != nil {
		writeError(w, r, err, "Page")
		return
	}
	WriteSuccess(w, DetailResponse[*service.PageDetail]{Content: p, SEO: seo.PageMeta(p, h.site)}, nil)
}

// ListHeroSlides handles GET /hero-slides.
func (h *Handler) ListHeroSlides(w http.ResponseWriter, r *http.Request) {
	code := requestLocale(w, r)

	slides, err := h.content.HeroSlides(r.Context(), code)
	if err != nil {
		writeError(w, r, err, "Hero slide")
		return
	}
	WriteSuccess(w, slides, nil)
}
